package memory

import (
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/doom-runtime/errors"
)

// PageSize is the size of one linear memory page in bytes.
const PageSize = 65536

// Bridge provides bounds-checked, copying access to guest linear memory.
type Bridge struct {
	mem api.Memory
}

// NewBridge wraps a wazero memory. It returns nil for a nil memory.
func NewBridge(mem api.Memory) *Bridge {
	if mem == nil {
		return nil
	}
	return &Bridge{mem: mem}
}

// Size returns the current memory size in bytes.
func (b *Bridge) Size() uint32 {
	return b.mem.Size()
}

// Pages returns the current memory size in pages.
func (b *Bridge) Pages() uint32 {
	return b.mem.Size() / PageSize
}

func (b *Bridge) check(offset, length uint32) error {
	size := b.mem.Size()
	// 64-bit sum: offset+length cannot wrap.
	if uint64(offset)+uint64(length) > uint64(size) {
		return errors.OutOfBounds(offset, length, size)
	}
	return nil
}

// Read copies length bytes starting at offset.
func (b *Bridge) Read(offset, length uint32) ([]byte, error) {
	if err := b.check(offset, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}
	view, ok := b.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(offset, length, b.mem.Size())
	}
	out := make([]byte, length)
	copy(out, view)
	return out, nil
}

// ReadString copies length bytes starting at offset and decodes them as
// UTF-8 text.
func (b *Bridge) ReadString(offset, length uint32) (string, error) {
	data, err := b.Read(offset, length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(offset, data)
	}
	return string(data), nil
}

// ReadInto copies len(dst) bytes starting at offset into dst.
// dst is left untouched on failure.
func (b *Bridge) ReadInto(offset uint32, dst []byte) error {
	length := uint32(len(dst))
	if uint64(len(dst)) != uint64(length) {
		return errors.OutOfBounds(offset, ^uint32(0), b.mem.Size())
	}
	if err := b.check(offset, length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	view, ok := b.mem.Read(offset, length)
	if !ok {
		return errors.OutOfBounds(offset, length, b.mem.Size())
	}
	copy(dst, view)
	return nil
}

// Write copies data into memory at offset.
func (b *Bridge) Write(offset uint32, data []byte) error {
	length := uint32(len(data))
	if uint64(len(data)) != uint64(length) {
		return errors.OutOfBounds(offset, ^uint32(0), b.mem.Size())
	}
	if err := b.check(offset, length); err != nil {
		return err
	}
	if !b.mem.Write(offset, data) {
		return errors.OutOfBounds(offset, length, b.mem.Size())
	}
	return nil
}
