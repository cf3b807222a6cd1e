package wasmgen

// Opcodes used by synthesized function bodies.
const (
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpEnd         byte = 0x0b
	OpCall        byte = 0x10
	OpDrop        byte = 0x1a
	OpLocalGet    byte = 0x20
	OpI32Const    byte = 0x41
	OpMemoryGrow  byte = 0x40
)

// Code joins instructions into a function body expression terminated by end.
func Code(instrs ...[]byte) []byte {
	var body []byte
	for _, in := range instrs {
		body = append(body, in...)
	}
	return append(body, OpEnd)
}

// I32Const pushes a constant.
func I32Const(v int32) []byte {
	return append([]byte{OpI32Const}, EncodeSLEB128(v)...)
}

// Call calls the function at idx.
func Call(idx uint32) []byte {
	return append([]byte{OpCall}, EncodeULEB128(idx)...)
}

// LocalGet pushes local idx.
func LocalGet(idx uint32) []byte {
	return append([]byte{OpLocalGet}, EncodeULEB128(idx)...)
}

// Drop discards the top of the stack.
func Drop() []byte {
	return []byte{OpDrop}
}

// Unreachable traps.
func Unreachable() []byte {
	return []byte{OpUnreachable}
}

// MemoryGrow grows memory 0 by the page count on the stack.
func MemoryGrow() []byte {
	return []byte{OpMemoryGrow, 0x00}
}
