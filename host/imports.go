package host

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	doom "github.com/wippyai/doom-runtime"
	"github.com/wippyai/doom-runtime/errors"
)

var (
	i32       = api.ValueTypeI32
	textArgs  = []api.ValueType{i32, i32}
	textNames = []string{"offset", "length"}
)

// Config tunes the default import table.
type Config struct {
	// Stdout receives js_console_log and js_stdout text. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives js_stderr text. Defaults to os.Stdout: the guest's
	// error text shares the console stream.
	Stderr io.Writer

	// Presenter handles js_draw_screen. Defaults to NoOp.
	Presenter Presenter

	// OnFault is called when a host function cannot complete, for example
	// when the guest passes an out-of-range text slice. The call still
	// returns normally to the guest. Defaults to logging the fault.
	OnFault func(name string, err error)
}

func (c Config) withDefaults() Config {
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stdout
	}
	if c.Presenter == nil {
		c.Presenter = NoOp{}
	}
	if c.OnFault == nil {
		c.OnFault = LogFault
	}
	return c
}

// LogFault reports a host function fault through the package logger.
func LogFault(name string, err error) {
	Logger().Error("host function fault", zap.String("function", name), zap.Error(err))
}

// DefaultTable returns the five functions the guest imports from the
// "js" namespace.
func DefaultTable(cfg Config) *Table {
	cfg = cfg.withDefaults()

	return MustTable(
		Binding{
			Namespace:  doom.NamespaceJS,
			Name:       doom.ImportConsoleLog,
			Params:     textArgs,
			ParamNames: textNames,
			Func:       textWriter(doom.ImportConsoleLog, cfg.Stdout, cfg.OnFault),
		},
		Binding{
			Namespace:  doom.NamespaceJS,
			Name:       doom.ImportStdout,
			Params:     textArgs,
			ParamNames: textNames,
			Func:       textWriter(doom.ImportStdout, cfg.Stdout, cfg.OnFault),
		},
		Binding{
			Namespace:  doom.NamespaceJS,
			Name:       doom.ImportStderr,
			Params:     textArgs,
			ParamNames: textNames,
			Func:       textWriter(doom.ImportStderr, cfg.Stderr, cfg.OnFault),
		},
		Binding{
			Namespace: doom.NamespaceJS,
			Name:      doom.ImportMillisecondsSinceStart,
			Results:   []api.ValueType{i32},
			Func:      millisecondsSinceStart,
		},
		Binding{
			Namespace:  doom.NamespaceJS,
			Name:       doom.ImportDrawScreen,
			Params:     []api.ValueType{i32},
			ParamNames: []string{"ptr"},
			Func:       drawScreen(cfg.Presenter),
		},
	)
}

// textWriter reads (offset, length) UTF-8 text from guest memory and writes
// it to w as one line.
func textWriter(name string, w io.Writer, onFault func(string, error)) Func {
	return func(_ context.Context, ec *Context, stack []uint64) {
		offset, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])

		mem := ec.Memory()
		if mem == nil {
			onFault(name, errors.InvalidInput(errors.PhaseHost, "guest memory is not attached"))
			return
		}
		text, err := mem.ReadString(offset, length)
		if err != nil {
			onFault(name, err)
			return
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			onFault(name, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "write guest text"))
		}
	}
}

func millisecondsSinceStart(_ context.Context, ec *Context, stack []uint64) {
	stack[0] = api.EncodeI32(ec.ElapsedMilliseconds())
}

func drawScreen(p Presenter) Func {
	return func(ctx context.Context, ec *Context, stack []uint64) {
		p.Present(ctx, ec, api.DecodeU32(stack[0]))
	}
}
