// Package host provides the functions the guest imports and the
// execution context they share.
//
// A Table lists bindings by (namespace, name) with their core signatures.
// Table.Instantiate registers one wazero host module per namespace, with
// every function bound to a single Context holding the start instant and
// the shared memory bridge.
//
// DefaultTable supplies the five "js" imports:
//
//	js_console_log(offset, length i32)  text line to stdout
//	js_stdout(offset, length i32)       text line to stdout
//	js_stderr(offset, length i32)       text line to the error writer
//	js_milliseconds_since_start() i32   wrapping 32-bit elapsed time
//	js_draw_screen(ptr i32)             frame handed to the Presenter
//
// Host functions never trap the guest. A text slice that is out of range
// or not valid UTF-8 is reported through Config.OnFault and the call
// returns normally.
package host
