// Package errors provides structured error types for the doom runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Matching with errors.Is compares Phase and Kind, so the exported sentinels
// classify any error produced by the runtime:
//
//	if errors.Is(err, errors.ErrOutOfBounds) { ... } // guest asked for bytes past memory
//	if errors.Is(err, errors.ErrTextDecode) { ... }  // guest bytes were not UTF-8
//	if errors.Is(err, errors.ErrTrap) { ... }        // guest code faulted
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseHost, errors.KindInvalidInput).
//		Path("js_console_log").
//		Detail("negative length %d", n).
//		Build()
//
// Link failures are reported as a single *LinkError listing every import the
// host table could not satisfy, grouped by namespace.
package errors
