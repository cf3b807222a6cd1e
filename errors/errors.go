package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // guest bytecode validation
	PhaseLinking Phase = "linking" // import resolution
	PhaseMemory  Phase = "memory"  // guest memory access
	PhaseHost    Phase = "host"    // host function execution
	PhaseRuntime Phase = "runtime" // guest calls
	PhaseLoad    Phase = "load"    // engine and shared memory setup
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData       Kind = "invalid_data"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindMissingImport     Kind = "missing_import"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindTrap              Kind = "trap"
	KindNotFound          Kind = "not_found"
	KindTypeMismatch      Kind = "type_mismatch"
	KindInvalidInput      Kind = "invalid_input"
	KindInstantiation     Kind = "instantiation"
	KindRegistration      Kind = "registration"
)

// Sentinels for errors.Is. Matching compares Phase and Kind only.
var (
	ErrCompile        = &Error{Phase: PhaseCompile, Kind: KindInvalidData}
	ErrOutOfBounds    = &Error{Phase: PhaseMemory, Kind: KindOutOfBounds}
	ErrTextDecode     = &Error{Phase: PhaseMemory, Kind: KindInvalidUTF8}
	ErrTrap           = &Error{Phase: PhaseRuntime, Kind: KindTrap}
	ErrExportNotFound = &Error{Phase: PhaseRuntime, Kind: KindNotFound}
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the call path, e.g. the host function name
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Compile creates a compile error for malformed or unsupported guest bytecode
func Compile(cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindInvalidData,
		Detail: "compile guest module",
		Cause:  cause,
	}
}

// OutOfBounds creates a guest memory range error
func OutOfBounds(offset, length uint32, size uint32) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d+%d) exceeds memory size %d", offset, offset, length, size),
		Value:  uint64(offset) + uint64(length),
	}
}

// InvalidUTF8 creates a text decode error
func InvalidUTF8(offset uint32, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence at offset %d: %x", offset, preview),
		Value:  offset,
	}
}

// Trap creates a guest trap error for a failed export call
func Trap(export string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTrap,
		Path:   []string{export},
		Detail: "guest call failed",
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a host function registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s.%s", namespace, name),
		Cause:  cause,
	}
}

// Load creates an engine setup error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ImportProblem describes one guest import the host could not satisfy.
type ImportProblem struct {
	Namespace string // e.g. "js"
	Name      string // e.g. "js_console_log"
	Want      string // signature the guest declares
	Have      string // signature the host supplies, empty when missing
}

// Missing reports whether the host supplied nothing under this name.
func (p ImportProblem) Missing() bool {
	return p.Have == ""
}

// LinkError is returned when the guest declares imports the host table
// cannot satisfy, or when instantiation against the table fails.
type LinkError struct {
	Cause    error
	Problems []ImportProblem
}

// NewLinkError creates a link error from a list of problems.
func NewLinkError(problems []ImportProblem) *LinkError {
	return &LinkError{Problems: problems}
}

func (e *LinkError) Error() string {
	if len(e.Problems) == 0 {
		if e.Cause != nil {
			return "[linking] instantiation: " + e.Cause.Error()
		}
		return "[linking] missing_import: no imports specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "cannot satisfy %d guest import(s):\n", len(e.Problems))

	byNS := make(map[string][]ImportProblem)
	var nsOrder []string
	for _, p := range e.Problems {
		if _, exists := byNS[p.Namespace]; !exists {
			nsOrder = append(nsOrder, p.Namespace)
		}
		byNS[p.Namespace] = append(byNS[p.Namespace], p)
	}
	sort.Strings(nsOrder)

	for _, ns := range nsOrder {
		b.WriteString("\n  ")
		b.WriteString(ns)
		b.WriteString(":\n")
		for _, p := range byNS[ns] {
			b.WriteString("    - ")
			b.WriteString(p.Name)
			b.WriteByte(' ')
			b.WriteString(p.Want)
			if p.Missing() {
				b.WriteString(" (missing)")
			} else {
				b.WriteString(" (host has ")
				b.WriteString(p.Have)
				b.WriteByte(')')
			}
			b.WriteByte('\n')
		}
	}

	if e.Cause != nil {
		b.WriteString("\ncaused by: ")
		b.WriteString(e.Cause.Error())
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Unwrap returns the instantiation failure, if any
func (e *LinkError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type
func (e *LinkError) Is(target error) bool {
	_, ok := target.(*LinkError)
	return ok
}
