package doomruntime

// Linear memory
const (
	// NamespaceEnv is the import module that provides the shared memory.
	NamespaceEnv = "env"

	// ImportMemory is the shared linear memory, allocated by the host.
	// Type: memory, minimum MemoryPages, no maximum.
	ImportMemory = "memory"

	// MemoryPages is the minimum page count of the shared memory.
	MemoryPages = 102

	// PageSize is the size of one linear memory page in bytes.
	PageSize = 65536
)

// Host function imports
const (
	// NamespaceJS is the import module holding the host functions.
	NamespaceJS = "js"

	// ImportConsoleLog prints guest text to the host console.
	// Signature: js_console_log(offset: i32, length: i32) -> ()
	ImportConsoleLog = "js_console_log"

	// ImportStdout writes guest text to standard output.
	// Signature: js_stdout(offset: i32, length: i32) -> ()
	ImportStdout = "js_stdout"

	// ImportStderr writes guest text to the error stream.
	// Signature: js_stderr(offset: i32, length: i32) -> ()
	ImportStderr = "js_stderr"

	// ImportMillisecondsSinceStart reports wall-clock time since the
	// execution context was created, truncated to 32 bits.
	// Signature: js_milliseconds_since_start() -> i32
	ImportMillisecondsSinceStart = "js_milliseconds_since_start"

	// ImportDrawScreen hands a rendered frame to the host.
	// Signature: js_draw_screen(offset: i32) -> ()
	ImportDrawScreen = "js_draw_screen"
)

// Guest exports
const (
	// ExportMain initializes the game.
	// Signature: main(argc: i32, argv: i32) -> guest-defined
	ExportMain = "main"

	// ExportStep advances the simulation by one tick.
	// Signature: doom_loop_step() -> guest-defined
	ExportStep = "doom_loop_step"
)
