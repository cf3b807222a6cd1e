package engine

import (
	"context"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"

	doom "github.com/wippyai/doom-runtime"
	"github.com/wippyai/doom-runtime/errors"
	"github.com/wippyai/doom-runtime/host"
)

// Engine owns the wazero runtime the guest runs in.
type Engine struct {
	runtime wazero.Runtime
	cache   wazero.CompilationCache
	cfg     Config
	mu      sync.Mutex
	active  *Instance
}

// Config holds configuration for engine creation
type Config struct {
	// Now is the clock host functions measure elapsed time with.
	// Defaults to time.Now.
	Now func() time.Time

	// CompilationCacheDir persists compiled guest code between runs.
	// Empty keeps the cache in memory.
	CompilationCacheDir string

	// GuestName is the module name the guest is instantiated under.
	// Defaults to "doom".
	GuestName string

	// MemoryPages is the minimum size of the shared memory in pages
	// (64KiB each). The guest's declared minimum wins when larger.
	// 0 means doom.MemoryPages (102).
	MemoryPages uint32

	// MemoryLimitPages caps memory growth, in pages.
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	if out.GuestName == "" {
		out.GuestName = "doom"
	}
	if out.MemoryPages == 0 {
		out.MemoryPages = doom.MemoryPages
	}
	return out
}

// New creates an engine. A nil cfg uses the defaults.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	c := cfg.withDefaults()

	if c.MemoryLimitPages > 0 && c.MemoryPages > c.MemoryLimitPages {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Detail("memory of %d pages exceeds the limit of %d pages", c.MemoryPages, c.MemoryLimitPages).
			Build()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}

	var cache wazero.CompilationCache
	if c.CompilationCacheDir != "" {
		var err error
		cache, err = wazero.NewCompilationCacheWithDir(c.CompilationCacheDir)
		if err != nil {
			return nil, errors.Load("open compilation cache", err)
		}
		runtimeCfg = runtimeCfg.WithCompilationCache(cache)
	}

	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cache:   cache,
		cfg:     c,
	}, nil
}

// Runtime exposes the underlying wazero runtime.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// Load compiles binary and links it against table.
func (e *Engine) Load(ctx context.Context, binary []byte, table *host.Table) (*Instance, error) {
	mod, err := e.Compile(ctx, binary)
	if err != nil {
		return nil, err
	}
	inst, err := e.Link(ctx, mod, table)
	if err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}
	inst.ownsModule = true
	return inst, nil
}

// Close releases the runtime and everything instantiated in it.
func (e *Engine) Close(ctx context.Context) error {
	err := e.runtime.Close(ctx)
	if e.cache != nil {
		if cerr := e.cache.Close(ctx); err == nil {
			err = cerr
		}
	}
	return err
}
