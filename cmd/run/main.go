package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	doom "github.com/wippyai/doom-runtime"
	"github.com/wippyai/doom-runtime/engine"
	"github.com/wippyai/doom-runtime/host"
	"github.com/wippyai/doom-runtime/loop"
)

func main() {
	log := newLogger(os.Stderr)
	engine.SetLogger(log)
	host.SetLogger(log)
	loop.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, log)
	stop()
	_ = log.Sync()

	if err != nil {
		rep := newReport(lipgloss.NewRenderer(os.Stderr))
		fmt.Fprintln(os.Stderr, rep.Render(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger) error {
	eng, err := engine.New(ctx, nil)
	if err != nil {
		return err
	}
	defer eng.Close(ctx)

	reg := prometheus.NewRegistry()
	metrics := loop.NewMetrics(reg)
	defer logSummary(log, reg)

	table := host.DefaultTable(host.Config{
		OnFault: func(name string, err error) {
			metrics.HostFault(name, err)
			host.LogFault(name, err)
		},
	})

	inst, err := eng.Load(ctx, doom.GuestWASM, table)
	if err != nil {
		return err
	}
	defer inst.Close(ctx)
	inst.Module().Inspect(log)

	cfg := loop.DefaultConfig()
	cfg.Metrics = metrics
	return loop.New(loop.InstanceGuest(inst, 0, 0), cfg).Run(ctx)
}

// newLogger writes human-readable colored output to a terminal and JSON
// otherwise.
func newLogger(f *os.File) *zap.Logger {
	var enc zapcore.Encoder
	if term.IsTerminal(int(f.Fd())) {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(f), zap.InfoLevel))
}

// logSummary logs the final value of every loop counter.
func logSummary(log *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		log.Warn("gather metrics", zap.Error(err))
		return
	}

	fields := make([]zap.Field, 0, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += "." + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64(name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields, zap.Uint64(name+".count", m.GetHistogram().GetSampleCount()))
			}
		}
	}
	log.Info("run summary", fields...)
}
