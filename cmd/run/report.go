package main

import (
	stderrors "errors"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/doom-runtime/errors"
)

type report struct {
	title   lipgloss.Style
	name    lipgloss.Style
	sig     lipgloss.Style
	missing lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
}

func newReport(r *lipgloss.Renderer) *report {
	return &report{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		name:    r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		sig:     r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		missing: r.NewStyle().Foreground(lipgloss.Color("#FFA500")),
		err:     r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		help:    r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// Render formats a fatal error for the terminal.
func (r *report) Render(err error) string {
	var b strings.Builder
	b.WriteString(r.title.Render(headline(err)))
	b.WriteString("\n\n")

	var linkErr *errors.LinkError
	if stderrors.As(err, &linkErr) && len(linkErr.Problems) > 0 {
		problems := append([]errors.ImportProblem(nil), linkErr.Problems...)
		sort.SliceStable(problems, func(i, j int) bool {
			return problems[i].Namespace < problems[j].Namespace
		})
		for _, p := range problems {
			b.WriteString("  ")
			b.WriteString(r.name.Render(p.Namespace + "." + p.Name))
			b.WriteString(" ")
			b.WriteString(r.sig.Render(p.Want))
			b.WriteString(" ")
			if p.Missing() {
				b.WriteString(r.missing.Render("not provided"))
			} else {
				b.WriteString(r.missing.Render("host has " + p.Have))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(r.err.Render(err.Error()))
	b.WriteString("\n")
	if h := hint(err); h != "" {
		b.WriteString(r.help.Render(h))
		b.WriteString("\n")
	}
	return b.String()
}

func headline(err error) string {
	var linkErr *errors.LinkError
	switch {
	case stderrors.As(err, &linkErr):
		return "guest imports could not be satisfied"
	case stderrors.Is(err, errors.ErrCompile):
		return "guest binary failed to compile"
	case stderrors.Is(err, errors.ErrExportNotFound):
		return "guest export missing"
	case stderrors.Is(err, errors.ErrTrap):
		return "guest trapped"
	default:
		return "runtime error"
	}
}

func hint(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrCompile):
		return "doom.wasm is embedded at build time; rebuild with a valid module."
	case stderrors.Is(err, errors.ErrExportNotFound):
		return "the guest must export main(i32, i32) and doom_loop_step()."
	default:
		return ""
	}
}
