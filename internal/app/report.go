package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/vk/substationc/internal/diag"
)

type palette struct {
	ok, warn, fail, faint *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed, color.Bold),
		faint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.ok, p.warn, p.fail, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// colorEnabled reports whether output to the terminal should be coloured.
func (a *App) colorEnabled() bool {
	return !a.config.NoColor && !color.NoColor
}

// report renders the diagnostics of every result followed by a one-line
// summary per document and a total, in input order. It returns ErrFailed
// if any document failed.
func (a *App) report(results []*FileResult) error {
	colored := a.colorEnabled()
	p := newPalette(colored)

	failed := 0
	for _, r := range results {
		if len(r.Diagnostics) > 0 {
			sources := map[string][]byte{r.Path: r.Source}
			if err := diag.Write(a.errW, r.Diagnostics, sources, 0, colored); err != nil {
				return err
			}
		} else if r.Failed() {
			p.fail.Fprintf(a.errW, "Error: %v\n\n", r.Err)
		}

		warnings := len(r.Diagnostics.Warnings())
		switch {
		case r.Failed():
			failed++
			p.fail.Fprintf(a.errW, "✗ %s", r.Path)
			fmt.Fprintf(a.errW, ": %d error(s), %d warning(s)\n", max(1, len(r.Diagnostics.Errors())), warnings)
		case warnings > 0:
			p.warn.Fprintf(a.errW, "! %s", r.Path)
			fmt.Fprintf(a.errW, ": %d warning(s)\n", warnings)
		default:
			p.ok.Fprintf(a.errW, "✓ %s", r.Path)
			p.faint.Fprintln(a.errW, " ok")
		}
	}

	fmt.Fprintf(a.errW, "%d of %d document(s) compiled\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d document(s)", ErrFailed, failed, len(results))
	}
	return nil
}
