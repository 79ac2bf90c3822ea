// Package passes runs function passes over IR modules.
package passes

import (
	"fmt"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/minic/internal/ir"
)

// Pass describes a single function pass.
type Pass struct {
	Name string
	Fn   func(f *ir.Func) error
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump IR before this pass ("*" for all)
	DumpAfter  string    // dump IR after this pass ("*" for all)
	DumpFunc   string    // restrict dumps to this function name
	Dump       io.Writer // dump destination; os.Stderr if nil
	Verify     bool      // verify IR before and after each pass
}

// Run executes the given passes on every function of m, pass by pass.
func Run(m *ir.Module, passes []Pass, cfg Config) error {
	for _, f := range m.Funcs {
		if err := RunFunc(f, passes, cfg); err != nil {
			return errors.Wrap(err, "func %v", f.Name)
		}
	}
	return nil
}

// RunFunc executes the given passes on f in order.
func RunFunc(f *ir.Func, passes []Pass, cfg Config) error {
	w := cfg.Dump
	if w == nil {
		w = os.Stderr
	}

	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- before %s (%s) ---\n", p.Name, f.Name)
			_ = ir.FprintFunc(w, f)
			fmt.Fprintln(w)
		}

		if cfg.Verify {
			if err := ir.Verify(f); err != nil {
				return errors.Wrap(err, "verify before %s", p.Name)
			}
		}

		before := f.NumInstrs()

		if err := p.Fn(f); err != nil {
			return errors.Wrap(err, "pass %s", p.Name)
		}

		tlog.V("passes").Printw("pass done", "pass", p.Name, "func", f.Name, "instrs_before", before, "instrs_after", f.NumInstrs())

		if cfg.Verify {
			if err := ir.Verify(f); err != nil {
				return errors.Wrap(err, "verify after %s", p.Name)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- after %s (%s) ---\n", p.Name, f.Name)
			_ = ir.FprintFunc(w, f)
			fmt.Fprintln(w)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
