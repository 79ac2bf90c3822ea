// Package compiler runs the whole front end: tokenize, parse, check,
// lower to IR and run the IR passes.
package compiler

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/minic/internal/check"
	"github.com/you-not-fish/minic/internal/ir"
	"github.com/you-not-fish/minic/internal/ir/passes"
	"github.com/you-not-fish/minic/internal/syntax"
)

// Stage names the compilation stage that produced a diagnostic.
type Stage string

const (
	StageLex   Stage = "lex"
	StageParse Stage = "parse"
	StageCheck Stage = "check"
	StageLower Stage = "lower"
)

// ErrDiagnostics is returned, wrapped, when the source has lexical,
// syntax or semantic errors.
var ErrDiagnostics = errors.New("source has errors")

// Diagnostic is a positioned problem found in the source.
type Diagnostic struct {
	Stage Stage
	Pos   syntax.Pos
	Msg   string
}

func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Msg
}

// Options configure a compilation.
type Options struct {
	ModuleName string // defaults to the file name without extension
	OptLevel   int    // pass pipeline level, 0..passes.MaxLevel

	Verify     bool   // verify IR before and after every pass
	DumpBefore string // pass name or "*"
	DumpAfter  string // pass name or "*"
	Dump       io.Writer
}

// Result holds everything a compilation produced. Fields of stages that
// did not run are nil.
type Result struct {
	Tokens []syntax.Token
	Prog   *syntax.Program
	Info   *check.Info
	Module *ir.Module

	Diags []Diagnostic
}

// Failed reports whether any diagnostic stops compilation.
// Lowering diagnostics do not.
func (r *Result) Failed() bool {
	for _, d := range r.Diags {
		if d.Stage != StageLower {
			return true
		}
	}
	return false
}

// Errors renders diagnostics one per line in source order.
func (r *Result) Errors() string {
	var b strings.Builder
	for _, d := range r.Diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// CompileFile reads and compiles the named file.
func CompileFile(ctx context.Context, name string, opts Options) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, opts)
}

// Compile compiles src. Every call uses fresh scanner, parser, checker
// and builder instances, so concurrent calls do not interact.
//
// If the source has lexical, syntax or semantic errors the result holds
// them and the returned error wraps ErrDiagnostics. The result is
// returned in both cases.
func Compile(ctx context.Context, name string, src []byte, opts Options) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name, "size", len(src))
	defer tr.Finish("err", &err)

	if opts.OptLevel < 0 || opts.OptLevel > passes.MaxLevel {
		return nil, errors.New("optimization level %d out of range 0..%d", opts.OptLevel, passes.MaxLevel)
	}

	res = &Result{}

	report := func(stage Stage) syntax.ErrorHandler {
		return func(pos syntax.Pos, msg string) {
			res.Diags = append(res.Diags, Diagnostic{Stage: stage, Pos: pos, Msg: msg})
		}
	}

	res.Tokens = syntax.Tokenize(name, string(src), report(StageLex))

	res.Prog = syntax.NewParser(res.Tokens, report(StageParse)).Parse()

	tr.Printw("parsed", "tokens", len(res.Tokens), "stmts", len(res.Prog.Stmts), "diags", len(res.Diags))

	if res.Failed() {
		return res, fail(res, "parse")
	}

	res.Info = &check.Info{}

	for _, e := range check.NewChecker(nil).Check(res.Prog, res.Info) {
		report(StageCheck)(e.Pos, e.Msg)
	}

	tr.Printw("checked", "types", len(res.Info.Types), "diags", len(res.Diags))

	if res.Failed() {
		return res, fail(res, "check")
	}

	modName := opts.ModuleName
	if modName == "" {
		modName = moduleName(name)
	}

	res.Module = ir.NewBuilder(modName, report(StageLower)).Build(res.Prog)

	tr.Printw("lowered", "module", modName, "funcs", len(res.Module.Funcs), "diags", len(res.Diags))

	err = optimize(ctx, res.Module, opts)
	if err != nil {
		return res, errors.Wrap(err, "passes")
	}

	sortDiags(res.Diags)

	return res, nil
}

func optimize(ctx context.Context, m *ir.Module, opts Options) error {
	pipeline := passes.Pipeline(opts.OptLevel)

	err := passes.Run(m, pipeline, passes.Config{
		DumpBefore: opts.DumpBefore,
		DumpAfter:  opts.DumpAfter,
		Dump:       opts.Dump,
		Verify:     opts.Verify,
	})
	if err != nil {
		return err
	}

	tlog.SpanFromContext(ctx).Printw("passes done", "level", opts.OptLevel, "passes", len(pipeline))

	return nil
}

func fail(res *Result, stage string) error {
	sortDiags(res.Diags)

	return errors.Wrap(ErrDiagnostics, "%s: %d errors", stage, len(res.Diags))
}

// sortDiags orders diagnostics by position, keeping report order for
// equal positions.
func sortDiags(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Pos.Before(ds[j].Pos)
	})
}

// moduleName derives a module name from a file name: "dir/prog.mc"
// becomes "prog".
func moduleName(name string) string {
	if name == "" {
		return "main"
	}

	base := filepath.Base(name)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatTokens renders tokens one per line in their short form.
func FormatTokens(toks []syntax.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Short())
		b.WriteByte('\n')
	}
	return b.String()
}
