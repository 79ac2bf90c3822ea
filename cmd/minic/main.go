// Package main implements the minic command: it dumps tokens, syntax
// trees, diagnostics and IR for minic source files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/minic/internal/compiler"
	"github.com/you-not-fish/minic/internal/ir"
	"github.com/you-not-fish/minic/internal/syntax"
)

func main() {
	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print the token stream of each file",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	astCmd := &cli.Command{
		Name:        "ast",
		Description: "print the syntax tree of each file",
		Action:      astAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("pos", false, "print node positions"),
		},
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "report diagnostics for each file",
		Action:      checkAct,
		Args:        cli.Args{},
	}

	irCmd := &cli.Command{
		Name:        "ir",
		Description: "print the IR module of each file",
		Action:      irAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("module", "", "module name (default: file name)"),
			cli.NewFlag("o", "", "write IR to file (default: stdout)"),
			cli.NewFlag("O", 0, "pass pipeline level"),
			cli.NewFlag("verify", false, "verify IR around every pass"),
			cli.NewFlag("dump-before", "", "dump IR before pass (name or \"*\")"),
			cli.NewFlag("dump-after", "", "dump IR after pass (name or \"*\")"),
		},
	}

	replCmd := &cli.Command{
		Name:        "repl",
		Description: "read programs interactively and print their IR",
		Action:      replAct,
		Flags: []*cli.Flag{
			cli.NewFlag("O", 0, "pass pipeline level"),
		},
	}

	app := &cli.Command{
		Name:        "minic",
		Description: "minic is a front end for a small C-like language",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("v", "", "verbose log topics (lower, passes)"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			tokensCmd,
			astCmd,
			checkCmd,
			irCmd,
			replCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	if v := c.String("v"); v != "" {
		tlog.SetVerbosity(v)
	}

	return nil
}

func rootContext() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

func tokensAct(c *cli.Command) error {
	for _, a := range c.Args {
		if err := runTokens(os.Stdout, a); err != nil {
			return errors.Wrap(err, "tokens %v", a)
		}
	}

	return nil
}

func astAct(c *cli.Command) error {
	var mode syntax.Mode
	if c.Bool("pos") {
		mode |= syntax.ShowPos
	}

	for _, a := range c.Args {
		if err := runAST(os.Stdout, a, mode); err != nil {
			return errors.Wrap(err, "ast %v", a)
		}
	}

	return nil
}

func checkAct(c *cli.Command) error {
	ctx := rootContext()

	failed := 0

	for _, a := range c.Args {
		err := runCheck(ctx, os.Stdout, a)
		if errors.Is(err, compiler.ErrDiagnostics) {
			failed++
			continue
		}
		if err != nil {
			return errors.Wrap(err, "check %v", a)
		}
	}

	if failed != 0 {
		return errors.New("%d of %d files have errors", failed, len(c.Args))
	}

	return nil
}

func irAct(c *cli.Command) error {
	ctx := rootContext()

	opts := compiler.Options{
		ModuleName: c.String("module"),
		OptLevel:   c.Int("O"),
		Verify:     c.Bool("verify"),
		DumpBefore: c.String("dump-before"),
		DumpAfter:  c.String("dump-after"),
		Dump:       os.Stderr,
	}

	return emitIR(ctx, c.String("o"), os.Stderr, c.Args, opts)
}

// emitIR writes the modules of files to the file out, or to stdout if out
// is empty or "-".
func emitIR(ctx context.Context, out string, ew io.Writer, files []string, opts compiler.Options) (err error) {
	var w io.Writer = os.Stdout

	if out != "" && out != "-" {
		f, cerr := os.Create(out)
		if cerr != nil {
			return errors.Wrap(cerr, "create output")
		}

		defer func() {
			if e := f.Close(); err == nil && e != nil {
				err = errors.Wrap(e, "close output")
			}
		}()

		w = f
	}

	for _, a := range files {
		if err = runIR(ctx, w, ew, a, opts); err != nil {
			return errors.Wrap(err, "ir %v", a)
		}
	}

	return nil
}

func replAct(c *cli.Command) error {
	return repl(rootContext(), compiler.Options{OptLevel: c.Int("O")})
}

func runTokens(w io.Writer, name string) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	var diags []compiler.Diagnostic

	toks := syntax.Tokenize(name, string(src), func(pos syntax.Pos, msg string) {
		diags = append(diags, compiler.Diagnostic{Stage: compiler.StageLex, Pos: pos, Msg: msg})
	})

	for _, t := range toks {
		fmt.Fprintln(w, t)
	}

	return diagError(w, diags)
}

func runAST(w io.Writer, name string, mode syntax.Mode) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	var diags []compiler.Diagnostic

	prog := syntax.ParseFile(name, string(src), func(pos syntax.Pos, msg string) {
		diags = append(diags, compiler.Diagnostic{Stage: compiler.StageParse, Pos: pos, Msg: msg})
	})

	if err := diagError(w, diags); err != nil {
		return err
	}

	return syntax.Fprint(w, prog, mode)
}

// runCheck prints every diagnostic of the file, lowering ones included.
func runCheck(ctx context.Context, w io.Writer, name string) error {
	res, err := compiler.CompileFile(ctx, name, compiler.Options{})
	if res != nil {
		fmt.Fprint(w, res.Errors())
	}

	return err
}

func runIR(ctx context.Context, w, ew io.Writer, name string, opts compiler.Options) error {
	res, err := compiler.CompileFile(ctx, name, opts)
	if res != nil {
		fmt.Fprint(ew, res.Errors())
	}
	if err != nil {
		return err
	}

	return ir.Fprint(w, res.Module)
}

func diagError(w io.Writer, diags []compiler.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}

	for _, d := range diags {
		fmt.Fprintln(w, d)
	}

	return errors.Wrap(compiler.ErrDiagnostics, "%d errors", len(diags))
}
