package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"tlog.app/go/errors"

	"github.com/you-not-fish/minic/internal/compiler"
	"github.com/you-not-fish/minic/internal/ir"
	"github.com/you-not-fish/minic/internal/syntax"
)

const (
	historyFile = ".minic_history"

	promptMain = "minic> "
	promptCont = "  ...> "
)

// prompter is the part of *liner.State the loop uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func repl(ctx context.Context, opts compiler.Options) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Println("minic repl; enter a program, :quit to exit")

	replLoop(ctx, ln, os.Stdout, opts)

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}

	return nil
}

// replLoop compiles one program per entry until EOF or :quit.
// Each entry is compiled on its own.
func replLoop(ctx context.Context, p prompter, w io.Writer, opts compiler.Options) {
	if opts.ModuleName == "" {
		opts.ModuleName = "repl"
	}

	for {
		code, err := readBalanced(p, promptMain, promptCont)
		if err != nil && code == "" {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(w, "read:", err)
			}
			fmt.Fprintln(w)
			return
		}

		switch strings.TrimSpace(code) {
		case "":
			continue
		case ":quit", ":q":
			return
		}

		p.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		res, err := compiler.Compile(ctx, "", []byte(code), opts)
		if res != nil {
			fmt.Fprint(w, res.Errors())
		}
		if err != nil {
			if !errors.Is(err, compiler.ErrDiagnostics) {
				fmt.Fprintln(w, err)
			}
			continue
		}

		_ = ir.Fprint(w, res.Module)
	}
}

// readBalanced reads lines until the braces of the accumulated input
// balance. On a read error it returns the input accumulated so far
// together with the error.
func readBalanced(p prompter, prompt, cont string) (string, error) {
	var b strings.Builder

	for {
		pr := prompt
		if b.Len() != 0 {
			pr = cont
		}

		line, err := p.Prompt(pr)
		if err != nil {
			return b.String(), err
		}

		if b.Len() != 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if braceDepth(b.String()) <= 0 {
			return b.String(), nil
		}
	}
}

// braceDepth returns the number of unclosed braces in src. Braces inside
// string literals and comments do not count.
func braceDepth(src string) int {
	depth := 0

	for _, t := range syntax.Tokenize("", src, nil) {
		switch t.Kind {
		case syntax.Lbrace:
			depth++
		case syntax.Rbrace:
			depth--
		}
	}

	return depth
}
