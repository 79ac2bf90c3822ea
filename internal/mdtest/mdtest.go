// Package mdtest extracts golden test cases from Markdown documents.
//
// A test case starts at a heading "Test: <name>" and holds one input fence
// and one or more assertion fences:
//
//	## Test: add
//	```minic
//	int main() { return 1 + 2; }
//	```
//	```ir
//	...
//	```
//
// Fences without a language are prose and are ignored.
package mdtest

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"tlog.app/go/errors"
)

// InputLang is the fence language of test inputs.
const InputLang = "minic"

// Kind is the fence language of an assertion.
type Kind string

const (
	KindTokens Kind = "tokens" // scanner output, one token per line
	KindAST    Kind = "ast"    // syntax tree dump
	KindErrors Kind = "errors" // diagnostics, one per line
	KindIR     Kind = "ir"     // rendered IR module
)

// Assertion is one expected-output fence.
type Assertion struct {
	Kind    Kind
	Content string // fence body without the final newline
	Line    int    // line of the first content line
}

// Case is one test case.
type Case struct {
	Name       string
	Input      string
	Line       int // line of the first input line
	Assertions []Assertion
}

// Extract parses a Markdown document and returns its test cases in
// document order.
func Extract(src []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var cases []Case
	var cur *Case

	flush := func() error {
		if cur == nil {
			return nil
		}
		if err := validate(cur); err != nil {
			return err
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			title := nodeText(n, src)
			if !strings.HasPrefix(title, "Test: ") {
				return ast.WalkSkipChildren, nil
			}

			if err := flush(); err != nil {
				return ast.WalkStop, err
			}

			cur = &Case{Name: strings.TrimSpace(strings.TrimPrefix(title, "Test: "))}

			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang := string(n.Language(src))
			line := lineOf(n, src)

			if lang == "" {
				return ast.WalkContinue, nil
			}
			if cur == nil {
				return ast.WalkStop, errors.New("line %d: %s fence outside of test case", line, lang)
			}

			content := strings.TrimSuffix(fenceText(n, src), "\n")

			switch {
			case lang == InputLang:
				if cur.Line != 0 {
					return ast.WalkStop, errors.New("line %d: multiple input fences in test %q", line, cur.Name)
				}
				cur.Input = content
				cur.Line = line

			case isKind(lang):
				cur.Assertions = append(cur.Assertions, Assertion{Kind: Kind(lang), Content: content, Line: line})

			default:
				return ast.WalkStop, errors.New("line %d: unknown fence language %q in test %q", line, lang, cur.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk markdown")
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return cases, nil
}

// Get returns the content of the first assertion of kind k.
func (c *Case) Get(k Kind) (string, bool) {
	for _, a := range c.Assertions {
		if a.Kind == k {
			return a.Content, true
		}
	}
	return "", false
}

func isKind(lang string) bool {
	switch Kind(lang) {
	case KindTokens, KindAST, KindErrors, KindIR:
		return true
	}
	return false
}

func validate(c *Case) error {
	if c.Line == 0 {
		return errors.New("test %q has no %s fence", c.Name, InputLang)
	}
	if len(c.Assertions) == 0 {
		return errors.New("test %q has no assertion fences", c.Name)
	}
	return nil
}

// nodeText returns the plain text of an inline container.
func nodeText(node ast.Node, src []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

func fenceText(n *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}

	return buf.String()
}

// lineOf returns the 1-based line of the first content line of n, or of the
// opening fence for an empty block.
func lineOf(n *ast.FencedCodeBlock, src []byte) int {
	var off int
	switch {
	case n.Lines().Len() > 0:
		off = n.Lines().At(0).Start
	case n.Info != nil:
		off = n.Info.Segment.Start
	}

	return bytes.Count(src[:off], []byte{'\n'}) + 1
}
