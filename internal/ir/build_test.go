package ir

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/minic/internal/check"
	"github.com/you-not-fish/minic/internal/syntax"
)

// parseAndCheck parses and checks src, failing the test on any error.
func parseAndCheck(t testing.TB, src string) *syntax.Program {
	t.Helper()

	var errs []string
	prog := syntax.ParseFile("", src, func(pos syntax.Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	})
	require.Empty(t, errs, "syntax errors")
	require.NoError(t, check.Check(prog, nil, nil))

	return prog
}

// build lowers src and returns the module and the lowering reports.
func build(t testing.TB, src string) (*Module, []string) {
	t.Helper()

	var reports []string
	b := NewBuilder("test", func(pos syntax.Pos, msg string) {
		reports = append(reports, pos.String()+": "+msg)
	})

	return b.Build(parseAndCheck(t, src)), reports
}

func TestBuildSimpleExpression(t *testing.T) {
	m, reports := build(t, "int main() { return 1 + 2; }")
	require.Empty(t, reports)

	require.Len(t, m.Funcs, 1)
	f := m.Funcs[0]
	assert.Equal(t, "main", f.Name)
	assert.Equal(t, I32, f.Result)
	assert.Empty(t, f.Params)

	text := m.String()
	add := strings.Index(text, "add")
	ret := strings.Index(text, "ret")
	require.True(t, add >= 0 && ret > add, "%s", text)

	assert.Equal(t, "; ModuleID = 'test'\n\n"+
		"define i32 @main() {\n"+
		"entry:\n"+
		"  %t0 = add 1, 2\n"+
		"  ret %t0\n"+
		"}\n\n", text)
}

func TestBuild(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{"Params", "int add(int a, int b) { return a + b; }", `define i32 @add(i32 %a, i32 %b) {
entry:
  %a = alloca
  store %param.a, %a
  %b = alloca
  store %param.b, %b
  %t0 = load %a
  %t1 = load %b
  %t2 = add %t0, %t1
  ret %t2
}
`},
		{"IfElse", "int max(int a, int b) { if (a > b) return a; else return b; }", `define i32 @max(i32 %a, i32 %b) {
entry:
  %a = alloca
  store %param.a, %a
  %b = alloca
  store %param.b, %b
  %t0 = load %a
  %t1 = load %b
  %t2 = cmp_gt %t0, %t1
  jmp_if %t2, then.0:
  jmp else.1:
then.0:
  %t3 = load %a
  ret %t3
  jmp endif.2:
else.1:
  %t4 = load %b
  ret %t4
  jmp endif.2:
endif.2:
  ret 0
}
`},
		{"IfNoElse", "void f(int x) { if (x) print(x); }", `define void @f(i32 %x) {
entry:
  %x = alloca
  store %param.x, %x
  %t0 = load %x
  jmp_if %t0, then.0:
  jmp else.1:
then.0:
  %t1 = load %x
  %t2 = call @print, %t1
  jmp endif.2:
else.1:
  jmp endif.2:
endif.2:
  ret
}
`},
		{"While", "void count(int n) { while (n > 0) n = n - 1; }", `define void @count(i32 %n) {
entry:
  %n = alloca
  store %param.n, %n
  jmp while.cond.0:
while.cond.0:
  %t0 = load %n
  %t1 = cmp_gt %t0, 0
  jmp_if %t1, while.body.1:
  jmp while.end.2:
while.body.1:
  %t2 = load %n
  %t3 = sub %t2, 1
  store %t3, %n
  jmp while.cond.0:
while.end.2:
  ret
}
`},
		{"Float", "float half(float x) { float h = x / 2.0; return h; }", `define f32 @half(f32 %x) {
entry:
  %x = alloca
  store %param.x, %x
  %h = alloca
  %t0 = load %x
  %t1 = div %t0, 2.000000
  store %t1, %h
  %t2 = load %h
  ret %t2
}
`},
		{"CallAndUnary", "int main() { int a = -3; print(!a); return 0; }", `define i32 @main() {
entry:
  %a = alloca
  %t0 = neg 3
  store %t0, %a
  %t1 = load %a
  %t2 = not %t1
  %t3 = call @print, %t2
  ret 0
}
`},
		{"ChainedAssignment", "int main() { int a; int b; a = b = 7; return a; }", `define i32 @main() {
entry:
  %a = alloca
  %b = alloca
  store 7, %b
  store 7, %a
  %t0 = load %a
  ret %t0
}
`},
		{"Logical", "int main() { return 1 < 2 && 3 >= 4 || 0; }", `define i32 @main() {
entry:
  %t0 = cmp_lt 1, 2
  %t1 = cmp_ge 3, 4
  %t2 = and %t0, %t1
  %t3 = or %t2, 0
  ret %t3
}
`},
		{"ImplicitReturn", "int main() { int x = 1; }", `define i32 @main() {
entry:
  %x = alloca
  store 1, %x
  ret 0
}
`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, reports := build(t, tc.src)
			require.Empty(t, reports)
			require.Len(t, m.Funcs, 1)

			assert.Equal(t, tc.want, m.Funcs[0].String())
			assert.NoError(t, Verify(m.Funcs[0]))
		})
	}
}

func TestBuildModule(t *testing.T) {
	m, _ := build(t, "void f() {} int main() { f(); return 0; }")

	assert.Equal(t, "; ModuleID = 'test'\n\n"+
		"define void @f() {\n"+
		"entry:\n"+
		"  ret\n"+
		"}\n\n"+
		"define i32 @main() {\n"+
		"entry:\n"+
		"  %t0 = call @f\n"+
		"  ret 0\n"+
		"}\n\n", m.String())

	assert.NotNil(t, m.Func("main"))
	assert.Nil(t, m.Func("g"))
}

func TestBuildBlockCounts(t *testing.T) {
	for _, tc := range []struct {
		src    string
		blocks int
	}{
		{"void f() {}", 1},
		{"void f(int x) { if (x) {} }", 4},
		{"void f(int x) { if (x) {} else {} }", 4},
		{"void f(int x) { while (x) {} }", 4},
		{"void f(int x) { if (x) { if (x) {} else { while (x) {} } } }", 10},
		{"void f(int x) { while (x) { while (x) { if (x) x = 0; } } }", 10},
		{"void f(int x) { if (x) {} if (x) {} while (x) {} }", 10},
	} {
		m, _ := build(t, tc.src)
		assert.Equal(t, tc.blocks, m.Funcs[0].NumBlocks(), "%q", tc.src)
	}
}

func TestBuildUniqueNames(t *testing.T) {
	m, _ := build(t, `
int f(int n) {
	int s = 0;
	while (n > 0) {
		if (n % 2 == 0) {
			while (s < 10) s = s + n;
		} else {
			if (s > 3) s = s - 1; else s = s + 1;
		}
		n = n - 1;
	}
	return s;
}
int main() {
	if (f(3) > 2) { while (0) {} }
	return f(4);
}
`)

	labels := map[string]bool{}
	temps := map[string]bool{}

	for _, f := range m.Funcs {
		assert.NoError(t, Verify(f))

		for _, b := range f.Blocks {
			if b.Name != EntryName {
				assert.False(t, labels[b.Name], "label %s", b.Name)
				labels[b.Name] = true
			}

			for _, in := range b.Instrs {
				if in.Result == nil || in.Op == OpAlloca {
					continue
				}
				assert.False(t, temps[in.Result.Name], "temp %s", in.Result.Name)
				temps[in.Result.Name] = true
			}
		}
	}

	assert.Len(t, labels, 18)
}

func TestBuildTempsAvoidDeclaredNames(t *testing.T) {
	m, _ := build(t, "int main(int t1) { int t0 = 5; if (t1) { int t2 = t0; } return t0 + t1; }")
	require.Len(t, m.Funcs, 1)

	f := m.Funcs[0]
	assert.NoError(t, Verify(f))
	assert.Equal(t, `define i32 @main(i32 %t1) {
entry:
  %t1 = alloca
  store %param.t1, %t1
  %t0 = alloca
  store 5, %t0
  %t3 = load %t1
  jmp_if %t3, then.0:
  jmp else.1:
then.0:
  %t2 = alloca
  %t4 = load %t0
  store %t4, %t2
  jmp endif.2:
else.1:
  jmp endif.2:
endif.2:
  %t5 = load %t0
  %t6 = load %t1
  %t7 = add %t5, %t6
  ret %t7
}
`, f.String())
}

func TestBuildDeterministic(t *testing.T) {
	src := "int main() { int i = 0; while (i < 3) { if (i == 1) print(i); i = i + 1; } return i; }"

	m, _ := build(t, src)
	assert.Equal(t, m.String(), m.String())

	// Building again starts from fresh counters.
	b := NewBuilder("test", nil)
	prog := parseAndCheck(t, src)
	m1 := b.Build(prog)
	m2 := b.Build(prog)

	assert.NotSame(t, m1, m2)
	assert.Equal(t, m1.String(), m2.String())
	assert.Equal(t, m.String(), m2.String())
}

func TestBuildConcurrent(t *testing.T) {
	src := "int main() { int i = 0; while (i < 3) i = i + 1; return i; }"
	want, _ := build(t, src)

	var wg sync.WaitGroup
	got := make([]string, 8)

	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, _ := build(t, src)
			got[i] = m.String()
		}(i)
	}
	wg.Wait()

	for _, g := range got {
		assert.Equal(t, want.String(), g)
	}
}

func TestBuildReports(t *testing.T) {
	// String literals type-check but have no IR form.
	m, reports := build(t, "int main() { return \"a\" == \"b\"; }")
	assert.Equal(t, []string{
		"1:21: string literals are not supported in IR",
		"1:28: string literals are not supported in IR",
	}, reports)
	assert.Contains(t, m.String(), "%t0 = cmp_eq 0, 0\n")

	// Statements outside functions are skipped.
	m, reports = build(t, "int x = 5; int main() { return 0; }")
	assert.Equal(t, []string{"1:1: statement outside function is not lowered"}, reports)
	assert.Len(t, m.Funcs, 1)
}

func TestBuildUncheckedProgram(t *testing.T) {
	// Lowering is total even without a clean semantic pass.
	prog := syntax.ParseFile("", "int main() { y = 1; return z + 1; }", nil)

	var reports []string
	m := NewBuilder("test", func(pos syntax.Pos, msg string) {
		reports = append(reports, msg)
	}).Build(prog)

	assert.Equal(t, []string{"invalid assignment target", "undefined variable 'z'"}, reports)
	assert.Equal(t, "define i32 @main() {\n"+
		"entry:\n"+
		"  %t0 = add 0, 1\n"+
		"  ret %t0\n"+
		"}\n", m.Funcs[0].String())
}

func TestBuildNil(t *testing.T) {
	m := NewBuilder("empty", nil).Build(nil)
	assert.Equal(t, "; ModuleID = 'empty'\n\n", m.String())
}
