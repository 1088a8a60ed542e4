package layout

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/tex2utf/box"
	"github.com/ByLCY/tex2utf/symbols"
)

// convert 是测试辅助：关闭段首缩进后转换 src。
func convert(t *testing.T, src string, mutate func(*BuildOptions)) *Result {
	t.Helper()
	opts := DefaultOptions()
	opts.NoIndent = true
	if mutate != nil {
		mutate(&opts)
	}
	res, err := Build(src, nil, opts)
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	return res
}

func expectLines(t *testing.T, res *Result, want ...string) {
	t.Helper()
	if !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("输出不一致:\n got %q\nwant %q", res.Lines, want)
	}
}

func hasDiagnostic(res *Result, kind DiagnosticKind) bool {
	for _, d := range res.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestFraction(t *testing.T) {
	expectLines(t, convert(t, `$\frac{a}{b}$`, nil), "a", "─", "b")
	expectLines(t, convert(t, `${a \over b}$`, nil), "a", "─", "b")
}

func TestFractionCentersNarrowPart(t *testing.T) {
	expectLines(t, convert(t, `$\frac{1}{xyz}$`, nil), " 1", "───", "xyz")
}

func TestSuperscriptRaisesByOneRow(t *testing.T) {
	expectLines(t, convert(t, `$x^2$`, nil), " 2", "x")
}

func TestSubscriptAndSuperscript(t *testing.T) {
	res := convert(t, `$x_i^2$`, nil)
	expectLines(t, res, " 2", "x", " i")
}

func TestSqrt(t *testing.T) {
	expectLines(t, convert(t, `$\sqrt{x}$`, nil), " ┌─┐", "⟍│x")
}

// 后续内容必须落在基线上，才能看出分式、矩阵和根号的基线位置。
func TestBaselineWithTrailingContent(t *testing.T) {
	expectLines(t, convert(t, `$\frac{a}{b}=x$`, nil), "a", "─ =x", "b")
	expectLines(t, convert(t, `$\begin{matrix}1\\2\\3\end{matrix}=x$`, nil), "1", "2 =x", "3")
	expectLines(t, convert(t, `$\sqrt{x} y$`, nil), " ┌─┐", "⟍│x y")
}

func TestNestedFractionStaysCentered(t *testing.T) {
	expectLines(t, convert(t, `$\frac{1}{\frac{2}{3}}$`, nil), "1", "─", "2", "─", "3")
}

func TestFractionAfterTextGetsSpace(t *testing.T) {
	expectLines(t, convert(t, `$a\frac{b}{c}$`, nil), "  b", "a ─", "  c")
}

func TestMatrix(t *testing.T) {
	res := convert(t, `$\begin{matrix}1&2\\3&4\end{matrix}$`, nil)
	expectLines(t, res, "1 2", "3 4")
}

func TestBinomialGrowsParentheses(t *testing.T) {
	res := convert(t, `$\binom{a}{b}$`, nil)
	expectLines(t, res, "╭ a ╮", "│   │", "╰ b ╯")
}

func TestRunawayMacroIsCut(t *testing.T) {
	res := convert(t, `x \def\a{\a}\a`, func(o *BuildOptions) { o.MaxExpansions = 50 })
	if !hasDiagnostic(res, DiagRunaway) {
		t.Fatalf("expected runaway diagnostic, got %v", res.Diagnostics)
	}
	if res.Stats.Expansions != 51 {
		t.Fatalf("expected 51 expansions, got %d", res.Stats.Expansions)
	}
	expectLines(t, res, "x")
}

func TestOverlongTokenIsHardCut(t *testing.T) {
	res := convert(t, "abcdefghijklmnopqrstuvwxy", func(o *BuildOptions) { o.LineWidth = 10 })
	expectLines(t, res, "abcdefghij", "klmnopqrst", "uvwxy")
}

func TestJustifiedLinesFillWidth(t *testing.T) {
	res := convert(t, "aa bb cc dd ee ff gg hh ii", func(o *BuildOptions) { o.LineWidth = 20 })
	expectLines(t, res, "aa  bb  cc  dd ee ff", "gg hh ii")
	if w := box.Width(res.Lines[0]); w != 20 {
		t.Fatalf("justified line has width %d", w)
	}
	if res.Stats.Justified != 1 {
		t.Fatalf("expected one justified line, got %d", res.Stats.Justified)
	}
}

func TestRaggedKeepsSpaces(t *testing.T) {
	res := convert(t, "aa bb cc dd ee ff gg hh ii", func(o *BuildOptions) {
		o.LineWidth = 20
		o.Ragged = true
	})
	expectLines(t, res, "aa bb cc dd ee ff", "gg hh ii")
}

func TestBreakBehindCommittedText(t *testing.T) {
	res := convert(t, "abcd efg$xyzw$", func(o *BuildOptions) { o.LineWidth = 10 })
	expectLines(t, res, "abcd", "efgxyzw")
}

func TestIndentAndNoIndent(t *testing.T) {
	res, err := Build("hello", nil, DefaultOptions())
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	expectLines(t, res, "     hello")

	res, err = Build(`\noindent hello`, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	expectLines(t, res, "hello")
}

func TestDisplayMathIsCentered(t *testing.T) {
	res := convert(t, `$$x$$`, func(o *BuildOptions) { o.LineWidth = 11 })
	expectLines(t, res, "     x")
}

func TestTextAroundInlineMathKeepsSpaces(t *testing.T) {
	res := convert(t, `let $x$ be`, nil)
	expectLines(t, res, "let x be")
}

func TestSpaceBetweenAdjacentInlineMath(t *testing.T) {
	expectLines(t, convert(t, `where $x$ $y$ hold`, nil), "where x y hold")
	expectLines(t, convert(t, `$x$ $y$`, nil), "x y")
}

func TestWrappedLineDoesNotStartWithSpace(t *testing.T) {
	res := convert(t, `abcdefghij $x$ klm nop qrs`, func(o *BuildOptions) { o.LineWidth = 12 })
	expectLines(t, res, "abcdefghij x", "klm nop qrs")
}

func TestJustifiedLineEndingInScriptsFillsWidth(t *testing.T) {
	res := convert(t, `aa bb cc $x_1^2$ ddddddddddd`, func(o *BuildOptions) { o.LineWidth = 12 })
	expectLines(t, res, "           2", "aa  bb cc x", "           1", "ddddddddddd")
}

func TestCommentsAreRemoved(t *testing.T) {
	res := convert(t, "a % hidden\nb", nil)
	expectLines(t, res, "a b")
}

func TestMacroDefinitions(t *testing.T) {
	expectLines(t, convert(t, `\def\pair#1#2{(#1,#2)}$\pair ab$`, nil), "(a,b)")
	expectLines(t, convert(t, `\let\foo=\alpha $\foo$`, nil), "α")
	expectLines(t, convert(t, `\newcommand{\sq}[1]{#1^2} $\sq{y}$`, nil), " 2", "y")
}

func TestFunctionWrapsArgument(t *testing.T) {
	expectLines(t, convert(t, `$\sin x$`, nil), "sin(x)")
	expectLines(t, convert(t, `$\log(n)$`, nil), "log(n)")
}

func TestStyle(t *testing.T) {
	expectLines(t, convert(t, `$\mathbb{R}$`, nil), "ℝ")
}

func TestNot(t *testing.T) {
	expectLines(t, convert(t, `$a\not=b$`, nil), "a ≠ b")
}

func TestUnknownControlPassesThrough(t *testing.T) {
	res := convert(t, `x \foo y`, nil)
	if !hasDiagnostic(res, DiagUnknown) {
		t.Fatalf("expected unknown diagnostic, got %v", res.Diagnostics)
	}
	if !strings.Contains(res.String(), `\foo`) {
		t.Fatalf("unknown control should be kept: %q", res.Lines)
	}
}

func TestUnknownEnvironmentPassesThrough(t *testing.T) {
	res := convert(t, `\begin{foo}x\end{foo}`, nil)
	if !hasDiagnostic(res, DiagUnknown) {
		t.Fatalf("expected unknown diagnostic")
	}
	if got := res.String(); !strings.Contains(got, `\begin{foo}`) || !strings.Contains(got, `\end{foo}`) {
		t.Fatalf("environment should be kept: %q", got)
	}
}

func TestStructuralDiagnostics(t *testing.T) {
	if res := convert(t, `${x$`, nil); !hasDiagnostic(res, DiagUnclosed) {
		t.Fatalf("expected unclosed diagnostic, got %v", res.Diagnostics)
	}
	if res := convert(t, `$x}$`, nil); !hasDiagnostic(res, DiagMismatch) {
		t.Fatalf("expected mismatch diagnostic, got %v", res.Diagnostics)
	}
	if res := convert(t, `x}`, nil); !hasDiagnostic(res, DiagUnbalanced) {
		t.Fatalf("expected unbalanced diagnostic, got %v", res.Diagnostics)
	}
}

func TestMissingOperandsUseEmptyBoxes(t *testing.T) {
	res := convert(t, `$\frac{a}`, nil)
	if !hasDiagnostic(res, DiagUnclosed) {
		t.Fatalf("expected unclosed diagnostic, got %v", res.Diagnostics)
	}
	if len(res.Lines) == 0 || !strings.Contains(res.String(), "a") {
		t.Fatalf("partial output expected, got %q", res.Lines)
	}
}

func TestByParagraph(t *testing.T) {
	res := convert(t, "a\n\nb", func(o *BuildOptions) { o.ByParagraph = true })
	expectLines(t, res, "a", "", "b")
	if res.Stats.Paragraphs != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", res.Stats.Paragraphs)
	}
}

func TestStreamWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.NoIndent = true
	opts.ByParagraph = true
	opts.Output = &buf
	e, err := New(nil, opts)
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	res, err := e.Stream(strings.NewReader("a\n\n\\def\\b{B}\n\n\\b\n"))
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if got := buf.String(); got != "a\n\nB\n" {
		t.Fatalf("unexpected output %q", got)
	}
	expectLines(t, res, "a", "", "B")
}

func TestDefinitionsDoNotLeakBetweenRuns(t *testing.T) {
	opts := DefaultOptions()
	opts.NoIndent = true
	e, err := New(nil, opts)
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	if _, err := e.Convert(`\def\z{Q}\z`); err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	res, err := e.Convert(`\z`)
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if !hasDiagnostic(res, DiagUnknown) {
		t.Fatalf("definition leaked into the second run: %q", res.Lines)
	}
}

func TestAllHandlersRegistered(t *testing.T) {
	reg := builtinHandlers()
	for _, h := range symbols.Handlers() {
		if _, ok := reg[h]; !ok {
			t.Fatalf("handler %v is not registered", h)
		}
	}
	if err := checkHandlers(reg, symbols.Builtin(symbols.DefaultOptions())); err != nil {
		t.Fatalf("builtin table: %v", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	if _, err := New(nil, BuildOptions{LineWidth: 0}); err == nil {
		t.Fatalf("expected error for zero width")
	}
	if _, err := New(nil, BuildOptions{LineWidth: 10, MaxExpansions: -1}); err == nil {
		t.Fatalf("expected error for negative expansion limit")
	}
}
