package layout

import (
	"testing"

	"github.com/ByLCY/tex2utf/box"
)

func newTestEngine(t *testing.T, mutate func(*BuildOptions)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.NoIndent = true
	if mutate != nil {
		mutate(&opts)
	}
	e, err := New(nil, opts)
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	return e
}

// TestSentinelFrameSurvivesStrayBraces 验证多余的右括号不会弹出最外层分组。
func TestSentinelFrameSurvivesStrayBraces(t *testing.T) {
	e := newTestEngine(t, nil)
	res, err := e.Convert("a}}}b")
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if len(e.frames) != 1 {
		t.Fatalf("expected only the sentinel frame, got %d frames", len(e.frames))
	}
	n := 0
	for _, d := range res.Diagnostics {
		if d.Kind == DiagUnbalanced {
			n++
		}
	}
	if n != 3 {
		t.Fatalf("expected 3 unbalanced diagnostics, got %d", n)
	}
	expectLines(t, res, "ab")
}

func TestSubstitute(t *testing.T) {
	cases := []struct {
		body string
		args []string
		want string
	}{
		{"(#1,#2)", []string{"a", "b"}, "(a,b)"},
		{`\#1`, []string{"a"}, `\#1`},
		{"##1", []string{"a"}, "##1"},
		{"#3", []string{"a"}, "#3"},
		{"#1#1", []string{"x"}, "xx"},
		{"plain", nil, "plain"},
	}
	for _, c := range cases {
		if got := substitute(c.body, c.args); got != c.want {
			t.Fatalf("substitute(%q, %q) = %q, want %q", c.body, c.args, got, c.want)
		}
	}
}

// TestJustifyGivesRemainderToLeftmostSpaces 验证余量分配：最左边的空格先多得一列。
func TestJustifyGivesRemainderToLeftmostSpaces(t *testing.T) {
	e := newTestEngine(t, func(o *BuildOptions) { o.LineWidth = 11 })
	line := []box.Box{box.FromString("a b"), box.Fixed("xx"), box.FromString("c d ")}
	got := box.JoinAll(e.justify(line)...).Row(0)
	if got != "a   bxxc  d" {
		t.Fatalf("unexpected justified line %q", got)
	}
	if w := box.Width(got); w != 11 {
		t.Fatalf("justified width %d, want 11", w)
	}
}

func TestJustifyWithoutSpacesKeepsLine(t *testing.T) {
	e := newTestEngine(t, func(o *BuildOptions) { o.LineWidth = 11 })
	got := box.JoinAll(e.justify([]box.Box{box.Fixed("abc")})...).Row(0)
	if got != "abc" {
		t.Fatalf("line without spaces must stay as is, got %q", got)
	}
	if e.stats.Justified != 0 {
		t.Fatalf("no line should count as justified")
	}
}

func TestArrayColumnSpec(t *testing.T) {
	res := convert(t, `$\begin{array}{lr}a&bb\\ccc&d\end{array}$`, nil)
	expectLines(t, res, "a   bb", "ccc  d")
}

func TestBracketMatrix(t *testing.T) {
	res := convert(t, `$\begin{bmatrix}1\\2\end{bmatrix}$`, nil)
	expectLines(t, res, "┌ 1 ┐", "│ 2 │", "└   ┘")
}

func TestLeftRightGrowsAroundFraction(t *testing.T) {
	res := convert(t, `$\left(\frac{a}{b}\right)$`, nil)
	expectLines(t, res, "╭ a ╮", "│ ─ │", "╰ b ╯")
}

func TestSuggestFindsCloseNames(t *testing.T) {
	got := suggest(`\alpah`, []string{`\alpha`, `\beta`, `\gamma`})
	if len(got) == 0 || got[0] != `\alpha` {
		t.Fatalf("expected \\alpha as first hint, got %q", got)
	}
	if got := suggest(`\zzzzzz`, []string{`\alpha`}); len(got) != 0 {
		t.Fatalf("unexpected hints %q", got)
	}
}
