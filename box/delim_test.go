package box

import (
	"reflect"
	"testing"
)

func TestGrowParens(t *testing.T) {
	left, ok := Grow("(", 3, 1, 0, 1)
	if !ok {
		t.Fatalf("expected ( to grow")
	}
	if !reflect.DeepEqual(left.Rows(), []string{"╭ ", "│ ", "╰ "}) {
		t.Fatalf("unexpected rows: %q", left.Rows())
	}
	right, _ := Grow(")", 3, 1, 1, 0)
	if !reflect.DeepEqual(right.Rows(), []string{" ╮", " │", " ╯"}) {
		t.Fatalf("unexpected rows: %q", right.Rows())
	}
}

func TestGrowBraceHasMiddle(t *testing.T) {
	b, ok := Grow("{", 5, 2, 0, 0)
	if !ok {
		t.Fatalf("expected { to grow")
	}
	want := []string{"╭", "│", "╡", "│", "╰"}
	if !reflect.DeepEqual(b.Rows(), want) {
		t.Fatalf("got %q, want %q", b.Rows(), want)
	}
	if b.Baseline != 2 {
		t.Fatalf("baseline = %d", b.Baseline)
	}
}

func TestGrowSingleRowPassesThrough(t *testing.T) {
	for _, d := range []string{"(", "[", "|", "<"} {
		if _, ok := Grow(d, 1, 0, 0, 0); ok {
			t.Fatalf("%s 在单行时不应伸长", d)
		}
	}
	if _, ok := Grow("(", 2, 1, 0, 0); ok {
		t.Fatalf("圆括号两行时保持原样")
	}
	if _, ok := Grow("[", 2, 1, 0, 0); !ok {
		t.Fatalf("方括号两行时应伸长")
	}
}

func TestGrowAngle(t *testing.T) {
	b, ok := Grow("<", 3, 1, 0, 0)
	if !ok {
		t.Fatalf("expected < to grow")
	}
	want := []string{" ⧸", "⟨ ", " ⧹"}
	if !reflect.DeepEqual(b.Rows(), want) {
		t.Fatalf("got %q, want %q", b.Rows(), want)
	}
	r, _ := Grow(">", 3, 1, 0, 0)
	want = []string{"⧹ ", " ⟩", "⧸ "}
	if !reflect.DeepEqual(r.Rows(), want) {
		t.Fatalf("got %q, want %q", r.Rows(), want)
	}
}

func TestGrowDotIsBlank(t *testing.T) {
	b, ok := Grow(".", 4, 1, 0, 0)
	if !ok || b.Row(0) != " " {
		t.Fatalf("右侧 . 应变为空格: %+v", b)
	}
}

func TestGrowDoubleBar(t *testing.T) {
	b, ok := Grow("||", 2, 0, 0, 0)
	if !ok {
		t.Fatalf("expected || to grow")
	}
	if !reflect.DeepEqual(b.Rows(), []string{"||", "||"}) {
		t.Fatalf("unexpected rows: %q", b.Rows())
	}
}
