package box

import (
	"reflect"
	"testing"
)

func sameShape(t *testing.T, got, want Box) {
	t.Helper()
	if got.Height != want.Height || got.Width != want.Width || got.Baseline != want.Baseline {
		t.Fatalf("形状不一致: got h=%d w=%d b=%d, want h=%d w=%d b=%d",
			got.Height, got.Width, got.Baseline, want.Height, want.Width, want.Baseline)
	}
	if !reflect.DeepEqual(got.Rows(), want.Rows()) {
		t.Fatalf("行内容不一致:\n got %q\nwant %q", got.Rows(), want.Rows())
	}
}

func TestJoinWithEmptyIsIdentity(t *testing.T) {
	cases := []Box{
		FromString("a b c"),
		Fixed("xyz"),
		FromRows([]string{"a", "──", "b"}, 1),
		SuperSub(Fixed("2"), Empty()),
	}
	for _, b := range cases {
		sameShape(t, Join(b, Empty()), b)
		sameShape(t, Join(Empty(), b), b)
	}
}

func TestJoinAlignsBaselines(t *testing.T) {
	frac := FromRows([]string{"a", "─", "b"}, 1)
	got := Join(Join(FromString("x="), frac), FromString("+1"))
	want := []string{"  a  ", "x=─+1", "  b  "}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Fatalf("基线对齐错误: %q", got.Rows())
	}
	if got.Height != 3 || got.Baseline != 1 || got.Width != 5 {
		t.Fatalf("unexpected geometry: %+v", got)
	}
}

func TestJoinKeepsJustifiableMarker(t *testing.T) {
	got := Join(FromString("a b"), FromString(" c"))
	if !got.Justifiable() || got.Spaces != 2 {
		t.Fatalf("两个可伸展盒子拼接后应仍可伸展: %+v", got)
	}
	if Join(FromString("a b"), Fixed("c")).Justifiable() {
		t.Fatalf("含固定盒子的拼接结果不应可伸展")
	}
}

func TestVStackGeometry(t *testing.T) {
	a := FromRows([]string{"ab", "c"}, 0)
	b := FromString("defg")
	got := VStack(a, b)
	if got.Height != 3 {
		t.Fatalf("expected height 3, got %d", got.Height)
	}
	if got.Baseline != 1 {
		t.Fatalf("expected baseline 1, got %d", got.Baseline)
	}
	if got.Width != 4 {
		t.Fatalf("expected width 4, got %d", got.Width)
	}
}

func TestCenter(t *testing.T) {
	b := FromString("ab")
	got := Center(5, b)
	if got.Width != 5 || got.Row(0) != " ab  " {
		t.Fatalf("居中结果错误: %q (w=%d)", got.Row(0), got.Width)
	}
	same := Center(1, b)
	sameShape(t, same, b)
}

func TestCutThenJoinIsLossless(t *testing.T) {
	boxes := []Box{
		FromString("hello world"),
		FromRows([]string{" 2", "x "}, 1),
		FromRows([]string{"abc", "───", " d "}, 1),
	}
	for _, b := range boxes {
		for k := 0; k <= b.Width; k++ {
			l, r := Cut(k, b, Empty())
			if l.Width != k || r.Width != b.Width-k {
				t.Fatalf("cut(%d) widths %d/%d", k, l.Width, r.Width)
			}
			sameShape(t, Join(l, r), b)
		}
	}
}

func TestCutOutOfRange(t *testing.T) {
	b := FromString("abc")
	l, r := Cut(10, b, Empty())
	sameShape(t, l, b)
	if r.Width != 0 {
		t.Fatalf("右侧应为空盒子，得到 %+v", r)
	}
	fb := Fixed("!")
	l, r = Cut(-1, b, fb)
	sameShape(t, l, fb)
	sameShape(t, r, b)
}

func TestSuperSub(t *testing.T) {
	got := SuperSub(Fixed("2"), Fixed("i"))
	if got.Height != 3 || got.Baseline != 1 {
		t.Fatalf("unexpected geometry: %+v", got)
	}
	if !reflect.DeepEqual(got.Rows(), []string{"2", " ", "i"}) {
		t.Fatalf("unexpected rows: %q", got.Rows())
	}

	sup := SuperSub(Fixed("2"), Empty())
	if sup.Height != 2 || sup.Baseline != 1 {
		t.Fatalf("仅上标时应为两行、基线在下: %+v", sup)
	}
	sub := SubSuper(Fixed("i"), Empty())
	if sub.Height != 2 || sub.Baseline != 0 {
		t.Fatalf("仅下标时应为两行、基线在上: %+v", sub)
	}
	if SuperSub(Empty(), Empty()).Width != 0 {
		t.Fatalf("两侧皆空时应返回空盒子")
	}
}

func TestSplitWideGlyph(t *testing.T) {
	l, r := Split("a中b", 2)
	if l != "a " || r != "中b" {
		t.Fatalf("宽字符应整体归入右侧: %q | %q", l, r)
	}
}

func TestLastSpace(t *testing.T) {
	if got := LastSpace("ab cd ef", 6); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := LastSpace("ab cd ef", 5); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := LastSpace("abcdef", 6); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
