package canvasrenderer

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestLengthConversions(t *testing.T) {
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
	if got := (Length{Value: 2.54, Unit: UnitCM}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	if got := Pt(12).ToMM(); math.Abs(got-12*PtToMm) > 1e-9 {
		t.Fatalf("12pt 转 mm 期望 %g，实际 %g", 12*PtToMm, got)
	}
	if got := Mm(10).ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		def  Unit
		want Length
	}{
		{"15mm", UnitPT, Mm(15)},
		{" 1.5 cm", UnitMM, Length{Value: 1.5, Unit: UnitCM}},
		{"9", UnitPT, Pt(9)},
		{"2IN", UnitMM, Length{Value: 2, Unit: UnitIN}},
	}
	for _, c := range cases {
		got, err := ParseLength(c.in, c.def)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("解析 %q: got %v want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "mm", "-3pt", "abc"} {
		if _, err := ParseLength(bad, UnitMM); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	base := Pt(12).ToMM()
	got := LineHeightSpec{Kind: LineHeightFactor, Factor: 1.2}.ResolveMM(base)
	if want := 12 * 1.2 * PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("1.2x 解析错误: got=%g want=%g", got, want)
	}
	got = LineHeightSpec{}.ResolveMM(base)
	if want := 12 * PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("默认倍数解析错误: got=%g want=%g", got, want)
	}
	got = LineHeightSpec{Kind: LineHeightAbsolute, Len: Mm(6)}.ResolveMM(base)
	if math.Abs(got-6) > 1e-9 {
		t.Fatalf("6mm 行高解析错误: got=%g", got)
	}
}
