package canvasrenderer

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/tex2utf/layout"
)

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(DefaultOptions())
	res := &layout.Result{Lines: []string{" 1", "───", "xyz"}}
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF: %q", data[:min(len(data), 16)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer(DefaultOptions())
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without lines")
	}
}

func TestRenderRejectsOversizedMargin(t *testing.T) {
	opts := DefaultOptions()
	opts.Margin = Mm(120)
	if _, err := NewRenderer(opts).Render(&layout.Result{Lines: []string{"x"}}); err == nil {
		t.Fatalf("expected error for margin larger than the page")
	}
}

func TestMissingFontFile(t *testing.T) {
	opts := DefaultOptions()
	opts.FontPath = "does-not-exist.ttf"
	if _, err := NewRenderer(opts).Render(&layout.Result{Lines: []string{"x"}}); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}

func TestPaginate(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}
	got := paginate(lines, 2)
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("分页结果不一致: got %q want %q", got, want)
	}
	if got := paginate(lines, 0); len(got) != 5 {
		t.Fatalf("perPage < 1 应按每页一行处理，得到 %d 页", len(got))
	}
	if got := paginate(nil, 3); len(got) != 0 {
		t.Fatalf("空输入不应产生页面")
	}
}

// TestFitWidthShrinksFont 验证：最宽一行超出版心时字号被缩小，且不超过原字号。
func TestFitWidthShrinksFont(t *testing.T) {
	r := NewRenderer(DefaultOptions())
	face, err := r.fontFace(9)
	if err != nil {
		t.Fatalf("加载字体失败: %v", err)
	}
	if got := r.fitSize(face, 9, 10); got != 9 {
		t.Fatalf("short lines must keep the font size, got %g", got)
	}
	got := r.fitSize(face, 9, 1000)
	if got >= 9 || got <= 0 {
		t.Fatalf("expected a smaller font size, got %g", got)
	}
	usable := r.opts.PageWidth.ToMM() - 2*r.opts.Margin.ToMM()
	if w := face.TextWidth("0") * got / 9 * 1000; w-usable > 1e-6 {
		t.Fatalf("fitted width %g exceeds usable width %g", w, usable)
	}
}

func TestManyLinesSpanPages(t *testing.T) {
	r := NewRenderer(DefaultOptions())
	face, err := r.fontFace(9)
	if err != nil {
		t.Fatalf("加载字体失败: %v", err)
	}
	geo, err := r.geometry(face, 9)
	if err != nil {
		t.Fatalf("计算版面失败: %v", err)
	}
	lines := strings.Split(strings.Repeat("x\n", geo.perPage*2), "\n")
	if got := len(paginate(lines, geo.perPage)); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if _, err := r.Render(&layout.Result{Lines: lines}); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
}
