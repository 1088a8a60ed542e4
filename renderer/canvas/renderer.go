package canvasrenderer

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/tex2utf/layout"
	"github.com/ByLCY/tex2utf/renderer"
)

// Renderer 使用 github.com/tdewolff/canvas 把转换结果逐行排入 PDF。
// 每一行按等宽字体原样绘制，字形之间不做任何调整，因此只有等宽字体能保持对齐。
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options 配置页面与字体。
type Options struct {
	FontPath   string // 字体文件路径，为空时使用内置的 Latin Modern Mono
	FontSize   Length
	LineHeight LineHeightSpec
	Margin     Length
	PageWidth  Length
	PageHeight Length
	// FitWidth 打开时，最宽一行放不下时缩小字号。
	FitWidth bool
	Meta     Meta
}

// Meta 是写入 PDF 的文档信息。
type Meta struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// DefaultOptions 返回 A4 页面、9pt 字号与 15mm 页边距。
func DefaultOptions() Options {
	return Options{
		FontSize:   Pt(9),
		LineHeight: LineHeightSpec{Kind: LineHeightFactor, Factor: 1},
		Margin:     Mm(15),
		PageWidth:  Mm(210),
		PageHeight: Mm(297),
		FitWidth:   true,
		Meta:       Meta{Creator: "tex2utf"},
	}
}

// NewRenderer 创建渲染器。零值字段使用 DefaultOptions 中的值。
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.FontSize.IsZero() {
		opts.FontSize = def.FontSize
	}
	if opts.PageWidth.IsZero() {
		opts.PageWidth = def.PageWidth
	}
	if opts.PageHeight.IsZero() {
		opts.PageHeight = def.PageHeight
	}
	if opts.Meta.Creator == "" {
		opts.Meta.Creator = def.Meta.Creator
	}
	return &Renderer{opts: opts}
}

// pageGeometry 是以毫米为单位的版面。
type pageGeometry struct {
	width, height float64
	margin        float64
	lineHeight    float64
	perPage       int
}

// Render 把结果渲染为 PDF 字节切片。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Lines) == 0 {
		return nil, fmt.Errorf("没有可渲染的行")
	}

	size := r.opts.FontSize.ToPT()
	if size <= 0 {
		return nil, fmt.Errorf("字号必须为正数，当前为 %v", r.opts.FontSize)
	}
	face, err := r.fontFace(size)
	if err != nil {
		return nil, err
	}
	if r.opts.FitWidth {
		if fitted := r.fitSize(face, size, result.Width()); fitted < size {
			size = fitted
			if face, err = r.fontFace(size); err != nil {
				return nil, err
			}
		}
	}

	geo, err := r.geometry(face, size)
	if err != nil {
		return nil, err
	}
	pages := paginate(result.Lines, geo.perPage)

	var buf bytes.Buffer
	writer := pdf.New(&buf, geo.width, geo.height, nil)
	r.applyMeta(writer)
	for i, lines := range pages {
		if i > 0 {
			writer.NewPage(geo.width, geo.height)
		}
		c := canvas.New(geo.width, geo.height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标以左上角为原点
		drawLines(ctx, face, lines, geo)
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	m := r.opts.Meta
	writer.SetInfo(m.Title, m.Subject, strings.Join(m.Keywords, ", "), m.Author, m.Creator)
}

func (r *Renderer) geometry(face *canvas.FontFace, size float64) (pageGeometry, error) {
	geo := pageGeometry{
		width:  r.opts.PageWidth.ToMM(),
		height: r.opts.PageHeight.ToMM(),
		margin: r.opts.Margin.ToMM(),
	}
	base := face.Metrics().LineHeight
	if base <= 0 {
		base = Pt(size).ToMM()
	}
	geo.lineHeight = r.opts.LineHeight.ResolveMM(base)
	usable := geo.height - 2*geo.margin
	if usable <= 0 || geo.width-2*geo.margin <= 0 {
		return geo, fmt.Errorf("页边距 %v 超出页面尺寸", r.opts.Margin)
	}
	if geo.lineHeight <= 0 {
		return geo, fmt.Errorf("行高必须为正数")
	}
	geo.perPage = max(int(math.Floor(usable/geo.lineHeight)), 1)
	return geo, nil
}

// fitSize 返回让 columns 列文本放进版心的字号，不超过 size。
func (r *Renderer) fitSize(face *canvas.FontFace, size float64, columns int) float64 {
	if columns == 0 {
		return size
	}
	advance := face.TextWidth("0")
	usable := r.opts.PageWidth.ToMM() - 2*r.opts.Margin.ToMM()
	need := advance * float64(columns)
	if advance <= 0 || need <= usable {
		return size
	}
	return size * usable / need
}

func drawLines(ctx *canvas.Context, face *canvas.FontFace, lines []string, geo pageGeometry) {
	ascent := face.Metrics().Ascent
	y := geo.margin
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			ctx.DrawText(geo.margin, y+ascent, canvas.NewTextLine(face, line, canvas.Left))
		}
		y += geo.lineHeight
	}
}

// paginate 把行按每页 perPage 行切分。
func paginate(lines []string, perPage int) [][]string {
	if perPage < 1 {
		perPage = 1
	}
	pages := make([][]string, 0, (len(lines)+perPage-1)/perPage)
	for len(lines) > perPage {
		pages = append(pages, lines[:perPage])
		lines = lines[perPage:]
	}
	if len(lines) > 0 {
		pages = append(pages, lines)
	}
	return pages
}

func (r *Renderer) fontFace(size float64) (*canvas.FontFace, error) {
	family, err := r.ensureFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(size, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}
	data := lmmono10regular.TTF
	name := "tex2utf-mono"
	if r.opts.FontPath != "" {
		blob, err := os.ReadFile(r.opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", r.opts.FontPath, err)
		}
		data = blob
		name = r.opts.FontPath
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.family = family
	return family, nil
}
