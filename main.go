package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/term"

	"github.com/ByLCY/tex2utf/config"
	"github.com/ByLCY/tex2utf/layout"
	"github.com/ByLCY/tex2utf/renderer"
	canvasrenderer "github.com/ByLCY/tex2utf/renderer/canvas"
	"github.com/ByLCY/tex2utf/symbols"
)

const fallbackWidth = 150

// cliFlags 保存命令行参数。
type cliFlags struct {
	input, output string
	width         int
	maxExpansions int
	byPar         bool
	ragged        bool
	noIndent      bool
	tex           bool
	configPath    string
	debug         string
	pdf           string
	pdfFont       string
	pdfSize       string
	pdfMargin     string
	verbose       bool
}

// registerFlags 在 fs 上登记全部命令行参数，默认值与内建选项一致。
func registerFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVar(&f.input, "in", "", "TeX 输入文件路径，为空时读取标准输入")
	fs.StringVar(&f.output, "out", "", "文本输出路径，为空时写到标准输出")
	fs.IntVar(&f.width, "width", 0, "行宽（列），0 表示使用终端宽度")
	fs.IntVar(&f.maxExpansions, "max-expansions", 400, "每段允许的宏展开次数")
	fs.BoolVar(&f.byPar, "by-par", false, "按空行分段逐段输出")
	fs.BoolVar(&f.ragged, "ragged", false, "不做两端对齐")
	fs.BoolVar(&f.noIndent, "noindent", false, "段首不缩进")
	fs.BoolVar(&f.tex, "tex", symbols.DefaultOptions().TeXCompat, "兼容 plain TeX 的 \\pmatrix 等写法，-tex=false 关闭")
	fs.StringVar(&f.configPath, "config", "", "TOML 配置文件路径")
	fs.StringVar(&f.debug, "debug", "", "转换结果调试 JSON 输出路径")
	fs.StringVar(&f.pdf, "pdf", "", "额外输出 PDF 的路径")
	fs.StringVar(&f.pdfFont, "pdf-font", "", "PDF 使用的等宽字体文件，默认内置 Latin Modern Mono")
	fs.StringVar(&f.pdfSize, "pdf-size", "9pt", "PDF 字号")
	fs.StringVar(&f.pdfMargin, "pdf-margin", "15mm", "PDF 页边距")
	fs.BoolVar(&f.verbose, "v", false, "输出调试跟踪")
}

func main() {
	var f cliFlags
	registerFlags(flag.CommandLine, &f)
	flag.Parse()

	if f.verbose {
		for _, key := range []string{"tex2utf.layout", "tex2utf.scan", "tex2utf.symbols"} {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}

	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if err := run(f, set); err != nil {
		log.Fatalf("转换失败: %v", err)
	}
}

// run 串联配置、转换与输出。
func run(f cliFlags, set map[string]bool) error {
	cfg := &config.File{}
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	overrideConfig(cfg, f, set)

	table, err := cfg.Table(symbols.DefaultOptions())
	if err != nil {
		return fmt.Errorf("构造符号表失败: %w", err)
	}

	var in io.Reader = os.Stdin
	if f.input != "" {
		file, err := os.Open(f.input)
		if err != nil {
			return fmt.Errorf("无法打开输入文件 %s: %w", f.input, err)
		}
		defer file.Close()
		in = file
	}

	out := os.Stdout
	if f.output != "" {
		if err := os.MkdirAll(filepath.Dir(f.output), 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("无法创建输出文件 %s: %w", f.output, err)
		}
		defer file.Close()
		out = file
	}
	w := bufio.NewWriter(out)

	opts := cfg.Apply(layout.DefaultOptions())
	if cfg.Layout.Width == nil || *cfg.Layout.Width == 0 {
		opts.LineWidth = terminalWidth(out)
	}
	opts.Output = w
	opts.Debug.Boxes = f.debug != ""

	e, err := layout.New(table, opts)
	if err != nil {
		return err
	}
	result, err := e.Stream(in)
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("写入输出失败: %w", err)
	}

	if f.debug != "" {
		if err := writeDebug(result, f.debug); err != nil {
			return err
		}
	}
	if f.pdf != "" {
		r, err := newPDFRenderer(f)
		if err != nil {
			return err
		}
		if err := writePDF(r, result, f.pdf); err != nil {
			return err
		}
	}
	return nil
}

// overrideConfig 用显式给出的命令行参数覆盖配置文件中的值。
func overrideConfig(cfg *config.File, f cliFlags, set map[string]bool) {
	l := &cfg.Layout
	if set["width"] {
		l.Width = &f.width
	}
	if set["max-expansions"] || l.MaxExpansions == nil {
		l.MaxExpansions = &f.maxExpansions
	}
	if set["by-par"] {
		l.ByParagraph = &f.byPar
	}
	if set["ragged"] {
		l.Ragged = &f.ragged
	}
	if set["noindent"] {
		l.NoIndent = &f.noIndent
	}
	if set["tex"] {
		l.TeXCompat = &f.tex
	}
}

// terminalWidth 在输出是终端时返回终端宽度，否则返回默认行宽。
func terminalWidth(out *os.File) int {
	fd := int(out.Fd())
	if !term.IsTerminal(fd) {
		return fallbackWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w < 1 {
		return fallbackWidth
	}
	return w
}

func newPDFRenderer(f cliFlags) (renderer.Renderer, error) {
	opts := canvasrenderer.DefaultOptions()
	opts.FontPath = f.pdfFont
	size, err := canvasrenderer.ParseLength(f.pdfSize, canvasrenderer.UnitPT)
	if err != nil {
		return nil, fmt.Errorf("解析 -pdf-size 失败: %w", err)
	}
	margin, err := canvasrenderer.ParseLength(f.pdfMargin, canvasrenderer.UnitMM)
	if err != nil {
		return nil, fmt.Errorf("解析 -pdf-margin 失败: %w", err)
	}
	opts.FontSize = size
	opts.Margin = margin
	if f.input != "" {
		opts.Meta.Title = strings.TrimSuffix(filepath.Base(f.input), filepath.Ext(f.input))
	}
	return canvasrenderer.NewRenderer(opts), nil
}

func writePDF(r renderer.Renderer, result *layout.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建 PDF 目录失败: %w", err)
	}
	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
