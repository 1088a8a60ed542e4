package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/tex2utf/config"
	"github.com/ByLCY/tex2utf/symbols"
)

func TestOverrideConfigPrefersExplicitFlags(t *testing.T) {
	cfg, err := config.Parse("[layout]\nwidth = 40\nragged = true\nmax_expansions = 10\n")
	if err != nil {
		t.Fatalf("解析配置失败: %v", err)
	}
	f := cliFlags{width: 60, ragged: false, maxExpansions: 400}
	overrideConfig(cfg, f, map[string]bool{"width": true})

	if *cfg.Layout.Width != 60 {
		t.Fatalf("explicit -width must win, got %d", *cfg.Layout.Width)
	}
	if !*cfg.Layout.Ragged {
		t.Fatalf("unset -ragged must keep the file value")
	}
	if *cfg.Layout.MaxExpansions != 10 {
		t.Fatalf("unset -max-expansions must keep the file value, got %d", *cfg.Layout.MaxExpansions)
	}
}

func TestTeXFlagDefaultMatchesBuiltinOptions(t *testing.T) {
	fs := flag.NewFlagSet("tex2utf", flag.ContinueOnError)
	var f cliFlags
	registerFlags(fs, &f)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("解析参数失败: %v", err)
	}
	want := symbols.DefaultOptions().TeXCompat
	if f.tex != want {
		t.Fatalf("-tex default is %v, builtin TeXCompat is %v", f.tex, want)
	}
	if got := fs.Lookup("tex").DefValue; got != "true" {
		t.Fatalf("-tex help shows default %q", got)
	}

	if err := fs.Parse([]string{"-tex=false"}); err != nil {
		t.Fatalf("解析参数失败: %v", err)
	}
	cfg, err := config.Parse("")
	if err != nil {
		t.Fatalf("解析配置失败: %v", err)
	}
	overrideConfig(cfg, f, map[string]bool{"tex": true})
	if cfg.SymbolOptions(symbols.DefaultOptions()).TeXCompat {
		t.Fatalf("-tex=false must disable plain TeX compatibility")
	}
}

func TestRunWritesTextAndPDF(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tex")
	if err := os.WriteFile(in, []byte(`$\frac{a}{b}$`), 0o644); err != nil {
		t.Fatalf("写入输入失败: %v", err)
	}
	f := cliFlags{
		input:         in,
		output:        filepath.Join(dir, "out", "out.txt"),
		width:         20,
		maxExpansions: 400,
		noIndent:      true,
		debug:         filepath.Join(dir, "debug.json"),
		pdf:           filepath.Join(dir, "out.pdf"),
		pdfSize:       "9pt",
		pdfMargin:     "15mm",
	}
	set := map[string]bool{"width": true, "noindent": true}
	if err := run(f, set); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text, err := os.ReadFile(f.output)
	if err != nil {
		t.Fatalf("读取输出失败: %v", err)
	}
	if got := string(text); got != "a\n─\nb\n" {
		t.Fatalf("unexpected output %q", got)
	}
	data, err := os.ReadFile(f.pdf)
	if err != nil {
		t.Fatalf("读取 PDF 失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
	if _, err := os.Stat(f.debug); err != nil {
		t.Fatalf("调试 JSON 未生成: %v", err)
	}
}

func TestRunRejectsBadPDFSize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tex")
	if err := os.WriteFile(in, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入输入失败: %v", err)
	}
	f := cliFlags{
		input:         in,
		output:        filepath.Join(dir, "out.txt"),
		width:         20,
		maxExpansions: 400,
		pdf:           filepath.Join(dir, "out.pdf"),
		pdfSize:       "huge",
		pdfMargin:     "15mm",
	}
	if err := run(f, map[string]bool{"width": true}); err == nil {
		t.Fatalf("expected error for invalid -pdf-size")
	}
}
