package layout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/tex2utf/box"
	"github.com/ByLCY/tex2utf/symbols"
	"github.com/ByLCY/tex2utf/texscan"
)

// Engine 把 TeX 源文本转换为按行宽排好的 Unicode 文本。
// Engine 不是并发安全的；每次 Convert 使用符号表的一份副本，\def 等定义只在本次转换内有效。
type Engine struct {
	base     *symbols.Table
	table    *symbols.Table
	opts     BuildOptions
	handlers map[symbols.Handler]handlerFunc

	queue    *texscan.Queue
	out      []box.Box
	chunks   []int
	frames   []frame
	nextID   int
	curLen   int
	settling bool
	indented bool
	glueNext bool
	stopped  bool
	separate bool // 下一行输出前先输出一个空行
	argStack [][]string

	paragraph  int
	expansions int
	lines      []string
	diags      []Diagnostic
	stats      Stats
	boxes      []BoxInfo
	writeErr   error
}

// New 创建转换引擎。table 为空时使用默认的内建符号表。
func New(table *symbols.Table, opts BuildOptions) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = symbols.Builtin(symbols.DefaultOptions())
	}
	handlers := builtinHandlers()
	if err := checkHandlers(handlers, table); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return &Engine{base: table, opts: opts, handlers: handlers}, nil
}

// Build 使用给定符号表与配置转换 src。
func Build(src string, table *symbols.Table, opts BuildOptions) (*Result, error) {
	e, err := New(table, opts)
	if err != nil {
		return nil, err
	}
	return e.Convert(src)
}

// Convert 转换整段输入。ByParagraph 打开时按空行切分，逐段处理。
func (e *Engine) Convert(src string) (*Result, error) {
	e.reset()
	if e.opts.ByParagraph {
		for _, p := range strings.Split(src, "\n\n") {
			e.runParagraph(p)
		}
	} else {
		e.runParagraph(src)
	}
	return e.result()
}

// Stream 从 r 读取输入。ByParagraph 打开时每读到一个空行就处理一段，输出随即写入 Output。
func (e *Engine) Stream(r io.Reader) (*Result, error) {
	if !e.opts.ByParagraph {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("读取输入失败: %w", err)
		}
		return e.Convert(string(data))
	}

	e.reset()
	br := bufio.NewReader(r)
	var para strings.Builder
	for {
		line, err := br.ReadString('\n')
		if line == "\n" || line == "\r\n" {
			e.runParagraph(para.String())
			para.Reset()
		} else {
			para.WriteString(line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取输入失败: %w", err)
		}
		if e.writeErr != nil {
			break
		}
	}
	e.runParagraph(para.String())
	return e.result()
}

func (e *Engine) reset() {
	e.table = e.base.Clone()
	e.lines = nil
	e.diags = nil
	e.stats = Stats{}
	e.boxes = nil
	e.writeErr = nil
	e.paragraph = 0
	e.separate = false
	e.argStack = nil
}

func (e *Engine) result() (*Result, error) {
	res := &Result{
		Lines:       e.lines,
		Diagnostics: e.diags,
		Stats:       e.stats,
		Boxes:       e.boxes,
	}
	if e.writeErr != nil {
		return res, e.writeErr
	}
	return res, nil
}

var (
	reComment     = regexp.MustCompile(`(?m)((?:^|[^\\])(?:\\\\)*)(?:%.*\n[ \t]*)+`)
	reBlankLine   = regexp.MustCompile(`\n\s*\n`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reDisplayGap  = regexp.MustCompile(`(\$\$)\s+`)
	reTrailingPar = regexp.MustCompile(`\\par\s*$`)
	reLeadNoInd   = regexp.MustCompile(`^\s*\\noindent\b\s*`)
)

// normalize 去掉导言区与注释，把空行换成 \par，压缩空白并做 NFC 规范化。
func normalize(src string) string {
	if i := strings.Index(src, `\begin{document}`); i >= 0 {
		src = src[i:]
	}
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	src = reComment.ReplaceAllString(src, "${1}")
	src = reBlankLine.ReplaceAllString(src, `\par `)
	src = reSpaces.ReplaceAllString(src, " ")
	src = strings.TrimRightFunc(src, unicode.IsSpace)
	src = reDisplayGap.ReplaceAllString(src, "$$$$")
	src = reTrailingPar.ReplaceAllString(src, "")
	return norm.NFC.String(src)
}

// runParagraph 处理一段输入：逐个读取记号并分派，最后输出剩余内容。
func (e *Engine) runParagraph(src string) {
	if strings.TrimSpace(src) == "" {
		return
	}
	if e.opts.ByParagraph && len(e.lines) > 0 {
		e.separate = true
	}
	e.paragraph++
	e.stats.Paragraphs++
	e.expansions = 0
	e.stopped = false
	e.out = nil
	e.chunks = []int{0}
	e.frames = []frame{{}}
	e.curLen = 0
	e.indented = false
	e.glueNext = false

	src = normalize(src)
	if m := reLeadNoInd.FindString(src); m != "" {
		src = src[len(m):]
	} else {
		e.indent()
	}
	e.queue = texscan.NewQueue(src)
	tracer().Debugf("paragraph %d: %d bytes", e.paragraph, len(src))

	for !e.stopped && !e.queue.Empty() {
		lead := false
		if t, ok := e.queue.Peek(); ok && t.Kind == texscan.Text {
			lead = strings.HasPrefix(t.Text, " ")
		}
		tok, ok := e.queue.Next(e.top().tokenWise)
		if !ok {
			break
		}
		e.dispatch(tok, lead)
	}
	if e.stopped {
		tracer().Debugf("paragraph %d: dropped %q", e.paragraph, e.queue.String())
		e.queue.Reset()
	}
	e.finishBuffer()
}

// dispatch 处理一个记号。
func (e *Engine) dispatch(tok texscan.Token, lead bool) {
	glue := e.glueNext
	e.glueNext = false
	if !tok.Active() {
		e.text(tok.Text, lead, glue)
		return
	}
	// 只含空白的文本在 Next 中被跳过，这里补回一个词间空格
	if lead && !e.inMath() && !e.top().tokenWise && len(e.out) > 0 && !endsWithSpace(e.out[len(e.out)-1]) {
		e.puts(" ")
	}

	name := tok.Name()
	ent, ok := e.table.Lookup(name)
	if !ok {
		if tok.Kind == texscan.Control {
			e.unknownControl(name)
		}
		e.puts(tok.Text)
		return
	}
	switch ent.Kind {
	case symbols.KindMacro:
		e.expand(name, ent)
	case symbols.KindHandler:
		if ent.Arity == 0 {
			e.call(ent.Action, name)
			return
		}
		e.startArgs(ent.Arity, ent.Action)
	case symbols.KindBox:
		e.commit(ent.Box)
	case symbols.KindSelf:
		e.puts(strings.TrimPrefix(name, `\`))
	case symbols.KindFunction:
		e.function(tok)
	case symbols.KindStyle:
		e.style(name, ent.Style)
	case symbols.KindParBefore:
		e.finishBuffer()
		e.indent()
		e.puts(strings.TrimPrefix(name, `\`) + " ")
	case symbols.KindParAfter:
		e.puts(strings.TrimPrefix(name, `\`) + " ")
		e.par(name, symbols.Action{})
	case symbols.KindString:
		text := ent.Text
		if strings.HasPrefix(text, " ") && len(e.out) > 0 {
			last := e.out[len(e.out)-1]
			if strings.HasSuffix(last.Row(last.Baseline), " ") {
				text = text[1:]
			}
		}
		e.putsFixed(text)
	case symbols.KindIgnore:
	default:
		e.report(DiagUnknown, "entry %s has kind %v", name, ent.Kind)
		e.puts(tok.Text)
	}
}

// style 把数学字母表应用到参数上。参数中含有命令时按原样重新扫描。
func (e *Engine) style(name string, st symbols.Style) {
	e.queue.SkipSpace()
	arg, ok := e.queue.Balanced()
	if !ok {
		e.report(DiagUnbalanced, "argument of %s is not closed", name)
	}
	if strings.ContainsAny(arg, `\{}$^_&`) {
		e.queue.Push(arg)
		return
	}
	e.puts(st.Apply(norm.NFC.String(arg)))
}

var reDifferential = regexp.MustCompile(`d[txyzrsuvw]\s*$`)

// text 提交一段普通文本。数学模式下在运算符、微分与括号前补空格。
func (e *Engine) text(s string, lead, glue bool) {
	if e.top().tokenWise {
		if strings.TrimSpace(s) == "" {
			return
		}
		e.puts(s)
		return
	}
	if !e.inMath() {
		if lead && len(e.out) > 0 && !endsWithSpace(e.out[len(e.out)-1]) {
			s = " " + s
		}
		e.puts(s)
		return
	}

	switch {
	case strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "="):
		s = " " + s
	case strings.HasPrefix(s, "(") && !glue && len(e.out) > 0:
		last := e.out[len(e.out)-1]
		r := lastRune(last.Row(last.Baseline))
		if r != 0 && r != ' ' && !strings.ContainsRune("+-=*/(<[{", r) {
			s = " " + s
		}
	}
	if loc := reDifferential.FindStringIndex(s); loc != nil && loc[0] > 0 {
		head := strings.TrimRight(s[:loc[0]], " ")
		d := s[loc[0]:]
		if head != "" && !strings.HasSuffix(head, "/") {
			d = " " + d
		}
		if head != "" {
			e.puts(head)
		}
		e.puts(d)
		return
	}
	e.puts(s)
}

func endsWithSpace(b box.Box) bool {
	return strings.HasSuffix(b.Row(b.Baseline), " ")
}
