package layout

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/tex2utf/box"
	"github.com/ByLCY/tex2utf/symbols"
)

// 该文件实现收集完参数后的组合回调：分式、根号、上下标、重音与定界符等。

func (e *Engine) superscript(string, symbols.Action) {
	e.script(symbols.HandlerSuperSub, reSubscriptNext, reSbNext)
}

func (e *Engine) subscript(string, symbols.Action) {
	e.script(symbols.HandlerSubSuper, reSuperscriptNext, reSpNext)
}

var (
	reSuperscriptNext = regexp.MustCompile(`^\s*\^`)
	reSubscriptNext   = regexp.MustCompile(`^\s*_`)
	reSpNext          = regexp.MustCompile(`^\s*\\begin\s*\{Sp\}`)
	reSbNext          = regexp.MustCompile(`^\s*\\begin\s*\{Sb\}`)
)

// script 在收到第一个脚标后改为等待两个参数：紧跟另一种脚标时继续收集，否则补一个空盒子。
func (e *Engine) script(h symbols.Handler, other, env *regexp.Regexp) {
	f := e.top()
	f.wait = waitCount(2)
	f.action = symbols.Do(h)
	f.tokenWise = true
	if _, ok := e.queue.Match(other); ok {
		return
	}
	if _, ok := e.queue.Match(env); ok {
		e.queue.Push(`\begin{matrix}`)
		return
	}
	e.commit(box.Empty())
}

func (e *Engine) subSuper(string, symbols.Action) {
	ops := e.operands(2, true)
	e.scripts(ops[1], ops[0])
}

func (e *Engine) superSub(string, symbols.Action) {
	ops := e.operands(2, true)
	e.scripts(ops[0], ops[1])
}

func (e *Engine) scripts(sup, sub box.Box) {
	if sup.Width == 0 && sub.Width == 0 {
		e.replace(2, box.Empty())
		e.finish("", true)
		return
	}
	b := box.SuperSub(sup, sub)
	if b.Lines() > 1 && sub.Width > 0 && e.depth() <= 3 {
		b = box.Join(b, box.Fixed(" "))
	}
	e.replace(2, b)
	e.finish("", true)
}

// fraction 把分子、分数线、分母上下叠放，基线落在分数线上。
func (e *Engine) fraction(string, symbols.Action) {
	ops := e.operands(2, true)
	num, den := ops[0], ops[1]
	w := max(num.Width, den.Width)
	b := box.VStack(box.VStack(box.Center(w, num), box.Fixed(box.Repeat("─", w))), box.Center(w, den))
	b = box.SetBaseline(b, num.Lines())
	if e.spaceBefore() {
		b = box.Join(box.Fixed(" "), b)
	}
	if e.spaceAfter() {
		b = box.Join(b, box.Fixed(" "))
	}
	e.replace(2, b)
	e.finish("", true)
}

// spaceBefore 报告分式前是否需要补一个空格：前面紧挨着非空内容且不是运算符或左括号。
func (e *Engine) spaceBefore() bool {
	n := len(e.frames) - 1
	at := e.chunks[e.frames[n].level] - 1
	// 前一个盒子必须属于外层组，而不是同一命令的前一个参数
	if n < 1 || at < e.chunks[e.frames[n-1].level] || at >= len(e.out) {
		return false
	}
	prev := e.out[at]
	if prev.Width == 0 {
		return false
	}
	r := lastRune(prev.Row(prev.Baseline))
	return r != ' ' && r != 0 && !strings.ContainsRune("+-=(<[{", r)
}

// 分式后面紧跟这些命令时不补空格。
var noSpaceBefore = map[string]bool{
	"right": true, "end": true, "bigr": true, "Bigr": true, "biggr": true, "Biggr": true,
	"cdot": true, "cdots": true, "times": true, "div": true, "pm": true, "mp": true,
	"cap": true, "cup": true, "wedge": true, "vee": true, "oplus": true, "otimes": true, "ominus": true,
}

var reControlWord = regexp.MustCompile(`^\\([a-zA-Z]+)`)

func (e *Engine) spaceAfter() bool {
	next := e.queue.Lookahead(32)
	if next == "" {
		return false
	}
	if m := reControlWord.FindStringSubmatch(next); m != nil {
		return !noSpaceBefore[m[1]]
	}
	r, _ := utf8.DecodeRuneInString(next)
	if strings.ContainsRune("+-=)>]}^_,;:\\ ", r) {
		return false
	}
	return unicode.IsLetter(r) || strings.ContainsRune("([<", r)
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// binomial 与分式相同但没有分数线，两侧加上按高度伸长的圆括号。
func (e *Engine) binomial(string, symbols.Action) {
	ops := e.operands(2, true)
	top, bottom := ops[0], ops[1]
	w := max(top.Width, bottom.Width)
	body := box.VStack(box.VStack(box.Center(w, top), box.Fixed(box.Repeat(" ", w))), box.Center(w, bottom))
	body = box.SetBaseline(body, top.Lines())
	e.replace(2, box.JoinAll(grown("(", body, 0, 1), body, grown(")", body, 1, 0)))
	e.finish("", true)
}

// grown 返回伸长到 body 高度的定界符；无法伸长时返回原字符。
func grown(delim string, body box.Box, leftPad, rightPad int) box.Box {
	if delim == "" {
		return box.Empty()
	}
	if b, ok := box.Grow(delim, body.Lines(), body.Baseline, leftPad, rightPad); ok {
		return b
	}
	return box.Fixed(delim)
}

// delimitBox 用左右定界符包住 body。方括号至少三行高，内容放在中间一行。
func (e *Engine) delimitBox(left string, body box.Box, right string) box.Box {
	if left == "[" && right == "]" && body.Lines() < 3 {
		rows := body.Rows()
		switch len(rows) {
		case 1:
			rows = []string{"", rows[0], ""}
		default:
			rows = append(rows, "")
		}
		body = box.FromRows(rows, 1)
	}
	return box.JoinAll(grown(left, body, 0, 1), body, grown(right, body, 1, 0))
}

// radical 画出带钩的根号：顶部横线与操作数等宽，基线下移一行。可选的根指数放在左上角。
func (e *Engine) radical(_ string, a symbols.Action) {
	x := e.operands(1, true)[0]
	l := x.Width
	index := a.Arg(0)
	iw := max(box.Width(index), 1)
	pad := box.Repeat(" ", iw-1)

	rows := make([]string, 0, x.Lines()+1)
	corner := pad + " "
	if index != "" {
		corner = index
	}
	rows = append(rows, corner+"┌"+box.Repeat("─", l)+"┐")
	for i, row := range x.Rows() {
		hook := pad + " │"
		if i == x.Lines()-1 {
			hook = pad + "⟍│"
		}
		rows = append(rows, hook+box.Pad(row, l)+" ")
	}
	e.replace(1, box.FromRows(rows, x.Baseline+1))
	e.finish("", true)
}

func (e *Engine) overline(string, symbols.Action) {
	x := e.operands(1, true)[0]
	b := box.VStack(box.Fixed(box.Repeat("_", x.Width)), x)
	e.replace(1, box.SetBaseline(b, x.Baseline+1))
	e.finish("", true)
}

func (e *Engine) underline(string, symbols.Action) {
	x := e.operands(1, true)[0]
	b := box.VStack(x, box.Fixed(box.Repeat("‾", x.Width)))
	e.replace(1, box.SetBaseline(b, x.Baseline))
	e.finish("", true)
}

// not 给关系符加上否定：= | ∈ 有专门的符号，其余在前面写 \not。
func (e *Engine) not(string, symbols.Action) {
	x := e.operands(1, false)[0]
	s := strings.TrimSpace(x.Row(0))
	var out box.Box
	switch {
	case x.Lines() == 1 && s == "=":
		out = e.symbolBox(`\neq`, "≠")
	case x.Lines() == 1 && s == "|":
		out = e.symbolBox(`\nmid`, "∤")
	case x.Lines() == 1 && s != "" && s == strings.TrimSpace(e.symbolBox(`\in`, "∈").Row(0)):
		out = e.symbolBox(`\notin`, "∉")
	default:
		out = box.Join(box.Fixed(`\not`), x)
	}
	e.replace(1, out)
	e.finish("", true)
}

// symbolBox 返回符号表中字符串条目的盒子，条目缺失时使用 fallback。
func (e *Engine) symbolBox(name, fallback string) box.Box {
	if ent, ok := e.table.Lookup(name); ok && ent.Kind == symbols.KindString {
		return box.Fixed(ent.Text)
	}
	return box.Fixed(fallback)
}

func (e *Engine) putOver(_ string, a symbols.Action) {
	x := e.operands(1, true)[0]
	e.replace(1, stackOver(box.Fixed(a.Arg(0)), x))
	e.finish("", true)
}

func (e *Engine) putUnder(_ string, a symbols.Action) {
	x := e.operands(1, true)[0]
	e.replace(1, stackUnder(x, box.Fixed(a.Arg(0))))
	e.finish("", true)
}

// stackOver 把 acc 居中放在 x 上方，基线仍在 x 的基线行。
func stackOver(acc, x box.Box) box.Box {
	w := max(acc.Width, x.Width)
	b := box.VStack(box.Center(w, acc), box.Center(w, x))
	return box.SetBaseline(b, acc.Lines()+x.Baseline)
}

// stackUnder 把 acc 居中放在 x 下方。
func stackUnder(x, acc box.Box) box.Box {
	w := max(acc.Width, x.Width)
	b := box.VStack(box.Center(w, x), box.Center(w, acc))
	return box.SetBaseline(b, x.Baseline)
}

func (e *Engine) overSet(string, symbols.Action) {
	ops := e.operands(2, true)
	e.replace(2, stackOver(ops[0], ops[1]))
	e.finish("", true)
}

func (e *Engine) underSet(string, symbols.Action) {
	ops := e.operands(2, true)
	e.replace(2, stackUnder(ops[1], ops[0]))
	e.finish("", true)
}

// buildRel 处理 \buildrel a \over b：第二个参数是 \over 本身，丢弃。
func (e *Engine) buildRel(string, symbols.Action) {
	ops := e.operands(3, true)
	e.replace(3, stackOver(ops[0], ops[2]))
	e.finish("", true)
}

func (e *Engine) wideHat(string, symbols.Action) {
	x := e.operands(1, true)[0]
	mark := "^"
	if l := x.Width; l > 1 {
		mark = "/" + box.Repeat("~", l-2) + `\`
	}
	e.replace(1, stackOver(box.Fixed(mark), x))
	e.finish("", true)
}

func (e *Engine) wideTilde(string, symbols.Action) {
	x := e.operands(1, true)[0]
	l := x.Width
	var mark string
	switch {
	case l <= 1:
		mark = "~"
	case l <= 3:
		mark = `/\/`
	default:
		l1 := l/2 - 1
		mark = "/" + box.Repeat("~", l1) + `\` + box.Repeat("_", l-3-l1) + "/"
	}
	e.replace(1, stackOver(box.Fixed(mark), x))
	e.finish("", true)
}

// brace 画出上下花括号与上方箭头。
func (e *Engine) brace(_ string, a symbols.Action) {
	x := e.operands(1, true)[0]
	l := max(x.Width, 1)
	var out box.Box
	switch a.Arg(0) {
	case "under":
		out = stackUnder(x, box.Fixed(braceRule(l, "╰", "┬", "╯")))
	case "right":
		out = stackOver(box.Fixed(box.Repeat("─", l-1)+"→"), x)
	case "left":
		out = stackOver(box.Fixed("←"+box.Repeat("─", l-1)), x)
	default:
		out = stackOver(box.Fixed(braceRule(l, "╭", "┴", "╮")), x)
	}
	e.replace(1, out)
	e.finish("", true)
}

func braceRule(l int, left, mid, right string) string {
	if l < 3 {
		return box.Repeat("─", l)
	}
	inner := l - 3
	return left + box.Repeat("─", inner/2) + mid + box.Repeat("─", inner-inner/2) + right
}

// arrow 画出交换图中的水平箭头，标签分别在箭头上方与下方。
func (e *Engine) arrow(_ string, a symbols.Action) {
	ops := e.operands(2, true)
	w := max(ops[0].Width, ops[1].Width)
	rule := box.Fixed(" " + a.Arg(0) + box.Repeat("-", w+1) + a.Arg(1) + " ")
	b := box.VStack(box.VStack(box.Center(w+4, ops[0]), rule), box.Center(w+4, ops[1]))
	e.replace(2, b)
	e.finish("", true)
}

// arrowV 画出竖直箭头，两个标签分列左右，与箭头共用基线。
func (e *Engine) arrowV(_ string, a symbols.Action) {
	ops := e.operands(2, true)
	l, r := ops[0], ops[1]
	base := max(l.Baseline, r.Baseline)
	h := box.Join(l, r).Lines()
	lift := func(x box.Box) box.Box {
		pad := box.Vertical(strings.Split(box.Repeat(" ", base-x.Baseline+1), ""), 0)
		return box.SetBaseline(box.VStack(pad, x), base+1)
	}
	glyphs := []string{}
	if a.Arg(0) != "" {
		glyphs = append(glyphs, a.Arg(0))
	}
	for range h + 1 {
		glyphs = append(glyphs, "|")
	}
	if a.Arg(1) != "" {
		glyphs = append(glyphs, a.Arg(1))
	}
	shaft := box.Vertical(glyphs, base+1)
	e.replace(2, box.JoinAll(lift(l), shaft, lift(r)))
	e.finish("", true)
}
