package layout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ByLCY/tex2utf/box"
	"github.com/ByLCY/tex2utf/symbols"
)

// handlerFunc 是一个内建处理例程。tok 是触发它的控制序列，由回调触发时为空。
type handlerFunc func(e *Engine, tok string, a symbols.Action)

// builtinHandlers 返回处理例程注册表。
func builtinHandlers() map[symbols.Handler]handlerFunc {
	return map[symbols.Handler]handlerFunc{
		symbols.HandlerOpenGroup:       (*Engine).openGroup,
		symbols.HandlerCloseGroup:      (*Engine).closeGroup,
		symbols.HandlerInlineMath:      (*Engine).inlineMath,
		symbols.HandlerDisplayMath:     (*Engine).displayMath,
		symbols.HandlerRowBreak:        (*Engine).rowBreak,
		symbols.HandlerCellBreak:       (*Engine).cellBreak,
		symbols.HandlerDiagram:         (*Engine).diagram,
		symbols.HandlerOver:            (*Engine).over,
		symbols.HandlerChoose:          (*Engine).choose,
		symbols.HandlerNoIndent:        (*Engine).noIndent,
		symbols.HandlerItem:            (*Engine).item,
		symbols.HandlerPar:             (*Engine).par,
		symbols.HandlerLeft:            (*Engine).left,
		symbols.HandlerRight:           (*Engine).right,
		symbols.HandlerLet:             (*Engine).let,
		symbols.HandlerDef:             (*Engine).def,
		symbols.HandlerNewCommand:      (*Engine).newCommand,
		symbols.HandlerMatrixMacro:     (*Engine).matrixMacro,
		symbols.HandlerSqrt:            (*Engine).sqrt,
		symbols.HandlerSuperscript:     (*Engine).superscript,
		symbols.HandlerSubscript:       (*Engine).subscript,
		symbols.HandlerFraction:        (*Engine).fraction,
		symbols.HandlerBinomial:        (*Engine).binomial,
		symbols.HandlerBuildRel:        (*Engine).buildRel,
		symbols.HandlerRadical:         (*Engine).radical,
		symbols.HandlerOverline:        (*Engine).overline,
		symbols.HandlerUnderline:       (*Engine).underline,
		symbols.HandlerPutOver:         (*Engine).putOver,
		symbols.HandlerPutUnder:        (*Engine).putUnder,
		symbols.HandlerOverSet:         (*Engine).overSet,
		symbols.HandlerUnderSet:        (*Engine).underSet,
		symbols.HandlerWideHat:         (*Engine).wideHat,
		symbols.HandlerWideTilde:       (*Engine).wideTilde,
		symbols.HandlerBrace:           (*Engine).brace,
		symbols.HandlerNot:             (*Engine).not,
		symbols.HandlerWrap:            (*Engine).wrap,
		symbols.HandlerBegin:           (*Engine).begin,
		symbols.HandlerEnd:             (*Engine).end,
		symbols.HandlerLiteralNoLength: (*Engine).literalNoLength,
		symbols.HandlerDiscard:         (*Engine).discard,
		symbols.HandlerSubSuper:        (*Engine).subSuper,
		symbols.HandlerSuperSub:        (*Engine).superSub,
		symbols.HandlerLeftDelim:       (*Engine).leftDelim,
		symbols.HandlerLeftRight:       (*Engine).leftRight,
		symbols.HandlerDelimited:       (*Engine).delimited,
		symbols.HandlerArrow:           (*Engine).arrow,
		symbols.HandlerArrowV:          (*Engine).arrowV,
		symbols.HandlerScriptArg:       (*Engine).scriptArg,
		symbols.HandlerMatrixOpen:      (*Engine).matrixOpen,
		symbols.HandlerMatrixClose:     (*Engine).matrixClose,
		symbols.HandlerMatrixCloseSpec: (*Engine).matrixCloseSpec,
		symbols.HandlerColumnSpec:      (*Engine).columnSpec,
		symbols.HandlerDelimit:         (*Engine).delimit,
	}
}

// checkHandlers 确认符号表引用的处理例程都已注册。
func checkHandlers(reg map[symbols.Handler]handlerFunc, t *symbols.Table) error {
	for _, a := range t.Actions() {
		if _, ok := reg[a.Handler]; !ok {
			return fmt.Errorf("处理例程 %v 未注册", a.Handler)
		}
	}
	return nil
}

// call 执行动作。
func (e *Engine) call(a symbols.Action, tok string) {
	h, ok := e.handlers[a.Handler]
	if !ok {
		// New 已校验符号表；运行期只可能来自 \def 之外的内部错误。
		e.report(DiagUnknown, "handler %v is not registered", a.Handler)
		return
	}
	tracer().Debugf("call %v (%q)", a, tok)
	h(e, tok, a)
}

var (
	reNoIndent  = regexp.MustCompile(`^\s*\\noindent\b\s*`)
	reBeforeEnd = regexp.MustCompile(`^\s*\\end\b`)
	reRowSkip   = regexp.MustCompile(`^\s*\[[^\]]*\]`)
)

func (e *Engine) openGroup(string, symbols.Action) {
	e.start(waitFor(evGroup), symbols.Action{})
}

func (e *Engine) closeGroup(string, symbols.Action) {
	if e.depth() <= 1 {
		e.report(DiagUnbalanced, "unmatched }")
		return
	}
	e.finish(evGroup, false)
}

// inlineMath 处理 $：在 $ 分组内时关闭，否则打开并跳过随后的空白。
func (e *Engine) inlineMath(string, symbols.Action) {
	if e.depth() > 1 && e.top().wait.event == evMath {
		e.trimEnd(len(e.out) - 1)
		e.finish(evMath, false)
		return
	}
	e.start(waitFor(evMath), symbols.Action{})
	e.queue.SkipSpace()
}

// displayMath 处理 $$：打开时先输出当前行；关闭时把公式居中单独输出。
func (e *Engine) displayMath(string, symbols.Action) {
	i := e.waiting(evDisplay)
	if i < 0 {
		e.finishBuffer()
		e.start(waitFor(evDisplay), symbols.Action{})
		e.queue.SkipSpace()
		return
	}
	for e.depth()-1 > i {
		e.report(DiagUnclosed, "group waiting for %q closed by $$", e.top().wait)
		e.finish("", true)
	}
	e.trimEnd(len(e.out) - 1)
	e.finish(evDisplay, false)
	if len(e.out) > 0 {
		e.resetChunks()
		e.trim(1)
		e.collapse(1)
		e.emit(box.Center(e.opts.LineWidth, e.out[0]))
		e.out = nil
		e.resetChunks()
		e.frames = e.frames[:1]
		e.curLen = 0
		e.indented = false
	}
	e.queue.SkipSpace()
}

// rowBreak 处理 \\：在公式中结束当前公式并开始下一个，在矩阵中换行，其余情况分段。
func (e *Engine) rowBreak(tok string, a symbols.Action) {
	switch {
	case e.depth() > 1 && e.top().wait.event == evDisplay:
		e.displayMath(tok, a)
		e.displayMath(tok, a)
	case e.depth() > 1 && e.top().wait.event == evCell:
		e.queue.Match(reRowSkip)
		if e.queue.Peeks(reBeforeEnd) {
			return
		}
		e.endCell()
		e.finish(evRow, true)
		e.start(waitFor(evRow), symbols.Action{})
		e.start(waitFor(evCell), symbols.Action{})
	default:
		e.par(tok, a)
	}
}

func (e *Engine) cellBreak(string, symbols.Action) {
	if e.depth() > 1 && e.top().wait.event == evCell {
		e.endCell()
		e.start(waitFor(evCell), symbols.Action{})
	}
}

func (e *Engine) endCell() {
	e.finish(evCell, true)
	e.trim(1)
	e.collapse(1)
}

// over 与 choose 处理 {a \over b} 形式的中缀命令：把已收集的分子改写为两参数分组的第一个参数。
func (e *Engine) over(tok string, _ symbols.Action) {
	e.infix(tok, symbols.HandlerFraction)
}

func (e *Engine) choose(tok string, _ symbols.Action) {
	e.infix(tok, symbols.HandlerBinomial)
}

func (e *Engine) infix(tok string, h symbols.Handler) {
	if e.depth() <= 1 || e.top().wait.event != evGroup {
		e.puts(tok)
		return
	}
	parent := len(e.frames) - 2
	prev := e.frames[parent].wait
	e.frames[parent].wait = waitFor(evJunk)
	e.finish(evGroup, true)
	e.collapse(1)
	if e.have() < 1 {
		e.frames[parent].wait = prev
		e.report(DiagOperands, "%s without numerator", tok)
		return
	}
	num := e.out[len(e.out)-1]
	e.out = e.out[:len(e.out)-1]
	e.dropPhantom()
	if e.depth() == 1 {
		e.curLen -= num.Width
	}

	e.start(waitCount(2), symbols.Do(h))
	e.frames[len(e.frames)-2].wait = prev
	e.start(waitFor(evGroup), symbols.Action{})
	e.commit(num)
	e.finish(evGroup, true)
	e.start(waitFor(evGroup), symbols.Action{})
}

func (e *Engine) noIndent(string, symbols.Action) {
	if e.indented && len(e.out) == 1 {
		e.out = nil
		e.resetChunks()
		e.curLen = 0
		e.indented = false
		return
	}
	e.puts(`\noindent`)
}

func (e *Engine) item(string, symbols.Action) {
	e.finishBuffer()
	e.putsFixed("     •   ")
}

// par 结束段落。后面紧跟 \noindent 时不缩进。
func (e *Engine) par(string, symbols.Action) {
	e.finishBuffer()
	if _, ok := e.queue.Match(reNoIndent); ok {
		return
	}
	e.indent()
}

func (e *Engine) discard(string, symbols.Action) {
	e.finishIgnore()
}

func (e *Engine) literalNoLength(string, symbols.Action) {
	x := e.operands(1, false)[0]
	e.replace(1, box.ForceWidth(x, 0))
	e.finish("", true)
}

func (e *Engine) wrap(_ string, a symbols.Action) {
	x := e.operands(1, true)[0]
	e.replace(1, box.JoinAll(box.Fixed(a.Arg(0)), x, box.Fixed(a.Arg(1))))
	e.finish("", true)
}

// begin 与 end 读入环境名并执行环境定义的动作；未知环境按原文输出。
func (e *Engine) begin(tok string, _ symbols.Action) {
	name, ok := e.environmentName(tok)
	if !ok {
		return
	}
	env, known := e.table.Environment(name)
	switch {
	case !known:
		e.unknownEnvironment(name)
		e.puts(`\begin{` + name + `}`)
	case env.Ignore:
	default:
		for _, a := range env.Begin {
			e.call(a, tok)
		}
	}
}

func (e *Engine) end(tok string, _ symbols.Action) {
	name, ok := e.environmentName(tok)
	if !ok {
		return
	}
	env, known := e.table.Environment(name)
	switch {
	case !known:
		e.puts(`\end{` + name + `}`)
	case env.Ignore:
	default:
		for _, a := range env.End {
			e.call(a, tok)
		}
	}
}

func (e *Engine) environmentName(tok string) (string, bool) {
	e.queue.SkipSpace()
	arg, ok := e.queue.Balanced()
	if !ok {
		e.report(DiagUnbalanced, "%s without environment name", tok)
		return "", false
	}
	return strings.TrimSpace(arg), true
}

// scriptArg 把随后的内容收集为上标或下标。
func (e *Engine) scriptArg(_ string, a symbols.Action) {
	h := symbols.HandlerSubscript
	if a.Arg(0) == "^" {
		h = symbols.HandlerSuperscript
	}
	e.startArgs(1, symbols.Do(h))
}

func (e *Engine) matrixMacro(string, symbols.Action) {
	e.queue.SkipSpace()
	arg, _ := e.queue.Balanced()
	if arg != "" {
		e.queue.Push(`\begin{matrix}` + arg + `\end{matrix}`)
	}
}

var reSqrtIndex = regexp.MustCompile(`^\s*\[([^\]]*)\]`)

func (e *Engine) sqrt(string, symbols.Action) {
	index := ""
	if m, ok := e.queue.Match(reSqrtIndex); ok {
		index = strings.TrimSpace(m[1])
	}
	e.startArgs(1, symbols.Do(symbols.HandlerRadical, index))
}

// left 收集三个参数：左定界符、内容、右定界符。
func (e *Engine) left(string, symbols.Action) {
	e.startArgs(3, symbols.Do(symbols.HandlerLeftRight))
	e.startArgs(1, symbols.Do(symbols.HandlerLeftDelim))
}

func (e *Engine) leftDelim(string, symbols.Action) {
	e.trim(1)
	e.collapse(1)
	e.finish("", false)
	e.start(waitFor(evLeftRight), symbols.Action{})
}

func (e *Engine) right(string, symbols.Action) {
	e.finish(evLeftRight, true)
	e.trim(1)
	e.collapse(1)
}

func (e *Engine) leftRight(string, symbols.Action) {
	e.trim(1)
	ops := e.operands(3, false)
	e.replace(3, e.delimitBox(delimText(ops[0]), ops[1], delimText(ops[2])))
	e.finish("", false)
}

// delimit 开始收集由环境给出定界符的内容，例如 bmatrix。
func (e *Engine) delimit(_ string, a symbols.Action) {
	e.startArgs(1, symbols.Do(symbols.HandlerDelimited, a.Args...))
}

func (e *Engine) delimited(_ string, a symbols.Action) {
	body := e.operands(1, true)[0]
	e.replace(1, e.delimitBox(a.Arg(0), body, a.Arg(1)))
	e.finish("", true)
}

func delimText(b box.Box) string {
	if b.Lines() != 1 {
		return ""
	}
	return strings.TrimSpace(b.Row(0))
}
