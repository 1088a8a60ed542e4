package layout

import (
	"strconv"

	"github.com/ByLCY/tex2utf/box"
	"github.com/ByLCY/tex2utf/symbols"
)

// 该文件实现分组栈：out 是共享的盒子列表，chunks 把它划分为参数，frames 记录每一层在等待什么。

// 分组结束事件。
const (
	evGroup     = "}"
	evMath      = "$"
	evDisplay   = "$$"
	evCell      = "endCell"
	evRow       = "endRow"
	evMatrix    = "endMatrix"
	evLeftRight = "LeftRight"
	evJunk      = "junk"
)

// await 是分组的结束条件：等待某个事件，或者等待 count 个参数。
type await struct {
	event string
	count int
}

func waitFor(event string) await { return await{event: event} }
func waitCount(n int) await      { return await{count: n} }

func (w await) String() string {
	if w.count > 0 {
		return strconv.Itoa(w.count)
	}
	return w.event
}

// frame 是分组栈的一层。
type frame struct {
	level     int // 本层第一个参数在 chunks 中的下标
	wait      await
	action    symbols.Action
	tokenWise bool // 逐字符读取参数
	id        int
}

func (e *Engine) depth() int { return len(e.frames) }

func (e *Engine) top() *frame { return &e.frames[len(e.frames)-1] }

// start 打开新分组。当前分组已有内容时先开一个新的参数边界。
func (e *Engine) start(w await, a symbols.Action) {
	n := len(e.out)
	if e.chunks[e.top().level] < n && e.chunks[len(e.chunks)-1] < n {
		e.chunks = append(e.chunks, n)
	}
	e.nextID++
	e.frames = append(e.frames, frame{
		level:  len(e.chunks) - 1,
		wait:   w,
		action: a,
		id:     e.nextID,
	})
	tracer().Debugf("start %v %v at depth %d", w, a, e.depth())
}

// startArgs 打开收集 n 个参数的分组，参数逐字符读取。
func (e *Engine) startArgs(n int, a symbols.Action) {
	e.start(waitCount(n), a)
	e.top().tokenWise = true
}

// have 返回当前分组已收集的参数个数。末尾尚未填入盒子的边界不计。
func (e *Engine) have() int {
	n := len(e.chunks) - e.top().level
	if e.chunks[len(e.chunks)-1] >= len(e.out) {
		n--
	}
	return max(n, 0)
}

// dropPhantom 去掉当前分组末尾没有盒子的参数边界。
func (e *Engine) dropPhantom() {
	lvl := e.top().level
	for n := len(e.chunks) - 1; n > lvl && e.chunks[n] >= len(e.out); n-- {
		e.chunks = e.chunks[:n]
	}
}

// push 追加盒子并按需开新的参数边界，不做行宽检查，也不触发回调。
func (e *Engine) push(b box.Box) {
	e.out = append(e.out, b)
	if len(e.out)-1 != e.chunks[len(e.chunks)-1] {
		e.chunks = append(e.chunks, len(e.out)-1)
	}
}

// finish 关闭当前分组。event 非空且与等待的事件不符时记录诊断，但仍然关闭。
// 回到最外层且 force 为假时，分组内的盒子逐个重新提交，以便折行。
func (e *Engine) finish(event string, force bool) {
	if e.depth() <= 1 {
		return
	}
	f := *e.top()
	if event != "" && f.wait.count == 0 && event != f.wait.event {
		e.report(DiagMismatch, "expected %q, got %q", f.wait.event, event)
	}
	if len(e.out) <= e.chunks[f.level] {
		e.out = append(e.out, box.Empty())
	}
	e.chunks = e.chunks[:f.level+1]

	var saved []box.Box
	if e.depth() == 2 {
		from := e.chunks[len(e.chunks)-1]
		if force {
			for _, b := range e.out[from:] {
				e.curLen += b.Width
			}
		} else {
			saved = append(saved, e.out[from:]...)
			e.out = e.out[:from]
		}
	}
	e.frames = e.frames[:len(e.frames)-1]
	for _, b := range saved {
		e.commit(b)
	}
	e.settle()
}

// finishIgnore 关闭当前分组并丢弃其中的全部盒子。
func (e *Engine) finishIgnore() {
	if e.depth() <= 1 {
		return
	}
	f := e.top()
	e.out = e.out[:e.chunks[f.level]]
	e.chunks = e.chunks[:f.level+1]
	e.frames = e.frames[:len(e.frames)-1]
}

// settle 依次触发已收齐参数的分组的回调。嵌套调用直接返回，由最外层的循环继续处理，
// 因此级联完成不会加深调用栈。
func (e *Engine) settle() {
	if e.settling {
		return
	}
	e.settling = true
	defer func() { e.settling = false }()

	for e.depth() > 1 {
		f := e.top()
		if f.wait.count == 0 || f.wait.count != e.have() {
			return
		}
		id, act := f.id, f.action
		if act.Handler == symbols.HandlerNone {
			e.finish("", false)
			continue
		}
		e.call(act, "")
		if t := e.top(); e.depth() > 1 && t.id == id && t.action.Handler == act.Handler && t.wait.count == e.have() {
			// 回调没有关闭自己的分组，强制关闭以免死循环。
			e.report(DiagOperands, "%v left its group open", act)
			e.finish("", true)
		}
	}
}

// collapse 把当前分组最后 n 个参数各自拼成一个盒子。
func (e *Engine) collapse(n int) {
	e.dropPhantom()
	n = min(n, e.have())
	if n <= 0 {
		return
	}
	for i := range n {
		e.collapseOne(len(e.chunks) - 1 - i)
	}
	last := len(e.chunks) - 1
	for i := 1; i < n; i++ {
		e.chunks[last+1-i] = e.chunks[last+1-n] + n - i
	}
}

func (e *Engine) collapseAll() {
	e.collapse(e.have())
}

func (e *Engine) collapseOne(n int) {
	if n >= len(e.chunks) {
		return
	}
	from, to := e.chunks[n], len(e.out)
	if n < len(e.chunks)-1 {
		to = e.chunks[n+1]
	}
	if to-from <= 1 {
		return
	}
	joined := box.JoinAll(e.out[from:to]...)
	e.out = append(append(e.out[:from:from], joined), e.out[to:]...)
}

// trim 去掉当前分组最后 n 个参数首尾的空格。
func (e *Engine) trim(n int) {
	e.dropPhantom()
	lvl := e.top().level
	for i := max(len(e.chunks)-n, lvl); i < len(e.chunks); i++ {
		e.trimBegin(e.chunks[i])
		if i == len(e.chunks)-1 {
			e.trimEnd(len(e.out) - 1)
		} else {
			e.trimEnd(e.chunks[i+1] - 1)
		}
	}
}

func (e *Engine) trimBegin(i int) {
	if i >= 0 && i < len(e.out) {
		e.out[i] = box.TrimLeft(e.out[i])
	}
}

func (e *Engine) trimEnd(i int) {
	if i >= 0 && i < len(e.out) {
		e.out[i] = box.TrimRight(e.out[i])
	}
}

// operands 取出当前分组最后 n 个参数。参数不足时记录诊断并以空盒子补齐。
func (e *Engine) operands(n int, trim bool) []box.Box {
	if trim {
		e.trim(n)
	}
	e.collapse(n)
	if h := e.have(); h < n {
		e.report(DiagOperands, "%d operand(s) expected, %d found", n, h)
		for range n - h {
			e.push(box.Empty())
		}
	}
	out := make([]box.Box, n)
	copy(out, e.out[len(e.out)-n:])
	return out
}

// replace 用 b 替换 operands 取出的最后 n 个参数。
func (e *Engine) replace(n int, b box.Box) {
	e.out = append(e.out[:len(e.out)-n], b)
	e.chunks = e.chunks[:len(e.chunks)-n+1]
}

// waiting 返回等待 event 的最内层分组下标，没有时返回 -1。
func (e *Engine) waiting(event string) int {
	for i := len(e.frames) - 1; i > 0; i-- {
		if e.frames[i].wait.event == event {
			return i
		}
	}
	return -1
}

// inMath 报告当前是否处在数学模式或参数分组中。
func (e *Engine) inMath() bool {
	for _, f := range e.frames[1:] {
		switch f.wait.event {
		case evMath, evDisplay, evGroup, evLeftRight, evCell:
			return true
		}
	}
	return false
}
