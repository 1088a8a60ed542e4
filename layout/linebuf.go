package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/tex2utf/box"
)

// 该文件实现最外层的行缓冲：累积盒子、在空白处折行、两端对齐并输出。

const indentWidth = 5

// commit 提交一个盒子。处在最外层时先检查行宽，必要时折行。
func (e *Engine) commit(b box.Box) {
	if e.depth() == 1 {
		if e.curLen+b.Width > e.opts.LineWidth {
			b = e.prepareCut(b)
		}
		e.curLen += b.Width
	}
	e.push(b)
	e.settle()
}

// puts 提交可伸展的文本。
func (e *Engine) puts(s string) {
	e.commit(box.FromString(s))
}

// putsFixed 提交不参与两端对齐的文本。
func (e *Engine) putsFixed(s string) {
	e.commit(box.Fixed(s))
}

// indent 提交段首缩进。
func (e *Engine) indent() {
	if e.opts.NoIndent {
		return
	}
	e.putsFixed(strings.Repeat(" ", indentWidth))
	e.indented = true
}

// prepareCut 在加入 b 会超出行宽时折行，返回需要继续放到新行上的部分。
func (e *Engine) prepareCut(b box.Box) box.Box {
	width := e.opts.LineWidth
	lenAdd := b.Width
	lenRem := width - e.curLen
	if lenAdd <= lenRem {
		return b
	}

	// 在 b 自身的空格处断开
	if b.Lines() < 2 {
		for lenRem < lenAdd {
			col := box.LastSpace(b.Row(0), lenRem)
			if col < 0 {
				break
			}
			left, right := box.Cut(col+1, b, box.Empty())
			e.out = append(e.out, left)
			e.flush(false)
			b = right
			lenAdd = b.Width
			lenRem = width
		}
		if lenAdd <= lenRem {
			e.curLen = width - lenRem
			return b
		}
	}

	// 在已提交的盒子里找最后一个空格，把其后的部分与 b 一起移到新行
	if lenRem < width && lenAdd <= width {
		if rest, ok := e.breakBehind(lenAdd); ok {
			e.curLen = rest
			return b
		}
	}

	if lenAdd > width && lenRem > 0 {
		left, right := box.Cut(lenRem, b, box.Empty())
		e.out = append(e.out, left)
		e.flush(false)
		b = right
	}
	e.flush(false)
	if b.Justifiable() {
		b = box.TrimLeft(b)
	}
	for b.Width > width {
		left, right := box.Cut(width, b, box.Empty())
		e.out = append(e.out[:0], left)
		e.flush(false)
		b = right
	}
	e.curLen = 0
	return b
}

// breakBehind 在待输出的可伸展盒子中寻找最后一个空格并在该处输出一行。
// 剩余部分宽度加上 incoming 必须放得下一行，否则不做任何事。返回剩余部分的宽度。
func (e *Engine) breakBehind(incoming int) (int, bool) {
	pending := 0
	for i := len(e.out) - 1; i >= 0; i-- {
		b := e.out[i]
		col := -1
		if b.Justifiable() {
			col = box.LastSpace(b.Row(0), b.Width)
		}
		if col < 0 {
			pending += b.Width
			continue
		}
		left, right := box.Cut(col+1, b, box.Empty())
		rest := pending + right.Width
		if rest+incoming > e.opts.LineWidth || blank(append(e.out[:i:i], left)) {
			return 0, false
		}
		tail := append([]box.Box(nil), e.out[i+1:]...)
		e.out = append(e.out[:i], left)
		e.flush(false)
		if right.Width > 0 {
			e.push(right)
		}
		for _, t := range tail {
			e.push(t)
		}
		e.stats.Breaks++
		return rest, true
	}
	return 0, false
}

func blank(boxes []box.Box) bool {
	for _, b := range boxes {
		for _, row := range b.Rows() {
			if strings.TrimSpace(row) != "" {
				return false
			}
		}
	}
	return true
}

// flush 输出最外层缓冲中的全部盒子。force 为假时按行宽两端对齐。
func (e *Engine) flush(force bool) {
	if len(e.out) == 0 {
		e.curLen = 0
		e.resetChunks()
		return
	}
	line := e.out
	if !force {
		line = e.justify(line)
	}
	e.emit(box.JoinAll(line...))
	e.out = nil
	e.curLen = 0
	e.indented = false
	e.resetChunks()
}

func (e *Engine) resetChunks() {
	e.chunks = e.chunks[:0]
	e.chunks = append(e.chunks, 0)
}

// justify 把行宽余量平均分配到可伸展盒子的空格上，最左边的 extra mod spaces 个空格各多得一列。
func (e *Engine) justify(line []box.Box) []box.Box {
	line = append([]box.Box(nil), line...)
	last := len(line) - 1
	line[last] = box.MapRows(line[last], func(_ int, row string) string {
		return strings.TrimRight(row, " ")
	})
	if e.opts.Ragged {
		return line
	}
	total, spaces := 0, 0
	for _, b := range line {
		total += b.Width
		if b.Justifiable() {
			spaces += b.Spaces
		}
	}
	extra := e.opts.LineWidth - total
	if extra <= 0 || spaces == 0 {
		return line
	}
	each, rem := extra/spaces, extra%spaces
	seen := 0
	for i, b := range line {
		if !b.Justifiable() || b.Spaces == 0 {
			continue
		}
		var sb strings.Builder
		for _, r := range b.Row(0) {
			if r != ' ' {
				sb.WriteRune(r)
				continue
			}
			n := 1 + each
			if seen < rem {
				n++
			}
			seen++
			sb.WriteString(strings.Repeat(" ", n))
		}
		line[i] = box.FromString(sb.String())
	}
	e.stats.Justified++
	return line
}

// emit 输出盒子的各行：去掉行尾空白并跳过空行。
func (e *Engine) emit(b box.Box) {
	if e.opts.Debug.Boxes {
		e.boxes = append(e.boxes, BoxInfo{
			Paragraph: e.paragraph,
			Height:    b.Height,
			Width:     b.Width,
			Baseline:  b.Baseline,
			Spaces:    b.Spaces,
		})
	}
	for _, row := range b.Rows() {
		row = strings.TrimRight(row, " ")
		if row == "" {
			continue
		}
		e.writeLine(row)
	}
}

func (e *Engine) writeLine(line string) {
	if e.separate {
		e.separate = false
		e.writeLine("")
	}
	e.lines = append(e.lines, line)
	if e.opts.Output == nil || e.writeErr != nil {
		return
	}
	if _, err := fmt.Fprintln(e.opts.Output, line); err != nil {
		e.writeErr = fmt.Errorf("写入输出失败: %w", err)
	}
}

// finishBuffer 关闭所有分组并输出剩余内容，不再寻找折行点。
func (e *Engine) finishBuffer() {
	for e.depth() > 1 {
		if w := e.top().wait; w.event != "" && w.event != evJunk {
			e.report(DiagUnclosed, "group waiting for %q closed at end of paragraph", w.event)
		}
		e.finish("", false)
	}
	e.flush(true)
}
