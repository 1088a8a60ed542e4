package layout

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/tex2utf/box"
	"github.com/ByLCY/tex2utf/symbols"
	"github.com/ByLCY/tex2utf/texscan"
)

// 该文件实现矩阵与对齐环境：行、单元格分组以及按列对齐。

func (e *Engine) matrixOpen(string, symbols.Action) {
	e.start(waitFor(evMatrix), symbols.Action{})
	e.start(waitFor(evRow), symbols.Action{})
	e.start(waitFor(evCell), symbols.Action{})
}

// matrixClose 的参数依次为列间距与各列的对齐方式（l、c、r）。
func (e *Engine) matrixClose(_ string, a symbols.Action) {
	e.closeMatrix(a.Arg(0), a.Args[min(1, len(a.Args)):])
}

// matrixCloseSpec 与 matrixClose 相同，对齐方式取自 \begin{array}{...} 的列说明。
func (e *Engine) matrixCloseSpec(_ string, a symbols.Action) {
	var aligns []string
	if n := len(e.argStack); n > 0 {
		aligns = e.argStack[n-1]
		e.argStack = e.argStack[:n-1]
	}
	e.closeMatrix(a.Arg(0), aligns)
}

func (e *Engine) closeMatrix(gap string, aligns []string) {
	e.endCell()
	e.finish(evRow, true)
	if e.top().wait.event != evMatrix {
		e.report(DiagMismatch, "matrix closed inside %q", e.top().wait)
		return
	}
	n, err := strconv.Atoi(gap)
	if err != nil {
		n = 1
	}
	e.halign(n, aligns)
	e.finish(evMatrix, true)
}

// halign 把当前分组的每个参数当作一行、参数中的每个盒子当作一个单元格，按列对齐后上下叠放。
func (e *Engine) halign(gap int, aligns []string) {
	e.dropPhantom()
	lvl := e.top().level
	first := e.chunks[lvl]
	if first >= len(e.out) {
		return
	}

	rows := make([][]int, 0, len(e.chunks)-lvl)
	for r := lvl; r < len(e.chunks); r++ {
		end := len(e.out)
		if r+1 < len(e.chunks) {
			end = e.chunks[r+1]
		}
		cells := make([]int, 0, end-e.chunks[r])
		for i := e.chunks[r]; i < end; i++ {
			cells = append(cells, i)
		}
		rows = append(rows, cells)
	}

	var widths []int
	for _, cells := range rows {
		for col, i := range cells {
			if col >= len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = max(widths[col], e.out[i].Width)
		}
	}
	for col := range widths[:max(len(widths)-1, 0)] {
		widths[col] += gap
	}
	if len(aligns) == 0 {
		aligns = []string{"c"}
	}
	for len(aligns) < len(widths) {
		aligns = append(aligns, aligns[len(aligns)-1])
	}

	stacked := make([]box.Box, 0, len(rows))
	for _, cells := range rows {
		parts := make([]box.Box, 0, len(cells))
		for col, i := range cells {
			cell, w := e.out[i], widths[col]
			gapHere := 0
			if col < len(widths)-1 {
				gapHere = gap
			}
			switch aligns[col] {
			case "l":
				cell = box.Join(cell, box.Fixed(box.Repeat(" ", w-cell.Width)))
			case "r":
				cell = box.JoinAll(
					box.Fixed(box.Repeat(" ", w-gapHere-cell.Width)),
					cell,
					box.Fixed(box.Repeat(" ", gapHere)),
				)
			default:
				cell = box.Center(w, cell)
			}
			parts = append(parts, cell)
		}
		stacked = append(stacked, box.JoinAll(parts...))
	}

	grid := stacked[0]
	for _, row := range stacked[1:] {
		grid = box.VStack(grid, row)
	}
	grid = box.SetBaseline(grid, (grid.Lines()-1)/2)
	if grid.Height == 0 {
		// 单行矩阵也不参与两端对齐
		grid = box.FromRows(grid.Rows(), 0)
	}

	e.out = append(e.out[:first], grid)
	e.chunks = e.chunks[:lvl+1]
}

var reOptionalPos = regexp.MustCompile(`^\s*\[[^\]]*\]`)

// columnSpec 读取 array 与 tabular 的列说明，供 matrixCloseSpec 使用。
func (e *Engine) columnSpec(string, symbols.Action) {
	e.queue.Match(reOptionalPos)
	e.queue.SkipSpace()
	spec, ok := e.queue.Balanced()
	if !ok {
		e.report(DiagUnbalanced, "column specification %q is not closed", spec)
	}
	aligns, err := texscan.ParseColumnSpec(spec)
	if err != nil {
		tracer().Infof("column spec %q: %v", spec, err)
		aligns = nil
		for _, r := range spec {
			switch r {
			case 'l', 'c', 'r':
				aligns = append(aligns, string(r))
			}
		}
	}
	e.argStack = append(e.argStack, aligns)
}

// diagram 处理交换图中以 @ 开头的箭头。
func (e *Engine) diagram(string, symbols.Action) {
	next := e.queue.Lookahead(1)
	if next == "" {
		e.puts("@")
		return
	}
	inCell := e.depth() > 1 && e.top().wait.event == evCell
	c := next[0]
	switch {
	case c == '@':
		e.queue.Consume(1)
		e.puts("@")
	case strings.IndexByte("<>AV", c) >= 0:
		e.queue.Consume(1)
		m := ""
		if inCell {
			m = "&"
			if c == 'A' || c == 'V' {
				m = "&&"
			}
		}
		if m == "&" {
			e.cellBreak("", symbols.Action{})
		}
		first := e.labelUntil(c)
		second := e.labelUntil(c)
		e.queue.Push("{" + first + "}{" + second + "}" + m)

		h := symbols.HandlerArrowV
		var tips [2]string
		switch c {
		case '>':
			h, tips = symbols.HandlerArrow, [2]string{"", ">"}
		case '<':
			h, tips = symbols.HandlerArrow, [2]string{"<", ""}
		case 'A':
			tips = [2]string{"^", ""}
		case 'V':
			tips = [2]string{"", "V"}
		}
		e.start(waitCount(2), symbols.Do(h, tips[0], tips[1]))
	case c == '.' && inCell:
		e.queue.Consume(1)
		e.cellBreak("", symbols.Action{})
		e.cellBreak("", symbols.Action{})
	default:
		e.puts("@")
	}
}

// labelUntil 读取箭头标签，直到遇到与箭头相同的字符。
func (e *Engine) labelUntil(c byte) string {
	var sb strings.Builder
	for {
		arg, ok := e.queue.Balanced()
		if arg == "" && !ok {
			return sb.String()
		}
		if arg == string(c) {
			return sb.String()
		}
		sb.WriteString(arg)
		if !ok {
			return sb.String()
		}
	}
}
