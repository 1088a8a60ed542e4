package box

import "strings"

// 该文件定义排版使用的二维文本盒子及其组合运算。所有运算均返回新值，不修改输入。

// Box 是由若干等宽文本行组成的矩形块。
// Height 为 0 时表示可参与两端对齐的单行盒子，此时 Spaces 记录可伸展的空格数；
// 其余情况下 Height 等于行数。Baseline 是与相邻盒子对齐的行号。
type Box struct {
	Height   int `json:"height"`
	Width    int `json:"width"`
	Baseline int `json:"baseline"`
	Spaces   int `json:"spaces"`

	rows []string
}

// Empty 返回零宽度的空盒子。
func Empty() Box {
	return Box{rows: []string{""}}
}

// FromString 构造可伸展的单行盒子。
func FromString(s string) Box {
	return Box{Width: Width(s), Spaces: strings.Count(s, " "), rows: []string{s}}
}

// Fixed 构造不参与两端对齐的单行盒子。
func Fixed(s string) Box {
	return Box{Height: 1, Width: Width(s), rows: []string{s}}
}

// FromRows 以给定基线构造多行盒子，各行右侧补齐到最宽一行。
func FromRows(rows []string, baseline int) Box {
	if len(rows) == 0 {
		return Empty()
	}
	w := 0
	for _, r := range rows {
		w = max(w, Width(r))
	}
	padded := make([]string, len(rows))
	for i, r := range rows {
		padded[i] = Pad(r, w)
	}
	return Box{
		Height:   len(rows),
		Width:    w,
		Baseline: min(max(baseline, 0), len(rows)-1),
		rows:     padded,
	}
}

// Vertical 把每个字形放在单独一行，生成宽度为字形宽度的竖条。
func Vertical(glyphs []string, baseline int) Box {
	return FromRows(glyphs, baseline)
}

// Lines 返回实际行数；单行盒子为 1。
func (b Box) Lines() int {
	if b.Height == 0 {
		return 1
	}
	return b.Height
}

// Justifiable 报告盒子是否为可伸展的单行盒子。
func (b Box) Justifiable() bool {
	return b.Height == 0
}

// Rows 返回各行内容的副本。
func (b Box) Rows() []string {
	out := make([]string, b.Lines())
	copy(out, b.rows)
	return out
}

// Row 返回第 i 行，越界时返回空串。
func (b Box) Row(i int) string {
	if i < 0 || i >= len(b.rows) {
		return ""
	}
	return b.rows[i]
}

// String 以换行连接各行。
func (b Box) String() string {
	return strings.Join(b.Rows(), "\n")
}

// Join 水平拼接两个盒子，基线对齐。两个单行可伸展盒子拼接后仍可伸展。
func Join(a, b Box) Box {
	h1, h2 := a.Lines(), b.Lines()
	base := max(a.Baseline, b.Baseline)
	below := max(h1-a.Baseline-1, h2-b.Baseline-1)
	h := base + below + 1

	rows := make([]string, h)
	for i := range rows {
		left := a.Row(i - (base - a.Baseline))
		right := b.Row(i - (base - b.Baseline))
		rows[i] = Pad(left, a.Width) + Pad(right, b.Width)
	}
	out := Box{
		Height:   h,
		Width:    a.Width + b.Width,
		Baseline: base,
		Spaces:   a.Spaces + b.Spaces,
		rows:     rows,
	}
	if a.Height == 0 && b.Height == 0 {
		out.Height = 0
	}
	return out
}

// JoinAll 从左到右依次拼接。
func JoinAll(boxes ...Box) Box {
	out := Empty()
	for i, b := range boxes {
		if i == 0 {
			out = b
			continue
		}
		out = Join(out, b)
	}
	return out
}

// VStack 把 b 放在 a 下方，基线取 a 的最后一行。
func VStack(a, b Box) Box {
	w := max(a.Width, b.Width)
	rows := make([]string, 0, a.Lines()+b.Lines())
	for _, r := range a.Rows() {
		rows = append(rows, Pad(r, w))
	}
	for _, r := range b.Rows() {
		rows = append(rows, Pad(r, w))
	}
	return Box{
		Height:   len(rows),
		Width:    w,
		Baseline: a.Lines() - 1,
		rows:     rows,
	}
}

// SuperSub 把上标 sup 与下标 sub 上下叠放，中间空一行，基线落在空行上。
// 任一侧宽度为 0 时只保留另一侧，并相应地偏移一行。
func SuperSub(sup, sub Box) Box {
	var rows []string
	baseline := 0
	switch {
	case sup.Width == 0 && sub.Width == 0:
		return Empty()
	case sub.Width == 0:
		rows = append(sup.Rows(), "")
		baseline = sup.Lines()
	case sup.Width == 0:
		rows = append([]string{""}, sub.Rows()...)
	default:
		rows = append(sup.Rows(), "")
		rows = append(rows, sub.Rows()...)
		baseline = sup.Lines()
	}
	return FromRows(rows, baseline)
}

// SubSuper 与 SuperSub 相同，只是参数顺序为先下标后上标。
func SubSuper(sub, sup Box) Box {
	return SuperSub(sup, sub)
}

// Center 把盒子水平居中到宽度 w；w 不大于当前宽度时原样返回。
func Center(w int, b Box) Box {
	if w <= b.Width {
		return b
	}
	left := Repeat(" ", (w-b.Width)/2)
	rows := b.Rows()
	for i, r := range rows {
		rows[i] = Pad(left+r, w)
	}
	return Box{
		Height:   b.Lines(),
		Width:    w,
		Baseline: b.Baseline,
		rows:     rows,
	}
}

// Cut 在第 col 列把盒子切成左右两部分，两部分保持原高度与基线。
// col 超过宽度时返回 (b, Empty())；col 为负时返回 (fallback, b)。
func Cut(col int, b Box, fallback Box) (Box, Box) {
	if col < 0 {
		return fallback, b
	}
	if col > b.Width {
		return b, Empty()
	}
	src := b.Rows()
	lrows := make([]string, len(src))
	rrows := make([]string, len(src))
	for i, r := range src {
		lrows[i], rrows[i] = Split(r, col)
	}
	left := Box{Height: b.Height, Width: col, Baseline: b.Baseline, rows: lrows}
	right := Box{Height: b.Height, Width: b.Width - col, Baseline: b.Baseline, rows: rrows}
	if b.Height == 0 {
		left.Spaces = strings.Count(lrows[0], " ")
		right.Spaces = strings.Count(rrows[0], " ")
	}
	return left, right
}

// SetBaseline 返回基线改为 row 的副本。
func SetBaseline(b Box, row int) Box {
	b.Baseline = row
	return b
}

// ForceWidth 返回逻辑宽度改为 w 的副本，内容不变。
func ForceWidth(b Box, w int) Box {
	b.Width = w
	return b
}

// TrimLeft 去掉可伸展单行盒子的前导空格，其他盒子原样返回。
func TrimLeft(b Box) Box {
	if b.Height != 0 {
		return b
	}
	return FromString(strings.TrimLeft(b.Row(0), " \t"))
}

// TrimRight 去掉可伸展单行盒子的尾随空格，其他盒子原样返回。
func TrimRight(b Box) Box {
	if b.Height != 0 {
		return b
	}
	return FromString(strings.TrimRight(b.Row(0), " \t"))
}

// MapRows 对每一行应用 fn，并按结果重新计算宽度；高度、基线与伸展标记保持不变。
func MapRows(b Box, fn func(i int, row string) string) Box {
	rows := b.Rows()
	w := 0
	for i, r := range rows {
		rows[i] = fn(i, r)
		w = max(w, Width(rows[i]))
	}
	for i, r := range rows {
		rows[i] = Pad(r, w)
	}
	out := Box{Height: b.Height, Width: w, Baseline: b.Baseline, rows: rows}
	if b.Height == 0 {
		out.Spaces = strings.Count(rows[0], " ")
	}
	return out
}
