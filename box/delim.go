package box

// glyphSet 描述一个可伸长定界符的各个部件。
type glyphSet struct {
	base   string // 单行形态
	one    string // 两行时的补充
	real   string // 更高时的竖线
	top    string
	bottom string
	middle string
}

var delimGlyphs = map[string]glyphSet{
	"(": {"(", " ", "│", "╭", "╰", "│"},
	")": {")", " ", "│", "╮", "╯", "│"},
	"{": {"{", " ", "│", "╭", "╰", "╡"},
	"}": {"}", " ", "│", "╮", "╯", "╞"},
	"[": {"[", " ", "│", "┌", "└", "│"},
	"]": {"]", " ", "│", "┐", "┘", "│"},
}

var (
	barLeft  = glyphSet{"|", " ", "│", "╭", "╰", "│"}
	barRight = glyphSet{"|", " ", "│", "╮", "╯", "│"}
	barShort = glyphSet{"|", "|", "|", "|", "|", "|"}
)

// compound 按上升 ascent（含基线行）与下降 descent 拼出定界符的竖直字形序列。
func compound(ascent, descent int, g glyphSet) []string {
	var out []string
	add := func(s string, n int) {
		for range max(n, 0) {
			out = append(out, s)
		}
	}
	switch {
	case ascent >= 1 && descent > 0 && g.real == g.middle:
		add(g.top, 1)
		add(g.real, ascent+descent-2)
		add(g.bottom, 1)
	case descent <= 0:
		add(g.one, ascent-1)
		add(g.base, 1)
	case ascent <= 1:
		add(g.base, 1)
		add(g.one, descent)
	default:
		add(g.top, 1)
		add(g.real, ascent-2)
		add(g.middle, 1)
		add(g.real, descent-1)
		add(g.bottom, 1)
	}
	return out
}

// Grow 把定界符 delim 伸长到 height 行、基线位于 baseline 行，并在两侧补 leftPad/rightPad 列空白。
// "." 变为一个空格。无法识别或高度不足以伸长时返回 false，由调用方保留原盒子。
func Grow(delim string, height, baseline, leftPad, rightPad int) (Box, bool) {
	if delim == "." {
		return Fixed(" "), true
	}
	height = max(height, 1)
	descent := height - baseline - 1
	if height < 2 {
		return Box{}, false
	}
	if height == 2 && (delim == "(" || delim == ")" || delim == "<" || delim == ">") {
		return Box{}, false
	}

	var out Box
	switch delim {
	case "<", ">":
		out = angle(delim == "<", height, baseline)
	case "|", "||", "‖":
		g := barShort
		if height >= 3 {
			g = barRight
			if leftPad == 0 {
				g = barLeft
			}
		}
		out = Vertical(compound(baseline+1, descent, g), baseline)
		if delim != "|" {
			out = Join(out, out)
		}
	default:
		g, ok := delimGlyphs[delim]
		if !ok {
			return Box{}, false
		}
		out = Vertical(compound(baseline+1, descent, g), baseline)
	}

	if leftPad > 0 {
		out = Join(Fixed(Repeat(" ", leftPad)), out)
	}
	if rightPad > 0 {
		out = Join(out, Fixed(Repeat(" ", rightPad)))
	}
	return out, true
}

// angle 以斜线画出尖角位于基线行的尖括号。
func angle(left bool, height, baseline int) Box {
	width := max(baseline, height-baseline-1) + 1
	rows := make([]string, height)
	for row := range rows {
		dist := row - baseline
		if dist < 0 {
			dist = -dist
		}
		var glyph string
		col := dist
		switch {
		case row < baseline && left:
			glyph = "⧸"
		case row < baseline:
			glyph = "⧹"
		case row == baseline && left:
			glyph = "⟨"
		case row == baseline:
			glyph = "⟩"
		case left:
			glyph = "⧹"
		default:
			glyph = "⧸"
		}
		if !left {
			col = width - 1 - dist
		}
		rows[row] = Repeat(" ", col) + glyph
	}
	return FromRows(rows, baseline)
}
