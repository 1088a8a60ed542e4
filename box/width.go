package box

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Width 返回字符串在终端中的显示列宽。
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Pad 在右侧补空格直到显示宽度达到 w；已经足够宽时原样返回。
func Pad(s string, w int) string {
	if d := w - Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

// Repeat 与 strings.Repeat 相同，但 n 为负时返回空串。
func Repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

// Split 按显示列把 s 切成 [0, col) 与其余部分。
// 跨越切分点的宽字符整体归入右侧，左侧以空格补足 col 列。
func Split(s string, col int) (string, string) {
	if col <= 0 {
		return "", s
	}
	var left strings.Builder
	pos := 0
	rest := s
	state := -1
	for len(rest) > 0 {
		cluster, next, w, st := uniseg.FirstGraphemeClusterInString(rest, state)
		if pos+w > col {
			break
		}
		left.WriteString(cluster)
		pos += w
		rest = next
		state = st
		if pos == col {
			break
		}
	}
	return Pad(left.String(), col), rest
}

// LastSpace 返回 s 中位于前 limit 列内最后一个空格的列号，找不到时返回 -1。
func LastSpace(s string, limit int) int {
	found := -1
	pos := 0
	rest := s
	state := -1
	for len(rest) > 0 && pos < limit {
		cluster, next, w, st := uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == " " {
			found = pos
		}
		pos += w
		rest = next
		state = st
	}
	return found
}
