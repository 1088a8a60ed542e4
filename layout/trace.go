package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("tex2utf.layout")
}

// report 记录一条诊断。诊断不会中断转换。
func (e *Engine) report(kind DiagnosticKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	tracer().Errorf("%s: %s", kind, msg)
	e.diags = append(e.diags, Diagnostic{Kind: kind, Message: msg, Paragraph: e.paragraph})
}

// suggest 在 known 中找与 name 相近的名称，最多返回三个。
func suggest(name string, known []string) []string {
	ranks := fuzzy.RankFindFold(name, known)
	if len(ranks) == 0 {
		for i, k := range known {
			if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(k)); d <= 2 {
				ranks = append(ranks, fuzzy.Rank{Source: name, Target: k, Distance: d, OriginalIndex: i})
			}
		}
	}
	sort.Sort(ranks)
	out := make([]string, 0, 3)
	for _, r := range ranks {
		if len(out) == cap(out) {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

func (e *Engine) unknownControl(name string) {
	if hints := suggest(name, e.table.Names()); len(hints) > 0 {
		e.report(DiagUnknown, "unknown control sequence %s (did you mean %s?)", name, strings.Join(hints, ", "))
		return
	}
	e.report(DiagUnknown, "unknown control sequence %s", name)
}

func (e *Engine) unknownEnvironment(name string) {
	if hints := suggest(name, e.table.EnvironmentNames()); len(hints) > 0 {
		e.report(DiagUnknown, "unknown environment %s (did you mean %s?)", name, strings.Join(hints, ", "))
		return
	}
	e.report(DiagUnknown, "unknown environment %s", name)
}
