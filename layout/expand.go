package layout

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/tex2utf/symbols"
	"github.com/ByLCY/tex2utf/texscan"
)

// 该文件实现宏展开与宏定义命令：\def、\let、\newcommand，以及函数名的参数补括号。

// expand 收集宏参数、代入模板并放回输入队列重新扫描。展开次数超过上限时停止处理本段。
func (e *Engine) expand(name string, ent symbols.Entry) {
	e.expansions++
	e.stats.Expansions++
	if e.expansions > e.opts.MaxExpansions {
		e.report(DiagRunaway, "more than %d macro expansions, rest of paragraph dropped at %s", e.opts.MaxExpansions, name)
		e.stopped = true
		return
	}
	args := make([]string, ent.Arity)
	for i := range args {
		e.queue.SkipSpace()
		arg, ok := e.queue.Balanced()
		if !ok {
			e.report(DiagUnbalanced, "argument %d of %s is not closed", i+1, name)
		}
		args[i] = arg
	}
	e.queue.Push(substitute(ent.Text, args))
}

// substitute 把模板中的 #1..#9 换成实参。\# 与 ## 保持原样。
func substitute(body string, args []string) string {
	if len(args) == 0 || !strings.Contains(body, "#") {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '#' && i+1 < len(body) && body[i+1] >= '1' && body[i+1] <= '9' {
			prev := byte(0)
			if i > 0 {
				prev = body[i-1]
			}
			n := int(body[i+1] - '0')
			if prev != '\\' && prev != '#' && n <= len(args) {
				sb.WriteString(args[n-1])
				i++
				continue
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

var (
	reNestedDef   = regexp.MustCompile(`\\([egx]?def|fi)([^a-zA-Z]|$)`)
	reParams      = regexp.MustCompile(`^(#\d)*$`)
	reTrailingCmd = regexp.MustCompile(`\\[a-zA-Z]+$`)
	reLetEquals   = regexp.MustCompile(`^\s*= ?`)
	reStar        = regexp.MustCompile(`^\s*\*`)
	reArity       = regexp.MustCompile(`^\s*\[\s*(\d)\s*\]`)
	reDefault     = regexp.MustCompile(`^\s*\[[^\]]*\]`)
)

// def 处理 \def\name#1#2{body}。含 @ 或嵌套 \def 的定义被忽略。
func (e *Engine) def(tok string, _ symbols.Action) {
	head := e.queue.Until(func(t texscan.Token) bool { return t.Is("{") })
	if next, ok := e.queue.Peek(); !ok || !next.Is("{") {
		e.report(DiagDefinition, "%s%s has no body", tok, head)
		e.queue.Push(head)
		return
	}
	body, ok := e.queue.Balanced()
	if !ok {
		e.report(DiagUnbalanced, "body of %s%s is not closed", tok, head)
		return
	}
	if strings.Contains(head+body, "@") || reNestedDef.MatchString(body) {
		tracer().Debugf("skip definition %s", head)
		return
	}
	toks := texscan.Lex(strings.TrimSpace(head))
	if len(toks) == 0 || !toks[0].Active() {
		e.report(DiagDefinition, "%s without a control sequence", tok)
		return
	}
	params := strings.Join(strings.Fields(texscan.Join(toks[1:])), "")
	if !reParams.MatchString(params) {
		e.report(DiagDefinition, "unsupported parameter text %q for %s", params, toks[0].Name())
		return
	}
	e.define(toks[0].Name(), len(params)/2, body)
}

func (e *Engine) define(name string, arity int, body string) {
	if reTrailingCmd.MatchString(body) {
		body += " "
	}
	if err := e.table.Define(name, arity, body); err != nil {
		e.report(DiagDefinition, "%v", err)
	}
}

// let 处理 \let\a=\b。
func (e *Engine) let(tok string, _ symbols.Action) {
	e.queue.SkipSpace()
	name, ok := e.queue.Next(true)
	if !ok {
		e.report(DiagDefinition, "%s without arguments", tok)
		return
	}
	e.queue.Match(reLetEquals)
	e.queue.SkipSpace()
	target, ok := e.queue.Next(true)
	if !ok {
		e.report(DiagDefinition, "%s%s without target", tok, name.Name())
		return
	}
	if strings.Contains(name.Text+target.Text, "@") {
		return
	}
	e.table.Let(name.Name(), target.Name())
}

// newCommand 处理 \newcommand、\renewcommand 与 \providecommand。可选参数的默认值被丢弃。
func (e *Engine) newCommand(tok string, a symbols.Action) {
	e.queue.Match(reStar)
	e.queue.SkipSpace()
	raw, ok := e.queue.Balanced()
	name := strings.TrimSpace(raw)
	if !ok || !strings.HasPrefix(name, `\`) {
		e.report(DiagDefinition, "%s needs a control sequence name, got %q", tok, raw)
		return
	}
	arity := 0
	if m, ok := e.queue.Match(reArity); ok {
		arity, _ = strconv.Atoi(m[1])
		e.queue.Match(reDefault)
	}
	e.queue.SkipSpace()
	body, ok := e.queue.Balanced()
	if !ok {
		e.report(DiagUnbalanced, "body of %s is not closed", name)
		return
	}
	if _, exists := e.table.Lookup(name); exists && a.Arg(0) == "provide" {
		return
	}
	e.define(name, arity, body)
}

// function 输出函数名，并给紧随的简单参数加上括号，例如 \sin x 输出 sin(x)。
func (e *Engine) function(tok texscan.Token) {
	name := strings.TrimPrefix(tok.Name(), `\`)
	e.queue.SkipSpace()
	next, ok := e.queue.Peek()
	switch {
	case !ok || next.Is(`\left`):
		e.puts(name)
	case next.Kind == texscan.Text && strings.HasPrefix(next.Text, "("):
		e.puts(name)
		e.glueNext = true
	case next.Kind == texscan.Control:
		ent, found := e.table.Lookup(next.Name())
		if !found || ent.Kind != symbols.KindString {
			e.puts(name)
			return
		}
		e.queue.Pop()
		e.puts(name + "(" + strings.TrimSpace(ent.Text) + ")")
	case next.Is("{"):
		arg, _ := e.queue.Balanced()
		e.puts(name)
		e.queue.Push("(" + arg + ")")
		e.glueNext = true
	case next.Kind == texscan.Text:
		r, size := utf8.DecodeRuneInString(next.Text)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			e.puts(name)
			return
		}
		e.queue.Consume(size)
		e.puts(name + "(" + string(r) + ")")
	default:
		e.puts(name)
	}
}
