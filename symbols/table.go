// Package symbols holds the table that gives control sequences, active
// characters and environment names their meaning.
package symbols

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ByLCY/tex2utf/box"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("tex2utf.symbols")
}

// Kind 区分符号表条目的处理方式。
type Kind uint8

const (
	KindString   Kind = iota + 1 // 输出固定字符串，不参与两端对齐
	KindBox                      // 输出预先排好的多行盒子
	KindSelf                     // 输出去掉反斜杠的名称
	KindIgnore                   // 忽略
	KindMacro                    // 用户宏，按模板展开后重新扫描
	KindHandler                  // 内建处理例程；Arity>0 时先收集参数
	KindFunction                 // 函数名，后随的简单参数加括号
	KindStyle                    // 数学字母表变换
	KindParBefore                // 先分段再输出名称
	KindParAfter                 // 先输出名称再分段
)

var kindNames = map[Kind]string{
	KindString:    "string",
	KindBox:       "box",
	KindSelf:      "self",
	KindIgnore:    "ignore",
	KindMacro:     "macro",
	KindHandler:   "handler",
	KindFunction:  "function",
	KindStyle:     "style",
	KindParBefore: "par-before",
	KindParAfter:  "par-after",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Entry 是符号表中的一个条目。各字段是否有效取决于 Kind。
type Entry struct {
	Kind Kind

	Text   string  // KindString 的内容；KindMacro 的模板
	Box    box.Box // KindBox
	Arity  int     // KindMacro 的参数个数；KindHandler 需要收集的参数个数
	Action Action  // KindHandler
	Style  Style   // KindStyle
}

// Environment 描述 \begin{name} 与 \end{name} 触发的动作。Ignore 为真时两者都不做任何事。
type Environment struct {
	Begin  []Action
	End    []Action
	Ignore bool
}

// Table 是可变的符号表。转换过程中 \def 等命令会向其中写入条目。
type Table struct {
	entries map[string]Entry
	envs    map[string]Environment
}

// NewTable 返回空表。
func NewTable() *Table {
	return &Table{
		entries: make(map[string]Entry),
		envs:    make(map[string]Environment),
	}
}

// Clone 返回可单独修改的副本，供单次转换使用。
func (t *Table) Clone() *Table {
	return &Table{
		entries: maps.Clone(t.entries),
		envs:    maps.Clone(t.envs),
	}
}

// Lookup 按拼写查找条目。
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Set 插入或覆盖一个条目。
func (t *Table) Set(name string, e Entry) {
	t.entries[name] = e
}

// SetString 以固定字符串定义 name。
func (t *Table) SetString(name, text string) {
	t.Set(name, Entry{Kind: KindString, Text: text})
}

// SetHandler 以处理例程定义 name，arity 为需要先收集的参数个数。
func (t *Table) SetHandler(name string, arity int, h Handler, args ...string) {
	t.Set(name, Entry{Kind: KindHandler, Arity: arity, Action: Do(h, args...)})
}

// Define 以 arity 个参数的宏模板定义 name。
func (t *Table) Define(name string, arity int, body string) error {
	if name == "" {
		return fmt.Errorf("宏名称为空")
	}
	if arity < 0 || arity > 9 {
		return fmt.Errorf("宏 %s 的参数个数 %d 超出范围", name, arity)
	}
	t.Set(name, Entry{Kind: KindMacro, Arity: arity, Text: body})
	return nil
}

// Let 让 name 取得 target 当前的含义；target 没有定义时，name 展开为 target 本身。
func (t *Table) Let(name, target string) {
	if e, ok := t.entries[target]; ok {
		t.entries[name] = e
		return
	}
	t.entries[name] = Entry{Kind: KindMacro, Text: target}
}

// Environment 查找环境定义。
func (t *Table) Environment(name string) (Environment, bool) {
	env, ok := t.envs[name]
	return env, ok
}

// SetEnvironment 插入或覆盖环境定义。
func (t *Table) SetEnvironment(name string, env Environment) {
	t.envs[name] = env
}

// Names 返回所有控制序列名称（以反斜杠开头），按字典序排列。
func (t *Table) Names() []string {
	var out []string
	for name := range t.entries {
		if strings.HasPrefix(name, `\`) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// EnvironmentNames 返回所有环境名称，按字典序排列。
func (t *Table) EnvironmentNames() []string {
	return slices.Sorted(maps.Keys(t.envs))
}

// Actions 返回表中引用的全部动作，用于在启动时校验处理例程是否都已注册。
func (t *Table) Actions() []Action {
	var out []Action
	for _, e := range t.entries {
		if e.Kind == KindHandler {
			out = append(out, e.Action)
		}
	}
	for _, env := range t.envs {
		out = append(out, env.Begin...)
		out = append(out, env.End...)
	}
	return out
}
