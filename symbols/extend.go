package symbols

import (
	"fmt"
	"strings"
	"unicode"
)

// Extension 是从配置文件读入的符号表增补。
type Extension struct {
	Strings      map[string]string  `toml:"strings"`
	Ignore       []string           `toml:"ignore"`
	Self         []string           `toml:"self"`
	Macros       map[string]Macro   `toml:"macros"`
	Environments map[string]EnvSpec `toml:"environments"`
}

// Macro 是一条用户宏定义，Body 中以 #1..#9 引用参数。
type Macro struct {
	Arity int    `toml:"arity"`
	Body  string `toml:"body"`
}

// EnvSpec 以动作描述（如 "endmatrix;1;l;r"）定义环境。
type EnvSpec struct {
	Begin  []string `toml:"begin"`
	End    []string `toml:"end"`
	Ignore bool     `toml:"ignore"`
}

// Empty 报告增补是否不含任何内容。
func (x Extension) Empty() bool {
	return len(x.Strings) == 0 && len(x.Ignore) == 0 && len(x.Self) == 0 &&
		len(x.Macros) == 0 && len(x.Environments) == 0
}

// Apply 把增补写入 t。名称可以省略开头的反斜杠。
func (x Extension) Apply(t *Table) error {
	for name, s := range x.Strings {
		t.SetString(controlName(name), s)
	}
	for _, name := range x.Ignore {
		t.Set(controlName(name), Entry{Kind: KindIgnore})
	}
	for _, name := range x.Self {
		t.Set(controlName(name), Entry{Kind: KindSelf})
	}
	for name, m := range x.Macros {
		if err := t.Define(controlName(name), m.Arity, m.Body); err != nil {
			return fmt.Errorf("宏配置错误: %w", err)
		}
	}
	for name, spec := range x.Environments {
		env := Environment{Ignore: spec.Ignore}
		var err error
		if env.Begin, err = parseActions(spec.Begin); err != nil {
			return fmt.Errorf("环境 %s 的 begin 配置错误: %w", name, err)
		}
		if env.End, err = parseActions(spec.End); err != nil {
			return fmt.Errorf("环境 %s 的 end 配置错误: %w", name, err)
		}
		t.SetEnvironment(name, env)
	}
	tracer().Debugf("symbols: applied %d strings, %d macros, %d environments",
		len(x.Strings), len(x.Macros), len(x.Environments))
	return nil
}

func parseActions(specs []string) ([]Action, error) {
	out := make([]Action, 0, len(specs))
	for _, s := range specs {
		a, err := ParseAction(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// controlName 给以字母开头的名称补上反斜杠。
func controlName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	if r := []rune(name)[0]; unicode.IsLetter(r) {
		return `\` + name
	}
	return name
}
