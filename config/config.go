// Package config 读取 tex2utf 的 TOML 配置文件。
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/tex2utf/layout"
	"github.com/ByLCY/tex2utf/symbols"
)

// File 对应一个配置文件。未出现的键保持 nil，不覆盖默认值。
type File struct {
	Layout  Layout            `toml:"layout"`
	Symbols symbols.Extension `toml:"symbols"`
}

// Layout 是 [layout] 表。
type Layout struct {
	Width         *int  `toml:"width"`
	MaxExpansions *int  `toml:"max_expansions"`
	Ragged        *bool `toml:"ragged"`
	NoIndent      *bool `toml:"noindent"`
	ByParagraph   *bool `toml:"by_paragraph"`
	TeXCompat     *bool `toml:"tex_compat"`
}

// Load 解析 path 指向的配置文件。出现未知键时报错，以免拼写错误被静默忽略。
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("配置文件 %s 含有未知的键: %s", path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// Parse 解析 TOML 文本，主要用于测试。
func Parse(data string) (*File, error) {
	var f File
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("配置含有未知的键: %v", undecoded)
	}
	return &f, nil
}

// Apply 用文件中出现的值覆盖 opts。
func (f *File) Apply(opts layout.BuildOptions) layout.BuildOptions {
	if f == nil {
		return opts
	}
	l := f.Layout
	if l.Width != nil {
		opts.LineWidth = *l.Width
	}
	if l.MaxExpansions != nil {
		opts.MaxExpansions = *l.MaxExpansions
	}
	if l.Ragged != nil {
		opts.Ragged = *l.Ragged
	}
	if l.NoIndent != nil {
		opts.NoIndent = *l.NoIndent
	}
	if l.ByParagraph != nil {
		opts.ByParagraph = *l.ByParagraph
	}
	return opts
}

// SymbolOptions 用文件中出现的值覆盖 opts。
func (f *File) SymbolOptions(opts symbols.Options) symbols.Options {
	if f != nil && f.Layout.TeXCompat != nil {
		opts.TeXCompat = *f.Layout.TeXCompat
	}
	return opts
}

// Table 构造内建符号表并应用 [symbols] 增补。
func (f *File) Table(opts symbols.Options) (*symbols.Table, error) {
	t := symbols.Builtin(f.SymbolOptions(opts))
	if f == nil || f.Symbols.Empty() {
		return t, nil
	}
	if err := f.Symbols.Apply(t); err != nil {
		return nil, err
	}
	return t, nil
}
