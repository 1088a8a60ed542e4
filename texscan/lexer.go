// Package texscan splits TeX source into the tokens the layout engine
// consumes: runs of ordinary text, control sequences, active characters and
// the display-math switch.
package texscan

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/npillmayer/schuko/tracing"
)

var (
	texLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "DisplayMath", Pattern: `\$\$`},
		{Name: "Control", Pattern: `\\(?:[a-zA-Z]+\s*|[^a-zA-Z])`},
		{Name: "Special", Pattern: `[\\$}{^_~&@]`},
		{Name: "Text", Pattern: `[^\\$}{^_~&@]+`},
	})

	displayMathType = mustTokenType("DisplayMath")
	controlType     = mustTokenType("Control")
	specialType     = mustTokenType("Special")
	textType        = mustTokenType("Text")
)

func tracer() tracing.Trace {
	return tracing.Select("tex2utf.scan")
}

// Kind classifies a token.
type Kind int

const (
	Text Kind = iota
	Control
	Special
	DisplayMath
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Control:
		return "control"
	case Special:
		return "special"
	case DisplayMath:
		return "display-math"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is one lexical unit. Text keeps the raw spelling, including the
// whitespace a control word swallows.
type Token struct {
	Kind Kind
	Text string
}

// Name returns the spelling without trailing whitespace.
func (t Token) Name() string {
	if t.Kind == Control {
		return strings.TrimRight(t.Text, " \t\r\n")
	}
	return t.Text
}

// Is reports whether t is the special character or control sequence s.
func (t Token) Is(s string) bool {
	return t.Kind != Text && t.Name() == s
}

// Active reports whether the token may carry a symbol-table meaning.
func (t Token) Active() bool {
	return t.Kind != Text
}

// Lex tokenizes src. Input the lexer cannot classify is kept as text.
func Lex(src string) []Token {
	if src == "" {
		return nil
	}
	lex, err := texLexer.LexString("", src)
	if err != nil {
		tracer().Errorf("lex: %v", err)
		return []Token{{Kind: Text, Text: src}}
	}
	var out []Token
	consumed := 0
	for {
		tok, err := lex.Next()
		if err != nil {
			tracer().Errorf("lex at byte %d: %v", consumed, err)
			out = append(out, Token{Kind: Text, Text: src[consumed:]})
			return out
		}
		if tok.EOF() {
			return out
		}
		consumed += len(tok.Value)
		out = append(out, Token{Kind: kindOf(tok.Type), Text: tok.Value})
	}
}

// Join concatenates the raw spelling of toks.
func Join(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func kindOf(tt lexer.TokenType) Kind {
	switch tt {
	case displayMathType:
		return DisplayMath
	case controlType:
		return Control
	case specialType:
		return Special
	case textType:
		return Text
	default:
		return Text
	}
}

func mustTokenType(name string) lexer.TokenType {
	symbols := texLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
