package texscan

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	colSpecLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "Letter", Pattern: `[a-zA-Z]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
		{Name: "Punct", Pattern: `[|*@!<>]`},
		{Name: "Other", Pattern: `[^\s{}]`},
	})

	colSpecParser = participle.MustBuild[ColumnSpec](
		participle.Lexer(colSpecLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// ColumnSpec is the column argument of array-like environments, e.g.
// `{r|c@{\,}l}` or `{*{3}{c}p{2cm}}`.
type ColumnSpec struct {
	Items []*ColumnItem `parser:"@@*"`
}

// ColumnItem is one element of a column spec.
type ColumnItem struct {
	Repeat *RepeatColumns `parser:"  @@"`
	Rule   string         `parser:"| @'|'"`
	Insert *Braced        `parser:"| ( '@' | '!' | '>' | '<' ) @@"`
	Sized  *SizedColumn   `parser:"| @@"`
	Align  string         `parser:"| @Letter"`
}

// RepeatColumns is `*{n}{spec}`.
type RepeatColumns struct {
	Count int         `parser:"'*' '{' @Number '}'"`
	Body  *ColumnSpec `parser:"'{' @@ '}'"`
}

// SizedColumn is a paragraph column such as `p{3cm}`.
type SizedColumn struct {
	Kind  string  `parser:"@( 'p' | 'm' | 'b' )"`
	Width *Braced `parser:"@@"`
}

// Braced swallows a brace group, nested groups included.
type Braced struct {
	Items []*BracedItem `parser:"'{' @@* '}'"`
}

// BracedItem is a nested group or a single token inside a Braced.
type BracedItem struct {
	Group *Braced `parser:"  @@"`
	Text  string  `parser:"| @( Number | Letter | Punct | Other )"`
}

// ParseColumnSpec parses spec and returns one alignment letter (l, c or r)
// per column.
func ParseColumnSpec(spec string) ([]string, error) {
	parsed, err := colSpecParser.ParseString("", spec)
	if err != nil {
		return nil, err
	}
	return parsed.Alignments(), nil
}

// Alignments flattens the spec into per-column alignments.
func (s *ColumnSpec) Alignments() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, it := range s.Items {
		switch {
		case it.Repeat != nil:
			body := it.Repeat.Body.Alignments()
			for range it.Repeat.Count {
				out = append(out, body...)
			}
		case it.Sized != nil:
			out = append(out, "l")
		case it.Align != "":
			switch a := strings.ToLower(it.Align); a {
			case "l", "c", "r":
				out = append(out, a)
			case "x":
				out = append(out, "l")
			}
		}
	}
	return out
}
