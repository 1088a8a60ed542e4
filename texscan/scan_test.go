package texscan_test

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/ByLCY/tex2utf/texscan"
)

func TestLexClassifies(t *testing.T) {
	toks := texscan.Lex(`a+b $$\alpha  x\{^_`)
	want := []texscan.Token{
		{Kind: texscan.Text, Text: "a+b "},
		{Kind: texscan.DisplayMath, Text: "$$"},
		{Kind: texscan.Control, Text: `\alpha  `},
		{Kind: texscan.Text, Text: "x"},
		{Kind: texscan.Control, Text: `\{`},
		{Kind: texscan.Special, Text: "^"},
		{Kind: texscan.Special, Text: "_"},
	}
	if !reflect.DeepEqual(toks, want) {
		t.Fatalf("unexpected tokens:\n got %+v\nwant %+v", toks, want)
	}
	if toks[2].Name() != `\alpha` {
		t.Fatalf("control name should drop trailing blanks, got %q", toks[2].Name())
	}
}

func TestNextMergesTextAndTrims(t *testing.T) {
	q := texscan.NewQueue(" cd$")
	q.Push("ab")
	tok, ok := q.Next(false)
	if !ok || tok.Text != "ab cd" {
		t.Fatalf("expected merged text run, got %+v", tok)
	}
	q = texscan.NewQueue("   x")
	tok, _ = q.Next(false)
	if tok.Text != "x" {
		t.Fatalf("leading whitespace should be dropped, got %q", tok.Text)
	}
}

func TestNextSingle(t *testing.T) {
	q := texscan.NewQueue(" ab")
	var got []string
	for {
		tok, ok := q.Next(true)
		if !ok {
			break
		}
		got = append(got, tok.Text)
	}
	if !reflect.DeepEqual(got, []string{" ", "a", "b"}) {
		t.Fatalf("single mode should keep whitespace: %q", got)
	}
}

func TestBalanced(t *testing.T) {
	q := texscan.NewQueue(`{a{b}\}c}rest`)
	arg, ok := q.Balanced()
	if !ok || arg != `a{b}\}c` {
		t.Fatalf("unexpected argument %q (ok=%v)", arg, ok)
	}
	if q.String() != "rest" {
		t.Fatalf("unexpected remainder %q", q.String())
	}

	q = texscan.NewQueue("xyz")
	arg, ok = q.Balanced()
	if !ok || arg != "x" {
		t.Fatalf("a bare argument is one character, got %q", arg)
	}

	q = texscan.NewQueue("{open")
	arg, ok = q.Balanced()
	if ok || arg != "open" {
		t.Fatalf("unbalanced group should report failure with partial text, got %q ok=%v", arg, ok)
	}
}

func TestMatchConsumesAcrossTokens(t *testing.T) {
	q := texscan.NewQueue(` \begin {Sp}x`)
	re := regexp.MustCompile(`^\s*\\begin\s*\{Sp\}`)
	if !q.Peeks(re) {
		t.Fatalf("expected lookahead match")
	}
	if _, ok := q.Match(re); !ok {
		t.Fatalf("expected match")
	}
	if q.String() != "x" {
		t.Fatalf("unexpected remainder %q", q.String())
	}
}

func TestConsumeSplitsToken(t *testing.T) {
	q := texscan.NewQueue(`  ^2`)
	q.Consume(3)
	tok, _ := q.Pop()
	if tok.Text != "2" {
		t.Fatalf("unexpected token %+v", tok)
	}
}

func TestParseColumnSpec(t *testing.T) {
	cases := map[string][]string{
		"cc|l":           {"c", "c", "l"},
		"r@{\\,}l":       {"r", "l"},
		"*{3}{c}":        {"c", "c", "c"},
		"|p{2cm}|r|":     {"l", "r"},
		"l *{2}{r c} ":   {"l", "r", "c", "r", "c"},
		">{\\bfseries}c": {"c"},
	}
	for spec, want := range cases {
		got, err := texscan.ParseColumnSpec(spec)
		if err != nil {
			t.Fatalf("parse %q: %v", spec, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%q: got %v, want %v", spec, got, want)
		}
	}
}
