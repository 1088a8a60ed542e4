package texscan

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lookaheadBytes bounds how much pending input Match inspects.
const lookaheadBytes = 256

// Queue holds the pending input of a paragraph. Expansions are pushed to the
// front and rescanned before the rest.
type Queue struct {
	// stack keeps the next token last so pushes and pops are cheap.
	stack []Token
}

// NewQueue lexes src into a fresh queue.
func NewQueue(src string) *Queue {
	q := &Queue{}
	q.Push(src)
	return q
}

// Empty reports whether no input remains.
func (q *Queue) Empty() bool {
	return len(q.stack) == 0
}

// Reset drops all pending input.
func (q *Queue) Reset() {
	q.stack = q.stack[:0]
}

// Push lexes src and places its tokens in front of the pending input.
func (q *Queue) Push(src string) {
	q.PushTokens(Lex(src)...)
}

// PushTokens places toks, in order, in front of the pending input.
func (q *Queue) PushTokens(toks ...Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].Text == "" {
			continue
		}
		q.stack = append(q.stack, toks[i])
	}
}

// Pop removes and returns the next raw token.
func (q *Queue) Pop() (Token, bool) {
	if len(q.stack) == 0 {
		return Token{}, false
	}
	t := q.stack[len(q.stack)-1]
	q.stack = q.stack[:len(q.stack)-1]
	return t, true
}

// Peek returns the next raw token without consuming it.
func (q *Queue) Peek() (Token, bool) {
	if len(q.stack) == 0 {
		return Token{}, false
	}
	return q.stack[len(q.stack)-1], true
}

// Next returns the next token to dispatch. With single set, text is handed
// out one character at a time and whitespace is significant. Otherwise
// adjacent text runs are merged and leading whitespace is dropped.
func (q *Queue) Next(single bool) (Token, bool) {
	for {
		t, ok := q.Pop()
		if !ok {
			return Token{}, false
		}
		if t.Kind != Text {
			return t, true
		}
		if single {
			_, size := utf8.DecodeRuneInString(t.Text)
			if size < len(t.Text) {
				q.stack = append(q.stack, Token{Kind: Text, Text: t.Text[size:]})
			}
			return Token{Kind: Text, Text: t.Text[:size]}, true
		}
		for {
			nt, ok := q.Peek()
			if !ok || nt.Kind != Text {
				break
			}
			q.Pop()
			t.Text += nt.Text
		}
		t.Text = strings.TrimLeftFunc(t.Text, unicode.IsSpace)
		if t.Text != "" {
			return t, true
		}
	}
}

// SkipSpace drops leading whitespace.
func (q *Queue) SkipSpace() {
	for {
		t, ok := q.Peek()
		if !ok || t.Kind != Text {
			return
		}
		q.Pop()
		rest := strings.TrimLeftFunc(t.Text, unicode.IsSpace)
		if rest != "" {
			q.stack = append(q.stack, Token{Kind: Text, Text: rest})
			return
		}
	}
}

// Lookahead returns at least n bytes of pending raw input, or all of it.
func (q *Queue) Lookahead(n int) string {
	var sb strings.Builder
	for i := len(q.stack) - 1; i >= 0 && sb.Len() < n; i-- {
		sb.WriteString(q.stack[i].Text)
	}
	return sb.String()
}

// String returns all pending raw input.
func (q *Queue) String() string {
	return q.Lookahead(int(^uint(0) >> 1))
}

// Consume drops n bytes of pending raw input. A token split by the cut is
// rescanned from its remainder.
func (q *Queue) Consume(n int) {
	for n > 0 {
		t, ok := q.Pop()
		if !ok {
			return
		}
		if len(t.Text) <= n {
			n -= len(t.Text)
			continue
		}
		q.Push(t.Text[n:])
		return
	}
}

// Match applies the anchored expression re to the pending input. On success
// the matched text is consumed and the submatches are returned.
func (q *Queue) Match(re *regexp.Regexp) ([]string, bool) {
	la := q.Lookahead(lookaheadBytes)
	loc := re.FindStringSubmatchIndex(la)
	if loc == nil || loc[0] != 0 {
		return nil, false
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = la[loc[2*i]:loc[2*i+1]]
		}
	}
	q.Consume(loc[1])
	return groups, true
}

// Peeks reports whether the anchored expression re matches the pending input
// without consuming anything.
func (q *Queue) Peeks(re *regexp.Regexp) bool {
	loc := re.FindStringIndex(q.Lookahead(lookaheadBytes))
	return loc != nil && loc[0] == 0
}

// Balanced reads one argument: a single token, or a brace group whose inner
// raw text is returned without the outer braces. ok is false when the input
// ends before the group closes; the partial text is still returned.
func (q *Queue) Balanced() (string, bool) {
	t, ok := q.Next(true)
	if !ok {
		return "", false
	}
	if !t.Is("{") {
		return t.Text, true
	}
	var sb strings.Builder
	depth := 1
	for {
		t, ok := q.Pop()
		if !ok {
			return sb.String(), false
		}
		switch {
		case t.Is("{"):
			depth++
		case t.Is("}"):
			depth--
			if depth == 0 {
				return sb.String(), true
			}
		}
		sb.WriteString(t.Text)
	}
}

// Until collects raw input up to, but not including, the first token for
// which stop returns true.
func (q *Queue) Until(stop func(Token) bool) string {
	var sb strings.Builder
	for {
		t, ok := q.Peek()
		if !ok || stop(t) {
			return sb.String()
		}
		q.Pop()
		sb.WriteString(t.Text)
	}
}
