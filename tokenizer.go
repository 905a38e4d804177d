package filtering

import (
	"context"

	"go.alis.build/alog"
)

// tokenKind classifies a lexical unit produced by tokenize.
type tokenKind int

const (
	// tokenBare is a field name, number or unquoted literal.
	tokenBare tokenKind = iota
	// tokenKeyword is a whole-word operator keyword.
	tokenKeyword
	// tokenString is a single-quoted literal, original quoting preserved.
	tokenString
	// tokenFunction is a complete function-call span including its parentheses.
	tokenFunction
	// tokenOpenParen is a lone '('.
	tokenOpenParen
	// tokenCloseParen is a lone ')'.
	tokenCloseParen
	// tokenComma is a list delimiter inside an in membership list.
	tokenComma
)

// token is one lexical unit of a filter expression. Tokens are produced in
// left-to-right order with no nesting; grouping is represented purely by
// adjacent parenthesis tokens.
type token struct {
	kind tokenKind
	text string
}

// keywords holds the whole-word operator keywords. Word-boundary matching is
// implicit: a keyword is only recognised when the full contiguous word equals
// it, so "eq" inside "equals" is never matched.
var keywords = map[string]bool{
	"and": true,
	"or":  true,
	"not": true,
	"in":  true,
	"eq":  true,
	"ne":  true,
	"gt":  true,
	"ge":  true,
	"lt":  true,
	"le":  true,
}

// functions holds the string predicate names whose call spans are captured as
// single tokens.
var functions = map[string]bool{
	"contains":   true,
	"startswith": true,
	"endswith":   true,
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == ','
}

// tokenize splits a raw filter expression into tokens in one left-to-right
// scan. It segments text only and never rejects input: unmatched fragments
// are absorbed as bare tokens rather than reported as errors.
func tokenize(filter string) []token {
	var tokens []token

	i := 0
	for i < len(filter) {
		c := filter[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenOpenParen, text: "("})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenCloseParen, text: ")"})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ","})
			i++
		case c == '\'':
			end, ok := scanQuoted(filter, i)
			if !ok {
				// Unterminated literal: absorb to the next delimiter as a bare token.
				alog.Warnf(context.Background(), "filtering: unterminated string literal at offset %d, absorbing as bare token", i)
				end = scanBare(filter, i)
				tokens = append(tokens, token{kind: tokenBare, text: filter[i:end]})
			} else {
				tokens = append(tokens, token{kind: tokenString, text: filter[i:end]})
			}
			i = end
		default:
			end := scanBare(filter, i)
			word := filter[i:end]

			if functions[word] && end < len(filter) && filter[end] == '(' {
				spanEnd, ok := scanCallSpan(filter, end)
				if ok {
					tokens = append(tokens, token{kind: tokenFunction, text: filter[i:spanEnd]})
					i = spanEnd
					continue
				}
				alog.Warnf(context.Background(), "filtering: unterminated %s(...) call at offset %d, absorbing as bare token", word, i)
			}

			if keywords[word] {
				tokens = append(tokens, token{kind: tokenKeyword, text: word})
			} else {
				tokens = append(tokens, token{kind: tokenBare, text: word})
			}
			i = end
		}
	}

	return tokens
}

// scanBare returns the end of a bare run starting at start: contiguous text
// free of whitespace, parentheses and commas.
func scanBare(s string, start int) int {
	j := start
	for j < len(s) && !isDelimiter(s[j]) {
		j++
	}
	return j
}

// scanQuoted returns the position just past the closing quote of a
// single-quoted literal starting at start. A doubled '' inside the literal is
// an escaped quote, not a terminator. Returns ok=false if the literal never
// terminates.
func scanQuoted(s string, start int) (int, bool) {
	j := start + 1
	for j < len(s) {
		if s[j] == '\'' {
			if j+1 < len(s) && s[j+1] == '\'' {
				j += 2
				continue
			}
			return j + 1, true
		}
		j++
	}
	return 0, false
}

// scanCallSpan returns the position just past the parenthesis matching the
// one at open, tracking nesting depth and skipping quoted literals so that a
// ')' inside a string argument never closes the span. Returns ok=false if the
// span never closes.
func scanCallSpan(s string, open int) (int, bool) {
	depth := 0
	j := open
	for j < len(s) {
		switch s[j] {
		case '(':
			depth++
			j++
		case ')':
			depth--
			j++
			if depth == 0 {
				return j, true
			}
		case '\'':
			end, ok := scanQuoted(s, j)
			if !ok {
				return 0, false
			}
			j = end
		default:
			j++
		}
	}
	return 0, false
}
