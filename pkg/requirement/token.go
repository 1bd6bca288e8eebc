package requirement

import (
	"fmt"
	"strings"
)

// TokenKind is the lexical class of a requirement token.
type TokenKind string

const (
	KindOr            TokenKind = "or"
	KindAnd           TokenKind = "and"
	KindClassesIn     TokenKind = "classesIn"
	KindCreditsIn     TokenKind = "creditsIn"
	KindCourse        TokenKind = "course"
	KindWithAttribute TokenKind = "withAttribute"
	KindParentheses   TokenKind = "parentheses"
	KindWhitespace    TokenKind = "whitespace"
	KindExcept        TokenKind = "except"
)

// Token is a single lexical unit of a requirement expression. Course tokens
// carry a normalized "SUBJECT-NUMBER" value.
type Token struct {
	Kind  TokenKind `json:"type"`
	Value string    `json:"value"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}

// Kinds returns the kind sequence of tokens.
func Kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Kind)
	}
	return out
}

// Format renders tokens back into requirement text that tokenizes to the same
// kind sequence. Course values are printed with a space between subject and
// number, the way DegreeWorks prints them.
func Format(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		switch t.Kind {
		case KindWhitespace:
			continue
		case KindCourse:
			parts = append(parts, strings.Replace(t.Value, "-", " ", 1))
		default:
			parts = append(parts, t.Value)
		}
	}
	return strings.Join(parts, " ")
}
