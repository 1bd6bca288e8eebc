package requirement

import (
	"fmt"
	"regexp"
	"strings"
)

// TokenizationError reports the part of an expression no rule could match.
type TokenizationError struct {
	Remainder  string
	Expression string
	Reason     string
}

func (e *TokenizationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unrecognized token %q in expression %q: %s", e.Remainder, e.Expression, e.Reason)
	}
	return fmt.Sprintf("unrecognized token %q in expression %q", e.Remainder, e.Expression)
}

type rule struct {
	kind TokenKind
	re   *regexp.Regexp
}

var courseRe = regexp.MustCompile(`^\s*([A-Z@]*)\s*([TI]?\d{3,4}(?::\d+)?)\s*`)

// Rules are tried in order and the first match wins.
var rules = []rule{
	{KindOr, regexp.MustCompile(`^\s*or\s*`)},
	{KindAnd, regexp.MustCompile(`^\s*and\s*`)},
	{KindClassesIn, regexp.MustCompile(`^\s*\d+\s+Class(?:es)?\s+in\s+`)},
	{KindCreditsIn, regexp.MustCompile(`^\s*\d+(?:\.\d+)?\s*Credits?\s+in\s+`)},
	{KindCourse, courseRe},
	{KindWithAttribute, regexp.MustCompile(`^\s*with\s*Attribute\s*[A-Z]+\s*(?:or\s*[A-Z]+\s*)*`)},
	{KindParentheses, regexp.MustCompile(`^\s*[()]\s*`)},
	{KindWhitespace, regexp.MustCompile(`^\s+`)},
	{KindExcept, regexp.MustCompile(`^\s*[Ee]xcept\s*`)},
}

// Tokenize splits a scraped requirement string into tokens. Footnote markers
// ("*") are dropped before matching and whitespace is consumed without being
// emitted. A course number without a subject takes the subject of the
// previous course in the same expression.
func Tokenize(expression string) ([]Token, error) {
	original := expression
	rest := strings.ReplaceAll(expression, "*", "")

	var (
		tokens  []Token
		subject string
	)
	for rest != "" {
		matched := false
		for _, r := range rules {
			m := r.re.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			matched = true
			consumed := len(m[0])

			switch r.kind {
			case KindWhitespace:
			case KindCourse:
				if m[1] != "" {
					subject = m[1]
				} else if subject == "" {
					return nil, &TokenizationError{Remainder: rest, Expression: original, Reason: "course number without a subject"}
				}
				tokens = append(tokens, Token{Kind: KindCourse, Value: subject + "-" + m[2]})
			default:
				tokens = append(tokens, Token{Kind: r.kind, Value: strings.TrimSpace(m[0])})
			}
			rest = rest[consumed:]
			break
		}
		if !matched {
			return nil, &TokenizationError{Remainder: rest, Expression: original}
		}
	}
	return tokens, nil
}

// NormalizeCode turns a course code as written ("CS 260", "cs-260", "CS260")
// into the normalized "SUBJECT-NUMBER" form. It returns the trimmed input
// unchanged when it does not look like a single course code.
func NormalizeCode(code string) string {
	trimmed := strings.TrimSpace(code)
	upper := strings.ToUpper(strings.Replace(trimmed, "-", " ", 1))
	m := courseRe.FindStringSubmatch(upper)
	if m == nil || m[1] == "" || len(m[0]) != len(upper) {
		return trimmed
	}
	return m[1] + "-" + m[2]
}
