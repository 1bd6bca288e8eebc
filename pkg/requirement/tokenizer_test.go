package requirement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courseValues(tokens []Token) []string {
	var out []string
	for _, t := range tokens {
		if t.Kind == KindCourse {
			out = append(out, t.Value)
		}
	}
	return out
}

func TestTokenize_SubjectCarryForward(t *testing.T) {
	tokens, err := Tokenize("CS 260 or 270")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{KindCourse, KindOr, KindCourse}, Kinds(tokens))
	assert.Equal(t, []string{"CS-260", "CS-270"}, courseValues(tokens))
}

func TestTokenize_CarryForwardIsPerCall(t *testing.T) {
	_, err := Tokenize("CS 260")
	require.NoError(t, err)

	_, err = Tokenize("270")
	var tokErr *TokenizationError
	require.True(t, errors.As(err, &tokErr))
	assert.Equal(t, "270", tokErr.Remainder)
}

func TestTokenize_Grammar(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		kinds   []TokenKind
		courses []string
	}{
		{
			name:    "credits quantifier with group",
			expr:    "3 Credits in (MATH 200 or MATH 201)",
			kinds:   []TokenKind{KindCreditsIn, KindParentheses, KindCourse, KindOr, KindCourse, KindParentheses},
			courses: []string{"MATH-200", "MATH-201"},
		},
		{
			name:    "classes quantifier with attribute",
			expr:    "1 Class in CS 260 or 270 with Attribute WI or HU",
			kinds:   []TokenKind{KindClassesIn, KindCourse, KindOr, KindCourse, KindWithAttribute},
			courses: []string{"CS-260", "CS-270"},
		},
		{
			name:    "footnote markers are dropped",
			expr:    "CS 164* and CS 171**",
			kinds:   []TokenKind{KindCourse, KindAnd, KindCourse},
			courses: []string{"CS-164", "CS-171"},
		},
		{
			name:    "transfer and section suffixes",
			expr:    "CS T280 or CS I101:1",
			kinds:   []TokenKind{KindCourse, KindOr, KindCourse},
			courses: []string{"CS-T280", "CS-I101:1"},
		},
		{
			name:    "except clause",
			expr:    "MATH 121 or 122 Except MATH 122",
			kinds:   []TokenKind{KindCourse, KindOr, KindCourse, KindExcept, KindCourse},
			courses: []string{"MATH-121", "MATH-122", "MATH-122"},
		},
		{
			name:    "newlines and tabs are consumed",
			expr:    "\n\tCS 260\n or \tCS 270 ",
			kinds:   []TokenKind{KindCourse, KindOr, KindCourse},
			courses: []string{"CS-260", "CS-270"},
		},
		{
			name:    "wildcard subject",
			expr:    "@ 1000",
			kinds:   []TokenKind{KindCourse},
			courses: []string{"@-1000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.kinds, Kinds(tokens))
			assert.Equal(t, tt.courses, courseValues(tokens))
		})
	}
}

func TestTokenize_QuantifierValues(t *testing.T) {
	tokens, err := Tokenize("2 Classes in CS 260 or 270")
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	assert.Equal(t, Token{Kind: KindClassesIn, Value: "2 Classes in"}, tokens[0])

	tokens, err = Tokenize("4.5 Credits in CS 260")
	require.NoError(t, err)
	assert.Equal(t, Token{Kind: KindCreditsIn, Value: "4.5 Credits in"}, tokens[0])
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		remainder string
	}{
		{"prose", "Take two courses", "Take two courses"},
		{"short course number", "CS 2XX", "CS 2XX"},
		{"fails mid expression", "CS 260 or something", "something"},
		{"number without subject", "260 or CS 270", "260 or CS 270"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.expr)
			require.Error(t, err)
			assert.Nil(t, tokens)

			var tokErr *TokenizationError
			require.True(t, errors.As(err, &tokErr))
			assert.Equal(t, tt.remainder, tokErr.Remainder)
			assert.Equal(t, tt.expr, tokErr.Expression)
		})
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	tokens, err := Tokenize("   ")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestTokenize_FormatRoundTrip(t *testing.T) {
	exprs := []string{
		"CS 260 or 270",
		"3 Credits in (MATH 200 or MATH 201)",
		"1 Class in CS 260 or 270 with Attribute WI or HU",
		"CS 164 and (MATH 121 or 122) Except MATH 122",
		"2 Classes in @ 1000 or CS T280:1",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			first, err := Tokenize(expr)
			require.NoError(t, err)

			second, err := Tokenize(Format(first))
			require.NoError(t, err)
			assert.Equal(t, Kinds(first), Kinds(second))
			assert.Equal(t, courseValues(first), courseValues(second))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CS 260", "CS-260"},
		{"cs-260", "CS-260"},
		{"CS260", "CS-260"},
		{" MATH 121 ", "MATH-121"},
		{"Header", "Header"},
		{"Multiple course codes", "Multiple course codes"},
		{"CS 260 or", "CS 260 or"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.in), tt.in)
	}
}
