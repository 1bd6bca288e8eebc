package requirement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Satisfied(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		completed []string
		want      bool
	}{
		{"single met", "CS 164", []string{"CS-164"}, true},
		{"single unmet", "CS 164", nil, false},
		{"either branch", "CS 260 or CS 270", []string{"CS-270"}, true},
		{"and needs both", "CS 164 and CS 171", []string{"CS-164"}, false},
		{"and binds tighter than or", "CS 164 and CS 171 or CS 175", []string{"CS-175"}, true},
		{"group", "CS 164 and (MATH 121 or MATH 122)", []string{"CS-164", "MATH-122"}, true},
		{"group unmet", "CS 164 and (MATH 121 or MATH 122)", []string{"MATH-122"}, false},
		{"two classes", "2 Classes in CS 260 or 270 or 275", []string{"CS-260", "CS-275"}, true},
		{"two classes short", "2 Classes in CS 260 or 270 or 275", []string{"CS-260"}, false},
		{"except removes course", "MATH 121 or 122 Except MATH 122", []string{"MATH-122"}, false},
		{"except keeps others", "MATH 121 or 122 Except MATH 122", []string{"MATH-121"}, true},
		{"attribute is metadata", "1 Class in CS 260 or 270 with Attribute WI", []string{"CS-270"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ParseExpression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Satisfied(NewFacts(tt.completed...)))
		})
	}
}

func TestParse_QuantifierScope(t *testing.T) {
	// A quantifier takes the rest of its group, across and as well as or.
	node, err := ParseExpression("1 Class in CS 101 and CS 102")
	require.NoError(t, err)
	q, ok := node.(Quantified)
	require.True(t, ok, "got %T", node)
	assert.Equal(t, []string{"CS-101", "CS-102"}, q.Child.Codes())
	assert.True(t, node.Satisfied(NewFacts("CS-101")))

	// A closing parenthesis ends the scope.
	node, err = ParseExpression("(1 Class in CS 101 or 102) and CS 110")
	require.NoError(t, err)
	_, ok = node.(AllOf)
	require.True(t, ok, "got %T", node)
	assert.False(t, node.Satisfied(NewFacts("CS-101")))
	assert.True(t, node.Satisfied(NewFacts("CS-102", "CS-110")))
}

func TestParse_CreditsQuantifier(t *testing.T) {
	node, err := ParseExpression("6 Credits in (MATH 200 or MATH 201 or MATH 210)")
	require.NoError(t, err)

	facts := NewFacts("MATH-200", "MATH-201")
	facts.Credits["MATH-200"] = 3
	facts.Credits["MATH-201"] = 3
	assert.True(t, node.Satisfied(facts))

	facts = NewFacts("MATH-200")
	facts.Credits["MATH-200"] = 4
	assert.False(t, node.Satisfied(facts))
}

func TestParse_Codes(t *testing.T) {
	node, err := ParseExpression("CS 164 and (MATH 121 or 122) Except MATH 122")
	require.NoError(t, err)
	assert.Equal(t, []string{"CS-164", "MATH-121"}, node.Codes())
}

func TestParse_String(t *testing.T) {
	node, err := ParseExpression("CS 164 and (MATH 121 or MATH 122)")
	require.NoError(t, err)
	assert.Equal(t, "CS-164 and (MATH-121 or MATH-122)", node.String())

	node, err = ParseExpression("2 Classes in CS 260 or 270")
	require.NoError(t, err)
	assert.Equal(t, "2 classes in (CS-260 or CS-270)", node.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want error
	}{
		{"empty", "", ErrEmptyExpression},
		{"unclosed group", "(CS 260 or CS 270", ErrSyntax},
		{"leading connective", "or CS 260", ErrSyntax},
		{"dangling connective", "CS 260 and", ErrSyntax},
		{"stray close", "CS 260 )", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExpression(tt.expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseExpression_PropagatesTokenizationError(t *testing.T) {
	_, err := ParseExpression("Take two courses")
	var tokErr *TokenizationError
	assert.True(t, errors.As(err, &tokErr))
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		completed []string
		want      []string
	}{
		{"already met", "CS 164", []string{"CS-164"}, nil},
		{"single", "CS 164", nil, []string{"CS-164"}},
		{"and collects all", "CS 164 and CS 171 and MATH 121", []string{"CS-171"}, []string{"CS-164", "MATH-121"}},
		{"or picks cheapest branch", "(CS 164 and CS 171) or CS 175", nil, []string{"CS-175"}},
		{"or ties keep first", "CS 260 or CS 270", nil, []string{"CS-260"}},
		{"classes needs remainder", "2 Classes in CS 260 or 270 or 275", []string{"CS-270"}, []string{"CS-260"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ParseExpression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Missing(node, NewFacts(tt.completed...)))
		})
	}
}
