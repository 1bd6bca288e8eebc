package degree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion_NextRing(t *testing.T) {
	assert.Equal(t, MissingPrerequisites, Complete.Next())
	assert.Equal(t, ReadyToTake, MissingPrerequisites.Next())
	assert.Equal(t, InProgress, ReadyToTake.Next())
	assert.Equal(t, Complete, InProgress.Next())

	state := Complete
	for i := 0; i < 4; i++ {
		state = state.Next()
	}
	assert.Equal(t, Complete, state)
}

func TestCompletion_NextUnknownRestarts(t *testing.T) {
	assert.Equal(t, Complete, Completion("Bogus").Next())
}

func TestCompletion_Counts(t *testing.T) {
	assert.True(t, Complete.Counts())
	assert.True(t, InProgress.Counts())
	assert.False(t, ReadyToTake.Counts())
	assert.False(t, MissingPrerequisites.Counts())
}

func TestCompletion_Style(t *testing.T) {
	assert.Equal(t, "✓", Complete.Style().Glyph)
	assert.Equal(t, "≈", InProgress.Style().Glyph)
	assert.Equal(t, "–", ReadyToTake.Style().Glyph)
	assert.Equal(t, "✕", MissingPrerequisites.Style().Glyph)
	assert.Equal(t, "#FF8888", MissingPrerequisites.Style().Bright)
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		in   string
		want Completion
	}{
		{"Complete", Complete},
		{"In Progress", InProgress},
		{"Incomplete (Ready to take)", ReadyToTake},
		{"Incomplete (missing prerequisites)", MissingPrerequisites},
		{"in-progress", InProgress},
		{"READY", ReadyToTake},
		{" missing ", MissingPrerequisites},
	}
	for _, tt := range tests {
		got, err := ParseCompletion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCompletion("finished-ish")
	assert.Error(t, err)
}
