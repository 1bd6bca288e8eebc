package degree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sw33tLie/degreeaudit/pkg/catalog"
)

func testCatalog() *catalog.Static {
	return catalog.NewStatic(
		catalog.Course{Code: "CS-171", Name: "Computer Programming I", Credits: 3},
		catalog.Course{Code: "CS-172", Name: "Computer Programming II", Credits: 3, Prerequisites: "CS 171"},
		catalog.Course{Code: "CS-260", Name: "Data Structures", Credits: 4, Prerequisites: "CS 172"},
		catalog.Course{Code: "MATH-121", Name: "Calculus I", Credits: 4},
	)
}

func lookup(cat catalog.Catalog, code string) *catalog.Course {
	c, ok := cat.Lookup(code)
	if !ok {
		return nil
	}
	return &c
}

func TestEvaluate_Priority(t *testing.T) {
	cat := testCatalog()
	cs260 := lookup(cat, "CS-260")

	tests := []struct {
		name string
		ec   EvalContext
		want Completion
	}{
		{"complete marker beats unresolved course", EvalContext{Marker: MarkerComplete}, Complete},
		{"complete marker beats missing prerequisites", EvalContext{Marker: MarkerComplete, Course: cs260}, Complete},
		{"in-progress marker", EvalContext{Marker: MarkerInProgress, Course: cs260}, InProgress},
		{"unresolved course is ready", EvalContext{}, ReadyToTake},
		{"prerequisites missing", EvalContext{Course: cs260}, MissingPrerequisites},
		{"prerequisites met", EvalContext{Course: cs260, Completed: []catalog.Course{*lookup(cat, "CS-172")}}, ReadyToTake},
		{"no prerequisites", EvalContext{Course: lookup(cat, "MATH-121")}, ReadyToTake},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(cat, tt.ec))
		})
	}
}

func TestRefresh_OnlyUnblocks(t *testing.T) {
	cat := testCatalog()
	cs260 := lookup(cat, "CS-260")
	done := []catalog.Course{*lookup(cat, "CS-172")}

	assert.Equal(t, ReadyToTake, Refresh(cat, MissingPrerequisites, cs260, done))
	assert.Equal(t, MissingPrerequisites, Refresh(cat, MissingPrerequisites, cs260, nil))
	assert.Equal(t, ReadyToTake, Refresh(cat, MissingPrerequisites, nil, nil))

	for _, state := range []Completion{Complete, InProgress, ReadyToTake} {
		assert.Equal(t, state, Refresh(cat, state, cs260, nil), state)
		assert.Equal(t, state, Refresh(cat, state, cs260, done), state)
	}
}
