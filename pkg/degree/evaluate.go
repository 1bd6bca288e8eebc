package degree

import "github.com/sw33tLie/degreeaudit/pkg/catalog"

// RowMarker is the progress signal the audit page paints on a row.
type RowMarker int

const (
	MarkerNone RowMarker = iota
	MarkerComplete
	MarkerInProgress
)

// EvalContext is everything Evaluate looks at for one row. Course is nil
// when the row's code is not in the catalog. Completed holds only resolved
// courses.
type EvalContext struct {
	Marker    RowMarker
	Course    *catalog.Course
	Completed []catalog.Course
}

// Evaluate derives the initial completion state of a scraped row. Page
// markers win over everything; an unresolved course is assumed ready.
func Evaluate(cat catalog.Catalog, ec EvalContext) Completion {
	switch ec.Marker {
	case MarkerComplete:
		return Complete
	case MarkerInProgress:
		return InProgress
	}
	return readiness(cat, ec.Course, ec.Completed)
}

// Refresh re-checks a record that is blocked on prerequisites. Every other
// state is returned unchanged, so a refresh can only unblock.
func Refresh(cat catalog.Catalog, current Completion, course *catalog.Course, completed []catalog.Course) Completion {
	if current != MissingPrerequisites {
		return current
	}
	return readiness(cat, course, completed)
}

func readiness(cat catalog.Catalog, course *catalog.Course, completed []catalog.Course) Completion {
	if course == nil {
		return ReadyToTake
	}
	if cat.CanTake(*course, completed) {
		return ReadyToTake
	}
	return MissingPrerequisites
}
