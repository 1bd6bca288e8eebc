package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sw33tLie/degreeaudit/internal/utils"
	"github.com/sw33tLie/degreeaudit/pkg/catalog"
	"github.com/sw33tLie/degreeaudit/pkg/degree"
	"github.com/sw33tLie/degreeaudit/pkg/requirement"
)

// Summary counts what Build did with the page rows.
type Summary struct {
	Rows    int
	Added   int
	Kept    int
	Skipped int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d rows: %d added, %d already present, %d skipped", s.Rows, s.Added, s.Kept, s.Skipped)
}

// Build turns the page rows into records and appends the new ones to acct,
// then refreshes every record's completion. Rows are handled in page order
// and each row sees the completed set built by the rows before it. A row
// whose record is already in the account (same code and hash) keeps the
// stored record and its edits; repeated rows match repeated records. A
// complete or in-progress marker on such a row still sets the stored
// record's state.
func Build(ctx context.Context, page *Page, cat catalog.Catalog, acct *degree.Account) (Summary, error) {
	sum := Summary{Rows: len(page.Rows)}
	completed := acct.CompletedCourses(cat)

	stored := acct.Courses()
	existing := map[recordKey][]int{}
	for i, r := range stored {
		k := keyOf(r)
		existing[k] = append(existing[k], i)
	}

	var added []degree.Record
	for _, row := range page.Rows {
		r, ok := BuildRecord(cat, row, completed)
		if !ok || skipped(r) {
			sum.Skipped++
			continue
		}
		if k := keyOf(r); len(existing[k]) > 0 {
			i := existing[k][0]
			existing[k] = existing[k][1:]
			sum.Kept++
			if row.Marker != degree.MarkerNone && r.Completion != stored[i].Completion {
				acct.MarkCompletion(i, r.Completion)
				if c, ok := cat.Lookup(stored[i].LookupCode()); ok && !stored[i].Completion.Counts() {
					completed = append(completed, c)
				}
			}
			continue
		}
		added = append(added, r)
		if r.Completion.Counts() {
			if c, ok := cat.Lookup(r.LookupCode()); ok {
				completed = append(completed, c)
			}
		}
	}
	sum.Added = len(added)

	if len(added) > 0 {
		if err := acct.AddCourses(ctx, added...); err != nil {
			return sum, err
		}
	}
	if err := acct.RefreshCompletions(ctx, cat); err != nil {
		return sum, err
	}
	return sum, nil
}

// BuildRecord maps one row to a record. ok is false for plain text rows that
// are not headers.
func BuildRecord(cat catalog.Catalog, row Row, completed []catalog.Course) (degree.Record, bool) {
	if row.Requirement != "" {
		tokens, err := requirement.Tokenize(row.Requirement)
		var terr *requirement.TokenizationError
		switch {
		case errors.As(err, &terr):
			utils.Log.Debugf("Row %q: %v", row.Text, err)
		case err != nil:
			utils.Log.Warnf("Row %q: %v", row.Text, err)
		default:
			if r, ok := fromExtraction(cat, row, tokens, completed); ok {
				return r, true
			}
		}
	}

	label := requirement.ClassifyLabel(row.Text, row.BlockHeadTitle)
	if !label.IsHeader {
		return degree.Record{}, false
	}
	return degree.NewHeader(label.Text), true
}

func fromExtraction(cat catalog.Catalog, row Row, tokens []requirement.Token, completed []catalog.Course) (degree.Record, bool) {
	ex := requirement.Extract(tokens)
	switch ex.Kind {
	case requirement.ExtractSingle:
		code := ex.Courses[0]
		course, ok := cat.Lookup(code)
		ec := degree.EvalContext{Marker: row.Marker, Completed: completed}
		if ok {
			ec.Course = &course
		} else {
			course = catalog.Course{Code: code, Name: row.Text}
		}
		return degree.NewCourseRecord(course, degree.Evaluate(cat, ec)), true

	case requirement.ExtractMultiple:
		options := make([]string, 0, len(ex.Courses))
		for _, code := range ex.Courses {
			if c, ok := cat.Lookup(code); ok {
				options = append(options, c.Name)
			} else {
				options = append(options, code)
			}
		}
		return degree.NewMultipleChoice(firstValue(tokens)+" various choices", row.Text, options), true
	}
	return degree.Record{}, false
}

// firstValue is the first token that is not an opening parenthesis.
func firstValue(tokens []requirement.Token) string {
	for _, t := range tokens {
		if t.Value != "(" {
			return t.Value
		}
	}
	return ""
}

// skipped drops concentration and sequence pickers, which the audit repeats
// as their own rows.
func skipped(r degree.Record) bool {
	if r.IsHeader() {
		return false
	}
	lower := strings.ToLower(r.Course.Name)
	return strings.Contains(lower, "concentration") ||
		strings.Contains(lower, "sequence") ||
		strings.Contains(lower, "of the following")
}

type recordKey struct {
	code string
	hash int32
}

func keyOf(r degree.Record) recordKey {
	return recordKey{code: r.Course.Code, hash: r.Hash}
}
