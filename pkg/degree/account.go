package degree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sw33tLie/degreeaudit/pkg/catalog"
	"github.com/sw33tLie/degreeaudit/pkg/requirement"
)

var (
	ErrNotFound          = errors.New("course not found")
	ErrInvalidCompletion = errors.New("invalid completion state")
)

// Persister stores the full snapshot of an account under its name.
type Persister interface {
	SaveAccount(ctx context.Context, name string, snapshot []byte) error
}

// Snapshot is the persisted form of an account.
type Snapshot struct {
	Name           string   `json:"name"`
	Courses        []Record `json:"courses"`
	GPA            string   `json:"gpa"`
	Concentrations []string `json:"concentrations"`
}

// Account is the ordered ledger of one student's degree course records.
// Every mutating method writes the whole account through its Persister
// before returning; when the write fails the change is undone in memory.
// Records are identified by their catalog code, as written or normalized
// ("CS 260" finds CS-260), and the first match wins.
type Account struct {
	name           string
	courses        []Record
	gpa            string
	concentrations []string
	store          Persister
}

// NewAccount returns an empty account. A nil store keeps it in memory only.
func NewAccount(name, gpa string, concentrations []string, store Persister) *Account {
	return &Account{
		name:           name,
		gpa:            gpa,
		concentrations: concentrations,
		store:          store,
	}
}

// LoadAccount rehydrates an account from a snapshot.
func LoadAccount(data []byte, store Persister) (*Account, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding account snapshot: %w", err)
	}
	if s.Name == "" {
		return nil, errors.New("decoding account snapshot: missing name")
	}
	return &Account{
		name:           s.Name,
		courses:        s.Courses,
		gpa:            s.GPA,
		concentrations: s.Concentrations,
		store:          store,
	}, nil
}

func (a *Account) Name() string { return a.name }
func (a *Account) GPA() string  { return a.gpa }

func (a *Account) Concentrations() []string {
	return append([]string(nil), a.concentrations...)
}

// Courses returns a copy of the records in degree-plan order.
func (a *Account) Courses() []Record {
	return append([]Record(nil), a.courses...)
}

func (a *Account) Len() int { return len(a.courses) }

// UpdateProfile replaces the GPA and concentrations. It does not save; the
// next mutation persists them.
func (a *Account) UpdateProfile(gpa string, concentrations []string) {
	a.gpa = gpa
	a.concentrations = concentrations
}

// MarkCompletion sets the state of the i-th record in Courses order. Like
// UpdateProfile it does not save.
func (a *Account) MarkCompletion(i int, c Completion) {
	a.courses[i].Completion = c
}

// Find returns the first record with the given catalog code.
func (a *Account) Find(code string) (Record, bool) {
	i := a.index(code)
	if i < 0 {
		return Record{}, false
	}
	return a.courses[i], true
}

// Hidden returns the records the user has hidden.
func (a *Account) Hidden() []Record {
	return a.filter(func(r Record) bool { return r.IsHidden })
}

// Added returns the records the user created by hand.
func (a *Account) Added() []Record {
	return a.filter(func(r Record) bool { return r.IsAddedCourse })
}

// Renamed returns the records with a user-supplied name.
func (a *Account) Renamed() []Record {
	return a.filter(func(r Record) bool { return r.OverriddenName != "" })
}

// Completed returns the records that count as taken: complete or in progress.
func (a *Account) Completed() []Record {
	return a.filter(func(r Record) bool { return r.Completion.Counts() })
}

// CompletedCourses resolves Completed against the catalog, dropping records
// the catalog does not know.
func (a *Account) CompletedCourses(cat catalog.Catalog) []catalog.Course {
	var out []catalog.Course
	for _, r := range a.Completed() {
		if c, ok := cat.Lookup(r.LookupCode()); ok {
			out = append(out, c)
		}
	}
	return out
}

func (a *Account) AddCourse(ctx context.Context, r Record) error {
	return a.AddCourses(ctx, r)
}

// AddCourses appends records in order and saves once.
func (a *Account) AddCourses(ctx context.Context, rs ...Record) error {
	n := len(a.courses)
	a.courses = append(a.courses, rs...)
	if err := a.Save(ctx); err != nil {
		a.courses = a.courses[:n]
		return err
	}
	return nil
}

// AddCourseBefore inserts r in front of the record with code anchor.
func (a *Account) AddCourseBefore(ctx context.Context, r Record, anchor string) error {
	i := a.index(anchor)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, anchor)
	}
	a.courses = append(a.courses, Record{})
	copy(a.courses[i+1:], a.courses[i:])
	a.courses[i] = r
	if err := a.Save(ctx); err != nil {
		a.courses = append(a.courses[:i], a.courses[i+1:]...)
		return err
	}
	return nil
}

func (a *Account) RenameCourse(ctx context.Context, code, name string) error {
	return a.update(ctx, code, func(r *Record) { r.OverriddenName = name })
}

func (a *Account) RenameCourseCode(ctx context.Context, code, newCode string) error {
	return a.update(ctx, code, func(r *Record) { r.OverriddenCode = newCode })
}

func (a *Account) HideCourse(ctx context.Context, code string) error {
	return a.update(ctx, code, func(r *Record) { r.IsHidden = true })
}

func (a *Account) SetCourseState(ctx context.Context, code string, state Completion) error {
	if !state.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCompletion, state)
	}
	return a.update(ctx, code, func(r *Record) { r.Completion = state })
}

// CycleCourseState advances a record to the next state of the manual cycle
// and returns the new state.
func (a *Account) CycleCourseState(ctx context.Context, code string) (Completion, error) {
	var next Completion
	err := a.update(ctx, code, func(r *Record) {
		next = r.Completion.Next()
		r.Completion = next
	})
	return next, err
}

// RefreshCompletion re-checks one blocked record against the current
// completed set.
func (a *Account) RefreshCompletion(ctx context.Context, cat catalog.Catalog, code string) error {
	completed := a.CompletedCourses(cat)
	return a.update(ctx, code, func(r *Record) { a.refresh(cat, r, completed) })
}

// RefreshCompletions re-checks every record in order and saves once at the
// end. Refresh never moves a course into the completed set, so the set is
// computed once up front.
func (a *Account) RefreshCompletions(ctx context.Context, cat catalog.Catalog) error {
	completed := a.CompletedCourses(cat)
	prev := a.Courses()
	for i := range a.courses {
		a.refresh(cat, &a.courses[i], completed)
	}
	if err := a.Save(ctx); err != nil {
		a.courses = prev
		return err
	}
	return nil
}

func (a *Account) refresh(cat catalog.Catalog, r *Record, completed []catalog.Course) {
	var course *catalog.Course
	if c, ok := cat.Lookup(r.LookupCode()); ok {
		course = &c
	}
	r.Completion = Refresh(cat, r.Completion, course, completed)
}

// MissingPrerequisitesFor lists what the record's course still needs.
// Courses the catalog does not know have nothing missing.
func (a *Account) MissingPrerequisitesFor(cat catalog.Catalog, code string) ([]catalog.Course, error) {
	r, ok := a.Find(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	course, ok := cat.Lookup(r.LookupCode())
	if !ok {
		return nil, nil
	}
	return cat.MissingPrerequisites(course, a.CompletedCourses(cat)), nil
}

// Snapshot returns the persisted form of the account.
func (a *Account) Snapshot() Snapshot {
	courses := a.Courses()
	if courses == nil {
		courses = []Record{}
	}
	concentrations := a.Concentrations()
	if concentrations == nil {
		concentrations = []string{}
	}
	return Snapshot{Name: a.name, Courses: courses, GPA: a.gpa, Concentrations: concentrations}
}

func (a *Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Snapshot())
}

// Save writes the full account to its store.
func (a *Account) Save(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	data, err := json.Marshal(a.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding account %s: %w", a.name, err)
	}
	if err := a.store.SaveAccount(ctx, a.name, data); err != nil {
		return fmt.Errorf("saving account %s: %w", a.name, err)
	}
	return nil
}

func (a *Account) index(code string) int {
	norm := requirement.NormalizeCode(code)
	for i, r := range a.courses {
		if r.Course.Code == code || r.Course.Code == norm {
			return i
		}
	}
	return -1
}

func (a *Account) update(ctx context.Context, code string, fn func(r *Record)) error {
	i := a.index(code)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	prev := a.courses[i]
	fn(&a.courses[i])
	if err := a.Save(ctx); err != nil {
		a.courses[i] = prev
		return err
	}
	return nil
}

func (a *Account) filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range a.courses {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
