package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/sw33tLie/degreeaudit/pkg/requirement"
	"github.com/tidwall/gjson"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Course is a catalog entry. JSON names match the snapshot format the
// account store has always used.
type Course struct {
	Code          string  `json:"codeName"`
	Name          string  `json:"properName"`
	Credits       float64 `json:"credits"`
	Prerequisites string  `json:"prerequisites,omitempty"`
	Major         string  `json:"majorName,omitempty"`
}

// Catalog resolves course codes and answers prerequisite questions. Lookup
// must report unknown codes with ok == false rather than failing.
type Catalog interface {
	Lookup(code string) (Course, bool)
	CanTake(course Course, completed []Course) bool
	MissingPrerequisites(course Course, completed []Course) []Course
}

// Static is an in-memory Catalog. Prerequisites are requirement expressions
// ("CS 164 and (MATH 121 or MATH 122)") parsed on first use.
type Static struct {
	courses map[string]Course
	codes   []string

	mu      sync.Mutex
	prereqs map[string]requirement.Node
}

// NewStatic builds a catalog from the given courses. Codes are normalized.
func NewStatic(courses ...Course) *Static {
	s := &Static{
		courses: make(map[string]Course, len(courses)),
		prereqs: map[string]requirement.Node{},
	}
	for _, c := range courses {
		c.Code = requirement.NormalizeCode(c.Code)
		if _, exists := s.courses[c.Code]; !exists {
			s.codes = append(s.codes, c.Code)
		}
		s.courses[c.Code] = c
	}
	return s
}

// Load reads a JSON catalog file: {"courses": [{"codeName": ..., ...}]}.
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a JSON catalog document.
func Parse(data []byte) (*Static, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidCatalog)
	}
	list := gjson.GetBytes(data, "courses")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing courses array", ErrInvalidCatalog)
	}

	var (
		courses []Course
		err     error
	)
	list.ForEach(func(_, value gjson.Result) bool {
		code := value.Get("codeName").String()
		if code == "" {
			err = fmt.Errorf("%w: course %d has no codeName", ErrInvalidCatalog, len(courses))
			return false
		}
		courses = append(courses, Course{
			Code:          code,
			Name:          value.Get("properName").String(),
			Credits:       value.Get("credits").Float(),
			Prerequisites: value.Get("prerequisites").String(),
			Major:         value.Get("majorName").String(),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return NewStatic(courses...), nil
}

// Len returns the number of courses in the catalog.
func (s *Static) Len() int {
	return len(s.codes)
}

func (s *Static) Lookup(code string) (Course, bool) {
	c, ok := s.courses[requirement.NormalizeCode(code)]
	return c, ok
}

// CanTake reports whether completed satisfies the prerequisites of course.
// Courses with no prerequisites, or with an expression that cannot be
// parsed, can always be taken.
func (s *Static) CanTake(course Course, completed []Course) bool {
	node := s.prerequisiteTree(course)
	if node == nil {
		return true
	}
	return node.Satisfied(facts(completed))
}

func (s *Static) MissingPrerequisites(course Course, completed []Course) []Course {
	node := s.prerequisiteTree(course)
	if node == nil {
		return nil
	}
	var out []Course
	for _, code := range requirement.Missing(node, facts(completed)) {
		if c, ok := s.Lookup(code); ok {
			out = append(out, c)
		} else {
			out = append(out, Course{Code: code, Name: code})
		}
	}
	return out
}

// Suggest returns up to n known codes closest to code by edit distance.
func (s *Static) Suggest(code string, n int) []string {
	query := requirement.NormalizeCode(code)
	type scored struct {
		code string
		dist int
	}
	var candidates []scored
	for _, c := range s.codes {
		d := levenshtein.ComputeDistance(query, c)
		if d <= 3 {
			candidates = append(candidates, scored{c, d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].code < candidates[j].code
	})
	var out []string
	for i := 0; i < len(candidates) && i < n; i++ {
		out = append(out, candidates[i].code)
	}
	return out
}

func (s *Static) prerequisiteTree(course Course) requirement.Node {
	code := requirement.NormalizeCode(course.Code)
	expr := course.Prerequisites
	if known, ok := s.courses[code]; ok && known.Prerequisites != "" {
		expr = known.Prerequisites
	}
	if expr == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if node, ok := s.prereqs[code]; ok {
		return node
	}
	// A failed parse caches nil so the course is treated as unrestricted.
	node, _ := requirement.ParseExpression(expr)
	s.prereqs[code] = node
	return node
}

func facts(completed []Course) requirement.Facts {
	f := requirement.NewFacts()
	for _, c := range completed {
		code := requirement.NormalizeCode(c.Code)
		f.Completed[code] = true
		f.Credits[code] = c.Credits
	}
	return f
}
