package degree

import (
	"encoding/json"
	"strings"
	"unicode/utf16"

	"github.com/sw33tLie/degreeaudit/pkg/catalog"
)

// Kind tags what a record stands for.
type Kind string

const (
	KindSingle         Kind = "single"
	KindMultipleChoice Kind = "multiple"
	KindHeader         Kind = "header"
	KindCustom         Kind = "custom"
)

// Placeholder codes for records that do not name a single catalog course.
const (
	HeaderCode         = "Header"
	MultipleChoiceCode = "Multiple course codes"
	UndefinedCode      = "Undefined Course Code"
	UnknownCode        = "Unknown course code"
)

// Record is one row of a student's degree audit.
type Record struct {
	Kind           Kind           `json:"kind"`
	Course         catalog.Course `json:"course"`
	Completion     Completion     `json:"completion"`
	Hash           int32          `json:"hash"`
	IsHidden       bool           `json:"isHidden,omitempty"`
	OverriddenName string         `json:"overriddenName,omitempty"`
	IsAddedCourse  bool           `json:"isAddedCourse,omitempty"`
	OverriddenCode string         `json:"overriddenCode,omitempty"`
	Options        []string       `json:"options,omitempty"`
}

// NewCourseRecord makes a record for a single catalog course.
func NewCourseRecord(course catalog.Course, completion Completion) Record {
	return Record{
		Kind:       KindSingle,
		Course:     course,
		Completion: completion,
		Hash:       Hash(course.Name),
	}
}

// NewMultipleChoice makes a record for a row that several courses satisfy.
// label is the row's own text and keys the hash.
func NewMultipleChoice(name, label string, options []string) Record {
	return Record{
		Kind:       KindMultipleChoice,
		Course:     catalog.Course{Name: name, Code: MultipleChoiceCode},
		Completion: ReadyToTake,
		Hash:       Hash(label),
		Options:    options,
	}
}

// NewHeader makes a section header record.
func NewHeader(text string) Record {
	return Record{
		Kind:       KindHeader,
		Course:     catalog.Course{Name: text, Code: HeaderCode},
		Completion: ReadyToTake,
		Hash:       Hash(text),
	}
}

// NewCustomCourse makes a user-added course. Empty arguments get the
// placeholder name and code.
func NewCustomCourse(name, code string) Record {
	if name == "" {
		name = "Unnamed Course"
	}
	if code == "" {
		code = UndefinedCode
	}
	return Record{
		Kind:          KindCustom,
		Course:        catalog.Course{Name: name, Code: code},
		Completion:    ReadyToTake,
		Hash:          Hash(name),
		IsAddedCourse: true,
	}
}

// NewCustomHeader makes a user-added section header.
func NewCustomHeader(text string) Record {
	if text == "" {
		text = "Untitled Header"
	}
	r := NewHeader(text)
	r.Course.Code = UndefinedCode
	r.IsAddedCourse = true
	return r
}

func (r Record) IsHeader() bool {
	return r.Kind == KindHeader
}

// Code is the identity of the record inside its account.
func (r Record) Code() string {
	return r.Course.Code
}

// LookupCode is the code to resolve against the catalog: the user's
// override when present.
func (r Record) LookupCode() string {
	if r.OverriddenCode != "" {
		return r.OverriddenCode
	}
	return r.Course.Code
}

func (r Record) DisplayName() string {
	if r.OverriddenName != "" {
		return r.OverriddenName
	}
	return r.Course.Name
}

// DisplayCode is the code shown on a course card. Rows without a usable code
// are labelled from their name; gpa fills the GPA row.
func (r Record) DisplayCode(gpa string) string {
	if r.OverriddenCode != "" {
		return r.OverriddenCode
	}
	if r.Course.Code != "" && r.Course.Code != UnknownCode {
		return r.Course.Code
	}
	lower := strings.ToLower(r.Course.Name)
	switch {
	case strings.Contains(lower, "elective"):
		return "Electives"
	case strings.Contains(lower, "gpa"):
		return "Current GPA: " + gpa
	}
	return UnknownCode
}

type recordAlias Record

type recordJSON struct {
	recordAlias
	IsHeader bool `json:"isHeader,omitempty"`
}

// MarshalJSON also writes the isHeader flag older snapshots relied on.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{recordAlias: recordAlias(r), IsHeader: r.IsHeader()})
}

// UnmarshalJSON accepts snapshots written before records carried a kind and
// derives it from the optional flags.
func (r *Record) UnmarshalJSON(data []byte) error {
	var v recordJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Record(v.recordAlias)
	if r.Kind == "" {
		switch {
		case v.IsHeader:
			r.Kind = KindHeader
		case len(r.Options) > 0:
			r.Kind = KindMultipleChoice
		case r.IsAddedCourse:
			r.Kind = KindCustom
		default:
			r.Kind = KindSingle
		}
	}
	return nil
}

// Hash is a 31-multiplier string hash over UTF-16 code units, wrapping at
// 32 bits. It only correlates rendered elements with records.
func Hash(text string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(text)) {
		h = h*31 + int32(c)
	}
	return h
}
