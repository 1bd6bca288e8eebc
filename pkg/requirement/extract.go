package requirement

import "strings"

// ExtractionKind classifies a requirement by how many courses it names.
type ExtractionKind string

const (
	ExtractSingle   ExtractionKind = "single"
	ExtractMultiple ExtractionKind = "multiple"
	ExtractNone     ExtractionKind = "none"
)

// Extraction is the set of course codes referenced by an expression, in
// source order. Duplicates are preserved.
type Extraction struct {
	Kind    ExtractionKind
	Courses []string
}

// Extract pulls the course codes out of a token sequence.
func Extract(tokens []Token) Extraction {
	var courses []string
	for _, t := range tokens {
		if t.Kind == KindCourse {
			courses = append(courses, t.Value)
		}
	}
	switch len(courses) {
	case 0:
		return Extraction{Kind: ExtractNone}
	case 1:
		return Extraction{Kind: ExtractSingle, Courses: courses}
	default:
		return Extraction{Kind: ExtractMultiple, Courses: courses}
	}
}

// Label is the result of classifying a row that names no course.
type Label struct {
	IsHeader bool
	Text     string
}

// ClassifyLabel decides whether a plain-text row label is a section header.
// blockHeadTitle is true for rows the audit page styles as block titles.
func ClassifyLabel(text string, blockHeadTitle bool) Label {
	lower := strings.ToLower(strings.TrimSpace(text))

	isHeader := strings.Contains(lower, "requirements")
	if text == "Major Requirements" {
		isHeader = false
	}
	if text == strings.ToUpper(text) {
		isHeader = true
	}
	if blockHeadTitle {
		isHeader = !(strings.HasPrefix(lower, "bachelor of") || strings.HasPrefix(lower, "major in"))
	}
	if isHeader && strings.Contains(lower, "co-op") {
		text = "Cooperative Education"
	}
	return Label{IsHeader: isHeader, Text: text}
}
