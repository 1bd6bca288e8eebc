package audit

import (
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sw33tLie/degreeaudit/internal/utils"
	"github.com/sw33tLie/degreeaudit/pkg/degree"
)

// ErrPageNotReady means the audit content has not been rendered yet. It is
// the only error an import retries on.
var ErrPageNotReady = errors.New("audit page not ready")

const (
	rowSelector        = ".bgLight0, .bgLight98, .bgLight100, .BlockHeadTitle"
	labelSelector      = ".RuleLabelTitleNeeded, .RuleLabelTitleNotNeeded"
	unknownCourseLabel = "Unknown Course Name"
)

// Row is one requirement line of the audit.
type Row struct {
	Text           string
	Requirement    string
	Marker         degree.RowMarker
	BlockHeadTitle bool
}

// Page is the student summary and requirement rows scraped from an audit.
type Page struct {
	Student        string
	GPA            string
	Concentrations []string
	// Fields holds every label/value pair of the summary table.
	Fields map[string]string
	Rows   []Row
}

// ParsePage reads an audit document.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return parseDocument(doc)
}

// NewPage scrapes an already parsed audit document.
func NewPage(root *html.Node) (*Page, error) {
	return parseDocument(goquery.NewDocumentFromNode(root))
}

func parseDocument(doc *goquery.Document) (*Page, error) {
	summary := doc.Find(".AuditTable .Inner tbody").First()
	if summary.Length() == 0 {
		return nil, ErrPageNotReady
	}

	fields := map[string]string{}
	summary.Children().Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Children()
		for i := 0; i+1 < cells.Length(); i += 2 {
			fields[strings.TrimSpace(cells.Eq(i).Text())] = strings.TrimSpace(cells.Eq(i + 1).Text())
		}
	})
	if fields["Student"] == "" {
		return nil, ErrPageNotReady
	}

	page := &Page{
		Student:        fields["Student"],
		GPA:            fields["Overall GPA"],
		Concentrations: SplitConcentrations(fields["Concentration(s)"]),
		Fields:         fields,
	}
	doc.Find(rowSelector).Each(func(_ int, s *goquery.Selection) {
		page.Rows = append(page.Rows, parseRow(s))
	})
	return page, nil
}

func parseRow(s *goquery.Selection) Row {
	row := Row{BlockHeadTitle: s.HasClass("BlockHeadTitle")}

	switch {
	case s.HasClass("bgLight100"):
		row.Marker = degree.MarkerComplete
	case s.HasClass("bgLight98"):
		row.Marker = degree.MarkerInProgress
	}

	if row.BlockHeadTitle {
		row.Text = strings.TrimSpace(s.Text())
	} else if label := s.Find(labelSelector).First(); label.Length() > 0 {
		row.Text = strings.TrimSpace(label.Text())
	} else {
		row.Text = unknownCourseLabel
	}

	advice := s.Find(".RuleAdviceData").FilterFunction(func(_ int, e *goquery.Selection) bool {
		return e.Text() != ""
	}).First()
	if advice.Length() == 0 {
		advice = s.Find(".CourseAppliedDataDiscNum").First()
	}
	row.Requirement = utils.CollapseSpace(advice.Text())
	return row
}

// SplitConcentrations splits the run-together concentration cell at every
// lower-to-upper case boundary and spells out ampersands.
// "Software Engineering & DesignArtificial Intelligence" becomes
// ["Software Engineering and Design", "Artificial Intelligence"].
func SplitConcentrations(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var (
		out  []string
		cur  strings.Builder
		prev rune
	)
	for i, r := range raw {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			out = append(out, cur.String())
			cur.Reset()
		}
		if r == '&' {
			cur.WriteString("and")
		} else {
			cur.WriteRune(r)
		}
		prev = r
	}
	return append(out, cur.String())
}
