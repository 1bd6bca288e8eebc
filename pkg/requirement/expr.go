package requirement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyExpression = errors.New("empty requirement expression")
	ErrSyntax          = errors.New("requirement syntax error")
)

// Facts is what a requirement is evaluated against: the set of completed
// course codes and, for credit quantifiers, the credits each one is worth.
type Facts struct {
	Completed map[string]bool
	Credits   map[string]float64
}

// NewFacts builds Facts for the given completed codes with no credit data.
func NewFacts(codes ...string) Facts {
	f := Facts{Completed: make(map[string]bool, len(codes)), Credits: map[string]float64{}}
	for _, c := range codes {
		f.Completed[c] = true
	}
	return f
}

func (f Facts) without(codes []string) Facts {
	out := Facts{Completed: make(map[string]bool, len(f.Completed)), Credits: f.Credits}
	for c, ok := range f.Completed {
		out.Completed[c] = ok
	}
	for _, c := range codes {
		delete(out.Completed, c)
	}
	return out
}

// Node is a parsed requirement expression.
type Node interface {
	// Satisfied reports whether the completed courses in f meet the requirement.
	Satisfied(f Facts) bool
	// Codes lists the courses the requirement can be met with, in source order.
	Codes() []string
	String() string
}

// CourseNode requires one specific course.
type CourseNode struct {
	Code string
}

func (n CourseNode) Satisfied(f Facts) bool { return f.Completed[n.Code] }
func (n CourseNode) Codes() []string        { return []string{n.Code} }
func (n CourseNode) String() string         { return n.Code }

// AnyOf is met when at least one child is met.
type AnyOf struct {
	Children []Node
}

func (n AnyOf) Satisfied(f Facts) bool {
	for _, c := range n.Children {
		if c.Satisfied(f) {
			return true
		}
	}
	return false
}

func (n AnyOf) Codes() []string { return collectCodes(n.Children) }
func (n AnyOf) String() string  { return joinNodes(n.Children, " or ") }

// AllOf is met when every child is met.
type AllOf struct {
	Children []Node
}

func (n AllOf) Satisfied(f Facts) bool {
	for _, c := range n.Children {
		if !c.Satisfied(f) {
			return false
		}
	}
	return true
}

func (n AllOf) Codes() []string { return collectCodes(n.Children) }
func (n AllOf) String() string  { return joinNodes(n.Children, " and ") }

// QuantifierKind selects how a Quantified node counts its pool.
type QuantifierKind string

const (
	QuantifyClasses QuantifierKind = "classes"
	QuantifyCredits QuantifierKind = "credits"
)

// Quantified is met when enough completed courses from the child's pool add
// up to Amount, counted in classes or in credits.
type Quantified struct {
	Kind   QuantifierKind
	Amount float64
	Child  Node
}

func (n Quantified) Satisfied(f Facts) bool {
	seen := map[string]bool{}
	var total float64
	for _, code := range n.Child.Codes() {
		if seen[code] || !f.Completed[code] {
			continue
		}
		seen[code] = true
		if n.Kind == QuantifyCredits {
			total += f.Credits[code]
		} else {
			total++
		}
	}
	return total >= n.Amount
}

func (n Quantified) Codes() []string { return n.Child.Codes() }

func (n Quantified) String() string {
	return fmt.Sprintf("%s %s in (%s)", strconv.FormatFloat(n.Amount, 'f', -1, 64), n.Kind, n.Child)
}

// Except evaluates Child as if the excluded courses had not been taken.
type Except struct {
	Child    Node
	Excluded Node
}

func (n Except) Satisfied(f Facts) bool {
	return n.Child.Satisfied(f.without(n.Excluded.Codes()))
}

func (n Except) Codes() []string {
	excluded := map[string]bool{}
	for _, c := range n.Excluded.Codes() {
		excluded[c] = true
	}
	var out []string
	for _, c := range n.Child.Codes() {
		if !excluded[c] {
			out = append(out, c)
		}
	}
	return out
}

func (n Except) String() string { return fmt.Sprintf("%s except %s", n.Child, n.Excluded) }

// Attributed carries a "with Attribute" qualifier. The attribute is not
// checked; the node is met when its child is.
type Attributed struct {
	Child     Node
	Attribute string
}

func (n Attributed) Satisfied(f Facts) bool { return n.Child.Satisfied(f) }
func (n Attributed) Codes() []string        { return n.Child.Codes() }
func (n Attributed) String() string         { return fmt.Sprintf("%s %s", n.Child, n.Attribute) }

func collectCodes(nodes []Node) []string {
	var out []string
	for _, c := range nodes {
		out = append(out, c.Codes()...)
	}
	return out
}

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, c := range nodes {
		switch c.(type) {
		case AnyOf, AllOf, Except:
			parts = append(parts, "("+c.String()+")")
		default:
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, sep)
}

// ParseExpression tokenizes and parses a requirement string in one step.
func ParseExpression(expression string) (Node, error) {
	tokens, err := Tokenize(expression)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse builds a requirement tree from tokens. "and" binds tighter than "or",
// and a quantifier ("2 Classes in", "3 Credits in") applies to everything up
// to the end of the enclosing group.
func Parse(tokens []Token) (Node, error) {
	p := &parser{}
	for _, t := range tokens {
		if t.Kind != KindWhitespace {
			p.tokens = append(p.tokens, t)
		}
	}
	if len(p.tokens) == 0 {
		return nil, ErrEmptyExpression
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %s at position %d", ErrSyntax, p.tokens[p.pos], p.pos)
	}
	return node, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind TokenKind, value string) bool {
	t, ok := p.peek()
	if !ok || t.Kind != kind || (value != "" && t.Value != value) {
		return false
	}
	p.pos++
	return true
}

func (p *parser) parseOr() (Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []Node{first}
	for p.accept(KindOr, "") {
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return AnyOf{Children: children}, nil
}

func (p *parser) parseAnd() (Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	children := []Node{first}
	for p.accept(KindAnd, "") {
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return AllOf{Children: children}, nil
}

func (p *parser) parseUnary() (Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}

	if t.Kind == KindClassesIn || t.Kind == KindCreditsIn {
		p.pos++
		amount, err := leadingNumber(t.Value)
		if err != nil {
			return nil, err
		}
		child, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		kind := QuantifyClasses
		if t.Kind == KindCreditsIn {
			kind = QuantifyCredits
		}
		return Quantified{Kind: kind, Amount: amount, Child: child}, nil
	}

	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if t, ok := p.peek(); ok && t.Kind == KindWithAttribute {
		p.pos++
		node = Attributed{Child: node, Attribute: t.Value}
	}
	if p.accept(KindExcept, "") {
		excluded, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		node = Except{Child: node, Excluded: excluded}
	}
	return node, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	switch {
	case t.Kind == KindCourse:
		p.pos++
		return CourseNode{Code: t.Value}, nil
	case t.Kind == KindParentheses && t.Value == "(":
		p.pos++
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(KindParentheses, ")") {
			return nil, fmt.Errorf("%w: expected ')' at position %d", ErrSyntax, p.pos)
		}
		return node, nil
	}
	return nil, fmt.Errorf("%w: unexpected %s at position %d", ErrSyntax, t, p.pos)
}

func leadingNumber(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: missing quantity in %q", ErrSyntax, s)
	}
	// "3Credits in" has no space between the amount and the unit.
	num := strings.TrimRightFunc(fields[0], func(r rune) bool { return r < '0' || r > '9' })
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad quantity in %q", ErrSyntax, s)
	}
	return v, nil
}

// Missing lists the courses that still have to be completed for n to be met.
// For alternatives it follows the branch that needs the fewest courses.
func Missing(n Node, f Facts) []string {
	if n == nil || n.Satisfied(f) {
		return nil
	}
	switch n := n.(type) {
	case CourseNode:
		return []string{n.Code}
	case AllOf:
		var out []string
		seen := map[string]bool{}
		for _, c := range n.Children {
			for _, code := range Missing(c, f) {
				if !seen[code] {
					seen[code] = true
					out = append(out, code)
				}
			}
		}
		return out
	case AnyOf:
		var best []string
		for i, c := range n.Children {
			m := Missing(c, f)
			if i == 0 || len(m) < len(best) {
				best = m
			}
		}
		return best
	case Quantified:
		var out []string
		seen := map[string]bool{}
		done := 0
		for _, code := range n.Child.Codes() {
			if seen[code] {
				continue
			}
			seen[code] = true
			if f.Completed[code] {
				done++
				continue
			}
			out = append(out, code)
		}
		if n.Kind == QuantifyClasses {
			need := int(n.Amount) - done
			if need >= 0 && need < len(out) {
				out = out[:need]
			}
		}
		return out
	case Except:
		return Missing(n.Child, f.without(n.Excluded.Codes()))
	case Attributed:
		return Missing(n.Child, f)
	}
	return n.Codes()
}
