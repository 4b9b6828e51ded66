package nyrakai

import "fmt"

// BoundaryKind names the kind of morpheme boundary being resolved.
type BoundaryKind string

const (
	// BoundaryPlain is an ordinary suffix boundary.
	BoundaryPlain BoundaryKind = "plain"
	// BoundaryPrefix joins a prefix to the stem on its left edge.
	BoundaryPrefix BoundaryKind = "prefix"
	// BoundaryFeminine joins the feminine gender suffix.
	BoundaryFeminine BoundaryKind = "feminine"
	// BoundaryCompound joins two roots into a compound.
	BoundaryCompound BoundaryKind = "compound"
)

// InterfixSegments are the segments the resolver may insert.
type InterfixSegments struct {
	Glide  string
	Bridge string
	Easing string
}

func (s *InterfixSegments) set(name, value string) error {
	switch name {
	case "glide":
		s.Glide = value
	case "bridge":
		s.Bridge = value
	case "easing":
		s.Easing = value
	default:
		return fmt.Errorf("unknown interfix segment %q", name)
	}
	return nil
}

// Boundary is the input to an InterfixRule.
type Boundary struct {
	Left, Right           string
	LeftClass, RightClass PhonemeClass
	Kind                  BoundaryKind
}

// InterfixRule inserts Insert when Match holds.
type InterfixRule struct {
	Name   string
	Match  func(Boundary) bool
	Insert string
}

// newInterfixRules builds the decision table, highest priority first.
func newInterfixRules(seg InterfixSegments) []InterfixRule {
	return []InterfixRule{
		{
			Name: "glide",
			Match: func(b Boundary) bool {
				return b.LeftClass.Vocalic() && b.RightClass.Vocalic()
			},
			Insert: seg.Glide,
		},
		{
			Name: "bridge",
			Match: func(b Boundary) bool {
				return b.Kind == BoundaryFeminine && b.LeftClass.Consonantal()
			},
			Insert: seg.Bridge,
		},
		{
			Name: "easing",
			Match: func(b Boundary) bool {
				return b.Kind == BoundaryCompound && b.LeftClass.Consonantal() && b.RightClass.Consonantal()
			},
			Insert: seg.Easing,
		},
	}
}

// InterfixRules returns the boundary rules in evaluation order.
func (e *Engine) InterfixRules() []InterfixRule {
	out := make([]InterfixRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// ResolveBoundary returns the segment to insert between a stem ending in
// phoneme left and an affix starting with phoneme right. The first matching
// rule wins; when none matches, or the kind is unknown, nothing is inserted.
func (e *Engine) ResolveBoundary(left, right string, kind BoundaryKind) string {
	_, ins := e.resolve(left, right, kind)
	return ins
}

// resolve is ResolveBoundary plus the name of the rule that fired.
func (e *Engine) resolve(left, right string, kind BoundaryKind) (rule, insert string) {
	b := Boundary{
		Left:       left,
		Right:      right,
		LeftClass:  e.inv.Class(left),
		RightClass: e.inv.Class(right),
		Kind:       kind,
	}
	for _, r := range e.rules {
		if r.Match(b) {
			return r.Name, r.Insert
		}
	}
	return "", ""
}
