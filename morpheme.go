package nyrakai

import "fmt"

// Slot is the semantic position an affix fills.
type Slot string

const (
	SlotPossession Slot = "possession"
	SlotNegation   Slot = "negation"
	SlotDerivation Slot = "derivation"
	SlotGender     Slot = "gender"
	SlotNumber     Slot = "number"
	SlotCase       Slot = "case"
	SlotVoice      Slot = "voice"
	SlotAspect     Slot = "aspect"
	SlotMood       Slot = "mood"

	// slotRoot marks the position of the root inside a slot order.
	slotRoot Slot = "root"
)

// Valid reports whether s names an affix slot.
func (s Slot) Valid() bool {
	switch s {
	case SlotPossession, SlotNegation, SlotDerivation, SlotGender, SlotNumber,
		SlotCase, SlotVoice, SlotAspect, SlotMood:
		return true
	}
	return false
}

// slotOrders fixes the attachment order for each part of speech.
// Slots left of slotRoot hold prefixes. Derivation sits right of the root but
// also has a prefix (abstract n'), which attaches before any other prefix.
var slotOrders = map[PartOfSpeech][]Slot{
	POSNoun:      {SlotPossession, SlotNegation, slotRoot, SlotDerivation, SlotGender, SlotNumber, SlotCase},
	POSAdjective: {SlotPossession, SlotNegation, slotRoot, SlotDerivation, SlotGender, SlotNumber, SlotCase},
	POSVerb:      {SlotNegation, slotRoot, SlotVoice, SlotAspect, SlotMood},
	POSPronoun:   {slotRoot, SlotNumber, SlotCase},
}

// SlotOrder returns the affix order for pos with "root" marking the stem.
// Parts of speech without an order take no affixes.
func SlotOrder(pos PartOfSpeech) []Slot {
	order := slotOrders[pos]
	out := make([]Slot, len(order))
	copy(out, order)
	return out
}

// slotRank returns the position of s in the order for pos, relative to the
// root: negative for prefixes, positive for suffixes. ok is false when the
// slot does not apply to pos.
func slotRank(pos PartOfSpeech, s Slot) (rank int, ok bool) {
	order := slotOrders[pos]
	root := -1
	for i, o := range order {
		if o == slotRoot {
			root = i
		}
	}
	for i, o := range order {
		if o == s {
			return i - root, true
		}
	}
	return 0, false
}

// Attachment says on which side of the stem an affix goes.
type Attachment string

const (
	Prefix Attachment = "prefix"
	Suffix Attachment = "suffix"
)

// GenderMark is the gender carried by a gender-bearing affix.
type GenderMark string

const (
	MarkNone      GenderMark = ""
	MarkMasculine GenderMark = "masculine"
	MarkFeminine  GenderMark = "feminine"
)

// BoundaryTag describes the edge of an affix that touches the stem.
type BoundaryTag string

const (
	BoundaryZero                BoundaryTag = "zero"
	BoundaryVowelInitial        BoundaryTag = "vowel-initial"
	BoundaryConsonantInitial    BoundaryTag = "consonant-initial"
	BoundaryVowelFinalSensitive BoundaryTag = "vowel-final-sensitive"
)

// Morpheme is an affix from morphemes.ny.
type Morpheme struct {
	Name   string
	Slot   Slot
	Attach Attachment
	Form   string
	// Gender is set on affixes that mark gender (the gender suffixes and
	// the feminine plural).
	Gender GenderMark
	// POS restricts the affix to these parts of speech when non-empty.
	POS      []PartOfSpeech
	Boundary BoundaryTag
}

// Key returns the "slot:name" lookup key.
func (m Morpheme) Key() string {
	return string(m.Slot) + ":" + m.Name
}

func (m Morpheme) String() string {
	switch {
	case m.Form == "":
		return m.Key() + "(∅)"
	case m.Attach == Prefix:
		return fmt.Sprintf("%s(%s-)", m.Key(), m.Form)
	default:
		return fmt.Sprintf("%s(-%s)", m.Key(), m.Form)
	}
}

func (m Morpheme) appliesTo(pos PartOfSpeech) bool {
	if len(m.POS) == 0 {
		return true
	}
	for _, p := range m.POS {
		if p == pos {
			return true
		}
	}
	return false
}

// UnknownMorphemeError is returned by Engine.Lookup.
type UnknownMorphemeError struct {
	Key string
}

func (e *UnknownMorphemeError) Error() string {
	return fmt.Sprintf("unknown morpheme %q", e.Key)
}
