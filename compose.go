package nyrakai

import (
	"fmt"
	"sort"
)

// Action is the outcome of an eligibility check.
type Action string

const (
	Attach Action = "attach"
	Skip   Action = "skip"
)

// Decision says whether a morpheme is attached to a root, and why not.
// A Skip is a defined no-op, never an error.
type Decision struct {
	Action Action
	Reason string
}

func attach() Decision { return Decision{Action: Attach} }

func skip(format string, args ...any) Decision {
	return Decision{Action: Skip, Reason: fmt.Sprintf(format, args...)}
}

// Step records what happened to one requested morpheme during composition.
type Step struct {
	Morpheme Morpheme
	Decision Decision
	// Interfix is the segment inserted at the boundary, if any.
	Interfix string
	// Form is the accumulated surface form after this step.
	Form string
}

// Eligible reports whether m may attach to root at all.
func (e *Engine) Eligible(root Word, m Morpheme) Decision {
	return e.eligible(root, m, nil)
}

func (e *Engine) eligible(root Word, m Morpheme, filled map[Slot]bool) Decision {
	if _, ok := slotRank(root.POS, m.Slot); !ok {
		return skip("slot %s does not apply to a %s", m.Slot, root.POS)
	}
	if !m.appliesTo(root.POS) {
		return skip("%s is not used with a %s", m.Key(), root.POS)
	}
	switch root.Gender {
	case GenderSacred:
		if m.Slot == SlotGender || m.Slot == SlotNumber {
			return skip("sacred roots take no %s", m.Slot)
		}
	case GenderFixedMasculine:
		if m.Gender == MarkFeminine {
			return skip("fixed-masculine root rejects %s", m.Key())
		}
	case GenderFixedFeminine:
		if m.Gender == MarkMasculine {
			return skip("fixed-feminine root rejects %s", m.Key())
		}
	case GenderNone:
		if m.Slot == SlotGender {
			return skip("root has no gender")
		}
	}
	if filled[m.Slot] {
		return skip("slot %s already filled", m.Slot)
	}
	return attach()
}

// Compose attaches morphemes to root in the slot order of the root's part of
// speech. The order of morphemes does not matter. Morphemes the root cannot
// take are skipped. The result is never validated.
func (e *Engine) Compose(root Word, morphemes ...Morpheme) Word {
	w, _ := e.ComposeSteps(root, morphemes...)
	return w
}

// ComposeValidated composes and then validates the result.
func (e *Engine) ComposeValidated(root Word, morphemes ...Morpheme) (Word, Verdict) {
	w := e.Compose(root, morphemes...)
	return w, e.Validate(w.Form)
}

// ComposeKeys is Compose with morphemes given as "slot:name" keys.
func (e *Engine) ComposeKeys(root Word, keys ...string) (Word, error) {
	ms := make([]Morpheme, 0, len(keys))
	for _, k := range keys {
		m, err := e.Lookup(k)
		if err != nil {
			return Word{}, err
		}
		ms = append(ms, m)
	}
	return e.Compose(root, ms...), nil
}

// ComposeSteps is Compose plus a trace of every decision taken.
//
// Prefixes are attached nearest slot first and resolved against the current
// initial phoneme. Suffixes are attached left to right against the current
// final phoneme. Morphemes outside the slot order come last and are skipped.
func (e *Engine) ComposeSteps(root Word, morphemes ...Morpheme) (Word, []Step) {
	var prefixes, suffixes, rest []Morpheme
	for _, m := range morphemes {
		_, ok := slotRank(root.POS, m.Slot)
		switch {
		case !ok:
			rest = append(rest, m)
		case m.Attach == Prefix:
			prefixes = append(prefixes, m)
		default:
			suffixes = append(suffixes, m)
		}
	}
	sort.SliceStable(prefixes, func(i, j int) bool {
		ri, _ := slotRank(root.POS, prefixes[i].Slot)
		rj, _ := slotRank(root.POS, prefixes[j].Slot)
		return ri > rj
	})
	sort.SliceStable(suffixes, func(i, j int) bool {
		ri, _ := slotRank(root.POS, suffixes[i].Slot)
		rj, _ := slotRank(root.POS, suffixes[j].Slot)
		return ri < rj
	})

	w := root
	filled := make(map[Slot]bool)
	steps := make([]Step, 0, len(morphemes))
	for _, group := range [][]Morpheme{prefixes, suffixes, rest} {
		for _, m := range group {
			st := Step{Morpheme: m, Decision: e.eligible(w, m, filled)}
			if st.Decision.Action == Attach {
				filled[m.Slot] = true
				w.Form, st.Interfix = e.join(w.Form, m)
				if m.Slot == SlotGender && w.Gender == GenderFlexible {
					w.Gender = fixedGender(m.Gender)
				}
			}
			st.Form = w.Form
			steps = append(steps, st)
		}
	}
	return w, steps
}

// join attaches m to form and returns the new form and the inserted segment.
func (e *Engine) join(form string, m Morpheme) (string, string) {
	if m.Form == "" {
		return form, ""
	}
	if m.Attach == Prefix {
		ins := e.ResolveBoundary(e.inv.lastPhoneme(m.Form), e.inv.firstPhoneme(form), BoundaryPrefix)
		return m.Form + ins + form, ins
	}
	kind := BoundaryPlain
	if m.Slot == SlotGender && m.Gender == MarkFeminine {
		kind = BoundaryFeminine
	}
	ins := e.ResolveBoundary(e.inv.lastPhoneme(form), e.inv.firstPhoneme(m.Form), kind)
	return form + ins + m.Form, ins
}

func fixedGender(g GenderMark) Gender {
	switch g {
	case MarkMasculine:
		return GenderFixedMasculine
	case MarkFeminine:
		return GenderFixedFeminine
	}
	return GenderFlexible
}

// Compound joins roots left to right with the compound boundary rules.
// The last part is the head and supplies the part of speech and gender.
func (e *Engine) Compound(parts ...Word) Word {
	if len(parts) == 0 {
		return Word{POS: POSOther, Gender: GenderNone}
	}
	form := parts[0].Form
	for _, p := range parts[1:] {
		ins := e.ResolveBoundary(e.inv.lastPhoneme(form), e.inv.firstPhoneme(p.Form), BoundaryCompound)
		form += ins + p.Form
	}
	head := parts[len(parts)-1]
	return Word{Form: form, POS: head.POS, Gender: head.Gender}
}
