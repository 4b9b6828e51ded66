package nyrakai

import (
	"errors"
	"fmt"
	"strings"
)

// Violation names the phonotactic rule a word breaks.
type Violation string

const (
	ViolationNone                Violation = ""
	ViolationBadOnsetCluster     Violation = "bad-onset-cluster"
	ViolationBadCoda             Violation = "bad-coda"
	ViolationForbiddenSequence   Violation = "forbidden-sequence"
	ViolationMissingVowel        Violation = "missing-vowel"
	ViolationGlottalMisplacement Violation = "glottal-misplacement"
	ViolationUnknownPhoneme      Violation = "unknown-phoneme"
)

// Verdict is the outcome of Validate. A failing verdict names exactly one
// violation: the first rule that fails.
type Verdict struct {
	Word      string
	Legal     bool
	Violation Violation
	// Detail is a short human-readable explanation of the violation.
	Detail string
	// Syllables holds the segmentation when it succeeded.
	Syllables []Syllable
}

// Err returns nil for a legal word and a *ViolationError otherwise.
func (v Verdict) Err() error {
	if v.Legal {
		return nil
	}
	return &ViolationError{Word: v.Word, Violation: v.Violation, Detail: v.Detail}
}

// Structure renders the syllable templates joined by dots, e.g. "CV.CVC".
func (v Verdict) Structure() string {
	parts := make([]string, len(v.Syllables))
	for i, s := range v.Syllables {
		parts[i] = s.Structure()
	}
	return strings.Join(parts, ".")
}

// Syllabified renders the word with dots between syllables.
func (v Verdict) Syllabified() string {
	parts := make([]string, len(v.Syllables))
	for i, s := range v.Syllables {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// ViolationError is the error form of a failing Verdict.
type ViolationError struct {
	Word      string
	Violation Violation
	Detail    string
}

func (e *ViolationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%q: %s", e.Word, e.Violation)
	}
	return fmt.Sprintf("%q: %s: %s", e.Word, e.Violation, e.Detail)
}

// Validate checks word against the phonotactic rules. It never fails:
// malformed input yields an illegal Verdict.
//
// The checks run in a fixed order and stop at the first failure:
// segmentation, onset clusters, ejective before glottal, glottal before
// bare "a", glottal placement, glottal coda.
func (e *Engine) Validate(word string) Verdict {
	v := Verdict{Word: word}
	tokens := e.inv.Tokenize(word)

	syls, err := e.segment(word, tokens)
	if err != nil {
		var se *SegmentationError
		if !errors.As(err, &se) {
			return v.fail(ViolationMissingVowel, err.Error())
		}
		switch se.Reason {
		case ReasonUnknownPhoneme:
			return v.fail(ViolationUnknownPhoneme, fmt.Sprintf("%q is not in the inventory", se.Span))
		case ReasonEmpty:
			return v.fail(ViolationMissingVowel, "empty word")
		default:
			return v.fail(ViolationMissingVowel, fmt.Sprintf("no vowel for %q", se.Span))
		}
	}
	v.Syllables = syls

	for _, s := range syls {
		if len(s.Onset) != 2 {
			continue
		}
		c1, c2 := s.Onset[0], s.Onset[1]
		if !e.inv.IsValidConsonant(c1) || !e.inv.IsValidConsonant(c2) {
			continue
		}
		if !e.inv.ClusterAllowed(c1, c2) {
			return v.fail(ViolationBadOnsetCluster, fmt.Sprintf("onset %s%s is not an allowed cluster", c1, c2))
		}
	}

	for i := 0; i+1 < len(tokens); i++ {
		if e.inv.Class(tokens[i]) == ClassEjective && e.inv.IsGlottalMarker(tokens[i+1]) {
			return v.fail(ViolationForbiddenSequence, fmt.Sprintf("ejective %s before glottal marker", tokens[i]))
		}
	}
	for i := 0; i+1 < len(tokens); i++ {
		if e.inv.IsGlottalMarker(tokens[i]) && tokens[i+1] == "a" {
			return v.fail(ViolationForbiddenSequence, "glottal marker before bare a")
		}
	}

	for _, s := range syls {
		if (len(s.Onset) == 0 && s.Glottal) || (len(s.Onset) > 0 && e.inv.IsGlottalMarker(s.Onset[0])) {
			return v.fail(ViolationGlottalMisplacement, fmt.Sprintf("syllable %q starts with the glottal marker", s.String()))
		}
	}
	if e.inv.IsGlottalMarker(tokens[len(tokens)-1]) {
		return v.fail(ViolationGlottalMisplacement, "word ends with the glottal marker")
	}

	for _, s := range syls {
		if e.inv.IsGlottalMarker(s.Coda) {
			return v.fail(ViolationBadCoda, fmt.Sprintf("syllable %q has the glottal marker as coda", s.String()))
		}
	}

	v.Legal = true
	return v
}

func (v Verdict) fail(kind Violation, detail string) Verdict {
	v.Legal = false
	v.Violation = kind
	v.Detail = detail
	return v
}
