package nyrakai

import (
	"fmt"
	"strings"
)

// Syllable is one (C)(C)V(')(C) span of a word.
type Syllable struct {
	// Onset holds zero to two onset phonemes.
	Onset []string
	// Glottal is set when the glottal marker sits between the onset and
	// the nucleus (C'V).
	Glottal bool
	// Nucleus is the vowel or diphthong.
	Nucleus string
	// Checked is set when the glottal marker follows the nucleus (V').
	Checked bool
	// Coda is the optional final consonant.
	Coda string
	// Start and End are phoneme offsets into the tokenized word.
	Start, End int
}

// String renders the syllable as written.
func (s Syllable) String() string {
	b := &strings.Builder{}
	for _, o := range s.Onset {
		b.WriteString(o)
	}
	if s.Glottal {
		b.WriteByte('\'')
	}
	b.WriteString(s.Nucleus)
	if s.Checked {
		b.WriteByte('\'')
	}
	b.WriteString(s.Coda)
	return b.String()
}

// Structure renders the slot template of the syllable, e.g. "CCV'C".
func (s Syllable) Structure() string {
	b := &strings.Builder{}
	b.WriteString(strings.Repeat("C", len(s.Onset)))
	if s.Glottal {
		b.WriteByte('\'')
	}
	b.WriteByte('V')
	if s.Checked {
		b.WriteByte('\'')
	}
	if s.Coda != "" {
		b.WriteByte('C')
	}
	return b.String()
}

// SegmentReason classifies a SegmentationError.
type SegmentReason string

const (
	ReasonEmpty          SegmentReason = "empty"
	ReasonUnknownPhoneme SegmentReason = "unknown-phoneme"
	ReasonMissingVowel   SegmentReason = "missing-vowel"
)

// SegmentationError reports that no legal syllabification exists.
type SegmentationError struct {
	Word   string
	Reason SegmentReason
	// Offset is the phoneme index where segmentation failed.
	Offset int
	// Span is the offending phoneme or consonant run.
	Span string
}

func (e *SegmentationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "segment: empty word"
	case ReasonUnknownPhoneme:
		return fmt.Sprintf("segment %q: unknown phoneme %q at %d", e.Word, e.Span, e.Offset)
	default:
		return fmt.Sprintf("segment %q: no vowel for %q at %d", e.Word, e.Span, e.Offset)
	}
}

// Segment splits word into syllables.
//
// Consonants between two nuclei go to the following onset. A run of two is
// kept together only when ClusterAllowed holds; otherwise the first consonant
// closes the previous syllable. A run of three always leaves one consonant
// in the previous coda.
func (e *Engine) Segment(word string) ([]Syllable, error) {
	return e.segment(word, e.inv.Tokenize(word))
}

func (e *Engine) segment(word string, tokens []string) ([]Syllable, error) {
	if len(tokens) == 0 {
		return nil, &SegmentationError{Word: word, Reason: ReasonEmpty}
	}

	var nuclei []int
	for i, t := range tokens {
		cls := e.inv.Class(t)
		switch {
		case cls == ClassUnknown:
			return nil, &SegmentationError{Word: word, Reason: ReasonUnknownPhoneme, Offset: i, Span: t}
		case cls.Vocalic():
			nuclei = append(nuclei, i)
		}
	}
	if len(nuclei) == 0 {
		return nil, &SegmentationError{Word: word, Reason: ReasonMissingVowel, Span: strings.Join(tokens, "")}
	}

	syls := make([]Syllable, len(nuclei))
	for i, n := range nuclei {
		syls[i].Nucleus = tokens[n]
	}

	missing := func(from, to int) error {
		return &SegmentationError{
			Word:   word,
			Reason: ReasonMissingVowel,
			Offset: from,
			Span:   strings.Join(tokens[from:to], ""),
		}
	}

	// Word-initial run: everything before the first nucleus is onset.
	lo, hi := 0, nuclei[0]
	if hi > lo && e.inv.IsGlottalMarker(tokens[hi-1]) {
		syls[0].Glottal = true
		hi--
	}
	if hi-lo > 2 {
		return nil, missing(lo, hi)
	}
	syls[0].Onset = tokens[lo:hi]
	syls[0].Start = 0

	// Medial runs.
	for k := 0; k+1 < len(nuclei); k++ {
		cur, next := &syls[k], &syls[k+1]
		lo, hi := nuclei[k]+1, nuclei[k+1]
		if lo < hi && e.inv.IsGlottalMarker(tokens[lo]) {
			cur.Checked = true
			lo++
		}
		if lo < hi && e.inv.IsGlottalMarker(tokens[hi-1]) {
			next.Glottal = true
			hi--
		}
		run := tokens[lo:hi]
		switch len(run) {
		case 0:
		case 1:
			next.Onset = run
		case 2:
			if e.inv.ClusterAllowed(run[0], run[1]) {
				next.Onset = run
			} else {
				cur.Coda, next.Onset = run[0], run[1:]
			}
		case 3:
			cur.Coda, next.Onset = run[0], run[1:]
		default:
			return nil, missing(lo, hi)
		}
		cur.End = lo
		if cur.Coda != "" {
			cur.End++
		}
		next.Start = cur.End
	}

	// Word-final run: at most one coda consonant.
	last := &syls[len(syls)-1]
	lo, hi = nuclei[len(nuclei)-1]+1, len(tokens)
	if lo < hi && e.inv.IsGlottalMarker(tokens[lo]) {
		last.Checked = true
		lo++
	}
	switch hi - lo {
	case 0:
	case 1:
		last.Coda = tokens[lo]
	default:
		return nil, missing(lo, hi)
	}
	last.End = hi

	return syls, nil
}
