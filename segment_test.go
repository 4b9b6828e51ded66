package nyrakai

import (
	"errors"
	"strings"
	"testing"
)

func syllabify(syls []Syllable) string {
	parts := make([]string, len(syls))
	for i, s := range syls {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

func TestSegment(t *testing.T) {
	e := MustDefault()
	tests := []struct {
		word      string
		want      string
		structure string
	}{
		{"kæ", "kæ", "CV"},
		{"a", "a", "V"},
		{"țrænañī", "țræ.na.ñī", "CCV.CV.CV"},
		{"n'æra", "n'æ.ra", "C'V.CV"},
		{"ka'ta", "ka'.ta", "CV'.CV"},
		{"askra", "as.kra", "VC.CCV"},
		{"anta", "an.ta", "VC.CV"},
		{"aspa", "a.spa", "V.CCV"},
		{"kælen", "kæ.len", "CV.CVC"},
		{"k^'el", "k^'el", "C'VC"},
		{"fāwaš", "fā.waš", "CV.CVC"},
	}
	for _, tt := range tests {
		syls, err := e.Segment(tt.word)
		if err != nil {
			t.Errorf("Segment(%q): %v", tt.word, err)
			continue
		}
		if got := syllabify(syls); got != tt.want {
			t.Errorf("Segment(%q) = %q, want %q", tt.word, got, tt.want)
		}
		v := Verdict{Syllables: syls}
		if got := v.Structure(); got != tt.structure {
			t.Errorf("Segment(%q) structure = %q, want %q", tt.word, got, tt.structure)
		}
	}
}

func TestSegmentOffsets(t *testing.T) {
	e := MustDefault()
	syls, err := e.Segment("askra")
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]int{{0, 2}, {2, 5}}
	for i, s := range syls {
		if s.Start != want[i][0] || s.End != want[i][1] {
			t.Errorf("syllable %d %q spans [%d,%d), want [%d,%d)",
				i, s.String(), s.Start, s.End, want[i][0], want[i][1])
		}
	}
}

func TestSegmentErrors(t *testing.T) {
	e := MustDefault()
	tests := []struct {
		word   string
		reason SegmentReason
		offset int
	}{
		{"", ReasonEmpty, 0},
		{"krk", ReasonMissingVowel, 0},
		{"kstra", ReasonMissingVowel, 0},
		{"akst", ReasonMissingVowel, 1},
		{"ankstra", ReasonMissingVowel, 1},
		{"kæx", ReasonUnknownPhoneme, 2},
		{"k3a", ReasonUnknownPhoneme, 1},
	}
	for _, tt := range tests {
		_, err := e.Segment(tt.word)
		var se *SegmentationError
		if !errors.As(err, &se) {
			t.Errorf("Segment(%q) error = %v, want *SegmentationError", tt.word, err)
			continue
		}
		if se.Reason != tt.reason || se.Offset != tt.offset {
			t.Errorf("Segment(%q) = %s at %d, want %s at %d", tt.word, se.Reason, se.Offset, tt.reason, tt.offset)
		}
	}
}

// Every two-consonant run between vowels is either one onset, when the
// cluster table allows it, or a coda followed by a one-consonant onset.
func TestSegmentConsonantPairs(t *testing.T) {
	e := MustDefault()
	inv := e.Inventory()
	var consonants []string
	for _, p := range inv.Phonemes() {
		if p.Class.Consonantal() {
			consonants = append(consonants, p.Symbol)
		}
	}
	for _, c1 := range consonants {
		for _, c2 := range consonants {
			word := "a" + c1 + c2 + "a"
			syls, err := e.Segment(word)
			if err != nil {
				t.Errorf("Segment(%q): %v", word, err)
				continue
			}
			if len(syls) != 2 {
				t.Errorf("Segment(%q) = %q, want 2 syllables", word, syllabify(syls))
				continue
			}
			if inv.ClusterAllowed(c1, c2) {
				if syls[0].Coda != "" || strings.Join(syls[1].Onset, "") != c1+c2 {
					t.Errorf("Segment(%q) = %q, want a.%s%sa", word, syllabify(syls), c1, c2)
				}
			} else {
				if syls[0].Coda != c1 || strings.Join(syls[1].Onset, "") != c2 {
					t.Errorf("Segment(%q) = %q, want a%s.%sa", word, syllabify(syls), c1, c2)
				}
			}
		}
	}
}
