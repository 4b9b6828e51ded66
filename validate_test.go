package nyrakai

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	e := MustDefault()
	tests := []struct {
		word string
		want Violation
	}{
		{"kæ", ViolationNone},
		{"Kæ", ViolationNone},
		{"n'æra", ViolationNone},
		{"țrænañī", ViolationNone},
		{"fāwaš", ViolationNone},
		{"ka'ta", ViolationNone},
		{"fā", ViolationNone},
		{"k^'el", ViolationForbiddenSequence},
		{"ap^'æ", ViolationForbiddenSequence},
		{"n'ara", ViolationForbiddenSequence},
		{"ktæ", ViolationBadOnsetCluster},
		{"askta", ViolationBadOnsetCluster},
		{"'æ", ViolationGlottalMisplacement},
		{"kæ'", ViolationGlottalMisplacement},
		{"kæ'''æ", ViolationGlottalMisplacement},
		{"a''ka", ViolationBadCoda},
		{"krk", ViolationMissingVowel},
		{"", ViolationMissingVowel},
		{"kæx", ViolationUnknownPhoneme},
	}
	for _, tt := range tests {
		v := e.Validate(tt.word)
		if v.Violation != tt.want {
			t.Errorf("Validate(%q).Violation = %q, want %q (%s)", tt.word, v.Violation, tt.want, v.Detail)
		}
		if v.Legal != (tt.want == ViolationNone) {
			t.Errorf("Validate(%q).Legal = %v", tt.word, v.Legal)
		}
	}
}

// Rule order decides which single violation is reported.
func TestValidateFirstFailureWins(t *testing.T) {
	e := MustDefault()
	// Bad onset cluster and ejective before glottal.
	v := e.Validate("ktæk^'a")
	if v.Violation != ViolationBadOnsetCluster {
		t.Errorf("Validate(ktæk^'a).Violation = %q, want %q", v.Violation, ViolationBadOnsetCluster)
	}
	// Ejective before glottal and glottal before bare a.
	v = e.Validate("k^'a")
	if v.Violation != ViolationForbiddenSequence {
		t.Errorf("Validate(k^'a).Violation = %q, want %q", v.Violation, ViolationForbiddenSequence)
	}
}

func TestValidateRejectsEjectiveGlottal(t *testing.T) {
	e := MustDefault()
	for _, ej := range []string{"k^", "p^", "t^"} {
		for _, w := range []string{ej + "'e", "a" + ej + "'e", "æ" + ej + "'", "ræ" + ej + "'ek"} {
			if v := e.Validate(w); v.Legal {
				t.Errorf("Validate(%q) is legal", w)
			}
		}
	}
}

func TestValidateRejectsFinalGlottal(t *testing.T) {
	e := MustDefault()
	for _, w := range []string{"kæ'", "a'", "țræn'", "fāwaš'"} {
		if v := e.Validate(w); v.Legal {
			t.Errorf("Validate(%q) is legal", w)
		}
	}
}

func TestValidateDeterministic(t *testing.T) {
	e := MustDefault()
	for _, w := range []string{"kæ", "k^'el", "n'ara", "a''ka", "", "kæx"} {
		a, b := e.Validate(w), e.Validate(w)
		if a.Legal != b.Legal || a.Violation != b.Violation || a.Detail != b.Detail || a.Structure() != b.Structure() {
			t.Errorf("Validate(%q) not idempotent: %+v vs %+v", w, a, b)
		}
	}
}

func TestVerdictErr(t *testing.T) {
	e := MustDefault()
	if err := e.Validate("kæ").Err(); err != nil {
		t.Errorf("Validate(kæ).Err() = %v, want nil", err)
	}
	err := e.Validate("n'ara").Err()
	var ve *ViolationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate(n'ara).Err() = %v, want *ViolationError", err)
	}
	if ve.Violation != ViolationForbiddenSequence || ve.Word != "n'ara" {
		t.Errorf("ViolationError = %+v", ve)
	}
}

func TestVerdictRendering(t *testing.T) {
	v := MustDefault().Validate("țrænañī")
	if got := v.Structure(); got != "CCV.CV.CV" {
		t.Errorf("Structure() = %q, want %q", got, "CCV.CV.CV")
	}
	if got := v.Syllabified(); got != "țræ.na.ñī" {
		t.Errorf("Syllabified() = %q, want %q", got, "țræ.na.ñī")
	}
}
