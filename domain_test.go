package nyrakai

import (
	"reflect"
	"testing"
)

func TestDomainOf(t *testing.T) {
	e := MustDefault()
	tests := []struct {
		word    string
		onset   string
		primary string
		mapped  bool
	}{
		{"kæ", "k", "action", true},
		{"kræl", "kr", "nature", true},
		{"sten", "st", "action", true},
		{"k^æl", "k^", "speech", true},
		{"n'æra", "n'", "abstract", true},
		{"ț'æ", "ț'", "time", true},
		{"əl", "ə", "grammar", true},
		{"hœr", "hœ", "grammar", true},
		{"hīra", "h", "celestial", true},
		{"ræțm", "ræ", "abstract", true},
		{"raț", "r", "abstract", true},
		{"bæ", "b", "", false},
		{"k'æ", "k'", "", false},
	}
	for _, tt := range tests {
		d, ok := e.DomainOf(tt.word)
		if ok != tt.mapped || d.Onset != tt.onset || d.Primary != tt.primary {
			t.Errorf("DomainOf(%q) = %+v, %v, want onset %q primary %q mapped %v",
				tt.word, d, ok, tt.onset, tt.primary, tt.mapped)
		}
	}
}

func TestCheckDomain(t *testing.T) {
	e := MustDefault()
	if c := e.CheckDomain("n'æra", "abstract"); !c.Match {
		t.Errorf("CheckDomain(n'æra, abstract) = %s", c)
	}
	if c := e.CheckDomain("kæ", "body"); !c.Match {
		t.Errorf("CheckDomain(kæ, body) = %s", c)
	}
	c := e.CheckDomain("kæ", "nature")
	if c.Match || !c.Mapped {
		t.Errorf("CheckDomain(kæ, nature) = %+v, want mapped mismatch", c)
	}
	if want := `"kæ" (k-) is action/body, not nature`; c.String() != want {
		t.Errorf("String() = %q, want %q", c.String(), want)
	}
	if c := e.CheckDomain("bæ", "nature"); c.Mapped || c.Match {
		t.Errorf("CheckDomain(bæ, nature) = %+v, want unmapped", c)
	}
}

func TestOnsetsFor(t *testing.T) {
	e := MustDefault()
	if got, want := e.OnsetsFor("law"), []string{"dr"}; !reflect.DeepEqual(got, want) {
		t.Errorf("OnsetsFor(law) = %v, want %v", got, want)
	}
	if got, want := e.OnsetsFor("grammar"), []string{"hœ", "kw", "z", "ə"}; !reflect.DeepEqual(got, want) {
		t.Errorf("OnsetsFor(grammar) = %v, want %v", got, want)
	}
	if got := e.OnsetsFor("nonsense"); len(got) != 0 {
		t.Errorf("OnsetsFor(nonsense) = %v, want none", got)
	}
	if n := len(e.Domains()); n != len(e.domains) {
		t.Errorf("Domains() has %d entries, want %d", n, len(e.domains))
	}
}
