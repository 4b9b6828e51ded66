package nyrakai

import (
	"fmt"
	"sort"
)

// Domain maps a word onset to the semantic fields it conventionally marks.
type Domain struct {
	Onset     string
	Primary   string
	Secondary string
}

// Has reports whether name is the primary or secondary domain.
func (d Domain) Has(name string) bool {
	return name != "" && (d.Primary == name || d.Secondary == name)
}

func (d Domain) String() string {
	if d.Secondary == "" {
		return d.Primary
	}
	return d.Primary + "/" + d.Secondary
}

// Onset returns the onset used for domain lookup: the first phoneme plus a
// following glottal marker, or the first two phonemes when they form a
// mapped onset, or the first phoneme alone.
func (e *Engine) Onset(word string) string {
	tokens := e.inv.Tokenize(word)
	switch {
	case len(tokens) == 0:
		return ""
	case len(tokens) >= 2 && e.inv.IsGlottalMarker(tokens[1]):
		return tokens[0] + tokens[1]
	case len(tokens) >= 2:
		if _, ok := e.domains[tokens[0]+tokens[1]]; ok {
			return tokens[0] + tokens[1]
		}
	}
	return tokens[0]
}

// DomainOf returns the semantic domain of word's onset.
func (e *Engine) DomainOf(word string) (Domain, bool) {
	onset := e.Onset(word)
	d, ok := e.domains[onset]
	if !ok {
		return Domain{Onset: onset}, false
	}
	return d, true
}

// DomainCheck is the result of CheckDomain.
type DomainCheck struct {
	Word     string
	Onset    string
	Domain   Domain
	Mapped   bool
	Expected string
	Match    bool
}

func (c DomainCheck) String() string {
	switch {
	case c.Match:
		return fmt.Sprintf("%q (%s-) matches %s", c.Word, c.Onset, c.Expected)
	case c.Mapped:
		sec := c.Domain.Secondary
		if sec == "" {
			sec = "none"
		}
		return fmt.Sprintf("%q (%s-) is %s/%s, not %s", c.Word, c.Onset, c.Domain.Primary, sec, c.Expected)
	default:
		return fmt.Sprintf("%q (%s-) has no domain mapping", c.Word, c.Onset)
	}
}

// CheckDomain reports whether word's onset marks the expected domain.
func (e *Engine) CheckDomain(word, expected string) DomainCheck {
	d, ok := e.DomainOf(word)
	return DomainCheck{
		Word:     word,
		Onset:    d.Onset,
		Domain:   d,
		Mapped:   ok,
		Expected: expected,
		Match:    ok && d.Has(expected),
	}
}

// OnsetsFor lists the onsets whose primary or secondary domain is name,
// sorted.
func (e *Engine) OnsetsFor(name string) []string {
	var out []string
	for onset, d := range e.domains {
		if d.Has(name) {
			out = append(out, onset)
		}
	}
	sort.Strings(out)
	return out
}

// Domains returns the full onset table sorted by onset.
func (e *Engine) Domains() []Domain {
	out := make([]Domain, 0, len(e.domains))
	for _, d := range e.domains {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Onset < out[j].Onset })
	return out
}
