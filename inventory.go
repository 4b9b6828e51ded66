package nyrakai

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// PhonemeClass is the phonological class of an inventory symbol.
type PhonemeClass string

const (
	ClassUnknown       PhonemeClass = ""
	ClassVowel         PhonemeClass = "vowel"
	ClassLongVowel     PhonemeClass = "long-vowel"
	ClassDiphthong     PhonemeClass = "diphthong"
	ClassLongDiphthong PhonemeClass = "long-diphthong"
	ClassConsonant     PhonemeClass = "consonant"
	ClassGlide         PhonemeClass = "glide"
	ClassEjective      PhonemeClass = "ejective"
	ClassAffricate     PhonemeClass = "affricate"
	ClassGlottal       PhonemeClass = "glottal"
)

// Valid reports whether c is one of the known classes.
func (c PhonemeClass) Valid() bool {
	switch c {
	case ClassVowel, ClassLongVowel, ClassDiphthong, ClassLongDiphthong,
		ClassConsonant, ClassGlide, ClassEjective, ClassAffricate, ClassGlottal:
		return true
	default:
		return false
	}
}

// Vocalic reports whether c can fill the nucleus slot.
func (c PhonemeClass) Vocalic() bool {
	switch c {
	case ClassVowel, ClassLongVowel, ClassDiphthong, ClassLongDiphthong:
		return true
	}
	return false
}

// Consonantal reports whether c can fill an onset or coda slot.
func (c PhonemeClass) Consonantal() bool {
	switch c {
	case ClassConsonant, ClassGlide, ClassEjective, ClassAffricate:
		return true
	}
	return false
}

// Phoneme is a single inventory entry.
type Phoneme struct {
	Symbol string
	Class  PhonemeClass
}

// Inventory holds the phoneme table and the onset cluster table.
type Inventory struct {
	// classes maps symbol → class.
	classes map[string]PhonemeClass

	// order keeps phonemes in file order.
	order []Phoneme

	// multi lists symbols longer than one rune, longest first, so the
	// tokenizer can match k^ or ɒ̄ before their first rune.
	multi []string

	// glottal is the glottal marker symbol.
	glottal string

	// clusters maps C1 → set of permitted C2.
	clusters map[string]map[string]bool
}

func newInventory() *Inventory {
	return &Inventory{
		classes:  make(map[string]PhonemeClass),
		clusters: make(map[string]map[string]bool),
	}
}

// add registers a phoneme. Symbols are stored NFC-normalized.
func (inv *Inventory) add(symbol string, class PhonemeClass) {
	symbol = norm.NFC.String(symbol)
	if _, ok := inv.classes[symbol]; !ok {
		inv.order = append(inv.order, Phoneme{Symbol: symbol, Class: class})
	}
	inv.classes[symbol] = class
	if class == ClassGlottal {
		inv.glottal = symbol
	}
}

// finish builds the tokenizer lookup once all phonemes are known.
func (inv *Inventory) finish() {
	inv.multi = inv.multi[:0]
	for sym := range inv.classes {
		if utf8.RuneCountInString(sym) > 1 {
			inv.multi = append(inv.multi, sym)
		}
	}
	sort.Slice(inv.multi, func(i, j int) bool {
		if len(inv.multi[i]) != len(inv.multi[j]) {
			return len(inv.multi[i]) > len(inv.multi[j])
		}
		return inv.multi[i] < inv.multi[j]
	})
}

// Class returns the class of symbol, or ClassUnknown.
func (inv *Inventory) Class(symbol string) PhonemeClass {
	return inv.classes[symbol]
}

// IsValidConsonant reports whether symbol is a consonant, glide, ejective
// or affricate.
func (inv *Inventory) IsValidConsonant(symbol string) bool {
	return inv.classes[symbol].Consonantal()
}

// IsValidVowelOrDiphthong reports whether symbol is a short or long vowel
// or diphthong.
func (inv *Inventory) IsValidVowelOrDiphthong(symbol string) bool {
	return inv.classes[symbol].Vocalic()
}

// IsGlottalMarker reports whether symbol is the glottal marker.
func (inv *Inventory) IsGlottalMarker(symbol string) bool {
	return symbol != "" && symbol == inv.glottal
}

// GlottalMarker returns the glottal marker symbol.
func (inv *Inventory) GlottalMarker() string {
	return inv.glottal
}

// ClusterAllowed reports whether c1 c2 may form a two-consonant onset.
func (inv *Inventory) ClusterAllowed(c1, c2 string) bool {
	return inv.clusters[c1][c2]
}

// Phonemes returns the inventory in table order.
func (inv *Inventory) Phonemes() []Phoneme {
	out := make([]Phoneme, len(inv.order))
	copy(out, inv.order)
	return out
}

// Clusters returns a copy of the cluster table with sorted C2 lists.
func (inv *Inventory) Clusters() map[string][]string {
	out := make(map[string][]string, len(inv.clusters))
	for c1, set := range inv.clusters {
		list := make([]string, 0, len(set))
		for c2 := range set {
			list = append(list, c2)
		}
		sort.Strings(list)
		out[c1] = list
	}
	return out
}

// Tokenize splits word into phoneme symbols by longest match against the
// inventory. The input is NFC-normalized and lowercased first, so a
// decomposed "a" + U+0304 is read as the long vowel ā. Symbols outside the
// inventory are returned one rune at a time.
func (inv *Inventory) Tokenize(word string) []string {
	word = strings.ToLower(norm.NFC.String(word))
	tokens := make([]string, 0, len(word))
	for i := 0; i < len(word); {
		if sym := inv.matchMulti(word[i:]); sym != "" {
			tokens = append(tokens, sym)
			i += len(sym)
			continue
		}
		_, size := utf8.DecodeRuneInString(word[i:])
		tokens = append(tokens, word[i:i+size])
		i += size
	}
	return tokens
}

func (inv *Inventory) matchMulti(s string) string {
	for _, sym := range inv.multi {
		if strings.HasPrefix(s, sym) {
			return sym
		}
	}
	return ""
}

// firstPhoneme returns the first phoneme of s, or "" when s is empty.
func (inv *Inventory) firstPhoneme(s string) string {
	tokens := inv.Tokenize(s)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// lastPhoneme returns the last phoneme of s, or "" when s is empty.
func (inv *Inventory) lastPhoneme(s string) string {
	tokens := inv.Tokenize(s)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}
