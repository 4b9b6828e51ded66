package nyrakai

import "strings"

// PartOfSpeech represents the grammatical category of a root.
type PartOfSpeech rune

const (
	POSNoun      PartOfSpeech = 'n'
	POSVerb      PartOfSpeech = 'v'
	POSAdjective PartOfSpeech = 'a'
	POSPronoun   PartOfSpeech = 'p'
	POSOther     PartOfSpeech = '-'
)

// ParsePartOfSpeech accepts the dictionary spellings ("noun", "proper noun",
// "adj", "pron", ...) and returns the matching PartOfSpeech.
func ParsePartOfSpeech(s string) (PartOfSpeech, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "noun", "n", "proper noun":
		return POSNoun, true
	case "verb", "v":
		return POSVerb, true
	case "adjective", "adj", "a":
		return POSAdjective, true
	case "pronoun", "pron", "p":
		return POSPronoun, true
	case "other", "adv", "adverb", "conj", "conjunction", "particle", "postposition", "-":
		return POSOther, true
	}
	return POSOther, false
}

func (p PartOfSpeech) String() string {
	switch p {
	case POSNoun:
		return "noun"
	case POSVerb:
		return "verb"
	case POSAdjective:
		return "adjective"
	case POSPronoun:
		return "pronoun"
	default:
		return "other"
	}
}

// Gender is the gender category of a noun or pronoun root.
type Gender string

const (
	GenderNone           Gender = "none"
	GenderFlexible       Gender = "flexible"
	GenderFixedMasculine Gender = "fixed-masculine"
	GenderFixedFeminine  Gender = "fixed-feminine"
	GenderSacred         Gender = "sacred"
)

// ParseGender accepts the category names plus the dictionary shorthands
// "masculine" and "feminine". The empty string maps to GenderNone.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return GenderNone, true
	case "flexible":
		return GenderFlexible, true
	case "fixed-masculine", "masculine":
		return GenderFixedMasculine, true
	case "fixed-feminine", "feminine":
		return GenderFixedFeminine, true
	case "sacred":
		return GenderSacred, true
	}
	return GenderNone, false
}

// Word is a surface form together with the lexical facts the composer needs.
// Words are values; composing produces a new Word.
type Word struct {
	Form   string
	POS    PartOfSpeech
	Gender Gender
}

// Noun returns a noun root of the given gender category.
func Noun(form string, g Gender) Word {
	return Word{Form: form, POS: POSNoun, Gender: g}
}

// Verb returns a verb root.
func Verb(form string) Word {
	return Word{Form: form, POS: POSVerb, Gender: GenderNone}
}

// Pronoun returns a pronoun root.
func Pronoun(form string) Word {
	return Word{Form: form, POS: POSPronoun, Gender: GenderNone}
}

func (w Word) String() string { return w.Form }
