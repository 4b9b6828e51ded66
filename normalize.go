package nyrakai

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// affricateReplacer folds ASCII digraphs into the affricate and dental
// letters. "tch" must come before the two-letter digraphs starting with t.
var affricateReplacer = strings.NewReplacer(
	"tch", "š",
	"ts", "ƨ",
	"dz", "ƶ",
	"tr", "ŧ",
	"th", "ț",
)

// longVowelReplacer folds doubled vowels into long vowels.
var longVowelReplacer = strings.NewReplacer(
	"aa", "ā",
	"ee", "ē",
	"ii", "ī",
	"oo", "ō",
	"uu", "ū",
)

// diphthongReplacer folds vowel pairs into diphthong letters. Long pairs
// are listed first so "āi" wins over "ai".
var diphthongReplacer = strings.NewReplacer(
	"āi", "ǣ",
	"āu", "ɒ̄",
	"ēi", "ɛ̄",
	"ēu", "ə̄",
	"ōi", "œ̄",
	"ai", "æ",
	"au", "ɒ",
	"ei", "ɛ",
	"eu", "ə",
	"oi", "œ",
)

// Normalize rewrites an ASCII romanization into Nyrakai letters: affricate
// digraphs first, then doubled vowels, then diphthongs. Text already in
// Nyrakai letters passes through unchanged apart from NFC and lowercasing.
//
// Validate never calls Normalize; callers opt in.
func Normalize(word string) string {
	s := strings.ToLower(norm.NFC.String(word))
	s = affricateReplacer.Replace(s)
	s = longVowelReplacer.Replace(s)
	s = diphthongReplacer.Replace(s)
	return norm.NFC.String(s)
}
