// Package dictionary reads the Nyrakai dictionary files.
//
// A dictionary file is a JSON object with a "meta" header and a "words"
// list. Several files can be merged by loading them through glob patterns.
// The package never writes dictionaries.
package dictionary

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-json"
	"golang.org/x/text/unicode/norm"

	"github.com/nyrakai/nyrakai"
)

// Meta is the dictionary header.
type Meta struct {
	Language   string `json:"language,omitempty"`
	Version    string `json:"version,omitempty"`
	TotalWords int    `json:"total_words,omitempty"`
}

// Entry is one dictionary word.
type Entry struct {
	Nyrakai        string `json:"nyrakai"`
	English        string `json:"english"`
	POS            string `json:"pos,omitempty"`
	InherentGender string `json:"inherent_gender,omitempty"`
	IsRoot         bool   `json:"is_root,omitempty"`
	Etymology      string `json:"etymology,omitempty"`
	// Domain is the semantic domain the word is meant to belong to.
	Domain    string `json:"domain,omitempty"`
	Structure string `json:"structure,omitempty"`

	// Source is the file the entry was read from.
	Source string `json:"-"`
}

// Dictionary is a decoded dictionary, possibly merged from several files.
type Dictionary struct {
	Meta  Meta    `json:"meta"`
	Words []Entry `json:"words"`
}

// Decode reads one dictionary from r.
func Decode(r io.Reader) (*Dictionary, error) {
	var d Dictionary
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	for i := range d.Words {
		d.Words[i].Nyrakai = norm.NFC.String(strings.TrimSpace(d.Words[i].Nyrakai))
	}
	return &d, nil
}

// Load reads the dictionary file at path.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range d.Words {
		d.Words[i].Source = path
	}
	return d, nil
}

// LoadGlob loads and merges every file matching the doublestar patterns
// (e.g. "dict/**/*.json"). Files are read in sorted order and each file is
// read once even if several patterns match it.
func LoadGlob(patterns ...string) (*Dictionary, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no dictionary files match %s", strings.Join(patterns, ", "))
	}
	sort.Strings(files)

	merged := &Dictionary{}
	for _, file := range files {
		d, err := Load(file)
		if err != nil {
			return nil, err
		}
		if merged.Meta.Language == "" {
			merged.Meta = d.Meta
		}
		merged.Words = append(merged.Words, d.Words...)
	}
	merged.Meta.TotalWords = len(merged.Words)
	return merged, nil
}

// Lookup finds an entry by Nyrakai spelling or, failing that, by English
// gloss (case-insensitive).
func (d *Dictionary) Lookup(word string) (Entry, bool) {
	nfc := norm.NFC.String(word)
	for _, e := range d.Words {
		if e.Nyrakai == nfc {
			return e, true
		}
	}
	for _, e := range d.Words {
		if strings.EqualFold(e.English, word) {
			return e, true
		}
	}
	return Entry{}, false
}

// Roots returns the entries marked as roots.
func (d *Dictionary) Roots() []Entry {
	var out []Entry
	for _, e := range d.Words {
		if e.IsRoot {
			out = append(out, e)
		}
	}
	return out
}

// Word converts the entry into a root for the composer. Nouns without a
// gender default to flexible.
func (e Entry) Word() (nyrakai.Word, error) {
	pos, ok := nyrakai.ParsePartOfSpeech(e.POS)
	if !ok && e.POS != "" {
		return nyrakai.Word{}, fmt.Errorf("%s: unknown part of speech %q", e.Nyrakai, e.POS)
	}
	if e.POS == "" {
		pos = nyrakai.POSNoun
	}
	gender, ok := nyrakai.ParseGender(e.InherentGender)
	if !ok {
		return nyrakai.Word{}, fmt.Errorf("%s: unknown gender %q", e.Nyrakai, e.InherentGender)
	}
	if pos == nyrakai.POSNoun && e.InherentGender == "" {
		gender = nyrakai.GenderFlexible
	}
	return nyrakai.Word{Form: e.Nyrakai, POS: pos, Gender: gender}, nil
}
