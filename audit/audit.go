// Package audit checks a dictionary against the Nyrakai rules: every word
// is validated, repeated spellings and glosses are reported, near-identical
// spellings are flagged and declared semantic domains are compared with the
// onset domain table.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/sync/errgroup"

	"github.com/nyrakai/nyrakai"
	"github.com/nyrakai/nyrakai/dictionary"
)

// DefaultSimilarDistance flags pairs that differ by a single edit.
const DefaultSimilarDistance = 2

// Result pairs an entry with its verdict.
type Result struct {
	Entry   dictionary.Entry
	Verdict nyrakai.Verdict
}

// ValidateAll validates every entry against e. Entries are checked
// concurrently by at most workers goroutines (0 means one per CPU); the
// results keep the input order.
func ValidateAll(ctx context.Context, e *nyrakai.Engine, entries []dictionary.Entry, workers int, normalize bool) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			word := entries[i].Nyrakai
			if normalize {
				word = nyrakai.Normalize(word)
			}
			results[i] = Result{Entry: entries[i], Verdict: e.Validate(word)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DuplicateKind says what two entries share.
type DuplicateKind string

const (
	DuplicateSpelling DuplicateKind = "spelling"
	DuplicateGloss    DuplicateKind = "gloss"
)

// Duplicate is a group of entries sharing a spelling or an English gloss.
type Duplicate struct {
	Kind    DuplicateKind `json:"kind"`
	Key     string        `json:"key"`
	Words   []string      `json:"words"`
	Glosses []string      `json:"glosses"`
}

// Duplicates groups entries by normalized spelling and by lowercased
// English gloss and returns every group with more than one member.
func Duplicates(entries []dictionary.Entry) []Duplicate {
	var out []Duplicate
	out = append(out, groupBy(entries, DuplicateSpelling, func(e dictionary.Entry) string {
		return nyrakai.Normalize(e.Nyrakai)
	})...)
	out = append(out, groupBy(entries, DuplicateGloss, func(e dictionary.Entry) string {
		return strings.ToLower(strings.TrimSpace(e.English))
	})...)
	return out
}

func groupBy(entries []dictionary.Entry, kind DuplicateKind, key func(dictionary.Entry) string) []Duplicate {
	groups := make(map[string][]dictionary.Entry)
	for _, e := range entries {
		k := key(e)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], e)
	}
	var out []Duplicate
	for k, group := range groups {
		if len(group) < 2 {
			continue
		}
		d := Duplicate{Kind: kind, Key: k}
		for _, e := range group {
			d.Words = append(d.Words, e.Nyrakai)
			d.Glosses = append(d.Glosses, e.English)
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SimilarPair is two distinct spellings closer than the similarity distance.
type SimilarPair struct {
	A        string `json:"a"`
	AGloss   string `json:"a_gloss"`
	B        string `json:"b"`
	BGloss   string `json:"b_gloss"`
	Distance int    `json:"distance"`
}

// Similar returns every pair of distinct spellings whose edit distance,
// counted in runes, is below minDistance.
func Similar(entries []dictionary.Entry, minDistance int) []SimilarPair {
	if minDistance <= 0 {
		minDistance = DefaultSimilarDistance
	}
	var out []SimilarPair
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if a.Nyrakai == b.Nyrakai {
				continue
			}
			if d := levenshtein.Distance(a.Nyrakai, b.Nyrakai, nil); d < minDistance {
				out = append(out, SimilarPair{
					A: a.Nyrakai, AGloss: a.English,
					B: b.Nyrakai, BGloss: b.English,
					Distance: d,
				})
			}
		}
	}
	return out
}

// DomainMismatch is an entry whose declared domain its onset does not mark.
type DomainMismatch struct {
	Word     string `json:"word"`
	English  string `json:"english"`
	Onset    string `json:"onset"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Mapped   bool   `json:"mapped"`
}

func (m DomainMismatch) String() string {
	if !m.Mapped {
		return fmt.Sprintf("%s (%s): onset %s- has no domain, expected %s", m.Word, m.English, m.Onset, m.Expected)
	}
	return fmt.Sprintf("%s (%s): onset %s- is %s, expected %s", m.Word, m.English, m.Onset, m.Actual, m.Expected)
}

// CheckDomains compares each entry's declared domain with its onset.
// Entries without a declared domain are not checked.
func CheckDomains(e *nyrakai.Engine, entries []dictionary.Entry) []DomainMismatch {
	var out []DomainMismatch
	for _, entry := range entries {
		if entry.Domain == "" {
			continue
		}
		c := e.CheckDomain(entry.Nyrakai, entry.Domain)
		if c.Match {
			continue
		}
		out = append(out, DomainMismatch{
			Word:     entry.Nyrakai,
			English:  entry.English,
			Onset:    c.Onset,
			Expected: entry.Domain,
			Actual:   c.Domain.String(),
			Mapped:   c.Mapped,
		})
	}
	return out
}

// InvalidWord is a dictionary word that fails validation.
type InvalidWord struct {
	Word      string            `json:"nyrakai"`
	English   string            `json:"english"`
	Violation nyrakai.Violation `json:"violation"`
	Detail    string            `json:"detail"`
}

// Report is the full audit outcome.
type Report struct {
	Total            int              `json:"total"`
	Valid            int              `json:"valid"`
	Invalid          int              `json:"invalid"`
	InvalidWords     []InvalidWord    `json:"invalid_words"`
	Duplicates       []Duplicate      `json:"duplicates"`
	Similar          []SimilarPair    `json:"similar"`
	DomainMismatches []DomainMismatch `json:"domain_mismatches"`
}

// Clean reports whether the audit found nothing to fix. Similar pairs are
// advisory and do not count.
func (r *Report) Clean() bool {
	return r.Invalid == 0 && len(r.Duplicates) == 0 && len(r.DomainMismatches) == 0
}

// Options tune Run.
type Options struct {
	// Workers bounds the validation fan-out (0 = one per CPU).
	Workers int
	// SimilarDistance is passed to Similar.
	SimilarDistance int
	// Normalize folds ASCII romanizations before validating.
	Normalize bool
	// Logger receives progress at debug level. Nil disables logging.
	Logger *slog.Logger
}

// Run performs every check and aggregates the findings.
func Run(ctx context.Context, e *nyrakai.Engine, entries []dictionary.Entry, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("Validating dictionary", slog.Int("words", len(entries)), slog.Int("workers", opts.Workers))
	results, err := ValidateAll(ctx, e, entries, opts.Workers, opts.Normalize)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	r := &Report{Total: len(entries)}
	for _, res := range results {
		if res.Verdict.Legal {
			r.Valid++
			continue
		}
		r.Invalid++
		r.InvalidWords = append(r.InvalidWords, InvalidWord{
			Word:      res.Entry.Nyrakai,
			English:   res.Entry.English,
			Violation: res.Verdict.Violation,
			Detail:    res.Verdict.Detail,
		})
	}
	logger.Debug("Validation done", slog.Int("valid", r.Valid), slog.Int("invalid", r.Invalid))

	r.Duplicates = Duplicates(entries)
	logger.Debug("Duplicate scan done", slog.Int("groups", len(r.Duplicates)))

	r.Similar = Similar(entries, opts.SimilarDistance)
	logger.Debug("Similarity scan done", slog.Int("pairs", len(r.Similar)))

	r.DomainMismatches = CheckDomains(e, entries)
	logger.Debug("Domain check done", slog.Int("mismatches", len(r.DomainMismatches)))

	return r, nil
}
