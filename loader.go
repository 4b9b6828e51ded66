package nyrakai

import (
	"bufio"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LoadError reports a malformed line in one of the rule tables.
type LoadError struct {
	File string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// readTable calls fn for every non-blank, non-comment line of name.
// Comment lines start with "!".
func readTable(fsys fs.FS, name string, fn func(line string) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if err := fn(norm.NFC.String(line)); err != nil {
			return &LoadError{File: name, Line: n, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadPhonemes reads phonemes.ny.
// Format: "class:sym,sym,...".
func (e *Engine) loadPhonemes(fsys fs.FS) error {
	err := readTable(fsys, "phonemes.ny", func(line string) error {
		idx := strings.Index(line, ":")
		if idx < 0 {
			return fmt.Errorf("missing ':' in %q", line)
		}
		class := PhonemeClass(line[:idx])
		if !class.Valid() {
			return fmt.Errorf("unknown phoneme class %q", class)
		}
		for _, sym := range splitList(line[idx+1:]) {
			e.inv.add(sym, class)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if e.inv.glottal == "" {
		return fmt.Errorf("phonemes.ny: no glottal marker defined")
	}
	e.inv.finish()
	return nil
}

// loadClusters reads clusters.ny.
// Format: "c1:c2,c2,...". Both sides must be consonants and the right-hand
// side may never hold an ejective, an affricate or ñ.
func (e *Engine) loadClusters(fsys fs.FS) error {
	return readTable(fsys, "clusters.ny", func(line string) error {
		idx := strings.Index(line, ":")
		if idx < 0 {
			return fmt.Errorf("missing ':' in %q", line)
		}
		c1 := line[:idx]
		if !e.inv.IsValidConsonant(c1) {
			return fmt.Errorf("cluster head %q is not a consonant", c1)
		}
		set := e.inv.clusters[c1]
		if set == nil {
			set = make(map[string]bool)
			e.inv.clusters[c1] = set
		}
		for _, c2 := range splitList(line[idx+1:]) {
			switch cls := e.inv.Class(c2); {
			case !cls.Consonantal():
				return fmt.Errorf("cluster %s%s: %q is not a consonant", c1, c2, c2)
			case cls == ClassEjective, cls == ClassAffricate, c2 == "ñ":
				return fmt.Errorf("cluster %s%s: %s %q cannot be second in an onset", c1, c2, cls, c2)
			}
			set[c2] = true
		}
		return nil
	})
}

// loadMorphemes reads morphemes.ny.
// Format: "slot:name:attach:form[:key=value;...]" or "interfix:name:segment".
func (e *Engine) loadMorphemes(fsys fs.FS) error {
	err := readTable(fsys, "morphemes.ny", func(line string) error {
		eclats := strings.Split(line, ":")
		if eclats[0] == "interfix" {
			if len(eclats) != 3 {
				return fmt.Errorf("interfix line needs 3 fields: %q", line)
			}
			return e.segments.set(eclats[1], eclats[2])
		}
		if len(eclats) < 4 {
			return fmt.Errorf("morpheme line needs at least 4 fields: %q", line)
		}
		m, err := e.parseMorpheme(eclats)
		if err != nil {
			return err
		}
		e.addMorpheme(m)
		return nil
	})
	if err != nil {
		return err
	}
	if e.segments.Glide == "" || e.segments.Bridge == "" || e.segments.Easing == "" {
		return fmt.Errorf("morphemes.ny: glide, bridge and easing segments are all required")
	}
	return nil
}

func (e *Engine) parseMorpheme(eclats []string) (*Morpheme, error) {
	m := &Morpheme{
		Slot:   Slot(eclats[0]),
		Name:   eclats[1],
		Attach: Attachment(eclats[2]),
		Form:   eclats[3],
	}
	if !m.Slot.Valid() {
		return nil, fmt.Errorf("unknown slot %q", m.Slot)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("empty morpheme name in slot %s", m.Slot)
	}
	if m.Attach != Prefix && m.Attach != Suffix {
		return nil, fmt.Errorf("%s: attach must be prefix or suffix, got %q", m.Key(), m.Attach)
	}
	if len(eclats) > 4 {
		for _, kv := range strings.Split(eclats[4], ";") {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("%s: bad option %q", m.Key(), kv)
			}
			switch k {
			case "gender":
				m.Gender = GenderMark(v)
				if m.Gender != MarkMasculine && m.Gender != MarkFeminine {
					return nil, fmt.Errorf("%s: unknown gender %q", m.Key(), v)
				}
			case "pos":
				for _, p := range strings.Split(v, "|") {
					pos, ok := ParsePartOfSpeech(p)
					if !ok {
						return nil, fmt.Errorf("%s: unknown part of speech %q", m.Key(), p)
					}
					m.POS = append(m.POS, pos)
				}
			default:
				return nil, fmt.Errorf("%s: unknown option %q", m.Key(), k)
			}
		}
	}
	m.Boundary = e.boundaryTag(m)
	return m, nil
}

// boundaryTag classifies the edge of m that touches the stem.
func (e *Engine) boundaryTag(m *Morpheme) BoundaryTag {
	if m.Form == "" {
		return BoundaryZero
	}
	if m.Slot == SlotGender && m.Gender == MarkFeminine {
		return BoundaryVowelFinalSensitive
	}
	edge := e.inv.firstPhoneme(m.Form)
	if m.Attach == Prefix {
		edge = e.inv.lastPhoneme(m.Form)
	}
	if e.inv.Class(edge).Vocalic() {
		return BoundaryVowelInitial
	}
	return BoundaryConsonantInitial
}

// loadDomains reads domains.ny.
// Format: "onset:primary[,secondary]".
func (e *Engine) loadDomains(fsys fs.FS) error {
	return readTable(fsys, "domains.ny", func(line string) error {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			return fmt.Errorf("missing onset in %q", line)
		}
		names := splitList(line[idx+1:])
		if len(names) == 0 || len(names) > 2 {
			return fmt.Errorf("onset %s needs one or two domains", line[:idx])
		}
		d := Domain{Onset: line[:idx], Primary: names[0]}
		if len(names) == 2 {
			d.Secondary = names[1]
		}
		e.domains[d.Onset] = d
		return nil
	})
}
