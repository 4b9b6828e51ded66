// Package nyrakai provides the phonotactic validator and morphological
// composer for the Nyrakai conlang. All rules are driven by small data
// tables (phoneme inventory, onset clusters, affixes, onset domains) that
// are parsed once and never mutated afterwards.
package nyrakai

import (
	"embed"
	"io/fs"
	"os"
	"sync"
)

//go:embed data/*.ny
var embedded embed.FS

// Engine holds all loaded rule tables and provides the public API.
// An Engine is read-only after construction and safe for concurrent use.
type Engine struct {
	inv *Inventory

	// morphemes maps Morpheme.Key() → *Morpheme.
	morphemes map[string]*Morpheme

	// morphemeOrder keeps the affixes in file order for listing.
	morphemeOrder []*Morpheme

	// segments stores the interfix:name=value lines of morphemes.ny.
	segments InterfixSegments

	// rules is the ordered boundary decision table.
	rules []InterfixRule

	// domains maps onset → Domain.
	domains map[string]Domain
}

// New loads the rule tables from dataDir (a directory holding
// phonemes.ny, clusters.ny, morphemes.ny and domains.ny) and returns a
// ready-to-use Engine.
func New(dataDir string) (*Engine, error) {
	return NewFromFS(os.DirFS(dataDir))
}

// NewFromFS is like New but reads the tables from fsys.
func NewFromFS(fsys fs.FS) (*Engine, error) {
	e := &Engine{
		inv:       newInventory(),
		morphemes: make(map[string]*Morpheme),
		domains:   make(map[string]Domain),
	}

	if err := e.loadPhonemes(fsys); err != nil {
		return nil, err
	}
	if err := e.loadClusters(fsys); err != nil {
		return nil, err
	}
	if err := e.loadMorphemes(fsys); err != nil {
		return nil, err
	}
	if err := e.loadDomains(fsys); err != nil {
		return nil, err
	}
	e.rules = newInterfixRules(e.segments)
	return e, nil
}

var defaultEngine = sync.OnceValues(func() (*Engine, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return NewFromFS(sub)
})

// Default returns the Engine built from the embedded Nyrakai tables.
// The tables are parsed on first use only.
func Default() (*Engine, error) {
	return defaultEngine()
}

// MustDefault is like Default but panics if the embedded tables are broken.
func MustDefault() *Engine {
	e, err := Default()
	if err != nil {
		panic(err)
	}
	return e
}

// Inventory returns the phoneme inventory and onset cluster table.
func (e *Engine) Inventory() *Inventory {
	return e.inv
}

// Segments returns the glide, bridge and easing segments in use.
func (e *Engine) Segments() InterfixSegments {
	return e.segments
}

// Morpheme looks up an affix by slot and name.
func (e *Engine) Morpheme(slot Slot, name string) (Morpheme, bool) {
	m, ok := e.morphemes[string(slot)+":"+name]
	if !ok {
		return Morpheme{}, false
	}
	return *m, true
}

// Lookup resolves a "slot:name" key such as "case:accusative".
func (e *Engine) Lookup(key string) (Morpheme, error) {
	m, ok := e.morphemes[key]
	if !ok {
		return Morpheme{}, &UnknownMorphemeError{Key: key}
	}
	return *m, nil
}

// Morphemes returns all affixes in table order.
func (e *Engine) Morphemes() []Morpheme {
	out := make([]Morpheme, 0, len(e.morphemeOrder))
	for _, m := range e.morphemeOrder {
		out = append(out, *m)
	}
	return out
}

// addMorpheme registers m, replacing any earlier entry with the same key.
func (e *Engine) addMorpheme(m *Morpheme) {
	key := m.Key()
	if old, ok := e.morphemes[key]; ok {
		for i, o := range e.morphemeOrder {
			if o == old {
				e.morphemeOrder[i] = m
			}
		}
	} else {
		e.morphemeOrder = append(e.morphemeOrder, m)
	}
	e.morphemes[key] = m
}
