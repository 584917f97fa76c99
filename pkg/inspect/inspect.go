package inspect

import (
	"github.com/mindw/pipshow/pkg/pep503"
)

// Requirement is one declared dependency of an installed package.
type Requirement struct {
	Name       string // dependency name as written in the metadata
	Extras     string // bracketed extras of the dependency (e.g. "[socks]"), usually empty
	Constraint string // version specifier (e.g. ">=2,<4"), empty when unconstrained
}

// Display returns the requirement the way pip prints it: name, bracket
// extras, and constraint concatenated without spaces.
func (r Requirement) Display() string {
	return r.Name + r.Extras + r.Constraint
}

// Norm returns the normalized name of the dependency.
func (r Requirement) Norm() string {
	return pep503.Normalize(r.Name)
}

// Extra is a named group of optional dependencies as declared.
type Extra struct {
	Name     string
	Requires []Requirement
}

// Package is one installed distribution as seen by the engine.
// Requires holds the unconditional dependencies in declaration order;
// optional groups live in Extras. Instances are immutable once built.
type Package struct {
	Name     string // display name from the metadata
	Version  string
	Location string // site-packages directory the package is installed in
	Requires []Requirement
	Extras   []Extra
}

// Norm returns the package's normalized name.
func (p *Package) Norm() string {
	return pep503.Normalize(p.Name)
}

// Index is a lookup table over the installed set, keyed by normalized
// name. It is built once per invocation and never mutated afterwards.
type Index struct {
	byName map[string]*Package
	order  []string // normalized names in first-observation order
}

// BuildIndex builds an Index from a scan of the installed set.
//
// When two distributions normalize to the same name (stale metadata from
// an older install shadowed by a newer one, or the same project present
// in two roots) the one observed later wins.
func BuildIndex(pkgs []*Package) *Index {
	idx := &Index{byName: make(map[string]*Package, len(pkgs))}
	for _, p := range pkgs {
		key := p.Norm()
		if _, dup := idx.byName[key]; !dup {
			idx.order = append(idx.order, key)
		}
		idx.byName[key] = p
	}
	return idx
}

// Get returns the package for name, which may be spelled in any of its
// PEP 503 variants.
func (idx *Index) Get(name string) (*Package, bool) {
	p, ok := idx.byName[pep503.Normalize(name)]
	return p, ok
}

// Len returns the number of distinct packages in the index.
func (idx *Index) Len() int {
	return len(idx.byName)
}

// Packages returns the indexed packages in observation order. The order
// is deterministic within one snapshot; display code sorts as needed.
func (idx *Index) Packages() []*Package {
	out := make([]*Package, 0, len(idx.order))
	for _, key := range idx.order {
		out = append(out, idx.byName[key])
	}
	return out
}
