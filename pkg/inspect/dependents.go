package inspect

import (
	"fmt"
	"strings"
)

// Dependents reports which installed packages depend on target, formatted
// the way pip prints them: "name constraint" for an unconditional
// dependency, "name[extra] constraint" for one declared under an extra.
// The constraint is the dependent's own specifier for the target and is
// omitted when unconstrained.
//
// A package that needs target both unconditionally and through extras is
// reported once, in its unconditional form. The target itself is never
// reported, even when its metadata declares a self-dependency. Entries
// follow index order; callers sort for display.
func Dependents(idx *Index, target *Package) []string {
	targetNorm := target.Norm()
	var out []string
	for _, p := range idx.Packages() {
		if p.Norm() == targetNorm {
			continue
		}
		if entry, ok := dependsOn(p, targetNorm); ok {
			out = append(out, entry)
		}
	}
	return out
}

// dependsOn returns the formatted dependency entry of p on the target.
// Unconditional requirements are checked first so that an extra never
// shadows one; within extras the first match wins.
func dependsOn(p *Package, targetNorm string) (string, bool) {
	for _, req := range p.Requires {
		if req.Norm() == targetNorm {
			return strings.TrimSpace(p.Name + " " + req.Constraint), true
		}
	}
	for _, extra := range p.Extras {
		for _, req := range extra.Requires {
			if req.Norm() == targetNorm {
				entry := fmt.Sprintf("%s[%s] %s", p.Name, extra.Name, req.Constraint)
				return strings.TrimSpace(entry), true
			}
		}
	}
	return "", false
}
