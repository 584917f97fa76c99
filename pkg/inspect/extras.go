package inspect

// ExtraDep is one optional dependency inside an extra group, resolved
// against the installed set.
type ExtraDep struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
	Version    string `json:"installed_version,omitempty"` // empty when not installed
	Installed  bool   `json:"installed"`
}

// ExtraReport is one extra group of a package with its dependencies
// resolved against the installed set.
type ExtraReport struct {
	Name     string     `json:"name"`
	Requires []ExtraDep `json:"requires"`
}

// Extras resolves pkg's optional dependency groups against the installed
// set. Dependencies the package already requires unconditionally are
// dropped from every group, so a group lists only what the extra adds.
// Each remaining dependency is marked with whether, and at which version,
// it is installed. Group order and in-group order follow the declaration;
// declared-but-empty extras are kept.
func Extras(pkg *Package, idx *Index) []ExtraReport {
	base := make(map[string]bool, len(pkg.Requires))
	for _, req := range pkg.Requires {
		base[req.Norm()] = true
	}

	out := make([]ExtraReport, 0, len(pkg.Extras))
	for _, extra := range pkg.Extras {
		report := ExtraReport{Name: extra.Name}
		for _, req := range extra.Requires {
			norm := req.Norm()
			if base[norm] {
				continue
			}
			dep := ExtraDep{Name: req.Name, Constraint: req.Constraint}
			if installed, ok := idx.byName[norm]; ok {
				dep.Installed = true
				dep.Version = installed.Version
			}
			report.Requires = append(report.Requires, dep)
		}
		out = append(out, report)
	}
	return out
}
