package dist

import (
	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
	"github.com/mindw/pipshow/pkg/pep503"
)

// Source resolves engine packages back to their on-disk metadata. It
// implements [inspect.MetadataSource] over a completed scan.
type Source struct {
	byName map[string]*Distribution
}

// NewSource indexes scanned distributions by normalized name. When a
// name was scanned twice the later distribution wins, matching the
// index the same scan produces.
func NewSource(dists []*Distribution) *Source {
	s := &Source{byName: make(map[string]*Distribution, len(dists))}
	for _, d := range dists {
		s.byName[pep503.Normalize(d.Name)] = d
	}
	return s
}

// Dist returns the scanned distribution behind the named package.
func (s *Source) Dist(name string) (*Distribution, bool) {
	d, ok := s.byName[pep503.Normalize(name)]
	return d, ok
}

// Describe implements [inspect.MetadataSource].
func (s *Source) Describe(p *inspect.Package) (inspect.Details, error) {
	d, ok := s.byName[p.Norm()]
	if !ok {
		return inspect.Details{}, errors.New(errors.ErrCodePackageNotFound, "no scanned metadata for %s", p.Name)
	}
	details := inspect.Details{Installer: d.Installer()}
	details.EntryPoints, details.EntryPointGroups = d.EntryPoints()
	if m := d.meta; m != nil {
		details.Summary = m.Summary
		details.HomePage = m.HomePage
		details.Author = m.Author
		details.AuthorEmail = m.AuthorEmail
		details.License = m.License
		details.MetadataVersion = m.MetadataVersion
		details.Classifiers = m.Classifiers
	}
	return details, nil
}

// Files implements [inspect.MetadataSource].
func (s *Source) Files(p *inspect.Package) ([]string, error) {
	d, ok := s.byName[p.Norm()]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "no scanned metadata for %s", p.Name)
	}
	return d.InstalledFiles()
}
