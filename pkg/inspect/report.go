package inspect

import (
	"context"
	"fmt"
	"iter"
)

// UnknownVersion is reported as the latest version when the remote lookup
// was attempted but failed.
const UnknownVersion = "unknown"

// Details is the metadata header of a package as read from disk.
// Absent fields are empty; Classifiers keeps metadata order.
type Details struct {
	Summary          string
	HomePage         string
	Author           string
	AuthorEmail      string
	License          string
	MetadataVersion  string
	Installer        string
	Classifiers      []string
	EntryPoints      []string            // entry_points.txt lines, verbatim
	EntryPointGroups map[string][]string // parsed entry point groups, "name = target" per entry
}

// MetadataSource supplies the on-disk metadata the engine does not model
// itself: header fields, entry points, and the installed file manifest.
type MetadataSource interface {
	// Describe returns the metadata header for p.
	Describe(p *Package) (Details, error)
	// Files returns the installed file manifest for p, relative to its
	// location, or an error when no manifest was recorded.
	Files(p *Package) ([]string, error)
}

// VersionSource answers what the latest released version of a package is,
// typically against a remote index.
type VersionSource interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// Report is everything pipshow knows about one installed package.
// Requires, RequiredBy, and Files keep their source order; display code
// sorts where the output format asks for it.
type Report struct {
	Name             string              `json:"name"`
	Version          string              `json:"version"`
	LatestVersion    string              `json:"latest_version,omitempty"` // empty when the lookup is disabled
	Summary          string              `json:"summary,omitempty"`
	HomePage         string              `json:"home_page,omitempty"`
	Author           string              `json:"author,omitempty"`
	AuthorEmail      string              `json:"author_email,omitempty"`
	License          string              `json:"license,omitempty"`
	Location         string              `json:"location"`
	MetadataVersion  string              `json:"metadata_version,omitempty"`
	Installer        string              `json:"installer,omitempty"`
	Classifiers      []string            `json:"classifiers,omitempty"`
	Requires         []string            `json:"requires"`    // "req [installed-version]" entries
	Extras           []ExtraReport       `json:"extras,omitempty"`
	RequiredBy       []string            `json:"required_by"` // formatted by Dependents
	EntryPoints      []string            `json:"entry_points,omitempty"`
	EntryPointGroups map[string][]string `json:"entry_point_groups,omitempty"`
	Files            []string            `json:"files,omitempty"`
	FilesKnown       bool                `json:"-"` // manifest located (set only when files were requested)
}

// SearchOptions configures report assembly.
type SearchOptions struct {
	// Metadata supplies header fields and file manifests. When nil the
	// corresponding report fields stay empty.
	Metadata MetadataSource

	// Latest, when non-nil, enables the remote latest-version lookup.
	Latest VersionSource

	// Files includes the installed file manifest in each report.
	Files bool

	// Logf receives diagnostics for degraded lookups. Defaults to a no-op.
	Logf func(format string, args ...any)
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Logf == nil {
		o.Logf = func(string, ...any) {}
	}
	return o
}

// Search resolves query names against the index and assembles one report
// per resolved package.
//
// The returned sequence yields reports lazily, in query order; duplicate
// query names yield duplicate reports. Names that resolve to nothing are
// returned in missing, also in query order, and never interrupt the rest
// of the batch. Iteration stops early when ctx is cancelled.
//
// Degraded lookups never fail a report: a failed remote version lookup
// sets LatestVersion to [UnknownVersion] and a failed metadata read
// leaves the header fields zero-valued, each reported through opts.Logf.
func Search(ctx context.Context, query []string, idx *Index, opts SearchOptions) (iter.Seq[Report], []string) {
	opts = opts.withDefaults()

	var found []*Package
	var missing []string
	for _, name := range query {
		if p, ok := idx.Get(name); ok {
			found = append(found, p)
		} else {
			missing = append(missing, name)
		}
	}

	seq := func(yield func(Report) bool) {
		for _, p := range found {
			if ctx.Err() != nil {
				return
			}
			if !yield(buildReport(ctx, p, idx, opts)) {
				return
			}
		}
	}
	return seq, missing
}

func buildReport(ctx context.Context, p *Package, idx *Index, opts SearchOptions) Report {
	r := Report{
		Name:       p.Name,
		Version:    p.Version,
		Location:   p.Location,
		Requires:   formatRequires(p.Requires, idx),
		Extras:     Extras(p, idx),
		RequiredBy: Dependents(idx, p),
	}

	if opts.Metadata != nil {
		details, err := opts.Metadata.Describe(p)
		if err != nil {
			opts.Logf("metadata unavailable for %s: %v", p.Name, err)
		}
		r.Summary = details.Summary
		r.HomePage = details.HomePage
		r.Author = details.Author
		r.AuthorEmail = details.AuthorEmail
		r.License = details.License
		r.MetadataVersion = details.MetadataVersion
		r.Installer = details.Installer
		r.Classifiers = details.Classifiers
		r.EntryPoints = details.EntryPoints
		r.EntryPointGroups = details.EntryPointGroups

		if opts.Files {
			files, err := opts.Metadata.Files(p)
			if err != nil {
				opts.Logf("file manifest unavailable for %s: %v", p.Name, err)
			} else {
				r.Files = files
				r.FilesKnown = true
			}
		}
	}

	if opts.Latest != nil {
		version, err := opts.Latest.LatestVersion(ctx, p.Name)
		if err != nil {
			opts.Logf("latest version lookup failed for %s: %v", p.Name, err)
			version = UnknownVersion
		}
		r.LatestVersion = version
	}

	return r
}

// formatRequires renders each dependency the way pip prints it, with the
// installed version (or "-" when absent) in brackets.
func formatRequires(reqs []Requirement, idx *Index) []string {
	out := make([]string, 0, len(reqs))
	for _, req := range reqs {
		installed := "-"
		if p, ok := idx.byName[req.Norm()]; ok {
			installed = p.Version
		}
		out = append(out, fmt.Sprintf("%s [%s]", req.Display(), installed))
	}
	return out
}
