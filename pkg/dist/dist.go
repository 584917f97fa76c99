package dist

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
)

// Kind identifies the on-disk metadata layout of an installed
// distribution.
type Kind int

const (
	// KindDistInfo is the modern layout: a *.dist-info directory with
	// METADATA and RECORD.
	KindDistInfo Kind = iota
	// KindEggInfo is the legacy setuptools layout: a *.egg-info
	// directory with PKG-INFO, requires.txt, and installed-files.txt.
	KindEggInfo
)

func (k Kind) String() string {
	switch k {
	case KindDistInfo:
		return "dist-info"
	case KindEggInfo:
		return "egg-info"
	default:
		return "unknown"
	}
}

// Distribution is one installed package as found on disk. Name, Version,
// Requires, and Extras are parsed during [Scan]; the remaining metadata
// files are read on demand through the accessor methods.
type Distribution struct {
	Name     string // display name, from metadata or the directory name
	Version  string
	Location string // site-packages directory containing InfoDir
	InfoDir  string // absolute path of the metadata directory
	Kind     Kind

	meta     *Metadata // nil when the metadata file is absent or unreadable
	requires []inspect.Requirement
	extras   []inspect.Extra
}

// Package converts the distribution to its engine representation.
func (d *Distribution) Package() *inspect.Package {
	return &inspect.Package{
		Name:     d.Name,
		Version:  d.Version,
		Location: d.Location,
		Requires: d.requires,
		Extras:   d.extras,
	}
}

// Metadata returns the parsed METADATA or PKG-INFO header block, or nil
// when the distribution has none.
func (d *Distribution) Metadata() *Metadata {
	return d.meta
}

// Has reports whether the metadata directory contains the named file.
func (d *Distribution) Has(name string) bool {
	info, err := os.Stat(filepath.Join(d.InfoDir, name))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the contents of the named metadata file.
func (d *Distribution) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.InfoDir, name))
}

// Lines reads the named metadata file as trimmed lines, skipping blanks
// and "#" comments. This matches how Python tooling reads its metadata
// files, so downstream consumers see the same entries pip would.
func (d *Distribution) Lines(name string) ([]string, error) {
	data, err := d.Read(name)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// Installer returns the tool name recorded in the INSTALLER file, or ""
// when the file is absent or empty.
func (d *Distribution) Installer() string {
	lines, err := d.Lines("INSTALLER")
	if err != nil || len(lines) == 0 {
		return ""
	}
	return lines[0]
}

// EntryPoints returns the entry_points.txt contents, both as the raw
// non-blank lines and parsed into groups of "name = target" entries.
// Both results are nil when the file is absent.
func (d *Distribution) EntryPoints() (lines []string, groups map[string][]string) {
	data, err := d.Read("entry_points.txt")
	if err != nil {
		return nil, nil
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, parseEntryPoints(data)
}

// InstalledFiles returns the distribution's file manifest as paths
// relative to Location, sorted. dist-info distributions record files in
// RECORD (relative to Location); egg-info ones record them in
// installed-files.txt (relative to the metadata directory). The error
// carries ErrCodeFileNotFound when neither manifest exists.
func (d *Distribution) InstalledFiles() ([]string, error) {
	switch d.Kind {
	case KindDistInfo:
		if d.Has("RECORD") {
			data, err := d.Read("RECORD")
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read RECORD for %s", d.Name)
			}
			paths, err := parseRecord(data)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse RECORD for %s", d.Name)
			}
			return rebaseFiles(paths, d.Location, d.Location), nil
		}
	case KindEggInfo:
		if d.Has("installed-files.txt") {
			paths, err := d.Lines("installed-files.txt")
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read installed-files.txt for %s", d.Name)
			}
			return rebaseFiles(paths, d.InfoDir, d.Location), nil
		}
	}
	return nil, errors.New(errors.ErrCodeFileNotFound, "no RECORD or installed-files.txt for %s", d.Name)
}

// rebaseFiles joins each recorded path onto baseDir and re-expresses it
// relative to location. Paths that cannot be made relative are kept as
// recorded.
func rebaseFiles(paths []string, baseDir, location string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs := filepath.Join(baseDir, p)
		if rel, err := filepath.Rel(location, abs); err == nil {
			p = rel
		}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
