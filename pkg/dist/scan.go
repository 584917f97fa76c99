package dist

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mindw/pipshow/pkg/errors"
)

// Scan enumerates the distributions installed under roots, in root
// order. Entries within a root are visited in sorted name order, so two
// scans of the same environment produce the same sequence and the same
// package wins when a name is installed twice. Metadata directories
// that fail to parse are skipped and reported through logf.
func Scan(roots []string, logf func(format string, args ...any)) ([]*Distribution, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	var dists []*Distribution
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read site-packages %s", root)
		}
		for _, entry := range entries {
			name := entry.Name()
			var (
				d       *Distribution
				readErr error
			)
			switch {
			case strings.HasSuffix(name, ".dist-info"):
				if !entry.IsDir() {
					continue
				}
				d, readErr = readDistInfo(root, filepath.Join(root, name))
			case strings.HasSuffix(name, ".egg-info"):
				if !entry.IsDir() {
					// distutils installs write egg-info as a single
					// file with no requires or manifest behind it
					logf("skipping %s: file-style egg-info", name)
					continue
				}
				d, readErr = readEggInfo(root, filepath.Join(root, name))
			default:
				continue
			}
			if readErr != nil {
				logf("skipping %s: %v", name, readErr)
				continue
			}
			dists = append(dists, d)
		}
	}
	return dists, nil
}

// readDistInfo parses a *.dist-info directory. METADATA is required;
// the directory name fills in anything METADATA does not carry.
func readDistInfo(root, infoDir string) (*Distribution, error) {
	data, err := os.ReadFile(filepath.Join(infoDir, "METADATA"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "read METADATA")
	}
	meta := ParseMetadata(data)
	d := &Distribution{
		Name:     meta.Name,
		Version:  meta.Version,
		Location: root,
		InfoDir:  infoDir,
		Kind:     KindDistInfo,
		meta:     meta,
	}
	fillFromDirName(d)
	d.requires, d.extras = parseRequiresDist(meta.RequiresDist, meta.ProvidesExtra)
	return d, nil
}

// readEggInfo parses a *.egg-info directory. Both PKG-INFO and
// requires.txt are optional; the directory name is the fallback for the
// package identity.
func readEggInfo(root, infoDir string) (*Distribution, error) {
	d := &Distribution{
		Location: root,
		InfoDir:  infoDir,
		Kind:     KindEggInfo,
	}
	if data, err := os.ReadFile(filepath.Join(infoDir, "PKG-INFO")); err == nil {
		d.meta = ParseMetadata(data)
		d.Name = d.meta.Name
		d.Version = d.meta.Version
	}
	fillFromDirName(d)
	if d.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "no package name in PKG-INFO or directory name")
	}
	if lines, err := d.Lines("requires.txt"); err == nil {
		d.requires, d.extras = parseRequiresTxt(lines)
	}
	return d, nil
}

// fillFromDirName derives missing Name and Version fields from the
// metadata directory's base name.
func fillFromDirName(d *Distribution) {
	if d.Name != "" && d.Version != "" {
		return
	}
	name, version := splitDirName(filepath.Base(d.InfoDir))
	if d.Name == "" {
		d.Name = name
	}
	if d.Version == "" {
		d.Version = version
	}
}

// splitDirName splits a metadata directory name such as
// "typing_extensions-4.8.0.dist-info" or "requests-2.31.0-py3.11.egg-info"
// into its name and version parts. The version is the first
// hyphen-separated segment that looks like one; egg-info directories may
// carry no version at all.
func splitDirName(base string) (name, version string) {
	base = strings.TrimSuffix(base, ".dist-info")
	base = strings.TrimSuffix(base, ".egg-info")
	segments := strings.Split(base, "-")
	for i := 1; i < len(segments); i++ {
		if looksLikeVersion(segments[i]) {
			return strings.Join(segments[:i], "-"), segments[i]
		}
	}
	return base, ""
}

// looksLikeVersion reports whether a directory name segment is a
// version: it starts with a digit and is either dotted or all digits.
func looksLikeVersion(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	if strings.Contains(s, ".") {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
