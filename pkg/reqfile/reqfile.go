// Package reqfile extracts package names from dependency manifests so
// they can be fed to the inspector as queries. It understands
// requirements.txt-style lists and poetry.lock files.
package reqfile

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/pep503"
)

var depNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// Names reads the package names listed in path. A file named
// poetry.lock is parsed as a TOML lock file; anything else is treated
// as a requirements.txt-style list. Names keep the spelling the file
// uses, deduplicated by normalized form, in file order.
func Names(path string) ([]string, error) {
	if filepath.Base(path) == "poetry.lock" {
		return lockNames(path)
	}
	return requirementNames(path)
}

// requirementNames parses one requirements.txt-style file. Comments,
// pip options (-r, --hash, ...), URLs, and editable installs carry no
// plain package name and are skipped.
func requirementNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open requirements file")
	}
	defer f.Close()

	seen := make(map[string]bool)
	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}
		if m := depNameRE.FindStringSubmatch(line); len(m) > 1 {
			name := m[1]
			if norm := pep503.Normalize(name); !seen[norm] {
				seen[norm] = true
				names = append(names, name)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return names, nil
}

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

func lockNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open lock file")
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	seen := make(map[string]bool)
	var names []string
	for _, pkg := range lock.Packages {
		if pkg.Name == "" {
			continue
		}
		if norm := pep503.Normalize(pkg.Name); !seen[norm] {
			seen[norm] = true
			names = append(names, pkg.Name)
		}
	}
	return names, nil
}
