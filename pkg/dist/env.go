package dist

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
)

// Env describes where to look for installed distributions.
type Env struct {
	Roots []string // site-packages directories, earlier roots scanned first
	Logf  func(format string, args ...any)
}

// Snapshot scans the environment and returns the package index together
// with the metadata source that resolves index entries back to their
// on-disk files. Each call sees the filesystem as it is at that moment;
// the returned values do not change afterwards.
func (e Env) Snapshot() (*inspect.Index, *Source, error) {
	dists, err := Scan(e.Roots, e.Logf)
	if err != nil {
		return nil, nil, err
	}
	pkgs := make([]*inspect.Package, len(dists))
	for i, d := range dists {
		pkgs[i] = d.Package()
	}
	return inspect.BuildIndex(pkgs), NewSource(dists), nil
}

// DefaultRoots locates the site-packages directories of the active
// Python environment: $VIRTUAL_ENV when set, otherwise a .venv directory
// under the current working directory. The error carries
// ErrCodeNoEnvironment when neither exists.
func DefaultRoots() ([]string, error) {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		return VenvSitePackages(venv)
	}
	if wd, err := os.Getwd(); err == nil {
		venv := filepath.Join(wd, ".venv")
		if IsVenv(venv) {
			return VenvSitePackages(venv)
		}
	}
	return nil, errors.New(errors.ErrCodeNoEnvironment,
		"no Python environment found: activate a virtualenv or pass --path")
}

// ExpandRoot resolves one user-supplied path: a virtual environment root
// expands to its site-packages directories, anything else is taken as a
// site-packages directory itself.
func ExpandRoot(path string) ([]string, error) {
	if IsVenv(path) {
		return VenvSitePackages(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "path %s", path)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "path %s is not a directory", path)
	}
	return []string{path}, nil
}

// IsVenv reports whether dir is a virtual environment root, i.e. it
// carries a parseable pyvenv.cfg.
func IsVenv(dir string) bool {
	_, err := ReadVenvConfig(dir)
	return err == nil
}

// VenvConfig is the contents of a pyvenv.cfg file.
type VenvConfig struct {
	Home    string // base interpreter directory
	Version string
}

// ReadVenvConfig parses dir/pyvenv.cfg. The file is INI with no section
// headers; uv writes the Python version under "version_info" where venv
// uses "version".
func ReadVenvConfig(dir string) (*VenvConfig, error) {
	cfg, err := ini.Load(filepath.Join(dir, "pyvenv.cfg"))
	if err != nil {
		return nil, err
	}
	section := cfg.Section(ini.DefaultSection)
	vc := &VenvConfig{
		Home:    section.Key("home").String(),
		Version: section.Key("version").String(),
	}
	if vc.Version == "" {
		vc.Version = section.Key("version_info").String()
	}
	return vc, nil
}

// VenvSitePackages returns the site-packages directories inside a
// virtual environment, covering both the POSIX lib/pythonX.Y and the
// Windows Lib layouts.
func VenvSitePackages(venv string) ([]string, error) {
	var roots []string
	matches, err := filepath.Glob(filepath.Join(venv, "lib", "python*", "site-packages"))
	if err == nil {
		roots = append(roots, matches...)
	}
	if len(roots) == 0 {
		windows := filepath.Join(venv, "Lib", "site-packages")
		if info, err := os.Stat(windows); err == nil && info.IsDir() {
			roots = append(roots, windows)
		}
	}
	if len(roots) == 0 {
		return nil, errors.New(errors.ErrCodeNoEnvironment, "no site-packages directory under %s", venv)
	}
	return roots, nil
}
