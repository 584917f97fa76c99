// Package cli implements the pipshow command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mindw/pipshow/pkg/buildinfo"
	"github.com/mindw/pipshow/pkg/cache"
	"github.com/mindw/pipshow/pkg/dist"
	"github.com/mindw/pipshow/pkg/inspect"
)

// appName is the application name used for directories and display.
const appName = "pipshow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	paths   []string // --path roots; empty means discover the active environment
	verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. The root command itself is the report command, so plain
// "pipshow <package>..." works without a subcommand.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.showCommand()
	root.Version = buildinfo.Version
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringArrayVar(&c.paths, "path", nil,
		"site-packages directory or virtualenv root to inspect (repeatable; default: active environment)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false,
		"debug logging and classifier output")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if c.verbose {
			c.SetLogLevel(LogDebug)
		}
	}

	root.AddCommand(c.listCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Environment
// =============================================================================

// snapshot scans the selected environment and returns its package index
// together with the on-disk metadata source.
func (c *CLI) snapshot() (*inspect.Index, *dist.Source, error) {
	roots, err := c.roots()
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debugf("site-packages roots: %v", roots)
	return dist.Env{Roots: roots, Logf: c.Logger.Debugf}.Snapshot()
}

// roots resolves the --path flags; without any it discovers the active
// environment.
func (c *CLI) roots() ([]string, error) {
	if len(c.paths) == 0 {
		return dist.DefaultRoots()
	}
	var roots []string
	for _, p := range c.paths {
		expanded, err := dist.ExpandRoot(p)
		if err != nil {
			return nil, err
		}
		roots = append(roots, expanded...)
	}
	return roots, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pipshow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Output
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
