package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
	"github.com/mindw/pipshow/pkg/pypi"
	"github.com/mindw/pipshow/pkg/reqfile"
)

// showOpts holds the command-line flags for the report command.
type showOpts struct {
	files    bool     // include the installed file manifest
	pypi     bool     // query the index for the latest released version
	index    string   // index JSON API base URL
	reqFiles []string // requirements/poetry.lock files to take names from
	jsonOut  bool     // emit a JSON document instead of text
	output   string   // output file path (stdout if empty)
	refresh  bool     // bypass cached index responses
	noCache  bool     // disable the index response cache
}

// showCommand creates the report command. It doubles as the root command,
// so its flags are the ones plain "pipshow <package>..." accepts.
func (c *CLI) showCommand() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "pipshow [flags] <package>...",
		Short: "Show information about installed Python packages",
		Long: `Pipshow reports on the packages installed in a Python environment:
version, metadata, declared dependencies with their installed versions,
optional dependency groups, and the packages that depend on each one.

The environment is discovered from $VIRTUAL_ENV or a .venv directory under
the working directory; pass --path to inspect another site-packages
directory or virtualenv root.

Examples:
  pipshow requests                      # one package
  pipshow -f -v flask jinja2            # file manifest and classifiers
  pipshow -p requests                   # include the index's latest version
  pipshow -r requirements.txt --json    # everything a project lists, as JSON`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.files, "files", "f", false, "show the full list of installed files for each package")
	cmd.Flags().BoolVarP(&opts.pypi, "pypi", "p", false, "show the latest version released on the package index")
	cmd.Flags().StringVarP(&opts.index, "index", "i", pypi.DefaultBaseURL, "base URL of the package index")
	cmd.Flags().StringArrayVarP(&opts.reqFiles, "requirement", "r", nil, "also query the packages named in the given requirements or poetry.lock file (repeatable)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the report as a JSON document")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached index responses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the index response cache")

	return cmd
}

// runShow assembles and renders the report for the queried packages.
// At least one package must resolve for the command to succeed; names
// that resolve to nothing are reported as a warning.
func (c *CLI) runShow(ctx context.Context, args []string, opts showOpts) error {
	names, err := gatherNames(args, opts.reqFiles)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no package names given (pass names or --requirement)")
	}

	idx, src, err := c.snapshot()
	if err != nil {
		return err
	}

	searchOpts := inspect.SearchOptions{
		Metadata: src,
		Files:    opts.files,
		Logf:     c.Logger.Debugf,
	}
	if opts.pypi {
		if err := errors.ValidateURL(opts.index); err != nil {
			return err
		}
		backend, err := newCache(opts.noCache)
		if err != nil {
			return err
		}
		defer backend.Close()
		client := pypi.NewClient(backend, pypi.Options{BaseURL: opts.index, Refresh: opts.refresh})

		// Only installed packages get a lookup; unknown names are
		// reported as missing either way.
		var installed []string
		for _, name := range names {
			if _, ok := idx.Get(name); ok {
				installed = append(installed, name)
			}
		}

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Querying index for %d package(s)...", len(installed)))
		spinner.Start()
		searchOpts.Latest = pypi.Prefetch(ctx, client, installed, 0)
		spinner.Stop()
	}

	reports, missing := inspect.Search(ctx, names, idx, searchOpts)

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	var shown int
	if opts.jsonOut {
		shown, err = writeReportJSON(out, reports, missing)
		if err != nil {
			return err
		}
	} else {
		shown = renderReports(out, reports, renderOptions{Classifiers: c.verbose, Files: opts.files})
	}

	if len(missing) > 0 {
		c.Logger.Warnf("Package(s) not found: %s", strings.Join(missing, ", "))
	}
	if shown == 0 {
		return errors.New(errors.ErrCodePackageNotFound, "none of the queried packages are installed")
	}
	if opts.output != "" {
		c.Logger.Infof("Wrote report to %s", opts.output)
	}
	return nil
}

// gatherNames combines positional names with the names listed in any
// --requirement files, in that order.
func gatherNames(args []string, reqFiles []string) ([]string, error) {
	names := slices.Clone(args)
	for _, path := range reqFiles {
		fromFile, err := reqfile.Names(path)
		if err != nil {
			return nil, err
		}
		names = append(names, fromFile...)
	}
	return names, nil
}
