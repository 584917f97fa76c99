package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindw/pipshow/pkg/depgraph"
	"github.com/mindw/pipshow/pkg/errors"
)

// graphCommand creates the graph command for rendering dependency graphs.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		reverse bool
	)

	cmd := &cobra.Command{
		Use:   "graph [package...]",
		Short: "Render the dependency graph of installed packages",
		Long: `Render the dependency graph of the environment, or of the named
packages and everything they pull in, in Graphviz format.

The output format follows the file extension: .dot writes plain DOT,
.svg and .png render it. Without --output the DOT text goes to stdout.

Examples:
  pipshow graph                       # whole environment, DOT on stdout
  pipshow graph flask -o flask.svg    # one package's closure, rendered
  pipshow graph urllib3 --reverse -o dependents.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args, output, reverse)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; format from extension (.dot, .svg, .png)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "graph dependents instead of dependencies")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, names []string, output string, reverse bool) error {
	format, err := graphFormat(output)
	if err != nil {
		return err
	}

	idx, _, err := c.snapshot()
	if err != nil {
		return err
	}

	dot, err := depgraph.BuildDOT(idx, names, depgraph.Options{Reverse: reverse})
	if err != nil {
		return err
	}

	data := []byte(dot)
	if format != "dot" {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()
		switch format {
		case "svg":
			data, err = depgraph.RenderSVG(dot)
		case "png":
			data, err = depgraph.RenderPNG(dot)
		}
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return err
		}
		spinner.Stop()
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Generated %s", output)
	}
	return nil
}

// graphFormat picks the output format from the file extension. An empty
// path means DOT on stdout.
func graphFormat(output string) (string, error) {
	if output == "" {
		return "dot", nil
	}
	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".dot", ".gv":
		return "dot", nil
	case ".svg":
		return "svg", nil
	case ".png":
		return "png", nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput,
			"unsupported output format %q (use .dot, .svg, or .png)", ext)
	}
}
