package cli

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindw/pipshow/pkg/inspect"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, _, err := c.snapshot()
			if err != nil {
				return err
			}
			writeList(os.Stdout, idx)
			return nil
		},
	}
}

// writeList prints one line per installed distribution in two aligned
// columns, sorted by normalized name.
func writeList(w io.Writer, idx *inspect.Index) {
	pkgs := idx.Packages()
	slices.SortFunc(pkgs, func(a, b *inspect.Package) int {
		return cmp.Compare(a.Norm(), b.Norm())
	})

	nameWidth, versionWidth := len("Package"), len("Version")
	for _, p := range pkgs {
		nameWidth = max(nameWidth, len(p.Name))
		versionWidth = max(versionWidth, len(p.Version))
	}

	fmt.Fprintf(w, "%-*s %s\n", nameWidth, "Package", "Version")
	fmt.Fprintf(w, "%s %s\n", strings.Repeat("-", nameWidth), strings.Repeat("-", versionWidth))
	for _, p := range pkgs {
		fmt.Fprintf(w, "%-*s %s\n", nameWidth, p.Name, p.Version)
	}
}
