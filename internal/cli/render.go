package cli

import (
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/mindw/pipshow/pkg/inspect"
)

// renderOptions controls which optional sections the text renderer emits.
type renderOptions struct {
	Classifiers bool // include the classifier list (--verbose)
	Files       bool // the file manifest was requested (--files)
}

// renderReports writes one text block per report, separated by a "---"
// line, and returns how many blocks were written.
func renderReports(w io.Writer, reports iter.Seq[inspect.Report], opts renderOptions) int {
	n := 0
	for r := range reports {
		if n > 0 {
			fmt.Fprintln(w, "---")
		}
		writeReport(w, r, opts)
		n++
	}
	return n
}

// writeReport renders one package block in pip's field order. Header
// fields are always printed, empty when absent; Requires and Required-by
// are sorted for display while the report itself keeps source order.
func writeReport(w io.Writer, r inspect.Report, opts renderOptions) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Version: %s\n", r.Version)
	if r.LatestVersion != "" {
		fmt.Fprintf(w, "Remote Version: %s\n", r.LatestVersion)
	}
	fmt.Fprintf(w, "Summary: %s\n", r.Summary)
	fmt.Fprintf(w, "Home-page: %s\n", r.HomePage)
	fmt.Fprintf(w, "Author: %s\n", r.Author)
	fmt.Fprintf(w, "Author-email: %s\n", r.AuthorEmail)
	fmt.Fprintf(w, "License: %s\n", r.License)
	fmt.Fprintf(w, "Location: %s\n", r.Location)
	fmt.Fprintf(w, "Metadata-Version: %s\n", r.MetadataVersion)
	fmt.Fprintf(w, "Installer: %s\n", r.Installer)

	if opts.Classifiers {
		fmt.Fprintln(w, "Classifiers:")
		for _, line := range r.Classifiers {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintln(w, "Requires:")
	for _, line := range sortedLines(r.Requires) {
		fmt.Fprintf(w, "  %s\n", line)
	}

	for _, extra := range r.Extras {
		fmt.Fprintf(w, "Extra-Require [%s]:\n", extra.Name)
		for _, line := range sortedLines(formatExtraDeps(extra.Requires)) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintln(w, "Required-by:")
	for _, line := range sortedLines(r.RequiredBy) {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if len(r.EntryPoints) > 0 {
		fmt.Fprintln(w, "Entry-points:")
		for _, line := range r.EntryPoints {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if opts.Files {
		fmt.Fprintln(w, "Files:")
		if r.FilesKnown {
			for _, line := range sortedLines(r.Files) {
				fmt.Fprintf(w, "  %s\n", line)
			}
		} else {
			fmt.Fprintln(w, "Cannot locate installed files (no RECORD or installed-files.txt)")
		}
	}
}

// sortedLines returns a sorted copy, leaving the input order intact.
func sortedLines(lines []string) []string {
	out := slices.Clone(lines)
	slices.Sort(out)
	return out
}

// formatExtraDeps renders each optional dependency with its installed
// version in brackets, "-" when it is not installed.
func formatExtraDeps(deps []inspect.ExtraDep) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		installed := "-"
		if d.Installed {
			installed = d.Version
		}
		out = append(out, fmt.Sprintf("%s%s [%s]", d.Name, d.Constraint, installed))
	}
	return out
}
