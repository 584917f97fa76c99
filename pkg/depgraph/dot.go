// Package depgraph renders the dependency relationships of installed
// packages as Graphviz diagrams.
package depgraph

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
	"github.com/mindw/pipshow/pkg/pep503"
)

// Options configures graph construction.
type Options struct {
	// Reverse walks dependents instead of dependencies, answering "what
	// needs this package" rather than "what does this package need".
	Reverse bool
}

type node struct {
	label     string
	installed bool
}

type edge struct {
	from, to   string
	constraint string
}

// BuildDOT walks the dependency closure of the named packages and
// renders it in Graphviz DOT format. With no names the whole index is
// graphed. Installed packages become boxes labeled with name and
// version; dependencies that are not installed are drawn dashed and
// grey. Edges point from the requiring package to its dependency and
// carry the version constraint as label; optional extras are not
// followed.
func BuildDOT(idx *inspect.Index, names []string, opts Options) (string, error) {
	start, err := roots(idx, names)
	if err != nil {
		return "", err
	}

	nodes := make(map[string]node)
	var order []string
	var edges []edge
	add := func(id string, n node) {
		if _, ok := nodes[id]; !ok {
			nodes[id] = n
			order = append(order, id)
		}
	}

	visited := make(map[string]bool)
	queue := start
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		norm := p.Norm()
		if visited[norm] {
			continue
		}
		visited[norm] = true
		add(norm, node{label: p.Name + "\n" + p.Version, installed: true})

		if opts.Reverse {
			for _, dep := range dependentsOf(idx, p) {
				edges = append(edges, edge{from: dep.pkg.Norm(), to: norm, constraint: dep.constraint})
				queue = append(queue, dep.pkg)
			}
			continue
		}
		for _, req := range p.Requires {
			target, ok := idx.Get(req.Name)
			if !ok {
				missing := pep503.Normalize(req.Name)
				add(missing, node{label: req.Name})
				edges = append(edges, edge{from: norm, to: missing, constraint: req.Constraint})
				continue
			}
			edges = append(edges, edge{from: norm, to: target.Norm(), constraint: req.Constraint})
			queue = append(queue, target)
		}
	}

	return renderDOT(order, nodes, edges), nil
}

func roots(idx *inspect.Index, names []string) ([]*inspect.Package, error) {
	if len(names) == 0 {
		return idx.Packages(), nil
	}
	var pkgs []*inspect.Package
	var missing []string
	for _, name := range names {
		if p, ok := idx.Get(name); ok {
			pkgs = append(pkgs, p)
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodePackageNotFound,
			"package(s) not found: %s", strings.Join(missing, ", "))
	}
	return pkgs, nil
}

type dependent struct {
	pkg        *inspect.Package
	constraint string
}

// dependentsOf lists the packages whose unconditional requirements name
// the target, with the constraint each one declares.
func dependentsOf(idx *inspect.Index, target *inspect.Package) []dependent {
	targetNorm := target.Norm()
	var out []dependent
	for _, p := range idx.Packages() {
		if p.Norm() == targetNorm {
			continue
		}
		for _, req := range p.Requires {
			if req.Norm() == targetNorm {
				out = append(out, dependent{pkg: p, constraint: req.Constraint})
				break
			}
		}
	}
	return out
}

func renderDOT(order []string, nodes map[string]node, edges []edge) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range order {
		n := nodes[id]
		attrs := []string{fmt.Sprintf("label=%q", n.label)}
		if !n.installed {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.constraint != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n", e.from, e.to, e.constraint)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
