package dist

import (
	"regexp"
	"strings"

	"github.com/mindw/pipshow/pkg/inspect"
)

var (
	// reqNameRE matches the project name a requirement line starts with.
	reqNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

	// extraMarkerRE pulls the extra name out of an environment marker,
	// e.g. `extra == "socks"` or `extra == 'socks'`.
	extraMarkerRE = regexp.MustCompile(`\bextra\s*==\s*['"]([^'"]+)['"]`)
)

// parseRequirement parses one requirement line such as
//
//	PySocks (!=1.5.7,>=1.5.6) ; extra == 'socks'
//
// into its name, bracketed extras, constraint text, and the extra name
// from the marker. Markers other than "extra == x" leave extra empty.
// ok is false for lines that do not start with a project name (URLs,
// editable installs).
func parseRequirement(line string) (req inspect.Requirement, extra string, ok bool) {
	spec := line
	if i := strings.Index(line, ";"); i >= 0 {
		spec = line[:i]
		if m := extraMarkerRE.FindStringSubmatch(line[i+1:]); m != nil {
			extra = m[1]
		}
	}
	spec = strings.TrimSpace(spec)

	m := reqNameRE.FindString(spec)
	if m == "" {
		return inspect.Requirement{}, "", false
	}
	req.Name = m
	rest := strings.TrimSpace(spec[len(m):])

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return inspect.Requirement{}, "", false
		}
		var names []string
		for _, e := range strings.Split(rest[1:end], ",") {
			if e = strings.TrimSpace(e); e != "" {
				names = append(names, e)
			}
		}
		if len(names) > 0 {
			req.Extras = "[" + strings.Join(names, ",") + "]"
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	// Older metadata wraps the version constraint in parentheses.
	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		rest = strings.TrimSpace(rest[1 : len(rest)-1])
	}
	req.Constraint = rest
	return req, extra, true
}

// parseRequiresDist converts raw Requires-Dist values into the
// unconditional dependency list and the extra groups. Groups appear in
// Provides-Extra declaration order, followed by any extras that only
// show up in markers; declared groups with no members are kept.
func parseRequiresDist(requiresDist, providesExtra []string) ([]inspect.Requirement, []inspect.Extra) {
	var base []inspect.Requirement
	var extras []inspect.Extra
	index := make(map[string]int)
	group := func(name string) int {
		if i, seen := index[name]; seen {
			return i
		}
		extras = append(extras, inspect.Extra{Name: name})
		index[name] = len(extras) - 1
		return len(extras) - 1
	}
	for _, name := range providesExtra {
		group(name)
	}
	for _, raw := range requiresDist {
		req, extra, ok := parseRequirement(raw)
		if !ok {
			continue
		}
		if extra == "" {
			base = append(base, req)
			continue
		}
		i := group(extra)
		extras[i].Requires = append(extras[i].Requires, req)
	}
	return base, extras
}

// parseRequiresTxt parses a legacy egg-info requires.txt. Lines before
// any section header are unconditional; each "[name]" section starts an
// extra group. A section name may carry an environment marker after ":",
// which is dropped, and a "[:marker]" section keeps its dependencies
// unconditional.
func parseRequiresTxt(lines []string) ([]inspect.Requirement, []inspect.Extra) {
	var base []inspect.Requirement
	var extras []inspect.Extra
	index := make(map[string]int)
	group := func(name string) int {
		if i, seen := index[name]; seen {
			return i
		}
		extras = append(extras, inspect.Extra{Name: name})
		index[name] = len(extras) - 1
		return len(extras) - 1
	}
	current := ""
	for _, line := range lines {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := line[1 : len(line)-1]
			if i := strings.Index(section, ":"); i >= 0 {
				section = section[:i]
			}
			current = strings.TrimSpace(section)
			if current != "" {
				group(current)
			}
			continue
		}
		req, _, ok := parseRequirement(line)
		if !ok {
			continue
		}
		if current == "" {
			base = append(base, req)
			continue
		}
		i := group(current)
		extras[i].Requires = append(extras[i].Requires, req)
	}
	return base, extras
}
