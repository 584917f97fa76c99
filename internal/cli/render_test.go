package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/mindw/pipshow/pkg/inspect"
)

func TestWriteReportFull(t *testing.T) {
	r := inspect.Report{
		Name:            "requests",
		Version:         "2.31.0",
		LatestVersion:   "2.32.5",
		Summary:         "Python HTTP for Humans.",
		HomePage:        "https://requests.readthedocs.io",
		Author:          "Kenneth Reitz",
		AuthorEmail:     "me@kennethreitz.org",
		License:         "Apache 2.0",
		Location:        "/venv/lib/python3.12/site-packages",
		MetadataVersion: "2.1",
		Installer:       "pip",
		Classifiers: []string{
			"Development Status :: 5 - Production/Stable",
			"Programming Language :: Python :: 3",
		},
		Requires: []string{
			"urllib3<3,>=1.21.1 [2.2.1]",
			"idna<4,>=2.5 [3.7]",
		},
		Extras: []inspect.ExtraReport{
			{Name: "socks", Requires: []inspect.ExtraDep{
				{Name: "PySocks", Constraint: "!=1.5.7,>=1.5.6"},
			}},
			{Name: "use-chardet-on-py3", Requires: []inspect.ExtraDep{
				{Name: "chardet", Constraint: "<6,>=3.0.2", Version: "5.2.0", Installed: true},
			}},
		},
		RequiredBy: []string{"webapp >=2.0"},
		EntryPoints: []string{
			"[console_scripts]",
			"req = requests.cli:main",
		},
		Files: []string{
			"requests/api.py",
			"requests/__init__.py",
		},
		FilesKnown: true,
	}

	var buf bytes.Buffer
	writeReport(&buf, r, renderOptions{Classifiers: true, Files: true})

	want := `Name: requests
Version: 2.31.0
Remote Version: 2.32.5
Summary: Python HTTP for Humans.
Home-page: https://requests.readthedocs.io
Author: Kenneth Reitz
Author-email: me@kennethreitz.org
License: Apache 2.0
Location: /venv/lib/python3.12/site-packages
Metadata-Version: 2.1
Installer: pip
Classifiers:
  Development Status :: 5 - Production/Stable
  Programming Language :: Python :: 3
Requires:
  idna<4,>=2.5 [3.7]
  urllib3<3,>=1.21.1 [2.2.1]
Extra-Require [socks]:
  PySocks!=1.5.7,>=1.5.6 [-]
Extra-Require [use-chardet-on-py3]:
  chardet<6,>=3.0.2 [5.2.0]
Required-by:
  webapp >=2.0
Entry-points:
  [console_scripts]
  req = requests.cli:main
Files:
  requests/__init__.py
  requests/api.py
`
	if got := buf.String(); got != want {
		t.Errorf("unexpected report output\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteReportMinimal(t *testing.T) {
	r := inspect.Report{Name: "left-pad", Version: "0.1", Location: "/tmp/site"}

	var buf bytes.Buffer
	writeReport(&buf, r, renderOptions{})

	// Header fields are printed even when empty, trailing space included.
	want := strings.Join([]string{
		"Name: left-pad",
		"Version: 0.1",
		"Summary: ",
		"Home-page: ",
		"Author: ",
		"Author-email: ",
		"License: ",
		"Location: /tmp/site",
		"Metadata-Version: ",
		"Installer: ",
		"Requires:",
		"Required-by:",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("unexpected report output\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteReportFilesUnknown(t *testing.T) {
	r := inspect.Report{Name: "pip", Version: "24.0", Location: "/x"}

	var buf bytes.Buffer
	writeReport(&buf, r, renderOptions{Files: true})

	got := buf.String()
	suffix := "Files:\nCannot locate installed files (no RECORD or installed-files.txt)\n"
	if !strings.HasSuffix(got, suffix) {
		t.Errorf("output does not end with the cannot-locate notice:\n%s", got)
	}
}

func TestWriteReportSkipsRemoteVersionWhenUnset(t *testing.T) {
	r := inspect.Report{Name: "pip", Version: "24.0", Location: "/x"}

	var buf bytes.Buffer
	writeReport(&buf, r, renderOptions{})

	if strings.Contains(buf.String(), "Remote Version:") {
		t.Error("Remote Version line present without a lookup result")
	}
}

func TestRenderReports(t *testing.T) {
	reports := []inspect.Report{
		{Name: "alpha", Version: "1.0", Location: "/x"},
		{Name: "beta", Version: "2.0", Location: "/x"},
	}

	var buf bytes.Buffer
	n := renderReports(&buf, slices.Values(reports), renderOptions{})

	if n != 2 {
		t.Errorf("rendered %d blocks, want 2", n)
	}
	got := buf.String()
	if count := strings.Count(got, "---\n"); count != 1 {
		t.Errorf("found %d separators, want 1", count)
	}
	if !strings.HasPrefix(got, "Name: alpha\n") {
		t.Errorf("first block should start the output:\n%s", got)
	}
	if !strings.Contains(got, "\n---\nName: beta\n") {
		t.Errorf("separator should sit between the blocks:\n%s", got)
	}
}

func TestRenderReportsEmpty(t *testing.T) {
	var buf bytes.Buffer
	n := renderReports(&buf, slices.Values([]inspect.Report(nil)), renderOptions{})

	if n != 0 {
		t.Errorf("rendered %d blocks, want 0", n)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestFormatExtraDeps(t *testing.T) {
	tests := []struct {
		name string
		dep  inspect.ExtraDep
		want string
	}{
		{
			name: "installed",
			dep:  inspect.ExtraDep{Name: "chardet", Constraint: "<6,>=3.0.2", Version: "5.2.0", Installed: true},
			want: "chardet<6,>=3.0.2 [5.2.0]",
		},
		{
			name: "not installed",
			dep:  inspect.ExtraDep{Name: "PySocks", Constraint: ">=1.5.6"},
			want: "PySocks>=1.5.6 [-]",
		},
		{
			name: "no constraint",
			dep:  inspect.ExtraDep{Name: "win-inet-pton", Version: "1.1.0", Installed: true},
			want: "win-inet-pton [1.1.0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatExtraDeps([]inspect.ExtraDep{tt.dep})
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("formatExtraDeps() = %v, want [%q]", got, tt.want)
			}
		})
	}
}

func TestSortedLinesKeepsInput(t *testing.T) {
	in := []string{"b", "a", "c"}
	got := sortedLines(in)

	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("sortedLines() = %v, want %v", got, want)
	}
	if want := []string{"b", "a", "c"}; !slices.Equal(in, want) {
		t.Errorf("input mutated: %v", in)
	}
}
