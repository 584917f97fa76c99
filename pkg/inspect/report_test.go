package inspect

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
)

type fakeMeta struct {
	describes int
	details   map[string]Details
	files     map[string][]string
	err       error
}

func (f *fakeMeta) Describe(p *Package) (Details, error) {
	f.describes++
	if f.err != nil {
		return Details{}, f.err
	}
	return f.details[p.Norm()], nil
}

func (f *fakeMeta) Files(p *Package) ([]string, error) {
	files, ok := f.files[p.Norm()]
	if !ok {
		return nil, errors.New("no manifest recorded")
	}
	return files, nil
}

type fakeVersions struct {
	versions map[string]string
	err      error
}

func (f *fakeVersions) LatestVersion(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.versions[name], nil
}

func collect(seq func(func(Report) bool)) []Report {
	var out []Report
	seq(func(r Report) bool {
		out = append(out, r)
		return true
	})
	return out
}

func TestSearchQueryOrderAndMissing(t *testing.T) {
	idx := testIndex()

	seq, missing := Search(context.Background(), []string{"webapp", "ghost", "core", "phantom"}, idx, SearchOptions{})
	reports := collect(seq)

	if !reflect.DeepEqual(missing, []string{"ghost", "phantom"}) {
		t.Errorf("missing = %v, want [ghost phantom]", missing)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Name != "webapp" || reports[1].Name != "core" {
		t.Errorf("report order = [%s %s], want query order [webapp core]", reports[0].Name, reports[1].Name)
	}
}

func TestSearchDuplicateNames(t *testing.T) {
	idx := testIndex()

	seq, _ := Search(context.Background(), []string{"core", "Core"}, idx, SearchOptions{})
	reports := collect(seq)
	if len(reports) != 2 {
		t.Fatalf("duplicate query names should yield duplicate reports, got %d", len(reports))
	}
}

func TestSearchAllMissing(t *testing.T) {
	idx := testIndex()

	seq, missing := Search(context.Background(), []string{"nope"}, idx, SearchOptions{})
	if got := collect(seq); len(got) != 0 {
		t.Errorf("expected no reports, got %d", len(got))
	}
	if !reflect.DeepEqual(missing, []string{"nope"}) {
		t.Errorf("missing = %v, want [nope]", missing)
	}
}

func TestSearchLazyAssembly(t *testing.T) {
	idx := testIndex()
	meta := &fakeMeta{}

	seq, _ := Search(context.Background(), []string{"webapp", "core", "toolkit"}, idx, SearchOptions{Metadata: meta})

	// Stop after the first report; the others must not have been built.
	seq(func(r Report) bool { return false })

	if meta.describes != 1 {
		t.Errorf("Describe called %d times after one yield, want 1", meta.describes)
	}
}

func TestSearchContextCancelled(t *testing.T) {
	idx := testIndex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seq, _ := Search(ctx, []string{"webapp", "core"}, idx, SearchOptions{})
	if got := collect(seq); len(got) != 0 {
		t.Errorf("cancelled context should stop iteration, got %d reports", len(got))
	}
}

func TestReportRequiresFormatting(t *testing.T) {
	idx := testIndex()

	seq, _ := Search(context.Background(), []string{"webapp"}, idx, SearchOptions{})
	r := collect(seq)[0]

	// core is installed at 2.0; the constraint stays attached to the name.
	if !reflect.DeepEqual(r.Requires, []string{"core>=1.0 [2.0]"}) {
		t.Errorf("Requires = %v, want [core>=1.0 [2.0]]", r.Requires)
	}

	seq, _ = Search(context.Background(), []string{"selfref"}, idx, SearchOptions{})
	r = collect(seq)[0]
	slices.Sort(r.Requires)
	want := []string{"Core!=1.9 [2.0]", "selfref [0.9]"}
	if !reflect.DeepEqual(r.Requires, want) {
		t.Errorf("Requires = %v, want %v", r.Requires, want)
	}
}

func TestReportMissingDepShowsDash(t *testing.T) {
	idx := BuildIndex([]*Package{
		{Name: "app", Version: "1.0", Requires: []Requirement{{Name: "vanished", Constraint: ">=3"}}},
	})

	seq, _ := Search(context.Background(), []string{"app"}, idx, SearchOptions{})
	r := collect(seq)[0]
	if !reflect.DeepEqual(r.Requires, []string{"vanished>=3 [-]"}) {
		t.Errorf("Requires = %v, want [vanished>=3 [-]]", r.Requires)
	}
}

func TestReportLatestVersion(t *testing.T) {
	idx := testIndex()

	// Lookup disabled: field stays empty.
	seq, _ := Search(context.Background(), []string{"core"}, idx, SearchOptions{})
	if r := collect(seq)[0]; r.LatestVersion != "" {
		t.Errorf("LatestVersion = %q with lookup disabled, want empty", r.LatestVersion)
	}

	// Lookup succeeds.
	src := &fakeVersions{versions: map[string]string{"core": "2.4"}}
	seq, _ = Search(context.Background(), []string{"core"}, idx, SearchOptions{Latest: src})
	if r := collect(seq)[0]; r.LatestVersion != "2.4" {
		t.Errorf("LatestVersion = %q, want 2.4", r.LatestVersion)
	}

	// Lookup fails: degrade, never error.
	var logged bool
	failing := &fakeVersions{err: errors.New("connection refused")}
	seq, _ = Search(context.Background(), []string{"core"}, idx, SearchOptions{
		Latest: failing,
		Logf:   func(string, ...any) { logged = true },
	})
	if r := collect(seq)[0]; r.LatestVersion != UnknownVersion {
		t.Errorf("LatestVersion = %q after failure, want %q", r.LatestVersion, UnknownVersion)
	}
	if !logged {
		t.Error("failed lookup should be logged")
	}
}

func TestReportMetadataDegrades(t *testing.T) {
	idx := testIndex()
	meta := &fakeMeta{err: errors.New("unreadable METADATA")}

	seq, _ := Search(context.Background(), []string{"webapp"}, idx, SearchOptions{Metadata: meta})
	r := collect(seq)[0]
	if r.Summary != "" || r.Author != "" {
		t.Error("unreadable metadata should leave header fields empty")
	}
	if r.Name != "webapp" || r.Version != "1.0" {
		t.Error("core fields must survive a metadata failure")
	}
}

func TestReportFiles(t *testing.T) {
	idx := testIndex()
	meta := &fakeMeta{
		details: map[string]Details{"webapp": {Summary: "A web app"}},
		files:   map[string][]string{"webapp": {"webapp/__init__.py", "webapp/views.py"}},
	}

	// Not requested: absent even though available.
	seq, _ := Search(context.Background(), []string{"webapp"}, idx, SearchOptions{Metadata: meta})
	if r := collect(seq)[0]; r.FilesKnown || r.Files != nil {
		t.Error("files must not be loaded unless requested")
	}

	// Requested and recorded.
	seq, _ = Search(context.Background(), []string{"webapp"}, idx, SearchOptions{Metadata: meta, Files: true})
	r := collect(seq)[0]
	if !r.FilesKnown || len(r.Files) != 2 {
		t.Errorf("Files = %v (known=%v), want the recorded manifest", r.Files, r.FilesKnown)
	}
	if r.Summary != "A web app" {
		t.Errorf("Summary = %q, want from metadata", r.Summary)
	}

	// Requested but no manifest recorded.
	seq, _ = Search(context.Background(), []string{"toolkit"}, idx, SearchOptions{Metadata: meta, Files: true})
	if r := collect(seq)[0]; r.FilesKnown {
		t.Error("missing manifest must leave FilesKnown false")
	}
}
