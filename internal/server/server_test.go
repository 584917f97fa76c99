package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
)

type fakeMeta struct {
	details map[string]inspect.Details
	files   map[string][]string
}

func (f *fakeMeta) Describe(p *inspect.Package) (inspect.Details, error) {
	return f.details[p.Norm()], nil
}

func (f *fakeMeta) Files(p *inspect.Package) ([]string, error) {
	files, ok := f.files[p.Norm()]
	if !ok {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no manifest for %s", p.Name)
	}
	return files, nil
}

type fakeVersions struct {
	version string
	err     error
}

func (f fakeVersions) LatestVersion(context.Context, string) (string, error) {
	return f.version, f.err
}

func testSnapshot() (*inspect.Index, inspect.MetadataSource, error) {
	idx := inspect.BuildIndex([]*inspect.Package{
		{
			Name: "webapp", Version: "1.0", Location: "/site",
			Requires: []inspect.Requirement{{Name: "Flask", Constraint: ">=2.0"}},
		},
		{Name: "Flask", Version: "3.0.2", Location: "/site"},
	})
	src := &fakeMeta{
		details: map[string]inspect.Details{
			"flask": {Summary: "A micro web framework", License: "BSD-3-Clause"},
		},
		files: map[string][]string{
			"flask": {"flask/__init__.py", "flask/app.py"},
		},
	}
	return idx, src, nil
}

func testServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Snapshot == nil {
		cfg.Snapshot = testSnapshot
	}
	ts := httptest.NewServer(New(cfg))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts := testServer(t, Config{})
	resp, body := get(t, ts.URL+"/healthz")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var health map[string]string
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("status = %q, want ok", health["status"])
	}
	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Error("X-Request-ID header missing")
	} else if _, err := uuid.Parse(id); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID: %v", id, err)
	}
}

func TestListPackages(t *testing.T) {
	ts := testServer(t, Config{})
	resp, body := get(t, ts.URL+"/api/v1/packages")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Count != 2 || len(list.Packages) != 2 {
		t.Fatalf("count = %d, packages = %v", list.Count, list.Packages)
	}
	// Sorted by name: Flask before webapp.
	if list.Packages[0].Name != "Flask" || list.Packages[1].Name != "webapp" {
		t.Errorf("order = %s, %s", list.Packages[0].Name, list.Packages[1].Name)
	}
	if _, err := uuid.Parse(list.ID); err != nil {
		t.Errorf("id %q is not a UUID: %v", list.ID, err)
	}
}

func TestShowPackage(t *testing.T) {
	ts := testServer(t, Config{})
	resp, body := get(t, ts.URL+"/api/v1/packages/flask")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	var report inspect.Report
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Name != "Flask" || report.Version != "3.0.2" {
		t.Errorf("report = %s %s", report.Name, report.Version)
	}
	if report.Summary != "A micro web framework" {
		t.Errorf("summary = %q", report.Summary)
	}
	if len(report.RequiredBy) != 1 || report.RequiredBy[0] != "webapp >=2.0" {
		t.Errorf("required_by = %v", report.RequiredBy)
	}
	if report.Files != nil {
		t.Errorf("files included without files=1: %v", report.Files)
	}
	if report.LatestVersion != "" {
		t.Errorf("latest_version included without latest=1: %q", report.LatestVersion)
	}
}

func TestShowPackageFiles(t *testing.T) {
	ts := testServer(t, Config{})
	_, body := get(t, ts.URL+"/api/v1/packages/flask?files=1")

	var report inspect.Report
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Files) != 2 {
		t.Errorf("files = %v, want 2 entries", report.Files)
	}
}

func TestShowPackageLatest(t *testing.T) {
	ts := testServer(t, Config{Latest: fakeVersions{version: "9.9"}})
	_, body := get(t, ts.URL+"/api/v1/packages/flask?latest=1")

	var report inspect.Report
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.LatestVersion != "9.9" {
		t.Errorf("latest_version = %q, want %q", report.LatestVersion, "9.9")
	}
}

func TestShowPackageNormalizedLookup(t *testing.T) {
	ts := testServer(t, Config{})
	resp, _ := get(t, ts.URL+"/api/v1/packages/FLASK")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 for a case-variant name", resp.StatusCode)
	}
}

func TestShowPackageNotFound(t *testing.T) {
	ts := testServer(t, Config{})
	resp, body := get(t, ts.URL+"/api/v1/packages/ghost")

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Error.Code != string(errors.ErrCodePackageNotFound) {
		t.Errorf("code = %q, want %q", er.Error.Code, errors.ErrCodePackageNotFound)
	}
}

func TestShowPackageInvalidName(t *testing.T) {
	ts := testServer(t, Config{})
	resp, body := get(t, ts.URL+"/api/v1/packages/bad..name")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", resp.StatusCode, body)
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Error.Code != string(errors.ErrCodeInvalidPackage) {
		t.Errorf("code = %q, want %q", er.Error.Code, errors.ErrCodeInvalidPackage)
	}
}

func TestSnapshotFailure(t *testing.T) {
	broken := func() (*inspect.Index, inspect.MetadataSource, error) {
		return nil, nil, errors.New(errors.ErrCodeNoEnvironment, "no Python environment found")
	}
	ts := testServer(t, Config{Snapshot: broken})

	resp, body := get(t, ts.URL+"/api/v1/packages")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Error.Code != string(errors.ErrCodeNoEnvironment) {
		t.Errorf("code = %q", er.Error.Code)
	}
}
