package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestGatherNames(t *testing.T) {
	dir := t.TempDir()
	reqs := filepath.Join(dir, "requirements.txt")
	content := "flask>=2.0\n# dev tooling\npytest\n"
	if err := os.WriteFile(reqs, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := gatherNames([]string{"pip"}, []string{reqs})
	if err != nil {
		t.Fatalf("gatherNames() error = %v", err)
	}

	// Positional names first, requirement file entries after.
	if want := []string{"pip", "flask", "pytest"}; !slices.Equal(got, want) {
		t.Errorf("gatherNames() = %v, want %v", got, want)
	}
}

func TestGatherNamesArgsOnly(t *testing.T) {
	got, err := gatherNames([]string{"requests", "urllib3"}, nil)
	if err != nil {
		t.Fatalf("gatherNames() error = %v", err)
	}
	if want := []string{"requests", "urllib3"}; !slices.Equal(got, want) {
		t.Errorf("gatherNames() = %v, want %v", got, want)
	}
}

func TestGatherNamesMissingFile(t *testing.T) {
	_, err := gatherNames(nil, []string{filepath.Join(t.TempDir(), "absent.txt")})
	if err == nil {
		t.Fatal("expected an error for a missing requirements file")
	}
}
