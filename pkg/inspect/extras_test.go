package inspect

import (
	"reflect"
	"testing"
)

func TestExtrasResolvesInstalled(t *testing.T) {
	idx := testIndex()
	webapp, _ := idx.Get("webapp")

	got := Extras(webapp, idx)
	if len(got) != 1 {
		t.Fatalf("Extras returned %d groups, want 1", len(got))
	}
	if got[0].Name != "socks" {
		t.Errorf("group name = %s, want socks", got[0].Name)
	}

	want := []ExtraDep{{Name: "proxylib", Constraint: ">=1.5.6"}}
	if !reflect.DeepEqual(got[0].Requires, want) {
		t.Errorf("group deps = %+v, want %+v", got[0].Requires, want)
	}
	if got[0].Requires[0].Installed {
		t.Error("proxylib is not installed and must not be marked installed")
	}
}

func TestExtrasMarksInstalledVersion(t *testing.T) {
	idx := BuildIndex([]*Package{
		{
			Name: "app", Version: "1.0",
			Extras: []Extra{
				{Name: "fast", Requires: []Requirement{{Name: "speedup", Constraint: ">=0.2"}}},
			},
		},
		{Name: "speedup", Version: "0.3.1"},
	})
	app, _ := idx.Get("app")

	got := Extras(app, idx)
	dep := got[0].Requires[0]
	if !dep.Installed {
		t.Fatal("speedup should be marked installed")
	}
	if dep.Version != "0.3.1" {
		t.Errorf("installed version = %s, want 0.3.1", dep.Version)
	}
}

func TestExtrasDropsUnconditionalDeps(t *testing.T) {
	// "security" re-declares cryptography with a tighter bound; the extra
	// must not double-count it.
	idx := BuildIndex([]*Package{
		{
			Name: "app", Version: "1.0",
			Requires: []Requirement{{Name: "cryptography", Constraint: ">=2.0"}},
			Extras: []Extra{
				{Name: "security", Requires: []Requirement{
					{Name: "Cryptography", Constraint: ">=3.0"},
					{Name: "pyopenssl"},
				}},
			},
		},
	})
	app, _ := idx.Get("app")

	got := Extras(app, idx)
	if len(got[0].Requires) != 1 {
		t.Fatalf("group deps = %+v, want pyopenssl only", got[0].Requires)
	}
	if got[0].Requires[0].Name != "pyopenssl" {
		t.Errorf("remaining dep = %s, want pyopenssl", got[0].Requires[0].Name)
	}
}

func TestExtrasKeepsEmptyGroupsAndOrder(t *testing.T) {
	idx := BuildIndex([]*Package{
		{
			Name: "app", Version: "1.0",
			Extras: []Extra{
				{Name: "zeta", Requires: []Requirement{{Name: "zlib-ng"}}},
				{Name: "alpha"},
			},
		},
	})
	app, _ := idx.Get("app")

	got := Extras(app, idx)
	if len(got) != 2 {
		t.Fatalf("Extras returned %d groups, want 2", len(got))
	}
	if got[0].Name != "zeta" || got[1].Name != "alpha" {
		t.Errorf("group order = [%s %s], want declaration order [zeta alpha]", got[0].Name, got[1].Name)
	}
	if len(got[1].Requires) != 0 {
		t.Errorf("alpha group should be empty, got %+v", got[1].Requires)
	}
}
