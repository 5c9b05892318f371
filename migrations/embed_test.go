package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationSetsMatch(t *testing.T) {
	names := make(map[string][]string)

	for _, driver := range []string{"sqlite", "postgres"} {
		fsys, err := GetFS(driver)
		if err != nil {
			t.Fatalf("GetFS(%q) returned error: %v", driver, err)
		}

		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			t.Fatalf("reading %s migrations: %v", driver, err)
		}
		if len(entries) == 0 {
			t.Fatalf("%s migration set is empty", driver)
		}
		for _, e := range entries {
			names[driver] = append(names[driver], e.Name())
		}
	}

	// Both drivers must ship the same migration versions
	if len(names["sqlite"]) != len(names["postgres"]) {
		t.Fatalf("migration sets differ: sqlite %v, postgres %v", names["sqlite"], names["postgres"])
	}
	for i, name := range names["sqlite"] {
		if names["postgres"][i] != name {
			t.Errorf("migration sets differ at %d: sqlite %q, postgres %q", i, name, names["postgres"][i])
		}
	}
}

func TestPostgresMigrationsPortable(t *testing.T) {
	fsys, err := GetFS("postgres")
	if err != nil {
		t.Fatalf("GetFS returned error: %v", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		t.Fatalf("reading postgres migrations: %v", err)
	}

	for _, e := range entries {
		content, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			t.Fatalf("reading %s: %v", e.Name(), err)
		}
		if strings.Contains(strings.ToUpper(string(content)), "AUTOINCREMENT") {
			t.Errorf("%s uses sqlite-only AUTOINCREMENT", e.Name())
		}
	}
}

func TestGetFSUnknownDriver(t *testing.T) {
	fsys, err := GetFS("oracle")
	if err != nil {
		return
	}
	// fs.Sub defers validation; an unknown driver must at least be empty
	if entries, err := fs.ReadDir(fsys, "."); err == nil && len(entries) > 0 {
		t.Errorf("unknown driver returned migrations: %v", entries)
	}
}
