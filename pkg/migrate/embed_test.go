package migrate

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsMatchSourceTree(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, DefaultDir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}

	embedded := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			t.Fatalf("unexpected embedded file %s", entry.Name())
		}
		embedded[entry.Name()] = true
	}

	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob source migrations: %v", err)
	}
	if len(onDisk) != len(embedded) {
		t.Fatalf("embedded %d migrations, source tree has %d", len(embedded), len(onDisk))
	}
	for _, path := range onDisk {
		if !embedded[filepath.Base(path)] {
			t.Fatalf("migration %s not embedded", path)
		}
	}
}
