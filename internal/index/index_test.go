package index

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ansdev/patternhub/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "patternhub-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM patterns`).Scan(&count); err != nil {
		t.Fatalf("patterns table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := PatternRow{
		Name:      "singleton",
		Title:     "Singleton",
		Checksum:  "abc123",
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertPattern(row, "# Singleton\nOne instance."); err != nil {
		t.Fatalf("UpsertPattern: %v", err)
	}
	cs, err := db.GetChecksum("singleton")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertPattern(PatternRow{Name: "up", Title: "Old", Checksum: "1", UpdatedAt: now}, "old body")
	_ = db.UpsertPattern(PatternRow{Name: "up", Title: "New", Checksum: "2", UpdatedAt: now}, "new body")

	cs, _ := db.GetChecksum("up")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}

	rows, err := db.ListPatterns()
	if err != nil {
		t.Fatalf("ListPatterns: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "New" {
		t.Errorf("rows = %+v, want single row titled New", rows)
	}
}

func TestDeletePattern(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPattern(PatternRow{Name: "del", Checksum: "x", UpdatedAt: time.Now()}, "body")

	if err := db.DeletePattern("del"); err != nil {
		t.Fatalf("DeletePattern: %v", err)
	}
	cs, _ := db.GetChecksum("del")
	if cs != "" {
		t.Errorf("deleted pattern still has checksum %q", cs)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListPatterns_Ordered(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertPattern(PatternRow{Name: "strategy", Checksum: "1", UpdatedAt: now}, "s")
	_ = db.UpsertPattern(PatternRow{Name: "factory", Checksum: "2", UpdatedAt: now}, "f")

	rows, err := db.ListPatterns()
	if err != nil {
		t.Fatalf("ListPatterns: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "factory" || rows[1].Name != "strategy" {
		t.Errorf("rows = %+v, want factory then strategy", rows)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertPattern(PatternRow{Name: "factory", Title: "Factory", Checksum: "1", UpdatedAt: now},
		"# Factory\nCreates objects without specifying the concrete class.")
	_ = db.UpsertPattern(PatternRow{Name: "observer", Title: "Observer", Checksum: "2", UpdatedAt: now},
		"# Observer\nNotifies subscribers about events.")

	hits, err := db.Search("subscribers", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "observer" {
		t.Errorf("hits = %+v, want single observer hit", hits)
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		data string
		want string
	}{
		{"# Singleton\nbody", "Singleton"},
		{"intro\n  # Indented Heading\nmore", "Indented Heading"},
		{"no heading here", ""},
	}
	for _, tc := range cases {
		if got := deriveTitle([]byte(tc.data)); got != tc.want {
			t.Errorf("deriveTitle(%q) = %q, want %q", tc.data, got, tc.want)
		}
	}
}

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	db := testDB(t)
	lib, err := storage.NewLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := quietLogger()

	_ = lib.Write("singleton", []byte("# Singleton\nOne instance."))
	_ = lib.Write("factory", []byte("# Factory\nCreates objects."))
	// Stale catalog entry with no file behind it.
	_ = db.UpsertPattern(PatternRow{Name: "ghost", Checksum: "zz", UpdatedAt: time.Now()}, "gone")

	if err := Sync(db, lib, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	rows, _ := db.ListPatterns()
	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want 2", rows)
	}
	if rows[0].Name != "factory" || rows[0].Title != "Factory" {
		t.Errorf("row[0] = %+v", rows[0])
	}
	if cs, _ := db.GetChecksum("ghost"); cs != "" {
		t.Error("stale entry not removed")
	}
}

func TestSync_SkipsUnchanged(t *testing.T) {
	db := testDB(t)
	lib, err := storage.NewLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := quietLogger()

	_ = lib.Write("singleton", []byte("# Singleton\nOne instance."))
	if err := Sync(db, lib, logger); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	first, _ := db.ListPatterns()

	if err := Sync(db, lib, logger); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	second, _ := db.ListPatterns()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("unexpected row counts %d/%d", len(first), len(second))
	}
	if !first[0].UpdatedAt.Equal(second[0].UpdatedAt) {
		t.Error("unchanged document was re-indexed")
	}
}
