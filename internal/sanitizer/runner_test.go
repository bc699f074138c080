package sanitizer

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ansdev/patternhub/internal/storage"
)

const bilingualDoc = "# Factory\n\nRU: Паттерн Фабрика создает объекты.\nEN: Factory creates objects.\n"

func testRunnerEnv(t *testing.T, exclude []string) (*Runner, storage.Provider) {
	t.Helper()
	lib, err := storage.NewLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewRunner(lib, exclude, logger), lib
}

func TestCleanAll_ModifiesBilingualFiles(t *testing.T) {
	r, lib := testRunnerEnv(t, nil)
	_ = lib.Write("factory", []byte(bilingualDoc))

	rep, err := r.CleanAll()
	if err != nil {
		t.Fatalf("CleanAll: %v", err)
	}
	if rep.Processed != 1 || len(rep.Modified) != 1 {
		t.Fatalf("report = %+v, want 1 processed, 1 modified", rep)
	}

	got, _ := lib.Read("factory")
	if strings.Contains(string(got), "RU:") || strings.Contains(string(got), "EN:") {
		t.Errorf("file still carries markers: %q", got)
	}
	if !strings.Contains(string(got), "Factory creates objects.") {
		t.Errorf("english content lost: %q", got)
	}
}

func TestCleanAll_ExcludedFilesUntouched(t *testing.T) {
	r, lib := testRunnerEnv(t, []string{"singleton.md"})
	_ = lib.Write("singleton", []byte(bilingualDoc))

	rep, err := r.CleanAll()
	if err != nil {
		t.Fatalf("CleanAll: %v", err)
	}
	if rep.Processed != 0 || len(rep.Modified) != 0 {
		t.Fatalf("report = %+v, want nothing processed", rep)
	}

	got, _ := lib.Read("singleton")
	if string(got) != bilingualDoc {
		t.Errorf("excluded file was modified: %q", got)
	}
}

func TestCleanAll_CleanFilesNotRewritten(t *testing.T) {
	r, lib := testRunnerEnv(t, nil)
	clean := "# Observer\n\nAlready clean content.\n"
	_ = lib.Write("observer", []byte(clean))

	rep, err := r.CleanAll()
	if err != nil {
		t.Fatalf("CleanAll: %v", err)
	}
	if rep.Processed != 1 {
		t.Errorf("processed = %d, want 1", rep.Processed)
	}
	if len(rep.Modified) != 0 {
		t.Errorf("modified = %v, want none", rep.Modified)
	}
}

func TestCleanAll_SecondRunIsNoOp(t *testing.T) {
	r, lib := testRunnerEnv(t, nil)
	_ = lib.Write("factory", []byte(bilingualDoc))

	if _, err := r.CleanAll(); err != nil {
		t.Fatalf("first CleanAll: %v", err)
	}
	rep, err := r.CleanAll()
	if err != nil {
		t.Fatalf("second CleanAll: %v", err)
	}
	if len(rep.Modified) != 0 {
		t.Errorf("second run modified files: %v", rep.Modified)
	}
}
