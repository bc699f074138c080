package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/ansdev/patternhub/internal/apperr"
	"github.com/ansdev/patternhub/internal/sanitizer"
	"github.com/ansdev/patternhub/internal/storage"
)

// RunClean batch-cleans every document in the library, honouring the
// configured exclusion list. Per-file failures are reported and never abort
// the run; the command itself only fails when the library is unreachable.
func RunClean(_ context.Context, cfg *Config, dirOverride string) error {
	logger := newTextLogger(cfg)

	dir := cfg.Library.Dir
	if dirOverride != "" {
		dir = dirOverride
	}

	store, err := storage.NewLibrary(dir)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}

	fmt.Println("Starting cleanup of markdown files...")
	fmt.Printf("Directory: %s\n\n", store.Root())

	runner := sanitizer.NewRunner(store, cfg.Sanitizer.Exclude, logger)
	rep, err := runner.CleanAll()
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	fmt.Println("Cleanup completed!")
	fmt.Printf("Files processed: %d\n", rep.Processed)
	fmt.Printf("Files modified: %d\n", len(rep.Modified))
	if len(rep.Modified) > 0 {
		fmt.Println("\nModified files:")
		for _, name := range rep.Modified {
			fmt.Printf("  [OK] %s%s\n", name, storage.Ext)
		}
	}
	if len(rep.Failed) > 0 {
		fmt.Println("\nFailed files:")
		for _, name := range rep.Failed {
			fmt.Printf("  [ERROR] %s%s\n", name, storage.Ext)
		}
	}
	return nil
}

// RunRead prints a pattern's content preview and length. A missing pattern
// is a diagnostic message, not a command failure.
func RunRead(_ context.Context, cfg *Config, name string) error {
	store, err := storage.NewLibrary(cfg.Library.Dir)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}

	fmt.Printf("Looking for pattern: %s\n", name)
	data, err := store.Read(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidName) {
			fmt.Printf("Pattern not found: %s\n", name)
			return nil
		}
		return fmt.Errorf("read pattern: %w", err)
	}

	preview := string(data)
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	fmt.Println("\nPattern content (first 100 chars):")
	fmt.Println(preview)
	fmt.Printf("\nTotal content length: %d characters\n", len(data))
	return nil
}

// RunClient lists available patterns and prints the first one, for manual
// verification of a library directory.
func RunClient(_ context.Context, cfg *Config) error {
	store, err := storage.NewLibrary(cfg.Library.Dir)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	fmt.Printf("Pattern directory: %s\n", store.Root())

	metas, err := store.List()
	if err != nil {
		return fmt.Errorf("list patterns: %w", err)
	}
	if len(metas) == 0 {
		fmt.Println("No patterns found!")
		return nil
	}

	names := make([]string, len(metas))
	for i, m := range metas {
		names[i] = m.Name
	}
	sort.Strings(names)

	first := names[0]
	data, err := store.Read(first)
	if err != nil {
		fmt.Printf("Error reading pattern %s: %v\n", first, err)
	} else {
		fmt.Printf("%s pattern content:\n", first)
		fmt.Println("----------------------------")
		fmt.Println(string(data))
		fmt.Println("----------------------------")
	}

	fmt.Println("\nListing all available patterns:")
	for _, n := range names {
		fmt.Printf("- %s%s\n", n, storage.Ext)
	}
	return nil
}

func newTextLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}
