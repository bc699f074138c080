package sanitizer

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/ansdev/patternhub/internal/storage"
)

// Report summarises one batch clean run.
type Report struct {
	Processed int
	Modified  []string
	Failed    []string
}

// Runner batch-cleans every pattern document in a library. Documents named
// in the exclusion list are never touched, and a file is only rewritten
// when cleaning actually changed its content.
type Runner struct {
	store   storage.Provider
	exclude map[string]struct{}
	logger  *slog.Logger
}

// NewRunner creates a Runner. Exclusion entries may be given with or
// without the .md extension.
func NewRunner(store storage.Provider, exclude []string, logger *slog.Logger) *Runner {
	ex := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		ex[strings.TrimSuffix(e, storage.Ext)] = struct{}{}
	}
	return &Runner{store: store, exclude: ex, logger: logger}
}

// CleanAll processes every document in the library. Per-file failures are
// logged and counted but never abort the run.
func (r *Runner) CleanAll() (*Report, error) {
	metas, err := r.store.List()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(metas))
	for _, m := range metas {
		if _, skip := r.exclude[m.Name]; skip {
			r.logger.Debug("clean: excluded", slog.String("name", m.Name))
			continue
		}
		names = append(names, m.Name)
	}
	sort.Strings(names)

	rep := &Report{}
	for _, name := range names {
		rep.Processed++

		data, err := r.store.Read(name)
		if err != nil {
			r.logger.Warn("clean: read failed",
				slog.String("name", name), slog.String("error", err.Error()))
			rep.Failed = append(rep.Failed, name)
			continue
		}

		cleaned := Clean(string(data))
		if cleaned == string(data) {
			r.logger.Debug("clean: unchanged", slog.String("name", name))
			continue
		}

		if err := r.store.Write(name, []byte(cleaned)); err != nil {
			r.logger.Warn("clean: write failed",
				slog.String("name", name), slog.String("error", err.Error()))
			rep.Failed = append(rep.Failed, name)
			continue
		}
		r.logger.Info("clean: modified", slog.String("name", name))
		rep.Modified = append(rep.Modified, name)
	}

	return rep, nil
}
