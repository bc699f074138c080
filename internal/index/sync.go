package index

import (
	"log/slog"
	"time"

	"github.com/ansdev/patternhub/internal/checksum"
	"github.com/ansdev/patternhub/internal/storage"
)

// Sync walks the library and brings the catalog up to date:
//   - new/changed documents are upserted
//   - documents removed from disk are deleted from the catalog
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Name] = struct{}{}

		if checksums[m.Name] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Name)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("name", m.Name), slog.String("error", err.Error()))
			continue
		}
		if err := indexPattern(db, m.Name, data); err != nil {
			logger.Warn("sync: index failed", slog.String("name", m.Name), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("name", m.Name))
		}
	}

	// Remove stale entries.
	for name := range checksums {
		if _, ok := disk[name]; !ok {
			if err := db.DeletePattern(name); err != nil {
				logger.Warn("sync: delete failed", slog.String("name", name), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("name", name))
			}
		}
	}

	return nil
}

// indexPattern upserts one document into the catalog.
func indexPattern(db *DB, name string, data []byte) error {
	return db.UpsertPattern(PatternRow{
		Name:      name,
		Title:     deriveTitle(data),
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}, string(data))
}
