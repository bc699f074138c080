package index

// Catalog defines the interface for pattern indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type Catalog interface {
	UpsertPattern(p PatternRow, body string) error
	DeletePattern(name string) error
	GetChecksum(name string) (string, error)
	ListPatterns() ([]PatternRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
