package filestorage

// Archiver stores a copy of a generated document outside the database.
// Archiving is best-effort; the ledger row in the database remains the
// authoritative copy.
type Archiver interface {
	// Store writes the document under a name derived from the package id and
	// submitted filename, returning the path it was written to.
	Store(packageID int64, filename string, document []byte) (string, error)
}
