package store

// OpenMemory opens an in-memory database with migrations applied.
// This is only intended for use in tests.
func OpenMemory() (*DB, error) {
	return openAt(":memory:")
}
