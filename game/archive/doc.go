// Package archive stores generated artifacts so that printed task codes can be
// looked up and answers checked later.
//
// Store is a thread-safe in-memory index keyed by case-insensitive artifact ID.
// When built with NewStoreWithPersistence every new artifact is also written
// through a Persistence; FilePersistence keeps one JSON file per artifact.
// Artifacts loaded back from disk carry their puzzle data as plain JSON values.
//
// Usage:
//
//	fp, err := archive.NewFilePersistence("archive")
//	if err != nil {
//		log.Fatal(err)
//	}
//	store := archive.NewStoreWithPersistence(fp)
//	if err := store.LoadPersisted(); err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop artifacts older than a day
//	removed := store.CleanupExpired(24 * time.Hour)
package archive
