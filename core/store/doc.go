// Package store persists the course collection.
//
// Two backends implement Store: FileStore keeps the data.json document on an
// afero filesystem and SQLStore spreads it over a few gorm tables. Both carry a
// collection version and reject a Save whose snapshot is older than what is
// stored (ErrStaleSnapshot).
//
// Writers serialize through a Locker. MemoryLocker is enough for a single
// process; RedisLocker coordinates several instances sharing the same storage.
// Repository combines the two so callers run read-modify-write cycles with
// Update and plain reads with Read.
package store
