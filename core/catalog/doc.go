// Package catalog defines the persisted course documents.
//
// A Collection is the whole stored snapshot: courses, per-user bookkeeping and
// the category list. Its JSON layout is the one written by the first version of
// the service (data.json), so existing files load unchanged.
//
// Modules and lessons are identified by position and, once persisted, by an
// opaque uid. Fields the client sends that this package does not know about are
// kept verbatim and written back.
package catalog
