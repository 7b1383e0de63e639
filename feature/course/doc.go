// Package course implements course upserts and the course CRUD routes.
//
// An upsert goes through four steps:
//
//  1. Uploader stores every file part under a generated name and reports the
//     (original name, storage name) pairs per field.
//  2. Normalize decodes the submitted module tree and rewrites lesson video and
//     material placeholders from original names to storage names.
//  3. Reconcile compares the result with the stored course. Covers and lesson
//     videos that were replaced, removed or dropped with their lesson become
//     deletion candidates; top-level materials are replaced by a fresh batch
//     or kept.
//  4. Service.Upsert checks ownership, stitches ids and timestamps, registers
//     the category and saves the collection. Only then are candidates that no
//     course still references removed from storage.
//
// Lessons are matched with the stored version by uid when the client echoes
// one, and by module and lesson index otherwise.
package course
