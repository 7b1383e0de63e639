// Package integrity checks that the course collection and the blob storage agree.
//
// # Checks Provided
//
//   - Structure: the videos and materials storage areas exist (supports creating them).
//   - Files: every blob referenced by a course is stored, and every stored blob is
//     referenced. Orphans younger than the grace period are reported as protected.
//   - Schema: when the collection is kept in SQL, every table carries its columns.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/files : Runs the reference sweep.
//   - GET /integrity/files/:area/:name : Looks up a single blob.
//   - GET /integrity/schema : Runs the schema check.
package integrity
