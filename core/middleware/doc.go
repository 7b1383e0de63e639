// Package middleware groups the HTTP middleware shared by every feature.
//
//   - auth: API key check on X-API-Key, off when no key is configured.
//   - rayid: per-request trace id, echoed in the X-Ray-ID response header and
//     attached to log entries by logger.WithRayID.
package middleware
