// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// settings it reads: listening port, optional API key, CORS origins and the
// request body limit used for course uploads.
//
// # Usage
//
// This package is embedded by core/config and read by cmd/start when building
// the Fiber application.
package server
