// Package database handles SQL connections and schema inspection.
//
// It wraps GORM to configure SQLite or MySQL connections from the application's
// configuration. The SQL collection store (core/store) is its only consumer.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the integrity check verify that the
// store tables carry the columns the current release expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	missing, err := database.MissingColumns(db, "course_records", []string{"id", "payload"})
package database
