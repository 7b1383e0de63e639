// Package config assembles the course-manager configuration.
//
// Values come from struct tag defaults, an optional .env file and the process
// environment, in that order of precedence (lowest first). Keys are nested by
// section, so SERVER_PORT sets server.port and STORAGE_DRIVER sets
// storage.driver.
//
// Sections:
//   - Server: port, API key, CORS origins and body limit
//   - Storage: disk root or S3/MinIO bucket holding videos and materials
//   - Store: json file or sql database holding the course collection
//   - Lock: in-process or redis writer lock
//   - Database: connection used by the sql store
//   - Log: level and encoding
//   - Integrity: reference sweep cache
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
