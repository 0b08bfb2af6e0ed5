// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the database with pool
// settings and a ping-with-timeout to fail fast on bad credentials or an
// unreachable host.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema. The snapshot
// tables are a fixed, externally owned schema; the inspector lets the
// reconciliation service verify the expected tables and columns exist before
// a pass starts writing.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "size_availability", cols)
package database
