// Package config loads application configuration from environment variables
// and an optional .env file.
//
// Defaults come from `default` struct tags on the partial config structs
// owned by each core package (server, storage, logger, database); environment
// variables override them using underscore-joined keys, e.g. DATABASE_HOST
// maps to database.host.
package config
