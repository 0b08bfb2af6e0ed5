// Package server holds configuration for the read-only HTTP reporting API.
//
// The server itself is assembled in the start command; this package only
// defines the partial configuration consumed by core/config.
package server
