// Package catalog persists scraped catalog snapshots and serves the
// resulting state. It implements the storage side of the reconciliation
// engine on MySQL, ingests and exports the scraper's CSV formats, archives
// raw snapshots per pass, and exposes read-only reporting over HTTP.
package catalog
