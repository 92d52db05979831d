// Package types defines the record shapes, table specifications, and
// standard errors for the banana commit store.
//
// A Row is a column-name to value mapping; a TableSpec describes a relation's
// domain and unique columns; a Commit is the record supplied by the history
// walker. The storage engine lives in internal/sqlite.
package types
