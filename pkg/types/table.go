package types

import (
	"errors"
	"regexp"
	"slices"
)

// System columns present on every table, in schema order. They are populated
// by the insert path and never supplied by the caller.
const (
	ColID        = "id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// SystemCols lists the system columns in schema order.
var SystemCols = []string{ColID, ColCreatedAt, ColUpdatedAt}

// IDSuffix marks columns whose values must be commit identifiers.
const IDSuffix = "_id"

// Row maps column names to scalar values (string, int64, float64, []byte or nil).
// Column order is owned by the table the row belongs to.
type Row map[string]any

// TableSpec describes one relation: its name, its domain columns in schema
// order, and the subset of domain columns forming the insert-time uniqueness
// constraint.
type TableSpec struct {
	Name       string
	DataCols   []string
	UniqueCols []string
}

// AllCols returns the system columns followed by the domain columns.
func (s TableSpec) AllCols() []string {
	cols := make([]string, 0, len(SystemCols)+len(s.DataCols))
	cols = append(cols, SystemCols...)
	return append(cols, s.DataCols...)
}

// HasColumn reports whether col is a declared column of the relation.
func (s TableSpec) HasColumn(col string) bool {
	return slices.Contains(SystemCols, col) || slices.Contains(s.DataCols, col)
}

// IsSystemColumn reports whether col is one of the shared system columns.
func IsSystemColumn(col string) bool {
	return slices.Contains(SystemCols, col)
}

var commitIDRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsCommitID reports whether s is a full 40-character lowercase hex commit hash.
func IsCommitID(s string) bool {
	return commitIDRe.MatchString(s)
}

// Table operation errors.
var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrInvalidID     = errors.New("invalid identifier")
	ErrDuplicateRow  = errors.New("row exists")
	ErrMissingColumn = errors.New("missing column")
	ErrSchema        = errors.New("schema error")
	ErrTableNotFound = errors.New("table not found")
)
