package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/banana/pkg/types"
)

// Column specifications for the three relations. Uniqueness is enforced by
// Table.Insert, not by the SQLite schema.
var (
	CommitSpec = types.TableSpec{
		Name:       types.CommitTable,
		DataCols:   types.CommitCols,
		UniqueCols: []string{types.ColCommitID},
	}

	PatchIDSpec = types.TableSpec{
		Name:       types.PatchIDTable,
		DataCols:   []string{types.ColCommitID, "patch_id"},
		UniqueCols: []string{types.ColCommitID},
	}

	// A commit may fix several others, so the key is the (commit, fixes) pair.
	FixesSpec = types.TableSpec{
		Name:       types.FixesTable,
		DataCols:   []string{types.ColCommitID, "fixes", "fixes_id"},
		UniqueCols: []string{types.ColCommitID, "fixes"},
	}
)

// CommitTable is the commit relation with conversion from Commit records.
type CommitTable struct {
	*Table
}

// NewCommitTable binds the commit relation to the database file at path.
func NewCommitTable(path string) *CommitTable {
	return &CommitTable{Table: NewTable(path, CommitSpec)}
}

// InsertCommit converts c to commit columns and inserts it. It fails with
// ErrInvalidID when c.CommitID is not a full hash and ErrDuplicateRow when the
// commit is already stored.
func (ct *CommitTable) InsertCommit(c types.Commit) (types.Row, error) {
	slog.Debug("table op", "table", ct.Name(), "op", "insert_commit", "commit_id", c.CommitID)
	return ct.Insert(c.Row())
}
