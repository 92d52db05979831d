package types

// Commit is a version-control change set as produced by the history walker.
// Only the identity, message and author fields are stored by the commit
// table; the remaining fields travel with the record for the caller.
type Commit struct {
	CommitID    string // 40 lowercase hex characters.
	Subject     string // First line of the message.
	Details     string // Full message body.
	CommittedAt int64  // Committer timestamp, Unix seconds.
	AuthorName  string
	AuthorEmail string
	AuthoredAt  int64 // Author timestamp, Unix seconds.

	PatchID    string
	Provenance string
	Fixes      []string
	CVEs       []string
	Mentions   []string
}

// Commit table column names.
const (
	ColCommitID    = "commit_id"
	ColSubject     = "subject"
	ColDetails     = "details"
	ColCommittedAt = "committed_at"
	ColAuthorName  = "author_name"
	ColAuthorEmail = "author_email"
	ColAuthoredAt  = "authored_at"
)

// CommitCols lists the commit table's domain columns in schema order.
var CommitCols = []string{
	ColCommitID,
	ColSubject,
	ColDetails,
	ColCommittedAt,
	ColAuthorName,
	ColAuthorEmail,
	ColAuthoredAt,
}

// Row converts the commit into the commit table's column values.
func (c Commit) Row() Row {
	return Row{
		ColCommitID:    c.CommitID,
		ColSubject:     c.Subject,
		ColDetails:     c.Details,
		ColCommittedAt: c.CommittedAt,
		ColAuthorName:  c.AuthorName,
		ColAuthorEmail: c.AuthorEmail,
		ColAuthoredAt:  c.AuthoredAt,
	}
}
