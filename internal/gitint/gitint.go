// Package gitint turns go-git commits into banana Commit records.
//
// It resolves revisions in an existing repository and converts the commit
// objects; walking history is left to the caller.
package gitint

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/mesh-intelligence/banana/pkg/types"
)

// CommitInserter stores Commit records. *sqlite.CommitTable implements it.
type CommitInserter interface {
	InsertCommit(c types.Commit) (types.Row, error)
}

// Repository wraps a go-git repository opened from disk.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens an existing git repository at repoPath, searching parent
// directories for the .git dir.
func Open(repoPath string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repo at %s: %w", repoPath, err)
	}
	return &Repository{repo: repo, path: repoPath}, nil
}

// Resolve returns the Commit record for a revision such as "HEAD",
// "main~2" or a full or abbreviated hash.
func (r *Repository) Resolve(rev string) (types.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return types.Commit{}, fmt.Errorf("resolve %s: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return types.Commit{}, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return FromObject(c), nil
}

// Record resolves each revision and inserts its commit. Commits that are
// already stored are skipped, so recording the same revisions twice is
// harmless. Returns the number of commits inserted.
func (r *Repository) Record(dst CommitInserter, revs ...string) (int, error) {
	var inserted int
	for _, rev := range revs {
		c, err := r.Resolve(rev)
		if err != nil {
			return inserted, err
		}
		if _, err := dst.InsertCommit(c); err != nil {
			if errors.Is(err, types.ErrDuplicateRow) {
				slog.Info("commit already recorded", "rev", rev, "commit_id", c.CommitID)
				continue
			}
			return inserted, fmt.Errorf("record %s: %w", rev, err)
		}
		inserted++
	}
	return inserted, nil
}

// FromObject converts a go-git commit. Subject is the first line of the
// message exactly as written; Details is the full message as stored.
func FromObject(c *object.Commit) types.Commit {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return types.Commit{
		CommitID:    c.Hash.String(),
		Subject:     subject,
		Details:     c.Message,
		CommittedAt: c.Committer.When.Unix(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthoredAt:  c.Author.When.Unix(),
	}
}
