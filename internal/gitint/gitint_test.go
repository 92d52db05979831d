package gitint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/banana/internal/sqlite"
	"github.com/mesh-intelligence/banana/pkg/types"
)

var (
	authoredAt  = time.Unix(1700000000, 0)
	committedAt = time.Unix(1700000500, 0)
)

func TestFromObject(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)
	hash := commitFile(t, repo, dir, "a.txt", "one\n", "fix: handle nil\n\nLonger explanation.\n")

	c, err := repo.CommitObject(hash)
	require.NoError(t, err)

	got := FromObject(c)
	assert.Equal(t, hash.String(), got.CommitID)
	assert.True(t, types.IsCommitID(got.CommitID))
	assert.Equal(t, "fix: handle nil", got.Subject)
	assert.Equal(t, "fix: handle nil\n\nLonger explanation.\n", got.Details)
	assert.Equal(t, committedAt.Unix(), got.CommittedAt)
	assert.Equal(t, "Test Author", got.AuthorName)
	assert.Equal(t, "test@example.com", got.AuthorEmail)
	assert.Equal(t, authoredAt.Unix(), got.AuthoredAt)
}

func TestFromObjectKeepsSubjectVerbatim(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"surrounding spaces", "  padded subject  \n\nbody\n", "  padded subject  "},
		{"no trailing newline", "one line", "one line"},
		{"empty first line", "\nsecond line\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromObject(&object.Commit{Message: tt.message})
			assert.Equal(t, tt.want, got.Subject)
			assert.Equal(t, tt.message, got.Details)
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)
	first := commitFile(t, repo, dir, "a.txt", "one\n", "first")
	second := commitFile(t, repo, dir, "a.txt", "two\n", "second")

	r, err := Open(dir)
	require.NoError(t, err)

	tests := []struct {
		rev  string
		want plumbing.Hash
	}{
		{"HEAD", second},
		{"HEAD~1", first},
		{first.String(), first},
	}
	for _, tt := range tests {
		t.Run(tt.rev, func(t *testing.T) {
			c, err := r.Resolve(tt.rev)
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), c.CommitID)
		})
	}

	_, err = r.Resolve("no-such-branch")
	assert.Error(t, err)
}

func TestOpenNotARepo(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestRecord(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)
	first := commitFile(t, repo, dir, "a.txt", "one\n", "first")
	commitFile(t, repo, dir, "a.txt", "two\n", "second")

	db := sqlite.NewDatabase(filepath.Join(t.TempDir(), "banana.db"))
	require.NoError(t, db.Init())

	r, err := Open(dir)
	require.NoError(t, err)

	n, err := r.Record(db.Commit, "HEAD", "HEAD~1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-recording skips commits already stored.
	n, err = r.Record(db.Commit, "HEAD", first.String())
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := db.Commit.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = r.Record(db.Commit, "missing")
	assert.Error(t, err)
}

// --- Helpers ---

func initTestRepo(t *testing.T, dir string) *gogit.Repository {
	t.Helper()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return repo
}

func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content, msg string) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  authoredAt,
		},
		Committer: &object.Signature{
			Name:  "Test Committer",
			Email: "committer@example.com",
			When:  committedAt,
		},
	})
	require.NoError(t, err)
	return hash
}
