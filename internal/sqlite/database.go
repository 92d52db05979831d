// Package sqlite implements the banana commit store on a single SQLite file.
//
// A Database owns one Table per relation, all bound to the same file. Tables
// open and close their own connection for every operation, so a Database has
// no lifecycle beyond Init.
package sqlite

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/banana/pkg/types"
)

// Database composes the commit, patch-id and fixes tables over one file.
type Database struct {
	path string

	Commit  *CommitTable
	PatchID *Table
	Fixes   *Table
}

// NewDatabase binds the three relations to the SQLite file at path. No I/O
// happens until Init or a table operation.
func NewDatabase(path string) *Database {
	return &Database{
		path:    path,
		Commit:  NewCommitTable(path),
		PatchID: NewTable(path, PatchIDSpec),
		Fixes:   NewTable(path, FixesSpec),
	}
}

// Open validates cfg and returns a Database for cfg.DBPath using the
// configured busy timeout.
func Open(cfg types.Config) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := NewDatabase(cfg.DBPath)
	for _, t := range d.Tables() {
		t.busyTimeoutMS = cfg.BusyTimeoutMS
	}
	return d, nil
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Tables returns the relations in initialization order.
func (d *Database) Tables() []*Table {
	return []*Table{d.Commit.Table, d.PatchID, d.Fixes}
}

// Table returns the relation for a short name ("commit") or relation name
// ("_commit"). Returns ErrTableNotFound otherwise.
func (d *Database) Table(name string) (*Table, error) {
	full, err := types.ResolveTableName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}
	for _, t := range d.Tables() {
		if t.Name() == full {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", types.ErrTableNotFound, name)
}

// Init creates every relation that does not exist yet. Repeated calls against
// the same file are no-ops. The parent directory is created if needed.
func (d *Database) Init() error {
	if dir := filepath.Dir(d.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
	}
	for _, t := range d.Tables() {
		ok, err := t.Exists()
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := t.Create(); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes each existing table's name followed by its rows, one per line.
// The output is diagnostic and not meant to be parsed.
func (d *Database) Dump(w io.Writer) error {
	for _, t := range d.Tables() {
		ok, err := t.Exists()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(w, "Table(%s):\n", t.Name())
		for row, err := range t.Dump() {
			if err != nil {
				return err
			}
			fmt.Fprintln(w, t.FormatRow(row))
		}
	}
	return nil
}
