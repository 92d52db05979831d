package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/mesh-intelligence/banana/pkg/types"
)

// maxJSONLLine bounds a single exported row; commit messages can be long.
const maxJSONLLine = 16 << 20

// JSONLFile returns the export file name for a relation, e.g. "_commit.jsonl".
func JSONLFile(table string) string {
	return table + ".jsonl"
}

// ExportJSONL writes every existing table to dir/<relation>.jsonl, one JSON
// object per row, replacing each file atomically. Returns the files written.
//
// The format carries text and numbers only: []byte values are written as
// text, and a float with no fractional part reads back as an integer.
func (d *Database) ExportJSONL(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var written []string
	for _, t := range d.Tables() {
		ok, err := t.Exists()
		if err != nil {
			return written, err
		}
		if !ok {
			continue
		}

		path := filepath.Join(dir, JSONLFile(t.Name()))
		err = replaceFile(path, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetEscapeHTML(false)
			for row, err := range t.Dump() {
				if err != nil {
					return err
				}
				if err := enc.Encode(exportRow(row)); err != nil {
					return fmt.Errorf("table %s: encoding row: %w", t.Name(), err)
				}
			}
			return nil
		})
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// ImportJSONL inserts the rows of dir/<relation>.jsonl into each table,
// creating missing tables first. Missing files are skipped. System columns in
// the file are ignored and re-stamped. An empty string in a non-unique column
// is the absent-column default and is left for Insert to restore; rows whose
// unique columns are already present are skipped. Returns the number of rows
// inserted per relation.
func (d *Database) ImportJSONL(dir string) (map[string]int, error) {
	if err := d.Init(); err != nil {
		return nil, err
	}

	inserted := make(map[string]int)
	for _, t := range d.Tables() {
		path := filepath.Join(dir, JSONLFile(t.Name()))
		err := scanJSONL(path, func(rec []byte) error {
			row, err := decodeRow(rec)
			if err != nil {
				return err
			}
			t.importable(row)

			if _, err := t.Insert(row); err != nil {
				if errors.Is(err, types.ErrDuplicateRow) {
					slog.Debug("import skipped existing row", "table", t.Name(), "err", err)
					return nil
				}
				return err
			}
			inserted[t.Name()]++
			return nil
		})
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

// importable strips the columns Insert owns or defaults from an exported row.
func (t *Table) importable(row types.Row) {
	for _, c := range types.SystemCols {
		delete(row, c)
	}
	for k, v := range row {
		if v == "" && !slices.Contains(t.spec.UniqueCols, k) {
			delete(row, k)
		}
	}
}

// exportRow returns row with blob values rendered as text.
func exportRow(row types.Row) types.Row {
	out := make(types.Row, len(row))
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		out[k] = v
	}
	return out
}

// decodeRow unmarshals a JSON object, keeping integers as int64.
func decodeRow(rec []byte) (types.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(rec))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding row: %w", err)
	}
	row := make(types.Row, len(raw))
	for k, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			row[k] = v
			continue
		}
		if i, err := n.Int64(); err == nil {
			row[k] = i
			continue
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", k, err)
		}
		row[k] = f
	}
	return row, nil
}

// scanJSONL calls fn with each non-blank line of the file at path. Lines that
// are not valid JSON are logged and skipped. An error from fn stops the scan
// and is returned with the file and line number.
func scanJSONL(path string, fn func(rec []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(nil, maxJSONLLine)
	for line := 1; sc.Scan(); line++ {
		rec := bytes.TrimSpace(sc.Bytes())
		if len(rec) == 0 {
			continue
		}
		if !json.Valid(rec) {
			slog.Warn("skipping malformed JSONL line", "path", path, "line", line)
			continue
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// replaceFile writes path through fill into a sibling temp file, syncs it and
// renames it over path. On any failure path is left untouched and the temp
// file is removed.
func replaceFile(path string, fill func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fill(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
