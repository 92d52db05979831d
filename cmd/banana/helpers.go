// Shared helpers for banana CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/banana/internal/sqlite"
	"github.com/mesh-intelligence/banana/pkg/types"
)

// openDatabase returns the store named by storeConfig. With initSchema set it
// also creates any missing tables.
func openDatabase(initSchema bool) (*sqlite.Database, error) {
	d, err := sqlite.Open(storeConfig)
	if err != nil {
		return nil, err
	}
	if initSchema {
		if err := d.Init(); err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	return d, nil
}

// parseAssignments turns key=value arguments into a Row. Values of columns
// ending in _at are Unix timestamps and parsed as integers; everything else
// is kept as text.
func parseAssignments(args []string) (types.Row, error) {
	row := make(types.Row, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: invalid assignment %q (expected key=value)", errUsage, arg)
		}
		if strings.HasSuffix(key, "_at") {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be an integer timestamp: %q", errUsage, key, value)
			}
			row[key] = n
			continue
		}
		row[key] = value
	}
	return row, nil
}

// writeRows prints rows as formatted lines, or as a JSON array when the
// --json flag is set.
func writeRows(w io.Writer, t *sqlite.Table, rows []types.Row) error {
	if flagJSON {
		if rows == nil {
			rows = []types.Row{}
		}
		out, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal rows: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, t.FormatRow(r)); err != nil {
			return err
		}
	}
	return nil
}
