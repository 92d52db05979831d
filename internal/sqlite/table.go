package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/banana/pkg/types"
)

// Table is the generic CRUD engine over one relation. It holds no connection:
// every operation opens the database file, runs its statements on a single
// connection, and closes it before returning.
type Table struct {
	path          string
	spec          types.TableSpec
	cols          []string
	busyTimeoutMS int
}

// NewTable binds spec to the database file at path. No I/O happens until the
// first operation.
func NewTable(path string, spec types.TableSpec) *Table {
	return &Table{
		path:          path,
		spec:          spec,
		cols:          spec.AllCols(),
		busyTimeoutMS: types.DefaultBusyTimeoutMS,
	}
}

// Name returns the relation name.
func (t *Table) Name() string {
	return t.spec.Name
}

// Columns returns the full ordered column list, system columns first.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// Spec returns the table specification.
func (t *Table) Spec() types.TableSpec {
	return t.spec
}

// Exists reports whether the relation is present in the SQLite catalog.
func (t *Table) Exists() (bool, error) {
	t.trace("exists")

	db, err := t.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	var name string
	err = runQueryRow(db,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", t.spec.Name).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("table %s: checking catalog: %w", t.spec.Name, err)
	}
	return true, nil
}

// Create issues CREATE TABLE with every column untyped. It fails with
// ErrSchema when the relation already exists; callers check Exists first.
func (t *Table) Create() error {
	t.trace("create")

	db, err := t.open()
	if err != nil {
		return err
	}
	defer db.Close()

	query := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.spec.Name), joinIdents(t.cols))
	if _, err := runExec(db, query); err != nil {
		return fmt.Errorf("table %s: create: %w: %w", t.spec.Name, types.ErrSchema, err)
	}
	return nil
}

// Insert validates values, rejects duplicates of the unique columns, stamps
// the system columns and appends one row. Columns absent from values are
// stored as the empty string. Returns the stored row.
//
// The duplicate check and the insert share a connection but not a
// transaction; concurrent writers on the same unique key can race.
func (t *Table) Insert(values types.Row) (types.Row, error) {
	t.trace("insert", "values", values)

	vals, err := t.sanitize(values, false)
	if err != nil {
		return nil, err
	}
	for _, c := range t.spec.UniqueCols {
		if _, ok := vals[c]; !ok {
			return nil, fmt.Errorf("table %s: column %s: %w", t.spec.Name, c, types.ErrMissingColumn)
		}
	}

	db, err := t.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := t.checkRowExists(db, vals); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	row := make(types.Row, len(t.cols))
	for _, c := range t.cols {
		v, ok := vals[c]
		if !ok {
			v = ""
		}
		row[c] = v
	}
	row[types.ColID] = generateUUID()
	row[types.ColCreatedAt] = now
	row[types.ColUpdatedAt] = now

	args := make([]any, len(t.cols))
	for i, c := range t.cols {
		args[i] = row[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(t.spec.Name), joinIdents(t.cols), placeholders(len(t.cols)))
	if _, err := runExec(db, query, args...); err != nil {
		return nil, fmt.Errorf("table %s: inserting row: %w", t.spec.Name, err)
	}
	return row, nil
}

// Select returns the rows whose columns equal every value in filter. An empty
// filter matches all rows. Filter keys and values are validated before the
// sequence is returned; the query itself runs each time the sequence is
// ranged over, in storage order, on its own connection.
func (t *Table) Select(filter types.Row) (iter.Seq2[types.Row, error], error) {
	t.trace("select", "filter", filter)

	vals, err := t.sanitize(filter, true)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, c := range t.cols {
		if _, ok := vals[c]; ok {
			keys = append(keys, c)
		}
	}
	where, args := predicate(keys, vals)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", joinIdents(t.cols), quoteIdent(t.spec.Name), where)

	return func(yield func(types.Row, error) bool) {
		db, err := t.open()
		if err != nil {
			yield(nil, err)
			return
		}
		defer db.Close()

		rows, err := runQuery(db, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("table %s: selecting rows: %w", t.spec.Name, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			row, err := t.scanRow(rows)
			if err != nil {
				yield(nil, fmt.Errorf("table %s: scanning row: %w", t.spec.Name, err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("table %s: iterating rows: %w", t.spec.Name, err))
		}
	}, nil
}

// Dump returns every row of the table in storage order.
func (t *Table) Dump() iter.Seq2[types.Row, error] {
	t.trace("dump")

	seq, err := t.Select(nil)
	if err != nil {
		return func(yield func(types.Row, error) bool) {
			yield(nil, err)
		}
	}
	return seq
}

// Count returns the number of rows matching filter.
func (t *Table) Count(filter types.Row) (int, error) {
	t.trace("count", "filter", filter)

	vals, err := t.sanitize(filter, true)
	if err != nil {
		return 0, err
	}
	var keys []string
	for _, c := range t.cols {
		if _, ok := vals[c]; ok {
			keys = append(keys, c)
		}
	}
	where, args := predicate(keys, vals)

	db, err := t.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", quoteIdent(t.spec.Name), where)
	if err := runQueryRow(db, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("table %s: counting rows: %w", t.spec.Name, err)
	}
	return n, nil
}

// FormatRow renders row as col=value pairs in column order. Columns the row
// does not carry are skipped.
func (t *Table) FormatRow(row types.Row) string {
	var b strings.Builder
	for _, c := range t.cols {
		v, ok := row[c]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c)
		b.WriteByte('=')
		switch x := v.(type) {
		case string:
			b.WriteString(strconv.Quote(x))
		case []byte:
			b.WriteString(strconv.Quote(string(x)))
		default:
			fmt.Fprint(&b, x)
		}
	}
	return b.String()
}

// sanitize checks that every key is a declared column and that every value
// under an _id column is a commit hash. Values are normalized to the driver's
// scalar types. System columns are rejected unless allowSystem is set.
func (t *Table) sanitize(values types.Row, allowSystem bool) (types.Row, error) {
	out := make(types.Row, len(values))
	for key, val := range values {
		if !t.spec.HasColumn(key) || (!allowSystem && types.IsSystemColumn(key)) {
			return nil, fmt.Errorf("table %s: column %s: %w", t.spec.Name, key, types.ErrInvalidColumn)
		}
		if strings.HasSuffix(key, types.IDSuffix) {
			s, ok := val.(string)
			if !ok || !types.IsCommitID(s) {
				return nil, fmt.Errorf("table %s: %s=%v: %w", t.spec.Name, key, val, types.ErrInvalidID)
			}
		}
		v, err := driver.DefaultParameterConverter.ConvertValue(val)
		if err != nil {
			return nil, fmt.Errorf("table %s: column %s: %w: %w", t.spec.Name, key, types.ErrInvalidColumn, err)
		}
		out[key] = v
	}
	return out, nil
}

// checkRowExists fails with ErrDuplicateRow when a row already carries the
// same values for every unique column.
func (t *Table) checkRowExists(db *sql.DB, vals types.Row) error {
	if len(t.spec.UniqueCols) == 0 {
		return nil
	}

	where, args := predicate(t.spec.UniqueCols, vals)
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s LIMIT 1", quoteIdent(t.spec.Name), where)

	var one int
	err := runQueryRow(db, query, args...).Scan(&one)
	switch {
	case err == nil:
		return fmt.Errorf("table %s: %s -- %v: %w", t.spec.Name, where, args, types.ErrDuplicateRow)
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return fmt.Errorf("table %s: checking row: %w", t.spec.Name, err)
	}
}

func (t *Table) scanRow(rows *sql.Rows) (types.Row, error) {
	vals := make([]any, len(t.cols))
	ptrs := make([]any, len(t.cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(types.Row, len(t.cols))
	for i, c := range t.cols {
		row[c] = vals[i]
	}
	return row, nil
}

func (t *Table) trace(op string, args ...any) {
	slog.Debug("table op", append([]any{"table", t.spec.Name, "op", op}, args...)...)
}

// predicate builds a conjunctive equality clause over cols with bound
// placeholders. No columns yields TRUE.
func predicate(cols []string, vals types.Row) (string, []any) {
	if len(cols) == 0 {
		return "TRUE", nil
	}
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = quoteIdent(c) + " = ?"
		args[i] = vals[c]
	}
	return strings.Join(parts, " AND "), args
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func joinIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
