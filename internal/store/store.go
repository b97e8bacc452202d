// Package store provides the key-filtered record store over a relational database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by FindOne when no row matches the filter.
var ErrNotFound = errors.New("record not found")

// DefaultLimit caps FindMany when the caller passes no limit.
const DefaultLimit = 1000

// Record maps column names to values.
type Record map[string]any

// Filter is a conjunction of column = value predicates.
type Filter map[string]any

// Store is the CRUD contract used by the repositories.
// Each call commits on its own; there are no multi-call transactions.
type Store interface {
	Insert(ctx context.Context, table string, rec Record) error
	FindOne(ctx context.Context, table string, filter Filter) (Record, error)
	FindMany(ctx context.Context, table string, filter Filter, limit int) ([]Record, error)
	Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error)
	Delete(ctx context.Context, table string, filter Filter) (int64, error)
	Count(ctx context.Context, table string, filter Filter) (int64, error)
}

// Dialect selects placeholder syntax.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the database named by url. URLs starting with
// postgres:// or postgresql:// use pgx; anything else is a SQLite file path.
func Open(ctx context.Context, url string) (*SQLStore, error) {
	driver, dsn, dialect := "sqlite3", url, DialectSQLite
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		driver, dialect = "pgx", DialectPostgres
	} else {
		dsn = sqliteDSN(url)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Insert adds one row.
func (s *SQLStore) Insert(ctx context.Context, table string, rec Record) error {
	if err := checkIdent(table); err != nil {
		return err
	}
	if len(rec) == 0 {
		return fmt.Errorf("insert into %s: empty record", table)
	}

	cols := sortedKeys(rec)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		if err := checkIdent(col); err != nil {
			return err
		}
		placeholders[i] = s.placeholder(i + 1)
		args[i] = normalize(rec[col])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ","), strings.Join(placeholders, ","))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// FindOne returns the first row matching filter or ErrNotFound.
func (s *SQLStore) FindOne(ctx context.Context, table string, filter Filter) (Record, error) {
	rows, err := s.FindMany(ctx, table, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// FindMany returns up to limit rows matching filter. An empty filter matches all rows.
func (s *SQLStore) FindMany(ctx context.Context, table string, filter Filter, limit int) ([]Record, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	where, args, err := s.where(filter, 1)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s%s LIMIT %d", table, where, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}

	var out []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}

		rec := make(Record, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", table, err)
	}
	return out, nil
}

// Update sets the patch columns on every row matching filter and
// returns the number of rows matched.
func (s *SQLStore) Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		return 0, fmt.Errorf("update %s: empty patch", table)
	}

	cols := sortedKeys(patch)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filter))
	for i, col := range cols {
		if err := checkIdent(col); err != nil {
			return 0, err
		}
		sets[i] = col + "=" + s.placeholder(i+1)
		args = append(args, normalize(patch[col]))
	}

	where, whereArgs, err := s.where(filter, len(cols)+1)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ","), where)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Delete removes rows matching filter and returns how many were removed.
func (s *SQLStore) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, fmt.Errorf("delete from %s: refusing to delete without a filter", table)
	}

	where, args, err := s.where(filter, 1)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s%s", table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Count returns the number of rows matching filter.
func (s *SQLStore) Count(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	where, args, err := s.where(filter, 1)
	if err != nil {
		return 0, err
	}

	var n int64
	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where), args...)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// where renders " WHERE a=? AND b=?" with placeholders numbered from start.
func (s *SQLStore) where(filter Filter, start int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	cols := sortedKeys(filter)
	clauses := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		clauses[i] = col + "=" + s.placeholder(start+i)
		args[i] = normalize(filter[col])
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000"

// sqliteDSN appends the connection parameters to a file path that may
// already carry a query string.
func sqliteDSN(path string) string {
	switch {
	case strings.HasSuffix(path, "?"), strings.HasSuffix(path, "&"):
		return path + sqliteParams
	case strings.Contains(path, "?"):
		return path + "&" + sqliteParams
	default:
		return path + "?" + sqliteParams
	}
}

func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func checkIdent(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// normalize maps booleans onto the 0/1 integers the schema stores.
func normalize(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
