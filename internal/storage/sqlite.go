package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"sentry_telegram/internal/catalog"
	"sentry_telegram/internal/model"
	"sentry_telegram/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db      *sql.DB
	catalog *catalog.Catalog
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
// Key labels fall back to cat when no explicit label is stored.
func NewSQLite(dsn string, cat *catalog.Catalog) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dsn == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if cat == nil {
		cat = catalog.Default()
	}
	return &SQLite{db: db, catalog: cat}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ProjectOptions returns the stored options of a project. Unknown projects
// yield an empty map.
func (s *SQLite) ProjectOptions(ctx context.Context, project string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM project_options WHERE project = ?`, project,
	)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	opts := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		opts[k] = v
	}
	return opts, rows.Err()
}

// SetProjectOptions replaces all options of a project.
func (s *SQLite) SetProjectOptions(ctx context.Context, project string, opts map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_options WHERE project = ?`, project); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	for k, v := range opts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_options (project, key, value, updated_at) VALUES (?, ?, ?, ?)`,
			project, k, v, now,
		); err != nil {
			return fmt.Errorf("insert option %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// SetKeyLabel records a tag key for a project. An empty label keeps the key
// known but lets the catalog supply the label.
func (s *SQLite) SetKeyLabel(ctx context.Context, project, key, label string) error {
	return upsertKeyLabel(ctx, s.db, project, key, label)
}

// SetValueLabel records a display label for a tag value.
func (s *SQLite) SetValueLabel(ctx context.Context, project string, tag model.Tag, label string) error {
	return upsertValueLabel(ctx, s.db, project, tag, label)
}

// SetLabels records key and value labels of a project in one transaction.
// Either all labels are stored or none.
func (s *SQLite) SetLabels(ctx context.Context, project string, keys map[string]string, values map[model.Tag]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for key, label := range keys {
		if err := upsertKeyLabel(ctx, tx, project, key, label); err != nil {
			return err
		}
	}
	for tag, label := range values {
		if err := upsertValueLabel(ctx, tx, project, tag, label); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertKeyLabel(ctx context.Context, ex execer, project, key, label string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO tag_keys (project, key, label) VALUES (?, ?, ?)
		 ON CONFLICT (project, key) DO UPDATE SET label = excluded.label`,
		project, key, nullString(label),
	)
	if err != nil {
		return fmt.Errorf("upsert tag key %s: %w", key, err)
	}
	return nil
}

func upsertValueLabel(ctx context.Context, ex execer, project string, tag model.Tag, label string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO tag_values (project, key, value, label) VALUES (?, ?, ?, ?)
		 ON CONFLICT (project, key, value) DO UPDATE SET label = excluded.label`,
		project, tag.Key, tag.Value, nullString(label),
	)
	if err != nil {
		return fmt.Errorf("upsert tag value %s: %w", tag.Key, err)
	}
	return nil
}

// KeyLabels returns labels for the keys of project that are known to the
// store.
func (s *SQLite) KeyLabels(ctx context.Context, project string, keys []string) (map[string]string, error) {
	labels := map[string]string{}
	if len(keys) == 0 {
		return labels, nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, project)
	for _, k := range keys {
		args = append(args, k)
	}
	query := `SELECT key, label FROM tag_keys WHERE project = ? AND key IN (` + placeholders(len(keys)) + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tag keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var label sql.NullString
		if err := rows.Scan(&key, &label); err != nil {
			return nil, fmt.Errorf("scan tag key: %w", err)
		}
		labels[key] = s.catalog.Label(key, label.String)
	}
	return labels, rows.Err()
}

// ValueLabels returns labels for the given key/value pairs of project.
// Pairs without a stored label are omitted.
func (s *SQLite) ValueLabels(ctx context.Context, project string, pairs []model.Tag) (map[model.Tag]string, error) {
	labels := map[model.Tag]string{}
	if len(pairs) == 0 {
		return labels, nil
	}

	conds := make([]string, 0, len(pairs))
	args := make([]any, 0, 2*len(pairs)+1)
	args = append(args, project)
	for _, p := range pairs {
		conds = append(conds, "(key = ? AND value = ?)")
		args = append(args, p.Key, p.Value)
	}
	query := `SELECT key, value, label FROM tag_values
		 WHERE project = ? AND label IS NOT NULL AND (` + strings.Join(conds, " OR ") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tag values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var t model.Tag
		var label string
		if err := rows.Scan(&t.Key, &t.Value, &label); err != nil {
			return nil, fmt.Errorf("scan tag value: %w", err)
		}
		labels[t] = label
	}
	return labels, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
