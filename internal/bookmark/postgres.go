package bookmark

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// PostgresStore keeps bookmarks in a PostgreSQL table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database and creates the schema if needed
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL bookmark store connected")
	return store, nil
}

func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		position BIGSERIAL,
		namespace VARCHAR(255) NOT NULL,
		news_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (namespace, news_id)
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_namespace_position ON bookmarks(namespace, position);
	`

	if _, err := ps.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (ps *PostgresStore) List(ctx context.Context, namespace string) ([]string, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT news_id FROM bookmarks WHERE namespace = $1 ORDER BY position`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (ps *PostgresStore) Add(ctx context.Context, namespace, id string) error {
	if err := validate(namespace, id); err != nil {
		return err
	}

	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO bookmarks (namespace, news_id)
		VALUES ($1, $2)
		ON CONFLICT (namespace, news_id) DO NOTHING
	`, namespace, id)
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Remove(ctx context.Context, namespace, id string) error {
	if err := validate(namespace, id); err != nil {
		return err
	}

	if _, err := ps.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE namespace = $1 AND news_id = $2`, namespace, id); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Contains(ctx context.Context, namespace, id string) (bool, error) {
	var exists bool
	err := ps.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE namespace = $1 AND news_id = $2)`,
		namespace, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return exists, nil
}

// Toggle holds a per bookmark advisory lock for the transaction, so concurrent
// toggles of the same id alternate instead of both reading "absent"
func (ps *PostgresStore) Toggle(ctx context.Context, namespace, id string) (bool, error) {
	if err := validate(namespace, id); err != nil {
		return false, err
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`, namespace, id); err != nil {
		return false, fmt.Errorf("failed to lock bookmark: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE namespace = $1 AND news_id = $2`, namespace, id)
	if err != nil {
		return false, fmt.Errorf("failed to toggle bookmark: %w", err)
	}

	removed, _ := res.RowsAffected()
	bookmarked := removed == 0
	if bookmarked {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bookmarks (namespace, news_id)
			VALUES ($1, $2)
			ON CONFLICT (namespace, news_id) DO NOTHING
		`, namespace, id); err != nil {
			return false, fmt.Errorf("failed to toggle bookmark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit toggle: %w", err)
	}
	return bookmarked, nil
}

func (ps *PostgresStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
