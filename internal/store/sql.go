package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx postgres driver registered as 'pgx'
	_ "github.com/mattn/go-sqlite3"    // sqlite driver registered as 'sqlite3'

	"github.com/zhouzirui/lingua-channel/internal/model/chat"
)

// Dialect selects driver name and SQL flavour.
type Dialect string

const (
	DialectPostgres Dialect = "pgx"
	DialectSQLite   Dialect = "sqlite3"
)

// transcriptRowID is the single row holding the serialized transcript.
const transcriptRowID = 1

// SQLStore keeps the transcript as one JSON document in a one-row table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL connects, migrates and returns a SQL-backed store.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}

	s, err := NewSQLStore(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an existing connection and applies the schema.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if dialect == DialectSQLite {
		// sqlite serializes writers; one connection also keeps ":memory:" databases shared.
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db, dialect: dialect}
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate applies idempotent schema changes.
func (s *SQLStore) Migrate(ctx context.Context) error {
	updatedAt := "TIMESTAMPTZ NOT NULL DEFAULT NOW()"
	if s.dialect == DialectSQLite {
		updatedAt = "TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"
	}

	stmt := `CREATE TABLE IF NOT EXISTS channel_transcript (
		id INTEGER PRIMARY KEY,
		messages TEXT NOT NULL,
		updated_at ` + updatedAt + `
	)`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to migrate transcript table: %w", err)
	}

	// Seed the row so Update always has something to lock.
	seed := s.rebind(`INSERT INTO channel_transcript (id, messages) VALUES ($1, '[]') ON CONFLICT (id) DO NOTHING`)
	if _, err := s.db.ExecContext(ctx, seed, transcriptRowID); err != nil {
		return fmt.Errorf("failed to seed transcript row: %w", err)
	}
	return nil
}

// Load reads the transcript row; no row is an empty transcript.
func (s *SQLStore) Load(ctx context.Context) ([]chat.Message, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT messages FROM channel_transcript WHERE id = $1`), transcriptRowID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []chat.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	return decodeMessages([]byte(raw))
}

// Save replaces the transcript row.
func (s *SQLStore) Save(ctx context.Context, messages []chat.Message) error {
	return s.save(ctx, s.db, messages)
}

// Update locks the transcript row, applies fn and writes the result in one
// transaction. On postgres the row is held with SELECT ... FOR UPDATE; sqlite
// already serializes writers on the database file.
func (s *SQLStore) Update(ctx context.Context, fn UpdateFunc) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transcript transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT messages FROM channel_transcript WHERE id = $1`
	if s.dialect == DialectPostgres {
		query += ` FOR UPDATE`
	}

	var (
		raw     string
		current []chat.Message
		loadErr error
	)
	switch scanErr := tx.QueryRowContext(ctx, s.rebind(query), transcriptRowID).Scan(&raw); {
	case errors.Is(scanErr, sql.ErrNoRows):
		current = []chat.Message{}
	case scanErr != nil:
		return fmt.Errorf("failed to load transcript: %w", scanErr)
	default:
		current, loadErr = decodeMessages([]byte(raw))
		if loadErr != nil {
			current = []chat.Message{}
		}
	}

	next, err := fn(current, loadErr)
	if err != nil {
		return err
	}
	if err = s.save(ctx, tx, next); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transcript: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) save(ctx context.Context, db execer, messages []chat.Message) error {
	data, err := json.Marshal(nonNil(messages))
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	stmt := s.rebind(`INSERT INTO channel_transcript (id, messages, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET messages = excluded.messages, updated_at = excluded.updated_at`)
	if _, err := db.ExecContext(ctx, stmt, transcriptRowID, string(data)); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind turns $N placeholders into ? for sqlite.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectSQLite {
		return query
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
