package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/primo-pizza/internal/port"
)

const mysqlErrDeadlock = 1213

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	doc_key    VARCHAR(191) NOT NULL PRIMARY KEY,
	body       JSON         NOT NULL,
	version    BIGINT       NOT NULL DEFAULT 0,
	updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

const claimsSchema = `
CREATE TABLE IF NOT EXISTS claims (
	claim_key  VARCHAR(191) NOT NULL PRIMARY KEY,
	expires_at DATETIME(3)  NOT NULL
)`

const upsertDocument = `
INSERT INTO documents (doc_key, body, version) VALUES (?, ?, 0)
ON DUPLICATE KEY UPDATE body = VALUES(body), version = version + 1`

type MySQLStore struct {
	db         *sql.DB
	prefix     string
	maxRetries int
}

func NewMySQLStore(db *sql.DB, prefix string) *MySQLStore {
	return &MySQLStore{db: db, prefix: prefix, maxRetries: defaultTxRetries}
}

// Migrate creates the tables the store needs.
func (m *MySQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range []string{schema, claimsSchema} {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (m *MySQLStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var body []byte
	err := m.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE doc_key = ?`, m.prefix+key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query %s: %w", key, err)
	}
	return true, decode(key, body, dst)
}

func (m *MySQLStore) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, err := m.db.ExecContext(ctx, upsertDocument, m.prefix+key, data); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Atomic locks the rows it reads with SELECT ... FOR UPDATE and writes every
// staged document in the same transaction. Deadlocks are retried.
func (m *MySQLStore) Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx port.Documents) error) error {
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		err := m.atomicOnce(ctx, keys, fn)

		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlErrDeadlock {
			continue
		}
		return err
	}

	return port.ErrConflict
}

func (m *MySQLStore) atomicOnce(ctx context.Context, keys []string, fn func(ctx context.Context, tx port.Documents) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	staged := newStagedTx(m.prefix, keys, func(ctx context.Context, fullKey string) ([]byte, bool, error) {
		var body []byte
		err := tx.QueryRowContext(ctx, `SELECT body FROM documents WHERE doc_key = ? FOR UPDATE`, fullKey).Scan(&body)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return body, err == nil, err
	})

	if err := fn(ctx, staged); err != nil {
		return err
	}

	err = staged.each(func(fullKey string, data []byte) error {
		if _, err := tx.ExecContext(ctx, upsertDocument, fullKey, data); err != nil {
			return fmt.Errorf("upsert %s: %w", fullKey, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (m *MySQLStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	if _, err := m.db.ExecContext(ctx, `DELETE FROM claims WHERE claim_key = ? AND expires_at <= ?`, m.prefix+key, now); err != nil {
		return false, fmt.Errorf("expire claim: %w", err)
	}

	result, err := m.db.ExecContext(ctx, `INSERT IGNORE INTO claims (claim_key, expires_at) VALUES (?, ?)`,
		m.prefix+key, now.Add(ttl))
	if err != nil {
		return false, fmt.Errorf("insert claim: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows == 1, nil
}

func (m *MySQLStore) Release(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM claims WHERE claim_key = ?`, m.prefix+key)
	return err
}

func (m *MySQLStore) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}
