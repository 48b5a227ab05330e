package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/primo?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func TestMySQLStore(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	store := NewMySQLStore(db, "")
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	runStoreContract(t, func(t *testing.T) testStore {
		prefix := "test-" + t.Name() + ":"
		db.ExecContext(context.Background(), `DELETE FROM documents WHERE doc_key LIKE ?`, prefix+"%")
		db.ExecContext(context.Background(), `DELETE FROM claims WHERE claim_key LIKE ?`, prefix+"%")
		return NewMySQLStore(db, prefix)
	})
}

func TestMySQLStore_VersionIncrementsOnOverwrite(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLStore(db, "version-test:")
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	db.ExecContext(ctx, `DELETE FROM documents WHERE doc_key = 'version-test:doc'`)

	store.Put(ctx, "doc", counter{N: 1})
	store.Put(ctx, "doc", counter{N: 2})

	var version int
	db.QueryRowContext(ctx, `SELECT version FROM documents WHERE doc_key = 'version-test:doc'`).Scan(&version)
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
}
