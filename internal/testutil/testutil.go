package testutil

import (
	"database/sql"
	"testing"

	"foodShare/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database with the given schema applied.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string, schema db.Schema) *sql.DB {
	t.Helper()
	// Shared cache so that every connection in the pool sees the same database.
	d, err := db.Open("file:"+name+"_"+string(schema)+"?mode=memory&cache=shared", schema)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// OpenInMemoryStores opens in-memory users and listings databases.
func OpenInMemoryStores(t *testing.T, name string) *db.Stores {
	t.Helper()
	return &db.Stores{
		Users:    OpenInMemoryDB(t, name, db.UsersSchema),
		Listings: OpenInMemoryDB(t, name, db.ListingsSchema),
	}
}
