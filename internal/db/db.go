package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Schema names one of the embedded table definitions under internal/db/schema.
type Schema string

const (
	// UsersSchema creates the `users` table.
	UsersSchema Schema = "users"
	// ListingsSchema creates the `listings` table.
	ListingsSchema Schema = "listings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Open opens (or creates) a local SQLite database file and makes sure the
// table described by schema exists. The definitions use CREATE ... IF NOT EXISTS,
// so opening an existing file leaves its data untouched.
func Open(path string, schema Schema) (*sql.DB, error) {
	if path == "" {
		path = string(schema) + ".db"
	}
	ddl, err := schemaFS.ReadFile("schema/" + string(schema) + ".sql")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", schema, err)
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(string(ddl)); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("create %s table: %w", schema, err)
	}
	return d, nil
}

// Stores bundles the two database handles the application works with.
type Stores struct {
	Users    *sql.DB
	Listings *sql.DB
}

// OpenStores opens the users and listings databases. If the second one fails
// the first is closed again.
func OpenStores(usersPath, listingsPath string) (*Stores, error) {
	users, err := Open(usersPath, UsersSchema)
	if err != nil {
		return nil, fmt.Errorf("open users db: %w", err)
	}
	listings, err := Open(listingsPath, ListingsSchema)
	if err != nil {
		_ = users.Close()
		return nil, fmt.Errorf("open listings db: %w", err)
	}
	return &Stores{Users: users, Listings: listings}, nil
}

// Close closes both handles and returns the first error.
func (s *Stores) Close() error {
	var first error
	for _, d := range []*sql.DB{s.Users, s.Listings} {
		if d == nil {
			continue
		}
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
