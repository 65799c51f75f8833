package models

// User represents a registered account.
// It maps to the `users` table in the users store.
// Password is stored verbatim.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
}
