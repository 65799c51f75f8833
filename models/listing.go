package models

import "fmt"

// Listing is a posted offer of surplus food.
// Username holds the owner's username; it is not a foreign key since users
// and listings live in separate database files.
type Listing struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Area     string `db:"area" json:"area"`
	Food     string `db:"food" json:"food"`
	Quantity int    `db:"quantity" json:"quantity"`
	Contact  string `db:"contact" json:"contact"`
}

// String renders the listing the way the menu prints it.
func (l Listing) String() string {
	return fmt.Sprintf("ID: %d, Area: %s, Food: %s, Quantity: %d, Contact: %s", l.ID, l.Area, l.Food, l.Quantity, l.Contact)
}
