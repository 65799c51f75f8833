package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"foodShare/models"
)

const listingColumns = `id, username, area, food, quantity, contact`

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create inserts a listing and sets its generated ID.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	if l == nil {
		return nil, errors.New("listing is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO listings (username, area, food, quantity, contact) VALUES (?,?,?,?,?)`,
		l.Username, l.Area, l.Food, l.Quantity, l.Contact)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	l.ID = id
	return l, nil
}

// ListByOwner returns every listing posted by username, oldest first.
func (r *ListingRepository) ListByOwner(ctx context.Context, username string) ([]models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE username = ? ORDER BY id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListingRows(rows)
}

// Search returns listings whose area contains the given text. An empty area
// returns all listings.
func (r *ListingRepository) Search(ctx context.Context, area string) ([]models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows *sql.Rows
	var err error
	if area == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY id`)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE area LIKE ? ORDER BY id`, "%"+area+"%")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListingRows(rows)
}

// GetOwned fetches the listing with the given id only if username owns it.
func (r *ListingRepository) GetOwned(ctx context.Context, id int64, username string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var l models.Listing
	err := r.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ? AND username = ?`, id, username).
		Scan(&l.ID, &l.Username, &l.Area, &l.Food, &l.Quantity, &l.Contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// DeleteOwned removes the listing if it exists and belongs to username.
// It reports false, leaving the table untouched, when there is no such listing.
func (r *ListingRepository) DeleteOwned(ctx context.Context, id int64, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	var found int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM listings WHERE id = ? AND username = ?`, id, username).Scan(&found)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = ? AND username = ?`, id, username); err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func scanListingRows(rows *sql.Rows) ([]models.Listing, error) {
	var out []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.Username, &l.Area, &l.Food, &l.Quantity, &l.Contact); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
