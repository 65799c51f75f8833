package repository

import (
	"context"

	"foodShare/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ListingRepositoryI defines operations on Listing entities.
type ListingRepositoryI interface {
	Create(ctx context.Context, l *models.Listing) (*models.Listing, error)
	ListByOwner(ctx context.Context, username string) ([]models.Listing, error)
	Search(ctx context.Context, area string) ([]models.Listing, error)
	GetOwned(ctx context.Context, id int64, username string) (*models.Listing, error)
	DeleteOwned(ctx context.Context, id int64, username string) (bool, error)
}

var (
	_ UserRepositoryI    = (*UserRepository)(nil)
	_ ListingRepositoryI = (*ListingRepository)(nil)
)
