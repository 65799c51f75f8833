// Package foodshare implements account registration, login and the listing
// operations available to a logged-in user.
package foodshare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"foodShare/internal/auth"
	"foodShare/models"
	"foodShare/repository"
)

var (
	// ErrUsernameTaken is returned by Register when the username already exists.
	ErrUsernameTaken = repository.ErrUsernameTaken
	// ErrMissingCredentials is returned when username or password is blank.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrInvalidCredentials is returned by Login when no account matches.
	ErrInvalidCredentials = errors.New("wrong username or password")
	// ErrInvalidListing is returned when a listing field is blank or the quantity is not positive.
	ErrInvalidListing = errors.New("invalid listing")
	// ErrListingNotFound is returned when the listing does not exist or belongs to someone else.
	ErrListingNotFound = errors.New("listing not found")
)

// ListingInput carries the user-entered fields of a new listing.
type ListingInput struct {
	Area     string
	Food     string
	Quantity int
	Contact  string
}

func (in ListingInput) normalize() (ListingInput, error) {
	out := ListingInput{
		Area:     strings.TrimSpace(in.Area),
		Food:     strings.TrimSpace(in.Food),
		Quantity: in.Quantity,
		Contact:  strings.TrimSpace(in.Contact),
	}
	switch {
	case out.Area == "":
		return out, fmt.Errorf("%w: area is required", ErrInvalidListing)
	case out.Food == "":
		return out, fmt.Errorf("%w: food is required", ErrInvalidListing)
	case out.Contact == "":
		return out, fmt.Errorf("%w: contact is required", ErrInvalidListing)
	case out.Quantity < 1:
		return out, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidListing)
	}
	return out, nil
}

// Service bundles the repositories behind the menu.
type Service struct {
	Users    repository.UserRepositoryI
	Listings repository.ListingRepositoryI
}

func NewService(users repository.UserRepositoryI, listings repository.ListingRepositoryI) *Service {
	return &Service{Users: users, Listings: listings}
}

// Register creates the account and returns the principal for the new session.
func (s *Service) Register(ctx context.Context, username, password string) (*auth.Principal, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.Users.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			log.Debug("registration rejected", "username", username)
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Info("user registered", "username", u.Username, "id", u.ID)
	return &auth.Principal{UserID: u.ID, Username: u.Username}, nil
}

// Login checks the credentials and returns the principal carrying the user's id.
func (s *Service) Login(ctx context.Context, username, password string) (*auth.Principal, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if u == nil {
		log.Debug("login failed", "username", username)
		return nil, ErrInvalidCredentials
	}
	log.Info("user logged in", "username", u.Username, "id", u.ID)
	return &auth.Principal{UserID: u.ID, Username: u.Username}, nil
}

// resolveCurrentUser looks the session principal up again so that a session
// whose account no longer exists is treated as logged out.
func (s *Service) resolveCurrentUser(ctx context.Context) (*auth.Principal, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || u.Username != p.Username {
		log.Warn("session user not found", "id", p.UserID, "username", p.Username)
		return nil, auth.ErrNoSession
	}
	return &auth.Principal{UserID: u.ID, Username: u.Username}, nil
}

// AddListing posts a listing owned by the session user.
func (s *Service) AddListing(ctx context.Context, in ListingInput) (*models.Listing, error) {
	p, err := s.resolveCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}
	l, err := s.Listings.Create(ctx, &models.Listing{
		Username: p.Username,
		Area:     in.Area,
		Food:     in.Food,
		Quantity: in.Quantity,
		Contact:  in.Contact,
	})
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	log.Info("listing added", "id", l.ID, "owner", l.Username)
	return l, nil
}

// MyListings returns the listings owned by the session user.
func (s *Service) MyListings(ctx context.Context) ([]models.Listing, error) {
	p, err := s.resolveCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.Listings.ListByOwner(ctx, p.Username)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return out, nil
}

// SearchListings returns every listing whose area contains area; all listings
// when area is empty. It does not need a session.
func (s *Service) SearchListings(ctx context.Context, area string) ([]models.Listing, error) {
	out, err := s.Listings.Search(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return out, nil
}

// DeleteListing removes a listing owned by the session user. Listings of other
// users and unknown ids yield ErrListingNotFound and nothing is changed.
func (s *Service) DeleteListing(ctx context.Context, id int64) error {
	p, err := s.resolveCurrentUser(ctx)
	if err != nil {
		return err
	}
	ok, err := s.Listings.DeleteOwned(ctx, id, p.Username)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if !ok {
		log.Debug("delete rejected", "id", id, "username", p.Username)
		return ErrListingNotFound
	}
	log.Info("listing deleted", "id", id, "owner", p.Username)
	return nil
}
