package foodshare

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodShare/internal/auth"
	"foodShare/internal/testutil"
	"foodShare/models"
	"foodShare/repository"
)

func newTestService(t *testing.T, name string) *Service {
	t.Helper()
	stores := testutil.OpenInMemoryStores(t, name)
	return NewService(repository.NewUserRepository(stores.Users), repository.NewListingRepository(stores.Listings))
}

func sessionCtx(p *auth.Principal) context.Context {
	return auth.WithPrincipal(context.Background(), p)
}

func TestRegister_DuplicateKeepsFirstAccount(t *testing.T) {
	s := newTestService(t, "svcdup")
	ctx := context.Background()

	p, err := s.Register(ctx, "alice", "first")
	require.NoError(t, err)
	assert.NotZero(t, p.UserID)
	assert.Equal(t, "alice", p.Username)

	_, err = s.Register(ctx, "alice", "second")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.Login(ctx, "alice", "first")
	require.NoError(t, err)
	assert.Equal(t, p.UserID, got.UserID)

	_, err = s.Login(ctx, "alice", "second")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_MissingCredentials(t *testing.T) {
	s := newTestService(t, "svcmissing")

	for _, tc := range []struct{ user, pass string }{{"", "pw"}, {"   ", "pw"}, {"bob", ""}} {
		_, err := s.Register(context.Background(), tc.user, tc.pass)
		assert.ErrorIs(t, err, ErrMissingCredentials, "user=%q pass=%q", tc.user, tc.pass)
	}
}

func TestLogin(t *testing.T) {
	s := newTestService(t, "svclogin")
	ctx := context.Background()

	reg, err := s.Register(ctx, "bob", "pw")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "correct credentials", username: "bob", password: "pw"},
		{name: "wrong password", username: "bob", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "carol", password: "pw", wantErr: ErrInvalidCredentials},
		{name: "empty input", username: "", password: "", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reg.UserID, p.UserID)
		})
	}
}

func TestAddListing(t *testing.T) {
	s := newTestService(t, "svcadd")

	_, err := s.AddListing(context.Background(), ListingInput{Area: "a", Food: "f", Quantity: 1, Contact: "c"})
	assert.ErrorIs(t, err, auth.ErrNoSession)

	p, err := s.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	ctx := sessionCtx(p)

	l, err := s.AddListing(ctx, ListingInput{Area: " Downtown ", Food: "bread", Quantity: 4, Contact: "555-1234"})
	require.NoError(t, err)
	assert.NotZero(t, l.ID)
	assert.Equal(t, "alice", l.Username)
	assert.Equal(t, "Downtown", l.Area)

	invalid := []ListingInput{
		{Area: "", Food: "f", Quantity: 1, Contact: "c"},
		{Area: "a", Food: " ", Quantity: 1, Contact: "c"},
		{Area: "a", Food: "f", Quantity: 1, Contact: ""},
		{Area: "a", Food: "f", Quantity: 0, Contact: "c"},
	}
	for _, in := range invalid {
		_, err := s.AddListing(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidListing, "%+v", in)
	}

	mine, err := s.MyListings(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestDeleteListing_OnlyOwner(t *testing.T) {
	s := newTestService(t, "svcdelete")
	alice, err := s.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	bob, err := s.Register(context.Background(), "bob", "pw")
	require.NoError(t, err)

	l, err := s.AddListing(sessionCtx(alice), ListingInput{Area: "Harbour", Food: "soup", Quantity: 2, Contact: "a@x"})
	require.NoError(t, err)

	err = s.DeleteListing(sessionCtx(bob), l.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)

	all, err := s.SearchListings(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1, "non-owner delete must not mutate state")

	require.NoError(t, s.DeleteListing(sessionCtx(alice), l.ID))
	all, err = s.SearchListings(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, s.DeleteListing(sessionCtx(alice), l.ID), ErrListingNotFound)
	assert.ErrorIs(t, s.DeleteListing(context.Background(), l.ID), auth.ErrNoSession)
}

func TestSearchListings(t *testing.T) {
	s := newTestService(t, "svcsearch")
	p, err := s.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	ctx := sessionCtx(p)

	for _, area := range []string{"North Park", "South Park", "Riverside"} {
		_, err := s.AddListing(ctx, ListingInput{Area: area, Food: "rice", Quantity: 1, Contact: "c"})
		require.NoError(t, err)
	}

	park, err := s.SearchListings(context.Background(), "Park")
	require.NoError(t, err)
	require.Len(t, park, 2)
	for _, l := range park {
		assert.Contains(t, l.Area, "Park")
	}

	all, err := s.SearchListings(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

type knownUsers struct {
	repository.UserRepositoryI
}

func (knownUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, Username: "alice"}, nil
}

type failingListings struct {
	repository.ListingRepositoryI
}

func (failingListings) Search(context.Context, string) ([]models.Listing, error) {
	return nil, errors.New("boom")
}

func (failingListings) DeleteOwned(context.Context, int64, string) (bool, error) {
	return false, errors.New("boom")
}

func TestService_WrapsStoreErrors(t *testing.T) {
	s := NewService(knownUsers{}, failingListings{})

	_, err := s.SearchListings(context.Background(), "x")
	assert.EqualError(t, err, "search listings: boom")

	err = s.DeleteListing(sessionCtx(&auth.Principal{UserID: 1, Username: "alice"}), 1)
	assert.EqualError(t, err, "delete listing: boom")
	assert.NotErrorIs(t, err, ErrListingNotFound)
}

func TestService_StaleSessionIsRejected(t *testing.T) {
	s := newTestService(t, "svcstale")
	alice, err := s.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)

	// Unknown id, and a known id paired with the wrong username.
	for _, p := range []*auth.Principal{
		{UserID: alice.UserID + 100, Username: "alice"},
		{UserID: alice.UserID, Username: "mallory"},
	} {
		ctx := sessionCtx(p)
		_, err := s.AddListing(ctx, ListingInput{Area: "a", Food: "f", Quantity: 1, Contact: "c"})
		assert.ErrorIs(t, err, auth.ErrNoSession, "%+v", p)
		_, err = s.MyListings(ctx)
		assert.ErrorIs(t, err, auth.ErrNoSession, "%+v", p)
		assert.ErrorIs(t, s.DeleteListing(ctx, 1), auth.ErrNoSession, "%+v", p)
	}

	all, err := s.SearchListings(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
