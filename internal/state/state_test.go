package state

import (
	"os"
	"testing"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestSeed_IsDeterministic(t *testing.T) {
	assert.Equal(t, Seed(), Seed())

	st := Seed()
	admin, ok := st.FindUser(SeedAdminID)
	require.True(t, ok)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, int64(999999999), admin.Credits)
	assert.Equal(t, int64(50000), st.Settings.PinCost)
	assert.Nil(t, st.CurrentUser)
}

func TestBootstrap_EmptyBlobFallsBackToSeed(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("  "), []byte("null")} {
		st, err := Bootstrap(raw, Options{})
		assert.ErrorIs(t, err, ErrEmptyBlob)
		assert.Equal(t, Seed(), st)
	}
}

func TestBootstrap_MalformedBlobFallsBackToSeed(t *testing.T) {
	st, err := Bootstrap([]byte(`{"users": "not-a-list"`), Options{})
	assert.Error(t, err)
	require.NotNil(t, st)
	assert.Equal(t, Seed(), st)
}

func TestBootstrap_IsIdempotent(t *testing.T) {
	st := Seed()
	_, err := st.PinListing("l-bsd-apartemen", 50000, testNow)
	require.NoError(t, err)
	raw, err := Encode(st)
	require.NoError(t, err)

	first, err := Bootstrap(raw, Options{})
	require.NoError(t, err)
	second, err := Bootstrap(raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeBootstrap_RoundTrip(t *testing.T) {
	st := Seed()
	u, err := st.Register(model.RegisterRequest{Username: "Andi", Email: "andi@example.com", Password: "secret1"}, testNow)
	require.NoError(t, err)
	st.SetSession(u.ID)
	_, err = st.CreateListing(u.ID, model.ListingInput{
		Title:           "Ruko Strategis Pinggir Jalan",
		Description:     "Cocok untuk usaha.",
		Price:           2500000000,
		Category:        model.CategoryRuko,
		TransactionType: model.TransactionJual,
		Location:        model.Location{Province: "Jawa Timur", City: "Surabaya"},
	}, testNow)
	require.NoError(t, err)
	st.ToggleWishlist(u.ID, "l-kemang")
	_, err = st.ManageCredits(u.ID, model.CreditAdd, 75000, testNow)
	require.NoError(t, err)

	raw, err := Encode(st)
	require.NoError(t, err)
	back, err := Bootstrap(raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, st, back)
}

func TestBootstrap_MigratesLegacyShape(t *testing.T) {
	raw := []byte(`{
		"users": [
			{"id": "u1", "email": "lama@example.com", "password": "rahasia", "credits": -20,
			 "wishlist": ["l1", "l1", "l2"], "isAdmin": false}
		],
		"listings": [
			{"id": "l1", "title": "Rumah Lama", "status": "DRAFT", "location": "Bandung, Jawa Barat",
			 "sellerId": "u1", "sellerName": "stale"},
			{"id": "l2", "title": "Tanah Kosong", "location": "Sleman", "sellerId": "u1"}
		],
		"blogPosts": [{"id": "b1", "title": "Judul Baru"}],
		"currentUser": {"id": "u1", "username": "stale"},
		"settings": {"siteName": "Situs Lama"}
	}`)

	st, err := Bootstrap(raw, Options{})
	require.NoError(t, err)

	require.Len(t, st.Users, 1)
	u := st.Users[0]
	assert.Equal(t, "lama", u.Username)
	assert.Equal(t, int64(0), u.Credits)
	assert.Equal(t, []string{"l1", "l2"}, u.Wishlist)
	assert.Equal(t, model.VerificationUnverified, u.VerificationStatus)
	assert.Equal(t, "rahasia", u.LegacyPassword)

	require.Len(t, st.Listings, 2)
	assert.Equal(t, model.StatusActive, st.Listings[0].Status)
	assert.Equal(t, model.Location{Province: "Jawa Barat", City: "Bandung"}, st.Listings[0].Location)
	assert.Equal(t, model.Location{Province: "DI Yogyakarta", City: "Sleman"}, st.Listings[1].Location)
	assert.Equal(t, "lama", st.Listings[0].SellerName)
	assert.Equal(t, "lama", st.Listings[1].SellerName)
	assert.Equal(t, model.StatusActive, st.Listings[1].Status)
	assert.Equal(t, []string{}, st.Listings[1].Images)

	assert.Equal(t, "judul-baru", st.BlogPosts[0].Slug)
	assert.NotNil(t, st.Transactions)
	assert.NotNil(t, st.Reports)
	assert.NotNil(t, st.Requests)

	defaults := model.DefaultSettings()
	assert.Equal(t, "Situs Lama", st.Settings.SiteName)
	assert.Equal(t, defaults.PinCost, st.Settings.PinCost)
	assert.Equal(t, defaults.EnableRegistration, st.Settings.EnableRegistration)

	require.NotNil(t, st.CurrentUser)
	assert.Equal(t, "lama", st.CurrentUser.Username)

	// The upgraded record logs in with its old password.
	got, err := st.Authenticate("LAMA@example.com", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Empty(t, st.Users[0].LegacyPassword)
	assert.NotEmpty(t, st.Users[0].PasswordHash)
}

func TestBootstrap_DropsDanglingSession(t *testing.T) {
	st := Seed()
	st.CurrentUser = &model.User{ID: "ghost"}
	raw, err := Encode(st)
	require.NoError(t, err)

	back, err := Bootstrap(raw, Options{})
	require.NoError(t, err)
	assert.Nil(t, back.CurrentUser)
}

func TestBootstrap_AutoLoginAdminIsOptIn(t *testing.T) {
	st, _ := Bootstrap(nil, Options{})
	assert.Nil(t, st.CurrentUser)

	st, _ = Bootstrap(nil, Options{AutoLoginAdmin: true})
	require.NotNil(t, st.CurrentUser)
	assert.Equal(t, SeedAdminID, st.CurrentUser.ID)

	// An existing session wins over the auto-login.
	seeded := Seed()
	seeded.SetSession(SeedUserID)
	raw, err := Encode(seeded)
	require.NoError(t, err)
	st, err = Bootstrap(raw, Options{AutoLoginAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, SeedUserID, st.CurrentUser.ID)
}

func TestBootstrap_AutoLoginAdminRespectsLogout(t *testing.T) {
	st, _ := Bootstrap(nil, Options{AutoLoginAdmin: true})
	require.NotNil(t, st.CurrentUser)

	// The auto-selected admin is not written out.
	raw, err := Encode(st)
	require.NoError(t, err)
	back, err := Bootstrap(raw, Options{})
	require.NoError(t, err)
	assert.Nil(t, back.CurrentUser)

	st.ClearSession()
	raw, err = Encode(st)
	require.NoError(t, err)
	back, err = Bootstrap(raw, Options{AutoLoginAdmin: true})
	require.NoError(t, err)
	assert.Nil(t, back.CurrentUser)

	back.SetSession(SeedAdminID)
	assert.False(t, back.SignedOut)
	raw, err = Encode(back)
	require.NoError(t, err)
	again, err := Bootstrap(raw, Options{})
	require.NoError(t, err)
	require.NotNil(t, again.CurrentUser, "an explicit login is persisted")
	assert.Equal(t, SeedAdminID, again.CurrentUser.ID)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	st := &AppState{
		Users:    []model.User{{ID: "u1", Email: "x@y.z", Wishlist: []string{"a", "a"}, Credits: -1}},
		Listings: []model.Listing{{ID: "l1", SellerID: "u1", Status: "weird"}},
	}
	Migrate(st)
	once, err := Encode(st)
	require.NoError(t, err)
	Migrate(st)
	twice, err := Encode(st)
	require.NoError(t, err)
	assert.JSONEq(t, string(once), string(twice))
}
