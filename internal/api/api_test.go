package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/auth"
	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/middleware"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"
	"github.com/vueltra/vueltra-property2-sub000/internal/storage"
	"github.com/vueltra/vueltra-property2-sub000/internal/store"
	"github.com/vueltra/vueltra-property2-sub000/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")...)

type testAPI struct {
	t      *testing.T
	store  *store.Store
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	cfg := &config.Config{JWTSecret: "api-test", JWTExpiry: time.Hour, UploadMaxBytes: 1 << 20}

	s := store.New(storage.NewMemoryRepository(), store.DefaultKey, logger)
	tokens, err := auth.NewJWTService(cfg, logger)
	require.NoError(t, err)
	blocklist := auth.NewInMemoryBlocklistService(auth.InMemoryBlocklistConfig{DefaultExpiration: time.Hour, CleanupInterval: time.Minute})
	disk, err := upload.NewDiskUploader(t.TempDir(), "http://localhost:8080/uploads", upload.ImagesSubDir, logger)
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))
	NewHandler(s, tokens, blocklist, disk, cfg, logger).RegisterRoutes(router)
	return &testAPI{t: t, store: s, router: router}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: email, Password: password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var out AuthResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

func (a *testAPI) state() *state.AppState {
	a.t.Helper()
	st, err := a.store.Load(context.Background())
	require.NoError(a.t, err)
	return st
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func newListingInput() model.ListingInput {
	return model.ListingInput{
		Title:           "Rumah Asri Dekat Taman Kota",
		Description:     "Lingkungan tenang, bebas banjir.",
		Price:           1200000000,
		Category:        model.CategoryRumah,
		TransactionType: model.TransactionJual,
		Location:        model.Location{Province: "Jawa Barat", City: "Bogor"},
		Bedrooms:        3,
		Bathrooms:       2,
	}
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), store.DefaultKey)
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: "budi@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", decode[common.APIError](t, w).Message)

	w = a.do(http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: "BUDI@example.com", Password: "budi123"})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[AuthResponse](t, w)
	assert.Equal(t, state.SeedUserID, out.User.ID)
	assert.Empty(t, out.User.PasswordHash)
	assert.Nil(t, a.state().CurrentUser, "server logins never touch the stored session")

	w = a.do(http.MethodGet, "/api/auth/me", out.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.SeedUserID, decode[model.User](t, w).ID)
}

func TestLogin_ValidationError(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[common.APIError](t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	a := newTestAPI(t)
	token := a.login("budi@example.com", "budi123")

	w := a.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister(t *testing.T) {
	a := newTestAPI(t)
	req := model.RegisterRequest{Username: "sari", Email: "sari@example.com", Password: "rahasia1"}

	w := a.do(http.MethodPost, "/api/auth/register", "", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode[AuthResponse](t, w)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, int64(0), out.User.Credits)
	assert.Equal(t, model.VerificationUnverified, out.User.VerificationStatus)

	req.Email = "SARI@example.com"
	w = a.do(http.MethodPost, "/api/auth/register", "", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered.", decode[common.APIError](t, w).Message)
}

func TestListings_PublicReads(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodGet, "/api/listings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Listing](t, w), 3)

	w = a.do(http.MethodGet, "/api/listings/l-kemang", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.SeedUserID, decode[model.Listing](t, w).SellerID)

	w = a.do(http.MethodGet, "/api/listings/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateListing(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/api/listings", "", newListingInput())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := a.login("budi@example.com", "budi123")
	w = a.do(http.MethodPost, "/api/listings", token, newListingInput())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Listing](t, w)
	assert.Equal(t, state.SeedUserID, created.SellerID)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.False(t, created.IsPinned)

	bad := newListingInput()
	bad.Location = model.Location{Province: "Bali", City: "Bandung"}
	w = a.do(http.MethodPost, "/api/listings", token, bad)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateListing_OwnershipAndNoOp(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodPut, "/api/listings/l-ubud-villa", budi, newListingInput())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPut, "/api/listings/l-kemang", admin, newListingInput())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rumah Asri Dekat Taman Kota", decode[model.Listing](t, w).Title)

	w = a.do(http.MethodPut, "/api/listings/missing", budi, newListingInput())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestUpdateListingStatus(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")

	w := a.do(http.MethodPatch, "/api/listings/l-kemang/status", budi, map[string]string{"status": "SOLD"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusSold, decode[model.Listing](t, w).Status)

	w = a.do(http.MethodPatch, "/api/listings/l-kemang/status", budi, map[string]string{"status": "ARCHIVED"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPinListing_ChargesConfiguredCost(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")

	// The cost in the body is ignored in favour of settings.pinCost.
	w := a.do(http.MethodPost, "/api/listings/l-bsd-apartemen/pin", budi, map[string]int64{"cost": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[model.Listing](t, w).IsPinned)

	st := a.state()
	u, _ := st.FindUser(state.SeedUserID)
	assert.Equal(t, int64(150000-50000), u.Credits)
	txs := st.TransactionsFor(state.SeedUserID)
	require.Len(t, txs, 1)
	assert.Equal(t, model.LedgerSpend, txs[0].Type)
	assert.Equal(t, int64(50000), txs[0].Amount)

	w = a.do(http.MethodPost, "/api/listings/l-ubud-villa/pin", budi, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPinListing_InsufficientCredits(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(state.SeedAdminEmail, "admin123")
	w := a.do(http.MethodPut, "/api/settings", admin, model.AppSettings{SiteName: "Vueltra Property", PinCost: 1000000})
	require.Equal(t, http.StatusOK, w.Code)

	budi := a.login("budi@example.com", "budi123")
	before := a.state()
	w = a.do(http.MethodPost, "/api/listings/l-bsd-apartemen/pin", budi, nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "Insufficient credits.", decode[common.APIError](t, w).Message)
	assert.Equal(t, before, a.state())
}

func TestToggleWishlist(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")

	w := a.do(http.MethodPost, "/api/listings/l-ubud-villa/wishlist", budi, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"inWishlist":true}`, w.Body.String())

	w = a.do(http.MethodPost, "/api/listings/l-ubud-villa/wishlist", budi, nil)
	assert.JSONEq(t, `{"inWishlist":false}`, w.Body.String())
}

func TestDeleteListing(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")

	w := a.do(http.MethodDelete, "/api/listings/l-kemang", budi, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, ok := a.state().FindListing("l-kemang")
	assert.False(t, ok)

	w = a.do(http.MethodDelete, "/api/listings/l-kemang", budi, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")
	admin := a.login(state.SeedAdminEmail, "admin123")

	for _, path := range []string{"/api/users", "/api/reports"} {
		assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, path, budi, nil).Code, path)
		assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, admin, nil).Code, path)
	}
	w := a.do(http.MethodPost, "/api/admin/listings/l-kemang/toggle-pin", budi, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListUsers_IsSanitized(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(state.SeedAdminEmail, "admin123")
	w := a.do(http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), `"password"`)
}

func TestAdminManageCredits_SubtractFloorsAtZero(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodPost, "/api/admin/users/u-budi/credits", admin, map[string]interface{}{"operation": "SUBTRACT", "amount": 1000000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(0), decode[model.User](t, w).Credits)

	w = a.do(http.MethodPost, "/api/admin/users/u-budi/credits", admin, map[string]interface{}{"operation": "MULTIPLY", "amount": 2})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/api/admin/users/ghost/credits", admin, map[string]interface{}{"operation": "ADD", "amount": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestAdminToggleAndUpdateUser(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodPost, "/api/admin/listings/l-kemang/toggle-pin", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[model.Listing](t, w).IsPinned)

	name := "Budi Santoso"
	w = a.do(http.MethodPut, "/api/admin/users/u-budi", admin, model.ProfileUpdate{Username: &name})
	require.Equal(t, http.StatusOK, w.Code)
	for _, li := range a.state().ListingsBySeller(state.SeedUserID) {
		assert.Equal(t, name, li.SellerName)
	}
}

func TestUpdateMe_IgnoresAdminFlag(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")
	yes := true
	bio := "Agen properti Jakarta Selatan"

	w := a.do(http.MethodPut, "/api/users/me", budi, model.ProfileUpdate{Bio: &bio, IsAdmin: &yes})
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[model.User](t, w)
	assert.Equal(t, bio, u.Bio)
	assert.False(t, u.IsAdmin)
}

func TestTopUpAndTransactions(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")

	w := a.do(http.MethodPost, "/api/users/me/topup", budi, map[string]int64{"amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/api/users/me/topup", budi, map[string]int64{"amount": 25000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(175000), decode[model.User](t, w).Credits)

	w = a.do(http.MethodGet, "/api/transactions/me", budi, nil)
	require.Equal(t, http.StatusOK, w.Code)
	txs := decode[[]model.Transaction](t, w)
	require.Len(t, txs, 1)
	assert.Equal(t, model.LedgerTopUp, txs[0].Type)
}

func TestVerificationFlow(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodPost, "/api/users/me/verification", budi, model.VerificationDocs{KTPImageURL: "ktp.png", SelfieImageURL: "selfie.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.VerificationPending, decode[model.User](t, w).VerificationStatus)

	w = a.do(http.MethodPost, "/api/admin/users/u-budi/verification", admin, map[string]string{"status": "VERIFIED"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.VerificationVerified, decode[model.User](t, w).VerificationStatus)

	w = a.do(http.MethodPost, "/api/admin/users/u-budi/verification", admin, map[string]string{"status": "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicProfile(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/api/users/u-budi/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[model.PublicProfile](t, w)
	assert.Equal(t, state.SeedUserID, p.User.ID)
	assert.Len(t, p.Listings, 2)

	w = a.do(http.MethodGet, "/api/users/ghost/public", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReports(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodPost, "/api/reports", "", model.ReportInput{ListingID: "l-ubud-villa", Reason: "Spam"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/reports", budi, model.ReportInput{ListingID: "l-ubud-villa", Reason: "Spam"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	r := decode[model.ListingReport](t, w)
	assert.Equal(t, state.SeedUserID, r.ReporterID)

	w = a.do(http.MethodDelete, "/api/reports/"+r.ID, budi, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(http.MethodDelete, "/api/reports/"+r.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, a.state().Reports)
}

func TestBlogPosts(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodGet, "/api/blog", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.BlogPost](t, w), 2)

	in := model.BlogPostInput{Title: "Cara Menghitung Pajak Properti", Content: "..."}
	w = a.do(http.MethodPost, "/api/blog", admin, in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[model.BlogPost](t, w)
	assert.Equal(t, "cara-menghitung-pajak-properti", post.Slug)

	w = a.do(http.MethodGet, "/api/blog/"+post.Slug, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, post.ID, decode[model.BlogPost](t, w).ID)

	w = a.do(http.MethodDelete, "/api/blog/"+post.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, "/api/blog/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequests_AnonymousAndLoggedIn(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")
	in := model.PropertyRequestInput{
		Name:            "Rina",
		Phone:           "081200000000",
		Category:        model.CategoryApartemen,
		TransactionType: model.TransactionSewa,
		Location:        model.Location{Province: "DKI Jakarta", City: "Jakarta Selatan"},
		Budget:          8000000,
	}

	w := a.do(http.MethodPost, "/api/requests", "", in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, decode[model.PropertyRequest](t, w).UserID)

	w = a.do(http.MethodPost, "/api/requests", budi, in)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, state.SeedUserID, decode[model.PropertyRequest](t, w).UserID)

	w = a.do(http.MethodGet, "/api/requests", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.PropertyRequest](t, w), 3)
}

func TestSettings(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(50000), decode[model.AppSettings](t, w).PinCost)

	w = a.do(http.MethodPut, "/api/settings", admin, model.AppSettings{PinCost: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSettings_PartialBodyKeepsOtherKeys(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(state.SeedAdminEmail, "admin123")

	w := a.do(http.MethodPut, "/api/settings", admin, map[string]int64{"pinCost": 70000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[model.AppSettings](t, w)

	want := model.DefaultSettings()
	want.PinCost = 70000
	assert.Equal(t, want, got)
	assert.Equal(t, want, a.state().Settings)

	w = a.do(http.MethodPut, "/api/settings", admin, map[string]string{"pinCost": "lots"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, want, a.state().Settings)
}

func TestUploadImage(t *testing.T) {
	a := newTestAPI(t)
	budi := a.login("budi@example.com", "budi123")

	send := func(filename string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(common.AuthorizationHeader, "Bearer "+budi)
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		return w
	}

	w := send("rumah.png", pngBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[map[string]string](t, w)
	assert.True(t, strings.HasPrefix(out["url"], "http://localhost:8080/uploads/images/"), out["url"])

	w = send("notes.txt", []byte("hello, this is plain text"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
