package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/session"

	"go.uber.org/zap"
)

const (
	maxErrorBody    = 64 << 10
	maxResponseBody = 32 << 20
)

// RemoteConfig configures the HTTP data source.
type RemoteConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Remote maps each operation onto one call of the HTTP API. The bearer token
// and the user it belongs to are kept in a session.Store.
type Remote struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
	logger     *zap.Logger
}

func NewRemote(cfg RemoteConfig, sessions *session.Store, logger *zap.Logger) *Remote {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Remote{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
		sessions:   sessions,
		logger:     logger.Named("remote"),
	}
}

// authResponse is what login and register return.
type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (r *Remote) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return r.send(req, out)
}

func (r *Remote) send(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	token, err := r.sessions.Token(req.Context())
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.AuthorizationTypeBearer+" "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("Request failed", zap.String("method", req.Method), zap.String("path", req.URL.Path), zap.Error(err))
		return common.ErrServiceUnavailable.WithDetails(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError prefers the server's message and falls back to a status-based one.
func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return common.StatusError(resp.StatusCode)
	}
	code := payload.Code
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
	}
	return common.NewAPIError(resp.StatusCode, code, payload.Message)
}

func (r *Remote) refreshSessionUser(ctx context.Context, u *model.User) {
	if u == nil {
		return
	}
	sess, err := r.sessions.Load(ctx)
	if err != nil || sess == nil || sess.User.ID != u.ID {
		return
	}
	if err := r.sessions.SaveUser(ctx, *u); err != nil {
		r.logger.Warn("Failed to refresh session user", zap.Error(err))
	}
}

func escape(id string) string {
	return url.PathEscape(id)
}

func (r *Remote) ListListings(ctx context.Context) ([]model.Listing, error) {
	var out []model.Listing
	err := r.do(ctx, http.MethodGet, "/api/listings", nil, &out)
	return out, err
}

func (r *Remote) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	var out *model.Listing
	err := r.do(ctx, http.MethodGet, "/api/listings/"+escape(id), nil, &out)
	return out, err
}

func (r *Remote) CreateListing(ctx context.Context, in model.ListingInput) (*model.Listing, error) {
	var out *model.Listing
	err := r.do(ctx, http.MethodPost, "/api/listings", in, &out)
	return out, err
}

func (r *Remote) UpdateListing(ctx context.Context, id string, in model.ListingInput) (*model.Listing, error) {
	var out *model.Listing
	err := r.do(ctx, http.MethodPut, "/api/listings/"+escape(id), in, &out)
	return out, err
}

func (r *Remote) UpdateListingStatus(ctx context.Context, id string, status model.ListingStatus) (*model.Listing, error) {
	var out *model.Listing
	body := map[string]model.ListingStatus{"status": status}
	err := r.do(ctx, http.MethodPatch, "/api/listings/"+escape(id)+"/status", body, &out)
	return out, err
}

func (r *Remote) PinListing(ctx context.Context, id string, cost int64) (*model.Listing, error) {
	var out *model.Listing
	body := map[string]int64{"cost": cost}
	err := r.do(ctx, http.MethodPost, "/api/listings/"+escape(id)+"/pin", body, &out)
	return out, err
}

func (r *Remote) AdminTogglePin(ctx context.Context, id string) (*model.Listing, error) {
	var out *model.Listing
	err := r.do(ctx, http.MethodPost, "/api/admin/listings/"+escape(id)+"/toggle-pin", nil, &out)
	return out, err
}

func (r *Remote) DeleteListing(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/listings/"+escape(id), nil, nil)
}

func (r *Remote) ToggleWishlist(ctx context.Context, listingID string) (bool, error) {
	token, err := r.sessions.Token(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	var out struct {
		InWishlist bool `json:"inWishlist"`
	}
	if err := r.do(ctx, http.MethodPost, "/api/listings/"+escape(listingID)+"/wishlist", nil, &out); err != nil {
		return false, err
	}
	if sess, err := r.sessions.Load(ctx); err == nil && sess != nil {
		sess.User.Wishlist = toggled(sess.User.Wishlist, listingID, out.InWishlist)
		if err := r.sessions.SaveUser(ctx, sess.User); err != nil {
			r.logger.Warn("Failed to refresh session wishlist", zap.String("listingID", listingID), zap.Error(err))
		}
	}
	return out.InWishlist, nil
}

func toggled(ids []string, id string, present bool) []string {
	out := make([]string, 0, len(ids)+1)
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if present {
		out = append(out, id)
	}
	return out
}

func (r *Remote) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := r.do(ctx, http.MethodGet, "/api/users", nil, &out)
	return out, err
}

func (r *Remote) GetPublicProfile(ctx context.Context, userID string) (*model.PublicProfile, error) {
	var out *model.PublicProfile
	err := r.do(ctx, http.MethodGet, "/api/users/"+escape(userID)+"/public", nil, &out)
	return out, err
}

func (r *Remote) UpdateProfile(ctx context.Context, targetID string, patch model.ProfileUpdate) (*model.User, error) {
	path := "/api/users/me"
	if targetID != "" {
		path = "/api/admin/users/" + escape(targetID)
	}
	var out *model.User
	if err := r.do(ctx, http.MethodPut, path, patch, &out); err != nil {
		return nil, err
	}
	r.refreshSessionUser(ctx, out)
	return out, nil
}

func (r *Remote) ManageCredits(ctx context.Context, userID string, op model.CreditOperation, amount int64) (*model.User, error) {
	body := struct {
		Operation model.CreditOperation `json:"operation"`
		Amount    int64                 `json:"amount"`
	}{op, amount}
	var out *model.User
	if err := r.do(ctx, http.MethodPost, "/api/admin/users/"+escape(userID)+"/credits", body, &out); err != nil {
		return nil, err
	}
	r.refreshSessionUser(ctx, out)
	return out, nil
}

func (r *Remote) TopUpCredits(ctx context.Context, amount int64) (*model.User, error) {
	var out *model.User
	if err := r.do(ctx, http.MethodPost, "/api/users/me/topup", map[string]int64{"amount": amount}, &out); err != nil {
		return nil, err
	}
	r.refreshSessionUser(ctx, out)
	return out, nil
}

func (r *Remote) SubmitVerification(ctx context.Context, docs model.VerificationDocs) (*model.User, error) {
	var out *model.User
	if err := r.do(ctx, http.MethodPost, "/api/users/me/verification", docs, &out); err != nil {
		return nil, err
	}
	r.refreshSessionUser(ctx, out)
	return out, nil
}

func (r *Remote) DecideVerification(ctx context.Context, userID string, status model.VerificationStatus) (*model.User, error) {
	var out *model.User
	body := map[string]model.VerificationStatus{"status": status}
	if err := r.do(ctx, http.MethodPost, "/api/admin/users/"+escape(userID)+"/verification", body, &out); err != nil {
		return nil, err
	}
	r.refreshSessionUser(ctx, out)
	return out, nil
}

func (r *Remote) ListMyTransactions(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	err := r.do(ctx, http.MethodGet, "/api/transactions/me", nil, &out)
	return out, err
}

func (r *Remote) ListReports(ctx context.Context) ([]model.ListingReport, error) {
	var out []model.ListingReport
	err := r.do(ctx, http.MethodGet, "/api/reports", nil, &out)
	return out, err
}

func (r *Remote) CreateReport(ctx context.Context, in model.ReportInput) (*model.ListingReport, error) {
	var out *model.ListingReport
	err := r.do(ctx, http.MethodPost, "/api/reports", in, &out)
	return out, err
}

func (r *Remote) DeleteReport(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/reports/"+escape(id), nil, nil)
}

func (r *Remote) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	var out []model.BlogPost
	err := r.do(ctx, http.MethodGet, "/api/blog", nil, &out)
	return out, err
}

func (r *Remote) GetBlogPost(ctx context.Context, idOrSlug string) (*model.BlogPost, error) {
	var out *model.BlogPost
	err := r.do(ctx, http.MethodGet, "/api/blog/"+escape(idOrSlug), nil, &out)
	return out, err
}

func (r *Remote) CreateBlogPost(ctx context.Context, in model.BlogPostInput) (*model.BlogPost, error) {
	var out *model.BlogPost
	err := r.do(ctx, http.MethodPost, "/api/blog", in, &out)
	return out, err
}

func (r *Remote) UpdateBlogPost(ctx context.Context, id string, in model.BlogPostInput) (*model.BlogPost, error) {
	var out *model.BlogPost
	err := r.do(ctx, http.MethodPut, "/api/blog/"+escape(id), in, &out)
	return out, err
}

func (r *Remote) DeleteBlogPost(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/blog/"+escape(id), nil, nil)
}

func (r *Remote) ListRequests(ctx context.Context) ([]model.PropertyRequest, error) {
	var out []model.PropertyRequest
	err := r.do(ctx, http.MethodGet, "/api/requests", nil, &out)
	return out, err
}

func (r *Remote) CreateRequest(ctx context.Context, in model.PropertyRequestInput) (*model.PropertyRequest, error) {
	var out *model.PropertyRequest
	err := r.do(ctx, http.MethodPost, "/api/requests", in, &out)
	return out, err
}

func (r *Remote) DeleteRequest(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/requests/"+escape(id), nil, nil)
}

func (r *Remote) GetSettings(ctx context.Context) (*model.AppSettings, error) {
	var out *model.AppSettings
	err := r.do(ctx, http.MethodGet, "/api/settings", nil, &out)
	return out, err
}

func (r *Remote) UpdateSettings(ctx context.Context, in model.AppSettings) (*model.AppSettings, error) {
	var out *model.AppSettings
	err := r.do(ctx, http.MethodPut, "/api/settings", in, &out)
	return out, err
}

func (r *Remote) authenticate(ctx context.Context, path string, body interface{}) (*model.User, error) {
	var out authResponse
	if err := r.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, common.ErrInternalServer.WithMessage("Server did not return a session token.")
	}
	if err := r.sessions.Save(ctx, out.Token, out.User); err != nil {
		return nil, err
	}
	u := out.User.Sanitized()
	return &u, nil
}

func (r *Remote) Login(ctx context.Context, email, password string) (*model.User, error) {
	return r.authenticate(ctx, "/api/auth/login", model.LoginRequest{Email: email, Password: password})
}

func (r *Remote) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return r.authenticate(ctx, "/api/auth/register", req)
}

// Logout clears the local session even when the server cannot be reached.
func (r *Remote) Logout(ctx context.Context) error {
	token, err := r.sessions.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		if err := r.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
			r.logger.Warn("Server logout failed", zap.Error(err))
		}
	}
	return r.sessions.Clear(ctx)
}

func (r *Remote) CurrentUser(ctx context.Context) (*model.User, error) {
	sess, err := r.sessions.Load(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	u := sess.User.Sanitized()
	return &u, nil
}

func (r *Remote) UploadImage(ctx context.Context, filename string, src io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		URL string `json:"url"`
	}
	if err := r.send(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
