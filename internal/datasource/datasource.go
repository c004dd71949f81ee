// Package datasource is the single data-access surface used by clients of the
// marketplace. The same DataSource interface is served either by Local, which
// keeps the whole marketplace in a store.Store, or by Remote, which calls the
// HTTP API. Which one is used is decided once, at construction time.
package datasource

import (
	"context"
	"io"

	"github.com/vueltra/vueltra-property2-sub000/internal/model"
)

// DataSource is every marketplace operation a client can perform.
//
// Update and delete calls on an id that does not exist are no-ops: they return
// a nil record and a nil error. Failures are *common.APIError values whose
// Message is fit to show to an end user.
type DataSource interface {
	ListListings(ctx context.Context) ([]model.Listing, error)
	GetListing(ctx context.Context, id string) (*model.Listing, error)
	// CreateListing posts as the session user, or as in.SellerID when the session user is an admin.
	CreateListing(ctx context.Context, in model.ListingInput) (*model.Listing, error)
	UpdateListing(ctx context.Context, id string, in model.ListingInput) (*model.Listing, error)
	UpdateListingStatus(ctx context.Context, id string, status model.ListingStatus) (*model.Listing, error)
	// PinListing charges the listing owner and pins it, or fails with
	// common.ErrInsufficientCredits and changes nothing. Local charges cost;
	// Remote sends cost but the server always charges its settings.pinCost.
	PinListing(ctx context.Context, id string, cost int64) (*model.Listing, error)
	AdminTogglePin(ctx context.Context, id string) (*model.Listing, error)
	DeleteListing(ctx context.Context, id string) error
	// ToggleWishlist reports whether the listing is on the wishlist afterwards.
	ToggleWishlist(ctx context.Context, listingID string) (bool, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	GetPublicProfile(ctx context.Context, userID string) (*model.PublicProfile, error)
	// UpdateProfile updates the session user when targetID is empty.
	UpdateProfile(ctx context.Context, targetID string, patch model.ProfileUpdate) (*model.User, error)
	ManageCredits(ctx context.Context, userID string, op model.CreditOperation, amount int64) (*model.User, error)
	TopUpCredits(ctx context.Context, amount int64) (*model.User, error)
	SubmitVerification(ctx context.Context, docs model.VerificationDocs) (*model.User, error)
	DecideVerification(ctx context.Context, userID string, status model.VerificationStatus) (*model.User, error)
	ListMyTransactions(ctx context.Context) ([]model.Transaction, error)

	ListReports(ctx context.Context) ([]model.ListingReport, error)
	CreateReport(ctx context.Context, in model.ReportInput) (*model.ListingReport, error)
	DeleteReport(ctx context.Context, id string) error

	ListBlogPosts(ctx context.Context) ([]model.BlogPost, error)
	GetBlogPost(ctx context.Context, idOrSlug string) (*model.BlogPost, error)
	CreateBlogPost(ctx context.Context, in model.BlogPostInput) (*model.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, in model.BlogPostInput) (*model.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error

	ListRequests(ctx context.Context) ([]model.PropertyRequest, error)
	CreateRequest(ctx context.Context, in model.PropertyRequestInput) (*model.PropertyRequest, error)
	DeleteRequest(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*model.AppSettings, error)
	UpdateSettings(ctx context.Context, in model.AppSettings) (*model.AppSettings, error)

	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	// CurrentUser returns nil when nobody is logged in.
	CurrentUser(ctx context.Context) (*model.User, error)

	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

var (
	_ DataSource = (*Local)(nil)
	_ DataSource = (*Remote)(nil)
)
