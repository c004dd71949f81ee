package datasource

import (
	"context"
	"io"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"
	"github.com/vueltra/vueltra-property2-sub000/internal/store"
	"github.com/vueltra/vueltra-property2-sub000/internal/upload"

	"go.uber.org/zap"
)

// Local serves every operation from a store.Store. The acting user is the
// session stored in the state itself. Ownership and admin checks are left to
// the caller; only authentication is required where an operation needs an actor.
type Local struct {
	store    *store.Store
	uploader upload.Uploader
	logger   *zap.Logger
}

func NewLocal(s *store.Store, uploader upload.Uploader, logger *zap.Logger) *Local {
	if uploader == nil {
		uploader = upload.NewDataURIUploader()
	}
	return &Local{store: s, uploader: uploader, logger: logger.Named("local")}
}

// view runs fn against a freshly loaded state without saving it.
func (l *Local) view(ctx context.Context, fn func(st *state.AppState) error) error {
	st, err := l.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(st)
}

func (l *Local) update(ctx context.Context, fn func(st *state.AppState, now time.Time) error) error {
	return l.store.Update(ctx, fn)
}

func (l *Local) ListListings(ctx context.Context) ([]model.Listing, error) {
	var out []model.Listing
	err := l.view(ctx, func(st *state.AppState) error {
		out = make([]model.Listing, 0, len(st.Listings))
		for _, li := range st.Listings {
			out = append(out, li.Clone())
		}
		return nil
	})
	return out, err
}

func (l *Local) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	var out *model.Listing
	err := l.view(ctx, func(st *state.AppState) error {
		li, ok := st.FindListing(id)
		if !ok {
			return common.ErrNotFound.WithMessage("Listing not found.")
		}
		out = &li
		return nil
	})
	return out, err
}

func (l *Local) CreateListing(ctx context.Context, in model.ListingInput) (*model.Listing, error) {
	var out *model.Listing
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateListing(st.SessionUserID(), in, now)
		return err
	})
	if err == nil {
		l.logger.Info("Listing created", zap.String("listingID", out.ID), zap.String("sellerID", out.SellerID))
	}
	return out, err
}

func (l *Local) UpdateListing(ctx context.Context, id string, in model.ListingInput) (*model.Listing, error) {
	var out *model.Listing
	err := l.update(ctx, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.UpdateListing(id, in)
		return err
	})
	return out, err
}

func (l *Local) UpdateListingStatus(ctx context.Context, id string, status model.ListingStatus) (*model.Listing, error) {
	var out *model.Listing
	err := l.update(ctx, func(st *state.AppState, _ time.Time) error {
		out = st.UpdateListingStatus(id, status)
		return nil
	})
	return out, err
}

func (l *Local) PinListing(ctx context.Context, id string, cost int64) (*model.Listing, error) {
	var out *model.Listing
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.PinListing(id, cost, now)
		return err
	})
	if err == nil && out != nil {
		l.logger.Info("Listing pinned", zap.String("listingID", id), zap.Int64("cost", cost))
	}
	return out, err
}

func (l *Local) AdminTogglePin(ctx context.Context, id string) (*model.Listing, error) {
	var out *model.Listing
	err := l.update(ctx, func(st *state.AppState, _ time.Time) error {
		out = st.TogglePin(id)
		return nil
	})
	return out, err
}

func (l *Local) DeleteListing(ctx context.Context, id string) error {
	return l.update(ctx, func(st *state.AppState, _ time.Time) error {
		st.DeleteListing(id)
		return nil
	})
}

func (l *Local) ToggleWishlist(ctx context.Context, listingID string) (bool, error) {
	var present bool
	err := l.update(ctx, func(st *state.AppState, _ time.Time) error {
		present = st.ToggleWishlist(st.SessionUserID(), listingID)
		return nil
	})
	return present, err
}

func (l *Local) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := l.view(ctx, func(st *state.AppState) error {
		out = st.SanitizedUsers()
		return nil
	})
	return out, err
}

func (l *Local) GetPublicProfile(ctx context.Context, userID string) (*model.PublicProfile, error) {
	var out *model.PublicProfile
	err := l.view(ctx, func(st *state.AppState) (err error) {
		out, err = st.PublicProfile(userID)
		return err
	})
	return out, err
}

func (l *Local) UpdateProfile(ctx context.Context, targetID string, patch model.ProfileUpdate) (*model.User, error) {
	var out *model.User
	err := l.update(ctx, func(st *state.AppState, _ time.Time) (err error) {
		if targetID == "" {
			targetID = st.SessionUserID()
		}
		allowAdmin := st.CurrentUser != nil && st.CurrentUser.IsAdmin
		out, err = st.UpdateUser(targetID, patch, allowAdmin)
		return err
	})
	return out, err
}

func (l *Local) ManageCredits(ctx context.Context, userID string, op model.CreditOperation, amount int64) (*model.User, error) {
	var out *model.User
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.ManageCredits(userID, op, amount, now)
		return err
	})
	if err == nil && out != nil {
		l.logger.Info("Credits adjusted", zap.String("userID", userID), zap.String("op", string(op)), zap.Int64("amount", amount))
	}
	return out, err
}

func (l *Local) TopUpCredits(ctx context.Context, amount int64) (*model.User, error) {
	var out *model.User
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.TopUp(st.SessionUserID(), amount, now)
		return err
	})
	return out, err
}

func (l *Local) SubmitVerification(ctx context.Context, docs model.VerificationDocs) (*model.User, error) {
	var out *model.User
	err := l.update(ctx, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.SubmitVerification(st.SessionUserID(), docs)
		return err
	})
	return out, err
}

func (l *Local) DecideVerification(ctx context.Context, userID string, status model.VerificationStatus) (*model.User, error) {
	var out *model.User
	err := l.update(ctx, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.DecideVerification(userID, status)
		return err
	})
	return out, err
}

func (l *Local) ListMyTransactions(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	err := l.view(ctx, func(st *state.AppState) error {
		out = st.TransactionsFor(st.SessionUserID())
		return nil
	})
	return out, err
}

func (l *Local) ListReports(ctx context.Context) ([]model.ListingReport, error) {
	var out []model.ListingReport
	err := l.view(ctx, func(st *state.AppState) error {
		out = append([]model.ListingReport{}, st.Reports...)
		return nil
	})
	return out, err
}

func (l *Local) CreateReport(ctx context.Context, in model.ReportInput) (*model.ListingReport, error) {
	var out *model.ListingReport
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateReport(st.SessionUserID(), in, now)
		return err
	})
	return out, err
}

func (l *Local) DeleteReport(ctx context.Context, id string) error {
	return l.update(ctx, func(st *state.AppState, _ time.Time) error {
		st.DeleteReport(id)
		return nil
	})
}

func (l *Local) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	var out []model.BlogPost
	err := l.view(ctx, func(st *state.AppState) error {
		out = append([]model.BlogPost{}, st.BlogPosts...)
		return nil
	})
	return out, err
}

func (l *Local) GetBlogPost(ctx context.Context, idOrSlug string) (*model.BlogPost, error) {
	var out *model.BlogPost
	err := l.view(ctx, func(st *state.AppState) error {
		p, ok := st.FindBlogPost(idOrSlug)
		if !ok {
			return common.ErrNotFound.WithMessage("Blog post not found.")
		}
		out = &p
		return nil
	})
	return out, err
}

func (l *Local) CreateBlogPost(ctx context.Context, in model.BlogPostInput) (*model.BlogPost, error) {
	var out *model.BlogPost
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateBlogPost(in, now)
		return err
	})
	return out, err
}

func (l *Local) UpdateBlogPost(ctx context.Context, id string, in model.BlogPostInput) (*model.BlogPost, error) {
	var out *model.BlogPost
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.UpdateBlogPost(id, in, now)
		return err
	})
	return out, err
}

func (l *Local) DeleteBlogPost(ctx context.Context, id string) error {
	return l.update(ctx, func(st *state.AppState, _ time.Time) error {
		st.DeleteBlogPost(id)
		return nil
	})
}

func (l *Local) ListRequests(ctx context.Context) ([]model.PropertyRequest, error) {
	var out []model.PropertyRequest
	err := l.view(ctx, func(st *state.AppState) error {
		out = append([]model.PropertyRequest{}, st.Requests...)
		return nil
	})
	return out, err
}

func (l *Local) CreateRequest(ctx context.Context, in model.PropertyRequestInput) (*model.PropertyRequest, error) {
	var out *model.PropertyRequest
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateRequest(st.SessionUserID(), in, now)
		return err
	})
	return out, err
}

func (l *Local) DeleteRequest(ctx context.Context, id string) error {
	return l.update(ctx, func(st *state.AppState, _ time.Time) error {
		st.DeleteRequest(id)
		return nil
	})
}

func (l *Local) GetSettings(ctx context.Context) (*model.AppSettings, error) {
	var out model.AppSettings
	err := l.view(ctx, func(st *state.AppState) error {
		out = st.Settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Local) UpdateSettings(ctx context.Context, in model.AppSettings) (*model.AppSettings, error) {
	var out model.AppSettings
	err := l.update(ctx, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.UpdateSettings(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Local) Login(ctx context.Context, email, password string) (*model.User, error) {
	var out *model.User
	err := l.update(ctx, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.Authenticate(email, password)
		if err != nil {
			return err
		}
		st.SetSession(out.ID)
		return nil
	})
	if err != nil {
		l.logger.Debug("Login rejected", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (l *Local) Logout(ctx context.Context) error {
	return l.update(ctx, func(st *state.AppState, _ time.Time) error {
		st.ClearSession()
		return nil
	})
}

func (l *Local) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var out *model.User
	err := l.update(ctx, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.Register(req, now)
		if err != nil {
			return err
		}
		st.SetSession(out.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("User registered", zap.String("userID", out.ID))
	return out, nil
}

func (l *Local) CurrentUser(ctx context.Context) (*model.User, error) {
	var out *model.User
	err := l.view(ctx, func(st *state.AppState) error {
		if st.CurrentUser != nil {
			u := st.CurrentUser.Sanitized()
			out = &u
		}
		return nil
	})
	return out, err
}

func (l *Local) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return l.uploader.Upload(ctx, filename, r)
}
