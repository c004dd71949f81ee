package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vueltra/vueltra-property2-sub000/internal/model"

	"github.com/gosimple/slug"
)

// ErrEmptyBlob is returned by Bootstrap when there is nothing persisted yet.
var ErrEmptyBlob = errors.New("no persisted state")

// Options control how a persisted blob is turned into a usable state.
type Options struct {
	// AutoLoginAdmin selects the first admin as the session when none is stored
	// and nobody logged out explicitly. The chosen session lives only in
	// memory; Encode drops it. Developer convenience for local mode only.
	AutoLoginAdmin bool
}

// Bootstrap turns a persisted blob into a schema-current state. It always
// returns a usable state: when raw is empty or cannot be decoded it returns the
// seed state together with the reason, which callers log and otherwise ignore.
func Bootstrap(raw []byte, opts Options) (*AppState, error) {
	st, err := decode(raw)
	if err != nil {
		st = Seed()
	}
	if opts.AutoLoginAdmin && st.CurrentUser == nil && !st.SignedOut {
		for _, u := range st.Users {
			if u.IsAdmin {
				admin := u.Clone()
				st.CurrentUser = &admin
				st.autoSession = true
				break
			}
		}
	}
	return st, err
}

func decode(raw []byte) (*AppState, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyBlob
	}
	// Settings start from the defaults; json.Unmarshal only overwrites the keys
	// present in the blob, so settings introduced later keep their default.
	st := &AppState{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(trimmed, st); err != nil {
		return nil, fmt.Errorf("failed to decode persisted state: %w", err)
	}
	Migrate(st)
	return st, nil
}

// Encode serializes the state into the blob format read by Bootstrap.
func Encode(st *AppState) ([]byte, error) {
	if st.autoSession {
		out := *st
		out.CurrentUser = nil
		st = &out
	}
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return b, nil
}

// Migrate fills fields added by later schema versions with safe defaults and
// re-derives denormalized copies. Running it twice yields the same state as once.
func Migrate(st *AppState) {
	if st.Users == nil {
		st.Users = []model.User{}
	}
	if st.Listings == nil {
		st.Listings = []model.Listing{}
	}
	if st.Transactions == nil {
		st.Transactions = []model.Transaction{}
	}
	if st.Reports == nil {
		st.Reports = []model.ListingReport{}
	}
	if st.BlogPosts == nil {
		st.BlogPosts = []model.BlogPost{}
	}
	if st.Requests == nil {
		st.Requests = []model.PropertyRequest{}
	}

	for i := range st.Users {
		migrateUser(&st.Users[i])
	}
	for i := range st.Listings {
		l := &st.Listings[i]
		l.Status = l.Status.Normalize()
		if l.TransactionType == "" {
			l.TransactionType = model.TransactionJual
		}
		if l.Category == "" {
			l.Category = model.CategoryRumah
		}
		if l.Images == nil {
			l.Images = []string{}
		}
		if j := st.userIndex(l.SellerID); j >= 0 {
			l.SellerName = st.Users[j].Username
		}
	}
	for i := range st.BlogPosts {
		p := &st.BlogPosts[i]
		if p.Slug == "" {
			p.Slug = slug.Make(p.Title)
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
	}
	for i := range st.Requests {
		r := &st.Requests[i]
		if r.TransactionType == "" {
			r.TransactionType = model.TransactionJual
		}
		if r.Category == "" {
			r.Category = model.CategoryRumah
		}
	}
	st.SyncSession()
}

func migrateUser(u *model.User) {
	if u.Wishlist == nil {
		u.Wishlist = []string{}
	}
	u.Wishlist = dedupe(u.Wishlist)
	if !u.VerificationStatus.Valid() {
		u.VerificationStatus = model.VerificationUnverified
	}
	if u.Credits < 0 {
		u.Credits = 0
	}
	if u.Username == "" {
		if at := strings.Index(u.Email, "@"); at > 0 {
			u.Username = u.Email[:at]
		}
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
