// Package state holds the marketplace aggregate root and every rule that mutates it.
//
// An AppState is the unit of durability: it is encoded as one JSON blob, decoded
// and migrated on every read, and written back whole after each mutation.
// Methods on *AppState never perform I/O.
package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/vueltra/vueltra-property2-sub000/internal/model"
)

// newID generates identifiers for created records. Replaced in tests that need stable ids.
var newID = uuid.NewString

// AppState is the aggregate of all marketplace collections plus the session pointer.
type AppState struct {
	Users        []model.User            `json:"users"`
	Listings     []model.Listing         `json:"listings"`
	Transactions []model.Transaction     `json:"transactions"`
	Reports      []model.ListingReport   `json:"reports"`
	BlogPosts    []model.BlogPost        `json:"blogPosts"`
	Requests     []model.PropertyRequest `json:"requests"`
	// CurrentUser is a by-value snapshot of the logged-in entry of Users, or nil.
	CurrentUser *model.User       `json:"currentUser"`
	Settings    model.AppSettings `json:"settings"`
	// SignedOut records an explicit logout so the dev auto-login stays off.
	SignedOut   bool              `json:"signedOut,omitempty"`

	// autoSession marks a CurrentUser chosen by Options.AutoLoginAdmin. Such a
	// session is never encoded.
	autoSession bool
}

func (s *AppState) userIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *AppState) listingIndex(id string) int {
	for i := range s.Listings {
		if s.Listings[i].ID == id {
			return i
		}
	}
	return -1
}

// FindUser returns a copy of the user with the given id.
func (s *AppState) FindUser(id string) (model.User, bool) {
	i := s.userIndex(id)
	if i < 0 {
		return model.User{}, false
	}
	return s.Users[i].Clone(), true
}

// FindUserByEmail matches emails case-insensitively.
func (s *AppState) FindUserByEmail(email string) (model.User, bool) {
	email = model.NormalizeEmail(email)
	for i := range s.Users {
		if model.NormalizeEmail(s.Users[i].Email) == email {
			return s.Users[i].Clone(), true
		}
	}
	return model.User{}, false
}

// FindListing returns a copy of the listing with the given id.
func (s *AppState) FindListing(id string) (model.Listing, bool) {
	i := s.listingIndex(id)
	if i < 0 {
		return model.Listing{}, false
	}
	return s.Listings[i].Clone(), true
}

// SessionUserID is the id of the logged-in user, or "" when nobody is.
func (s *AppState) SessionUserID() string {
	if s.CurrentUser == nil {
		return ""
	}
	return s.CurrentUser.ID
}

// SyncSession re-derives the session snapshot from Users. A session whose
// user no longer exists is dropped.
func (s *AppState) SyncSession() {
	if s.CurrentUser == nil {
		return
	}
	i := s.userIndex(s.CurrentUser.ID)
	if i < 0 {
		s.CurrentUser = nil
		return
	}
	u := s.Users[i].Clone()
	s.CurrentUser = &u
}

// ListingsBySeller returns copies of the listings owned by sellerID, in stored order.
func (s *AppState) ListingsBySeller(sellerID string) []model.Listing {
	out := []model.Listing{}
	for _, l := range s.Listings {
		if l.SellerID == sellerID {
			out = append(out, l.Clone())
		}
	}
	return out
}

// TransactionsFor returns the ledger entries of one user, in stored order.
func (s *AppState) TransactionsFor(userID string) []model.Transaction {
	out := []model.Transaction{}
	for _, t := range s.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (s *AppState) appendTransaction(userID string, typ model.LedgerType, amount int64, description string, at time.Time) model.Transaction {
	tx := model.Transaction{
		ID:          newID(),
		UserID:      userID,
		Type:        typ,
		Amount:      amount,
		Description: description,
		Date:        at,
	}
	s.Transactions = append(s.Transactions, tx)
	return tx
}
