package state

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
)

// SanitizedUsers returns every user without credentials.
func (s *AppState) SanitizedUsers() []model.User {
	out := make([]model.User, 0, len(s.Users))
	for _, u := range s.Users {
		out = append(out, u.Sanitized())
	}
	return out
}

// UpdateUser merges patch into the target user. A username change is copied
// onto the sellerName of every listing the user owns, and the session snapshot
// is refreshed when it points at the target. IsAdmin is only honored when
// allowAdmin is set. A missing target is a no-op.
func (s *AppState) UpdateUser(targetID string, patch model.ProfileUpdate, allowAdmin bool) (*model.User, error) {
	i := s.userIndex(targetID)
	if i < 0 {
		return nil, nil
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return nil, common.ErrBadRequest.WithMessage("Username must not be empty.")
	}

	u := &s.Users[i]
	if patch.Username != nil {
		u.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.PhotoURL != nil {
		u.PhotoURL = *patch.PhotoURL
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if allowAdmin && patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}

	s.renameSeller(u.ID, u.Username)
	s.SyncSession()

	out := u.Sanitized()
	return &out, nil
}

func (s *AppState) renameSeller(sellerID, name string) {
	for i := range s.Listings {
		if s.Listings[i].SellerID == sellerID {
			s.Listings[i].SellerName = name
		}
	}
}

// ManageCredits adjusts a balance on an admin's behalf. SUBTRACT never takes
// the balance below zero; the ledger entry carries the amount actually removed.
func (s *AppState) ManageCredits(userID string, op model.CreditOperation, amount int64, now time.Time) (*model.User, error) {
	if amount < 0 {
		return nil, common.ErrBadRequest.WithMessage("Amount must not be negative.")
	}
	if op != model.CreditAdd && op != model.CreditSubtract {
		return nil, common.ErrBadRequest.WithMessage(fmt.Sprintf("Unknown credit operation %q.", op))
	}
	i := s.userIndex(userID)
	if i < 0 {
		return nil, nil
	}

	u := &s.Users[i]
	if op == model.CreditAdd {
		if err := checkCreditHeadroom(u.Credits, amount); err != nil {
			return nil, err
		}
	}
	switch op {
	case model.CreditAdd:
		u.Credits += amount
		s.appendTransaction(u.ID, model.LedgerTopUp, amount, fmt.Sprintf("Admin credit adjustment: +%d", amount), now)
	case model.CreditSubtract:
		removed := amount
		if removed > u.Credits {
			removed = u.Credits
		}
		u.Credits -= removed
		s.appendTransaction(u.ID, model.LedgerSpend, removed, fmt.Sprintf("Admin credit adjustment: -%d", amount), now)
	}
	s.SyncSession()

	out := u.Sanitized()
	return &out, nil
}

// TopUp adds purchased credits to the actor's own balance.
func (s *AppState) TopUp(actorID string, amount int64, now time.Time) (*model.User, error) {
	i := s.userIndex(actorID)
	if i < 0 {
		return nil, common.ErrUnauthorized
	}
	if amount <= 0 {
		return nil, common.ErrBadRequest.WithMessage("Top-up amount must be positive.")
	}
	u := &s.Users[i]
	if err := checkCreditHeadroom(u.Credits, amount); err != nil {
		return nil, err
	}
	u.Credits += amount
	s.appendTransaction(u.ID, model.LedgerTopUp, amount, fmt.Sprintf("Top up %d credits", amount), now)
	s.SyncSession()

	out := u.Sanitized()
	return &out, nil
}

// SubmitVerification stores the KYC documents and marks the actor PENDING.
func (s *AppState) SubmitVerification(actorID string, docs model.VerificationDocs) (*model.User, error) {
	i := s.userIndex(actorID)
	if i < 0 {
		return nil, common.ErrUnauthorized
	}
	if !s.Settings.EnableKYC {
		return nil, common.ErrForbidden.WithMessage("Verification is currently disabled.")
	}
	if docs.KTPImageURL == "" || docs.SelfieImageURL == "" {
		return nil, common.ErrBadRequest.WithMessage("Both ID card and selfie images are required.")
	}
	u := &s.Users[i]
	u.KTPImageURL = docs.KTPImageURL
	u.SelfieImageURL = docs.SelfieImageURL
	u.VerificationStatus = model.VerificationPending
	s.SyncSession()

	out := u.Sanitized()
	return &out, nil
}

// DecideVerification sets the verification status chosen by an admin.
func (s *AppState) DecideVerification(userID string, status model.VerificationStatus) (*model.User, error) {
	if !status.Valid() {
		return nil, common.ErrBadRequest.WithMessage(fmt.Sprintf("Unknown verification status %q.", status))
	}
	i := s.userIndex(userID)
	if i < 0 {
		return nil, nil
	}
	s.Users[i].VerificationStatus = status
	s.SyncSession()

	out := s.Users[i].Sanitized()
	return &out, nil
}

// PublicProfile returns a seller and the listings they own.
func (s *AppState) PublicProfile(userID string) (*model.PublicProfile, error) {
	i := s.userIndex(userID)
	if i < 0 {
		return nil, common.ErrNotFound
	}
	u := s.Users[i].Sanitized()
	u.KTPImageURL = ""
	u.SelfieImageURL = ""
	u.Wishlist = []string{}
	return &model.PublicProfile{
		User:     u,
		Listings: s.ListingsBySeller(userID),
	}, nil
}

// checkCreditHeadroom rejects additions that would overflow the balance.
func checkCreditHeadroom(balance, amount int64) error {
	if amount > math.MaxInt64-balance {
		return common.ErrBadRequest.WithMessage("Amount exceeds the maximum balance.")
	}
	return nil
}
