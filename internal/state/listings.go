package state

import (
	"fmt"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
)

// CreateListing appends a new ACTIVE, unpinned listing owned by the actor, or by
// in.SellerID when the actor is an admin posting on someone's behalf.
func (s *AppState) CreateListing(actorID string, in model.ListingInput, now time.Time) (*model.Listing, error) {
	ai := s.userIndex(actorID)
	if ai < 0 {
		return nil, common.ErrUnauthorized
	}
	seller := &s.Users[ai]
	if in.SellerID != "" && in.SellerID != actorID {
		if !seller.IsAdmin {
			return nil, common.ErrForbidden
		}
		ti := s.userIndex(in.SellerID)
		if ti < 0 {
			return nil, common.ErrNotFound.WithMessage("Seller not found.")
		}
		seller = &s.Users[ti]
	}
	if !in.Location.Valid() {
		return nil, common.ErrInvalidLocation
	}

	l := model.Listing{
		ID:        newID(),
		CreatedAt: now,
	}
	in.Apply(&l)
	l.Status = model.StatusActive
	l.IsPinned = false
	l.SellerID = seller.ID
	l.SellerName = seller.Username
	s.Listings = append(s.Listings, l)

	out := l.Clone()
	return &out, nil
}

// UpdateListing overwrites the editable fields. A missing listing is a no-op.
func (s *AppState) UpdateListing(id string, in model.ListingInput) (*model.Listing, error) {
	i := s.listingIndex(id)
	if i < 0 {
		return nil, nil
	}
	if !in.Location.Valid() {
		return nil, common.ErrInvalidLocation
	}
	in.Apply(&s.Listings[i])
	out := s.Listings[i].Clone()
	return &out, nil
}

// UpdateListingStatus moves a listing between ACTIVE and SOLD in either direction.
func (s *AppState) UpdateListingStatus(id string, status model.ListingStatus) *model.Listing {
	i := s.listingIndex(id)
	if i < 0 {
		return nil
	}
	s.Listings[i].Status = status.Normalize()
	out := s.Listings[i].Clone()
	return &out
}

// PinListing promotes a listing and charges cost to its owner. Either the debit,
// the pin flag and the SPEND entry all happen, or nothing changes.
func (s *AppState) PinListing(id string, cost int64, now time.Time) (*model.Listing, error) {
	if cost < 0 {
		return nil, common.ErrBadRequest.WithMessage("Pin cost must not be negative.")
	}
	li := s.listingIndex(id)
	if li < 0 {
		return nil, nil
	}
	l := &s.Listings[li]
	oi := s.userIndex(l.SellerID)
	if oi < 0 {
		return nil, common.ErrNotFound.WithMessage("Listing owner not found.")
	}
	owner := &s.Users[oi]
	if owner.Credits < cost {
		return nil, common.ErrInsufficientCredits
	}

	owner.Credits -= cost
	l.IsPinned = true
	s.appendTransaction(owner.ID, model.LedgerSpend, cost, fmt.Sprintf("Pin listing: %s", l.Title), now)
	s.SyncSession()

	out := l.Clone()
	return &out, nil
}

// TogglePin flips the pin flag without touching any balance.
func (s *AppState) TogglePin(id string) *model.Listing {
	i := s.listingIndex(id)
	if i < 0 {
		return nil
	}
	s.Listings[i].IsPinned = !s.Listings[i].IsPinned
	out := s.Listings[i].Clone()
	return &out
}

// DeleteListing removes the listing only. Reports and wishlists that reference
// it are left as they are.
func (s *AppState) DeleteListing(id string) bool {
	i := s.listingIndex(id)
	if i < 0 {
		return false
	}
	s.Listings = append(s.Listings[:i], s.Listings[i+1:]...)
	return true
}

// ToggleWishlist adds or removes listingID on the actor's wishlist and reports
// whether it is present afterwards. Without an actor it does nothing.
func (s *AppState) ToggleWishlist(actorID, listingID string) bool {
	i := s.userIndex(actorID)
	if i < 0 || listingID == "" {
		return false
	}
	u := &s.Users[i]
	kept := make([]string, 0, len(u.Wishlist)+1)
	removed := false
	for _, id := range u.Wishlist {
		if id == listingID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		kept = append(kept, listingID)
	}
	u.Wishlist = kept
	s.SyncSession()
	return !removed
}
