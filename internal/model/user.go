// File: internal/model/user.go
package model

import (
	"strings"
	"time"
)

// VerificationStatus is the KYC state of a user account.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationPending    VerificationStatus = "PENDING"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationRejected   VerificationStatus = "REJECTED"
)

// Valid reports whether v is one of the known verification states.
func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationUnverified, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// User is a marketplace account. Credits is the wallet balance and never goes below zero.
type User struct {
	ID                 string             `json:"id"`
	Username           string             `json:"username"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	PhotoURL           string             `json:"photoUrl"`
	Bio                string             `json:"bio"`
	Credits            int64              `json:"credits"`
	IsAdmin            bool               `json:"isAdmin"`
	Wishlist           []string           `json:"wishlist"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	KTPImageURL        string             `json:"ktpImageUrl,omitempty"`
	SelfieImageURL     string             `json:"selfieImageUrl,omitempty"`
	PasswordHash       string             `json:"passwordHash,omitempty"`
	// LegacyPassword is the plaintext password of records written before hashing
	// was introduced. It is upgraded to PasswordHash on the next successful login.
	LegacyPassword string    `json:"password,omitempty"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// Sanitized returns a copy of the user without credentials.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.LegacyPassword = ""
	u.Wishlist = append([]string{}, u.Wishlist...)
	return u
}

// Clone returns a deep copy so callers can never mutate stored state through it.
func (u User) Clone() User {
	u.Wishlist = append([]string{}, u.Wishlist...)
	return u
}

// HasInWishlist reports whether listingID is in the user's wishlist.
func (u *User) HasInWishlist(listingID string) bool {
	for _, id := range u.Wishlist {
		if id == listingID {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate carries the fields a profile update may change. Nil fields are left untouched.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=30"`
	PhotoURL *string `json:"photoUrl,omitempty"`
	Bio      *string `json:"bio,omitempty" binding:"omitempty,max=500"`
	// Admin-only fields; ignored by the self-service endpoint.
	IsAdmin *bool `json:"isAdmin,omitempty"`
}

// RegisterRequest is the input for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone,omitempty" binding:"omitempty,max=30"`
	Password string `json:"password" binding:"required,min=6,max=72"` // bcrypt max is 72 bytes
}

// LoginRequest is the input for a credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerificationDocs are the KYC document references submitted for review.
type VerificationDocs struct {
	KTPImageURL    string `json:"ktpImageUrl" binding:"required"`
	SelfieImageURL string `json:"selfieImageUrl" binding:"required"`
}

// CreditOperation is the direction of an admin balance adjustment.
type CreditOperation string

const (
	CreditAdd      CreditOperation = "ADD"
	CreditSubtract CreditOperation = "SUBTRACT"
)

// PublicProfile is what other users can see about a seller.
type PublicProfile struct {
	User     User      `json:"user"`
	Listings []Listing `json:"listings"`
}
