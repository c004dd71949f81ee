package state

import (
	"strings"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Register creates an account with no credits, UNVERIFIED status and an empty
// wishlist. It does not touch the session; see SetSession.
func (s *AppState) Register(req model.RegisterRequest, now time.Time) (*model.User, error) {
	if !s.Settings.EnableRegistration {
		return nil, common.ErrRegistrationClosed
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, common.ErrBadRequest.WithMessage("Email and password are required.")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, common.ErrBadRequest.WithMessage("A valid email address is required.")
	}
	if _, taken := s.FindUserByEmail(email); taken {
		return nil, common.ErrEmailRegistered
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = email[:strings.Index(email, "@")]
	}
	u := model.User{
		ID:                 newID(),
		Username:           username,
		Email:              email,
		Phone:              req.Phone,
		Credits:            0,
		Wishlist:           []string{},
		VerificationStatus: model.VerificationUnverified,
		PasswordHash:       hash,
		JoinedAt:           now,
	}
	s.Users = append(s.Users, u)

	out := u.Sanitized()
	return &out, nil
}

// Authenticate checks credentials. A record still holding a legacy plaintext
// password is upgraded to a hash on success.
func (s *AppState) Authenticate(email, password string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	for i := range s.Users {
		u := &s.Users[i]
		if model.NormalizeEmail(u.Email) != email {
			continue
		}
		switch {
		case u.PasswordHash != "":
			if !checkPassword(u.PasswordHash, password) {
				return nil, common.ErrInvalidCredentials
			}
		case checkLegacyPassword(u.LegacyPassword, password):
			hash, err := hashPassword(password)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = hash
			u.LegacyPassword = ""
		default:
			return nil, common.ErrInvalidCredentials
		}
		out := u.Sanitized()
		return &out, nil
	}
	return nil, common.ErrInvalidCredentials
}

// SetSession points the session at userID. An unknown id clears it.
func (s *AppState) SetSession(userID string) {
	i := s.userIndex(userID)
	if i < 0 {
		s.CurrentUser = nil
		return
	}
	u := s.Users[i].Clone()
	s.CurrentUser = &u
	s.SignedOut = false
	s.autoSession = false
}

// ClearSession logs out without touching any collection. The logout is
// remembered, so AutoLoginAdmin does not bring the admin back.
func (s *AppState) ClearSession() {
	s.CurrentUser = nil
	s.SignedOut = true
	s.autoSession = false
}
