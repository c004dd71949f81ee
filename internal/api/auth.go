package api

import (
	"net/http"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
}

func (h *Handler) issue(c *gin.Context, status int, u *model.User) {
	token, expiresAt, err := h.tokens.GenerateToken(*u)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(status, AuthResponse{Token: token, ExpiresAt: expiresAt, User: u.Sanitized()})
}

func (h *Handler) login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	var u *model.User
	// Authenticate may upgrade a legacy password, so it runs as an update.
	err := h.update(c, func(st *state.AppState, _ time.Time) (err error) {
		u, err = st.Authenticate(req.Email, req.Password)
		return err
	})
	if err != nil {
		h.logger.Debug("Login rejected", zap.String("email", req.Email), zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	h.issue(c, http.StatusOK, u)
}

func (h *Handler) register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	var u *model.User
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		u, err = st.Register(req, now)
		return err
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.logger.Info("User registered", zap.String("userID", u.ID))
	h.issue(c, http.StatusCreated, u)
}

func (h *Handler) logout(c *gin.Context) {
	jti, expiresAt := common.GetTokenIDFromContext(c)
	if err := h.blocklist.AddToBlocklist(c.Request.Context(), jti, expiresAt); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) me(c *gin.Context) {
	actorID := common.GetUserIDFromContext(c)
	var out *model.User
	err := h.view(c, func(st *state.AppState) error {
		u, ok := st.FindUser(actorID)
		if !ok {
			return common.ErrUnauthorized.WithMessage("Account no longer exists.")
		}
		out = sanitizedUser(u)
		return nil
	})
	respondRecord(c, err, out)
}
