// Package api serves the marketplace over HTTP on top of a store.Store. It is
// the backend the remote data source talks to.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/auth"
	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/middleware"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"
	"github.com/vueltra/vueltra-property2-sub000/internal/store"
	"github.com/vueltra/vueltra-property2-sub000/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler holds the dependencies shared by every endpoint.
type Handler struct {
	store     *store.Store
	tokens    auth.TokenService
	blocklist auth.TokenBlocklistService
	uploader  upload.Uploader
	cfg       *config.Config
	logger    *zap.Logger
}

func NewHandler(
	s *store.Store,
	tokens auth.TokenService,
	blocklist auth.TokenBlocklistService,
	uploader upload.Uploader,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:     s,
		tokens:    tokens,
		blocklist: blocklist,
		uploader:  uploader,
		cfg:       cfg,
		logger:    logger.Named("api"),
	}
}

// RegisterRoutes mounts /health and every /api endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	authMW := middleware.AuthMiddleware(h.tokens, h.blocklist, h.logger)
	optionalAuthMW := middleware.OptionalAuthMiddleware(h.tokens, h.blocklist)
	adminMW := middleware.AdminMiddleware(h.IsAdmin)

	r.GET("/health", h.health)

	root := r.Group("/api")

	authGroup := root.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)
		authGroup.POST("/logout", authMW, h.logout)
		authGroup.GET("/me", authMW, h.me)
	}

	listings := root.Group("/listings")
	{
		listings.GET("", h.listListings)
		listings.GET("/:id", h.getListing)
		listings.POST("", authMW, h.createListing)
		listings.PUT("/:id", authMW, h.updateListing)
		listings.DELETE("/:id", authMW, h.deleteListing)
		listings.PATCH("/:id/status", authMW, h.updateListingStatus)
		listings.POST("/:id/pin", authMW, h.pinListing)
		listings.POST("/:id/wishlist", authMW, h.toggleWishlist)
	}

	users := root.Group("/users")
	{
		users.GET("", authMW, adminMW, h.listUsers)
		users.GET("/:id/public", h.publicProfile)
		users.PUT("/me", authMW, h.updateMe)
		users.POST("/me/verification", authMW, h.submitVerification)
		users.POST("/me/topup", authMW, h.topUp)
	}

	root.GET("/transactions/me", authMW, h.myTransactions)

	reports := root.Group("/reports")
	{
		reports.GET("", authMW, adminMW, h.listReports)
		reports.POST("", authMW, h.createReport)
		reports.DELETE("/:id", authMW, adminMW, h.deleteReport)
	}

	blog := root.Group("/blog")
	{
		blog.GET("", h.listBlogPosts)
		blog.GET("/:id", h.getBlogPost)
		blog.POST("", authMW, adminMW, h.createBlogPost)
		blog.PUT("/:id", authMW, adminMW, h.updateBlogPost)
		blog.DELETE("/:id", authMW, adminMW, h.deleteBlogPost)
	}

	requests := root.Group("/requests")
	{
		requests.GET("", h.listRequests)
		requests.POST("", optionalAuthMW, h.createRequest)
		requests.DELETE("/:id", authMW, adminMW, h.deleteRequest)
	}

	root.GET("/settings", h.getSettings)
	root.PUT("/settings", authMW, adminMW, h.updateSettings)

	admin := root.Group("/admin", authMW, adminMW)
	{
		admin.POST("/listings/:id/toggle-pin", h.adminTogglePin)
		admin.PUT("/users/:id", h.adminUpdateUser)
		admin.POST("/users/:id/credits", h.adminManageCredits)
		admin.POST("/users/:id/verification", h.adminDecideVerification)
	}

	root.POST("/upload", authMW, h.uploadImage)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "stateKey": h.store.Key()})
}

// IsAdmin looks the user up in the current state, so a demoted admin loses
// access without waiting for their token to expire.
func (h *Handler) IsAdmin(ctx context.Context, userID string) (bool, error) {
	st, err := h.store.Load(ctx)
	if err != nil {
		return false, err
	}
	u, ok := st.FindUser(userID)
	return ok && u.IsAdmin, nil
}

func (h *Handler) view(c *gin.Context, fn func(st *state.AppState) error) error {
	st, err := h.store.Load(c.Request.Context())
	if err != nil {
		return err
	}
	return fn(st)
}

func (h *Handler) update(c *gin.Context, fn func(st *state.AppState, now time.Time) error) error {
	return h.store.Update(c.Request.Context(), fn)
}

// bindJSON binds and validates the request body. On failure it writes the
// error response and returns false.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		common.RespondWithError(c, bindError(err))
		return false
	}
	return true
}

// bindError maps a ShouldBindJSON failure onto an APIError.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return common.NewValidationAPIError(common.FormatValidationErrors(ve))
	}
	return common.ErrBadRequest.WithDetails(err.Error())
}

// requireListingEditor fails unless the listing is missing or the actor owns it
// or is an admin. Missing listings are left to the state method, which treats
// them as a no-op.
func requireListingEditor(st *state.AppState, actorID, listingID string) error {
	li, ok := st.FindListing(listingID)
	if !ok {
		return nil
	}
	if li.SellerID == actorID {
		return nil
	}
	if u, ok := st.FindUser(actorID); ok && u.IsAdmin {
		return nil
	}
	return common.ErrForbidden.WithMessage("You can only manage your own listings.")
}

// respondRecord writes a mutation result; nil pointers render as null.
func respondRecord[T any](c *gin.Context, err error, v *T) {
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, v)
}

func sanitizedUser(u model.User) *model.User {
	out := u.Sanitized()
	return &out
}
