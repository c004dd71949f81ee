package api

import (
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status model.ListingStatus `json:"status" binding:"required,oneof=ACTIVE SOLD DRAFT"`
}

func (h *Handler) listListings(c *gin.Context) {
	var out []model.Listing
	err := h.view(c, func(st *state.AppState) error {
		out = make([]model.Listing, 0, len(st.Listings))
		for _, li := range st.Listings {
			out = append(out, li.Clone())
		}
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, out)
}

func (h *Handler) getListing(c *gin.Context) {
	var out *model.Listing
	err := h.view(c, func(st *state.AppState) error {
		li, ok := st.FindListing(c.Param("id"))
		if !ok {
			return common.ErrNotFound.WithMessage("Listing not found.")
		}
		out = &li
		return nil
	})
	respondRecord(c, err, out)
}

func (h *Handler) createListing(c *gin.Context) {
	var in model.ListingInput
	if !bindJSON(c, &in) {
		return
	}
	actorID := common.GetUserIDFromContext(c)
	var out *model.Listing
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateListing(actorID, in, now)
		return err
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.logger.Info("Listing created", zap.String("listingID", out.ID), zap.String("sellerID", out.SellerID))
	common.RespondCreated(c, out)
}

func (h *Handler) updateListing(c *gin.Context) {
	var in model.ListingInput
	if !bindJSON(c, &in) {
		return
	}
	id, actorID := c.Param("id"), common.GetUserIDFromContext(c)
	var out *model.Listing
	err := h.update(c, func(st *state.AppState, _ time.Time) (err error) {
		if err := requireListingEditor(st, actorID, id); err != nil {
			return err
		}
		out, err = st.UpdateListing(id, in)
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) updateListingStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	id, actorID := c.Param("id"), common.GetUserIDFromContext(c)
	var out *model.Listing
	err := h.update(c, func(st *state.AppState, _ time.Time) error {
		if err := requireListingEditor(st, actorID, id); err != nil {
			return err
		}
		out = st.UpdateListingStatus(id, req.Status)
		return nil
	})
	respondRecord(c, err, out)
}

// pinListing charges the configured pin cost. A cost in the request body is ignored.
func (h *Handler) pinListing(c *gin.Context) {
	id, actorID := c.Param("id"), common.GetUserIDFromContext(c)
	var out *model.Listing
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		if err := requireListingEditor(st, actorID, id); err != nil {
			return err
		}
		out, err = st.PinListing(id, st.Settings.PinCost, now)
		return err
	})
	if err == nil && out != nil {
		h.logger.Info("Listing pinned", zap.String("listingID", id), zap.String("actorID", actorID))
	}
	respondRecord(c, err, out)
}

func (h *Handler) deleteListing(c *gin.Context) {
	id, actorID := c.Param("id"), common.GetUserIDFromContext(c)
	err := h.update(c, func(st *state.AppState, _ time.Time) error {
		if err := requireListingEditor(st, actorID, id); err != nil {
			return err
		}
		st.DeleteListing(id)
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) toggleWishlist(c *gin.Context) {
	id, actorID := c.Param("id"), common.GetUserIDFromContext(c)
	var present bool
	err := h.update(c, func(st *state.AppState, _ time.Time) error {
		present = st.ToggleWishlist(actorID, id)
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"inWishlist": present})
}

func (h *Handler) adminTogglePin(c *gin.Context) {
	var out *model.Listing
	err := h.update(c, func(st *state.AppState, _ time.Time) error {
		out = st.TogglePin(c.Param("id"))
		return nil
	})
	respondRecord(c, err, out)
}
