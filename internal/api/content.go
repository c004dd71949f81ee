package api

import (
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listReports(c *gin.Context) {
	var out []model.ListingReport
	err := h.view(c, func(st *state.AppState) error {
		out = append([]model.ListingReport{}, st.Reports...)
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, out)
}

func (h *Handler) createReport(c *gin.Context) {
	var in model.ReportInput
	if !bindJSON(c, &in) {
		return
	}
	actorID := common.GetUserIDFromContext(c)
	var out *model.ListingReport
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateReport(actorID, in, now)
		return err
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, out)
}

func (h *Handler) deleteReport(c *gin.Context) {
	h.deleteBy(c, (*state.AppState).DeleteReport)
}

func (h *Handler) listBlogPosts(c *gin.Context) {
	var out []model.BlogPost
	err := h.view(c, func(st *state.AppState) error {
		out = append([]model.BlogPost{}, st.BlogPosts...)
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, out)
}

// getBlogPost accepts either the post id or its slug.
func (h *Handler) getBlogPost(c *gin.Context) {
	var out *model.BlogPost
	err := h.view(c, func(st *state.AppState) error {
		p, ok := st.FindBlogPost(c.Param("id"))
		if !ok {
			return common.ErrNotFound.WithMessage("Blog post not found.")
		}
		out = &p
		return nil
	})
	respondRecord(c, err, out)
}

func (h *Handler) createBlogPost(c *gin.Context) {
	var in model.BlogPostInput
	if !bindJSON(c, &in) {
		return
	}
	var out *model.BlogPost
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateBlogPost(in, now)
		return err
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, out)
}

func (h *Handler) updateBlogPost(c *gin.Context) {
	var in model.BlogPostInput
	if !bindJSON(c, &in) {
		return
	}
	var out *model.BlogPost
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.UpdateBlogPost(c.Param("id"), in, now)
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) deleteBlogPost(c *gin.Context) {
	h.deleteBy(c, (*state.AppState).DeleteBlogPost)
}

func (h *Handler) listRequests(c *gin.Context) {
	var out []model.PropertyRequest
	err := h.view(c, func(st *state.AppState) error {
		out = append([]model.PropertyRequest{}, st.Requests...)
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, out)
}

// createRequest is open to anonymous visitors; a logged-in caller is recorded as the requester.
func (h *Handler) createRequest(c *gin.Context) {
	var in model.PropertyRequestInput
	if !bindJSON(c, &in) {
		return
	}
	actorID := common.GetUserIDFromContext(c)
	var out *model.PropertyRequest
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.CreateRequest(actorID, in, now)
		return err
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, out)
}

func (h *Handler) deleteRequest(c *gin.Context) {
	h.deleteBy(c, (*state.AppState).DeleteRequest)
}

func (h *Handler) getSettings(c *gin.Context) {
	var out model.AppSettings
	err := h.view(c, func(st *state.AppState) error {
		out = st.Settings
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, out)
}

// updateSettings merges the body over the current settings, so keys the
// client leaves out keep their value.
func (h *Handler) updateSettings(c *gin.Context) {
	var out model.AppSettings
	err := h.update(c, func(st *state.AppState, _ time.Time) (err error) {
		in := st.Settings
		if err := c.ShouldBindJSON(&in); err != nil {
			return bindError(err)
		}
		out, err = st.UpdateSettings(in)
		return err
	})
	respondRecord(c, err, &out)
}

// deleteBy removes the record named by the :id parameter. Unknown ids still get 204.
func (h *Handler) deleteBy(c *gin.Context, del func(st *state.AppState, id string) bool) {
	id := c.Param("id")
	err := h.update(c, func(st *state.AppState, _ time.Time) error {
		del(st, id)
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
