package api

import (
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type topUpRequest struct {
	Amount int64 `json:"amount" binding:"gt=0"`
}

type creditsRequest struct {
	Operation model.CreditOperation `json:"operation" binding:"required,oneof=ADD SUBTRACT"`
	Amount    int64                 `json:"amount" binding:"gte=0"`
}

type verificationDecision struct {
	Status model.VerificationStatus `json:"status" binding:"required"`
}

func (h *Handler) listUsers(c *gin.Context) {
	var out []model.User
	err := h.view(c, func(st *state.AppState) error {
		out = st.SanitizedUsers()
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, out)
}

func (h *Handler) publicProfile(c *gin.Context) {
	var out *model.PublicProfile
	err := h.view(c, func(st *state.AppState) (err error) {
		out, err = st.PublicProfile(c.Param("id"))
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) updateMe(c *gin.Context) {
	var patch model.ProfileUpdate
	if !bindJSON(c, &patch) {
		return
	}
	actorID := common.GetUserIDFromContext(c)
	var out *model.User
	err := h.update(c, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.UpdateUser(actorID, patch, false)
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) adminUpdateUser(c *gin.Context) {
	var patch model.ProfileUpdate
	if !bindJSON(c, &patch) {
		return
	}
	var out *model.User
	err := h.update(c, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.UpdateUser(c.Param("id"), patch, true)
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) topUp(c *gin.Context) {
	var req topUpRequest
	if !bindJSON(c, &req) {
		return
	}
	actorID := common.GetUserIDFromContext(c)
	var out *model.User
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.TopUp(actorID, req.Amount, now)
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) adminManageCredits(c *gin.Context) {
	var req creditsRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := c.Param("id")
	var out *model.User
	err := h.update(c, func(st *state.AppState, now time.Time) (err error) {
		out, err = st.ManageCredits(userID, req.Operation, req.Amount, now)
		return err
	})
	if err == nil && out != nil {
		h.logger.Info("Credits adjusted",
			zap.String("userID", userID),
			zap.String("operation", string(req.Operation)),
			zap.Int64("amount", req.Amount),
			zap.String("adminID", common.GetUserIDFromContext(c)),
		)
	}
	respondRecord(c, err, out)
}

func (h *Handler) submitVerification(c *gin.Context) {
	var docs model.VerificationDocs
	if !bindJSON(c, &docs) {
		return
	}
	actorID := common.GetUserIDFromContext(c)
	var out *model.User
	err := h.update(c, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.SubmitVerification(actorID, docs)
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) adminDecideVerification(c *gin.Context) {
	var req verificationDecision
	if !bindJSON(c, &req) {
		return
	}
	var out *model.User
	err := h.update(c, func(st *state.AppState, _ time.Time) (err error) {
		out, err = st.DecideVerification(c.Param("id"), req.Status)
		return err
	})
	respondRecord(c, err, out)
}

func (h *Handler) myTransactions(c *gin.Context) {
	actorID := common.GetUserIDFromContext(c)
	var out []model.Transaction
	err := h.view(c, func(st *state.AppState) error {
		out = st.TransactionsFor(actorID)
		return nil
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, out)
}
