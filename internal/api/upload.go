package api

import (
	"errors"
	"net/http"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"
	"github.com/vueltra/vueltra-property2-sub000/internal/upload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultUploadMaxBytes = 5 << 20

// uploadImage stores the multipart "file" field and returns {"url"}.
func (h *Handler) uploadImage(c *gin.Context) {
	limit := h.cfg.UploadMaxBytes
	if limit <= 0 {
		limit = defaultUploadMaxBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.RespondWithError(c, common.NewAPIError(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File is too large."))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithMessage("A file is required.").WithDetails(err.Error()))
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) {
			common.RespondWithError(c, common.ErrUnprocessableEntity.WithMessage("Only image files can be uploaded."))
			return
		}
		h.logger.Error("Upload failed", zap.String("filename", header.Filename), zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithMessage("Upload failed."))
		return
	}
	common.RespondOK(c, gin.H{"url": url})
}
