package upload

import (
	"github.com/vueltra/vueltra-property2-sub000/internal/config"

	"go.uber.org/zap"
)

// ImagesSubDir is where the disk backend stores uploads, relative to UPLOAD_DIR.
const ImagesSubDir = "images"

// NewFromConfig returns the server-side uploader: Cloudinary when its
// credentials are configured, the local disk otherwise.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (Uploader, error) {
	logger = logger.Named("upload")
	if cfg.CloudinaryEnabled() {
		logger.Info("Uploads go to Cloudinary", zap.String("folder", cfg.CloudinaryFolder))
		u, err := NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder, logger)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	u, err := NewDiskUploader(cfg.UploadDir, cfg.UploadPublicBaseURL, ImagesSubDir, logger)
	if err != nil {
		return nil, err
	}
	return u, nil
}
