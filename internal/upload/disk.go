package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiskUploader writes images under a directory served at publicBaseURL.
type DiskUploader struct {
	dir           string
	publicBaseURL string
	subDir        string
	logger        *zap.Logger
}

// NewDiskUploader creates dir if needed. Files land in dir/subDir and are
// addressed as publicBaseURL/subDir/<uuid><ext>.
func NewDiskUploader(dir, publicBaseURL, subDir string, logger *zap.Logger) (*DiskUploader, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir cannot be empty")
	}
	cleanSubDir := filepath.Clean(subDir)
	if strings.HasPrefix(cleanSubDir, "..") || filepath.IsAbs(cleanSubDir) {
		return nil, fmt.Errorf("invalid upload sub-directory %q", subDir)
	}
	if err := os.MkdirAll(filepath.Join(dir, cleanSubDir), os.ModePerm); err != nil {
		logger.Error("Failed to create upload directory", zap.String("path", dir), zap.Error(err))
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	logger.Info("Disk uploader initialized", zap.String("dir", dir), zap.String("publicBaseURL", publicBaseURL))
	return &DiskUploader{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		subDir:        cleanSubDir,
		logger:        logger,
	}, nil
}

// Dir is the root directory files are written under.
func (u *DiskUploader) Dir() string { return u.dir }

func (u *DiskUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	b, m, err := readImage(filename, r)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" || !m.Is(mimeForExt(ext)) {
		ext = m.Extension()
	}
	name := uuid.NewString() + ext
	dest := filepath.Join(u.dir, u.subDir, name)

	if err := os.WriteFile(dest, b, 0o644); err != nil {
		u.logger.Error("Failed to write uploaded file", zap.String("path", dest), zap.Error(err))
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	u.logger.Info("File saved", zap.String("path", dest), zap.String("mime", m.String()))

	rel := filepath.ToSlash(filepath.Join(u.subDir, name))
	return u.publicBaseURL + "/" + rel, nil
}

func mimeForExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}
