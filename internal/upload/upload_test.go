package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vueltra/vueltra-property2-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")...)

func TestDataURIUploader(t *testing.T) {
	url, err := NewDataURIUploader().Upload(context.Background(), "rumah.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"), url)

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, decoded)
}

func TestDataURI_TextHasNoParams(t *testing.T) {
	url := DataURI([]byte("halo"))
	assert.True(t, strings.HasPrefix(url, "data:text/plain;base64,"), url)
}

func setupDiskUploader(t *testing.T) *DiskUploader {
	dir := t.TempDir()
	u, err := NewDiskUploader(dir, "http://localhost:8080/uploads/", "images", zap.NewNop())
	require.NoError(t, err, "Failed to create DiskUploader")
	require.NotNil(t, u)
	return u
}

func TestDiskUploader_SavesImage(t *testing.T) {
	u := setupDiskUploader(t)

	url, err := u.Upload(context.Background(), "foto.PNG", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/images/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	rel := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	saved, err := os.ReadFile(filepath.Join(u.Dir(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, saved)
}

func TestDiskUploader_FixesMisleadingExtension(t *testing.T) {
	u := setupDiskUploader(t)
	url, err := u.Upload(context.Background(), "foto.jpg", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	url, err = u.Upload(context.Background(), "no-extension", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"), url)
}

func TestDiskUploader_RejectsNonImages(t *testing.T) {
	u := setupDiskUploader(t)
	_, err := u.Upload(context.Background(), "notes.png", strings.NewReader("just text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	entries, err := os.ReadDir(filepath.Join(u.Dir(), "images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewDiskUploader_InvalidArgs(t *testing.T) {
	_, err := NewDiskUploader("", "http://x", "images", zap.NewNop())
	assert.Error(t, err)
	_, err = NewDiskUploader(t.TempDir(), "http://x", "../escape", zap.NewNop())
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	u, err := NewFromConfig(&config.Config{UploadDir: dir, UploadPublicBaseURL: "http://localhost:8080/uploads"}, zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &DiskUploader{}, u)
	assert.DirExists(t, filepath.Join(dir, ImagesSubDir))

	u, err = NewFromConfig(&config.Config{
		CloudinaryCloudName: "demo",
		CloudinaryAPIKey:    "key",
		CloudinaryAPISecret: "secret",
		CloudinaryFolder:    "vueltra",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryUploader{}, u)
}
