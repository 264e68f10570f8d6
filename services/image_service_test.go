package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kendall-kelly/restaurant-ms/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageService_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	service := NewLocalImageService(dir)
	content := []byte("fake png content")

	filename, err := service.UploadImage(newFileHeader(t, "burger.png", content))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(filename))

	saved, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, content, saved)

	url, err := service.GetImageURL(filename)
	require.NoError(t, err)
	assert.Equal(t, "/images/"+filename, url)

	require.NoError(t, service.DeleteImage(filename))
	_, err = os.Stat(filepath.Join(dir, filename))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error
	assert.NoError(t, service.DeleteImage(filename))
}

func TestLocalImageService_RejectsInvalidFiles(t *testing.T) {
	service := NewLocalImageService(t.TempDir())

	_, err := service.UploadImage(newFileHeader(t, "menu.pdf", []byte("%PDF")))
	require.Error(t, err)
	var uploadErr *utils.FileUploadError
	assert.ErrorAs(t, err, &uploadErr)
}

func TestLocalImageService_DeleteRejectsTraversal(t *testing.T) {
	service := NewLocalImageService(t.TempDir())
	assert.Error(t, service.DeleteImage("../config.go"))
	assert.NoError(t, service.DeleteImage(""))
}

func TestS3ImageService(t *testing.T) {
	s3 := NewMockS3Service()
	service := InitImageService(s3)
	defer SetImageService(nil)

	assert.Same(t, service, GetImageService())

	filename, err := service.UploadImage(newFileHeader(t, "pizza.jpg", []byte("fake jpg")))
	require.NoError(t, err)
	assert.True(t, s3.FileExists(filename))

	url, err := service.GetImageURL(filename)
	require.NoError(t, err)
	assert.Contains(t, url, S3KeyPrefix+filename)

	require.NoError(t, service.DeleteImage(filename))
	assert.False(t, s3.FileExists(filename))

	_, err = service.GetImageURL(filename)
	assert.Error(t, err, "missing objects cannot be presigned")
}

func TestS3ImageService_ValidatesBeforeUpload(t *testing.T) {
	s3 := NewMockS3Service()
	service := InitImageService(s3)
	defer SetImageService(nil)

	_, err := service.UploadImage(newFileHeader(t, "notes.txt", []byte("text")))
	require.Error(t, err)
	assert.False(t, s3.FileExists("mock_notes.txt"))
}

func TestMockImageService(t *testing.T) {
	mock := NewMockImageService()
	mock.SetAsMockForTesting()
	defer SetImageService(nil)

	filename, err := GetImageService().UploadImage(newFileHeader(t, "soup.png", []byte("png")))
	require.NoError(t, err)
	assert.True(t, mock.ImageExists(filename))

	require.NoError(t, GetImageService().DeleteImage(filename))
	assert.False(t, mock.ImageExists(filename))
	assert.Equal(t, []string{filename}, mock.Deleted())
}
