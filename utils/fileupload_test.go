package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="img"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)

	if len(form.File["img"]) > 0 {
		fileHeader := form.File["img"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile_Success(t *testing.T) {
	for _, name := range []string{"dish.png", "dish.jpg", "dish.JPEG", "dish.gif", "dish.webp"} {
		t.Run(name, func(t *testing.T) {
			content := []byte("fake image content")
			fileHeader := createTestFileHeader(name, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			assert.NoError(t, ValidateImageFile(fileHeader))
		})
	}
}

func TestValidateImageFile_FileTooLarge(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("large.png", 11*1024*1024, content)
	require.NotNil(t, fileHeader)

	err := ValidateImageFile(fileHeader)
	require.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
	assert.Contains(t, fileErr.Message, "File size exceeds maximum allowed size")
}

func TestValidateImageFile_InvalidFormat(t *testing.T) {
	for _, name := range []string{"menu.pdf", "script.exe", "noextension"} {
		t.Run(name, func(t *testing.T) {
			content := []byte("not an image")
			fileHeader := createTestFileHeader(name, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			err := ValidateImageFile(fileHeader)
			require.Error(t, err)

			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
		})
	}
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{Code: "TEST_ERROR", Message: "Test error message"}
	assert.Equal(t, "Test error message", err.Error())
}

func TestImageContentType(t *testing.T) {
	contentType, ok := ImageContentType("photo.JPG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", contentType)

	_, ok = ImageContentType("notes.txt")
	assert.False(t, ok)
}

func TestTimestampFilename(t *testing.T) {
	now := time.UnixMilli(1714564800123)
	assert.Equal(t, "1714564800123.png", TimestampFilename("Burger.PNG", now))
	assert.Equal(t, "1714564800123", TimestampFilename("noext", now))
}

func TestUniqueFilenameWithinOneMillisecond(t *testing.T) {
	now := time.UnixMilli(1714564800123)
	first := UniqueFilename("Burger.PNG", now)
	second := UniqueFilename("Burger.PNG", now)

	assert.NotEqual(t, first, second)
	for _, name := range []string{first, second} {
		assert.Regexp(t, `^1714564800123_[0-9a-f]{12}\.png$`, name)
		assert.True(t, IsSafeFilename(name))
	}
}

func TestIsSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"1714564800123.png", true},
		{"", false},
		{"../secret.png", false},
		{"dir/file.png", false},
		{`dir\file.png`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafeFilename(tt.name))
		})
	}
}

func TestSaveUploadedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	content := []byte("fake png content")

	first, err := SaveUploadedFile(createTestFileHeader("a.png", int64(len(content)), content), dir)
	require.NoError(t, err)
	second, err := SaveUploadedFile(createTestFileHeader("b.png", int64(len(content)), content), dir)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "uploads must never overwrite each other")
	assert.Equal(t, ".png", filepath.Ext(first))

	saved, err := os.ReadFile(filepath.Join(dir, first))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestGetImageURL(t *testing.T) {
	assert.Equal(t, "/images/1714564800123.png", GetImageURL("1714564800123.png"))
	assert.Equal(t, "", GetImageURL(""))
}
