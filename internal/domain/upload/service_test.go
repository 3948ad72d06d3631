package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// fileHeader builds a real *multipart.FileHeader by parsing a multipart body.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["resume"][0]
}

func newTestService(t *testing.T, maxSize int64) *Service {
	t.Helper()
	svc := NewService(NewMemoryRepository(), t.TempDir(), maxSize)
	svc.now = func() time.Time { return time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_SaveOpenDelete(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	up, err := svc.Save(ctx, fileHeader(t, "My CV (final).pdf", samplePDF))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", up.MimeType)
	assert.Equal(t, "My CV (final).pdf", up.OriginalName)
	assert.Equal(t, int64(len(samplePDF)), up.Size)
	assert.Contains(t, up.FilePath, "2024/10/03/")
	assert.Contains(t, up.FilePath, "_My_CV__final_.pdf")

	got, path, err := svc.Open(ctx, up.ID)
	require.NoError(t, err)
	assert.Equal(t, up.ID, got.ID)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, data)

	require.NoError(t, svc.Delete(ctx, up.ID))
	_, _, err = svc.Open(ctx, up.ID)
	assert.ErrorIs(t, err, ErrUploadNotFound)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_SaveRejects(t *testing.T) {
	ctx := context.Background()

	_, err := newTestService(t, 0).Save(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = newTestService(t, 0).Save(ctx, fileHeader(t, "empty.pdf", nil))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = newTestService(t, 10).Save(ctx, fileHeader(t, "big.pdf", samplePDF))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	_, err = newTestService(t, 0).Save(ctx, fileHeader(t, "photo.png", png))
	assert.ErrorIs(t, err, ErrInvalidMimeType)
}

func TestService_PlainTextResume(t *testing.T) {
	up, err := newTestService(t, 0).Save(context.Background(), fileHeader(t, "resume", []byte("Jane Doe\nSoftware engineer\n")))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", up.MimeType)
	assert.Contains(t, up.FilePath, ".txt")
}

func TestHandler_Download(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t, 0)
	up, err := svc.Save(context.Background(), fileHeader(t, "cv.pdf", samplePDF))
	require.NoError(t, err)

	r := gin.New()
	RegisterAdminRoutes(r.Group("/api"), NewHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, URL(up.ID), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, samplePDF, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cv.pdf")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, URL("missing"), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
