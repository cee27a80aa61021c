package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
)

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(64<<20))

	return req.MultipartForm.File["file"][0]
}

func newTestStorage(t *testing.T, overrides map[DocumentField]int64) *LocalStorage {
	t.Helper()
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:5000/uploads", overrides)
	require.NoError(t, err)
	return storage
}

func TestSaveAndResolve(t *testing.T) {
	storage := newTestStorage(t, nil)

	header := makeFileHeader(t, "Final Report.pdf", []byte("%PDF-1.4 test content"))
	stored, err := storage.Save(header, FieldReport)
	require.NoError(t, err)

	assert.Equal(t, "Final Report.pdf", stored.OriginalName)
	assert.Equal(t, int64(len("%PDF-1.4 test content")), stored.Size)
	assert.Equal(t, "application/pdf", stored.ContentType)
	assert.Contains(t, stored.Path, "http://localhost:5000/uploads/documents/")

	path, err := storage.Resolve(stored.Filename)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test content"), content)
}

func TestSave_RejectsDisallowedExtension(t *testing.T) {
	storage := newTestStorage(t, nil)

	tests := []struct {
		filename string
		field    DocumentField
	}{
		{"report.exe", FieldReport},
		{"slides.key", FieldPresentation},
		{"source.tar.gz", FieldCode},
		{"photo.bmp", FieldImages},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			_, err := storage.Save(makeFileHeader(t, tt.filename, []byte("data")), tt.field)
			assert.ErrorIs(t, err, apperrors.ErrFileTypeInvalid)
		})
	}
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	storage := newTestStorage(t, map[DocumentField]int64{FieldReport: 16})

	_, err := storage.Save(makeFileHeader(t, "big.pdf", bytes.Repeat([]byte("a"), 64)), FieldReport)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	// No partial file may survive the rejection
	entries, err := os.ReadDir(filepath.Join(storage.basePath, "documents"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_NilFile(t *testing.T) {
	storage := newTestStorage(t, nil)
	_, err := storage.Save(nil, FieldReport)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestResolve_RejectsTraversal(t *testing.T) {
	storage := newTestStorage(t, nil)

	for _, name := range []string{
		"../../etc/passwd",
		"..\\secrets.txt",
		"documents/other.pdf",
		"..",
		"",
	} {
		_, err := storage.Resolve(name)
		assert.ErrorIs(t, err, apperrors.ErrUnsafeFilename, "filename %q", name)
	}
}

func TestResolve_MissingFile(t *testing.T) {
	storage := newTestStorage(t, nil)
	_, err := storage.Resolve("report-123-abcd.pdf")
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestDelete(t *testing.T) {
	storage := newTestStorage(t, nil)

	stored, err := storage.Save(makeFileHeader(t, "report.pdf", []byte("content")), FieldReport)
	require.NoError(t, err)

	require.NoError(t, storage.Delete(stored.Filename))
	_, err = storage.Resolve(stored.Filename)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

	// Deleting again is not an error
	assert.NoError(t, storage.Delete(stored.Filename))
}

func TestValidateExtension_CaseInsensitive(t *testing.T) {
	assert.NoError(t, ValidateExtension(FieldReport, "REPORT.PDF"))
	assert.NoError(t, ValidateExtension(FieldCode, "project.ZIP"))
}
