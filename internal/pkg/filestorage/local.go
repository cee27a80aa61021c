package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
	"github.com/campuscloud/eduprojects/internal/pkg/logger"
)

// DocumentField identifies which project deliverable a file belongs to
type DocumentField string

const (
	FieldReport       DocumentField = "report"
	FieldPresentation DocumentField = "presentation"
	FieldCode         DocumentField = "code"
	FieldImages       DocumentField = "images"
	// FieldDocument is the generic single-upload field; stored alongside reports
	FieldDocument DocumentField = "document"
)

const (
	DefaultMaxFileSize = 10 << 20 // 10MB
	CodeMaxFileSize    = 50 << 20 // 50MB
)

// allowedExtensions maps each document field to its extension allow-list
var allowedExtensions = map[DocumentField][]string{
	FieldReport:       {".pdf", ".doc", ".docx"},
	FieldPresentation: {".ppt", ".pptx", ".pdf"},
	FieldCode:         {".zip", ".rar", ".7z"},
	FieldImages:       {".jpg", ".jpeg", ".png", ".gif"},
	FieldDocument:     {".pdf", ".doc", ".docx"},
}

// subdirectories maps each document field to its storage subdirectory
var subdirectories = map[DocumentField]string{
	FieldReport:       "documents",
	FieldPresentation: "presentations",
	FieldCode:         "code",
	FieldImages:       "images",
	FieldDocument:     "documents",
}

// contentTypes maps known extensions to MIME types for download responses
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".rar":  "application/x-rar-compressed",
	".7z":   "application/x-7z-compressed",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// CategoryDirs lists the storage subdirectories in download scan order
var CategoryDirs = []string{"documents", "presentations", "code", "images"}

// LocalStorage handles saving project deliverables to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files are stored
	baseURL  string // URL path prefix prepended to returned file paths
	maxSizes map[DocumentField]int64
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath and
// ensures all category subdirectories exist. sizeOverrides may adjust the
// per-field ceilings; unset fields fall back to the defaults.
func NewLocalStorage(basePath, baseURL string, sizeOverrides map[DocumentField]int64) (*LocalStorage, error) {
	for _, dir := range CategoryDirs {
		full := filepath.Join(basePath, dir)
		if err := os.MkdirAll(full, 0o755); err != nil {
			logger.Error().Err(err).Str("path", full).Msg("Failed to create storage directory")
			return nil, fmt.Errorf("failed to create storage directory %s: %w", full, err)
		}
	}
	logger.Info().Str("path", basePath).Msg("Local storage directories ensured")

	maxSizes := map[DocumentField]int64{
		FieldReport:       DefaultMaxFileSize,
		FieldPresentation: DefaultMaxFileSize,
		FieldCode:         CodeMaxFileSize,
		FieldImages:       DefaultMaxFileSize,
		FieldDocument:     DefaultMaxFileSize,
	}
	for field, size := range sizeOverrides {
		if size > 0 {
			maxSizes[field] = size
		}
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxSizes: maxSizes,
	}, nil
}

// MaxSize returns the size ceiling for the given field
func (ls *LocalStorage) MaxSize(field DocumentField) int64 {
	if size, ok := ls.maxSizes[field]; ok {
		return size
	}
	return DefaultMaxFileSize
}

// ValidateExtension checks the original filename against the field allow-list
func ValidateExtension(field DocumentField, originalName string) error {
	allowed, ok := allowedExtensions[field]
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("unknown document field %q", field))
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return apperrors.NewCustomError(apperrors.ErrFileTypeInvalid,
		fmt.Sprintf("invalid file type %q for %s, allowed: %s", ext, field, strings.Join(allowed, ", ")))
}

// ContentTypeFor returns the MIME type for a stored filename
func ContentTypeFor(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Save validates and persists an uploaded file for the given document field.
// The size ceiling is enforced while streaming to disk; oversized or failed
// writes are discarded.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, field DocumentField) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, apperrors.NewValidationError("no file uploaded")
	}

	if err := ValidateExtension(field, fileHeader.Filename); err != nil {
		return nil, err
	}

	maxSize := ls.MaxSize(field)
	if fileHeader.Size > maxSize {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("file too large, maximum size for %s is %dMB", field, maxSize>>20))
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Collision-resistant name: field + timestamp + random suffix + original extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	uniqueName := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixNano(), uuid.New().String()[:8], ext)

	subdir := subdirectories[field]
	dstPath := filepath.Join(ls.basePath, subdir, uniqueName)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	// Copy at most maxSize+1 bytes so an oversized stream is caught without
	// buffering the body in memory.
	written, err := io.Copy(dst, io.LimitReader(src, maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write uploaded file")
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("file too large, maximum size for %s is %dMB", field, maxSize>>20))
	}

	stored := &StoredFile{
		Filename:     uniqueName,
		Path:         ls.baseURL + "/" + subdir + "/" + uniqueName,
		OriginalName: fileHeader.Filename,
		Size:         written,
		ContentType:  ContentTypeFor(uniqueName),
	}

	logger.Info().
		Str("field", string(field)).
		Str("filename", fileHeader.Filename).
		Str("saved_as", uniqueName).
		Int64("size", written).
		Msg("File saved")
	return stored, nil
}

// Resolve maps a stored filename to its full filesystem path. Any name with a
// path separator or parent segment is rejected before the filesystem is
// consulted; the known category subdirectories are then scanned in order.
func (ls *LocalStorage) Resolve(filename string) (string, error) {
	if filename == "" ||
		strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, `/\`) {
		return "", apperrors.NewCustomError(apperrors.ErrUnsafeFilename, "invalid filename")
	}

	for _, dir := range CategoryDirs {
		candidate := filepath.Join(ls.basePath, dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", apperrors.NewCustomError(apperrors.ErrFileNotFound, "file not found")
}

// Delete removes a stored file by name. Missing files are treated as already
// deleted.
func (ls *LocalStorage) Delete(filename string) error {
	path, err := ls.Resolve(filename)
	if errors.Is(err, apperrors.ErrFileNotFound) {
		logger.Warn().Str("filename", filename).Msg("File to delete does not exist")
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", path).Msg("File deleted")
	return nil
}
