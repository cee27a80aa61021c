package filestorage

import (
	"mime/multipart"
)

// StoredFile describes a file persisted to storage
type StoredFile struct {
	Filename     string `json:"filename"`     // Name on disk
	Path         string `json:"path"`         // URL path the file is reachable at
	OriginalName string `json:"originalname"` // Client-supplied filename
	Size         int64  `json:"size"`         // Size in bytes
	ContentType  string `json:"mimetype"`     // MIME type inferred from the extension
}

// FileStorage defines the interface for document storage operations
type FileStorage interface {
	// Save validates and persists an uploaded file for the given document field
	Save(fileHeader *multipart.FileHeader, field DocumentField) (*StoredFile, error)

	// Resolve maps a stored filename to its full filesystem path,
	// rejecting traversal attempts before any filesystem lookup
	Resolve(filename string) (string, error)

	// Delete removes a stored file; missing files are not an error
	Delete(filename string) error
}
