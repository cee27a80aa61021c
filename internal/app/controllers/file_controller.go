package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuscloud/eduprojects/internal/middleware"
	"github.com/campuscloud/eduprojects/internal/pkg/filestorage"
)

// FileController serves stored project deliverables
type FileController struct {
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewFileController creates a new FileController
func NewFileController(storage filestorage.FileStorage, logger zerolog.Logger) *FileController {
	return &FileController{
		storage: storage,
		logger:  logger,
	}
}

// Download streams a stored file by its on-disk name. The storage layer
// rejects path traversal before any filesystem lookup.
func (c *FileController) Download(ctx *gin.Context) {
	filename := ctx.Param("filename")

	path, err := c.storage.Resolve(filename)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Type", filestorage.ContentTypeFor(filename))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.File(path)
}
