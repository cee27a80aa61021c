package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/middleware"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
	"github.com/campuscloud/eduprojects/internal/pkg/filestorage"
)

// uploadFields maps multipart form field names to document fields
var uploadFields = map[string]filestorage.DocumentField{
	"report":       filestorage.FieldReport,
	"presentation": filestorage.FieldPresentation,
	"code":         filestorage.FieldCode,
	"images":       filestorage.FieldImages,
}

// finalDocFields fixes the response order of the multi-field upload
var finalDocFields = []string{"report", "presentation", "code", "images"}

// UploadController stores project deliverables ahead of completion
type UploadController struct {
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(storage filestorage.FileStorage, logger zerolog.Logger) *UploadController {
	return &UploadController{
		storage: storage,
		logger:  logger,
	}
}

// UploadDocument stores a single file sent in the `document` form field.
// The `fieldType` form value selects the deliverable category and with it
// the extension allow-list and size ceiling.
func (c *UploadController) UploadDocument(ctx *gin.Context) {
	header, err := ctx.FormFile("document")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("no file in the document field"))
		return
	}

	fieldType := ctx.PostForm("fieldType")
	field, ok := uploadFields[fieldType]
	if fieldType == "" {
		field = filestorage.FieldDocument
	} else if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewFieldValidationError("fieldType",
			"fieldType must be one of report, presentation, code, images"))
		return
	}

	stored, err := c.storage.Save(header, field)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("filename", stored.Filename).
		Str("field", string(field)).
		Str("userId", middleware.CurrentUser(ctx).ID.Hex()).
		Msg("Document uploaded")

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(stored, "File uploaded"))
}

// UploadFinalDocs stores the deliverable files of a completion in one
// request, one multipart field per category. Files already stored are
// removed again when a later one fails, so a failed request leaves no
// orphans on disk.
func (c *UploadController) UploadFinalDocs(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		errDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid multipart form").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errDetail))
		return
	}

	stored := make(map[string]*filestorage.StoredFile, len(finalDocFields))
	cleanup := func() {
		for _, file := range stored {
			if err := c.storage.Delete(file.Filename); err != nil {
				c.logger.Warn().Err(err).Str("filename", file.Filename).Msg("Failed to remove stored file")
			}
		}
	}

	for _, name := range finalDocFields {
		header := firstFile(form, name)
		if header == nil {
			continue
		}

		file, err := c.storage.Save(header, uploadFields[name])
		if err != nil {
			cleanup()
			middleware.HandleAPIError(ctx, err)
			return
		}
		stored[name] = file
	}

	if len(stored) == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("no files uploaded"))
		return
	}

	c.logger.Info().
		Int("files", len(stored)).
		Str("userId", middleware.CurrentUser(ctx).ID.Hex()).
		Msg("Final documents uploaded")

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(stored, "Files uploaded"))
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
