package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/app/services"
	"github.com/campuscloud/eduprojects/internal/middleware"
	"github.com/campuscloud/eduprojects/internal/pkg/helpers"
)

// ProjectController handles the project lifecycle endpoints
type ProjectController struct {
	projectService services.ProjectService
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		logger:         logger,
	}
}

// Create submits a new project proposal
func (c *ProjectController) Create(ctx *gin.Context) {
	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	project, err := c.projectService.Create(ctx.Request.Context(), middleware.CurrentUser(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(project, "Project submitted for approval"))
}

// List returns the caller's projects, filtered and paginated
func (c *ProjectController) List(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	filter := dto.ProjectFilter{
		Status:   ctx.Query("status"),
		Branch:   ctx.Query("branch"),
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	}

	result, err := c.projectService.List(ctx.Request.Context(), middleware.CurrentUser(ctx), filter, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(result.Projects, result.Pagination))
}

// ListCompleted returns the public showcase of completed projects
func (c *ProjectController) ListCompleted(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	filter := dto.ProjectFilter{
		Branch:   ctx.Query("branch"),
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	}

	result, err := c.projectService.ListCompleted(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(result.Projects, result.Pagination))
}

// GetByID returns a single project, subject to the access rules
func (c *ProjectController) GetByID(ctx *gin.Context) {
	project, err := c.projectService.GetByID(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, ""))
}

// UpdateStatus records the faculty guide's approve/reject decision
func (c *ProjectController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	project, err := c.projectService.UpdateStatus(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project "+req.Status))
}

// CompleteWithDocuments completes an approved project by attaching
// previously uploaded deliverable references. The files themselves go
// through the upload endpoints first.
func (c *ProjectController) CompleteWithDocuments(ctx *gin.Context) {
	var req dto.FinalUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	project, err := c.projectService.CompleteWithDocuments(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project completed"))
}

// CompleteWithDetails completes an approved project from the structured
// final-details form.
func (c *ProjectController) CompleteWithDetails(ctx *gin.Context) {
	var req dto.FinalDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	project, err := c.projectService.CompleteWithDetails(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project completed"))
}

// Delete withdraws a pending project
func (c *ProjectController) Delete(ctx *gin.Context) {
	if err := c.projectService.Delete(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Project withdrawn"))
}
