package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/app/services"
	"github.com/campuscloud/eduprojects/internal/middleware"
)

// UserController handles profile and faculty directory operations
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// ListFaculty returns the faculty directory, optionally narrowed by the
// department path parameter (or the equivalent query parameter).
func (c *UserController) ListFaculty(ctx *gin.Context) {
	department := ctx.Param("department")
	if department == "" {
		department = ctx.Query("department")
	}

	faculty, err := c.userService.ListFaculty(ctx.Request.Context(), department)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty, ""))
}

// GetProfile returns the caller's own profile
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	profile, err := c.userService.GetProfile(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(profile), ""))
}

// UpdateProfile updates the caller's name and email
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	updated, err := c.userService.UpdateProfile(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(updated), "Profile updated"))
}
