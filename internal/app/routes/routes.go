package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campuscloud/eduprojects/internal/app/controllers"
	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	projectController *controllers.ProjectController,
	uploadController *controllers.UploadController,
	fileController *controllers.FileController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Completed projects are the public showcase
	api.GET("/projects/all-approved", projectController.ListCompleted)

	// Single project view serves both the public showcase and the
	// participants' own views, so auth is optional here.
	api.GET("/projects/:id", authMiddleware.OptionalAuth(), projectController.GetByID)

	// Health check endpoint
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{
			"status":  "ok",
			"service": "eduprojects-api",
		}, ""))
	})

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		users := authenticated.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)

			// Faculty directory, used by the project submission form
			users.GET("/faculty", userController.ListFaculty)
			users.GET("/faculty/:department", userController.ListFaculty)
		}

		upload := authenticated.Group("/upload")
		{
			upload.POST("/document", uploadController.UploadDocument)
			upload.POST("/final-docs", uploadController.UploadFinalDocs)
		}

		// Stored deliverables, streamed as attachments
		authenticated.GET("/download/:filename", fileController.Download)

		projects := authenticated.Group("/projects")
		{
			projects.GET("", projectController.List)

			// Student-only lifecycle operations
			studentProtected := projects.Group("")
			studentProtected.Use(authMiddleware.RoleRequired(models.RoleStudent))
			{
				studentProtected.POST("", projectController.Create)
				studentProtected.PUT("/:id/final-upload", projectController.CompleteWithDocuments)
				studentProtected.PUT("/:id/final-details", projectController.CompleteWithDetails)
				studentProtected.DELETE("/:id", projectController.Delete)
			}

			// Faculty-only decision endpoint
			facultyProtected := projects.Group("")
			facultyProtected.Use(authMiddleware.RoleRequired(models.RoleFaculty))
			{
				facultyProtected.PUT("/:id/status", projectController.UpdateStatus)
			}
		}
	}
}
