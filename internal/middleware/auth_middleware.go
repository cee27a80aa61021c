package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/app/repositories"
	"github.com/campuscloud/eduprojects/internal/pkg/auth"
)

// ContextUserKey is the gin context key holding the authenticated *models.User
const ContextUserKey = "currentUser"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.IUserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// JWTAuth validates the bearer token and loads the account behind it into
// the request context. Disabled accounts are rejected even with a valid
// token.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, errDetail := m.authenticate(c)
		if errDetail != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errDetail))
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// OptionalAuth loads the account when a bearer token is present but lets
// anonymous requests through. Used on endpoints that serve both the public
// showcase and authenticated views.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if user, errDetail := m.authenticate(c); errDetail == nil {
				c.Set(ContextUserKey, user)
			}
		}
		c.Next()
	}
}

// RoleRequired rejects requests whose authenticated user does not hold the
// role. Must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			errDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errDetail))
			return
		}

		if user.Role != role {
			errDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errDetail))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user from the context, nil when the
// request is anonymous.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*models.User, *dto.ErrorDetail) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Authorization header missing")
	}

	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		return nil, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Invalid token format")
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Authentication failed").
				WithDetails("Token has expired")
		}
		return nil, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
			WithDetails("Invalid token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
			WithDetails("Invalid token subject")
	}

	user, err := m.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		return nil, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithDetails("Failed to load user account")
	}
	if user == nil {
		return nil, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
			WithDetails("Account no longer exists")
	}
	if !user.IsActive {
		return nil, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account disabled")
	}

	return user, nil
}
