package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/app/repositories"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
	"github.com/campuscloud/eduprojects/internal/pkg/auth"
	"github.com/campuscloud/eduprojects/internal/pkg/validation"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validateRegistration checks the role-conditional and enum constraints that
// binding tags cannot express.
func validateRegistration(req *dto.RegisterRequest) error {
	if !models.IsValidDepartment(req.Department) {
		return apperrors.NewFieldValidationError("department", "invalid department")
	}

	collegeID := strings.ToUpper(strings.TrimSpace(req.CollegeID))
	if !validation.CompiledPatterns.StudentID.MatchString(collegeID) {
		return apperrors.NewFieldValidationError("collegeId", "college ID must be 3-20 alphanumeric characters")
	}

	switch models.Role(req.Role) {
	case models.RoleFaculty:
		if strings.TrimSpace(req.Designation) == "" {
			return apperrors.NewFieldValidationError("designation", "designation is required for faculty")
		}
	case models.RoleStudent:
		if !models.IsValidStudyYear(req.Year) {
			return apperrors.NewFieldValidationError("year", "a valid year is required for students")
		}
	}

	return nil
}

// Register creates a new user account and issues a bearer token
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmailOrCollegeID(ctx, req.Email, req.CollegeID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists,
			"user already exists with this email or college ID")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		CollegeID:  strings.ToUpper(strings.TrimSpace(req.CollegeID)),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hash,
		Role:       models.Role(req.Role),
		Department: models.Department(req.Department),
		IsActive:   true,
	}
	switch user.Role {
	case models.RoleFaculty:
		user.Designation = strings.TrimSpace(req.Designation)
	case models.RoleStudent:
		user.Year = req.Year
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userId", user.ID.Hex()).
		Str("role", string(user.Role)).
		Str("department", string(user.Department)).
		Msg("User registered")

	return s.issueToken(user)
}

// Login verifies credentials and issues a bearer token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("email", req.Email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Str("userId", user.ID.Hex()).Msg("User logged in")
	return s.issueToken(user)
}

// GetUser loads the user behind a token subject
func (s *authServiceImpl) GetUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *authServiceImpl) issueToken(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      dto.NewUserResponse(user),
	}, nil
}
