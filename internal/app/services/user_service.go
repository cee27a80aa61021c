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
	"github.com/campuscloud/eduprojects/internal/pkg/validation"
)

// UserService defines profile and directory operations
type UserService interface {
	ListFaculty(ctx context.Context, department string) ([]models.PublicProfile, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *dto.UpdateProfileRequest) (*models.User, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListFaculty returns the faculty directory students pick a guide from,
// optionally narrowed to one department.
func (s *userServiceImpl) ListFaculty(ctx context.Context, department string) ([]models.PublicProfile, error) {
	if department != "" && department != "all" && !models.IsValidDepartment(department) {
		return nil, apperrors.NewFieldValidationError("department", "invalid department")
	}
	if department == "all" {
		department = ""
	}

	faculty, err := s.userRepo.ListFaculty(ctx, department)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.PublicProfile, 0, len(faculty))
	for i := range faculty {
		profiles = append(profiles, faculty[i].Public())
	}
	return profiles, nil
}

// GetProfile loads the caller's own account
func (s *userServiceImpl) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes the caller's name and email. A changed email must
// not collide with another account.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	nameRule := func(value string) bool {
		return validation.NewStringValidation(value).
			WithMinLength(validation.NameMinLength).
			WithMaxLength(validation.NameMaxLength).
			Validate()
	}

	if req.FirstName != "" {
		first := strings.TrimSpace(req.FirstName)
		if !nameRule(first) {
			return nil, apperrors.NewFieldValidationError("firstName", "first name must be 2-50 characters")
		}
		user.FirstName = first
	}
	if req.LastName != "" {
		last := strings.TrimSpace(req.LastName)
		if !nameRule(last) {
			return nil, apperrors.NewFieldValidationError("lastName", "last name must be 2-50 characters")
		}
		user.LastName = last
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !validation.CompiledPatterns.Email.MatchString(email) {
			return nil, apperrors.NewFieldValidationError("email", "invalid email address")
		}
		if email != user.Email {
			taken, err := s.userRepo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
					"email already exists").WithField("email")
			}
			user.Email = email
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userId", user.ID.Hex()).Msg("Profile updated")
	return user, nil
}
