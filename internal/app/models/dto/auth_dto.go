package dto

import "github.com/campuscloud/eduprojects/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	FirstName  string `json:"firstName" binding:"required,min=2,max=50"`
	LastName   string `json:"lastName" binding:"required,min=2,max=50"`
	CollegeID  string `json:"collegeId" binding:"required,min=3,max=20"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required,oneof=student faculty"`
	Department string `json:"department" binding:"required"`
	// Designation is required iff role is faculty
	Designation string `json:"designation,omitempty"`
	// Year is required iff role is student
	Year string `json:"year,omitempty"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// UserResponse represents user information returned to clients
type UserResponse struct {
	ID          string            `json:"id"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	CollegeID   string            `json:"collegeId"`
	Email       string            `json:"email"`
	Role        models.Role       `json:"role"`
	Department  models.Department `json:"department"`
	Designation string            `json:"designation,omitempty"`
	Year        string            `json:"year,omitempty"`
}

// AuthResponse represents a successful authentication result
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType" example:"Bearer"`
	ExpiresIn int          `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a user model onto its response DTO
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID.Hex(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CollegeID:   u.CollegeID,
		Email:       u.Email,
		Role:        u.Role,
		Department:  u.Department,
		Designation: u.Designation,
		Year:        u.Year,
	}
}
