package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a registered account, student or faculty
type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName  string             `json:"firstName" bson:"firstName"`
	LastName   string             `json:"lastName" bson:"lastName"`
	CollegeID  string             `json:"collegeId" bson:"collegeId"` // Unique, stored uppercase
	Email      string             `json:"email" bson:"email"`         // Unique, stored lowercase
	Password   string             `json:"-" bson:"password"`          // bcrypt hash, never serialized
	Role       Role               `json:"role" bson:"role"`
	Department Department         `json:"department" bson:"department"`
	// Designation is set iff Role == faculty
	Designation string `json:"designation,omitempty" bson:"designation,omitempty"`
	// Year is set iff Role == student
	Year      string    `json:"year,omitempty" bson:"year,omitempty"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsFaculty reports whether the user holds the faculty role
func (u *User) IsFaculty() bool {
	return u.Role == RoleFaculty
}

// IsStudent reports whether the user holds the student role
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// PublicProfile is the subset of user fields safe to embed in project
// responses and faculty listings.
type PublicProfile struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName   string             `json:"firstName" bson:"firstName"`
	LastName    string             `json:"lastName" bson:"lastName"`
	CollegeID   string             `json:"collegeId,omitempty" bson:"collegeId,omitempty"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Department  Department         `json:"department" bson:"department"`
	Designation string             `json:"designation,omitempty" bson:"designation,omitempty"`
}

// Public projects the user onto its shareable profile fields
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CollegeID:   u.CollegeID,
		Email:       u.Email,
		Department:  u.Department,
		Designation: u.Designation,
	}
}
