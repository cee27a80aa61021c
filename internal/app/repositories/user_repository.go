package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
	"github.com/campuscloud/eduprojects/internal/pkg/dberrors"
)

// IUserRepository defines persistence operations on user accounts
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrCollegeID(ctx context.Context, email, collegeID string) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
	ListFaculty(ctx context.Context, department string) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// UserRepository handles user persistence in the users collection
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{collection: database.Collection("users")}
}

// Create inserts a new user. Email is stored lowercase and college ID
// uppercase; duplicate unique keys surface as AlreadyExists errors.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.Email = strings.ToLower(user.Email)
	user.CollegeID = strings.ToUpper(user.CollegeID)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if dberrors.IsDuplicateOnIndex(err, "collegeId") {
			return apperrors.NewCustomError(apperrors.ErrCollegeIDExists,
				"college ID already exists").WithField("collegeId")
		}
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
				"email already exists").WithField("email")
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by identifier; nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if dberrors.IsNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user by id: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email; nil when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if dberrors.IsNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

// ExistsByEmailOrCollegeID reports whether any user carries the email or
// college ID
func (r *UserRepository) ExistsByEmailOrCollegeID(ctx context.Context, email, collegeID string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(email)},
		bson.M{"collegeId": strings.ToUpper(collegeID)},
	}}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return count > 0, nil
}

// EmailTaken reports whether another user already owns the email
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"email": strings.ToLower(email),
		"_id":   bson.M{"$ne": excludeID},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return count > 0, nil
}

// ListFaculty returns faculty users, optionally narrowed to one department,
// sorted by name.
func (r *UserRepository) ListFaculty(ctx context.Context, department string) ([]models.User, error) {
	filter := bson.M{"role": models.RoleFaculty}
	if department != "" {
		filter["department"] = department
	}

	opts := options.Find().SetSort(bson.D{{Key: "firstName", Value: 1}, {Key: "lastName", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing faculty: %w", err)
	}
	defer cursor.Close(ctx)

	var faculty []models.User
	if err := cursor.All(ctx, &faculty); err != nil {
		return nil, fmt.Errorf("error decoding faculty: %w", err)
	}
	return faculty, nil
}

// Update persists mutable profile fields of the user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     strings.ToLower(user.Email),
		"updatedAt": user.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "email already exists")
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Count returns the number of user documents
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}
