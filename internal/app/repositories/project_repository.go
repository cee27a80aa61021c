package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/pkg/dberrors"
	"github.com/campuscloud/eduprojects/internal/pkg/helpers"
)

// IProjectRepository defines persistence operations on projects.
// The conditional update methods carry the expected current status inside the
// write predicate so that racing transitions cannot both succeed.
type IProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	List(ctx context.Context, filter dto.ProjectFilter, page, limit int) ([]models.Project, int64, error)
	UpdateStatusIfPending(ctx context.Context, id, guide primitive.ObjectID, status models.ProjectStatus, remarks string, approvedAt *time.Time) (*models.Project, error)
	CompleteIfApproved(ctx context.Context, id, owner primitive.ObjectID, completion *models.Completion, completedAt time.Time) (*models.Project, error)
	DeleteIfPending(ctx context.Context, id, owner primitive.ObjectID) (bool, error)
}

// ProjectRepository handles project persistence in the projects collection
type ProjectRepository struct {
	collection *mongo.Collection
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(database *mongo.Database) *ProjectRepository {
	return &ProjectRepository{collection: database.Collection("projects")}
}

// Create inserts a new project in pending state
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("error inserting project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by identifier; nil when absent
func (r *ProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if dberrors.IsNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding project: %w", err)
	}
	return &project, nil
}

// buildListFilter translates a ProjectFilter into a Mongo query document
func buildListFilter(filter dto.ProjectFilter) (bson.M, error) {
	query := bson.M{}

	if filter.Status != "" && filter.Status != "all" {
		query["status"] = filter.Status
	}
	if filter.Branch != "" && filter.Branch != "all" {
		query["branch"] = filter.Branch
	}
	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}
	if filter.Owner != "" {
		id, err := primitive.ObjectIDFromHex(filter.Owner)
		if err != nil {
			return nil, fmt.Errorf("invalid owner id: %w", err)
		}
		query["submittedBy"] = id
	}
	if filter.Guide != "" {
		id, err := primitive.ObjectIDFromHex(filter.Guide)
		if err != nil {
			return nil, fmt.Errorf("invalid guide id: %w", err)
		}
		query["facultyGuide"] = id
	}

	if filter.Search != "" {
		// Case-insensitive substring match, OR-combined over the searchable
		// text fields, including the final-details form of completed projects.
		regex := bson.M{"$regex": primitive.Regex{Pattern: filter.Search, Options: "i"}}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"shortOverview": regex},
			bson.M{"teamMembers.name": regex},
			bson.M{"completion.details.basicInfo.projectDomain": regex},
			bson.M{"completion.details.basicInfo.teamMembers": regex},
			bson.M{"completion.details.technicalDetails.technologiesUsed": regex},
		}
	}

	return query, nil
}

// List retrieves a page of projects matching the filter plus the total count.
// Completed-only listings sort by completion time, everything else by
// creation time, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter dto.ProjectFilter, page, limit int) ([]models.Project, int64, error) {
	query, err := buildListFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	skip, size := helpers.CalculateSkipLimit(page, limit)

	sortField := "createdAt"
	if filter.Status == string(models.StatusCompleted) {
		sortField = "completedAt"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}}).
		SetSkip(skip).
		SetLimit(size)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, fmt.Errorf("error decoding projects: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting projects: %w", err)
	}

	return projects, total, nil
}

// UpdateStatusIfPending atomically moves a pending project to approved or
// rejected. The filter carries the expected guide and status, so a project
// that was concurrently transitioned (or belongs to another guide) matches
// nothing and nil is returned for the caller to classify.
func (r *ProjectRepository) UpdateStatusIfPending(ctx context.Context, id, guide primitive.ObjectID, status models.ProjectStatus, remarks string, approvedAt *time.Time) (*models.Project, error) {
	set := bson.M{
		"status":         status,
		"facultyRemarks": remarks,
		"updatedAt":      time.Now(),
	}
	if approvedAt != nil {
		set["approvedAt"] = *approvedAt
	}

	filter := bson.M{
		"_id":          id,
		"facultyGuide": guide,
		"status":       models.StatusPending,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Project
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if dberrors.IsNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating project status: %w", err)
	}
	return &updated, nil
}

// CompleteIfApproved atomically moves an approved project owned by owner to
// completed, attaching the completion payload. Returns nil when the
// conditional filter matched nothing.
func (r *ProjectRepository) CompleteIfApproved(ctx context.Context, id, owner primitive.ObjectID, completion *models.Completion, completedAt time.Time) (*models.Project, error) {
	filter := bson.M{
		"_id":         id,
		"submittedBy": owner,
		"status":      models.StatusApproved,
	}

	update := bson.M{"$set": bson.M{
		"status":      models.StatusCompleted,
		"completion":  completion,
		"completedAt": completedAt,
		"updatedAt":   time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Project
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if dberrors.IsNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error completing project: %w", err)
	}
	return &updated, nil
}

// DeleteIfPending removes a pending project owned by owner. Returns false
// when the conditional filter matched nothing.
func (r *ProjectRepository) DeleteIfPending(ctx context.Context, id, owner primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":         id,
		"submittedBy": owner,
		"status":      models.StatusPending,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error deleting project: %w", err)
	}
	return result.DeletedCount > 0, nil
}
