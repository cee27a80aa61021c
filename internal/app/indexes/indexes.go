package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure creates the indexes the application relies on. Creation is
// idempotent; existing indexes are left untouched.
func Ensure(ctx context.Context, database *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "collegeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "department", Value: 1}},
		},
	}

	if _, err := database.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	projectIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "branch", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "submittedBy", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "facultyGuide", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "completedAt", Value: -1}},
		},
	}

	if _, err := database.Collection("projects").Indexes().CreateMany(ctx, projectIndexes); err != nil {
		return fmt.Errorf("failed to create project indexes: %w", err)
	}

	return nil
}
