package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories is the container for all repository instances
type Repositories struct {
	UserRepository    *UserRepository
	ProjectRepository *ProjectRepository
}

// NewRepositories creates all repositories over the given database handle
func NewRepositories(database *mongo.Database) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(database),
		ProjectRepository: NewProjectRepository(database),
	}
}
