package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
)

// fakeUserRepo is an in-memory IUserRepository for service tests
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	user.CollegeID = strings.ToUpper(user.CollegeID)
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "email already exists")
		}
		if existing.CollegeID == user.CollegeID {
			return apperrors.NewCustomError(apperrors.ErrCollegeIDExists, "college ID already exists")
		}
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == strings.ToLower(email) {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByEmailOrCollegeID(_ context.Context, email, collegeID string) (bool, error) {
	for _, user := range r.users {
		if user.Email == strings.ToLower(email) || user.CollegeID == strings.ToUpper(collegeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	for _, user := range r.users {
		if user.ID != excludeID && user.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListFaculty(_ context.Context, department string) ([]models.User, error) {
	var faculty []models.User
	for _, user := range r.users {
		if user.Role != models.RoleFaculty {
			continue
		}
		if department != "" && string(user.Department) != department {
			continue
		}
		faculty = append(faculty, *user)
	}
	sort.Slice(faculty, func(i, j int) bool { return faculty[i].FirstName < faculty[j].FirstName })
	return faculty, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// fakeProjectRepo is an in-memory IProjectRepository mirroring the
// conditional-update semantics of the Mongo implementation.
type fakeProjectRepo struct {
	projects   map[primitive.ObjectID]*models.Project
	lastFilter dto.ProjectFilter
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[primitive.ObjectID]*models.Project)}
}

func (r *fakeProjectRepo) add(project *models.Project) *models.Project {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	r.projects[project.ID] = project
	return project
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.add(project)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	clone := *project
	return &clone, nil
}

func (r *fakeProjectRepo) List(_ context.Context, filter dto.ProjectFilter, page, limit int) ([]models.Project, int64, error) {
	r.lastFilter = filter

	var out []models.Project
	for _, project := range r.projects {
		if filter.Status != "" && filter.Status != "all" && string(project.Status) != filter.Status {
			continue
		}
		if filter.Owner != "" && project.SubmittedBy.Hex() != filter.Owner {
			continue
		}
		if filter.Guide != "" && project.FacultyGuide.Hex() != filter.Guide {
			continue
		}
		out = append(out, *project)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) UpdateStatusIfPending(_ context.Context, id, guide primitive.ObjectID, status models.ProjectStatus, remarks string, approvedAt *time.Time) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok || project.FacultyGuide != guide || project.Status != models.StatusPending {
		return nil, nil
	}

	project.Status = status
	project.FacultyRemarks = remarks
	project.UpdatedAt = time.Now()
	if approvedAt != nil {
		project.ApprovedAt = approvedAt
	}
	clone := *project
	return &clone, nil
}

func (r *fakeProjectRepo) CompleteIfApproved(_ context.Context, id, owner primitive.ObjectID, completion *models.Completion, completedAt time.Time) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok || project.SubmittedBy != owner || project.Status != models.StatusApproved {
		return nil, nil
	}

	project.Status = models.StatusCompleted
	project.Completion = completion
	project.CompletedAt = &completedAt
	project.UpdatedAt = time.Now()
	clone := *project
	return &clone, nil
}

func (r *fakeProjectRepo) DeleteIfPending(_ context.Context, id, owner primitive.ObjectID) (bool, error) {
	project, ok := r.projects[id]
	if !ok || project.SubmittedBy != owner || project.Status != models.StatusPending {
		return false, nil
	}
	delete(r.projects, id)
	return true, nil
}
