package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/app/repositories"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
	"github.com/campuscloud/eduprojects/internal/pkg/helpers"
	"github.com/campuscloud/eduprojects/internal/pkg/validation"
)

// ProjectService defines the project lifecycle operations.
// Status transitions are guarded: only the assigned faculty guide can decide
// on a pending project, and only the submitting student can complete an
// approved one or withdraw a pending one.
type ProjectService interface {
	Create(ctx context.Context, caller *models.User, req *dto.CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, caller *models.User, projectID string) (*models.Project, error)
	List(ctx context.Context, caller *models.User, filter dto.ProjectFilter, page, limit int) (*dto.ProjectListResponse, error)
	ListCompleted(ctx context.Context, filter dto.ProjectFilter, page, limit int) (*dto.ProjectListResponse, error)
	UpdateStatus(ctx context.Context, caller *models.User, projectID string, req *dto.UpdateStatusRequest) (*models.Project, error)
	CompleteWithDocuments(ctx context.Context, caller *models.User, projectID string, req *dto.FinalUploadRequest) (*models.Project, error)
	CompleteWithDetails(ctx context.Context, caller *models.User, projectID string, req *dto.FinalDetailsRequest) (*models.Project, error)
	Delete(ctx context.Context, caller *models.User, projectID string) error
}

// projectServiceImpl implements ProjectService
type projectServiceImpl struct {
	projectRepo repositories.IProjectRepository
	userRepo    repositories.IUserRepository
	logger      zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repositories.IProjectRepository, userRepo repositories.IUserRepository, logger zerolog.Logger) ProjectService {
	return &projectServiceImpl{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create validates and stores a new pending project submitted by a student
func (s *projectServiceImpl) Create(ctx context.Context, caller *models.User, req *dto.CreateProjectRequest) (*models.Project, error) {
	if !caller.IsStudent() {
		return nil, apperrors.NewForbiddenError("only students can submit projects")
	}

	if !models.IsValidDepartment(req.Branch) {
		return nil, apperrors.NewFieldValidationError("branch", "invalid branch")
	}

	guideID, err := primitive.ObjectIDFromHex(req.FacultyGuide)
	if err != nil {
		return nil, apperrors.NewFieldValidationError("facultyGuide", "invalid faculty guide id")
	}

	guide, err := s.userRepo.GetByID(ctx, guideID)
	if err != nil {
		return nil, fmt.Errorf("error loading faculty guide: %w", err)
	}
	if guide == nil || !guide.IsFaculty() {
		return nil, apperrors.NewCustomError(apperrors.ErrNotFaculty,
			"selected faculty guide does not exist").WithField("facultyGuide")
	}
	if !guide.IsActive {
		return nil, apperrors.NewFieldValidationError("facultyGuide", "selected faculty guide is not active")
	}

	members, err := normalizeTeamMembers(req.TeamMembers)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:         strings.TrimSpace(req.Title),
		Category:      models.ProjectCategory(req.Category),
		Branch:        models.Department(req.Branch),
		ShortOverview: strings.TrimSpace(req.ShortOverview),
		Description:   strings.TrimSpace(req.Description),
		FacultyGuide:  guideID,
		SubmittedBy:   caller.ID,
		TeamMembers:   members,
		Status:        models.StatusPending,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("projectId", project.ID.Hex()).
		Str("submittedBy", caller.ID.Hex()).
		Str("facultyGuide", guideID.Hex()).
		Msg("Project submitted")

	project.Guide = profileOf(guide)
	project.Submitter = profileOf(caller)
	return project, nil
}

// normalizeTeamMembers trims, uppercases and de-duplicates the member list
func normalizeTeamMembers(inputs []dto.TeamMemberInput) ([]models.TeamMember, error) {
	members := make([]models.TeamMember, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))

	for _, in := range inputs {
		studentID := strings.ToUpper(strings.TrimSpace(in.StudentID))
		if !validation.CompiledPatterns.StudentID.MatchString(studentID) {
			return nil, apperrors.NewFieldValidationError("teamMembers",
				fmt.Sprintf("invalid student ID %q", in.StudentID))
		}
		if seen[studentID] {
			return nil, apperrors.NewFieldValidationError("teamMembers",
				fmt.Sprintf("duplicate student ID %q", studentID))
		}
		seen[studentID] = true

		members = append(members, models.TeamMember{
			Name:      strings.TrimSpace(in.Name),
			StudentID: studentID,
		})
	}
	return members, nil
}

// GetByID retrieves a project. Completed projects are readable by anyone
// (caller may be nil); everything else only by the submitter or the guide.
func (s *projectServiceImpl) GetByID(ctx context.Context, caller *models.User, projectID string) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.Status != models.StatusCompleted {
		if caller == nil {
			return nil, apperrors.ErrProjectNotFound
		}
		if caller.ID != project.SubmittedBy && caller.ID != project.FacultyGuide {
			return nil, apperrors.NewForbiddenError("you do not have access to this project")
		}
	}

	if err := s.populateProfiles(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the caller's projects: submitted ones for students, guided
// ones for faculty. The status/branch/category/search filters still apply.
func (s *projectServiceImpl) List(ctx context.Context, caller *models.User, filter dto.ProjectFilter, page, limit int) (*dto.ProjectListResponse, error) {
	if caller.IsFaculty() {
		filter.Guide = caller.ID.Hex()
		filter.Owner = ""
	} else {
		filter.Owner = caller.ID.Hex()
		filter.Guide = ""
	}
	return s.list(ctx, filter, page, limit)
}

// ListCompleted returns the public showcase of completed projects
func (s *projectServiceImpl) ListCompleted(ctx context.Context, filter dto.ProjectFilter, page, limit int) (*dto.ProjectListResponse, error) {
	filter.Status = string(models.StatusCompleted)
	filter.Owner = ""
	filter.Guide = ""
	return s.list(ctx, filter, page, limit)
}

func (s *projectServiceImpl) list(ctx context.Context, filter dto.ProjectFilter, page, limit int) (*dto.ProjectListResponse, error) {
	projects, total, err := s.projectRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	// Profiles are loaded once per distinct user across the page
	cache := make(map[primitive.ObjectID]*models.PublicProfile)
	for i := range projects {
		if err := s.populateProfilesCached(ctx, &projects[i], cache); err != nil {
			return nil, err
		}
	}

	return &dto.ProjectListResponse{
		Projects:   projects,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// UpdateStatus lets the assigned faculty guide approve or reject a pending
// project. Rejection requires remarks; approval clears them. The transition
// is a conditional update, so two racing decisions cannot both win.
func (s *projectServiceImpl) UpdateStatus(ctx context.Context, caller *models.User, projectID string, req *dto.UpdateStatusRequest) (*models.Project, error) {
	if !caller.IsFaculty() {
		return nil, apperrors.NewForbiddenError("only faculty can decide on projects")
	}

	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, apperrors.ErrProjectNotFound
	}

	status := models.ProjectStatus(req.Status)
	remarks := strings.TrimSpace(req.Remarks)
	if status == models.StatusRejected && remarks == "" {
		return nil, apperrors.NewFieldValidationError("remarks", "remarks are required when rejecting a project")
	}

	var approvedAt *time.Time
	if status == models.StatusApproved {
		now := time.Now()
		approvedAt = &now
		remarks = ""
	}

	updated, err := s.projectRepo.UpdateStatusIfPending(ctx, id, caller.ID, status, remarks, approvedAt)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, s.classifyGuideMiss(ctx, id, caller.ID)
	}

	s.logger.Info().
		Str("projectId", updated.ID.Hex()).
		Str("facultyGuide", caller.ID.Hex()).
		Str("status", string(updated.Status)).
		Msg("Project status updated")

	if err := s.populateProfiles(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteWithDocuments finishes an approved project by attaching the
// uploaded deliverable files. The report is mandatory.
func (s *projectServiceImpl) CompleteWithDocuments(ctx context.Context, caller *models.User, projectID string, req *dto.FinalUploadRequest) (*models.Project, error) {
	if req.Report == nil || req.Report.Filename == "" || req.Report.Path == "" {
		return nil, apperrors.NewFieldValidationError("report", "a project report with filename and path is required")
	}

	now := time.Now()
	completion := &models.Completion{
		Kind: models.CompletionDocuments,
		Documents: &models.FinalDocuments{
			Report:       fileRefFromInput(req.Report, now),
			Presentation: fileRefFromInput(req.Presentation, now),
			Code:         fileRefFromInput(req.Code, now),
			Images:       fileRefFromInput(req.Images, now),
		},
	}

	return s.complete(ctx, caller, projectID, completion, now)
}

// CompleteWithDetails finishes an approved project by submitting the
// structured final-details form instead of file uploads.
func (s *projectServiceImpl) CompleteWithDetails(ctx context.Context, caller *models.User, projectID string, req *dto.FinalDetailsRequest) (*models.Project, error) {
	d := req.ProjectDetails
	if len(d.Description.Objectives) == 0 {
		return nil, apperrors.NewFieldValidationError("objectives", "at least one objective is required")
	}

	now := time.Now()
	completion := &models.Completion{
		Kind: models.CompletionForm,
		Details: &models.FinalDetails{
			BasicInfo: models.FinalBasicInfo{
				ProjectDomain: strings.TrimSpace(d.BasicInfo.ProjectDomain),
				TeamMembers:   strings.TrimSpace(d.BasicInfo.TeamMembers),
			},
			Description: models.FinalDescription{
				Abstract:         strings.TrimSpace(d.Description.Abstract),
				Objectives:       d.Description.Objectives,
				ProblemStatement: strings.TrimSpace(d.Description.ProblemStatement),
				ProposedSolution: strings.TrimSpace(d.Description.ProposedSolution),
			},
			TechnicalDetails: models.FinalTechnicalDetails{
				TechnologiesUsed: strings.TrimSpace(d.TechnicalDetails.TechnologiesUsed),
				FinalOutput:      strings.TrimSpace(d.TechnicalDetails.FinalOutput),
			},
			SubmittedAt: now,
		},
	}

	return s.complete(ctx, caller, projectID, completion, now)
}

func (s *projectServiceImpl) complete(ctx context.Context, caller *models.User, projectID string, completion *models.Completion, completedAt time.Time) (*models.Project, error) {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, apperrors.ErrProjectNotFound
	}

	updated, err := s.projectRepo.CompleteIfApproved(ctx, id, caller.ID, completion, completedAt)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, s.classifyOwnerMiss(ctx, id, caller.ID, models.StatusApproved)
	}

	s.logger.Info().
		Str("projectId", updated.ID.Hex()).
		Str("submittedBy", caller.ID.Hex()).
		Str("kind", string(completion.Kind)).
		Msg("Project completed")

	if err := s.populateProfiles(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete withdraws a pending project. Approved, rejected and completed
// projects are part of the record and cannot be removed.
func (s *projectServiceImpl) Delete(ctx context.Context, caller *models.User, projectID string) error {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return apperrors.ErrProjectNotFound
	}

	deleted, err := s.projectRepo.DeleteIfPending(ctx, id, caller.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return s.classifyOwnerMiss(ctx, id, caller.ID, models.StatusPending)
	}

	s.logger.Info().
		Str("projectId", id.Hex()).
		Str("submittedBy", caller.ID.Hex()).
		Msg("Project withdrawn")
	return nil
}

// classifyGuideMiss explains a failed conditional status update with one
// re-read: the project is gone, belongs to another guide, or already left
// the pending state.
func (s *projectServiceImpl) classifyGuideMiss(ctx context.Context, id, guide primitive.ObjectID) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperrors.ErrProjectNotFound
	}
	if project.FacultyGuide != guide {
		return apperrors.NewCustomError(apperrors.ErrNotProjectGuide,
			"only the assigned faculty guide can decide on this project")
	}
	return apperrors.NewInvalidStateError(
		fmt.Sprintf("project is %s, only pending projects can be approved or rejected", project.Status))
}

// classifyOwnerMiss mirrors classifyGuideMiss for owner-guarded transitions
func (s *projectServiceImpl) classifyOwnerMiss(ctx context.Context, id, owner primitive.ObjectID, expected models.ProjectStatus) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperrors.ErrProjectNotFound
	}
	if project.SubmittedBy != owner {
		return apperrors.NewCustomError(apperrors.ErrNotProjectOwner,
			"only the submitting student can perform this action")
	}
	return apperrors.NewInvalidStateError(
		fmt.Sprintf("project is %s, expected %s", project.Status, expected))
}

// loadProject resolves an ID string to a project or a not-found error
func (s *projectServiceImpl) loadProject(ctx context.Context, projectID string) (*models.Project, error) {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, apperrors.ErrProjectNotFound
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// populateProfiles attaches the guide and submitter profiles to a project
func (s *projectServiceImpl) populateProfiles(ctx context.Context, project *models.Project) error {
	return s.populateProfilesCached(ctx, project, make(map[primitive.ObjectID]*models.PublicProfile))
}

func (s *projectServiceImpl) populateProfilesCached(ctx context.Context, project *models.Project, cache map[primitive.ObjectID]*models.PublicProfile) error {
	guide, err := s.profileByID(ctx, project.FacultyGuide, cache)
	if err != nil {
		return err
	}
	submitter, err := s.profileByID(ctx, project.SubmittedBy, cache)
	if err != nil {
		return err
	}
	project.Guide = guide
	project.Submitter = submitter
	return nil
}

func (s *projectServiceImpl) profileByID(ctx context.Context, id primitive.ObjectID, cache map[primitive.ObjectID]*models.PublicProfile) (*models.PublicProfile, error) {
	if profile, ok := cache[id]; ok {
		return profile, nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A removed account leaves the reference dangling; responses simply omit it
	var profile *models.PublicProfile
	if user != nil {
		profile = profileOf(user)
	}
	cache[id] = profile
	return profile, nil
}

func profileOf(user *models.User) *models.PublicProfile {
	p := user.Public()
	return &p
}

func fileRefFromInput(in *dto.FileRefInput, uploadedAt time.Time) *models.FileRef {
	if in == nil {
		return nil
	}
	return &models.FileRef{
		Filename:     in.Filename,
		Path:         in.Path,
		OriginalName: in.OriginalName,
		Size:         in.Size,
		UploadedAt:   uploadedAt,
	}
}
