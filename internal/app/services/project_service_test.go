package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscloud/eduprojects/internal/app/models"
	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
)

type projectServiceFixture struct {
	svc          ProjectService
	userRepo     *fakeUserRepo
	projectRepo  *fakeProjectRepo
	student      *models.User
	otherStudent *models.User
	guide        *models.User
	otherGuide   *models.User
}

func newProjectServiceFixture() *projectServiceFixture {
	userRepo := newFakeUserRepo()
	projectRepo := newFakeProjectRepo()

	f := &projectServiceFixture{
		svc:         NewProjectService(projectRepo, userRepo, zerolog.Nop()),
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}

	f.student = userRepo.add(&models.User{
		FirstName: "Anita", LastName: "Rao", CollegeID: "STU001",
		Email: "anita@college.edu", Role: models.RoleStudent,
		Department: models.DepartmentCSE, Year: string(models.YearFinal), IsActive: true,
	})
	f.otherStudent = userRepo.add(&models.User{
		FirstName: "Vikram", LastName: "Shah", CollegeID: "STU002",
		Email: "vikram@college.edu", Role: models.RoleStudent,
		Department: models.DepartmentCSE, Year: string(models.YearThird), IsActive: true,
	})
	f.guide = userRepo.add(&models.User{
		FirstName: "Ramesh", LastName: "Iyer", CollegeID: "FAC001",
		Email: "ramesh@college.edu", Role: models.RoleFaculty,
		Department: models.DepartmentCSE, Designation: "Professor", IsActive: true,
	})
	f.otherGuide = userRepo.add(&models.User{
		FirstName: "Priya", LastName: "Nair", CollegeID: "FAC002",
		Email: "priya@college.edu", Role: models.RoleFaculty,
		Department: models.DepartmentECE, Designation: "Professor", IsActive: true,
	})

	return f
}

func validCreateRequest(guideID string) *dto.CreateProjectRequest {
	return &dto.CreateProjectRequest{
		Title:         "Smart Irrigation Controller",
		Category:      "Hardware",
		Branch:        "CSE",
		ShortOverview: "Soil-moisture driven irrigation controller",
		Description:   "An embedded controller that reads soil moisture and weather data to schedule irrigation cycles automatically across multiple zones.",
		FacultyGuide:  guideID,
		TeamMembers: []dto.TeamMemberInput{
			{Name: "Anita Rao", StudentID: "stu001"},
			{Name: "Vikram Shah", StudentID: "STU002"},
		},
	}
}

func (f *projectServiceFixture) pendingProject() *models.Project {
	return f.projectRepo.add(&models.Project{
		Title:        "Smart Irrigation Controller",
		Category:     models.CategoryHardware,
		Branch:       models.DepartmentCSE,
		Description:  "desc",
		FacultyGuide: f.guide.ID,
		SubmittedBy:  f.student.ID,
		Status:       models.StatusPending,
	})
}

func (f *projectServiceFixture) approvedProject() *models.Project {
	p := f.pendingProject()
	p.Status = models.StatusApproved
	return p
}

func TestCreateProject(t *testing.T) {
	f := newProjectServiceFixture()

	project, err := f.svc.Create(context.Background(), f.student, validCreateRequest(f.guide.ID.Hex()))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, project.Status)
	assert.Equal(t, f.student.ID, project.SubmittedBy)
	assert.Equal(t, f.guide.ID, project.FacultyGuide)
	require.Len(t, project.TeamMembers, 2)
	assert.Equal(t, "STU001", project.TeamMembers[0].StudentID, "student IDs are stored uppercase")
	require.NotNil(t, project.Guide)
	assert.Equal(t, "Ramesh", project.Guide.FirstName)
}

func TestCreateProject_Validation(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()

	t.Run("faculty cannot submit", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.guide, validCreateRequest(f.guide.ID.Hex()))
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("guide must be faculty", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.student, validCreateRequest(f.otherStudent.ID.Hex()))
		assert.ErrorIs(t, err, apperrors.ErrNotFaculty)
	})

	t.Run("unknown guide", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.student, validCreateRequest("64f0c2a1b2c3d4e5f6a7b8c9"))
		assert.ErrorIs(t, err, apperrors.ErrNotFaculty)
	})

	t.Run("invalid branch", func(t *testing.T) {
		req := validCreateRequest(f.guide.ID.Hex())
		req.Branch = "ROBOTICS"
		_, err := f.svc.Create(ctx, f.student, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("duplicate team member", func(t *testing.T) {
		req := validCreateRequest(f.guide.ID.Hex())
		req.TeamMembers = []dto.TeamMemberInput{
			{Name: "A", StudentID: "STU001"},
			{Name: "B", StudentID: "stu001"},
		}
		_, err := f.svc.Create(ctx, f.student, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("malformed team member id", func(t *testing.T) {
		req := validCreateRequest(f.guide.ID.Hex())
		req.TeamMembers = []dto.TeamMemberInput{{Name: "A", StudentID: "x!"}}
		_, err := f.svc.Create(ctx, f.student, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestUpdateStatus(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		p := f.pendingProject()
		updated, err := f.svc.UpdateStatus(ctx, f.guide, p.ID.Hex(), &dto.UpdateStatusRequest{Status: "approved", Remarks: "looks good"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, updated.Status)
		assert.NotNil(t, updated.ApprovedAt)
		assert.Empty(t, updated.FacultyRemarks, "approval does not keep remarks")
	})

	t.Run("reject requires remarks", func(t *testing.T) {
		p := f.pendingProject()
		_, err := f.svc.UpdateStatus(ctx, f.guide, p.ID.Hex(), &dto.UpdateStatusRequest{Status: "rejected", Remarks: "  "})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("reject with remarks", func(t *testing.T) {
		p := f.pendingProject()
		updated, err := f.svc.UpdateStatus(ctx, f.guide, p.ID.Hex(), &dto.UpdateStatusRequest{Status: "rejected", Remarks: "Scope too broad"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, updated.Status)
		assert.Equal(t, "Scope too broad", updated.FacultyRemarks)
		assert.Nil(t, updated.ApprovedAt)
	})

	t.Run("only the assigned guide", func(t *testing.T) {
		p := f.pendingProject()
		_, err := f.svc.UpdateStatus(ctx, f.otherGuide, p.ID.Hex(), &dto.UpdateStatusRequest{Status: "approved"})
		assert.ErrorIs(t, err, apperrors.ErrNotProjectGuide)
	})

	t.Run("students cannot decide", func(t *testing.T) {
		p := f.pendingProject()
		_, err := f.svc.UpdateStatus(ctx, f.student, p.ID.Hex(), &dto.UpdateStatusRequest{Status: "approved"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("already decided", func(t *testing.T) {
		p := f.approvedProject()
		_, err := f.svc.UpdateStatus(ctx, f.guide, p.ID.Hex(), &dto.UpdateStatusRequest{Status: "rejected", Remarks: "changed my mind"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidProjectState)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, f.guide, "64f0c2a1b2c3d4e5f6a7b8c9", &dto.UpdateStatusRequest{Status: "approved"})
		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	})
}

func TestCompleteWithDocuments(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()

	report := &dto.FileRefInput{Filename: "report-1.pdf", Path: "/uploads/documents/report-1.pdf", OriginalName: "final.pdf", Size: 1024}

	t.Run("happy path", func(t *testing.T) {
		p := f.approvedProject()
		updated, err := f.svc.CompleteWithDocuments(ctx, f.student, p.ID.Hex(), &dto.FinalUploadRequest{Report: report})
		require.NoError(t, err)

		assert.Equal(t, models.StatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		require.NotNil(t, updated.Completion)
		assert.Equal(t, models.CompletionDocuments, updated.Completion.Kind)
		require.NotNil(t, updated.Completion.Documents)
		assert.Equal(t, "report-1.pdf", updated.Completion.Documents.Report.Filename)
		assert.Nil(t, updated.Completion.Details)
	})

	t.Run("report is mandatory", func(t *testing.T) {
		p := f.approvedProject()
		_, err := f.svc.CompleteWithDocuments(ctx, f.student, p.ID.Hex(), &dto.FinalUploadRequest{})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("report reference needs filename and path", func(t *testing.T) {
		for name, ref := range map[string]*dto.FileRefInput{
			"empty":            {},
			"missing path":     {Filename: "report-1.pdf", OriginalName: "final.pdf", Size: 1024},
			"missing filename": {Path: "/uploads/documents/report-1.pdf", OriginalName: "final.pdf", Size: 1024},
		} {
			t.Run(name, func(t *testing.T) {
				p := f.approvedProject()
				_, err := f.svc.CompleteWithDocuments(ctx, f.student, p.ID.Hex(), &dto.FinalUploadRequest{Report: ref})
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

				current, repoErr := f.projectRepo.GetByID(ctx, p.ID)
				require.NoError(t, repoErr)
				assert.Equal(t, models.StatusApproved, current.Status, "project must stay approved")
			})
		}
	})

	t.Run("pending project cannot complete", func(t *testing.T) {
		p := f.pendingProject()
		_, err := f.svc.CompleteWithDocuments(ctx, f.student, p.ID.Hex(), &dto.FinalUploadRequest{Report: report})
		assert.ErrorIs(t, err, apperrors.ErrInvalidProjectState)
	})

	t.Run("only the owner", func(t *testing.T) {
		p := f.approvedProject()
		_, err := f.svc.CompleteWithDocuments(ctx, f.otherStudent, p.ID.Hex(), &dto.FinalUploadRequest{Report: report})
		assert.ErrorIs(t, err, apperrors.ErrNotProjectOwner)
	})
}

func TestCompleteWithDetails(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()

	req := &dto.FinalDetailsRequest{}
	req.ProjectDetails.BasicInfo = dto.FinalDetailsBasicInfo{ProjectDomain: "IoT"}
	req.ProjectDetails.Description = dto.FinalDetailsDescription{
		Abstract:         "An automated irrigation controller.",
		Objectives:       []string{"Reduce water usage", "Automate scheduling"},
		ProblemStatement: "Manual irrigation wastes water.",
		ProposedSolution: "Moisture-sensor driven valve control.",
	}
	req.ProjectDetails.TechnicalDetails = dto.FinalDetailsTechnical{TechnologiesUsed: "ESP32, MQTT", FinalOutput: "Working prototype"}

	t.Run("happy path", func(t *testing.T) {
		p := f.approvedProject()
		updated, err := f.svc.CompleteWithDetails(ctx, f.student, p.ID.Hex(), req)
		require.NoError(t, err)

		assert.Equal(t, models.StatusCompleted, updated.Status)
		require.NotNil(t, updated.Completion)
		assert.Equal(t, models.CompletionForm, updated.Completion.Kind)
		require.NotNil(t, updated.Completion.Details)
		assert.Equal(t, "IoT", updated.Completion.Details.BasicInfo.ProjectDomain)
		assert.Len(t, updated.Completion.Details.Description.Objectives, 2)
		assert.Nil(t, updated.Completion.Documents)
		assert.False(t, updated.Completion.Details.SubmittedAt.IsZero())
	})

	t.Run("objectives required", func(t *testing.T) {
		p := f.approvedProject()
		empty := *req
		empty.ProjectDetails.Description.Objectives = nil
		_, err := f.svc.CompleteWithDetails(ctx, f.student, p.ID.Hex(), &empty)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestDeleteProject(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()

	t.Run("withdraw pending", func(t *testing.T) {
		p := f.pendingProject()
		require.NoError(t, f.svc.Delete(ctx, f.student, p.ID.Hex()))

		got, err := f.projectRepo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("approved cannot be withdrawn", func(t *testing.T) {
		p := f.approvedProject()
		err := f.svc.Delete(ctx, f.student, p.ID.Hex())
		assert.ErrorIs(t, err, apperrors.ErrInvalidProjectState)
	})

	t.Run("only the owner", func(t *testing.T) {
		p := f.pendingProject()
		err := f.svc.Delete(ctx, f.otherStudent, p.ID.Hex())
		assert.ErrorIs(t, err, apperrors.ErrNotProjectOwner)
	})

	t.Run("missing project", func(t *testing.T) {
		err := f.svc.Delete(ctx, f.student, "64f0c2a1b2c3d4e5f6a7b8c9")
		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	})
}

func TestGetByID_AccessRules(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()

	t.Run("pending hidden from anonymous", func(t *testing.T) {
		p := f.pendingProject()
		_, err := f.svc.GetByID(ctx, nil, p.ID.Hex())
		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	})

	t.Run("pending hidden from other students", func(t *testing.T) {
		p := f.pendingProject()
		_, err := f.svc.GetByID(ctx, f.otherStudent, p.ID.Hex())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("pending visible to owner and guide", func(t *testing.T) {
		p := f.pendingProject()
		for _, caller := range []*models.User{f.student, f.guide} {
			got, err := f.svc.GetByID(ctx, caller, p.ID.Hex())
			require.NoError(t, err)
			assert.Equal(t, p.ID, got.ID)
			require.NotNil(t, got.Submitter)
			assert.Equal(t, "Anita", got.Submitter.FirstName)
		}
	})

	t.Run("completed visible to anyone", func(t *testing.T) {
		p := f.approvedProject()
		_, err := f.svc.CompleteWithDetails(ctx, f.student, p.ID.Hex(), func() *dto.FinalDetailsRequest {
			r := &dto.FinalDetailsRequest{}
			r.ProjectDetails.BasicInfo.ProjectDomain = "IoT"
			r.ProjectDetails.Description = dto.FinalDetailsDescription{
				Abstract: "a", Objectives: []string{"o"}, ProblemStatement: "p", ProposedSolution: "s",
			}
			r.ProjectDetails.TechnicalDetails.FinalOutput = "prototype"
			return r
		}())
		require.NoError(t, err)

		got, err := f.svc.GetByID(ctx, nil, p.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
	})
}

func TestList_RoleScoping(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()
	f.pendingProject()

	_, err := f.svc.List(ctx, f.student, dto.ProjectFilter{Guide: "should-be-ignored"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, f.student.ID.Hex(), f.projectRepo.lastFilter.Owner)
	assert.Empty(t, f.projectRepo.lastFilter.Guide)

	_, err = f.svc.List(ctx, f.guide, dto.ProjectFilter{Owner: "should-be-ignored"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, f.guide.ID.Hex(), f.projectRepo.lastFilter.Guide)
	assert.Empty(t, f.projectRepo.lastFilter.Owner)
}

func TestListCompleted_ForcesPublicFilter(t *testing.T) {
	f := newProjectServiceFixture()

	result, err := f.svc.ListCompleted(context.Background(), dto.ProjectFilter{
		Status: "pending", Owner: "x", Guide: "y",
	}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, string(models.StatusCompleted), f.projectRepo.lastFilter.Status)
	assert.Empty(t, f.projectRepo.lastFilter.Owner)
	assert.Empty(t, f.projectRepo.lastFilter.Guide)
	assert.Equal(t, 1, result.Pagination.CurrentPage)
}

func TestProjectLifecycle_HappyPath(t *testing.T) {
	f := newProjectServiceFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.student, validCreateRequest(f.guide.ID.Hex()))
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, created.Status)

	approved, err := f.svc.UpdateStatus(ctx, f.guide, created.ID.Hex(), &dto.UpdateStatusRequest{Status: "approved"})
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, approved.Status)

	completed, err := f.svc.CompleteWithDocuments(ctx, f.student, created.ID.Hex(), &dto.FinalUploadRequest{
		Report: &dto.FileRefInput{
			Filename:     "report-1712000000-abc123.pdf",
			Path:         "uploads/documents/report-1712000000-abc123.pdf",
			OriginalName: "final-report.pdf",
			Size:         2048,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.Completion)
	assert.Equal(t, models.CompletionDocuments, completed.Completion.Kind)
	require.NotNil(t, completed.Completion.Documents.Report)
	assert.NotNil(t, completed.CompletedAt)

	// Once completed, the project is publicly readable
	fetched, err := f.svc.GetByID(ctx, nil, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, fetched.Status)
}
