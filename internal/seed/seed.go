package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	appModels "github.com/campuscloud/eduprojects/internal/app/models"
	appRepos "github.com/campuscloud/eduprojects/internal/app/repositories"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
	pkgAuth "github.com/campuscloud/eduprojects/internal/pkg/auth"
)

// defaultPassword is assigned to seeded accounts. Intended for development
// databases only; the seeder is skipped once any user exists.
const defaultPassword = "faculty123"

// CreateDefaultData seeds a starter faculty directory and a small demo
// project set into an empty database so the application is usable right
// after the first start.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	count, err := repos.UserRepository.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		lgr.Debug().Int64("users", count).Msg("Database not empty, skipping seed data")
		return nil
	}

	lgr.Info().Msg("Empty database, seeding default accounts and demo projects...")

	hash, err := pkgAuth.HashPassword(defaultPassword)
	if err != nil {
		return err
	}

	faculty := []appModels.User{
		{
			FirstName:   "Ramesh",
			LastName:    "Iyer",
			CollegeID:   "FAC001",
			Email:       "ramesh.iyer@college.edu",
			Role:        appModels.RoleFaculty,
			Department:  appModels.DepartmentCSE,
			Designation: "Professor",
		},
		{
			FirstName:   "Priya",
			LastName:    "Nair",
			CollegeID:   "FAC002",
			Email:       "priya.nair@college.edu",
			Role:        appModels.RoleFaculty,
			Department:  appModels.DepartmentECE,
			Designation: "Associate Professor",
		},
		{
			FirstName:   "Suresh",
			LastName:    "Menon",
			CollegeID:   "FAC003",
			Email:       "suresh.menon@college.edu",
			Role:        appModels.RoleFaculty,
			Department:  appModels.DepartmentMech,
			Designation: "Assistant Professor",
		},
	}

	var finalErr error
	for i := range faculty {
		user := &faculty[i]
		user.Password = hash
		user.IsActive = true

		if err := repos.UserRepository.Create(ctx, user); err != nil {
			if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrCollegeIDExists) {
				continue
			}
			lgr.Error().Err(err).Str("email", user.Email).Msg("Error seeding faculty account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("email", user.Email).Msg("Seeded faculty account")
	}

	student := &appModels.User{
		FirstName:  "Anjali",
		LastName:   "Sharma",
		CollegeID:  "STU001",
		Email:      "anjali.sharma@college.edu",
		Password:   hash,
		Role:       appModels.RoleStudent,
		Department: appModels.DepartmentCSE,
		Year:       string(appModels.YearFinal),
		IsActive:   true,
	}
	if err := repos.UserRepository.Create(ctx, student); err != nil {
		lgr.Error().Err(err).Str("email", student.Email).Msg("Error seeding student account")
		return errors.Join(finalErr, err)
	}
	lgr.Info().Str("email", student.Email).Msg("Seeded student account")

	if err := seedDemoProjects(ctx, repos, student, &faculty[0], lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// seedDemoProjects inserts one completed project for the public showcase
// and one pending proposal awaiting a decision.
func seedDemoProjects(ctx context.Context, repos *appRepos.Repositories, student, guide *appModels.User, lgr zerolog.Logger) error {
	now := time.Now()
	approvedAt := now.Add(-30 * 24 * time.Hour)
	completedAt := now.Add(-7 * 24 * time.Hour)

	completed := &appModels.Project{
		Title:         "Campus Energy Consumption Dashboard",
		Category:      appModels.CategorySoftware,
		Branch:        appModels.DepartmentCSE,
		ShortOverview: "Real-time dashboard visualizing electricity usage across campus buildings.",
		Description: "The project collects meter readings from campus buildings over MQTT, stores " +
			"them in a time-series layout and renders hourly, daily and monthly consumption trends. " +
			"Facility staff can compare buildings, spot anomalies and export reports.",
		FacultyGuide: guide.ID,
		SubmittedBy:  student.ID,
		TeamMembers: []appModels.TeamMember{
			{Name: "Rahul Verma", StudentID: "STU014"},
		},
		Status:      appModels.StatusCompleted,
		ApprovedAt:  &approvedAt,
		CompletedAt: &completedAt,
		Completion: &appModels.Completion{
			Kind: appModels.CompletionForm,
			Details: &appModels.FinalDetails{
				BasicInfo: appModels.FinalBasicInfo{
					ProjectDomain: "IoT / Data Visualization",
					TeamMembers:   "Anjali Sharma, Rahul Verma",
				},
				Description: appModels.FinalDescription{
					Abstract: "A dashboard that turns raw campus meter readings into actionable consumption insights.",
					Objectives: []string{
						"Collect meter readings from all campus buildings",
						"Visualize consumption trends per building",
						"Flag anomalous usage patterns",
					},
					ProblemStatement: "Campus electricity usage is only reviewed through monthly bills, far too late to act on waste.",
					ProposedSolution: "Stream readings into a central store and surface live dashboards with anomaly alerts.",
				},
				TechnicalDetails: appModels.FinalTechnicalDetails{
					TechnologiesUsed: "Go, MQTT, MongoDB, React",
					FinalOutput:      "Deployed dashboard used by the facilities office",
				},
				SubmittedAt: completedAt,
			},
		},
	}

	pending := &appModels.Project{
		Title:         "Smart Library Seat Finder",
		Category:      appModels.CategoryHardware,
		Branch:        appModels.DepartmentCSE,
		ShortOverview: "Occupancy sensors and a mobile view showing free seats in the library.",
		Description: "Ultrasonic sensors mounted under desks report occupancy to a small gateway. " +
			"A campus web page shows a live floor map so students stop wandering between floors " +
			"looking for a free seat during exam weeks.",
		FacultyGuide: guide.ID,
		SubmittedBy:  student.ID,
		TeamMembers:  []appModels.TeamMember{},
		Status:       appModels.StatusPending,
	}

	var finalErr error
	for _, project := range []*appModels.Project{completed, pending} {
		if err := repos.ProjectRepository.Create(ctx, project); err != nil {
			lgr.Error().Err(err).Str("title", project.Title).Msg("Error seeding demo project")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("title", project.Title).Str("status", string(project.Status)).Msg("Seeded demo project")
	}
	return finalErr
}
