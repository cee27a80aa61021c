package dto

import "github.com/campuscloud/eduprojects/internal/app/models"

// TeamMemberInput is one project team member as submitted by the client
type TeamMemberInput struct {
	Name      string `json:"name" binding:"required"`
	StudentID string `json:"studentId" binding:"required"`
}

// CreateProjectRequest represents a new project submission
type CreateProjectRequest struct {
	Title         string            `json:"title" binding:"required,min=5,max=200"`
	Category      string            `json:"category" binding:"required,oneof=Hardware Software Research"`
	Branch        string            `json:"branch" binding:"required"`
	ShortOverview string            `json:"shortOverview" binding:"required,max=200"`
	Description   string            `json:"description" binding:"required,min=50,max=2000"`
	FacultyGuide  string            `json:"facultyGuide" binding:"required"`
	TeamMembers   []TeamMemberInput `json:"teamMembers" binding:"omitempty,max=4,dive"`
}

// UpdateStatusRequest represents a faculty approve/reject decision
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=approved rejected"`
	Remarks string `json:"remarks" binding:"omitempty,max=1000"`
}

// FileRefInput is an uploaded-file reference attached to a completion request
type FileRefInput struct {
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
}

// FinalUploadRequest attaches deliverable files to an approved project.
// Report is mandatory; the other fields are optional.
type FinalUploadRequest struct {
	Report       *FileRefInput `json:"report" binding:"required"`
	Presentation *FileRefInput `json:"presentation,omitempty"`
	Code         *FileRefInput `json:"code,omitempty"`
	Images       *FileRefInput `json:"images,omitempty"`
}

// FinalDetailsBasicInfo is the opening form section
type FinalDetailsBasicInfo struct {
	ProjectDomain string `json:"projectDomain" binding:"required"`
	TeamMembers   string `json:"teamMembers,omitempty"`
}

// FinalDetailsDescription is the narrative form section
type FinalDetailsDescription struct {
	Abstract         string   `json:"abstract" binding:"required"`
	Objectives       []string `json:"objectives" binding:"required,min=1"`
	ProblemStatement string   `json:"problemStatement" binding:"required"`
	ProposedSolution string   `json:"proposedSolution" binding:"required"`
}

// FinalDetailsTechnical is the technical form section
type FinalDetailsTechnical struct {
	TechnologiesUsed string `json:"technologiesUsed,omitempty"`
	FinalOutput      string `json:"finalOutput" binding:"required"`
}

// FinalDetailsRequest submits the structured final-details form for an
// approved project.
type FinalDetailsRequest struct {
	ProjectDetails struct {
		BasicInfo        FinalDetailsBasicInfo   `json:"basicInfo" binding:"required"`
		Description      FinalDetailsDescription `json:"description" binding:"required"`
		TechnicalDetails FinalDetailsTechnical   `json:"technicalDetails" binding:"required"`
	} `json:"projectDetails" binding:"required"`
}

// ProjectFilter captures list filters parsed from query parameters.
// Empty strings mean "no filter". Owner/Guide scope the listing to a caller.
type ProjectFilter struct {
	Status   string
	Branch   string
	Category string
	Search   string
	Owner    string // submittedBy ObjectID hex
	Guide    string // facultyGuide ObjectID hex
}

// ProjectListResponse is a page of projects plus paging metadata
type ProjectListResponse struct {
	Projects   []models.Project `json:"projects"`
	Pagination PaginationInfo   `json:"pagination"`
}
