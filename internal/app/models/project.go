package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamMember is a student listed on a project
type TeamMember struct {
	Name      string `json:"name" bson:"name"`
	StudentID string `json:"studentId" bson:"studentId"` // Stored uppercase, unique within the project
}

// FileRef describes one uploaded deliverable attached to a project
type FileRef struct {
	Filename     string    `json:"filename" bson:"filename"`
	Path         string    `json:"path" bson:"path"`
	OriginalName string    `json:"originalname" bson:"originalname"`
	Size         int64     `json:"size" bson:"size"`
	UploadedAt   time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// FinalDocuments groups the deliverable files of a completed project.
// Report is mandatory at completion; the rest are optional.
type FinalDocuments struct {
	Report       *FileRef `json:"report,omitempty" bson:"report,omitempty"`
	Presentation *FileRef `json:"presentation,omitempty" bson:"presentation,omitempty"`
	Code         *FileRef `json:"code,omitempty" bson:"code,omitempty"`
	Images       *FileRef `json:"images,omitempty" bson:"images,omitempty"`
}

// FinalBasicInfo is the opening section of the final-details form
type FinalBasicInfo struct {
	ProjectDomain string `json:"projectDomain" bson:"projectDomain"`
	TeamMembers   string `json:"teamMembers,omitempty" bson:"teamMembers,omitempty"`
}

// FinalDescription is the narrative section of the final-details form
type FinalDescription struct {
	Abstract         string   `json:"abstract" bson:"abstract"`
	Objectives       []string `json:"objectives" bson:"objectives"`
	ProblemStatement string   `json:"problemStatement" bson:"problemStatement"`
	ProposedSolution string   `json:"proposedSolution" bson:"proposedSolution"`
}

// FinalTechnicalDetails is the technical section of the final-details form
type FinalTechnicalDetails struct {
	TechnologiesUsed string `json:"technologiesUsed,omitempty" bson:"technologiesUsed,omitempty"`
	FinalOutput      string `json:"finalOutput" bson:"finalOutput"`
}

// FinalDetails is the structured write-up submitted as an alternative to
// uploading deliverable files.
type FinalDetails struct {
	BasicInfo        FinalBasicInfo        `json:"basicInfo" bson:"basicInfo"`
	Description      FinalDescription      `json:"description" bson:"description"`
	TechnicalDetails FinalTechnicalDetails `json:"technicalDetails" bson:"technicalDetails"`
	SubmittedAt      time.Time             `json:"submittedAt" bson:"submittedAt"`
}

// CompletionKind tags which completion payload a project carries
type CompletionKind string

const (
	CompletionDocuments CompletionKind = "documents"
	CompletionForm      CompletionKind = "form"
)

// Completion is the tagged completion payload of a completed project.
// Exactly one of Documents or Details is set, matching Kind.
type Completion struct {
	Kind      CompletionKind  `json:"kind" bson:"kind"`
	Documents *FinalDocuments `json:"documents,omitempty" bson:"documents,omitempty"`
	Details   *FinalDetails   `json:"details,omitempty" bson:"details,omitempty"`
}

// Project is a student project submission moving through the approval lifecycle
type Project struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title          string             `json:"title" bson:"title"`
	Category       ProjectCategory    `json:"category" bson:"category"`
	Branch         Department         `json:"branch" bson:"branch"`
	ShortOverview  string             `json:"shortOverview" bson:"shortOverview"`
	Description    string             `json:"description" bson:"description"`
	FacultyGuide   primitive.ObjectID `json:"facultyGuide" bson:"facultyGuide"`
	SubmittedBy    primitive.ObjectID `json:"submittedBy" bson:"submittedBy"`
	TeamMembers    []TeamMember       `json:"teamMembers" bson:"teamMembers"`
	Status         ProjectStatus      `json:"status" bson:"status"`
	FacultyRemarks string             `json:"facultyRemarks" bson:"facultyRemarks"`
	Completion     *Completion        `json:"completion,omitempty" bson:"completion,omitempty"`
	ApprovedAt     *time.Time         `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Populated relations, filled by the service layer for responses
	Guide     *PublicProfile `json:"guide,omitempty" bson:"-"`
	Submitter *PublicProfile `json:"submitter,omitempty" bson:"-"`
}
