package models

// Role defines the user role type
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// Department codes recognised by the college
type Department string

const (
	DepartmentCSE      Department = "CSE"
	DepartmentECE      Department = "ECE"
	DepartmentEEE      Department = "EEE"
	DepartmentMech     Department = "MECH"
	DepartmentCivil    Department = "CIVIL"
	DepartmentArts     Department = "ARTS"
	DepartmentScience  Department = "SCIENCE"
	DepartmentBusiness Department = "BUSINESS"
)

// Departments lists every valid department code
var Departments = []Department{
	DepartmentCSE, DepartmentECE, DepartmentEEE, DepartmentMech,
	DepartmentCivil, DepartmentArts, DepartmentScience, DepartmentBusiness,
}

// IsValidDepartment reports whether code is a known department
func IsValidDepartment(code string) bool {
	for _, d := range Departments {
		if string(d) == code {
			return true
		}
	}
	return false
}

// StudyYear is the academic year of a student
type StudyYear string

const (
	YearFirst  StudyYear = "1st Year"
	YearSecond StudyYear = "2nd Year"
	YearThird  StudyYear = "3rd Year"
	YearFourth StudyYear = "4th Year"
	YearFinal  StudyYear = "Final Year"
)

// StudyYears lists every valid study year
var StudyYears = []StudyYear{YearFirst, YearSecond, YearThird, YearFourth, YearFinal}

// IsValidStudyYear reports whether year is a known study year
func IsValidStudyYear(year string) bool {
	for _, y := range StudyYears {
		if string(y) == year {
			return true
		}
	}
	return false
}

// ProjectCategory classifies a project submission
type ProjectCategory string

const (
	CategoryHardware ProjectCategory = "Hardware"
	CategorySoftware ProjectCategory = "Software"
	CategoryResearch ProjectCategory = "Research"
)

// ProjectStatus is a project's position in the approval lifecycle
type ProjectStatus string

const (
	StatusPending   ProjectStatus = "pending"
	StatusApproved  ProjectStatus = "approved"
	StatusRejected  ProjectStatus = "rejected"
	StatusCompleted ProjectStatus = "completed"
)
