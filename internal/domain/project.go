package domain

import "time"

// ProjectStatus is the status enum for projects. API payloads may carry
// either the typed value or its raw string form; the storage layer reduces
// both to the primitive string via the Stringer interface.
type ProjectStatus string

const (
	ProjectPending   ProjectStatus = "pending"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) String() string { return string(s) }

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectActive, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

type Project struct {
	ProjectID           string        `json:"id" dynamodbav:"project_id"`
	Name                string        `json:"name" dynamodbav:"name"`
	Description         string        `json:"description" dynamodbav:"description"`
	StartDate           string        `json:"startDate" dynamodbav:"start_date"` // YYYY-MM-DD
	EndDate             string        `json:"endDate" dynamodbav:"end_date"`
	RegistrationEndDate string        `json:"registrationEndDate,omitempty" dynamodbav:"registration_end_date"`
	MaxParticipants     int           `json:"maxParticipants" dynamodbav:"max_participants"`
	Status              ProjectStatus `json:"status" dynamodbav:"status"`
	Category            string        `json:"category,omitempty" dynamodbav:"category"`
	Location            string        `json:"location,omitempty" dynamodbav:"location"`
	Requirements        string        `json:"requirements,omitempty" dynamodbav:"requirements"`
	IsEnabled           bool          `json:"isEnabled" dynamodbav:"is_enabled"`
	CreatedBy           string        `json:"createdBy" dynamodbav:"created_by"`
	CreatedAt           time.Time     `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt           time.Time     `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateProjectRequest struct {
	Name                string        `json:"name" validate:"required,max=200"`
	Description         string        `json:"description" validate:"required,max=2000"`
	StartDate           string        `json:"startDate" validate:"required"`
	EndDate             string        `json:"endDate" validate:"required"`
	RegistrationEndDate string        `json:"registrationEndDate"`
	MaxParticipants     int           `json:"maxParticipants" validate:"required,gte=1,lte=1000"`
	Status              ProjectStatus `json:"status"`
	Category            string        `json:"category" validate:"max=100"`
	Location            string        `json:"location" validate:"max=200"`
	Requirements        string        `json:"requirements" validate:"max=1000"`
	IsEnabled           *bool         `json:"isEnabled"`
}

type UpdateProjectRequest struct {
	Name                *string        `json:"name" validate:"omitempty,min=1,max=200"`
	Description         *string        `json:"description" validate:"omitempty,min=1,max=2000"`
	StartDate           *string        `json:"startDate"`
	EndDate             *string        `json:"endDate"`
	RegistrationEndDate *string        `json:"registrationEndDate"`
	MaxParticipants     *int           `json:"maxParticipants" validate:"omitempty,gte=1,lte=1000"`
	Status              *ProjectStatus `json:"status"`
	Category            *string        `json:"category" validate:"omitempty,max=100"`
	Location            *string        `json:"location" validate:"omitempty,max=200"`
	Requirements        *string        `json:"requirements" validate:"omitempty,max=1000"`
	IsEnabled           *bool          `json:"isEnabled"`
}
