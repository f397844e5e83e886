package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CareerStatus is the state of a job posting.
type CareerStatus string

const (
	CareerStatusDraft  CareerStatus = "draft"
	CareerStatusOpen   CareerStatus = "open"
	CareerStatusClosed CareerStatus = "closed"
)

// EmploymentType classifies a posting.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

// Career is a job posting.
type Career struct {
	ID               uuid.UUID      `db:"id"               json:"id"`
	Title            string         `db:"title"            json:"title"`
	Slug             string         `db:"slug"             json:"slug"`
	Department       string         `db:"department"       json:"department"`
	Location         string         `db:"location"         json:"location"`
	EmploymentType   EmploymentType `db:"employment_type"  json:"employment_type"`
	Summary          string         `db:"summary"          json:"summary"`
	Description      string         `db:"description"      json:"description"`
	Responsibilities pq.StringArray `db:"responsibilities" json:"responsibilities"`
	Requirements     pq.StringArray `db:"requirements"     json:"requirements"`
	SalaryRange      string         `db:"salary_range"     json:"salary_range"`
	Deadline         *Date          `db:"deadline"         json:"deadline"`
	Status           CareerStatus   `db:"status"           json:"status"`
	CreatedAt        time.Time      `db:"created_at"       json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"       json:"updated_at"`
}

// CareerCreateRequest is the payload for creating a posting.
type CareerCreateRequest struct {
	Title            string         `binding:"required,min=1,max=255"                                 json:"title"`
	Slug             *string        `binding:"omitempty,max=120"                                      json:"slug"`
	Department       string         `binding:"max=100"                                                json:"department"`
	Location         string         `binding:"max=255"                                                json:"location"`
	EmploymentType   EmploymentType `binding:"omitempty,oneof=full_time part_time contract internship" json:"employment_type"`
	Summary          string         `binding:"max=1000"                                               json:"summary"`
	Description      string         `binding:"max=50000"                                              json:"description"`
	Responsibilities []string       `binding:"omitempty,max=50,dive,max=500"                          json:"responsibilities"`
	Requirements     []string       `binding:"omitempty,max=50,dive,max=500"                          json:"requirements"`
	SalaryRange      string         `binding:"max=100"                                                json:"salary_range"`
	Deadline         *Date          `json:"deadline"`
	Status           CareerStatus   `binding:"omitempty,oneof=draft open closed"                      json:"status"`
}

// Validate fills defaults.
func (r *CareerCreateRequest) Validate() error {
	if r.EmploymentType == "" {
		r.EmploymentType = EmploymentFullTime
	}
	if r.Status == "" {
		r.Status = CareerStatusDraft
	}
	r.Responsibilities = CleanList(r.Responsibilities)
	r.Requirements = CleanList(r.Requirements)
	return nil
}

// CareerUpdateRequest is the payload for a partial posting update.
// ClearDeadline removes the deadline.
type CareerUpdateRequest struct {
	Title            *string         `binding:"omitempty,min=1,max=255"                                 json:"title"`
	Slug             *string         `binding:"omitempty,min=1,max=120"                                 json:"slug"`
	Department       *string         `binding:"omitempty,max=100"                                       json:"department"`
	Location         *string         `binding:"omitempty,max=255"                                       json:"location"`
	EmploymentType   *EmploymentType `binding:"omitempty,oneof=full_time part_time contract internship" json:"employment_type"`
	Summary          *string         `binding:"omitempty,max=1000"                                      json:"summary"`
	Description      *string         `binding:"omitempty,max=50000"                                     json:"description"`
	Responsibilities *[]string       `binding:"omitempty,max=50,dive,max=500"                           json:"responsibilities"`
	Requirements     *[]string       `binding:"omitempty,max=50,dive,max=500"                           json:"requirements"`
	SalaryRange      *string         `binding:"omitempty,max=100"                                       json:"salary_range"`
	Deadline         *Date           `json:"deadline"`
	ClearDeadline    bool            `json:"clear_deadline"`
	Status           *CareerStatus   `binding:"omitempty,oneof=draft open closed"                       json:"status"`
}

// Validate validates the career update request
func (r *CareerUpdateRequest) Validate() error {
	if r.Title == nil && r.Slug == nil && r.Department == nil && r.Location == nil &&
		r.EmploymentType == nil && r.Summary == nil && r.Description == nil &&
		r.Responsibilities == nil && r.Requirements == nil && r.SalaryRange == nil &&
		r.Deadline == nil && !r.ClearDeadline && r.Status == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Slug != nil {
		slug := Slugify(*r.Slug)
		r.Slug = &slug
	}
	for _, list := range []*[]string{r.Responsibilities, r.Requirements} {
		if list != nil {
			*list = CleanList(*list)
		}
	}
	return nil
}
