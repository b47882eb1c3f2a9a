package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type EmploymentType string

const (
	EmploymentFulltime EmploymentType = "FULLTIME"
	EmploymentParttime EmploymentType = "PARTTIME"
)

// ParseEmploymentType is the strict boundary parse for the employment-type
// filter: unknown values are rejected, not silently dropped.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	switch EmploymentType(strings.ToUpper(strings.TrimSpace(s))) {
	case EmploymentFulltime:
		return EmploymentFulltime, true
	case EmploymentParttime:
		return EmploymentParttime, true
	default:
		return "", false
	}
}

type JobStatus string

const (
	JobDraft   JobStatus = "DRAFT"
	JobPosted  JobStatus = "POSTED"
	JobDeleted JobStatus = "DELETED"
	JobExpired JobStatus = "EXPIRED"
)

type Job struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title          string         `gorm:"column:title;type:text" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	Requirements   string         `gorm:"column:requirements;type:text" json:"requirements"`
	Location       string         `gorm:"column:location;type:text" json:"location"`
	Salary         float64        `gorm:"column:salary" json:"salary"`
	EmploymentType EmploymentType `gorm:"column:employment_type;type:text" json:"employment_type"`
	Status         JobStatus      `gorm:"column:status;type:text;index" json:"status"`
	Category       string         `gorm:"column:category;type:text;index" json:"category"`
	Tags           pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`
	ExpirationDate time.Time      `gorm:"column:expiration_date;type:timestamptz" json:"expiration_date"`
	CreatedDate    time.Time      `gorm:"column:created_date;type:timestamptz;index" json:"created_date"`
	UpdatedDate    time.Time      `gorm:"column:updated_date;type:timestamptz" json:"updated_date"`
	CompanyID      string         `gorm:"column:company_id;type:uuid;index" json:"company_id"`
}

func (Job) TableName() string { return "jobs" }

// JobFilter carries the already-validated listing filters.
type JobFilter struct {
	Keyword        string
	Location       string
	EmploymentType EmploymentType
	Category       string
	CompanyID      string
	MinSalary      *float64
	MaxSalary      *float64
	Status         JobStatus
	ExcludeJobID   string
	Page           int
	PerPage        int
}
