package models

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationDraft     ApplicationStatus = "DRAFT"
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationConfirmed ApplicationStatus = "CONFIRMED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationDeleted   ApplicationStatus = "DELETED"
)

// IsTerminal reports whether no further transition is allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected || s == ApplicationDeleted
}

// ApplicationAction is a recruiter decision on an application.
type ApplicationAction string

const (
	ActionConfirm ApplicationAction = "CONFIRM"
	ActionReject  ApplicationAction = "REJECT"
	ActionAccept  ApplicationAction = "ACCEPT"
)

// ParseApplicationAction rejects unknown actions at the boundary.
func ParseApplicationAction(s string) (ApplicationAction, bool) {
	switch ApplicationAction(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionConfirm:
		return ActionConfirm, true
	case ActionReject:
		return ActionReject, true
	case ActionAccept:
		return ActionAccept, true
	default:
		return "", false
	}
}

// NextStatus returns the status an action leads to from the current one.
// Accept requires a prior Confirm; Reject is allowed while the application
// is still undecided (PENDING or CONFIRMED).
func NextStatus(from ApplicationStatus, action ApplicationAction) (ApplicationStatus, bool) {
	switch action {
	case ActionConfirm:
		if from == ApplicationPending {
			return ApplicationConfirmed, true
		}
	case ActionReject:
		if from == ApplicationPending || from == ApplicationConfirmed {
			return ApplicationRejected, true
		}
	case ActionAccept:
		if from == ApplicationConfirmed {
			return ApplicationAccepted, true
		}
	}
	return "", false
}

// Application is one candidate submission: exactly one CV against exactly
// one Job, at most one row per (cv_id, job_id) pair.
type Application struct {
	ID          string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CVID        string            `gorm:"column:cv_id;type:uuid;uniqueIndex:ux_applications_cv_job;index" json:"cv_id"`
	JobID       string            `gorm:"column:job_id;type:uuid;uniqueIndex:ux_applications_cv_job;index" json:"job_id"`
	Status      ApplicationStatus `gorm:"column:status;type:text;index" json:"status"`
	CoverLetter string            `gorm:"column:cover_letter;type:text" json:"cover_letter"`
	Feedback    string            `gorm:"column:feedback;type:text" json:"feedback"`
	AppliedDate time.Time         `gorm:"column:applied_date;type:timestamptz" json:"applied_date"`
	UpdatedDate time.Time         `gorm:"column:updated_date;type:timestamptz" json:"updated_date"`
}

func (Application) TableName() string { return "applications" }
