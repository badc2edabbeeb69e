package models

import (
	"time"

	"gorm.io/gorm"
)

// JobStatus is the lifecycle state of a posting. Values are case-sensitive.
type JobStatus string

const (
	JobStatusOpen      JobStatus = "Open"
	JobStatusClosed    JobStatus = "Closed"
	JobStatusReviewing JobStatus = "Reviewing"
)

// Valid reports whether s is one of the stored enum values.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusClosed, JobStatusReviewing:
		return true
	}
	return false
}

// Toggled returns the status produced by a toggle: Open closes, anything else reopens.
func (s JobStatus) Toggled() JobStatus {
	if s == JobStatusOpen {
		return JobStatusClosed
	}
	return JobStatusOpen
}

// Job is a posting owned by the recruiter who created it.
type Job struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Location        string    `gorm:"size:200;not null" json:"location"`
	Duration        string    `gorm:"size:100;not null" json:"duration"`
	Stipend         string    `gorm:"size:100" json:"stipend,omitempty"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Skills          []string  `gorm:"serializer:json;type:text" json:"skills"`
	Status          JobStatus `gorm:"type:varchar(16);not null;default:Open;index" json:"status"`
	ApplicantsCount int       `gorm:"not null;default:0" json:"applicantsCount"`
	RecruiterID     uint      `gorm:"not null;index" json:"recruiterId"`
	Recruiter       *User     `gorm:"foreignKey:RecruiterID" json:"-"`
	// RecruiterInfo is the public projection attached by open listings.
	RecruiterInfo *RecruiterSummary `gorm:"-" json:"recruiter,omitempty"`
	PostedAt      time.Time         `json:"postedAt"`
	CreatedAt     time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// RecruiterSummary is the minimal recruiter view shown next to public jobs.
type RecruiterSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// BeforeSave keeps skills serialized as an array rather than null.
func (j *Job) BeforeSave(tx *gorm.DB) error {
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return nil
}

// AfterFind mirrors BeforeSave for rows written by other tools.
func (j *Job) AfterFind(tx *gorm.DB) error {
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return nil
}

// JobEvent is published on the job feed after every lifecycle change.
type JobEvent struct {
	Type        string    `json:"type"`
	JobID       uint      `json:"jobId"`
	RecruiterID uint      `json:"recruiterId"`
	Title       string    `json:"title,omitempty"`
	Status      JobStatus `json:"status,omitempty"`
	At          time.Time `json:"at"`
}

// Job feed event types.
const (
	JobEventCreated       = "job_created"
	JobEventUpdated       = "job_updated"
	JobEventStatusChanged = "job_status_changed"
	JobEventDeleted       = "job_deleted"
)
