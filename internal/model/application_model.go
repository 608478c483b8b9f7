package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusApplied         ApplicationStatus = "Applied"
	ApplicationStatusInterviewing    ApplicationStatus = "Interviewing"
	ApplicationStatusHired           ApplicationStatus = "Hired"
	ApplicationStatusRejected        ApplicationStatus = "Rejected"
	ApplicationStatusGroupDiscussion ApplicationStatus = "Group Discussion"
)

// ApplicationStatuses lists every status in the order recruiters pick them.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusApplied,
		ApplicationStatusInterviewing,
		ApplicationStatusHired,
		ApplicationStatusRejected,
		ApplicationStatusGroupDiscussion,
	}
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusApplied, ApplicationStatusInterviewing, ApplicationStatusHired,
		ApplicationStatusRejected, ApplicationStatusGroupDiscussion:
		return true
	default:
		return false
	}
}

type Education string

const (
	EducationIntermediate Education = "Intermediate"
	EducationGraduate     Education = "Graduate"
	EducationPostGraduate Education = "Post-Graduate"
)

type Application struct {
	ID          uuid.UUID         `json:"id"`
	JobID       uuid.UUID         `json:"job_id"`
	CandidateID string            `json:"candidate_id"`
	Name        string            `json:"name"`
	Experience  int               `json:"experience"`
	Skills      string            `json:"skills"`
	Education   Education         `json:"education"`
	Resume      string            `json:"resume"` // URL of the stored document
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Job         *Job              `json:"job,omitempty"`
}
