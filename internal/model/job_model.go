package model

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// Job is a posting owned by the recruiter who created it. Wire names follow
// the data service (isOpen, companies, application).
type Job struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	RecruiterID      string        `json:"recruiter_id"`
	CompanyID        string        `json:"company_id,omitempty"`
	Company          *Company      `json:"companies,omitempty"`
	Location         string        `json:"location"`
	Description      string        `json:"description"`
	Requirements     string        `json:"requirements"`
	Benefits         string        `json:"benefits"`
	Responsibilities string        `json:"responsibilities"`
	Deadline         *time.Time    `json:"deadline,omitempty"`
	IsOpen           bool          `json:"isOpen"`
	Applications     []Application `json:"application"`
	CreatedAt        time.Time     `json:"created_at"`
}

// OwnedBy reports whether the actor is the job's recruiter.
func (j *Job) OwnedBy(actor Actor) bool {
	return actor.ID != "" && j.RecruiterID == actor.ID
}

// ApplicationFrom returns the candidate's application for this job, if any.
func (j *Job) ApplicationFrom(candidateID string) (*Application, bool) {
	for i := range j.Applications {
		if j.Applications[i].CandidateID == candidateID {
			return &j.Applications[i], true
		}
	}
	return nil, false
}

func (j *Job) CompanyName() string {
	if j.Company == nil || j.Company.Name == "" {
		return "the company"
	}
	return j.Company.Name
}
