package model

import "github.com/google/uuid"

type SavedJob struct {
	ID          uuid.UUID `json:"id"`
	CandidateID string    `json:"user_id"`
	JobID       uuid.UUID `json:"job_id"`
	Job         *Job      `json:"job,omitempty"`
}

// Key is the job the record points at; the embedded snapshot wins over the
// foreign key when both are present.
func (s SavedJob) Key() uuid.UUID {
	if s.Job != nil && s.Job.ID != uuid.Nil {
		return s.Job.ID
	}
	return s.JobID
}
