package dto

import (
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/google/uuid"
)

// ResumeFile is a selected document as declared by the client.
type ResumeFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ApplicationPayload is what the apply pipeline sends to createApplication.
type ApplicationPayload struct {
	JobID       uuid.UUID
	CandidateID string
	Name        string
	Experience  int
	Skills      string
	Education   model.Education
	Status      model.ApplicationStatus
	Resume      ResumeFile
}

// ApplicationRef scopes a status update to the job that owns the application.
type ApplicationRef struct {
	JobID         uuid.UUID
	ApplicationID uuid.UUID
}

type UpdateApplicationStatusRequest struct {
	Status model.ApplicationStatus `json:"status"`
}
