package dto

import (
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/google/uuid"
)

type JobFilter struct {
	Location  string `query:"location"`
	CompanyID string `query:"company_id"`
	Search    string `query:"search"`
}

type UpdateHiringStatusRequest struct {
	IsOpen *bool `json:"is_open"`
}

// ApplyControl is the state of the apply button on a job page.
type ApplyControl struct {
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// JobViewDTO is a job together with the state derived for the current actor.
type JobViewDTO struct {
	Job            *model.Job          `json:"job"`
	ApplicantCount int                 `json:"applicant_count"`
	DeadlineLabel  string              `json:"deadline_label"`
	HiringLabel    string              `json:"hiring_label"`
	CanManage      bool                `json:"can_manage"`
	Apply          ApplyControl        `json:"apply"`
	Applications   []model.Application `json:"applications,omitempty"`
	StatusOptions  []string            `json:"status_options,omitempty"`
	MyApplication  *model.Application  `json:"my_application,omitempty"`
	Error          string              `json:"error,omitempty"`
}

type SavedJobDTO struct {
	JobID uuid.UUID  `json:"job_id"`
	Job   *model.Job `json:"job"`
}
