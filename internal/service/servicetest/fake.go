// Package servicetest provides an in-memory data service for tests.
package servicetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/google/uuid"
)

// Operation names, matching the ones the real client reports in errors.
const (
	OpFetchJob             = "fetchJob"
	OpFetchJobs            = "fetchJobs"
	OpFetchSavedJobs       = "fetchSavedJobs"
	OpFetchMyJobs          = "fetchMyJobs"
	OpFetchMyApplications  = "fetchMyApplications"
	OpSetJobHiringStatus   = "setJobHiringStatus"
	OpSetApplicationStatus = "setApplicationStatus"
	OpCreateApplication    = "createApplication"
)

// FakeJobBoard behaves like the data service: writes change its state and
// later reads observe them. Every call is recorded in order. Job search is a
// case-insensitive match on the title.
type FakeJobBoard struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]*model.Job
	order    []uuid.UUID
	saved    map[string][]model.SavedJob
	failures map[string]error
	calls    []string
	payloads []dto.ApplicationPayload
	OnCall   func(op string)
	Now      func() time.Time
}

func NewFakeJobBoard() *FakeJobBoard {
	return &FakeJobBoard{
		jobs:     make(map[uuid.UUID]*model.Job),
		saved:    make(map[string][]model.SavedJob),
		failures: make(map[string]error),
		Now:      time.Now,
	}
}

// AddJob stores a job and returns its id, assigning one when missing.
func (f *FakeJobBoard) AddJob(job model.Job) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if _, exists := f.jobs[job.ID]; !exists {
		f.order = append(f.order, job.ID)
	}
	j := cloneJob(&job)
	f.jobs[job.ID] = j
	return job.ID
}

func (f *FakeJobBoard) SetSavedJobs(candidateID string, saved []model.SavedJob) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[candidateID] = append([]model.SavedJob(nil), saved...)
}

// FailWith makes every later call of op fail with err. A nil err clears it.
func (f *FakeJobBoard) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

func (f *FakeJobBoard) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeJobBoard) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *FakeJobBoard) Payloads() []dto.ApplicationPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.ApplicationPayload(nil), f.payloads...)
}

// Job returns the server-side copy of a job.
func (f *FakeJobBoard) Job(id uuid.UUID) *model.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneJob(f.jobs[id])
}

func (f *FakeJobBoard) record(op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	err := f.failures[op]
	hook := f.OnCall
	f.mu.Unlock()

	if hook != nil {
		hook(op)
	}
	return err
}

func (f *FakeJobBoard) FetchJob(_ context.Context, jobID uuid.UUID) (*model.Job, error) {
	if err := f.record(OpFetchJob); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, apperror.NewRemoteCallError(OpFetchJob, 404, "job not found", nil)
	}
	return cloneJob(job), nil
}

func (f *FakeJobBoard) FetchJobs(_ context.Context, filter dto.JobFilter) ([]model.Job, error) {
	if err := f.record(OpFetchJobs); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Job
	for _, id := range f.order {
		j := f.jobs[id]
		if filter.Location != "" && j.Location != filter.Location {
			continue
		}
		if filter.CompanyID != "" && j.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *cloneJob(j))
	}
	return out, nil
}

func (f *FakeJobBoard) FetchSavedJobs(_ context.Context, candidateID string) ([]model.SavedJob, error) {
	if err := f.record(OpFetchSavedJobs); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.SavedJob(nil), f.saved[candidateID]...), nil
}

func (f *FakeJobBoard) FetchMyJobs(_ context.Context, recruiterID string) ([]model.Job, error) {
	if err := f.record(OpFetchMyJobs); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Job
	for _, id := range f.order {
		if j := f.jobs[id]; j.RecruiterID == recruiterID {
			out = append(out, *cloneJob(j))
		}
	}
	return out, nil
}

func (f *FakeJobBoard) FetchMyApplications(_ context.Context, candidateID string) ([]model.Application, error) {
	if err := f.record(OpFetchMyApplications); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Application
	for _, id := range f.order {
		j := f.jobs[id]
		for _, a := range j.Applications {
			if a.CandidateID == candidateID {
				a.Job = &model.Job{ID: j.ID, Title: j.Title, Company: j.Company}
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *FakeJobBoard) SetJobHiringStatus(_ context.Context, jobID uuid.UUID, isOpen bool) error {
	if err := f.record(OpSetJobHiringStatus); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return apperror.NewRemoteCallError(OpSetJobHiringStatus, 404, "job not found", nil)
	}
	job.IsOpen = isOpen
	return nil
}

func (f *FakeJobBoard) SetApplicationStatus(_ context.Context, ref dto.ApplicationRef, status model.ApplicationStatus) error {
	if err := f.record(OpSetApplicationStatus); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[ref.JobID]
	if !ok {
		return apperror.NewRemoteCallError(OpSetApplicationStatus, 404, "job not found", nil)
	}
	for i := range job.Applications {
		if job.Applications[i].ID == ref.ApplicationID {
			job.Applications[i].Status = status
			return nil
		}
	}
	return apperror.NewRemoteCallError(OpSetApplicationStatus, 404, "application not found", nil)
}

// CreateApplication enforces the same rules the real service does: the job
// must be open and the candidate must not have applied already.
func (f *FakeJobBoard) CreateApplication(_ context.Context, payload dto.ApplicationPayload) (*model.Application, error) {
	if err := f.record(OpCreateApplication); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)

	job, ok := f.jobs[payload.JobID]
	if !ok {
		return nil, apperror.NewRemoteCallError(OpCreateApplication, 404, "job not found", nil)
	}
	if !job.IsOpen {
		return nil, apperror.NewRemoteCallError(OpCreateApplication, 409, "hiring is closed", nil)
	}
	if _, applied := job.ApplicationFrom(payload.CandidateID); applied {
		return nil, apperror.NewRemoteCallError(OpCreateApplication, 409, "already applied", nil)
	}

	app := model.Application{
		ID:          uuid.New(),
		JobID:       payload.JobID,
		CandidateID: payload.CandidateID,
		Name:        payload.Name,
		Experience:  payload.Experience,
		Skills:      payload.Skills,
		Education:   payload.Education,
		Resume:      "https://files.example.com/resumes/" + payload.Resume.Filename,
		Status:      payload.Status,
		CreatedAt:   f.Now(),
	}
	job.Applications = append(job.Applications, app)
	return &app, nil
}

func cloneJob(j *model.Job) *model.Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Applications = append([]model.Application(nil), j.Applications...)
	return &c
}
