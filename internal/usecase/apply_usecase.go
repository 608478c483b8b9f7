package usecase

import (
	"context"
	"sync"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/asyncres"
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/logger"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/fadilmartias/job-board/internal/validation"
	"github.com/google/uuid"
)

// CanApply is the apply control's enabled state: the job is open and the
// actor has no application on it yet.
func CanApply(job *model.Job, actor model.Actor) bool {
	return job != nil && canApply(job.IsOpen, job, actor)
}

// canApply takes the hiring flag separately so a page can use the last
// acknowledged toggle instead of a snapshot whose refetch failed.
func canApply(open bool, job *model.Job, actor model.Actor) bool {
	if job == nil || actor.ID == "" || !open {
		return false
	}
	_, applied := job.ApplicationFrom(actor.ID)
	return !applied
}

// ApplyUsecase is the apply drawer of one job page.
type ApplyUsecase struct {
	actor  model.Actor
	page   *JobPage
	create *asyncres.Resource[uuid.UUID, dto.ApplicationPayload, *model.Application]

	mu   sync.Mutex
	form validation.ApplyForm
}

func NewApplyUsecase(actor model.Actor, svc service.JobBoardServiceInterface, page *JobPage, opts ...asyncres.Option) *ApplyUsecase {
	create := func(ctx context.Context, jobID uuid.UUID, payload dto.ApplicationPayload) (*model.Application, error) {
		payload.JobID = jobID
		return svc.CreateApplication(ctx, payload)
	}
	opts = append([]asyncres.Option{asyncres.WithName("create-application")}, opts...)
	return &ApplyUsecase{
		actor:  actor,
		page:   page,
		create: asyncres.New(create, page.JobID(), opts...),
	}
}

// Enabled mirrors the apply control. The job's own recruiter never sees it.
func (u *ApplyUsecase) Enabled() bool {
	job := u.page.Job()
	return canApply(u.page.IsOpen(), job, u.actor) && !job.OwnedBy(u.actor)
}

func (u *ApplyUsecase) Form() validation.ApplyForm {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.form
}

func (u *ApplyUsecase) SetForm(form validation.ApplyForm) {
	u.mu.Lock()
	u.form = form
	u.mu.Unlock()
}

func (u *ApplyUsecase) Reset() {
	u.SetForm(validation.ApplyForm{})
}

func (u *ApplyUsecase) State() asyncres.State[*model.Application] {
	return u.create.State()
}

// Submit validates the form, creates the application, refetches the job and
// clears the form, each step only after the previous one settled. Validation
// failures come back as *util.FormError and leave the form untouched, as do
// remote failures.
func (u *ApplyUsecase) Submit(ctx context.Context) (*model.Application, error) {
	log := logger.Named("apply")
	jobID := u.page.JobID()
	if !u.Enabled() {
		log.Infow("apply control disabled, nothing submitted", "job", jobID, "actor", u.actor.ID)
		return nil, apperror.Precondition("job is closed or already applied")
	}

	valid, err := validation.ValidateApplyForm(u.Form())
	if err != nil {
		return nil, err
	}

	app, err := u.create.Invoke(ctx, dto.ApplicationPayload{
		CandidateID: u.actor.ID,
		Name:        u.actor.FullName,
		Experience:  valid.Experience,
		Skills:      valid.Skills,
		Education:   valid.Education,
		Status:      model.ApplicationStatusApplied,
		Resume:      valid.Resume,
	})
	if err != nil {
		log.Warnw("create application failed", "job", jobID, "actor", u.actor.ID, "error", err)
		return nil, err
	}
	log.Infow("application submitted", "job", jobID, "application", app.ID)

	if err := u.page.Refetch(ctx); err != nil {
		log.Warnw("job refetch after apply failed", "job", jobID, "error", err)
	}
	u.Reset()
	return app, nil
}
