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
)

// CanTransition is the review policy. Recruiting is non-linear, so any known
// status may follow any other; only unknown targets are refused.
func CanTransition(from, to model.ApplicationStatus) error {
	if !to.Valid() {
		return apperror.Wrapf(apperror.ErrInvalidInput, "unknown application status %q", to)
	}
	return nil
}

// ApplicationStatusControl is the status picker on one application card. Each
// card owns its resource, so cards never share loading or error state.
type ApplicationStatusControl struct {
	actor       model.Actor
	recruiterID string
	update      *asyncres.Resource[dto.ApplicationRef, model.ApplicationStatus, struct{}]

	mu        sync.Mutex
	status    model.ApplicationStatus
	refetcher Refetcher
}

func NewApplicationStatusControl(actor model.Actor, svc service.JobBoardServiceInterface, job *model.Job, app model.Application, opts ...asyncres.Option) *ApplicationStatusControl {
	ref := dto.ApplicationRef{JobID: job.ID, ApplicationID: app.ID}
	opts = append([]asyncres.Option{asyncres.WithName("application-status")}, opts...)
	return &ApplicationStatusControl{
		actor:       actor,
		recruiterID: job.RecruiterID,
		update:      asyncres.New(asyncres.Ack(svc.SetApplicationStatus), ref, opts...),
		status:      app.Status,
	}
}

// ApplicationControls builds one control per application of the page's job.
func ApplicationControls(page *JobPage, svc service.JobBoardServiceInterface, opts ...asyncres.Option) []*ApplicationStatusControl {
	job := page.Job()
	if job == nil {
		return nil
	}
	controls := make([]*ApplicationStatusControl, 0, len(job.Applications))
	for _, app := range job.Applications {
		controls = append(controls, NewApplicationStatusControl(page.Actor(), svc, job, app, opts...))
	}
	return controls
}

// RefetchWith makes successful transitions reload the owning aggregate. By
// default only the card's own status changes.
func (c *ApplicationStatusControl) RefetchWith(r Refetcher) {
	c.mu.Lock()
	c.refetcher = r
	c.mu.Unlock()
}

func (c *ApplicationStatusControl) Ref() dto.ApplicationRef {
	return c.update.Bound()
}

func (c *ApplicationStatusControl) CanMutate() bool {
	return c.actor.ID != "" && c.actor.ID == c.recruiterID
}

func (c *ApplicationStatusControl) Status() model.ApplicationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Options lists every selectable target regardless of the current status.
func (c *ApplicationStatusControl) Options() []model.ApplicationStatus {
	return model.ApplicationStatuses()
}

func (c *ApplicationStatusControl) State() asyncres.State[struct{}] {
	return c.update.State()
}

// Transition moves the application to a new status. On failure the previous
// status stays and the error is kept on the control.
func (c *ApplicationStatusControl) Transition(ctx context.Context, to model.ApplicationStatus) error {
	log := logger.Named("application")
	ref := c.Ref()
	if !c.CanMutate() {
		log.Infow("ignoring status change from non-owner", "application", ref.ApplicationID, "actor", c.actor.ID)
		return apperror.NotOwner("only the job's recruiter can change application status")
	}
	from := c.Status()
	if err := CanTransition(from, to); err != nil {
		return err
	}

	if _, err := c.update.Invoke(ctx, to); err != nil {
		log.Warnw("application status update failed",
			"application", ref.ApplicationID, "from", from, "to", to, "error", err)
		return err
	}

	c.mu.Lock()
	c.status = to
	refetcher := c.refetcher
	c.mu.Unlock()
	log.Infow("application status changed", "application", ref.ApplicationID, "from", from, "to", to)

	if refetcher != nil {
		if err := refetcher.Refetch(ctx); err != nil {
			log.Warnw("job refetch after status change failed", "job", ref.JobID, "error", err)
		}
	}
	return nil
}
