package usecase

import (
	"context"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/asyncres"
	"github.com/fadilmartias/job-board/internal/logger"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/google/uuid"
)

// HiringControl toggles a job between Open and Closed.
type HiringControl struct {
	actor  model.Actor
	page   *JobPage
	update *asyncres.Resource[uuid.UUID, bool, struct{}]
}

func NewHiringControl(actor model.Actor, svc service.JobBoardServiceInterface, page *JobPage, opts ...asyncres.Option) *HiringControl {
	opts = append([]asyncres.Option{asyncres.WithName("hiring-status")}, opts...)
	return &HiringControl{
		actor:  actor,
		page:   page,
		update: asyncres.New(asyncres.Ack(svc.SetJobHiringStatus), page.JobID(), opts...),
	}
}

// CanMutate reports whether the control should be offered at all. The data
// service checks ownership again.
func (h *HiringControl) CanMutate() bool {
	job := h.page.Job()
	return job != nil && job.OwnedBy(h.actor)
}

// Toggle sets the hiring status and, once acknowledged, refetches the whole
// job so applicant counts and apply eligibility follow the server. A failed
// refetch is left on the page's own state.
func (h *HiringControl) Toggle(ctx context.Context, open bool) error {
	log := logger.Named("hiring")
	if !h.CanMutate() {
		log.Infow("ignoring hiring toggle from non-owner", "job", h.page.JobID(), "actor", h.actor.ID)
		return apperror.NotOwner("only the job's recruiter can change its hiring status")
	}

	if _, err := h.update.Invoke(ctx, open); err != nil {
		log.Warnw("hiring status update failed", "job", h.page.JobID(), "open", open, "error", err)
		return err
	}
	h.page.setOpen(open)
	log.Infow("hiring status changed", "job", h.page.JobID(), "open", open)

	if err := h.page.Refetch(ctx); err != nil {
		log.Warnw("job refetch after hiring change failed", "job", h.page.JobID(), "error", err)
	}
	return nil
}

func (h *HiringControl) State() asyncres.State[struct{}] {
	return h.update.State()
}
