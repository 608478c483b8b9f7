package usecase

import (
	"context"
	"sync"

	"github.com/fadilmartias/job-board/internal/asyncres"
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/google/uuid"
)

const deadlineLayout = "2 Jan 2006"

// Refetcher re-reads an aggregate from the data service after a write.
type Refetcher interface {
	Refetch(ctx context.Context) error
}

// JobPage owns the job aggregate shown on a job screen. Every workflow on the
// page refetches it after a successful write instead of patching it locally.
type JobPage struct {
	actor model.Actor
	job   *asyncres.Resource[uuid.UUID, struct{}, *model.Job]

	mu     sync.Mutex
	isOpen *bool
}

func NewJobPage(actor model.Actor, svc service.JobBoardServiceInterface, jobID uuid.UUID, opts ...asyncres.Option) *JobPage {
	fetch := func(ctx context.Context, id uuid.UUID, _ struct{}) (*model.Job, error) {
		return svc.FetchJob(ctx, id)
	}
	opts = append([]asyncres.Option{asyncres.WithName("job")}, opts...)
	return &JobPage{
		actor: actor,
		job:   asyncres.New(fetch, jobID, opts...),
	}
}

func (p *JobPage) JobID() uuid.UUID {
	return p.job.Bound()
}

func (p *JobPage) Actor() model.Actor {
	return p.actor
}

// Load fetches the job and syncs the local hiring flag with it.
func (p *JobPage) Load(ctx context.Context) (*model.Job, error) {
	job, err := p.job.Invoke(ctx, struct{}{})
	if err != nil {
		return nil, err
	}
	if current := p.Job(); current != nil {
		p.setOpen(current.IsOpen)
	}
	return job, nil
}

func (p *JobPage) Refetch(ctx context.Context) error {
	_, err := p.Load(ctx)
	return err
}

// Job returns the latest job snapshot, or nil before the first successful load.
func (p *JobPage) Job() *model.Job {
	job, ok := p.job.Data()
	if !ok {
		return nil
	}
	return job
}

func (p *JobPage) State() asyncres.State[*model.Job] {
	return p.job.State()
}

// IsOpen is the hiring flag as the page shows it: the last acknowledged
// toggle, or the job's own flag after a load.
func (p *JobPage) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isOpen != nil {
		return *p.isOpen
	}
	if job := p.Job(); job != nil {
		return job.IsOpen
	}
	return false
}

func (p *JobPage) setOpen(open bool) {
	p.mu.Lock()
	p.isOpen = &open
	p.mu.Unlock()
}

// View derives what the current actor sees on the job screen.
func (p *JobPage) View() dto.JobViewDTO {
	st := p.job.State()
	view := dto.JobViewDTO{}
	if st.Error != nil {
		view.Error = st.Error.Message
	}
	job := st.Data
	if job == nil {
		return view
	}

	view.Job = job
	view.ApplicantCount = len(job.Applications)
	view.DeadlineLabel = "Open until filled"
	if job.Deadline != nil {
		view.DeadlineLabel = job.Deadline.Format(deadlineLayout)
	}
	view.HiringLabel = "Closed"
	if p.IsOpen() {
		view.HiringLabel = "Open"
	}
	view.CanManage = job.OwnedBy(p.actor)
	view.Apply = applyControl(p.IsOpen(), job, p.actor)

	if view.CanManage {
		view.Applications = job.Applications
		for _, s := range model.ApplicationStatuses() {
			view.StatusOptions = append(view.StatusOptions, string(s))
		}
	} else if app, ok := job.ApplicationFrom(p.actor.ID); ok {
		view.MyApplication = app
	}
	return view
}

func applyControl(open bool, job *model.Job, actor model.Actor) dto.ApplyControl {
	_, applied := job.ApplicationFrom(actor.ID)
	ctl := dto.ApplyControl{
		Visible: !job.OwnedBy(actor),
		Enabled: canApply(open, job, actor),
		Label:   "Apply",
	}
	switch {
	case !open:
		ctl.Label = "Hiring Closed"
	case applied:
		ctl.Label = "Applied"
	}
	return ctl
}
