package usecase

import (
	"context"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
)

// MyJobs is the role-dependent "my jobs" screen. Exactly one of Jobs and
// Applications is set.
type MyJobs struct {
	Title        string              `json:"title"`
	Jobs         []model.Job         `json:"jobs,omitempty"`
	Applications []model.Application `json:"applications,omitempty"`
}

type ListingUsecase struct {
	svc service.JobBoardServiceInterface
}

func NewListingUsecase(svc service.JobBoardServiceInterface) *ListingUsecase {
	return &ListingUsecase{svc: svc}
}

func (u *ListingUsecase) Jobs(ctx context.Context, filter dto.JobFilter) ([]model.Job, error) {
	return u.svc.FetchJobs(ctx, filter)
}

// SavedJobs returns the candidate's saved jobs with duplicates removed.
func (u *ListingUsecase) SavedJobs(ctx context.Context, actor model.Actor) ([]dto.SavedJobDTO, error) {
	if !actor.IsCandidate() {
		return nil, apperror.NotOwner("only candidates have saved jobs")
	}
	saved, err := u.svc.FetchSavedJobs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	saved = ReconcileSavedJobs(saved)
	out := make([]dto.SavedJobDTO, 0, len(saved))
	for _, s := range saved {
		out = append(out, dto.SavedJobDTO{JobID: s.Key(), Job: s.Job})
	}
	return out, nil
}

func (u *ListingUsecase) MyJobs(ctx context.Context, actor model.Actor) (*MyJobs, error) {
	switch actor.Role {
	case model.RoleCandidate:
		apps, err := u.svc.FetchMyApplications(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return &MyJobs{Title: "My Applications", Applications: apps}, nil
	case model.RoleRecruiter:
		jobs, err := u.svc.FetchMyJobs(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return &MyJobs{Title: "My Jobs", Jobs: jobs}, nil
	default:
		return nil, apperror.Wrapf(apperror.ErrInvalidInput, "unknown role %q", actor.Role)
	}
}
