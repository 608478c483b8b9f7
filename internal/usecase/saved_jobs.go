package usecase

import (
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/google/uuid"
)

// ReconcileSavedJobs keeps the first record for each job, in input order.
func ReconcileSavedJobs(saved []model.SavedJob) []model.SavedJob {
	seen := make(map[uuid.UUID]struct{}, len(saved))
	out := make([]model.SavedJob, 0, len(saved))
	for _, s := range saved {
		key := s.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
