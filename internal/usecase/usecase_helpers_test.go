package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service/servicetest"
	"github.com/fadilmartias/job-board/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	recruiter      = model.Actor{ID: "rec_1", Role: model.RoleRecruiter, FullName: "Rina"}
	otherRecruiter = model.Actor{ID: "rec_2", Role: model.RoleRecruiter, FullName: "Bayu"}
	candidate      = model.Actor{ID: "cand_1", Role: model.RoleCandidate, FullName: "Dewi"}
	otherCandidate = model.Actor{ID: "cand_2", Role: model.RoleCandidate, FullName: "Andi"}
)

func seedJob(fake *servicetest.FakeJobBoard, open bool, apps ...model.Application) uuid.UUID {
	jobID := uuid.New()
	for i := range apps {
		if apps[i].ID == uuid.Nil {
			apps[i].ID = uuid.New()
		}
		apps[i].JobID = jobID
	}
	return fake.AddJob(model.Job{
		ID:           jobID,
		Title:        "Backend Engineer",
		RecruiterID:  recruiter.ID,
		Company:      &model.Company{ID: "c1", Name: "Acme"},
		Location:     "Jakarta",
		IsOpen:       open,
		Applications: apps,
		CreatedAt:    time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
}

func loadedPage(t *testing.T, fake *servicetest.FakeJobBoard, actor model.Actor, jobID uuid.UUID) *JobPage {
	t.Helper()
	page := NewJobPage(actor, fake, jobID)
	_, err := page.Load(context.Background())
	require.NoError(t, err)
	return page
}

func validForm() validation.ApplyForm {
	return validation.ApplyForm{
		Experience: "3",
		Skills:     "Go, PostgreSQL",
		Education:  "Graduate",
		Resume: &dto.ResumeFile{
			Filename:    "cv.pdf",
			ContentType: validation.ContentTypePDF,
			Content:     []byte("%PDF-1.7"),
		},
	}
}
