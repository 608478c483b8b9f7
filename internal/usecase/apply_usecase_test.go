package usecase

import (
	"context"
	"testing"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service/servicetest"
	"github.com/fadilmartias/job-board/internal/util"
	"github.com/fadilmartias/job-board/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanApply(t *testing.T) {
	job := &model.Job{IsOpen: true, Applications: []model.Application{{CandidateID: otherCandidate.ID}}}
	assert.True(t, CanApply(job, candidate))
	assert.False(t, CanApply(job, otherCandidate))
	assert.False(t, CanApply(nil, candidate))
	assert.False(t, CanApply(job, model.Actor{}))

	job.IsOpen = false
	assert.False(t, CanApply(job, candidate))
}

func TestApplyUsecase_Submit(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seedJob(fake, true)
	page := loadedPage(t, fake, candidate, jobID)
	apply := NewApplyUsecase(candidate, fake, page)
	require.True(t, apply.Enabled())
	apply.SetForm(validForm())

	// Every step must observe the previous one settled and the form still
	// filled until the refetch is done.
	var steps []string
	fake.OnCall = func(op string) {
		assert.Equal(t, "Go, PostgreSQL", apply.Form().Skills, "form reset before %s", op)
		steps = append(steps, op)
	}

	app, err := apply.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{servicetest.OpCreateApplication, servicetest.OpFetchJob}, steps)
	assert.Equal(t, model.ApplicationStatusApplied, app.Status)
	assert.Equal(t, validation.ApplyForm{}, apply.Form(), "form is reset after success")

	payloads := fake.Payloads()
	require.Len(t, payloads, 1)
	assert.Equal(t, dto.ApplicationPayload{
		JobID:       jobID,
		CandidateID: candidate.ID,
		Name:        candidate.FullName,
		Experience:  3,
		Skills:      "Go, PostgreSQL",
		Education:   model.EducationGraduate,
		Status:      model.ApplicationStatusApplied,
		Resume:      *validForm().Resume,
	}, payloads[0])

	// The new application arrives through the refetch, not a local append.
	view := page.View()
	assert.Equal(t, 1, view.ApplicantCount)
	assert.Equal(t, "Applied", view.Apply.Label)
	assert.False(t, apply.Enabled())
}

func TestApplyUsecase_ClosedJobNeverCallsCreate(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seedJob(fake, false)
	apply := NewApplyUsecase(candidate, fake, loadedPage(t, fake, candidate, jobID))
	apply.SetForm(validForm())
	assert.False(t, apply.Enabled())

	_, err := apply.Submit(context.Background())
	assert.True(t, apperror.Is(err, apperror.ErrPreconditionViolation))
	assert.Zero(t, fake.Count(servicetest.OpCreateApplication))
	assert.Equal(t, validForm(), apply.Form())
}

func TestApplyUsecase_AlreadyAppliedIsDisabled(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seedJob(fake, true,
		model.Application{CandidateID: candidate.ID, Status: model.ApplicationStatusApplied})
	apply := NewApplyUsecase(candidate, fake, loadedPage(t, fake, candidate, jobID))
	apply.SetForm(validForm())

	assert.False(t, apply.Enabled())
	_, err := apply.Submit(context.Background())
	assert.True(t, apperror.Is(err, apperror.ErrPreconditionViolation))
	assert.Zero(t, fake.Count(servicetest.OpCreateApplication))
}

func TestApplyUsecase_OwnerCannotApply(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seedJob(fake, true)
	apply := NewApplyUsecase(recruiter, fake, loadedPage(t, fake, recruiter, jobID))
	assert.False(t, apply.Enabled())
}

func TestApplyUsecase_ValidationFailure(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seedJob(fake, true)
	apply := NewApplyUsecase(candidate, fake, loadedPage(t, fake, candidate, jobID))

	form := validForm()
	form.Experience = "abc"
	form.Education = "PhD"
	apply.SetForm(form)

	_, err := apply.Submit(context.Background())
	var formErr *util.FormError
	require.True(t, apperror.As(err, &formErr))
	assert.Equal(t, map[string]string{
		"experience": "Experience must be a number",
		"education":  "Education is required",
	}, formErr.Errors)
	assert.Zero(t, fake.Count(servicetest.OpCreateApplication))
	assert.Equal(t, form, apply.Form(), "entered values are kept")
}

func TestApplyUsecase_RemoteFailureKeepsForm(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seedJob(fake, true)
	page := loadedPage(t, fake, candidate, jobID)
	apply := NewApplyUsecase(candidate, fake, page)
	apply.SetForm(validForm())

	fake.FailWith(servicetest.OpCreateApplication,
		apperror.NewRemoteCallError(servicetest.OpCreateApplication, 500, "upload failed", nil))
	_, err := apply.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "upload failed", apperror.Info(err).Message)
	assert.Equal(t, validForm(), apply.Form())
	assert.Equal(t, 1, fake.Count(servicetest.OpFetchJob), "no refetch after a failed create")
	require.NotNil(t, apply.State().Error)

	// The same drawer can resubmit.
	fake.FailWith(servicetest.OpCreateApplication, nil)
	_, err = apply.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, apply.State().Error)
}

func TestApplyUsecase_ServerStillEnforcesClosedJob(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seedJob(fake, true)
	apply := NewApplyUsecase(candidate, fake, loadedPage(t, fake, candidate, jobID))
	apply.SetForm(validForm())

	// Closed by the recruiter after the candidate loaded the page.
	require.NoError(t, fake.SetJobHiringStatus(context.Background(), jobID, false))

	_, err := apply.Submit(context.Background())
	assert.True(t, apperror.Is(err, apperror.ErrConflict))
	assert.Equal(t, validForm(), apply.Form())
}
