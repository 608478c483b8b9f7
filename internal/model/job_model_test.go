package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJob_OwnedBy(t *testing.T) {
	job := Job{RecruiterID: "rec_1"}

	assert.True(t, job.OwnedBy(Actor{ID: "rec_1", Role: RoleRecruiter}))
	assert.False(t, job.OwnedBy(Actor{ID: "rec_2", Role: RoleRecruiter}))
	assert.False(t, (&Job{}).OwnedBy(Actor{}), "anonymous actor never owns an unowned job")
}

func TestJob_ApplicationFrom(t *testing.T) {
	job := Job{Applications: []Application{
		{ID: uuid.New(), CandidateID: "cand_1"},
		{ID: uuid.New(), CandidateID: "cand_2"},
	}}

	app, ok := job.ApplicationFrom("cand_2")
	assert.True(t, ok)
	assert.Equal(t, "cand_2", app.CandidateID)

	_, ok = job.ApplicationFrom("cand_3")
	assert.False(t, ok)
}

func TestSavedJob_Key(t *testing.T) {
	fk := uuid.New()
	snapshot := uuid.New()

	assert.Equal(t, fk, SavedJob{JobID: fk}.Key())
	assert.Equal(t, snapshot, SavedJob{JobID: fk, Job: &Job{ID: snapshot}}.Key())
}

func TestApplicationStatus_Valid(t *testing.T) {
	for _, s := range ApplicationStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ApplicationStatus("Closed").Valid())
}
