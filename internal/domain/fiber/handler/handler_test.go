package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/fadilmartias/job-board/internal/service/servicetest"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var (
	recruiter = model.Actor{ID: "rec_1", Role: model.RoleRecruiter}
	candidate = model.Actor{ID: "cand_1", Role: model.RoleCandidate, FullName: "Dewi"}
)

func newTestApp(fake *servicetest.FakeJobBoard) *fiber.App {
	app := fiber.New()
	serviceFor := func(model.Actor) service.JobBoardServiceInterface { return fake }
	NewJobHandler(serviceFor, nil).RegisterRoutes(app)
	NewApplicationHandler(serviceFor, nil).RegisterRoutes(app)
	return app
}

func seed(fake *servicetest.FakeJobBoard, open bool, apps ...model.Application) uuid.UUID {
	jobID := uuid.New()
	for i := range apps {
		apps[i].ID = uuid.New()
		apps[i].JobID = jobID
	}
	return fake.AddJob(model.Job{
		ID:           jobID,
		Title:        "Backend Engineer",
		RecruiterID:  recruiter.ID,
		Location:     "Jakarta",
		IsOpen:       open,
		Applications: apps,
	})
}

func do(t *testing.T, app *fiber.App, req *http.Request, actor *model.Actor) (int, gjson.Result) {
	t.Helper()
	if actor != nil {
		req.Header.Set(service.HeaderActorID, actor.ID)
		req.Header.Set(service.HeaderActorRole, string(actor.Role))
		req.Header.Set("X-Actor-Name", actor.FullName)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(body)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func applyRequest(t *testing.T, jobID uuid.UUID, fields map[string]string, resumeType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if resumeType != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
		h.Set("Content-Type", resumeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.7 resume"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/jobs/%s/applications", jobID), &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestGetJob(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seed(fake, true)
	app := newTestApp(fake)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/jobs/"+jobID.String(), nil), &candidate)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Get("success").Bool())
	assert.Equal(t, "Apply", body.Get("data.apply.label").String())
	assert.True(t, body.Get("data.apply.enabled").Bool())
	assert.Equal(t, "Open", body.Get("data.hiring_label").String())
	assert.False(t, body.Get("data.can_manage").Bool())
}

func TestGetJob_Errors(t *testing.T) {
	app := newTestApp(servicetest.NewFakeJobBoard())

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil), &candidate)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil), &candidate)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "job not found", body.Get("details.error").String())
}

func TestListJobs(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	seed(fake, true)
	fake.AddJob(model.Job{Title: "Designer", Location: "Bandung"})
	app := newTestApp(fake)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/jobs?location=Bandung", nil), &candidate)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), body.Get("data.#").Int())
	assert.Equal(t, "Designer", body.Get("data.0.title").String())
	assert.Equal(t, int64(1), body.Get("pagination.total_items").Int())
}

func TestSetHiringStatus(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seed(fake, true)
	app := newTestApp(fake)
	target := "/jobs/" + jobID.String() + "/hiring-status"

	status, body := do(t, app, jsonRequest(http.MethodPatch, target, `{"is_open":false}`), &recruiter)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Closed", body.Get("data.hiring_label").String())
	assert.False(t, fake.Job(jobID).IsOpen)
	assert.Equal(t, 2, fake.Count(servicetest.OpFetchJob), "initial load plus one refetch")
}

func TestSetHiringStatus_Rejected(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seed(fake, true)
	app := newTestApp(fake)
	target := "/jobs/" + jobID.String() + "/hiring-status"

	status, _ := do(t, app, jsonRequest(http.MethodPatch, target, `{}`), &recruiter)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, jsonRequest(http.MethodPatch, target, `{"is_open":false}`), &candidate)
	assert.Equal(t, http.StatusForbidden, status)
	assert.True(t, fake.Job(jobID).IsOpen)
	assert.Zero(t, fake.Count(servicetest.OpSetJobHiringStatus))
}

func TestApply(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seed(fake, true)
	app := newTestApp(fake)

	req := applyRequest(t, jobID, map[string]string{
		"experience": "2",
		"skills":     "Go",
		"education":  "Graduate",
	}, "application/pdf")
	status, body := do(t, app, req, &candidate)
	require.Equal(t, http.StatusCreated, status, body.Raw)
	assert.Equal(t, "Applied", body.Get("data.application.status").String())
	assert.Equal(t, "Applied", body.Get("data.job.apply.label").String())

	payloads := fake.Payloads()
	require.Len(t, payloads, 1)
	assert.Equal(t, "Dewi", payloads[0].Name)
	assert.Equal(t, 2, payloads[0].Experience)
	assert.Equal(t, "application/pdf", payloads[0].Resume.ContentType)
}

func TestApply_ValidationErrors(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seed(fake, true)
	app := newTestApp(fake)

	req := applyRequest(t, jobID, map[string]string{
		"experience": "-1",
		"education":  "PhD",
	}, "image/png")
	status, body := do(t, app, req, &candidate)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Experience must be a number", body.Get("details.experience").String())
	assert.Equal(t, "Skills are required", body.Get("details.skills").String())
	assert.Equal(t, "Education is required", body.Get("details.education").String())
	assert.Equal(t, "Resume must be in PDF or Word format", body.Get("details.resume").String())
	assert.Zero(t, fake.Count(servicetest.OpCreateApplication))
}

func TestApply_ClosedJob(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seed(fake, false)
	app := newTestApp(fake)

	req := applyRequest(t, jobID, map[string]string{
		"experience": "2", "skills": "Go", "education": "Graduate",
	}, "application/pdf")
	status, _ := do(t, app, req, &candidate)
	assert.Equal(t, http.StatusConflict, status)
	assert.Zero(t, fake.Count(servicetest.OpCreateApplication))
}

func TestSetApplicationStatus(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := seed(fake, true, model.Application{CandidateID: candidate.ID, Status: model.ApplicationStatusApplied})
	appID := fake.Job(jobID).Applications[0].ID
	app := newTestApp(fake)
	target := fmt.Sprintf("/jobs/%s/applications/%s/status", jobID, appID)

	status, body := do(t, app, jsonRequest(http.MethodPatch, target, `{"status":"Group Discussion"}`), &recruiter)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Group Discussion", body.Get("data.status").String())

	status, _ = do(t, app, jsonRequest(http.MethodPatch, target, `{"status":"Ghosted"}`), &recruiter)
	assert.Equal(t, http.StatusBadRequest, status)

	missing := fmt.Sprintf("/jobs/%s/applications/%s/status", jobID, uuid.New())
	status, _ = do(t, app, jsonRequest(http.MethodPatch, missing, `{"status":"Hired"}`), &recruiter)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, jsonRequest(http.MethodPatch, target, `{"status":"Hired"}`), &candidate)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, 1, fake.Count(servicetest.OpSetApplicationStatus))
}

func TestSavedJobs(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	jobID := uuid.New()
	fake.SetSavedJobs(candidate.ID, []model.SavedJob{
		{ID: uuid.New(), JobID: jobID, Job: &model.Job{ID: jobID, Title: "first"}},
		{ID: uuid.New(), JobID: jobID, Job: &model.Job{ID: jobID, Title: "second"}},
	})
	app := newTestApp(fake)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/saved-jobs", nil), &candidate)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), body.Get("data.#").Int())
	assert.Equal(t, "first", body.Get("data.0.job.title").String())

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/saved-jobs", nil), &recruiter)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestMyJobs(t *testing.T) {
	fake := servicetest.NewFakeJobBoard()
	seed(fake, true, model.Application{CandidateID: candidate.ID, Status: model.ApplicationStatusInterviewing})
	app := newTestApp(fake)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/my-jobs", nil), &recruiter)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "My Jobs", body.Get("data.title").String())
	assert.Equal(t, int64(1), body.Get("data.jobs.#").Int())

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/my-jobs", nil), &candidate)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "My Applications", body.Get("data.title").String())
	assert.Equal(t, "Interviewing", body.Get("data.applications.0.status").String())
}
