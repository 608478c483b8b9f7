package service

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/fadilmartias/job-board/internal/apperror"
	"github.com/fadilmartias/job-board/internal/config"
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/logger"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// JobBoardServiceInterface is the remote data service as seen by the
// workflow engine. The service is the authority for every rule the client
// checks; the client's own checks only decide what to offer.
type JobBoardServiceInterface interface {
	FetchJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error)
	FetchJobs(ctx context.Context, filter dto.JobFilter) ([]model.Job, error)
	FetchSavedJobs(ctx context.Context, candidateID string) ([]model.SavedJob, error)
	FetchMyJobs(ctx context.Context, recruiterID string) ([]model.Job, error)
	FetchMyApplications(ctx context.Context, candidateID string) ([]model.Application, error)
	SetJobHiringStatus(ctx context.Context, jobID uuid.UUID, isOpen bool) error
	SetApplicationStatus(ctx context.Context, ref dto.ApplicationRef, status model.ApplicationStatus) error
	CreateApplication(ctx context.Context, payload dto.ApplicationPayload) (*model.Application, error)
}

const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

type JobBoardService struct {
	client *resty.Client
	actor  model.Actor
}

func NewJobBoardService() *JobBoardService {
	return NewJobBoardServiceWithConfig(config.LoadDataServiceConfig())
}

func NewJobBoardServiceWithConfig(cfg *config.DataServiceConfig) *JobBoardService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	if cfg.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), int(math.Max(1, math.Ceil(cfg.RateLimit))))
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return limiter.Wait(r.Context())
		})
	}
	return &JobBoardService{client: client}
}

// WithActor returns a service that forwards the actor's identity on every
// request so the data service can enforce ownership.
func (s *JobBoardService) WithActor(actor model.Actor) *JobBoardService {
	return &JobBoardService{client: s.client, actor: actor}
}

func (s *JobBoardService) request(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if s.actor.ID != "" {
		req.SetHeader(HeaderActorID, s.actor.ID)
		req.SetHeader(HeaderActorRole, string(s.actor.Role))
	}
	return req
}

// envelope unwraps the {success, message, data} response of op and turns
// every failure into a RemoteCallError. It takes a request's results directly:
//
//	data, err := envelope(op)(s.request(ctx).Get("/jobs"))
func envelope(op string) func(*resty.Response, error) (gjson.Result, error) {
	return func(resp *resty.Response, err error) (gjson.Result, error) {
		return unwrapEnvelope(op, resp, err)
	}
}

func unwrapEnvelope(op string, resp *resty.Response, err error) (gjson.Result, error) {
	if err != nil {
		logger.Named("jobboard").Warnw("remote call failed", "op", op, "error", err)
		return gjson.Result{}, apperror.NewRemoteCallError(op, 0, "", err)
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "message").String()
		logger.Named("jobboard").Warnw("remote call rejected",
			"op", op, "status", resp.StatusCode(), "message", msg)
		return gjson.Result{}, apperror.NewRemoteCallError(op, resp.StatusCode(), msg, nil)
	}
	if body == "" {
		return gjson.Result{}, nil
	}
	if !gjson.Valid(body) {
		return gjson.Result{}, apperror.NewRemoteCallError(op, resp.StatusCode(), "malformed response", nil)
	}
	if ok := gjson.Get(body, "success"); ok.Exists() && !ok.Bool() {
		msg := gjson.Get(body, "message").String()
		return gjson.Result{}, apperror.NewRemoteCallError(op, resp.StatusCode(), msg, nil)
	}
	return gjson.Get(body, "data"), nil
}

func decode[T any](op string, data gjson.Result) (T, error) {
	var out T
	if !data.Exists() || data.Type == gjson.Null {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data.Raw), &out); err != nil {
		return out, apperror.NewRemoteCallError(op, 0, "malformed response", err)
	}
	return out, nil
}

func (s *JobBoardService) FetchJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	const op = "fetchJob"
	data, err := envelope(op)(s.request(ctx).
		SetPathParam("id", jobID.String()).
		Get("/jobs/{id}"))
	if err != nil {
		return nil, err
	}
	job, err := decode[*model.Job](op, data)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewRemoteCallError(op, 404, "job not found", nil)
	}
	return job, nil
}

func (s *JobBoardService) FetchJobs(ctx context.Context, filter dto.JobFilter) ([]model.Job, error) {
	const op = "fetchJobs"
	params := map[string]string{}
	if filter.Location != "" {
		params["location"] = filter.Location
	}
	if filter.CompanyID != "" {
		params["company_id"] = filter.CompanyID
	}
	if filter.Search != "" {
		params["search"] = filter.Search
	}
	data, err := envelope(op)(s.request(ctx).SetQueryParams(params).Get("/jobs"))
	if err != nil {
		return nil, err
	}
	return decode[[]model.Job](op, data)
}

func (s *JobBoardService) FetchSavedJobs(ctx context.Context, candidateID string) ([]model.SavedJob, error) {
	const op = "fetchSavedJobs"
	data, err := envelope(op)(s.request(ctx).
		SetPathParam("id", candidateID).
		Get("/candidates/{id}/saved-jobs"))
	if err != nil {
		return nil, err
	}
	return decode[[]model.SavedJob](op, data)
}

func (s *JobBoardService) FetchMyApplications(ctx context.Context, candidateID string) ([]model.Application, error) {
	const op = "fetchMyApplications"
	data, err := envelope(op)(s.request(ctx).
		SetPathParam("id", candidateID).
		Get("/candidates/{id}/applications"))
	if err != nil {
		return nil, err
	}
	return decode[[]model.Application](op, data)
}

func (s *JobBoardService) FetchMyJobs(ctx context.Context, recruiterID string) ([]model.Job, error) {
	const op = "fetchMyJobs"
	data, err := envelope(op)(s.request(ctx).
		SetPathParam("id", recruiterID).
		Get("/recruiters/{id}/jobs"))
	if err != nil {
		return nil, err
	}
	return decode[[]model.Job](op, data)
}

func (s *JobBoardService) SetJobHiringStatus(ctx context.Context, jobID uuid.UUID, isOpen bool) error {
	_, err := envelope("setJobHiringStatus")(s.request(ctx).
		SetPathParam("id", jobID.String()).
		SetBody(map[string]bool{"isOpen": isOpen}).
		Patch("/jobs/{id}"))
	return err
}

func (s *JobBoardService) SetApplicationStatus(ctx context.Context, ref dto.ApplicationRef, status model.ApplicationStatus) error {
	_, err := envelope("setApplicationStatus")(s.request(ctx).
		SetPathParams(map[string]string{
			"jobId": ref.JobID.String(),
			"id":    ref.ApplicationID.String(),
		}).
		SetBody(dto.UpdateApplicationStatusRequest{Status: status}).
		Patch("/jobs/{jobId}/applications/{id}"))
	return err
}

func (s *JobBoardService) CreateApplication(ctx context.Context, payload dto.ApplicationPayload) (*model.Application, error) {
	const op = "createApplication"
	data, err := envelope(op)(s.request(ctx).
		SetPathParam("id", payload.JobID.String()).
		SetMultipartFormData(map[string]string{
			"job_id":       payload.JobID.String(),
			"candidate_id": payload.CandidateID,
			"name":         payload.Name,
			"experience":   strconv.Itoa(payload.Experience),
			"skills":       payload.Skills,
			"education":    string(payload.Education),
			"status":       string(payload.Status),
		}).
		SetMultipartField("resume", payload.Resume.Filename, payload.Resume.ContentType,
			bytes.NewReader(payload.Resume.Content)).
		Post("/jobs/{id}/applications"))
	if err != nil {
		return nil, err
	}
	return decode[*model.Application](op, data)
}
