package handler

import (
	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/middleware"
	"github.com/fadilmartias/job-board/internal/response"
	"github.com/fadilmartias/job-board/internal/usecase"
	"github.com/fadilmartias/job-board/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	serviceFor ServiceFor
	opts       ResourceOptions
}

func NewJobHandler(serviceFor ServiceFor, opts ResourceOptions) *JobHandler {
	return &JobHandler{serviceFor: serviceFor, opts: opts}
}

func (h *JobHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/jobs", middleware.Actor(), h.List)
	app.Get("/jobs/:id", middleware.Actor(), h.Get)
	app.Patch("/jobs/:id/hiring-status", middleware.Actor(), h.SetHiringStatus)
	app.Get("/saved-jobs", middleware.Actor(), h.SavedJobs)
	app.Get("/my-jobs", middleware.Actor(), h.MyJobs)
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	var filter dto.JobFilter
	if err := c.QueryParser(&filter); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid filter",
		}, err)
	}

	actor := middleware.ActorFrom(c)
	jobs, err := usecase.NewListingUsecase(h.serviceFor(actor)).Jobs(c.UserContext(), filter)
	if err != nil {
		return util.WorkflowErrorResponse(c, "failed to load jobs", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get jobs",
		Data:       jobs,
		Pagination: response.SinglePage(len(jobs)),
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	page, err := h.loadPage(c)
	if err != nil || page == nil {
		return err
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    page.View(),
	})
}

func (h *JobHandler) SetHiringStatus(c *fiber.Ctx) error {
	var req dto.UpdateHiringStatusRequest
	if err := c.BodyParser(&req); err != nil || req.IsOpen == nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "is_open is required",
		}, err)
	}

	page, err := h.loadPage(c)
	if err != nil || page == nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	hiring := usecase.NewHiringControl(actor, h.serviceFor(actor), page, h.opts...)
	if err := hiring.Toggle(c.UserContext(), *req.IsOpen); err != nil {
		return util.WorkflowErrorResponse(c, "failed to update hiring status", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update hiring status",
		Data:    page.View(),
	})
}

func (h *JobHandler) SavedJobs(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	saved, err := usecase.NewListingUsecase(h.serviceFor(actor)).SavedJobs(c.UserContext(), actor)
	if err != nil {
		return util.WorkflowErrorResponse(c, "failed to load saved jobs", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get saved jobs",
		Data:       saved,
		Pagination: response.SinglePage(len(saved)),
	})
}

func (h *JobHandler) MyJobs(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	mine, err := usecase.NewListingUsecase(h.serviceFor(actor)).MyJobs(c.UserContext(), actor)
	if err != nil {
		return util.WorkflowErrorResponse(c, "failed to load my jobs", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get " + mine.Title,
		Data:    mine,
	})
}

// loadPage loads the job named by :id. When it returns a nil page the error
// response has already been written.
func (h *JobHandler) loadPage(c *fiber.Ctx) (*usecase.JobPage, error) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return nil, util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid job id",
		})
	}
	actor := middleware.ActorFrom(c)
	page := usecase.NewJobPage(actor, h.serviceFor(actor), jobID, h.opts...)
	if _, err := page.Load(c.UserContext()); err != nil {
		return nil, util.WorkflowErrorResponse(c, "failed to load job", err)
	}
	return page, nil
}
