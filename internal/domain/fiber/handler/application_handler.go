package handler

import (
	"io"
	"time"

	"github.com/fadilmartias/job-board/internal/dto"
	"github.com/fadilmartias/job-board/internal/logger"
	"github.com/fadilmartias/job-board/internal/middleware"
	"github.com/fadilmartias/job-board/internal/usecase"
	"github.com/fadilmartias/job-board/internal/util"
	"github.com/fadilmartias/job-board/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	serviceFor ServiceFor
	opts       ResourceOptions
	jobs       *JobHandler
}

func NewApplicationHandler(serviceFor ServiceFor, opts ResourceOptions) *ApplicationHandler {
	return &ApplicationHandler{
		serviceFor: serviceFor,
		opts:       opts,
		jobs:       NewJobHandler(serviceFor, opts),
	}
}

func (h *ApplicationHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/jobs/:id/applications", middleware.RateLimiter(1, 4*time.Second), middleware.Actor(), h.Apply)
	app.Patch("/jobs/:id/applications/:applicationId/status", middleware.Actor(), h.SetStatus)
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	form, err := h.applyForm(c)
	if err != nil || form == nil {
		return err
	}

	page, err := h.jobs.loadPage(c)
	if err != nil || page == nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	apply := usecase.NewApplyUsecase(actor, h.serviceFor(actor), page, h.opts...)
	apply.SetForm(*form)
	app, err := apply.Submit(c.UserContext())
	if err != nil {
		return util.WorkflowErrorResponse(c, "failed to submit application", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success submit application",
		Data:    fiber.Map{"application": app, "job": page.View()},
	})
}

// applyForm reads the multipart apply form. A missing resume is left nil so
// that validation reports it alongside the other fields.
func (h *ApplicationHandler) applyForm(c *fiber.Ctx) (*validation.ApplyForm, error) {
	form := &validation.ApplyForm{
		Experience: c.FormValue("experience"),
		Skills:     c.FormValue("skills"),
		Education:  c.FormValue("education"),
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return form, nil
	}
	if file.Size > util.MaxResumeSize {
		return nil, util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: "resume file size is too large (max 5MB)",
		})
	}

	f, err := file.Open()
	if err != nil {
		return nil, util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot read resume file",
		}, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot read resume file",
		}, err)
	}

	resume, err := util.NewResumeFile(file.Filename, file.Header.Get(fiber.HeaderContentType), content)
	if err != nil {
		return nil, util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: err.Error(),
		}, err)
	}
	logger.Named("http").Debugw("resume received",
		"filename", resume.Filename, "content_type", resume.ContentType, "size", len(content))
	form.Resume = resume
	return form, nil
}

func (h *ApplicationHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.UpdateApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "status is required",
		}, err)
	}
	appID, ok := uuidParam(c, "applicationId")
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid application id",
		})
	}

	page, err := h.jobs.loadPage(c)
	if err != nil || page == nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	var control *usecase.ApplicationStatusControl
	for _, ctl := range usecase.ApplicationControls(page, h.serviceFor(actor), h.opts...) {
		if ctl.Ref().ApplicationID == appID {
			control = ctl
			break
		}
	}
	if control == nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "application not found",
		})
	}

	if err := control.Transition(c.UserContext(), req.Status); err != nil {
		return util.WorkflowErrorResponse(c, "failed to update application status", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update application status",
		Data: fiber.Map{
			"application_id": appID,
			"status":         control.Status(),
		},
	})
}
