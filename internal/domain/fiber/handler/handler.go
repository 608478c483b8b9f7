package handler

import (
	"github.com/fadilmartias/job-board/internal/asyncres"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ServiceFor returns a data service client acting on behalf of actor.
type ServiceFor func(actor model.Actor) service.JobBoardServiceInterface

// ResourceOptions are applied to every async resource a handler builds.
type ResourceOptions []asyncres.Option

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
