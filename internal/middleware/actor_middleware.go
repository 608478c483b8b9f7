package middleware

import (
	"strings"

	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/fadilmartias/job-board/internal/util"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderActorName = "X-Actor-Name"
	actorKey        = "actor"
)

// Actor reads the signed-in user forwarded by the identity layer. Requests
// without a complete identity are rejected.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := model.Actor{
			ID:       strings.TrimSpace(c.Get(service.HeaderActorID)),
			Role:     model.Role(strings.ToLower(strings.TrimSpace(c.Get(service.HeaderActorRole)))),
			FullName: strings.TrimSpace(c.Get(HeaderActorName)),
		}
		if actor.ID == "" || !actor.Role.Valid() {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Sign in to continue",
			})
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by Actor.
func ActorFrom(c *fiber.Ctx) model.Actor {
	actor, _ := c.Locals(actorKey).(model.Actor)
	return actor
}
