package controller

import (
	"ticket-marketplace-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func paramUUID(ctx *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("Invalid " + label)
	}
	return id, nil
}

// parseBody decodes and validates a JSON body into req.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
