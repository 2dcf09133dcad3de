package authutils

import (
	"lariogistic-backend/models"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

func SetActor(ctx *fiber.Ctx, actor models.Actor) {
	ctx.Locals(actorKey, actor)
}

func GetActor(ctx *fiber.Ctx) (models.Actor, bool) {
	actor, ok := ctx.Locals(actorKey).(models.Actor)
	return actor, ok
}

func GetActorID(ctx *fiber.Ctx) uint {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0
	}
	return actor.ID
}
