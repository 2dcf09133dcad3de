package middleware

import (
	"lariogistic-backend/controllers"
	"lariogistic-backend/lib/rbac"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func RbacMiddleware() fiber.Handler {
	return NewRbac(rbac.Instance)
}

// NewRbac primer filtro por ruta y rol, la decisión fina la toma lib/policy
func NewRbac(table rbac.Provider) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		actor, ok := authutils.GetActor(ctx)
		if !ok {
			return controllers.SendError(ctx, apperrors.ErrMissingToken)
		}
		handler, found := table.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}
		if !handler(actor, ctx.Path()) {
			log.
				WithField("actor_id", actor.ID).
				WithField("role", actor.Role).
				WithField("path", ctx.Path()).
				Info("acceso denegado por rbac")
			return controllers.SendError(ctx, apperrors.ErrForbidden)
		}
		return ctx.Next()
	}
}
