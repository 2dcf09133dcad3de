package middleware

import (
	"lariogistic-backend/config"
	"lariogistic-backend/controllers"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	authapimodels "lariogistic-backend/models/api/auth"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	log "github.com/sirupsen/logrus"
)

type RateLimit struct {
	Name        string
	Max         int
	Window      time.Duration
	AdminExempt bool
	ByEmail     bool // clave por correo del cuerpo, si no hay por ip
}

// NewRateLimit contadores en memoria del proceso
func NewRateLimit(rl RateLimit) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rl.Max,
		Expiration: rl.Window,
		Next: func(ctx *fiber.Ctx) bool {
			if !rl.AdminExempt {
				return false
			}
			actor, ok := authutils.GetActor(ctx)
			return ok && actor.IsAdmin()
		},
		KeyGenerator: func(ctx *fiber.Ctx) string {
			if rl.ByEmail {
				payload := authapimodels.LoginRequest{}
				if err := ctx.BodyParser(&payload); err == nil && strings.TrimSpace(payload.Email) != "" {
					return rl.Name + ":" + payload.NormalizedEmail()
				}
			}
			return rl.Name + ":" + ctx.IP()
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			log.
				WithField("limit", rl.Name).
				WithField("ip", ctx.IP()).
				WithField("actor_id", authutils.GetActorID(ctx)).
				Warn("límite de peticiones alcanzado")
			return controllers.SendError(ctx, apperrors.ErrTooManyRequests)
		},
	})
}

func LoginLimiter() fiber.Handler {
	return NewRateLimit(RateLimit{Name: "login", Max: config.Conf.RateLimit.Login, Window: config.Conf.RateLimit.Window, ByEmail: true})
}

func RefreshLimiter() fiber.Handler {
	return NewRateLimit(RateLimit{Name: "refresh", Max: config.Conf.RateLimit.Refresh, Window: config.Conf.RateLimit.Window})
}

func UpdateLimiter() fiber.Handler {
	return NewRateLimit(RateLimit{Name: "update", Max: config.Conf.RateLimit.Update, Window: config.Conf.RateLimit.Window, AdminExempt: true})
}

func PasswordChangeLimiter() fiber.Handler {
	return NewRateLimit(RateLimit{Name: "password", Max: config.Conf.RateLimit.PasswordChange, Window: config.Conf.RateLimit.Window, AdminExempt: true})
}

func CreateLimiter() fiber.Handler {
	return NewRateLimit(RateLimit{Name: "create", Max: config.Conf.RateLimit.Create, Window: config.Conf.RateLimit.Window})
}

func DeleteLimiter() fiber.Handler {
	return NewRateLimit(RateLimit{Name: "delete", Max: config.Conf.RateLimit.Delete, Window: config.Conf.RateLimit.Window})
}

func ApiLimiter() fiber.Handler {
	return NewRateLimit(RateLimit{Name: "api", Max: config.Conf.RateLimit.Api, Window: config.Conf.RateLimit.Window, AdminExempt: true})
}
