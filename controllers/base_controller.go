package controllers

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"lariogistic-backend/models"
	apimodels "lariogistic-backend/models/api"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Warn("error leyendo el cuerpo de la petición")
		return apperrors.ErrBadRequest.WithCause(err)
	}
	return nil
}

func (c *BaseAPIController) QueryParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.QueryParser(out); err != nil {
		log.WithError(err).Warn("error leyendo los parámetros de la petición")
		return apperrors.InvalidField("Parámetros de consulta inválidos").WithCause(err)
	}
	return nil
}

// GetID id numérico positivo del parámetro :id
func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidField("Identificador inválido")
	}
	return uint(id), nil
}

// Actor lo deja el middleware de autenticación
func (c *BaseAPIController) Actor(ctx *fiber.Ctx) models.Actor {
	actor, _ := authutils.GetActor(ctx)
	return actor
}

// SendError único punto que traduce errores a respuesta, los internos no se exponen
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, err error) error {
	return SendError(ctx, err)
}

func SendError(ctx *fiber.Ctx, err error) error {
	appErr := apperrors.From(err)
	status := apperrors.HTTPStatus(appErr)
	if status >= fiber.StatusInternalServerError {
		log.
			WithError(err).
			WithField("method", ctx.Method()).
			WithField("path", ctx.Path()).
			WithField("actor_id", authutils.GetActorID(ctx)).
			Error("error interno")
	}
	return ctx.Status(status).JSON(apimodels.NewError(appErr.Code, appErr.Message))
}

// ErrorHandler errores de fiber (ruta inexistente, cuerpo demasiado grande) con el mismo formato
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return SendError(ctx, err)
	}
	switch fiberErr.Code {
	case fiber.StatusNotFound:
		return SendError(ctx, apperrors.ErrRouteNotFound)
	case fiber.StatusTooManyRequests:
		return SendError(ctx, apperrors.ErrTooManyRequests)
	case fiber.StatusRequestEntityTooLarge:
		return SendError(ctx, apperrors.ErrFileTooLarge)
	case fiber.StatusUnauthorized:
		return SendError(ctx, apperrors.ErrInvalidToken)
	}
	code := "HTTPError"
	if fiberErr.Code >= fiber.StatusInternalServerError {
		code = apperrors.ErrInternal.Code
	}
	return ctx.Status(fiberErr.Code).JSON(apimodels.NewError(code, fiberErr.Message))
}

func (c *BaseAPIController) SendResponse(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(apimodels.NewResponse(data))
}

func (c *BaseAPIController) SendList(ctx *fiber.Ctx, data interface{}, rowCount int64) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(data, rowCount))
}
