package apiv1

import (
	"lariogistic-backend/controllers"
	historyhandler "lariogistic-backend/lib/history"
	"lariogistic-backend/middleware"
	historyapimodels "lariogistic-backend/models/api/history"

	"github.com/gofiber/fiber/v2"
)

type historyApiController struct {
	controllers.BaseAPIController
}

func InitHistoryApiRouters(app fiber.Router) {
	controller := historyApiController{}
	app.Route("historial", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get("export", controller.export)
		router.Post("", middleware.CreateLimiter(), controller.create)
		router.Get(":id", controller.get)
		router.Put(":id", middleware.UpdateLimiter(), controller.update)
		router.Delete(":id", middleware.DeleteLimiter(), controller.delete)
	})
}

// @Summary Historial de acciones
// @Tags Historial
// @Description Manager ve las acciones de su departamento
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	page				query		int		false	"página"
// @Param	limit				query		int		false	"registros por página"
// @Param	user_id				query		int		false	"usuario"
// @Param	tramite_id			query		int		false	"trámite"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]historyapimodels.HistoryView}
// @Failure 403 {object} apimodels.Response
// @router /api/v1/historial [get]
func (c *historyApiController) list(ctx *fiber.Ctx) error {
	var filter historyapimodels.ListFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return c.SendError(ctx, err)
	}
	list, rowCount, err := historyhandler.Instance.List(c.Actor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, rowCount)
}

// @Summary Exportar historial a Excel
// @Tags Historial
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	user_id				query		int		false	"usuario"
// @Param	tramite_id			query		int		false	"trámite"
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} apimodels.Response
// @router /api/v1/historial/export [get]
func (c *historyApiController) export(ctx *fiber.Ctx) error {
	var filter historyapimodels.ListFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return c.SendError(ctx, err)
	}
	data, err := historyhandler.Instance.Export(c.Actor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename=\"historial.xlsx\"")
	return ctx.SendStream(data)
}

// @Summary Registrar acción manual
// @Tags Historial
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body	body	historyapimodels.HistoryData	true	"request body"
// @Success 201 {object} apimodels.Response{data=int}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @router /api/v1/historial [post]
func (c *historyApiController) create(ctx *fiber.Ctx) error {
	var payload historyapimodels.HistoryData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	id, err := historyhandler.Instance.Create(c.Actor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusCreated, id)
}

// @Summary Registro del historial por id
// @Tags Historial
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=historyapimodels.HistoryView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/historial/{id} [get]
func (c *historyApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := historyhandler.Instance.Get(c.Actor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Actualizar registro del historial
// @Tags Historial
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Param	body	body	historyapimodels.HistoryUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/historial/{id} [put]
func (c *historyApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload historyapimodels.HistoryUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err = payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	if err = historyhandler.Instance.Update(c.Actor(ctx), id, payload); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}

// @Summary Eliminar registro del historial
// @Tags Historial
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/historial/{id} [delete]
func (c *historyApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = historyhandler.Instance.Delete(c.Actor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}
