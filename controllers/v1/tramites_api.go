package apiv1

import (
	"fmt"
	"lariogistic-backend/controllers"
	tramiteshandler "lariogistic-backend/lib/tramites"
	"lariogistic-backend/middleware"
	tramiteapimodels "lariogistic-backend/models/api/tramites"

	"github.com/gofiber/fiber/v2"
)

type tramitesApiController struct {
	controllers.BaseAPIController
}

func InitTramitesApiRouters(app fiber.Router) {
	controller := tramitesApiController{}
	app.Route("tramites", func(router fiber.Router) {
		router.Get("tipos", controller.listTypes)
		router.Get("usuario/:id", controller.listByUser)
		router.Get("", controller.list)
		router.Post("", middleware.CreateLimiter(), controller.create)
		router.Get(":id/pdf", controller.receipt)
		router.Patch(":id/estado", middleware.UpdateLimiter(), controller.updateStatus)
		router.Get(":id", controller.get)
		router.Delete(":id", middleware.DeleteLimiter(), controller.delete)
	})
}

// @Summary Tipos de trámite activos
// @Tags Trámites
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]tramiteapimodels.TramiteTypeView}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/tramites/tipos [get]
func (c *tramitesApiController) listTypes(ctx *fiber.Ctx) error {
	list, err := tramiteshandler.Instance.ListTypes()
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, list)
}

// @Summary Lista de trámites
// @Tags Trámites
// @Description Empleado ve los propios, manager los de su departamento, administrador todos
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	page				query		int		false	"página"
// @Param	limit				query		int		false	"registros por página"
// @Param	status				query		string	false	"pendiente/aprobado/rechazado/en_revision"
// @Param	tramite_type_id		query		int		false	"tipo de trámite"
// @Param	user_id				query		int		false	"solicitante"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]tramiteapimodels.TramiteView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/tramites [get]
func (c *tramitesApiController) list(ctx *fiber.Ctx) error {
	var filter tramiteapimodels.ListFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return c.SendError(ctx, err)
	}
	return c.sendList(ctx, filter)
}

// @Summary Trámites de un usuario
// @Tags Trámites
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "id del usuario"
// @Param	page				query		int		false	"página"
// @Param	limit				query		int		false	"registros por página"
// @Param	status				query		string	false	"pendiente/aprobado/rechazado/en_revision"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]tramiteapimodels.TramiteView}
// @Failure 403 {object} apimodels.Response
// @router /api/v1/tramites/usuario/{id} [get]
func (c *tramitesApiController) listByUser(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var filter tramiteapimodels.ListFilter
	if err = c.QueryParser(ctx, &filter); err != nil {
		return c.SendError(ctx, err)
	}
	filter.UserID = userID
	return c.sendList(ctx, filter)
}

func (c *tramitesApiController) sendList(ctx *fiber.Ctx, filter tramiteapimodels.ListFilter) error {
	if err := filter.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	list, rowCount, err := tramiteshandler.Instance.List(c.Actor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, rowCount)
}

// @Summary Registrar trámite
// @Tags Trámites
// @Description Solo empleados, el trámite queda pendiente
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body	body	tramiteapimodels.CreateRequest	true	"request body"
// @Success 201 {object} apimodels.Response{data=tramiteapimodels.TramiteView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/tramites [post]
func (c *tramitesApiController) create(ctx *fiber.Ctx) error {
	var payload tramiteapimodels.CreateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := tramiteshandler.Instance.Create(c.Actor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusCreated, resp)
}

// @Summary Trámite por id
// @Tags Trámites
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=tramiteapimodels.TramiteView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/tramites/{id} [get]
func (c *tramitesApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := tramiteshandler.Instance.Get(c.Actor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Comprobante PDF
// @Tags Trámites
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/tramites/{id}/pdf [get]
func (c *tramitesApiController) receipt(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	data, err := tramiteshandler.Instance.Receipt(c.Actor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"tramite_%d.pdf\"", id))
	return ctx.Send(data)
}

// @Summary Cambio de estado
// @Tags Trámites
// @Description Manager o administrador, las observaciones quedan en el historial
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Param	body	body	tramiteapimodels.StatusRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=tramiteapimodels.TramiteView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/tramites/{id}/estado [patch]
func (c *tramitesApiController) updateStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload tramiteapimodels.StatusRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err = payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := tramiteshandler.Instance.UpdateStatus(c.Actor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Eliminar trámite
// @Tags Trámites
// @Description Solo administrador y solo trámites pendientes
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/tramites/{id} [delete]
func (c *tramitesApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = tramiteshandler.Instance.Delete(ctx.UserContext(), c.Actor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}
