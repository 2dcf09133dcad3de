package apiv1

import (
	"lariogistic-backend/controllers"
	departmentshandler "lariogistic-backend/lib/departments"
	"lariogistic-backend/middleware"
	dictapimodels "lariogistic-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type departmentsApiController struct {
	controllers.BaseAPIController
}

func InitDepartmentsApiRouters(app fiber.Router) {
	controller := departmentsApiController{}
	app.Route("departamentos", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", middleware.CreateLimiter(), controller.create)
		router.Get(":id", controller.get)
		router.Put(":id", middleware.UpdateLimiter(), controller.update)
		router.Delete(":id", middleware.DeleteLimiter(), controller.delete)
	})
}

// @Summary Lista de departamentos
// @Tags Departamentos
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.DepartmentView}
// @Failure 403 {object} apimodels.Response
// @router /api/v1/departamentos [get]
func (c *departmentsApiController) list(ctx *fiber.Ctx) error {
	list, err := departmentshandler.Instance.List(c.Actor(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, list)
}

// @Summary Alta de departamento
// @Tags Departamentos
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body	body	dictapimodels.DepartmentData	true	"request body"
// @Success 201 {object} apimodels.Response{data=int}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/departamentos [post]
func (c *departmentsApiController) create(ctx *fiber.Ctx) error {
	var payload dictapimodels.DepartmentData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	id, err := departmentshandler.Instance.Create(c.Actor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusCreated, id)
}

// @Summary Departamento por id
// @Tags Departamentos
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.DepartmentView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/departamentos/{id} [get]
func (c *departmentsApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := departmentshandler.Instance.Get(c.Actor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Actualización de departamento
// @Tags Departamentos
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Param	body	body	dictapimodels.DepartmentUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/departamentos/{id} [put]
func (c *departmentsApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload dictapimodels.DepartmentUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err = payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	if err = departmentshandler.Instance.Update(c.Actor(ctx), id, payload); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}

// @Summary Baja lógica de departamento
// @Tags Departamentos
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/departamentos/{id} [delete]
func (c *departmentsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = departmentshandler.Instance.Delete(c.Actor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}
