package apiv1

import (
	"lariogistic-backend/controllers"
	usershandler "lariogistic-backend/lib/users"
	"lariogistic-backend/middleware"
	usersapimodels "lariogistic-backend/models/api/users"

	"github.com/gofiber/fiber/v2"
)

type usersApiController struct {
	controllers.BaseAPIController
}

func InitUsersApiRouters(app fiber.Router) {
	controller := usersApiController{}
	app.Route("usuarios", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", middleware.CreateLimiter(), controller.create)
		router.Get(":id", controller.get)
		router.Put(":id/password", middleware.PasswordChangeLimiter(), controller.changePassword)
		router.Put(":id", middleware.UpdateLimiter(), controller.update)
		router.Delete(":id", middleware.DeleteLimiter(), controller.delete)
	})
}

// @Summary Lista de usuarios
// @Tags Usuarios
// @Description Administrador ve todos, manager su departamento
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]usersapimodels.UserView}
// @Failure 401 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @router /api/v1/usuarios [get]
func (c *usersApiController) list(ctx *fiber.Ctx) error {
	list, err := usershandler.Instance.List(c.Actor(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, list)
}

// @Summary Usuario por id
// @Tags Usuarios
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/usuarios/{id} [get]
func (c *usersApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := usershandler.Instance.Get(c.Actor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Alta de usuario
// @Tags Usuarios
// @Description El manager solo crea empleados de su departamento
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body	body	usersapimodels.CreateRequest	true	"request body"
// @Success 201 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/usuarios [post]
func (c *usersApiController) create(ctx *fiber.Ctx) error {
	var payload usersapimodels.CreateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	actor := c.Actor(ctx)
	if err := payload.Validate(actor.Role); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := usershandler.Instance.Create(actor, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusCreated, resp)
}

// @Summary Actualización de usuario
// @Tags Usuarios
// @Description Rol, estado y departamento solo los cambia el administrador
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Param	body	body	usersapimodels.UpdateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/usuarios/{id} [put]
func (c *usersApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload usersapimodels.UpdateRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	actor := c.Actor(ctx)
	if err = payload.Validate(actor.Role); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := usershandler.Instance.Update(actor, id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Cambio de contraseña
// @Tags Usuarios
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Param	body	body	usersapimodels.PasswordChange	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @router /api/v1/usuarios/{id}/password [put]
func (c *usersApiController) changePassword(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload usersapimodels.PasswordChange
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err = payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	if err = usershandler.Instance.ChangePassword(c.Actor(ctx), id, payload); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}

// @Summary Baja lógica de usuario
// @Tags Usuarios
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/usuarios/{id} [delete]
func (c *usersApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = usershandler.Instance.Delete(c.Actor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}
