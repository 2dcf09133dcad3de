package apiv1

import (
	"lariogistic-backend/config"
	"lariogistic-backend/controllers"
	authhandler "lariogistic-backend/lib/auth"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/middleware"
	authapimodels "lariogistic-backend/models/api/auth"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const googleStateCookie = "oauth_state"

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app fiber.Router) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", middleware.LoginLimiter(), controller.login)
		router.Post("refresh", middleware.RefreshLimiter(), controller.refreshToken)
		router.Get("google", controller.googleRedirect)
		router.Get("google/callback", controller.googleCallback)
		router.Post("google/callback", middleware.LoginLimiter(), controller.googleCode)
		router.Get("me", middleware.AuthorizationRequired(), controller.me)
		router.Post("logout", middleware.AuthorizationRequired(), controller.logout)
	})
}

// @Summary Inicio de sesión con correo y contraseña
// @Tags Autenticación
// @Description Devuelve token de acceso, token de refresco y datos del usuario
// @Param	body	body	authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.Session}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 429 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := authhandler.Instance.LoginWithPassword(payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Renovar token de acceso
// @Tags Autenticación
// @Description El token de refresco no se rota
// @Param	body	body	authapimodels.RefreshRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.RefreshResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/auth/refresh [post]
func (c *authApiController) refreshToken(ctx *fiber.Ctx) error {
	var payload authapimodels.RefreshRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := authhandler.Instance.RefreshToken(payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Redirección a Google
// @Tags Autenticación
// @Description Inicia el flujo OAuth2 de Google para la aplicación web
// @Success 302
// @Failure 503 {object} apimodels.Response
// @router /api/v1/auth/google [get]
func (c *authApiController) googleRedirect(ctx *fiber.Ctx) error {
	state := uuid.NewString()
	redirectURL, err := authhandler.Instance.GoogleAuthURL(state)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     googleStateCookie,
		Value:    state,
		Path:     "/api/v1/auth/google",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   !config.Conf.IsDevelopment(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.Redirect(redirectURL, fiber.StatusFound)
}

// @Summary Retorno de Google (web)
// @Tags Autenticación
// @Description Valida el estado, canjea el código y redirige al front con los tokens en el fragmento
// @Param	code	query	string	true	"código de autorización"
// @Param	state	query	string	true	"estado"
// @Success 302
// @Failure 401 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @router /api/v1/auth/google/callback [get]
func (c *authApiController) googleCallback(ctx *fiber.Ctx) error {
	state := ctx.Cookies(googleStateCookie)
	ctx.ClearCookie(googleStateCookie)
	if state == "" || state != ctx.Query("state") {
		return c.googleFailed(ctx, apperrors.ErrGoogleAuthFailed)
	}
	code := ctx.Query("code")
	if code == "" {
		return c.googleFailed(ctx, apperrors.MissingField("El código de autorización es requerido"))
	}
	session, err := authhandler.Instance.HandleGoogleCode(ctx.UserContext(), code)
	if err != nil {
		return c.googleFailed(ctx, err)
	}
	callbackURL := config.Conf.App.FrontendCallbackURL
	if callbackURL == "" {
		return c.SendResponse(ctx, fiber.StatusOK, session)
	}
	fragment := url.Values{}
	fragment.Set("access_token", session.AccessToken)
	fragment.Set("refresh_token", session.RefreshToken)
	fragment.Set("user_id", strconv.FormatUint(uint64(session.User.ID), 10))
	return ctx.Redirect(callbackURL+"#"+fragment.Encode(), fiber.StatusFound)
}

func (c *authApiController) googleFailed(ctx *fiber.Ctx, err error) error {
	callbackURL := config.Conf.App.FrontendCallbackURL
	if callbackURL == "" {
		return c.SendError(ctx, err)
	}
	log.WithError(err).Warn("login con google rechazado")
	query := url.Values{}
	query.Set("error", apperrors.CodeOf(err))
	return ctx.Redirect(callbackURL+"?"+query.Encode(), fiber.StatusFound)
}

// @Summary Login con código de Google (móvil)
// @Tags Autenticación
// @Description Canjea el código de autorización y devuelve la sesión en JSON
// @Param	body	body	authapimodels.GoogleCodeRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.Session}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @router /api/v1/auth/google/callback [post]
func (c *authApiController) googleCode(ctx *fiber.Ctx) error {
	var payload authapimodels.GoogleCodeRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, err)
	}
	session, err := authhandler.Instance.HandleGoogleCode(ctx.UserContext(), payload.Code)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, session)
}

// @Summary Usuario actual
// @Tags Autenticación
// @Description Datos del usuario y permisos por módulo
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=authapimodels.MeView}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	resp, err := authhandler.Instance.Me(c.Actor(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Cerrar sesión
// @Tags Autenticación
// @Description Revoca todos los tokens de refresco del usuario
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/auth/logout [post]
func (c *authApiController) logout(ctx *fiber.Ctx) error {
	if err := authhandler.Instance.Logout(c.Actor(ctx)); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}
