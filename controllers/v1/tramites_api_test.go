package apiv1

import (
	"context"
	"encoding/json"
	"io"
	"lariogistic-backend/config"
	"lariogistic-backend/controllers"
	"lariogistic-backend/lib/rbac"
	tramiteshandler "lariogistic-backend/lib/tramites"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"lariogistic-backend/middleware"
	"lariogistic-backend/models"
	apimodels "lariogistic-backend/models/api"
	tramiteapimodels "lariogistic-backend/models/api/tramites"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type fakeTramites struct {
	tramiteshandler.Provider
	filters []tramiteapimodels.ListFilter
	deleted []uint
}

func (f *fakeTramites) List(actor models.Actor, filter tramiteapimodels.ListFilter) ([]tramiteapimodels.TramiteView, int64, error) {
	f.filters = append(f.filters, filter)
	return []tramiteapimodels.TramiteView{{ID: 7, UserID: actor.ID}}, 1, nil
}

func (f *fakeTramites) Delete(_ context.Context, actor models.Actor, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTramites) Receipt(actor models.Actor, id uint) ([]byte, error) {
	if id == 404 {
		return nil, apperrors.ErrTramiteNotFound
	}
	return []byte("%PDF-1.3"), nil
}

func newTramitesApp(t *testing.T) (*fiber.App, *fakeTramites) {
	conf := &config.Configuration{}
	conf.RateLimit.Window = time.Minute
	conf.RateLimit.Create = 100
	conf.RateLimit.Update = 100
	conf.RateLimit.Delete = 100
	config.Conf = conf
	rbac.NewHandler()

	fake := &fakeTramites{}
	tramiteshandler.Instance = fake
	actors := map[string]models.Actor{
		"admin":    {ID: 1, Role: models.AdminRole},
		"employee": {ID: 3, Role: models.EmployeeRole},
	}
	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler})
	api := app.Group("/api/v1", func(ctx *fiber.Ctx) error {
		actor, ok := actors[ctx.Get("X-Test-Actor")]
		require.True(t, ok)
		authutils.SetActor(ctx, actor)
		return ctx.Next()
	}, middleware.RbacMiddleware())
	InitTramitesApiRouters(api)
	return app, fake
}

func doRequest(t *testing.T, app *fiber.App, method, path, actor string) (*http.Response, []byte) {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Test-Actor", actor)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestTramitesApi_Delete(t *testing.T) {
	app, fake := newTramitesApp(t)

	t.Run("empleado recibe 403 con el formato de error", func(t *testing.T) {
		resp, body := doRequest(t, app, fiber.MethodDelete, "/api/v1/tramites/5", "employee")
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		result := apimodels.Response{}
		require.NoError(t, json.Unmarshal(body, &result))
		require.Equal(t, "error", result.Status)
		require.Equal(t, apperrors.ErrForbidden.Code, result.Code)
		require.NotEmpty(t, result.Message)
		require.NotEmpty(t, result.Timestamp)
		require.Empty(t, fake.deleted)
	})

	t.Run("administrador elimina", func(t *testing.T) {
		resp, _ := doRequest(t, app, fiber.MethodDelete, "/api/v1/tramites/5", "admin")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, []uint{5}, fake.deleted)
	})

	t.Run("id inválido", func(t *testing.T) {
		resp, _ := doRequest(t, app, fiber.MethodDelete, "/api/v1/tramites/abc", "admin")
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestTramitesApi_List(t *testing.T) {
	app, fake := newTramitesApp(t)

	resp, body := doRequest(t, app, fiber.MethodGet, "/api/v1/tramites?page=2&limit=5&status=pendiente", "employee")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := apimodels.ScrollerResponse{}
	require.NoError(t, json.Unmarshal(body, &result))
	require.Equal(t, "success", result.Status)
	require.EqualValues(t, 1, result.RowCount)
	require.Len(t, fake.filters, 1)
	require.Equal(t, 2, fake.filters[0].Page)
	require.Equal(t, 5, fake.filters[0].Limit)
	require.Equal(t, models.TramitePending, fake.filters[0].Status)

	resp, _ = doRequest(t, app, fiber.MethodGet, "/api/v1/tramites?status=cerrado", "employee")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Len(t, fake.filters, 1)

	t.Run("trámites de otro usuario", func(t *testing.T) {
		resp, _ := doRequest(t, app, fiber.MethodGet, "/api/v1/tramites/usuario/1", "employee")
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		resp, _ = doRequest(t, app, fiber.MethodGet, "/api/v1/tramites/usuario/"+strconv.Itoa(3), "employee")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.EqualValues(t, 3, fake.filters[len(fake.filters)-1].UserID)
	})
}

func TestTramitesApi_Receipt(t *testing.T) {
	app, _ := newTramitesApp(t)

	resp, body := doRequest(t, app, fiber.MethodGet, "/api/v1/tramites/9/pdf", "employee")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "tramite_9.pdf")
	require.Equal(t, "%PDF-1.3", string(body))

	resp, _ = doRequest(t, app, fiber.MethodGet, "/api/v1/tramites/404/pdf", "employee")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTramitesApi_UnknownRoute(t *testing.T) {
	app, _ := newTramitesApp(t)

	resp, body := doRequest(t, app, fiber.MethodGet, "/api/v1/tramites/9/otra", "admin")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	result := apimodels.Response{}
	require.NoError(t, json.Unmarshal(body, &result))
	require.Equal(t, apperrors.ErrRouteNotFound.Code, result.Code)
}
