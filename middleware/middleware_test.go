package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"lariogistic-backend/internal/testsupport/fakestore"
	"lariogistic-backend/lib/rbac"
	tokenservice "lariogistic-backend/lib/token"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"lariogistic-backend/models"
	apimodels "lariogistic-backend/models/api"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app    *fiber.App
	tokens tokenservice.Provider
	actors map[uint]models.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := tokenservice.NewInstance(tokenservice.Options{
		PrivateKey: key,
		PublicKey:  &key.PublicKey,
		AccessTTL:  time.Hour,
		RefreshTTL: time.Hour,
	}, fakestore.New().RefreshTokenStore())
	table, err := rbac.NewTable([]rbac.RouteRule{
		{Module: models.TramitesModule, Permission: models.ManagePermission, Roles: rbac.AdminRoleSet, Pattern: "/api/v1/tramites/{id} [delete]"},
		{Module: models.TramitesModule, Permission: models.ViewPermission, Roles: rbac.AllRoles, Pattern: "/api/v1/tramites [get]"},
	})
	require.NoError(t, err)

	env := &testEnv{
		tokens: tokens,
		actors: map[uint]models.Actor{
			1: {ID: 1, Role: models.AdminRole},
			3: {ID: 3, Role: models.EmployeeRole},
		},
	}
	resolve := func(userID uint) (models.Actor, error) {
		actor, ok := env.actors[userID]
		if !ok {
			return models.Actor{}, apperrors.ErrInvalidOrInactiveUser
		}
		return actor, nil
	}
	env.app = fiber.New()
	api := env.app.Group("/api/v1", NewAuthorization(&key.PublicKey, resolve), NewRbac(table))
	api.Get("/tramites", func(ctx *fiber.Ctx) error {
		return ctx.JSON(apimodels.NewResponse(authutils.GetActorID(ctx)))
	})
	api.Delete("/tramites/:id", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string) (*http.Response, apimodels.Response) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	result := apimodels.Response{}
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &result))
	}
	return resp, result
}

func (e *testEnv) access(t *testing.T, userID uint, role models.UserRole) string {
	token, err := e.tokens.IssueAccess(userID, role)
	require.NoError(t, err)
	return token
}

func TestAuthorization(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing token", func(t *testing.T) {
		resp, body := env.do(t, fiber.MethodGet, "/api/v1/tramites", "")
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "MissingToken", body.Code)
		require.Equal(t, "error", body.Status)
		require.NotEmpty(t, body.Timestamp)
	})
	t.Run("garbage token", func(t *testing.T) {
		resp, body := env.do(t, fiber.MethodGet, "/api/v1/tramites", "no-es-un-jwt")
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "InvalidToken", body.Code)
	})
	t.Run("refresh token is rejected", func(t *testing.T) {
		refresh, err := env.tokens.IssueRefresh(3)
		require.NoError(t, err)
		resp, body := env.do(t, fiber.MethodGet, "/api/v1/tramites", refresh)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "InvalidToken", body.Code)
	})
	t.Run("unknown user", func(t *testing.T) {
		resp, body := env.do(t, fiber.MethodGet, "/api/v1/tramites", env.access(t, 99, models.EmployeeRole))
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "InvalidOrInactiveUser", body.Code)
	})
	t.Run("valid token", func(t *testing.T) {
		resp, body := env.do(t, fiber.MethodGet, "/api/v1/tramites", env.access(t, 3, models.EmployeeRole))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, float64(3), body.Data)
	})
}

func TestRbac(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, fiber.MethodDelete, "/api/v1/tramites/7", env.access(t, 3, models.EmployeeRole))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Forbidden", body.Code)

	// el rol se toma de la base, no del token
	resp, _ = env.do(t, fiber.MethodDelete, "/api/v1/tramites/7", env.access(t, 3, models.AdminRole))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, fiber.MethodDelete, "/api/v1/tramites/7", env.access(t, 1, models.AdminRole))
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		if ctx.Get("X-Test-Admin") != "" {
			authutils.SetActor(ctx, models.Actor{ID: 1, Role: models.AdminRole})
		}
		return ctx.Next()
	})
	app.Post("/login", NewRateLimit(RateLimit{Name: "login", Max: 2, Window: time.Minute, ByEmail: true}), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})
	app.Put("/usuarios/:id", NewRateLimit(RateLimit{Name: "update", Max: 1, Window: time.Minute, AdminExempt: true}), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	login := func(email string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`","password":"x"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	require.Equal(t, fiber.StatusOK, login("ana@example.com"))
	require.Equal(t, fiber.StatusOK, login("ANA@example.com"))
	require.Equal(t, fiber.StatusTooManyRequests, login("ana@example.com"))
	require.Equal(t, fiber.StatusOK, login("luis@example.com"))

	update := func(admin bool) int {
		req := httptest.NewRequest(fiber.MethodPut, "/usuarios/3", nil)
		if admin {
			req.Header.Set("X-Test-Admin", "1")
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	require.Equal(t, fiber.StatusOK, update(false))
	require.Equal(t, fiber.StatusTooManyRequests, update(false))
	require.Equal(t, fiber.StatusOK, update(true))
	require.Equal(t, fiber.StatusOK, update(true))
}
