package rbac

import (
	"lariogistic-backend/models"
	"regexp"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
	PATCH  HTTPMethod = "PATCH"
)

// RouteRule una fila de la tabla de rutas
type RouteRule struct {
	Module     models.Module
	Permission models.Permission
	Roles      []models.UserRole
	Pattern    string          // "/api/v1/tramites/{id} [delete]"
	Check      models.RbacFunc // nil: solo por rol
}

type pathRule struct {
	exact    map[string]models.RbacFunc
	patterns []patternRule
}

type patternRule struct {
	pattern *regexp.Regexp
	check   models.RbacFunc
}
