package rbac

import (
	"lariogistic-backend/models"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type Provider interface {
	GetRuleFunc(method, path string) (models.RbacFunc, bool)
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

// NewHandler la tabla se arma una sola vez al iniciar, un patrón inválido detiene el arranque
func NewHandler() {
	table, err := NewTable(routeRules())
	if err != nil {
		panic(err.Error())
	}
	Instance = table
}

func NewTable(rules []RouteRule) (*Table, error) {
	t := &Table{
		rules:       map[HTTPMethod]*pathRule{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}
	for _, rule := range rules {
		if err := t.register(rule); err != nil {
			return nil, err
		}
	}
	return t, nil
}

type Table struct {
	rules       map[HTTPMethod]*pathRule
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

func (t *Table) GetRuleFunc(method, path string) (models.RbacFunc, bool) {
	rule, exists := t.rules[HTTPMethod(strings.ToUpper(method))]
	if !exists {
		return nil, false
	}
	path = normalizePath(path)
	if check, found := rule.exact[path]; found {
		return check, true
	}
	for _, p := range rule.patterns {
		if p.pattern.MatchString(path) {
			return p.check, true
		}
	}
	return nil, false
}

func (t *Table) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	result := map[models.Module][]models.Permission{}
	for module, permissions := range t.permissions[role] {
		result[module] = slices.Clone(permissions)
	}
	return result
}

func (t *Table) register(rule RouteRule) error {
	path, method, err := parseSwaggerPattern(rule.Pattern)
	if err != nil {
		return err
	}
	// permisos para el front
	for _, role := range rule.Roles {
		if _, ok := t.permissions[role]; !ok {
			t.permissions[role] = map[models.Module][]models.Permission{}
		}
		permissions := t.permissions[role][rule.Module]
		if !slices.Contains(permissions, rule.Permission) {
			t.permissions[role][rule.Module] = append(permissions, rule.Permission)
		}
	}

	check := rule.Check
	if check == nil {
		check = AllowByRoleFunc(rule.Roles)
	}
	if _, exists := t.rules[method]; !exists {
		t.rules[method] = &pathRule{exact: map[string]models.RbacFunc{}}
	}
	pr := t.rules[method]
	if !strings.Contains(path, "{") {
		pr.exact[path] = check
		return nil
	}
	pattern, err := pathToRegex(path)
	if err != nil {
		return errors.Wrapf(err, "patrón de ruta inválido (%v)", rule.Pattern)
	}
	pr.patterns = append(pr.patterns, patternRule{pattern: pattern, check: check})
	return nil
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	allowMap := map[models.UserRole]bool{}
	for _, role := range accessRoles {
		allowMap[role] = true
	}
	return func(actor models.Actor, path string) bool {
		return allowMap[actor.Role]
	}
}

var paramRegex = regexp.MustCompile(`\{[^}]+?\}`)

func pathToRegex(path string) (*regexp.Regexp, error) {
	pattern := regexp.QuoteMeta(path)
	pattern = strings.ReplaceAll(pattern, `\{`, "{")
	pattern = strings.ReplaceAll(pattern, `\}`, "}")
	pattern = paramRegex.ReplaceAllString(pattern, `([^/]+)`)
	return regexp.Compile("^" + pattern + "$")
}

// parseSwaggerPattern interpreta "/api/v1/usuarios [post]"
func parseSwaggerPattern(pattern string) (path string, method HTTPMethod, err error) {
	pattern = strings.TrimSpace(pattern)
	bracketStart := strings.LastIndex(pattern, "[")
	bracketEnd := strings.LastIndex(pattern, "]")
	if bracketStart == -1 || bracketEnd <= bracketStart {
		return "", "", errors.Errorf("método no indicado en el patrón (%v)", pattern)
	}
	path = normalizePath(pattern[:bracketStart])
	method = HTTPMethod(strings.ToUpper(strings.TrimSpace(pattern[bracketStart+1 : bracketEnd])))
	switch method {
	case GET, POST, PUT, DELETE, PATCH:
	default:
		return "", "", errors.Errorf("método desconocido en el patrón (%v)", pattern)
	}
	return path, method, nil
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
