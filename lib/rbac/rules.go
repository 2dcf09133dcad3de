package rbac

import (
	"lariogistic-backend/models"
	"strconv"
	"strings"
)

var (
	AdminRoleSet        = []models.UserRole{models.AdminRole}
	AdminManagerRoleSet = []models.UserRole{models.AdminRole, models.ManagerRole}
	AllRoles            = []models.UserRole{models.AdminRole, models.ManagerRole, models.EmployeeRole}
)

func routeRules() []RouteRule {
	rules := []RouteRule{}
	rules = append(rules, usersRules()...)
	rules = append(rules, tramitesRules()...)
	rules = append(rules, documentsRules()...)
	rules = append(rules, departmentsRules()...)
	rules = append(rules, historyRules()...)
	return rules
}

func usersRules() []RouteRule {
	return []RouteRule{
		// VIEW
		{models.UsersModule, models.ViewPermission, AdminManagerRoleSet, "/api/v1/usuarios [get]", nil},
		{models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/usuarios/{id} [get]",
			SelfOrRolesFunc("/api/v1/usuarios/", AdminManagerRoleSet)},
		// CREATE
		{models.UsersModule, models.CreatePermission, AdminManagerRoleSet, "/api/v1/usuarios [post]", nil},
		// EDIT
		{models.UsersModule, models.EditPermission, AllRoles, "/api/v1/usuarios/{id} [put]",
			SelfOrRolesFunc("/api/v1/usuarios/", AdminManagerRoleSet)},
		{models.UsersModule, models.EditPermission, AllRoles, "/api/v1/usuarios/{id}/password [put]",
			SelfOrRolesFunc("/api/v1/usuarios/", AdminRoleSet)},
		// MANAGE
		{models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/usuarios/{id} [delete]", nil},
	}
}

func tramitesRules() []RouteRule {
	return []RouteRule{
		// VIEW
		{models.TramitesModule, models.ViewPermission, AllRoles, "/api/v1/tramites/tipos [get]", nil},
		{models.TramitesModule, models.ViewPermission, AllRoles, "/api/v1/tramites [get]", nil},
		{models.TramitesModule, models.ViewPermission, AllRoles, "/api/v1/tramites/usuario/{id} [get]",
			SelfOrRolesFunc("/api/v1/tramites/usuario/", AdminManagerRoleSet)},
		{models.TramitesModule, models.ViewPermission, AllRoles, "/api/v1/tramites/{id} [get]", nil},
		{models.TramitesModule, models.ViewPermission, AllRoles, "/api/v1/tramites/{id}/pdf [get]", nil},
		// CREATE
		{models.TramitesModule, models.CreatePermission, AllRoles, "/api/v1/tramites [post]", nil},
		// FLOW
		{models.TramitesModule, models.FlowPermission, AdminManagerRoleSet, "/api/v1/tramites/{id}/estado [patch]", nil},
		// MANAGE
		{models.TramitesModule, models.ManagePermission, AdminRoleSet, "/api/v1/tramites/{id} [delete]", nil},
	}
}

func documentsRules() []RouteRule {
	return []RouteRule{
		{models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documentos [get]", nil},
		{models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documentos/{id} [get]", nil},
		{models.DocumentsModule, models.FilesPermission, AllRoles, "/api/v1/documentos/tramite/{id} [post]", nil},
		{models.DocumentsModule, models.FilesPermission, AllRoles, "/api/v1/documentos/{id} [put]", nil},
		{models.DocumentsModule, models.FilesPermission, AllRoles, "/api/v1/documentos/{id} [delete]", nil},
	}
}

func departmentsRules() []RouteRule {
	return []RouteRule{
		{models.DepartmentsModule, models.ViewPermission, AdminRoleSet, "/api/v1/departamentos [get]", nil},
		{models.DepartmentsModule, models.ViewPermission, AdminRoleSet, "/api/v1/departamentos/{id} [get]", nil},
		{models.DepartmentsModule, models.ManagePermission, AdminRoleSet, "/api/v1/departamentos [post]", nil},
		{models.DepartmentsModule, models.ManagePermission, AdminRoleSet, "/api/v1/departamentos/{id} [put]", nil},
		{models.DepartmentsModule, models.ManagePermission, AdminRoleSet, "/api/v1/departamentos/{id} [delete]", nil},
	}
}

func historyRules() []RouteRule {
	return []RouteRule{
		{models.HistoryModule, models.ViewPermission, AdminRoleSet, "/api/v1/historial [get]", nil},
		{models.HistoryModule, models.ViewPermission, AdminRoleSet, "/api/v1/historial/export [get]", nil},
		{models.HistoryModule, models.ViewPermission, AdminRoleSet, "/api/v1/historial/{id} [get]", nil},
		{models.HistoryModule, models.ManagePermission, AdminRoleSet, "/api/v1/historial [post]", nil},
		{models.HistoryModule, models.ManagePermission, AdminRoleSet, "/api/v1/historial/{id} [put]", nil},
		{models.HistoryModule, models.ManagePermission, AdminRoleSet, "/api/v1/historial/{id} [delete]", nil},
	}
}

// SelfOrRolesFunc el segmento tras prefix es el id del propio usuario o el rol está en roles
func SelfOrRolesFunc(prefix string, roles []models.UserRole) models.RbacFunc {
	byRole := AllowByRoleFunc(roles)
	return func(actor models.Actor, path string) bool {
		if byRole(actor, path) {
			return true
		}
		rest := strings.TrimPrefix(normalizePath(path), prefix)
		id, _, _ := strings.Cut(rest, "/")
		userID, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return false
		}
		return actor.IsSelf(uint(userID))
	}
}
