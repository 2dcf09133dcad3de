// Package policy decide si un actor puede ejecutar una acción sobre un recurso.
// No tiene efectos secundarios ni acceso a datos: el llamador carga el recurso.
package policy

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
)

// Resource datos del recurso que intervienen en la decisión
type Resource struct {
	OwnerID      uint                 // usuario objetivo o solicitante del trámite
	OwnerRole    models.UserRole      // rol del usuario objetivo
	DepartmentID *uint                // departamento del dueño
	Status       models.TramiteStatus // estado del trámite
}

func UserResource(rec dbmodels.User) Resource {
	return Resource{
		OwnerID:      rec.ID,
		OwnerRole:    rec.Role,
		DepartmentID: rec.DepartmentID,
	}
}

// TramiteResource requiere el solicitante precargado para el departamento
func TramiteResource(rec dbmodels.Tramite) Resource {
	res := Resource{
		OwnerID:      rec.UserID,
		DepartmentID: rec.OwnerDepartmentID(),
		Status:       rec.Status,
	}
	if rec.User != nil {
		res.OwnerRole = rec.User.Role
	}
	return res
}

func DocumentResource(rec dbmodels.Document) Resource {
	if rec.Tramite == nil {
		return Resource{}
	}
	return TramiteResource(*rec.Tramite)
}

var (
	errOnlyAdmin       = apperrors.NewForbidden("Forbidden", "Solo el administrador puede realizar esta acción")
	errOnlyOwnProfile  = apperrors.NewForbidden("Forbidden", "Solo puedes acceder a tu propio perfil")
	errOtherDepartment = apperrors.NewForbidden("Forbidden", "El recurso pertenece a otro departamento")
	errNotOwner        = apperrors.NewForbidden("Forbidden", "Solo el dueño del trámite puede realizar esta acción")
	errNoAttach        = apperrors.NewForbidden("Forbidden", "No tienes permisos para adjuntar documentos a este trámite")
	errUnknownRole     = apperrors.NewForbidden("UnknownRole", "Rol de usuario desconocido")
	errUnknownAction   = apperrors.NewForbidden("UnknownAction", "Acción desconocida")
)

// Can nil si está permitido, ForbiddenError con el motivo en otro caso
func Can(actor models.Actor, action models.Action, res Resource) error {
	if !actor.Role.IsValid() {
		return errUnknownRole
	}
	switch action {
	case models.UserViewAction:
		return canViewUser(actor, res)
	case models.UserListAction, models.UserCreateAction:
		return allowRoles(actor, models.AdminRole, models.ManagerRole)
	case models.UserUpdateAction:
		return canUpdateUser(actor, res)
	case models.UserManageAction, models.UserDeleteAction:
		return canManageUser(actor, res)
	case models.UserChangePasswordAction:
		return canChangePassword(actor, res)

	case models.TramiteCreateAction:
		return nil
	case models.TramiteViewAction, models.DocumentViewAction:
		return canViewTramite(actor, res)
	case models.TramiteChangeStatusAction:
		return canChangeTramiteStatus(actor, res)
	case models.TramiteDeleteAction:
		return canDeleteTramite(actor, res)

	case models.DocumentAttachAction:
		if !actor.IsSelf(res.OwnerID) {
			return errNoAttach
		}
		return nil
	case models.DocumentReplaceAction:
		if actor.IsAdmin() || actor.IsSelf(res.OwnerID) {
			return nil
		}
		return errNotOwner
	case models.DocumentRemoveAction:
		if !actor.IsSelf(res.OwnerID) {
			return errNotOwner
		}
		return nil
	case models.DocumentReassignAction, models.DepartmentManageAction, models.HistoryManageAction:
		return allowRoles(actor, models.AdminRole)
	}
	return errUnknownAction
}

// CanAssignRole target nil al crear un usuario
func CanAssignRole(actor models.Actor, target *Resource, role models.UserRole) error {
	if role == models.AdminRole {
		return apperrors.ErrRoleEscalation
	}
	if !role.IsAssignable() {
		return apperrors.ErrInvalidRole
	}
	if target != nil && target.OwnerRole == models.AdminRole {
		return apperrors.ErrAdminRoleImmutable
	}
	switch actor.Role {
	case models.AdminRole:
		return nil
	case models.ManagerRole:
		if target == nil && role == models.EmployeeRole {
			return nil
		}
		return apperrors.ErrRoleEscalation
	case models.EmployeeRole:
		return apperrors.ErrRoleEscalation
	}
	return errUnknownRole
}

func allowRoles(actor models.Actor, roles ...models.UserRole) error {
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	if len(roles) == 1 && roles[0] == models.AdminRole {
		return errOnlyAdmin
	}
	return apperrors.ErrForbidden
}

// adminImmunity la cuenta de un administrador solo la toca él mismo
func adminImmunity(actor models.Actor, res Resource) error {
	if res.OwnerRole == models.AdminRole && !actor.IsSelf(res.OwnerID) {
		return apperrors.ErrAdminImmunity
	}
	return nil
}

func managerReachesEmployee(actor models.Actor, res Resource) error {
	if res.OwnerRole != models.EmployeeRole {
		return apperrors.ErrForbidden
	}
	if !actor.SameDepartment(res.DepartmentID) {
		return errOtherDepartment
	}
	return nil
}

func canViewUser(actor models.Actor, res Resource) error {
	if actor.IsSelf(res.OwnerID) {
		return nil
	}
	switch actor.Role {
	case models.AdminRole:
		return nil
	case models.ManagerRole:
		return managerReachesEmployee(actor, res)
	case models.EmployeeRole:
		return errOnlyOwnProfile
	}
	return errUnknownRole
}

func canUpdateUser(actor models.Actor, res Resource) error {
	if err := adminImmunity(actor, res); err != nil {
		return err
	}
	if actor.IsSelf(res.OwnerID) {
		return nil
	}
	switch actor.Role {
	case models.AdminRole:
		return nil
	case models.ManagerRole:
		return managerReachesEmployee(actor, res)
	case models.EmployeeRole:
		return errOnlyOwnProfile
	}
	return errUnknownRole
}

func canManageUser(actor models.Actor, res Resource) error {
	if err := allowRoles(actor, models.AdminRole); err != nil {
		return err
	}
	return adminImmunity(actor, res)
}

func canChangePassword(actor models.Actor, res Resource) error {
	if err := adminImmunity(actor, res); err != nil {
		return err
	}
	if actor.IsSelf(res.OwnerID) || actor.IsAdmin() {
		return nil
	}
	return errOnlyOwnProfile
}

func canViewTramite(actor models.Actor, res Resource) error {
	switch actor.Role {
	case models.AdminRole:
		return nil
	case models.ManagerRole:
		if !actor.SameDepartment(res.DepartmentID) {
			return errOtherDepartment
		}
		return nil
	case models.EmployeeRole:
		if !actor.IsSelf(res.OwnerID) {
			return errNotOwner
		}
		return nil
	}
	return errUnknownRole
}

func canChangeTramiteStatus(actor models.Actor, res Resource) error {
	switch actor.Role {
	case models.AdminRole:
		return nil
	case models.ManagerRole:
		// tampoco los propios ni los de otro manager
		if err := managerReachesEmployee(actor, res); err != nil {
			return err
		}
		switch res.Status {
		case models.TramiteApproved:
			return apperrors.ErrAlreadyApproved
		case models.TramiteRejected:
			return apperrors.ErrTramiteClosed
		}
		return nil
	case models.EmployeeRole:
		return apperrors.ErrForbidden
	}
	return errUnknownRole
}

func canDeleteTramite(actor models.Actor, res Resource) error {
	if err := allowRoles(actor, models.AdminRole); err != nil {
		return err
	}
	if res.Status != models.TramitePending {
		return apperrors.ErrNotPending
	}
	return nil
}
