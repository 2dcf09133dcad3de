package policy

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func deptID(id uint) *uint {
	return &id
}

var (
	admin      = models.Actor{ID: 1, Role: models.AdminRole}
	otherAdmin = models.Actor{ID: 9, Role: models.AdminRole}
	manager    = models.Actor{ID: 2, Role: models.ManagerRole, DepartmentID: deptID(10)}
	employee   = models.Actor{ID: 3, Role: models.EmployeeRole, DepartmentID: deptID(10)}
)

func TestSelfOrAdmin(t *testing.T) {
	self := Resource{OwnerID: employee.ID, OwnerRole: models.EmployeeRole, DepartmentID: deptID(10)}
	other := Resource{OwnerID: 4, OwnerRole: models.EmployeeRole, DepartmentID: deptID(10)}

	t.Run("profile read", func(t *testing.T) {
		require.NoError(t, Can(employee, models.UserViewAction, self))
		require.NoError(t, Can(admin, models.UserViewAction, other))
		err := Can(employee, models.UserViewAction, other)
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})
	t.Run("password change", func(t *testing.T) {
		require.NoError(t, Can(employee, models.UserChangePasswordAction, self))
		require.NoError(t, Can(admin, models.UserChangePasswordAction, other))
		require.Error(t, Can(employee, models.UserChangePasswordAction, other))
		// el manager no cambia contraseñas ajenas aunque sea de su departamento
		require.Error(t, Can(manager, models.UserChangePasswordAction, other))
	})
	t.Run("manager reaches employees of own department", func(t *testing.T) {
		require.NoError(t, Can(manager, models.UserViewAction, other))
		require.NoError(t, Can(manager, models.UserUpdateAction, other))
		foreign := Resource{OwnerID: 5, OwnerRole: models.EmployeeRole, DepartmentID: deptID(11)}
		require.Error(t, Can(manager, models.UserUpdateAction, foreign))
		peer := Resource{OwnerID: 6, OwnerRole: models.ManagerRole, DepartmentID: deptID(10)}
		require.Error(t, Can(manager, models.UserViewAction, peer))
	})
}

func TestAdminImmunity(t *testing.T) {
	adminRes := Resource{OwnerID: admin.ID, OwnerRole: models.AdminRole}

	require.NoError(t, Can(admin, models.UserUpdateAction, adminRes))
	require.NoError(t, Can(admin, models.UserDeleteAction, adminRes))
	for _, action := range []models.Action{
		models.UserUpdateAction,
		models.UserManageAction,
		models.UserDeleteAction,
		models.UserChangePasswordAction,
	} {
		err := Can(otherAdmin, action, adminRes)
		require.True(t, apperrors.HasCode(err, "AdminImmunity"), string(action))
	}
	// leer sí se puede
	require.NoError(t, Can(otherAdmin, models.UserViewAction, adminRes))
}

func TestRoleAssignment(t *testing.T) {
	t.Run("never elevate to admin", func(t *testing.T) {
		require.True(t, apperrors.HasCode(CanAssignRole(admin, nil, models.AdminRole), "RoleEscalation"))
	})
	t.Run("admin self demotion is rejected", func(t *testing.T) {
		self := Resource{OwnerID: admin.ID, OwnerRole: models.AdminRole}
		err := CanAssignRole(admin, &self, models.ManagerRole)
		require.True(t, apperrors.HasCode(err, "AdminRoleImmutable"))
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})
	t.Run("manager creates employees only", func(t *testing.T) {
		require.NoError(t, CanAssignRole(manager, nil, models.EmployeeRole))
		require.Error(t, CanAssignRole(manager, nil, models.ManagerRole))
		target := Resource{OwnerID: 3, OwnerRole: models.EmployeeRole}
		require.Error(t, CanAssignRole(manager, &target, models.EmployeeRole))
	})
	t.Run("admin assigns manager and employee", func(t *testing.T) {
		target := Resource{OwnerID: 3, OwnerRole: models.EmployeeRole}
		require.NoError(t, CanAssignRole(admin, &target, models.ManagerRole))
		require.NoError(t, CanAssignRole(admin, nil, models.EmployeeRole))
		require.True(t, apperrors.HasCode(CanAssignRole(admin, nil, models.UserRole(7)), "InvalidRole"))
	})
}

func TestTramiteRules(t *testing.T) {
	inDept := Resource{OwnerID: employee.ID, OwnerRole: models.EmployeeRole, DepartmentID: deptID(10), Status: models.TramitePending}
	otherDept := Resource{OwnerID: 8, OwnerRole: models.EmployeeRole, DepartmentID: deptID(11), Status: models.TramitePending}

	t.Run("department scoping", func(t *testing.T) {
		require.NoError(t, Can(manager, models.TramiteViewAction, inDept))
		require.NoError(t, Can(manager, models.TramiteChangeStatusAction, inDept))
		require.Error(t, Can(manager, models.TramiteViewAction, otherDept))
		require.Error(t, Can(manager, models.TramiteChangeStatusAction, otherDept))
		noDept := models.Actor{ID: 20, Role: models.ManagerRole}
		require.Error(t, Can(noDept, models.TramiteViewAction, Resource{OwnerID: 21}))
	})
	t.Run("manager only decides on employees", func(t *testing.T) {
		own := Resource{OwnerID: manager.ID, OwnerRole: models.ManagerRole, DepartmentID: deptID(10), Status: models.TramitePending}
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(Can(manager, models.TramiteChangeStatusAction, own)))
		peer := Resource{OwnerID: 12, OwnerRole: models.ManagerRole, DepartmentID: deptID(10), Status: models.TramitePending}
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(Can(manager, models.TramiteChangeStatusAction, peer)))
		require.NoError(t, Can(manager, models.TramiteViewAction, own))
		require.NoError(t, Can(admin, models.TramiteChangeStatusAction, peer))
	})
	t.Run("employee sees own only", func(t *testing.T) {
		require.NoError(t, Can(employee, models.TramiteViewAction, inDept))
		require.Error(t, Can(employee, models.TramiteViewAction, otherDept))
		require.Error(t, Can(employee, models.TramiteChangeStatusAction, inDept))
	})
	t.Run("approved lock", func(t *testing.T) {
		approved := inDept
		approved.Status = models.TramiteApproved
		require.NoError(t, Can(admin, models.TramiteChangeStatusAction, approved))
		require.True(t, apperrors.HasCode(Can(manager, models.TramiteChangeStatusAction, approved), "AlreadyApproved"))
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(Can(employee, models.TramiteChangeStatusAction, approved)))
		rejected := inDept
		rejected.Status = models.TramiteRejected
		require.True(t, apperrors.HasCode(Can(manager, models.TramiteChangeStatusAction, rejected), "TramiteClosed"))
	})
	t.Run("pending only delete", func(t *testing.T) {
		for _, status := range []models.TramiteStatus{models.TramiteApproved, models.TramiteRejected, models.TramiteInReview} {
			res := inDept
			res.Status = status
			require.True(t, apperrors.HasCode(Can(admin, models.TramiteDeleteAction, res), "NotPending"), string(status))
		}
		require.NoError(t, Can(admin, models.TramiteDeleteAction, inDept))
		// empleado borrando el trámite pendiente de otro empleado
		err := Can(employee, models.TramiteDeleteAction, Resource{OwnerID: 4, DepartmentID: deptID(10), Status: models.TramitePending})
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
		require.Error(t, Can(manager, models.TramiteDeleteAction, inDept))
	})
}

func TestDocumentRules(t *testing.T) {
	own := Resource{OwnerID: employee.ID, DepartmentID: deptID(10)}
	require.NoError(t, Can(employee, models.DocumentAttachAction, own))
	require.Error(t, Can(admin, models.DocumentAttachAction, own))
	require.Error(t, Can(manager, models.DocumentAttachAction, own))

	require.NoError(t, Can(admin, models.DocumentReplaceAction, own))
	require.NoError(t, Can(employee, models.DocumentReplaceAction, own))
	require.Error(t, Can(manager, models.DocumentReplaceAction, own))

	require.NoError(t, Can(employee, models.DocumentRemoveAction, own))
	require.Error(t, Can(admin, models.DocumentRemoveAction, own))

	require.NoError(t, Can(admin, models.DocumentReassignAction, own))
	require.Error(t, Can(employee, models.DocumentReassignAction, own))
}

func TestUnknownInputs(t *testing.T) {
	require.True(t, apperrors.HasCode(Can(models.Actor{ID: 1, Role: 0}, models.TramiteCreateAction, Resource{}), "UnknownRole"))
	require.True(t, apperrors.HasCode(Can(admin, models.Action("x"), Resource{}), "UnknownAction"))
	require.NoError(t, Can(employee, models.TramiteCreateAction, Resource{}))
	require.Error(t, Can(manager, models.DepartmentManageAction, Resource{}))
	require.NoError(t, Can(admin, models.HistoryManageAction, Resource{}))
}
