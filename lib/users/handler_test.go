package usershandler

import (
	"crypto/rsa"
	"lariogistic-backend/internal/testsupport/fakestore"
	historyhandler "lariogistic-backend/lib/history"
	tokenservice "lariogistic-backend/lib/token"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"lariogistic-backend/models"
	usersapimodels "lariogistic-backend/models/api/users"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	revoked []uint
}

func (f *fakeTokens) IssueAccess(userID uint, role models.UserRole) (string, error) { return "a", nil }
func (f *fakeTokens) IssueRefresh(userID uint) (string, error) { return "r", nil }
func (f *fakeTokens) VerifyRefresh(token string) (uint, error) { return 0, nil }
func (f *fakeTokens) ParseAccess(token string) (*tokenservice.AccessClaims, error) { return nil, nil }
func (f *fakeTokens) PurgeStale(retain time.Duration) (int64, error) { return 0, nil }
func (f *fakeTokens) PublicKey() *rsa.PublicKey { return nil }
func (f *fakeTokens) RevokeAll(userID uint) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

type fixture struct {
	fake     *fakestore.DB
	tokens   *fakeTokens
	handler  impl
	admin    models.Actor
	manager  models.Actor
	employee models.Actor
	deptID   uint
	otherID  uint
}

func newFixture(t *testing.T) *fixture {
	fake := fakestore.New()
	tokens := &fakeTokens{}
	dept := fake.AddDepartment("Logística", models.StatusActive)
	other := fake.AddDepartment("Compras", models.StatusActive)
	admin := fake.AddUser("Admin", models.AdminRole, nil)
	manager := fake.AddUser("Marta", models.ManagerRole, &dept.ID)
	employee := fake.AddUser("Ernesto", models.EmployeeRole, &dept.ID)
	hash, err := authutils.HashPassword("Secreta123")
	require.NoError(t, err)
	employee.PasswordHash = &hash
	return &fixture{
		fake:   fake,
		tokens: tokens,
		handler: impl{
			store:           fake.UserStore(),
			departmentStore: fake.DepartmentStore(),
			tokens:          tokens,
			inTx: func(fn func(tx txStores) error) error {
				return fn(txStores{
					users:   fake.UserStore(),
					history: historyhandler.NewLogger(fake.HistoryStore()),
				})
			},
		},
		admin:    admin.ToActor(),
		manager:  manager.ToActor(),
		employee: employee.ToActor(),
		deptID:   dept.ID,
		otherID:  other.ID,
	}
}

func TestList_Scope(t *testing.T) {
	f := newFixture(t)
	f.fake.AddUser("Otro", models.EmployeeRole, &f.otherID)

	list, err := f.handler.List(f.admin)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, item := range list {
		require.NotEqual(t, models.AdminRole, item.Role)
	}

	list, err = f.handler.List(f.manager)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ernesto", list[0].Name)

	_, err = f.handler.List(f.employee)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	view, err := f.handler.Create(f.manager, usersapimodels.CreateRequest{
		Name:     "Nuevo",
		Email:    "Nuevo@Example.com",
		Password: "Secreta123",
		Role:     int(models.EmployeeRole),
	})
	require.NoError(t, err)
	require.Equal(t, "nuevo@example.com", view.Email)
	require.Equal(t, &f.deptID, view.DepartmentID)
	require.Equal(t, []string{"Creó usuario"}, f.fake.Actions())

	_, err = f.handler.Create(f.manager, usersapimodels.CreateRequest{
		Name: "Jefe", Email: "jefe@example.com", Password: "Secreta123", Role: int(models.ManagerRole),
	})
	require.ErrorIs(t, err, apperrors.ErrRoleEscalation)

	_, err = f.handler.Create(f.admin, usersapimodels.CreateRequest{
		Name: "Root", Email: "root@example.com", Password: "Secreta123", Role: int(models.AdminRole),
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidRole)

	_, err = f.handler.Create(f.admin, usersapimodels.CreateRequest{
		Name: "Doble", Email: "NUEVO@example.com", Password: "Secreta123", Role: int(models.EmployeeRole),
	})
	require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	closed := f.fake.AddDepartment("Cerrado", models.StatusInactive)
	_, err = f.handler.Create(f.admin, usersapimodels.CreateRequest{
		Name: "Sin", Email: "sin@example.com", Password: "Secreta123", Role: int(models.EmployeeRole), DepartmentID: &closed.ID,
	})
	require.ErrorIs(t, err, apperrors.ErrDepartmentInactive)

	_, err = f.handler.Create(f.employee, usersapimodels.CreateRequest{
		Name: "X", Email: "x@example.com", Password: "Secreta123", Role: int(models.EmployeeRole),
	})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	name := "Ernesto Pérez"
	view, err := f.handler.Update(f.employee, f.employee.ID, usersapimodels.UpdateRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, view.Name)
	require.Equal(t, "Actualizó usuario", f.fake.History[0].Action)
	require.False(t, f.fake.History[0].Changes.IsEmpty())

	role := int(models.ManagerRole)
	_, err = f.handler.Update(f.employee, f.employee.ID, usersapimodels.UpdateRequest{Role: &role})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.handler.Update(f.employee, f.manager.ID, usersapimodels.UpdateRequest{Name: &name})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	// el administrador no puede cambiar su propio rol
	_, err = f.handler.Update(f.admin, f.admin.ID, usersapimodels.UpdateRequest{Role: &role})
	require.ErrorIs(t, err, apperrors.ErrAdminRoleImmutable)

	inactive := models.StatusInactive
	_, err = f.handler.Update(f.admin, f.employee.ID, usersapimodels.UpdateRequest{Status: &inactive})
	require.NoError(t, err)
	require.Equal(t, []uint{f.employee.ID}, f.tokens.revoked)
}

func TestUpdate_OtherAdmin(t *testing.T) {
	f := newFixture(t)
	second := f.fake.AddUser("Segundo", models.AdminRole, nil)
	name := "Cambio"
	_, err := f.handler.Update(f.admin, second.ID, usersapimodels.UpdateRequest{Name: &name})
	require.ErrorIs(t, err, apperrors.ErrAdminImmunity)
	require.Equal(t, "Segundo", f.fake.Users[second.ID].Name)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)

	err := f.handler.ChangePassword(f.employee, f.employee.ID, usersapimodels.PasswordChange{NewPassword: "OtraClave123"})
	require.ErrorIs(t, err, apperrors.ErrCurrentPasswordNeeded)

	err = f.handler.ChangePassword(f.employee, f.employee.ID, usersapimodels.PasswordChange{CurrentPassword: "mala", NewPassword: "OtraClave123"})
	require.ErrorIs(t, err, apperrors.ErrWrongCurrentPassword)

	err = f.handler.ChangePassword(f.employee, f.employee.ID, usersapimodels.PasswordChange{CurrentPassword: "Secreta123", NewPassword: "OtraClave123"})
	require.NoError(t, err)
	require.True(t, authutils.CheckPassword(*f.fake.Users[f.employee.ID].PasswordHash, "OtraClave123"))
	require.Equal(t, []uint{f.employee.ID}, f.tokens.revoked)

	err = f.handler.ChangePassword(f.admin, f.employee.ID, usersapimodels.PasswordChange{NewPassword: "Restablecida1"})
	require.NoError(t, err)

	err = f.handler.ChangePassword(f.manager, f.employee.ID, usersapimodels.PasswordChange{NewPassword: "Restablecida1"})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(f.handler.Delete(f.manager, f.employee.ID)))
	require.ErrorIs(t, f.handler.Delete(f.admin, f.admin.ID), apperrors.ErrSelfDelete)

	require.NoError(t, f.handler.Delete(f.admin, f.employee.ID))
	require.Equal(t, models.StatusInactive, f.fake.Users[f.employee.ID].Status)
	require.Equal(t, []uint{f.employee.ID}, f.tokens.revoked)
	require.Equal(t, []string{"Desactivó usuario"}, f.fake.Actions())

	require.ErrorIs(t, f.handler.Delete(f.admin, f.employee.ID), apperrors.ErrUserAlreadyInactive)
	require.ErrorIs(t, f.handler.Delete(f.admin, 9999), apperrors.ErrUserNotFound)
}

func TestCreate_HistoryFailure(t *testing.T) {
	f := newFixture(t)
	f.fake.FailOn = "history.create"
	_, err := f.handler.Create(f.admin, usersapimodels.CreateRequest{
		Name: "Nuevo", Email: "nuevo@example.com", Password: "Secreta123", Role: int(models.EmployeeRole),
	})
	require.Error(t, err)
}
