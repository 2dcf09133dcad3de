package departmentshandler

import (
	"lariogistic-backend/internal/testsupport/fakestore"
	historyhandler "lariogistic-backend/lib/history"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	dictapimodels "lariogistic-backend/models/api/dict"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHandler(fake *fakestore.DB) impl {
	return impl{
		store: fake.DepartmentStore(),
		inTx: func(fn func(tx txStores) error) error {
			return fn(txStores{
				departments: fake.DepartmentStore(),
				history:     historyhandler.NewLogger(fake.HistoryStore()),
			})
		},
	}
}

func TestCRUD(t *testing.T) {
	fake := fakestore.New()
	h := newTestHandler(fake)
	admin := fake.AddUser("Admin", models.AdminRole, nil).ToActor()

	id, err := h.Create(admin, dictapimodels.DepartmentData{Name: " Logística ", Description: "Almacén"})
	require.NoError(t, err)

	_, err = h.Create(admin, dictapimodels.DepartmentData{Name: "LOGÍSTICA"})
	require.ErrorIs(t, err, apperrors.ErrDepartmentExists)

	item, err := h.Get(admin, id)
	require.NoError(t, err)
	require.Equal(t, "Logística", item.Name)
	require.Equal(t, models.StatusActive, item.Status)

	name := "Distribución"
	require.NoError(t, h.Update(admin, id, dictapimodels.DepartmentUpdate{Name: &name}))
	item, err = h.Get(admin, id)
	require.NoError(t, err)
	require.Equal(t, "Distribución", item.Name)

	require.NoError(t, h.Delete(admin, id))
	item, err = h.Get(admin, id)
	require.NoError(t, err)
	require.Equal(t, models.StatusInactive, item.Status)
	require.ErrorIs(t, h.Delete(admin, id), apperrors.ErrDepartmentAlreadyClosed)

	require.Equal(t, []string{"Creó departamento", "Actualizó departamento", "Desactivó departamento"}, fake.Actions())

	list, err := h.List(admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAdminOnly(t *testing.T) {
	fake := fakestore.New()
	h := newTestHandler(fake)
	dept := fake.AddDepartment("Ventas", models.StatusActive)
	manager := fake.AddUser("Marta", models.ManagerRole, &dept.ID).ToActor()

	_, err := h.Create(manager, dictapimodels.DepartmentData{Name: "Nuevo"})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	_, err = h.List(manager)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(h.Delete(manager, dept.ID)))
	require.Empty(t, fake.History)
}

func TestValidation(t *testing.T) {
	fake := fakestore.New()
	h := newTestHandler(fake)
	admin := fake.AddUser("Admin", models.AdminRole, nil).ToActor()

	_, err := h.Create(admin, dictapimodels.DepartmentData{Name: "  "})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.ErrorIs(t, h.Update(admin, 1, dictapimodels.DepartmentUpdate{}), apperrors.ErrNothingToUpdate)
	name := "x"
	require.ErrorIs(t, h.Update(admin, 999, dictapimodels.DepartmentUpdate{Name: &name}), apperrors.ErrDepartmentNotFound)
}
