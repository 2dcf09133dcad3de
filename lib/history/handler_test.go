package historyhandler

import (
	"lariogistic-backend/internal/testsupport/fakestore"
	xlsexport "lariogistic-backend/lib/export/xls"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	apimodels "lariogistic-backend/models/api"
	historyapimodels "lariogistic-backend/models/api/history"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHandler(fake *fakestore.DB) impl {
	xlsexport.NewHandler()
	return impl{
		store:        fake.HistoryStore(),
		userStore:    fake.UserStore(),
		tramiteStore: fake.TramiteStore(),
		exporter:     xlsexport.Instance,
		now:          time.Now,
	}
}

func TestLogger(t *testing.T) {
	fake := fakestore.New()
	logger := NewLogger(fake.HistoryStore())
	tramiteID := uint(7)

	require.NoError(t, logger.Log(1, &tramiteID, "Creó trámite", "Vacaciones"))
	require.Equal(t, []string{"Creó trámite"}, fake.Actions())
	require.Equal(t, &tramiteID, fake.History[0].TramiteID)
	require.False(t, fake.History[0].ActionAt.IsZero())

	err := logger.Log(1, nil, strings.Repeat("a", 101), "")
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	err = logger.Log(1, nil, "  ", "")
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.Error(t, logger.Log(0, nil, "Acción", ""))

	fake.FailOn = "history.create"
	require.Error(t, logger.Log(1, nil, "Acción", ""))
	require.Len(t, fake.History, 1)
}

func TestAdminOnly(t *testing.T) {
	fake := fakestore.New()
	h := newTestHandler(fake)
	manager := models.Actor{ID: 2, Role: models.ManagerRole}

	_, _, err := h.List(manager, historyapimodels.ListFilter{})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	_, err = h.Create(manager, historyapimodels.HistoryData{UserID: 2, Action: "x"})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	_, err = h.Export(manager, historyapimodels.ListFilter{})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCreateUpdateDelete(t *testing.T) {
	fake := fakestore.New()
	h := newTestHandler(fake)
	admin := fake.AddUser("Admin", models.AdminRole, nil)
	actor := admin.ToActor()

	_, err := h.Create(actor, historyapimodels.HistoryData{UserID: 999, Action: "Nota"})
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	missing := uint(555)
	_, err = h.Create(actor, historyapimodels.HistoryData{UserID: admin.ID, TramiteID: &missing, Action: "Nota"})
	require.ErrorIs(t, err, apperrors.ErrTramiteNotFound)

	id, err := h.Create(actor, historyapimodels.HistoryData{UserID: admin.ID, Action: " Nota manual ", Description: "texto"})
	require.NoError(t, err)

	view, err := h.Get(actor, id)
	require.NoError(t, err)
	require.Equal(t, "Nota manual", view.Action)
	require.Equal(t, "Admin", view.UserName)

	newAction := "Nota corregida"
	require.NoError(t, h.Update(actor, id, historyapimodels.HistoryUpdate{Action: &newAction}))
	require.ErrorIs(t, h.Update(actor, id, historyapimodels.HistoryUpdate{}), apperrors.ErrNothingToUpdate)
	view, err = h.Get(actor, id)
	require.NoError(t, err)
	require.Equal(t, "Nota corregida", view.Action)

	require.NoError(t, h.Delete(actor, id))
	_, err = h.Get(actor, id)
	require.ErrorIs(t, err, apperrors.ErrHistoryNotFound)
	require.ErrorIs(t, h.Delete(actor, id), apperrors.ErrHistoryNotFound)
}

func TestListAndExport(t *testing.T) {
	fake := fakestore.New()
	h := newTestHandler(fake)
	admin := fake.AddUser("Admin", models.AdminRole, nil)
	logger := NewLogger(fake.HistoryStore())
	tramiteID := uint(3)
	for idx := 0; idx < 12; idx++ {
		require.NoError(t, logger.Log(admin.ID, &tramiteID, "Acción", ""))
	}
	require.NoError(t, logger.Log(admin.ID, nil, "Otra", ""))

	list, rowCount, err := h.List(admin.ToActor(), historyapimodels.ListFilter{
		Pagination: apimodels.Pagination{Page: 2, Limit: 10},
		TramiteID:  tramiteID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(12), rowCount)
	require.Len(t, list, 2)

	list, rowCount, err = h.List(admin.ToActor(), historyapimodels.ListFilter{
		Pagination: apimodels.Pagination{Page: 5, Limit: 10},
	})
	require.NoError(t, err)
	require.Equal(t, int64(13), rowCount)
	require.Empty(t, list)

	buf, err := h.Export(admin.ToActor(), historyapimodels.ListFilter{})
	require.NoError(t, err)
	require.NotZero(t, buf.Len())
}
