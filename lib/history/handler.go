package historyhandler

import (
	"bytes"
	"lariogistic-backend/db"
	xlsexport "lariogistic-backend/lib/export/xls"
	historystore "lariogistic-backend/lib/history/store"
	"lariogistic-backend/lib/policy"
	tramitesstore "lariogistic-backend/lib/tramites/store"
	usersstore "lariogistic-backend/lib/users/store"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	initchecker "lariogistic-backend/lib/utils/init-checker"
	"lariogistic-backend/models"
	historyapimodels "lariogistic-backend/models/api/history"
	dbmodels "lariogistic-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// exportLimit tope de filas del xlsx
const exportLimit = 10000

type Provider interface {
	List(actor models.Actor, filter historyapimodels.ListFilter) ([]historyapimodels.HistoryView, int64, error)
	Get(actor models.Actor, id uint) (*historyapimodels.HistoryView, error)
	Create(actor models.Actor, data historyapimodels.HistoryData) (uint, error)
	Update(actor models.Actor, id uint, data historyapimodels.HistoryUpdate) error
	Delete(actor models.Actor, id uint) error
	Export(actor models.Actor, filter historyapimodels.ListFilter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"xlsexport", xlsexport.Instance,
	)
	Instance = impl{
		store:        historystore.NewInstance(db.DB),
		userStore:    usersstore.NewInstance(db.DB),
		tramiteStore: tramitesstore.NewInstance(db.DB),
		exporter:     xlsexport.Instance,
		now:          time.Now,
	}
}

type impl struct {
	store        historystore.Provider
	userStore    usersstore.Provider
	tramiteStore tramitesstore.Provider
	exporter     xlsexport.Provider
	now          func() time.Time
}

func (i impl) List(actor models.Actor, filter historyapimodels.ListFilter) ([]historyapimodels.HistoryView, int64, error) {
	if err := policy.Can(actor, models.HistoryManageAction, policy.Resource{}); err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	storeFilter := historystore.ListFilter{
		UserID:    filter.UserID,
		TramiteID: filter.TramiteID,
		Page:      page,
		Limit:     limit,
	}
	rowCount, err := i.store.ListCount(storeFilter)
	if err != nil {
		return nil, 0, err
	}
	if int64(filter.Offset()) >= rowCount {
		return []historyapimodels.HistoryView{}, rowCount, nil
	}
	list, err := i.store.List(storeFilter)
	if err != nil {
		log.WithError(err).Error("error obteniendo el historial")
		return nil, 0, errors.Wrap(err, "error obteniendo el historial")
	}
	result := make([]historyapimodels.HistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, historyapimodels.HistoryConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Get(actor models.Actor, id uint) (*historyapimodels.HistoryView, error) {
	if err := policy.Can(actor, models.HistoryManageAction, policy.Resource{}); err != nil {
		return nil, err
	}
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	view := historyapimodels.HistoryConvert(*rec)
	return &view, nil
}

func (i impl) Create(actor models.Actor, data historyapimodels.HistoryData) (uint, error) {
	if err := policy.Can(actor, models.HistoryManageAction, policy.Resource{}); err != nil {
		return 0, err
	}
	data.Action = strings.TrimSpace(data.Action)
	if err := data.Validate(); err != nil {
		return 0, err
	}
	user, err := i.userStore.GetByID(data.UserID)
	if err != nil {
		return 0, errors.Wrap(err, "error obteniendo el usuario")
	}
	if user == nil {
		return 0, apperrors.ErrUserNotFound
	}
	if data.TramiteID != nil {
		tramite, err := i.tramiteStore.GetByID(*data.TramiteID)
		if err != nil {
			return 0, errors.Wrap(err, "error obteniendo el trámite")
		}
		if tramite == nil {
			return 0, apperrors.ErrTramiteNotFound
		}
	}
	rec := dbmodels.History{
		UserID:      data.UserID,
		TramiteID:   data.TramiteID,
		Action:      data.Action,
		Description: data.Description,
		ActionAt:    i.now(),
	}
	id, err := i.store.Create(&rec)
	if err != nil {
		log.WithError(err).WithField("user_id", data.UserID).Error("error creando el registro de historial")
		return 0, errors.Wrap(err, "error creando el registro de historial")
	}
	return id, nil
}

func (i impl) Update(actor models.Actor, id uint, data historyapimodels.HistoryUpdate) error {
	if err := policy.Can(actor, models.HistoryManageAction, policy.Resource{}); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if _, err := i.getRec(id); err != nil {
		return err
	}
	updMap := map[string]interface{}{}
	if data.Action != nil {
		updMap["action"] = strings.TrimSpace(*data.Action)
	}
	if data.Description != nil {
		updMap["description"] = *data.Description
	}
	err := i.store.Update(id, updMap)
	if err != nil {
		log.WithError(err).WithField("history_id", id).Error("error actualizando el registro de historial")
		return errors.Wrap(err, "error actualizando el registro de historial")
	}
	return nil
}

func (i impl) Delete(actor models.Actor, id uint) error {
	if err := policy.Can(actor, models.HistoryManageAction, policy.Resource{}); err != nil {
		return err
	}
	if _, err := i.getRec(id); err != nil {
		return err
	}
	err := i.store.Delete(id)
	if err != nil {
		log.WithError(err).WithField("history_id", id).Error("error eliminando el registro de historial")
		return errors.Wrap(err, "error eliminando el registro de historial")
	}
	return nil
}

func (i impl) Export(actor models.Actor, filter historyapimodels.ListFilter) (*bytes.Buffer, error) {
	if err := policy.Can(actor, models.HistoryManageAction, policy.Resource{}); err != nil {
		return nil, err
	}
	list, err := i.store.List(historystore.ListFilter{
		UserID:    filter.UserID,
		TramiteID: filter.TramiteID,
		Page:      1,
		Limit:     exportLimit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el historial")
	}
	return i.exporter.ExportHistory(list)
}

func (i impl) getRec(id uint) (*dbmodels.History, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el registro de historial")
	}
	if rec == nil {
		return nil, apperrors.ErrHistoryNotFound
	}
	return rec, nil
}
