package tramiteshandler

import (
	"context"
	"fmt"
	"lariogistic-backend/db"
	documentsstore "lariogistic-backend/lib/documents/store"
	pdfexport "lariogistic-backend/lib/export/pdf"
	filestorage "lariogistic-backend/lib/file-storage"
	historyhandler "lariogistic-backend/lib/history"
	historystore "lariogistic-backend/lib/history/store"
	"lariogistic-backend/lib/metrics"
	"lariogistic-backend/lib/policy"
	tramitesstore "lariogistic-backend/lib/tramites/store"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	initchecker "lariogistic-backend/lib/utils/init-checker"
	"lariogistic-backend/models"
	tramiteapimodels "lariogistic-backend/models/api/tramites"
	dbmodels "lariogistic-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(actor models.Actor, request tramiteapimodels.CreateRequest) (*tramiteapimodels.TramiteView, error)
	List(actor models.Actor, filter tramiteapimodels.ListFilter) ([]tramiteapimodels.TramiteView, int64, error)
	Get(actor models.Actor, id uint) (*tramiteapimodels.TramiteView, error)
	UpdateStatus(actor models.Actor, id uint, request tramiteapimodels.StatusRequest) (*tramiteapimodels.TramiteView, error)
	Delete(ctx context.Context, actor models.Actor, id uint) error
	ListTypes() ([]tramiteapimodels.TramiteTypeView, error)
	Receipt(actor models.Actor, id uint) ([]byte, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"filestorage", filestorage.Instance,
	)
	Instance = impl{
		store:         tramitesstore.NewInstance(db.DB),
		documentStore: documentsstore.NewInstance(db.DB),
		storage:       filestorage.Instance,
		inTx:          dbTx,
		now:           time.Now,
	}
}

type txStores struct {
	tramites tramitesstore.Provider
	history  historyhandler.Logger
}

func dbTx(fn func(tx txStores) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(txStores{
			tramites: tramitesstore.NewInstance(tx),
			history:  historyhandler.NewLogger(historystore.NewInstance(tx)),
		})
	})
}

type impl struct {
	store         tramitesstore.Provider
	documentStore documentsstore.Provider
	storage       filestorage.Provider
	inTx          func(fn func(tx txStores) error) error
	now           func() time.Time
}

func (i impl) Create(actor models.Actor, request tramiteapimodels.CreateRequest) (*tramiteapimodels.TramiteView, error) {
	if err := policy.Can(actor, models.TramiteCreateAction, policy.Resource{OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	startDate, endDate, err := request.Dates()
	if err != nil {
		return nil, err
	}
	tramiteType, err := i.store.GetType(request.TramiteTypeID)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el tipo de trámite")
	}
	if tramiteType == nil || tramiteType.Status != models.StatusActive {
		return nil, apperrors.ErrTramiteTypeNotFound
	}
	rec := dbmodels.Tramite{
		UserID:        actor.ID,
		TramiteTypeID: tramiteType.ID,
		SubmittedAt:   i.now(),
		Status:        models.TramitePending,
		Description:   request.Description,
		StartDate:     startDate,
		EndDate:       endDate,
	}
	err = i.inTx(func(tx txStores) error {
		id, err := tx.tramites.Create(&rec)
		if err != nil {
			return err
		}
		return tx.history.Log(actor.ID, &id, "Creó trámite", tramiteType.Name)
	})
	if err != nil {
		log.WithError(err).WithField("user_id", actor.ID).Error("error creando el trámite")
		return nil, err
	}
	return i.Get(actor, rec.ID)
}

func (i impl) List(actor models.Actor, filter tramiteapimodels.ListFilter) ([]tramiteapimodels.TramiteView, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	storeFilter := tramitesstore.ListFilter{
		OwnerID:       filter.UserID,
		Status:        filter.Status,
		TramiteTypeID: filter.TramiteTypeID,
		Page:          page,
		Limit:         limit,
	}
	switch actor.Role {
	case models.AdminRole:
	case models.ManagerRole:
		if actor.DepartmentID == nil {
			return []tramiteapimodels.TramiteView{}, 0, nil
		}
		storeFilter.DepartmentID = actor.DepartmentID
	case models.EmployeeRole:
		storeFilter.OwnerID = actor.ID
	default:
		return nil, 0, apperrors.ErrForbidden
	}
	rowCount, err := i.store.ListCount(storeFilter)
	if err != nil {
		return nil, 0, err
	}
	if int64(filter.Offset()) >= rowCount {
		return []tramiteapimodels.TramiteView{}, rowCount, nil
	}
	list, err := i.store.List(storeFilter)
	if err != nil {
		log.WithError(err).Error("error obteniendo la lista de trámites")
		return nil, 0, errors.Wrap(err, "error obteniendo la lista de trámites")
	}
	result := make([]tramiteapimodels.TramiteView, 0, len(list))
	for _, rec := range list {
		result = append(result, tramiteapimodels.TramiteConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Get(actor models.Actor, id uint) (*tramiteapimodels.TramiteView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if err = policy.Can(actor, models.TramiteViewAction, policy.TramiteResource(*rec)); err != nil {
		return nil, err
	}
	view := tramiteapimodels.TramiteConvert(*rec)
	return &view, nil
}

func (i impl) UpdateStatus(actor models.Actor, id uint, request tramiteapimodels.StatusRequest) (*tramiteapimodels.TramiteView, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if err = policy.Can(actor, models.TramiteChangeStatusAction, policy.TramiteResource(*rec)); err != nil {
		return nil, err
	}
	if !rec.Status.IsAllowChange(request.Status) {
		return nil, apperrors.ErrInvalidTransition
	}
	description := fmt.Sprintf("%s: %s → %s", rec.TypeName(), rec.Status.ToHuman(), request.Status.ToHuman())
	if observations := strings.TrimSpace(request.Observations); observations != "" {
		description += ". Observaciones: " + observations
	}
	changes := &dbmodels.EntityChanges{}
	changes.Add("status", rec.Status, request.Status)
	err = i.inTx(func(tx txStores) error {
		if err := tx.tramites.UpdateStatus(id, request.Status); err != nil {
			return err
		}
		return tx.history.LogChanges(actor.ID, &id, "Actualizó estado de trámite", description, changes)
	})
	if err != nil {
		log.WithError(err).WithField("tramite_id", id).Error("error actualizando el estado del trámite")
		return nil, err
	}
	metrics.TramiteTransition(string(rec.Status), string(request.Status))
	return i.Get(actor, id)
}

func (i impl) Delete(ctx context.Context, actor models.Actor, id uint) error {
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if err = policy.Can(actor, models.TramiteDeleteAction, policy.TramiteResource(*rec)); err != nil {
		return err
	}
	// las filas de documentos se borran en cascada, los objetos no
	docs, err := i.documentStore.List(documentsstore.ListFilter{TramiteID: id})
	if err != nil {
		return errors.Wrap(err, "error obteniendo los documentos del trámite")
	}
	err = i.inTx(func(tx txStores) error {
		if err := tx.tramites.Delete(id); err != nil {
			return err
		}
		// el trámite ya no existe, la entrada queda sin referencia
		return tx.history.Log(actor.ID, nil, "Eliminó trámite", fmt.Sprintf("Trámite %d (%s) de %s", id, rec.TypeName(), rec.OwnerName()))
	})
	if err != nil {
		log.WithError(err).WithField("tramite_id", id).Error("error eliminando el trámite")
		return err
	}
	for _, doc := range docs {
		err = i.storage.Delete(ctx, doc.PublicID, doc.ResourceType)
		if err != nil {
			log.WithError(err).
				WithField("tramite_id", id).
				WithField("public_id", doc.PublicID).
				Warn("no se pudo eliminar el archivo del almacenamiento")
		}
	}
	return nil
}

func (i impl) ListTypes() ([]tramiteapimodels.TramiteTypeView, error) {
	list, err := i.store.ListTypes()
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo los tipos de trámite")
	}
	result := make([]tramiteapimodels.TramiteTypeView, 0, len(list))
	for _, rec := range list {
		result = append(result, tramiteapimodels.TramiteTypeConvert(rec))
	}
	return result, nil
}

func (i impl) Receipt(actor models.Actor, id uint) ([]byte, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if err = policy.Can(actor, models.TramiteViewAction, policy.TramiteResource(*rec)); err != nil {
		return nil, err
	}
	docs, err := i.documentStore.List(documentsstore.ListFilter{TramiteID: id})
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo los documentos del trámite")
	}
	data := pdfexport.ReceiptData{
		TramiteID:   rec.ID,
		TypeName:    rec.TypeName(),
		OwnerName:   rec.OwnerName(),
		Status:      rec.Status.ToHuman(),
		Description: rec.Description,
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
		SubmittedAt: rec.SubmittedAt,
		GeneratedAt: i.now(),
	}
	if rec.User != nil {
		data.OwnerEmail = rec.User.Email
		if rec.User.Department != nil {
			data.Department = rec.User.Department.Name
		}
	}
	for _, doc := range docs {
		data.Documents = append(data.Documents, doc.OriginalName)
	}
	pdfFile, err := pdfexport.GenerateTramiteReceipt(data)
	if err != nil {
		log.WithError(err).WithField("tramite_id", id).Error("error generando el comprobante del trámite")
		return nil, errors.Wrap(err, "error generando el comprobante del trámite")
	}
	return pdfFile, nil
}

func (i impl) getRec(id uint) (*dbmodels.Tramite, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el trámite")
	}
	if rec == nil {
		return nil, apperrors.ErrTramiteNotFound
	}
	return rec, nil
}
