package documentshandler

import (
	"context"
	"fmt"
	"lariogistic-backend/config"
	"lariogistic-backend/db"
	documentsstore "lariogistic-backend/lib/documents/store"
	filestorage "lariogistic-backend/lib/file-storage"
	historyhandler "lariogistic-backend/lib/history"
	historystore "lariogistic-backend/lib/history/store"
	"lariogistic-backend/lib/metrics"
	"lariogistic-backend/lib/policy"
	tramitesstore "lariogistic-backend/lib/tramites/store"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	initchecker "lariogistic-backend/lib/utils/init-checker"
	"lariogistic-backend/models"
	docapimodels "lariogistic-backend/models/api/documents"
	dbmodels "lariogistic-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const StorageFolder = "tramites/documentos"

type Provider interface {
	Attach(ctx context.Context, actor models.Actor, tramiteID uint, files []docapimodels.Upload) ([]docapimodels.DocumentView, error)
	List(actor models.Actor, tramiteID uint) ([]docapimodels.DocumentView, error)
	Get(actor models.Actor, id uint) (*docapimodels.DocumentView, error)
	Replace(ctx context.Context, actor models.Actor, id uint, request docapimodels.ReplaceRequest) (*docapimodels.DocumentView, error)
	Remove(ctx context.Context, actor models.Actor, id uint) error
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"filestorage", filestorage.Instance,
	)
	Instance = impl{
		store:        documentsstore.NewInstance(db.DB),
		tramiteStore: tramitesstore.NewInstance(db.DB),
		storage:      filestorage.Instance,
		inTx:         dbTx,
		maxFiles:     config.Conf.Upload.MaxFiles,
		maxFileSize:  config.Conf.Upload.MaxFileSize,
		now:          time.Now,
	}
}

type txStores struct {
	documents documentsstore.Provider
	history   historyhandler.Logger
}

func dbTx(fn func(tx txStores) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(txStores{
			documents: documentsstore.NewInstance(tx),
			history:   historyhandler.NewLogger(historystore.NewInstance(tx)),
		})
	})
}

type impl struct {
	store        documentsstore.Provider
	tramiteStore tramitesstore.Provider
	storage      filestorage.Provider
	inTx         func(fn func(tx txStores) error) error
	maxFiles     int
	maxFileSize  int64
	now          func() time.Time
}

func (i impl) Attach(ctx context.Context, actor models.Actor, tramiteID uint, files []docapimodels.Upload) ([]docapimodels.DocumentView, error) {
	tramite, err := i.getTramite(tramiteID)
	if err != nil {
		return nil, err
	}
	if err = policy.Can(actor, models.DocumentAttachAction, policy.TramiteResource(*tramite)); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperrors.ErrNoFilesProvided
	}
	if i.maxFiles > 0 && len(files) > i.maxFiles {
		return nil, apperrors.ErrTooManyFiles
	}
	// se valida todo el lote antes de subir nada
	for _, file := range files {
		if err = i.checkFile(file); err != nil {
			return nil, err
		}
	}
	result := make([]docapimodels.DocumentView, 0, len(files))
	for _, file := range files {
		rec, err := i.attachOne(ctx, actor, tramiteID, file)
		if err != nil {
			return nil, err
		}
		rec.Tramite = tramite
		result = append(result, docapimodels.DocumentConvert(*rec))
	}
	return result, nil
}

func (i impl) attachOne(ctx context.Context, actor models.Actor, tramiteID uint, file docapimodels.Upload) (*dbmodels.Document, error) {
	docType := models.ClassifyDocument(file.ContentType)
	stored, err := i.storage.Upload(ctx, file, StorageFolder, docType.ResourceType())
	if err != nil {
		return nil, err
	}
	rec := dbmodels.Document{
		TramiteID:    tramiteID,
		PublicID:     stored.PublicID,
		URL:          stored.URL,
		Type:         docType,
		ResourceType: docType.ResourceType(),
		OriginalName: file.FileName,
		Size:         int64(len(file.Data)),
		UploadedAt:   i.now(),
	}
	err = i.inTx(func(tx txStores) error {
		if _, err := tx.documents.Create(&rec); err != nil {
			return err
		}
		return tx.history.Log(actor.ID, &tramiteID, "Adjuntó documento", "Adjuntó documento: "+file.FileName)
	})
	if err != nil {
		log.WithError(err).WithField("tramite_id", tramiteID).Error("error guardando el documento")
		i.deleteStored(ctx, stored.PublicID, rec.ResourceType)
		return nil, err
	}
	metrics.DocumentUploaded(string(docType))
	return &rec, nil
}

func (i impl) List(actor models.Actor, tramiteID uint) ([]docapimodels.DocumentView, error) {
	filter := documentsstore.ListFilter{TramiteID: tramiteID}
	if tramiteID != 0 {
		tramite, err := i.getTramite(tramiteID)
		if err != nil {
			return nil, err
		}
		if err = policy.Can(actor, models.DocumentViewAction, policy.TramiteResource(*tramite)); err != nil {
			return nil, err
		}
	} else {
		switch actor.Role {
		case models.AdminRole:
		case models.ManagerRole:
			if actor.DepartmentID == nil {
				return []docapimodels.DocumentView{}, nil
			}
			filter.DepartmentID = actor.DepartmentID
		case models.EmployeeRole:
			filter.OwnerID = actor.ID
		default:
			return nil, apperrors.ErrForbidden
		}
	}
	list, err := i.store.List(filter)
	if err != nil {
		log.WithError(err).Error("error obteniendo la lista de documentos")
		return nil, errors.Wrap(err, "error obteniendo la lista de documentos")
	}
	result := make([]docapimodels.DocumentView, 0, len(list))
	for _, rec := range list {
		result = append(result, docapimodels.DocumentConvert(rec))
	}
	return result, nil
}

func (i impl) Get(actor models.Actor, id uint) (*docapimodels.DocumentView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if err = policy.Can(actor, models.DocumentViewAction, policy.DocumentResource(*rec)); err != nil {
		return nil, err
	}
	view := docapimodels.DocumentConvert(*rec)
	return &view, nil
}

func (i impl) Replace(ctx context.Context, actor models.Actor, id uint, request docapimodels.ReplaceRequest) (*docapimodels.DocumentView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if err = policy.Can(actor, models.DocumentReplaceAction, policy.DocumentResource(*rec)); err != nil {
		return nil, err
	}
	reassign := request.TramiteID != nil && *request.TramiteID != rec.TramiteID
	if request.File == nil && !reassign {
		return nil, apperrors.ErrNothingToUpdate
	}
	updMap := map[string]interface{}{}
	if reassign {
		if err = policy.Can(actor, models.DocumentReassignAction, policy.DocumentResource(*rec)); err != nil {
			return nil, err
		}
		if _, err = i.getTramite(*request.TramiteID); err != nil {
			return nil, err
		}
		updMap["tramite_id"] = *request.TramiteID
	}
	var stored *filestorage.StoredFile
	var docType models.DocumentType
	if request.File != nil {
		if err = i.checkFile(*request.File); err != nil {
			return nil, err
		}
		docType = models.ClassifyDocument(request.File.ContentType)
		stored, err = i.storage.Upload(ctx, *request.File, StorageFolder, docType.ResourceType())
		if err != nil {
			return nil, err
		}
		updMap["public_id"] = stored.PublicID
		updMap["url"] = stored.URL
		updMap["type"] = docType
		updMap["resource_type"] = docType.ResourceType()
		updMap["original_name"] = request.File.FileName
		updMap["size"] = int64(len(request.File.Data))
		updMap["uploaded_at"] = i.now()
	}
	name := rec.OriginalName
	if request.File != nil {
		name = request.File.FileName
	}
	err = i.inTx(func(tx txStores) error {
		if err := tx.documents.Update(id, updMap); err != nil {
			return err
		}
		tramiteID := rec.TramiteID
		if reassign {
			tramiteID = *request.TramiteID
		}
		return tx.history.Log(actor.ID, &tramiteID, "Actualizó documento", "Actualizó documento: "+name)
	})
	if err != nil {
		log.WithError(err).WithField("document_id", id).Error("error actualizando el documento")
		if stored != nil {
			i.deleteStored(ctx, stored.PublicID, docType.ResourceType())
		}
		return nil, err
	}
	if stored != nil && !request.Retain {
		i.deleteStored(ctx, rec.PublicID, rec.ResourceType)
	}
	if stored != nil {
		metrics.DocumentUploaded(string(docType))
	}
	return i.Get(actor, id)
}

func (i impl) Remove(ctx context.Context, actor models.Actor, id uint) error {
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if err = policy.Can(actor, models.DocumentRemoveAction, policy.DocumentResource(*rec)); err != nil {
		return err
	}
	err = i.storage.Delete(ctx, rec.PublicID, rec.ResourceType)
	if err != nil {
		log.WithError(err).WithField("document_id", id).Error("error eliminando el archivo del almacenamiento")
		return err
	}
	err = i.inTx(func(tx txStores) error {
		if err := tx.documents.Delete(id); err != nil {
			return err
		}
		return tx.history.Log(actor.ID, &rec.TramiteID, "Eliminó documento", "Eliminó documento: "+rec.OriginalName)
	})
	if err != nil {
		log.WithError(err).WithField("document_id", id).Error("error eliminando el documento")
		return err
	}
	return nil
}

func (i impl) checkFile(file docapimodels.Upload) error {
	if len(file.Data) == 0 {
		return apperrors.ErrEmptyFile
	}
	if i.maxFileSize > 0 && int64(len(file.Data)) > i.maxFileSize {
		return apperrors.ErrFileTooLarge.WithCause(fmt.Errorf("%s: %d bytes", file.FileName, len(file.Data)))
	}
	return filestorage.CheckSignature(file.Data, file.ContentType)
}

// deleteStored el objeto huérfano solo se registra en el log
func (i impl) deleteStored(ctx context.Context, publicID string, resourceType models.ResourceType) {
	err := i.storage.Delete(ctx, publicID, resourceType)
	if err != nil {
		log.WithError(err).WithField("public_id", publicID).Warn("no se pudo eliminar el archivo del almacenamiento")
	}
}

func (i impl) getRec(id uint) (*dbmodels.Document, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el documento")
	}
	if rec == nil {
		return nil, apperrors.ErrDocumentNotFound
	}
	return rec, nil
}

func (i impl) getTramite(id uint) (*dbmodels.Tramite, error) {
	rec, err := i.tramiteStore.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el trámite")
	}
	if rec == nil {
		return nil, apperrors.ErrTramiteNotFound
	}
	return rec, nil
}
