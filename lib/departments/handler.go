package departmentshandler

import (
	"lariogistic-backend/db"
	departmentsstore "lariogistic-backend/lib/departments/store"
	historyhandler "lariogistic-backend/lib/history"
	historystore "lariogistic-backend/lib/history/store"
	"lariogistic-backend/lib/policy"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	initchecker "lariogistic-backend/lib/utils/init-checker"
	"lariogistic-backend/models"
	dictapimodels "lariogistic-backend/models/api/dict"
	dbmodels "lariogistic-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(actor models.Actor, data dictapimodels.DepartmentData) (id uint, err error)
	Update(actor models.Actor, id uint, data dictapimodels.DepartmentUpdate) error
	Get(actor models.Actor, id uint) (item dictapimodels.DepartmentView, err error)
	List(actor models.Actor) (list []dictapimodels.DepartmentView, err error)
	Delete(actor models.Actor, id uint) error
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
	)
	Instance = impl{
		store: departmentsstore.NewInstance(db.DB),
		inTx:  dbTx,
	}
}

type txStores struct {
	departments departmentsstore.Provider
	history     historyhandler.Logger
}

func dbTx(fn func(tx txStores) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(txStores{
			departments: departmentsstore.NewInstance(tx),
			history:     historyhandler.NewLogger(historystore.NewInstance(tx)),
		})
	})
}

type impl struct {
	store departmentsstore.Provider
	inTx  func(fn func(tx txStores) error) error
}

func (i impl) Create(actor models.Actor, data dictapimodels.DepartmentData) (id uint, err error) {
	if err = policy.Can(actor, models.DepartmentManageAction, policy.Resource{}); err != nil {
		return 0, err
	}
	if err = data.Validate(); err != nil {
		return 0, err
	}
	rec := dbmodels.Department{
		Name:        strings.TrimSpace(data.Name),
		Description: strings.TrimSpace(data.Description),
		Status:      models.StatusActive,
	}
	logger := log.WithField("department_name", rec.Name)
	err = i.inTx(func(tx txStores) error {
		id, err = tx.departments.Create(rec)
		if err != nil {
			return err
		}
		return tx.history.Log(actor.ID, nil, "Creó departamento", rec.Name)
	})
	if err != nil {
		logger.WithError(err).Warn("error creando el departamento")
		return 0, err
	}
	return id, nil
}

func (i impl) Update(actor models.Actor, id uint, data dictapimodels.DepartmentUpdate) error {
	if err := policy.Can(actor, models.DepartmentManageAction, policy.Resource{}); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{}
	changes := &dbmodels.EntityChanges{}
	if data.Name != nil && strings.TrimSpace(*data.Name) != rec.Name {
		name := strings.TrimSpace(*data.Name)
		changes.Add("name", rec.Name, name)
		updMap["name"] = name
	}
	if data.Description != nil && strings.TrimSpace(*data.Description) != rec.Description {
		description := strings.TrimSpace(*data.Description)
		changes.Add("description", rec.Description, description)
		updMap["description"] = description
	}
	if data.Status != nil && *data.Status != rec.Status {
		changes.Add("status", rec.Status, *data.Status)
		updMap["status"] = *data.Status
	}
	if len(updMap) == 0 {
		return nil
	}
	err = i.inTx(func(tx txStores) error {
		if err := tx.departments.Update(id, updMap); err != nil {
			return err
		}
		return tx.history.LogChanges(actor.ID, nil, "Actualizó departamento", rec.Name, changes)
	})
	if err != nil {
		log.WithError(err).WithField("department_id", id).Warn("error actualizando el departamento")
		return err
	}
	return nil
}

func (i impl) Get(actor models.Actor, id uint) (item dictapimodels.DepartmentView, err error) {
	if err = policy.Can(actor, models.DepartmentManageAction, policy.Resource{}); err != nil {
		return item, err
	}
	rec, err := i.getRec(id)
	if err != nil {
		return item, err
	}
	return dictapimodels.DepartmentConvert(*rec), nil
}

func (i impl) List(actor models.Actor) (list []dictapimodels.DepartmentView, err error) {
	if err = policy.Can(actor, models.DepartmentManageAction, policy.Resource{}); err != nil {
		return nil, err
	}
	recList, err := i.store.GetList()
	if err != nil {
		log.WithError(err).Error("error obteniendo la lista de departamentos")
		return nil, errors.Wrap(err, "error obteniendo la lista de departamentos")
	}
	result := make([]dictapimodels.DepartmentView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.DepartmentConvert(rec))
	}
	return result, nil
}

// Delete baja lógica, el registro queda inactivo
func (i impl) Delete(actor models.Actor, id uint) error {
	if err := policy.Can(actor, models.DepartmentManageAction, policy.Resource{}); err != nil {
		return err
	}
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if !rec.IsActive() {
		return apperrors.ErrDepartmentAlreadyClosed
	}
	err = i.inTx(func(tx txStores) error {
		if err := tx.departments.Update(id, map[string]interface{}{"status": models.StatusInactive}); err != nil {
			return err
		}
		return tx.history.Log(actor.ID, nil, "Desactivó departamento", rec.Name)
	})
	if err != nil {
		log.WithError(err).WithField("department_id", id).Error("error desactivando el departamento")
		return err
	}
	return nil
}

func (i impl) getRec(id uint) (*dbmodels.Department, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el departamento")
	}
	if rec == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return rec, nil
}
