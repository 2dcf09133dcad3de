package documentsstore

import (
	dbmodels "lariogistic-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec *dbmodels.Document) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Document, err error)
	List(filter ListFilter) (list []dbmodels.Document, err error)
	Update(id uint, updMap map[string]interface{}) error
	Delete(id uint) error
}

// ListFilter el alcance por rol lo arma el handler
type ListFilter struct {
	TramiteID    uint
	OwnerID      uint
	DepartmentID *uint
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec *dbmodels.Document) (id uint, err error) {
	err = i.db.
		Omit("Tramite").
		Create(rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
	err := i.db.
		Preload("Tramite").
		Preload("Tramite.User").
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(filter ListFilter) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	tx := i.db.
		Model(&dbmodels.Document{}).
		Joins("JOIN tramites ON tramites.id = documentos.tramite_id")
	if filter.DepartmentID != nil {
		tx = tx.
			Joins("JOIN usuarios ON usuarios.id = tramites.user_id").
			Where("usuarios.department_id = ?", *filter.DepartmentID)
	}
	if filter.OwnerID != 0 {
		tx = tx.Where("tramites.user_id = ?", filter.OwnerID)
	}
	if filter.TramiteID != 0 {
		tx = tx.Where("documentos.tramite_id = ?", filter.TramiteID)
	}
	err = tx.
		Preload("Tramite").
		Order("documentos.uploaded_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id uint) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Document{}).
		Error
}
