package tramitesstore

import (
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec *dbmodels.Tramite) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Tramite, err error)
	ListCount(filter ListFilter) (count int64, err error)
	List(filter ListFilter) (list []dbmodels.Tramite, err error)
	UpdateStatus(id uint, status models.TramiteStatus) error
	Delete(id uint) error
	GetType(id uint) (rec *dbmodels.TramiteType, err error)
	ListTypes() (list []dbmodels.TramiteType, err error)
}

// ListFilter alcance ya resuelto por el handler
type ListFilter struct {
	OwnerID       uint
	DepartmentID  *uint
	Status        models.TramiteStatus
	TramiteTypeID uint
	Page          int
	Limit         int
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec *dbmodels.Tramite) (id uint, err error) {
	err = i.db.
		Omit("User", "TramiteType").
		Create(rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Tramite, error) {
	rec := dbmodels.Tramite{}
	err := i.db.
		Preload("User").
		Preload("User.Department").
		Preload("TramiteType").
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

func (i impl) ListCount(filter ListFilter) (count int64, err error) {
	tx := i.applyFilter(i.db.Model(&dbmodels.Tramite{}), filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "error obteniendo el total de trámites")
	}
	return count, nil
}

func (i impl) List(filter ListFilter) (list []dbmodels.Tramite, err error) {
	list = []dbmodels.Tramite{}
	tx := i.applyFilter(i.db.Model(&dbmodels.Tramite{}), filter)
	if filter.Limit > 0 {
		tx = i.setPage(tx, filter.Page, filter.Limit)
	}
	err = tx.
		Preload("User").
		Preload("TramiteType").
		Order("tramites.submitted_at DESC").
		Order("tramites.id DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) UpdateStatus(id uint, status models.TramiteStatus) error {
	return i.db.
		Model(&dbmodels.Tramite{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (i impl) Delete(id uint) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Tramite{}).
		Error
}

func (i impl) GetType(id uint) (*dbmodels.TramiteType, error) {
	rec := dbmodels.TramiteType{}
	err := i.db.
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

func (i impl) ListTypes() (list []dbmodels.TramiteType, err error) {
	err = i.db.
		Where("status = ?", models.StatusActive).
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) applyFilter(tx *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.DepartmentID != nil {
		tx = tx.
			Joins("JOIN usuarios ON usuarios.id = tramites.user_id").
			Where("usuarios.department_id = ?", *filter.DepartmentID)
	}
	if filter.OwnerID != 0 {
		tx = tx.Where("tramites.user_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		tx = tx.Where("tramites.status = ?", filter.Status)
	}
	if filter.TramiteTypeID != 0 {
		tx = tx.Where("tramites.tramite_type_id = ?", filter.TramiteTypeID)
	}
	return tx
}

func (i impl) setPage(tx *gorm.DB, page, limit int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	return tx.Limit(limit).Offset(offset)
}
