package historystore

import (
	dbmodels "lariogistic-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec *dbmodels.History) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.History, err error)
	ListCount(filter ListFilter) (count int64, err error)
	List(filter ListFilter) (list []dbmodels.History, err error)
	Update(id uint, updMap map[string]interface{}) error
	Delete(id uint) error
}

type ListFilter struct {
	UserID    uint
	TramiteID uint
	Page      int
	Limit     int // 0 sin paginación
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec *dbmodels.History) (id uint, err error) {
	err = i.db.
		Omit("User", "Tramite").
		Create(rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.History, error) {
	rec := dbmodels.History{}
	err := i.db.
		Preload("User").
		Preload("Tramite").
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
	tx := i.applyFilter(i.db.Model(&dbmodels.History{}), filter)
	err = tx.Count(&count).Error
	if err != nil {
		log.WithError(err).Error("error obteniendo el total del historial")
		return 0, errors.Wrap(err, "error obteniendo el total del historial")
	}
	return count, nil
}

func (i impl) List(filter ListFilter) (list []dbmodels.History, err error) {
	list = []dbmodels.History{}
	tx := i.applyFilter(i.db.Model(&dbmodels.History{}), filter)
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}
	err = tx.
		Preload("User").
		Preload("Tramite").
		Order("action_at DESC").
		Order("id DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.History{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id uint) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.History{}).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.UserID != 0 {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.TramiteID != 0 {
		tx = tx.Where("tramite_id = ?", filter.TramiteID)
	}
	return tx
}
