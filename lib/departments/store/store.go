package departmentsstore

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Department) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Department, err error)
	GetList() (list []dbmodels.Department, err error)
	Update(id uint, updMap map[string]interface{}) error
	IsUnique(name string, excludeID uint) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Department) (id uint, err error) {
	if rec.Status == "" {
		rec.Status = models.StatusActive
	}
	err = rec.Validate()
	if err != nil {
		return 0, err
	}
	err = i.IsUnique(rec.Name, 0)
	if err != nil {
		return 0, err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperrors.ErrDepartmentExists
		}
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Department, error) {
	rec := dbmodels.Department{}
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

func (i impl) GetList() (list []dbmodels.Department, err error) {
	err = i.db.
		Model(&dbmodels.Department{}).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	if name, ok := updMap["name"]; ok {
		if err := i.IsUnique(name.(string), id); err != nil {
			return err
		}
	}
	err := i.db.
		Model(&dbmodels.Department{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDepartmentExists
	}
	return err
}

// IsUnique comparación sin distinguir mayúsculas
func (i impl) IsUnique(name string, excludeID uint) error {
	var count int64
	tx := i.db.
		Model(&dbmodels.Department{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	err := tx.Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrDepartmentExists
	}
	return nil
}
