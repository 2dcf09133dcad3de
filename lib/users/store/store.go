package usersstore

import (
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec *dbmodels.User) (uint, error)
	Update(id uint, updMap map[string]interface{}) error
	GetByID(id uint) (*dbmodels.User, error)
	FindByEmail(email string) (*dbmodels.User, error)
	ExistByEmail(email string) (bool, error)
	GetList(filter ListFilter) ([]dbmodels.User, error)
	FindAdmin() (*dbmodels.User, error)
}

// ListFilter nil/0 sin filtro
type ListFilter struct {
	ExcludeAdmins bool
	DepartmentID  *uint
	Role          models.UserRole
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec *dbmodels.User) (uint, error) {
	rec.Email = normalizeEmail(rec.Email)
	err := i.db.
		Create(rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) GetByID(id uint) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Preload("Department").
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

func (i impl) FindByEmail(email string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Preload("Department").
		Where("email = ?", normalizeEmail(email)).
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

func (i impl) ExistByEmail(email string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) GetList(filter ListFilter) (list []dbmodels.User, err error) {
	tx := i.db.
		Model(&dbmodels.User{}).
		Preload("Department")
	if filter.ExcludeAdmins {
		tx = tx.Where("role <> ?", models.AdminRole)
	}
	if filter.DepartmentID != nil {
		tx = tx.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Role != 0 {
		tx = tx.Where("role = ?", filter.Role)
	}
	err = tx.
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) FindAdmin() (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("role = ?", models.AdminRole).
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

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
