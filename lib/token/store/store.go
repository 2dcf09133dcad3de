package refreshtokenstore

import (
	dbmodels "lariogistic-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.RefreshToken) (uint, error)
	FindActive(token string, now time.Time) (*dbmodels.RefreshToken, error)
	DeactivateByUser(userID uint) (int64, error)
	DeleteStale(now time.Time, inactiveBefore time.Time) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.RefreshToken) (uint, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) FindActive(token string, now time.Time) (*dbmodels.RefreshToken, error) {
	rec := dbmodels.RefreshToken{}
	err := i.db.
		Where("token = ?", token).
		Where("active = ?", true).
		Where("expires_at > ?", now).
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

func (i impl) DeactivateByUser(userID uint) (int64, error) {
	result := i.db.
		Model(&dbmodels.RefreshToken{}).
		Where("user_id = ?", userID).
		Where("active = ?", true).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// DeleteStale borra los vencidos y los revocados creados antes de inactiveBefore
func (i impl) DeleteStale(now time.Time, inactiveBefore time.Time) (int64, error) {
	result := i.db.
		Where("expires_at <= ? OR (active = ? AND created_at < ?)", now, false, inactiveBefore).
		Delete(&dbmodels.RefreshToken{})
	return result.RowsAffected, result.Error
}
