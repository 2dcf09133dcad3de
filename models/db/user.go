package dbmodels

import (
	"lariogistic-backend/models"
)

type User struct {
	BaseModel
	Name         string          `gorm:"type:varchar(100);index"`
	Email        string          `gorm:"type:varchar(150);uniqueIndex"`
	PasswordHash *string         `gorm:"type:varchar(100)"`
	GoogleID     *string         `gorm:"type:varchar(100);uniqueIndex"`
	Role         models.UserRole `gorm:"type:smallint;index"`
	DepartmentID *uint           `gorm:"index"`
	Department   *Department     `gorm:"foreignKey:DepartmentID"`
	Phone        string          `gorm:"type:varchar(20)"`
	Address      string          `gorm:"type:varchar(255)"`
	Status       models.Status   `gorm:"type:varchar(10);default:activo;index"`
}

func (User) TableName() string {
	return "usuarios"
}

func (u User) IsActive() bool {
	return u.Status == models.StatusActive
}

func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u User) ToActor() models.Actor {
	return models.Actor{
		ID:           u.ID,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
	}
}
