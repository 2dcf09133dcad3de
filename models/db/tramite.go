package dbmodels

import (
	"lariogistic-backend/models"
	"time"
)

type TramiteType struct {
	ID          uint          `gorm:"primaryKey;autoIncrement"`
	Name        string        `gorm:"type:varchar(100);uniqueIndex"`
	Description string        `gorm:"type:varchar(255)"`
	Status      models.Status `gorm:"type:varchar(10);default:activo"`
}

func (TramiteType) TableName() string {
	return "tipos_tramites"
}

type Tramite struct {
	BaseModel
	UserID        uint                 `gorm:"index"`
	User          *User                `gorm:"foreignKey:UserID"`
	TramiteTypeID uint                 `gorm:"index"`
	TramiteType   *TramiteType         `gorm:"foreignKey:TramiteTypeID"`
	SubmittedAt   time.Time            `gorm:"index"`
	Status        models.TramiteStatus `gorm:"type:varchar(20);default:pendiente;index"`
	Description   string               `gorm:"type:text"`
	StartDate     time.Time            `gorm:"type:date"`
	EndDate       time.Time            `gorm:"type:date"`
}

func (Tramite) TableName() string {
	return "tramites"
}

// OwnerDepartmentID departamento del solicitante, requiere User precargado
func (t Tramite) OwnerDepartmentID() *uint {
	if t.User == nil {
		return nil
	}
	return t.User.DepartmentID
}

func (t Tramite) OwnerName() string {
	if t.User == nil {
		return ""
	}
	return t.User.Name
}

func (t Tramite) TypeName() string {
	if t.TramiteType == nil {
		return ""
	}
	return t.TramiteType.Name
}
