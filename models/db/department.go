package dbmodels

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	"unicode/utf8"
)

const (
	DepartmentNameMaxLen        = 50
	DepartmentDescriptionMaxLen = 255
)

type Department struct {
	BaseModel
	Name        string        `gorm:"type:varchar(50);uniqueIndex"`
	Description string        `gorm:"type:varchar(255)"`
	Status      models.Status `gorm:"type:varchar(10);default:activo;index"`
}

func (Department) TableName() string {
	return "departamentos"
}

func (d Department) IsActive() bool {
	return d.Status == models.StatusActive
}

func (d *Department) Validate() error {
	if d.Name == "" {
		return apperrors.MissingField("El nombre del departamento es requerido")
	}
	if utf8.RuneCountInString(d.Name) > DepartmentNameMaxLen {
		return apperrors.InvalidField("El nombre del departamento no puede exceder 50 caracteres")
	}
	if utf8.RuneCountInString(d.Description) > DepartmentDescriptionMaxLen {
		return apperrors.InvalidField("La descripción no puede exceder 255 caracteres")
	}
	if d.Status != "" && !d.Status.IsValid() {
		return apperrors.ErrInvalidStatus
	}
	return nil
}
