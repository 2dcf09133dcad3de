package dictapimodels

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"strings"
	"time"
	"unicode/utf8"
)

type DepartmentData struct {
	Name        string `json:"name"`        // único, hasta 50 caracteres
	Description string `json:"description"` // hasta 255 caracteres
}

func (c DepartmentData) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.MissingField("El nombre del departamento es requerido")
	}
	if utf8.RuneCountInString(c.Name) > dbmodels.DepartmentNameMaxLen {
		return apperrors.InvalidField("El nombre del departamento no puede exceder 50 caracteres")
	}
	if utf8.RuneCountInString(c.Description) > dbmodels.DepartmentDescriptionMaxLen {
		return apperrors.InvalidField("La descripción no puede exceder 255 caracteres")
	}
	return nil
}

type DepartmentUpdate struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *models.Status `json:"status"` // activo/inactivo
}

func (c DepartmentUpdate) Validate() error {
	if c.Name == nil && c.Description == nil && c.Status == nil {
		return apperrors.ErrNothingToUpdate
	}
	data := DepartmentData{Name: "-"}
	if c.Name != nil {
		data.Name = *c.Name
	}
	if c.Description != nil {
		data.Description = *c.Description
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if c.Status != nil && !c.Status.IsValid() {
		return apperrors.ErrInvalidStatus
	}
	return nil
}

type DepartmentView struct {
	DepartmentData
	ID         uint          `json:"id"`
	Status     models.Status `json:"status"`
	StatusName string        `json:"status_name"`
	CreatedAt  time.Time     `json:"created_at"`
}

func DepartmentConvert(rec dbmodels.Department) DepartmentView {
	return DepartmentView{
		DepartmentData: DepartmentData{
			Name:        rec.Name,
			Description: rec.Description,
		},
		ID:         rec.ID,
		Status:     rec.Status,
		StatusName: rec.Status.ToHuman(),
		CreatedAt:  rec.CreatedAt,
	}
}
