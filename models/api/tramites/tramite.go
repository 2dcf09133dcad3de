package tramiteapimodels

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	apimodels "lariogistic-backend/models/api"
	dbmodels "lariogistic-backend/models/db"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateLayout         = "2006-01-02"
	descriptionMaxLen  = 1000
	observationsMaxLen = 500
)

type CreateRequest struct {
	TramiteTypeID uint   `json:"tramite_type_id"` // tipo de trámite
	Description   string `json:"description"`
	StartDate     string `json:"start_date"` // YYYY-MM-DD
	EndDate       string `json:"end_date"`   // YYYY-MM-DD
}

func (r CreateRequest) Validate() error {
	if r.TramiteTypeID == 0 {
		return apperrors.MissingField("Tipo de trámite es requerido")
	}
	if strings.TrimSpace(r.StartDate) == "" || strings.TrimSpace(r.EndDate) == "" {
		return apperrors.MissingField("Las fechas de inicio y fin son requeridas")
	}
	if utf8.RuneCountInString(r.Description) > descriptionMaxLen {
		return apperrors.InvalidField("La descripción no puede exceder 1000 caracteres")
	}
	_, _, err := r.Dates()
	return err
}

// Dates fechas parseadas, inicio <= fin
func (r CreateRequest) Dates() (start, end time.Time, err error) {
	start, err = ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidField("Fecha de inicio inválida, formato esperado YYYY-MM-DD")
	}
	end, err = ParseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidField("Fecha de fin inválida, formato esperado YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	return start, end, nil
}

func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

type StatusRequest struct {
	Status       models.TramiteStatus `json:"status"`       // pendiente/aprobado/rechazado/en_revision
	Observations string               `json:"observations"` // se guarda en el historial
}

func (r StatusRequest) Validate() error {
	if r.Status == "" {
		return apperrors.MissingField("El estado es requerido")
	}
	if !r.Status.IsValid() {
		return apperrors.ErrInvalidState
	}
	if utf8.RuneCountInString(r.Observations) > observationsMaxLen {
		return apperrors.InvalidField("Las observaciones no pueden exceder 500 caracteres")
	}
	return nil
}

type ListFilter struct {
	apimodels.Pagination
	Status        models.TramiteStatus `json:"status" query:"status"`
	TramiteTypeID uint                 `json:"tramite_type_id" query:"tramite_type_id"`
	UserID        uint                 `json:"user_id" query:"user_id"`
}

func (r ListFilter) Validate() error {
	if r.Status != "" && !r.Status.IsValid() {
		return apperrors.ErrInvalidState
	}
	return nil
}

type TramiteView struct {
	ID              uint                 `json:"id"`
	UserID          uint                 `json:"user_id"`
	UserName        string               `json:"user_name"`
	TramiteTypeID   uint                 `json:"tramite_type_id"`
	TramiteTypeName string               `json:"tramite_type_name"`
	SubmittedAt     time.Time            `json:"submitted_at"`
	Status          models.TramiteStatus `json:"status"`
	StatusName      string               `json:"status_name"`
	Description     string               `json:"description"`
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
}

func TramiteConvert(rec dbmodels.Tramite) TramiteView {
	return TramiteView{
		ID:              rec.ID,
		UserID:          rec.UserID,
		UserName:        rec.OwnerName(),
		TramiteTypeID:   rec.TramiteTypeID,
		TramiteTypeName: rec.TypeName(),
		SubmittedAt:     rec.SubmittedAt,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		Description:     rec.Description,
		StartDate:       rec.StartDate.Format(DateLayout),
		EndDate:         rec.EndDate.Format(DateLayout),
	}
}

type TramiteTypeView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func TramiteTypeConvert(rec dbmodels.TramiteType) TramiteTypeView {
	return TramiteTypeView{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
	}
}
