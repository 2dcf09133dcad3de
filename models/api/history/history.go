package historyapimodels

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	apimodels "lariogistic-backend/models/api"
	dbmodels "lariogistic-backend/models/db"
	"strings"
	"time"
	"unicode/utf8"
)

type HistoryData struct {
	UserID      uint   `json:"user_id"`    // usuario que ejecutó la acción
	TramiteID   *uint  `json:"tramite_id"` // opcional
	Action      string `json:"action"`     // hasta 100 caracteres
	Description string `json:"description"`
}

func (r HistoryData) Validate() error {
	if r.UserID == 0 {
		return apperrors.MissingField("El usuario es requerido")
	}
	return ValidateEntry(r.Action, r.Description)
}

type HistoryUpdate struct {
	Action      *string `json:"action"`
	Description *string `json:"description"`
}

func (r HistoryUpdate) Validate() error {
	if r.Action == nil && r.Description == nil {
		return apperrors.ErrNothingToUpdate
	}
	action, description := "-", ""
	if r.Action != nil {
		action = *r.Action
	}
	if r.Description != nil {
		description = *r.Description
	}
	return ValidateEntry(action, description)
}

// ValidateEntry reglas comunes para el log interno y la API
func ValidateEntry(action, description string) error {
	if strings.TrimSpace(action) == "" {
		return apperrors.MissingField("La acción es requerida")
	}
	if utf8.RuneCountInString(action) > dbmodels.HistoryActionMaxLen {
		return apperrors.InvalidField("La acción no puede exceder 100 caracteres")
	}
	if len(description) > dbmodels.HistoryDescriptionMaxLen {
		return apperrors.InvalidField("La descripción es demasiado larga")
	}
	return nil
}

type ListFilter struct {
	apimodels.Pagination
	UserID    uint `json:"user_id" query:"user_id"`
	TramiteID uint `json:"tramite_id" query:"tramite_id"`
}

type HistoryView struct {
	ID            uint                    `json:"id"`
	UserID        uint                    `json:"user_id"`
	UserName      string                  `json:"user_name"`
	TramiteID     *uint                   `json:"tramite_id"`
	TramiteTypeID *uint                   `json:"tramite_type_id"`
	Action        string                  `json:"action"`
	Description   string                  `json:"description"`
	Changes       *dbmodels.EntityChanges `json:"changes,omitempty"`
	ActionAt      time.Time               `json:"action_at"`
}

func HistoryConvert(rec dbmodels.History) HistoryView {
	return HistoryView{
		ID:            rec.ID,
		UserID:        rec.UserID,
		UserName:      rec.UserName(),
		TramiteID:     rec.TramiteID,
		TramiteTypeID: rec.TramiteTypeID(),
		Action:        rec.Action,
		Description:   rec.Description,
		Changes:       rec.Changes,
		ActionAt:      rec.ActionAt,
	}
}
