package authapimodels

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	usersapimodels "lariogistic-backend/models/api/users"
	"strings"
)

type Session struct {
	AccessToken  string                  `json:"access_token"`
	RefreshToken string                  `json:"refresh_token"`
	User         usersapimodels.UserView `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return apperrors.MissingField("El token de refresco es requerido")
	}
	return nil
}

type RefreshResponse struct {
	AccessToken string                  `json:"access_token"`
	User        usersapimodels.UserView `json:"user"`
}

type MeView struct {
	usersapimodels.UserView
	Permissions map[models.Module][]models.Permission `json:"permissions"` // permisos para el front
}
