package db

import (
	"lariogistic-backend/config"
	usersstore "lariogistic-backend/lib/users/store"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var defaultTramiteTypes = []dbmodels.TramiteType{
	{Name: "Vacaciones", Description: "Solicitud de días de vacaciones", Status: models.StatusActive},
	{Name: "Permiso", Description: "Permiso de ausencia por horas o días", Status: models.StatusActive},
	{Name: "Crédito", Description: "Solicitud de crédito o adelanto", Status: models.StatusActive},
}

func InitPreload() {
	if err := fillTramiteTypes(DB); err != nil {
		log.WithError(err).Error("error cargando los tipos de trámite")
	}
	addAdmin(usersstore.NewInstance(DB), config.Conf.App.AdminEmail, config.Conf.App.AdminPassword)
}

func fillTramiteTypes(tx *gorm.DB) error {
	for _, rec := range defaultTramiteTypes {
		var count int64
		err := tx.Model(&dbmodels.TramiteType{}).
			Where("name = ?", rec.Name).
			Count(&count).
			Error
		if err != nil {
			return errors.Wrapf(err, "error verificando el tipo %s", rec.Name)
		}
		if count > 0 {
			continue
		}
		if err = tx.Create(&rec).Error; err != nil {
			return errors.Wrapf(err, "error creando el tipo %s", rec.Name)
		}
	}
	return nil
}

func addAdmin(store usersstore.Provider, email, password string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Warn("administrador inicial no creado, falta APP_ADMIN_EMAIL o APP_ADMIN_PASSWORD")
		return
	}
	existedRec, err := store.FindByEmail(email)
	if err != nil {
		log.WithError(err).Error("error creando el administrador inicial")
		return
	}
	if existedRec != nil {
		return
	}
	hash, err := authutils.HashPassword(password)
	if err != nil {
		log.WithError(err).Error("error creando el administrador inicial")
		return
	}
	rec := dbmodels.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: &hash,
		Role:         models.AdminRole,
		Status:       models.StatusActive,
	}
	if _, err = store.Create(&rec); err != nil {
		log.WithError(err).Error("error creando el administrador inicial")
		return
	}
	log.WithField("email", email).Info("administrador inicial creado")
}
