package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "lariogistic-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("Ejecutando migraciones")
	if err := DB.AutoMigrate(&dbmodels.Department{}); err != nil {
		return errors.Wrap(err, "error creando la estructura Department")
	}
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "error creando la estructura User")
	}
	if err := DB.AutoMigrate(&dbmodels.RefreshToken{}); err != nil {
		return errors.Wrap(err, "error creando la estructura RefreshToken")
	}
	if err := DB.AutoMigrate(&dbmodels.TramiteType{}); err != nil {
		return errors.Wrap(err, "error creando la estructura TramiteType")
	}
	if err := DB.AutoMigrate(&dbmodels.Tramite{}); err != nil {
		return errors.Wrap(err, "error creando la estructura Tramite")
	}
	if err := DB.AutoMigrate(&dbmodels.Document{}); err != nil {
		return errors.Wrap(err, "error creando la estructura Document")
	}
	if err := DB.AutoMigrate(&dbmodels.History{}); err != nil {
		return errors.Wrap(err, "error creando la estructura History")
	}
	log.Info("Migración completada")
	return nil
}
