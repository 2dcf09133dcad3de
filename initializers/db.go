package initializers

import (
	"lariogistic-backend/config"
	"lariogistic-backend/db"

	log "github.com/sirupsen/logrus"
)

func InitDBConnection() {
	err := db.Connect(db.Options{
		Host:           config.Conf.Database.Host,
		Port:           config.Conf.Database.Port,
		Database:       config.Conf.Database.Name,
		User:           config.Conf.Database.User,
		Password:       config.Conf.Database.Password,
		PoolSize:       config.Conf.Database.PoolSize,
		ConnectTimeout: config.Conf.Database.ConnectTimeout,
		RetryAttempts:  config.Conf.Database.RetryAttempts,
		RetryMinDelay:  config.Conf.Database.RetryMinDelay,
		RetryMaxDelay:  config.Conf.Database.RetryMaxDelay,
		DebugMode:      *config.Conf.Database.DebugMode,
		Migrate:        *config.Conf.Database.MigrateOnStart,
	})
	if err != nil {
		log.WithError(err).Fatal("no se pudo conectar a la base de datos")
	}

	db.InitPreload()
}
