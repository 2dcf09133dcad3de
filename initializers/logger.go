package initializers

import (
	"lariogistic-backend/config"
	"lariogistic-backend/fiberlog"

	log "github.com/sirupsen/logrus"
)

func InitLogger() *fiberlog.Config {
	level, err := log.ParseLevel(config.Conf.App.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	formatter := &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
	log.SetFormatter(formatter)
	log.SetLevel(level)

	logger := log.New()
	logger.SetFormatter(formatter)
	logger.SetLevel(level)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagRoute,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagIP,
			fiberlog.TagActor,
			fiberlog.RequestID,
		},
		Skip: []string{"/metrics"},
	}
}
