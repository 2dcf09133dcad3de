package fiberlog

import "github.com/sirupsen/logrus"

// Config configuración del middleware
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	Skip   []string // rutas que no se registran
}

// ConfigDefault configuración por defecto
var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
}
