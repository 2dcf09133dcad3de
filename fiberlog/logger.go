package fiberlog

import (
	"os"
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// getLogrusFields ejecuta los FuncTag configurados
func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields)
	for k, ft := range ftm {
		value := ft(c, d)
		strValue, ok := value.(string)
		if ok {
			if strValue != "" {
				f[k] = strValue
			}
		} else {
			f[k] = value
		}
	}
	return f
}

// New middleware de log de peticiones
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) == 0 {
		cfg = ConfigDefault
	} else {
		cfg = config[0]
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		if slices.Contains(cfg.Skip, c.Path()) {
			return c.Next()
		}
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		d.status = statusCode(c, err)
		if c.Method() == fiber.MethodOptions {
			return err
		}

		var entity *log.Entry
		if cfg.Logger == nil {
			entity = log.WithFields(getLogrusFields(ftm, c, d))
		} else {
			entity = cfg.Logger.WithFields(getLogrusFields(ftm, c, d))
		}
		switch {
		case d.status >= fiber.StatusInternalServerError:
			entity.Error(message)
		case d.status >= fiber.StatusBadRequest:
			entity.Warn(message)
		default:
			entity.Info(message)
		}
		return err
	}
}

const message = "petición api"

// statusCode el error todavía no pasó por el ErrorHandler de fiber
func statusCode(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
