package fiberlog

import (
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagStatus  = "status"
	TagLatency = "latency"
	TagMethod  = "method"
	TagPath    = "path"
	TagRoute   = "route"
	TagIP      = "ip"
	TagActor   = "actor_id"
	RequestID  = "request_id"
)

type data struct {
	pid    int
	status int
	start  time.Time
	end    time.Time
}

// FuncTag obtiene el valor de un tag para la petición
type FuncTag func(c *fiber.Ctx, d *data) interface{}

var funcTags = map[string]FuncTag{
	TagPid: func(_ *fiber.Ctx, d *data) interface{} {
		return d.pid
	},
	TagStatus: func(_ *fiber.Ctx, d *data) interface{} {
		return d.status
	},
	TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Path()
	},
	TagRoute: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Route().Path
	},
	TagIP: func(c *fiber.Ctx, _ *data) interface{} {
		return c.IP()
	},
	TagActor: func(c *fiber.Ctx, _ *data) interface{} {
		if id := authutils.GetActorID(c); id != 0 {
			return id
		}
		return ""
	},
	RequestID: func(c *fiber.Ctx, _ *data) interface{} {
		return c.GetRespHeader(fiber.HeaderXRequestID)
	},
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := funcTags[tag]; ok {
			ftm[tag] = ft
		}
	}
	return ftm
}
