package main

import (
	"context"
	"fmt"
	"lariogistic-backend/config"
	"lariogistic-backend/controllers"
	apiv1 "lariogistic-backend/controllers/v1"
	"lariogistic-backend/fiberlog"
	"lariogistic-backend/initializers"
	"lariogistic-backend/lib/metrics"
	"lariogistic-backend/middleware"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: controllers.ErrorHandler,
		// todos los archivos de una carga más el resto del formulario
		BodyLimit: int(config.Conf.Upload.MaxFileSize)*config.Conf.Upload.MaxFiles + 1024*1024,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.Conf.App.CorsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	app.Use(metrics.Middleware())
	app.Use(fiberlog.New(*initializers.LoggerConfig))

	if *config.Conf.App.SwaggerEnabled {
		if _, err := os.Stat(swaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				Path:     "/swagger",
				FilePath: swaggerFile,
			}))
		} else {
			log.Warn("documentación swagger no generada, ejecutar swag init")
		}
	}

	app.Get("/metrics", metrics.Handler())
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	//api
	apiV1 := app.Group("/api/v1")
	apiv1.InitAuthApiRouters(apiV1)

	private := apiV1.Group("", middleware.AuthorizationRequired(), middleware.RbacMiddleware(), middleware.ApiLimiter())
	apiv1.InitUsersApiRouters(private)
	apiv1.InitDepartmentsApiRouters(private)
	apiv1.InitTramitesApiRouters(private)
	apiv1.InitDocumentsApiRouters(private)
	apiv1.InitHistoryApiRouters(private)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	addr := fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)
	log.WithField("env", strings.ToLower(config.Conf.App.Env)).Infof("HTTP server listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
