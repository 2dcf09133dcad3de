package initializers

import (
	"context"
	"lariogistic-backend/config"
	"lariogistic-backend/fiberlog"
	authhandler "lariogistic-backend/lib/auth"
	googleauth "lariogistic-backend/lib/auth/google"
	departmentshandler "lariogistic-backend/lib/departments"
	documentshandler "lariogistic-backend/lib/documents"
	xlsexport "lariogistic-backend/lib/export/xls"
	historyhandler "lariogistic-backend/lib/history"
	"lariogistic-backend/lib/rbac"
	tokenservice "lariogistic-backend/lib/token"
	tokenworker "lariogistic-backend/lib/token/worker"
	tramiteshandler "lariogistic-backend/lib/tramites"
	usershandler "lariogistic-backend/lib/users"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitDBConnection()
	InitS3(ctx)
	initTokens()
	rbac.NewHandler()
	googleauth.NewHandler(googleauth.Options{
		ClientID:     config.Conf.Google.ClientID,
		ClientSecret: config.Conf.Google.ClientSecret,
		RedirectURI:  config.Conf.Google.RedirectURI,
	})
	authhandler.NewHandler()
	usershandler.NewHandler()
	departmentshandler.NewHandler()
	xlsexport.NewHandler()
	historyhandler.NewHandler()
	tramiteshandler.NewHandler()
	documentshandler.NewHandler()
	initWorkers(ctx)
}

func initTokens() {
	privateKey, publicKey, err := tokenservice.LoadKeys(tokenservice.KeyOptions{
		PrivateKeyPEM: config.Conf.Auth.PrivateKey,
		PublicKeyPEM:  config.Conf.Auth.PublicKey,
		KeysDir:       config.Conf.Auth.KeysDir,
		Development:   config.Conf.IsDevelopment(),
	})
	if err != nil {
		log.WithError(err).Fatal("no se pudieron cargar las claves JWT")
	}
	tokenservice.NewHandler(tokenservice.Options{
		PrivateKey: privateKey,
		PublicKey:  publicKey,
		AccessTTL:  config.Conf.Auth.AccessTokenTTL,
		RefreshTTL: config.Conf.Auth.RefreshTokenTTL,
	})
}

func initWorkers(ctx context.Context) {
	// limpieza de refresh tokens vencidos o revocados
	tokenworker.StartWorker(ctx, config.Conf.Auth.CleanupInterval, config.Conf.Auth.CleanupRetain)
}
