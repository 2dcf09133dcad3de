package initializers

import (
	"context"
	"fmt"
	"lariogistic-backend/config"
	filestorage "lariogistic-backend/lib/file-storage"
	s3client "lariogistic-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	useSSL := *config.Conf.S3.UseSSL
	client, err := s3client.NewClient(s3client.Options{
		Endpoint:        config.Conf.S3.Endpoint,
		AccessKeyID:     config.Conf.S3.AccessKeyID,
		SecretAccessKey: config.Conf.S3.SecretAccessKey,
		UseSSL:          useSSL,
	})
	if err != nil {
		log.WithError(err).Fatal("error de inicialización del cliente S3")
	}
	if err = s3client.EnsureBucket(ctx, client, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).Error("no se pudo verificar el bucket, la carga de documentos puede fallar")
	}

	publicURL := config.Conf.S3.PublicURL
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, config.Conf.S3.Endpoint)
	}
	filestorage.NewHandler(client, config.Conf.S3.BucketName, publicURL)
	log.Info("cliente S3 inicializado")
}
