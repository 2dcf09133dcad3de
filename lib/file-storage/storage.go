package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"lariogistic-backend/models"
	docapimodels "lariogistic-backend/models/api/documents"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type StoredFile struct {
	URL      string
	PublicID string
}

type Provider interface {
	Upload(ctx context.Context, file docapimodels.Upload, folder string, resourceType models.ResourceType) (*StoredFile, error)
	Delete(ctx context.Context, publicID string, resourceType models.ResourceType) error
}

var Instance Provider

// ObjectClient subconjunto de *minio.Client que se usa
type ObjectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

func NewHandler(client ObjectClient, bucket, publicURL string) {
	Instance = NewInstance(client, bucket, publicURL)
}

func NewInstance(client ObjectClient, bucket, publicURL string) Provider {
	return &impl{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

type impl struct {
	client    ObjectClient
	bucket    string
	publicURL string
}

func (i impl) Upload(ctx context.Context, file docapimodels.Upload, folder string, resourceType models.ResourceType) (*StoredFile, error) {
	err := CheckSignature(file.Data, file.ContentType)
	if err != nil {
		return nil, err
	}
	key := i.objectKey(folder, resourceType, file.FileName)
	_, err = i.client.PutObject(ctx, i.bucket, key, bytes.NewReader(file.Data), int64(len(file.Data)), minio.PutObjectOptions{
		ContentType: NormalizeMime(file.ContentType),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error subiendo el archivo al almacenamiento")
	}
	log.
		WithField("public_id", key).
		WithField("resource_type", resourceType).
		Debug("archivo subido")
	return &StoredFile{
		URL:      fmt.Sprintf("%s/%s/%s", i.publicURL, i.bucket, key),
		PublicID: key,
	}, nil
}

func (i impl) Delete(ctx context.Context, publicID string, resourceType models.ResourceType) error {
	if publicID == "" {
		return nil
	}
	err := i.client.RemoveObject(ctx, i.bucket, publicID, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrapf(err, "error eliminando el archivo %s (%s)", publicID, resourceType)
	}
	return nil
}

func (i impl) objectKey(folder string, resourceType models.ResourceType, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return path.Join(folder, string(resourceType), uuid.NewString()+ext)
}
