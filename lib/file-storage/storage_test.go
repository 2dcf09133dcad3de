package filestorage

import (
	"context"
	"io"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	docapimodels "lariogistic-backend/models/api/documents"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[objectName] = data
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func (f *fakeClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	delete(f.objects, objectName)
	return nil
}

var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00}

func TestCheckSignature(t *testing.T) {
	require.NoError(t, CheckSignature(pngHeader, "image/png"))
	require.NoError(t, CheckSignature([]byte{0xff, 0xd8, 0xff, 0xe1, 0x01}, "image/jpeg"))
	require.NoError(t, CheckSignature([]byte("GIF89a..."), "image/gif"))
	require.NoError(t, CheckSignature([]byte("%PDF-1.7"), "application/pdf; charset=binary"))

	require.ErrorIs(t, CheckSignature(nil, "image/png"), apperrors.ErrEmptyFile)
	require.ErrorIs(t, CheckSignature([]byte("%PDF-1.7"), "image/png"), apperrors.ErrInvalidSignature)
	require.ErrorIs(t, CheckSignature([]byte("hola"), "text/plain"), apperrors.ErrFileTypeNotAllowed)

	require.True(t, IsAllowedMime("IMAGE/PNG"))
	require.False(t, IsAllowedMime("application/zip"))
}

func TestUpload(t *testing.T) {
	client := &fakeClient{objects: map[string][]byte{}}
	storage := NewInstance(client, "docs", "http://localhost:9000/")

	stored, err := storage.Upload(context.Background(), docapimodels.Upload{
		FileName:    "Foto.PNG",
		ContentType: "image/png",
		Data:        pngHeader,
	}, "tramites/documentos", models.ResourceImage)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.PublicID, "tramites/documentos/image/"))
	require.True(t, strings.HasSuffix(stored.PublicID, ".png"))
	require.Equal(t, "http://localhost:9000/docs/"+stored.PublicID, stored.URL)
	require.Contains(t, client.objects, stored.PublicID)

	require.NoError(t, storage.Delete(context.Background(), stored.PublicID, models.ResourceImage))
	require.NotContains(t, client.objects, stored.PublicID)
}

func TestUpload_RejectsBeforeStoring(t *testing.T) {
	client := &fakeClient{objects: map[string][]byte{}}
	storage := NewInstance(client, "docs", "http://localhost:9000")

	_, err := storage.Upload(context.Background(), docapimodels.Upload{
		FileName:    "falso.pdf",
		ContentType: "application/pdf",
		Data:        pngHeader,
	}, "tramites/documentos", models.ResourceRaw)
	require.ErrorIs(t, err, apperrors.ErrInvalidSignature)
	require.Empty(t, client.objects)

	client.putErr = errors.New("sin conexión")
	_, err = storage.Upload(context.Background(), docapimodels.Upload{
		FileName:    "ok.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	}, "tramites/documentos", models.ResourceRaw)
	require.Error(t, err)
}
