package fakestore

import (
	"context"
	filestorage "lariogistic-backend/lib/file-storage"
	"lariogistic-backend/models"
	docapimodels "lariogistic-backend/models/api/documents"

	"github.com/pkg/errors"
)

// Storage almacenamiento de objetos en memoria, registra subidas y borrados
type Storage struct {
	Uploaded     []string
	Deleted      []string
	FailOnDelete bool
}

func (s *Storage) Upload(_ context.Context, file docapimodels.Upload, folder string, resourceType models.ResourceType) (*filestorage.StoredFile, error) {
	if err := filestorage.CheckSignature(file.Data, file.ContentType); err != nil {
		return nil, err
	}
	publicID := folder + "/" + string(resourceType) + "/" + file.FileName
	s.Uploaded = append(s.Uploaded, publicID)
	return &filestorage.StoredFile{URL: "http://storage/" + publicID, PublicID: publicID}, nil
}

func (s *Storage) Delete(_ context.Context, publicID string, _ models.ResourceType) error {
	if s.FailOnDelete {
		return errors.New("almacenamiento no disponible")
	}
	s.Deleted = append(s.Deleted, publicID)
	return nil
}
