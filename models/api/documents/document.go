package docapimodels

import (
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"time"
)

// Upload archivo recibido en la petición
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

type ReplaceRequest struct {
	File      *Upload // nil si solo se reasigna
	Retain    bool    // conservar el objeto anterior en el almacenamiento
	TramiteID *uint   // nuevo trámite, solo administrador
}

type DocumentView struct {
	ID           uint                `json:"id"`
	TramiteID    uint                `json:"tramite_id"`
	OwnerID      uint                `json:"owner_id"`
	URL          string              `json:"url"`
	Type         models.DocumentType `json:"type"` // imagen/pdf/documento/otro
	OriginalName string              `json:"original_name"`
	Size         int64               `json:"size"`
	UploadedAt   time.Time           `json:"uploaded_at"`
}

func DocumentConvert(rec dbmodels.Document) DocumentView {
	return DocumentView{
		ID:           rec.ID,
		TramiteID:    rec.TramiteID,
		OwnerID:      rec.OwnerID(),
		URL:          rec.URL,
		Type:         rec.Type,
		OriginalName: rec.OriginalName,
		Size:         rec.Size,
		UploadedAt:   rec.UploadedAt,
	}
}
