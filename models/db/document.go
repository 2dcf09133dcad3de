package dbmodels

import (
	"lariogistic-backend/models"
	"time"
)

type Document struct {
	ID           uint                `gorm:"primaryKey;autoIncrement"`
	TramiteID    uint                `gorm:"index"`
	Tramite      *Tramite            `gorm:"foreignKey:TramiteID;constraint:OnDelete:CASCADE"`
	PublicID     string              `gorm:"type:varchar(255)"`
	URL          string              `gorm:"type:varchar(500)"`
	Type         models.DocumentType `gorm:"type:varchar(20)"`
	ResourceType models.ResourceType `gorm:"type:varchar(10)"`
	OriginalName string              `gorm:"type:varchar(255)"`
	Size         int64
	UploadedAt   time.Time `gorm:"index"`
}

func (Document) TableName() string {
	return "documentos"
}

// OwnerID el dueño del documento es el dueño del trámite
func (d Document) OwnerID() uint {
	if d.Tramite == nil {
		return 0
	}
	return d.Tramite.UserID
}
