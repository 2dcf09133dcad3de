package dbmodels

import (
	"time"
)

const HistoryActionMaxLen = 100

// 65535 como el TEXT de la base original
const HistoryDescriptionMaxLen = 65535

type History struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"`
	UserID      uint           `gorm:"index"`
	User        *User          `gorm:"foreignKey:UserID"`
	TramiteID   *uint          `gorm:"index"`
	Tramite     *Tramite       `gorm:"foreignKey:TramiteID;constraint:OnDelete:SET NULL"`
	Action      string         `gorm:"type:varchar(100)"`
	Description string         `gorm:"type:text"`
	Changes     *EntityChanges `gorm:"type:jsonb"`
	ActionAt    time.Time      `gorm:"index"`
}

func (History) TableName() string {
	return "historial"
}

func (h History) UserName() string {
	if h.User == nil {
		return ""
	}
	return h.User.Name
}

func (h History) TramiteTypeID() *uint {
	if h.Tramite == nil {
		return nil
	}
	return &h.Tramite.TramiteTypeID
}
