package historyhandler

import (
	historystore "lariogistic-backend/lib/history/store"
	historyapimodels "lariogistic-backend/models/api/history"
	dbmodels "lariogistic-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Logger registro interno de acciones, lo usan todas las operaciones que modifican datos
type Logger interface {
	Log(actorID uint, tramiteID *uint, action, description string) error
	LogChanges(actorID uint, tramiteID *uint, action, description string, changes *dbmodels.EntityChanges) error
}

func NewLogger(store historystore.Provider) Logger {
	return &logger{
		store: store,
		now:   time.Now,
	}
}

type logger struct {
	store historystore.Provider
	now   func() time.Time
}

func (l logger) Log(actorID uint, tramiteID *uint, action, description string) error {
	return l.LogChanges(actorID, tramiteID, action, description, nil)
}

func (l logger) LogChanges(actorID uint, tramiteID *uint, action, description string, changes *dbmodels.EntityChanges) error {
	err := historyapimodels.ValidateEntry(action, description)
	if err != nil {
		return err
	}
	if actorID == 0 {
		return errors.New("historial: usuario no indicado")
	}
	rec := dbmodels.History{
		UserID:      actorID,
		TramiteID:   tramiteID,
		Action:      action,
		Description: description,
		ActionAt:    l.now(),
	}
	if !changes.IsEmpty() {
		rec.Changes = changes
	}
	_, err = l.store.Create(&rec)
	if err != nil {
		log.
			WithError(err).
			WithField("user_id", actorID).
			WithField("action", action).
			Error("error guardando el historial")
		return errors.Wrap(err, "error guardando el historial")
	}
	return nil
}
