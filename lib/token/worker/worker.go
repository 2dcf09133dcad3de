package tokenworker

import (
	"context"
	"lariogistic-backend/lib/metrics"
	tokenservice "lariogistic-backend/lib/token"
	baseworker "lariogistic-backend/lib/utils/base-worker"
	"lariogistic-backend/lib/utils/helpers"
	"time"
)

func StartWorker(ctx context.Context, interval, retain time.Duration) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("RefreshTokenCleanupWorker", 30*time.Second, interval),
		tokens:   tokenservice.Instance,
		retain:   retain,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	tokens tokenservice.Provider
	retain time.Duration
}

func (i impl) handle(ctx context.Context) {
	if helpers.IsContextDone(ctx) {
		return
	}
	logger := i.GetLogger()
	count, err := i.tokens.PurgeStale(i.retain)
	if err != nil {
		logger.WithError(err).Error("Error eliminando refresh tokens vencidos")
		return
	}
	metrics.RefreshTokensPurged(count)
	if count > 0 {
		logger.WithField("count", count).Info("Refresh tokens vencidos eliminados")
	}
}
