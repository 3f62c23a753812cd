package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type PriceRefresher interface {
	Start(ctx context.Context)
}

type priceRefresher struct {
	marketService MarketService
	interval      time.Duration
}

// NewPriceRefresher returns a refresher that does nothing when interval is not positive.
func NewPriceRefresher(marketService MarketService, interval time.Duration) PriceRefresher {
	return &priceRefresher{
		marketService: marketService,
		interval:      interval,
	}
}

func (r *priceRefresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		logrus.Info("Price refresher disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logrus.WithFields(logrus.Fields{
		"interval_seconds": r.interval.Seconds(),
	}).Info("Price refresher started")

	r.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Price refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *priceRefresher) refresh(ctx context.Context) {
	summary, err := r.marketService.UpdatePrices(ctx)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Error refreshing prices")
		return
	}
	if summary.Updated > 0 || summary.Failed > 0 {
		logrus.WithFields(logrus.Fields{
			"updated": summary.Updated,
			"failed":  summary.Failed,
		}).Info("Refreshed tracked prices")
	}
}
