package jobs

import (
	"context"
	"time"

	"clubrenting-backend/internal/logger"
)

// RefreshCatalog drops the local catalog mirror and warms it again from
// the remote store so the cache never serves a stale snapshot for more
// than one scheduling interval.
func (jr *JobRunner) RefreshCatalog() {
	jr.runWithRecovery("RefreshCatalog", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := jr.renting.Invalidate(ctx); err != nil {
			logger.Error("Failed to invalidate catalog cache", "error", err)
			return
		}

		catalog, err := jr.renting.GetInventory(ctx)
		if err != nil {
			// The cache stays empty; the next read repopulates it on demand.
			logger.Error("Failed to rewarm catalog cache", "error", err)
			return
		}

		items := 0
		for _, sectionItems := range catalog {
			items += len(sectionItems)
		}
		logger.Info("Catalog cache refreshed", "sections", len(catalog), "items", items)
	})
}
