package tasks

import (
	"context"
	"fmt"
	"time"
)

// newDeliveryPruneTask deletes journal rows older than database.retention.
func newDeliveryPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "delivery_prune")
	retention := deps.Config.Database.Retention

	return func(ctx context.Context) error {
		cutoff := time.Now().Add(-retention)
		log.InfoContext(ctx, "Pruning delivery journal", "before", cutoff.UTC().Format(time.RFC3339))

		removed, err := deps.Journal.PruneDeliveries(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Delivery prune task failed", "error", err)
			return fmt.Errorf("prune deliveries: %w", err)
		}

		log.InfoContext(ctx, "Delivery journal pruned", "removed", removed)
		return nil
	}
}
