package cleanup

import (
	"context"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartJournalCleanup periodically deletes expired rows from the revocation
// journal. The in-memory store sweeps itself; this is the backstop for the
// durable copy.
func StartJournalCleanup(ctx context.Context, journal ExpiredDeleter, log *logger.Logger) {
	ticker := time.NewTicker(constants.RevocationJournalCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := journal.DeleteExpired(ctx)
			if err != nil {
				log.Errorf("revocation journal cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				metrics.RevokedTokensJournalDeleted.Add(float64(deleted))
				log.Infof("revocation journal cleanup: deleted %d expired rows", deleted)
			}
		}
	}
}
