package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
)

// CartCleanupScheduler purges abandoned server carts so stale rows do
// not hold phantom demand against the catalog.
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
	maxAge   time.Duration
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository, maxAge time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
		maxAge:   maxAge,
	}
}

// Start registers the nightly purge. Runs daily at 03:00 server time.
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled stale cart cleanup", nil)

		deleted, err := s.cartRepo.DeleteStale(time.Now().Add(-s.maxAge))
		if err != nil {
			logger.Error("Failed to delete stale cart items", err)
			return
		}

		logger.Info("Stale cart cleanup finished", map[string]interface{}{
			"deleted": deleted,
			"max_age": s.maxAge.String(),
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started (daily at 3:00 AM)", nil)

	return nil
}

// Stop halts the scheduler.
func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
