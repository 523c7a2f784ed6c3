package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/config"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

// CleanupJob periodically removes expired auth sessions, flips lapsed
// licenses to expired, and prunes old read notifications.
type CleanupJob struct {
	sessionRepo      repository.AuthSessionRepository
	licenseRepo      repository.LicenseRepository
	notificationRepo repository.NotificationRepository
	interval         time.Duration
	done             chan struct{}
}

func NewCleanupJob(
	sessionRepo repository.AuthSessionRepository,
	licenseRepo repository.LicenseRepository,
	notificationRepo repository.NotificationRepository,
	interval time.Duration,
) *CleanupJob {
	return &CleanupJob{
		sessionRepo:      sessionRepo,
		licenseRepo:      licenseRepo,
		notificationRepo: notificationRepo,
		interval:         interval,
		done:             make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	j.runCleanup(ctx, "auth sessions", j.sessionRepo.DeleteExpired)
	j.runCleanup(ctx, "licenses", j.licenseRepo.MarkExpired)
	j.runCleanup(ctx, "notifications", func(ctx context.Context) (int64, error) {
		cutoff := time.Now().Add(-config.NotificationRetention)
		return j.notificationRepo.DeleteReadBefore(ctx, cutoff)
	})
}

func (j *CleanupJob) runCleanup(ctx context.Context, name string, fn func(context.Context) (int64, error)) {
	count, err := fn(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("failed to cleanup %s", name)
	} else if count > 0 {
		log.Info().Int64("count", count).Msgf("cleaned up %s", name)
	}
}
