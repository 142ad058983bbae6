package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/Ender778/recipe-management-app/internal/config"
	"github.com/Ender778/recipe-management-app/internal/logger"
)

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}

// InvitationSweepJob periodically marks lapsed pending invitations as
// expired. The sweep is cosmetic: readers and transitions already treat a
// lapsed pending invitation as expired, so a missed tick never grants
// access.
type InvitationSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *InvitationSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideInvitationSweepJob provides the periodic invitation expiry sweep.
func ProvideInvitationSweepJob(i do.Injector) (*InvitationSweepJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	interval := cfg.Invites.SweepInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Initial sweep on startup
		if count, err := storeHandle.MarkExpiredInvitations(ctx, time.Now()); err != nil {
			log.Warn("Initial invitation sweep failed", "error", err)
		} else if count > 0 {
			log.Info("Initial invitation sweep completed", "expired", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := storeHandle.MarkExpiredInvitations(ctx, time.Now()); err != nil {
					log.Warn("Invitation sweep failed", "error", err)
				} else if count > 0 {
					log.Info("Invitation sweep completed", "expired", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Invitation sweep job started", "interval", interval)

	return &InvitationSweepJob{cancel: cancel}, nil
}
