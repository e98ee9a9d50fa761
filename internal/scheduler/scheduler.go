package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/service"
)

// Refresher is the part of the session service the scheduler drives.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

func newCron() *cron.Cron {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	return cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}

// NewScheduler registers the session refresh job. It returns nil without error when no
// schedule is configured.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, sessionSvc service.SessionService) (*cron.Cron, error) {
	schedule := cfg.Report.RefreshSchedule
	if schedule == "" {
		log.Info().Msg("Report refresh schedule not configured, sessions refresh on request only")
		return nil, nil
	}

	c, err := newRefreshCron(schedule, sessionSvc)
	if err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil, err
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled session refresh job")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c, nil
}

// newRefreshCron runs one refresh pass per tick; a tick that fires while the previous pass is
// still running is skipped.
func newRefreshCron(schedule string, refresher Refresher) (*cron.Cron, error) {
	c := newCron()
	_, err := c.AddFunc(schedule, func() {
		if err := refresher.RefreshAll(context.Background()); err != nil {
			log.Error().Err(err).Msg("Error during scheduled session refresh")
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
