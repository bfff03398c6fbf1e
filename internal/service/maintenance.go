package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"classifieds-bot-backend/internal/common/logger"
	"classifieds-bot-backend/internal/domain"
)

// Maintenance runs the daily retention sweep: every live listing published
// more than the retention window ago is taken down and expired.
type Maintenance struct {
	listings  domain.ListingRepository
	lifecycle *Lifecycle
	cron      *cron.Cron
	log       zerolog.Logger
}

func NewMaintenance(listings domain.ListingRepository, lifecycle *Lifecycle) *Maintenance {
	return &Maintenance{
		listings:  listings,
		lifecycle: lifecycle,
		cron:      cron.New(),
		log:       logger.With("maintenance"),
	}
}

// Start schedules the sweep at the given local wall time ("HH:MM").
func (m *Maintenance) Start(at string) error {
	spec, err := cronSpec(at)
	if err != nil {
		return err
	}
	if _, err := m.cron.AddFunc(spec, func() { m.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	m.cron.Start()
	m.log.Info().Str("at", at).Msg("Maintenance scheduler started")
	return nil
}

func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
	m.log.Info().Msg("Maintenance scheduler stopped")
}

// Sweep expires every listing past the retention window. Failures on one
// listing never stop the rest of the batch.
func (m *Maintenance) Sweep(ctx context.Context) {
	cutoff := m.lifecycle.RetentionCutoff(time.Now().UTC())
	stale, err := m.listings.ListLivePublishedBefore(ctx, cutoff)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to list stale listings")
		return
	}
	if len(stale) == 0 {
		return
	}

	expired := 0
	for _, l := range stale {
		if ctx.Err() != nil {
			return
		}
		if err := m.lifecycle.Expire(ctx, l); err != nil {
			m.log.Error().Err(err).Int64("listing_id", l.ID).Msg("Failed to expire listing")
			continue
		}
		expired++
	}
	m.log.Info().Int("expired", expired).Int("candidates", len(stale)).Msg("Retention sweep finished")
}

// cronSpec turns "HH:MM" into a daily cron expression.
func cronSpec(at string) (string, error) {
	hh, mm, ok := strings.Cut(at, ":")
	if !ok {
		return "", fmt.Errorf("invalid maintenance time %q", at)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid maintenance hour %q", at)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid maintenance minute %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
