package league

import (
	"context"
	"log/slog"
	"time"

	"mufa-backend/lib/timezone"
)

// StartDaemons launches the background refresh loops. They stop when
// ctx is cancelled.
func (s *Service) StartDaemons(ctx context.Context) {
	go s.scheduleRefreshDaemon(ctx)
	go s.scheduleOnlyDaemon(ctx)
	go s.fieldRefreshDaemon(ctx)
}

// the full staleness-aware pass, once an hour. the staleness window
// inside the run keeps this from rescraping teams that are still
// fresh.
func (s *Service) scheduleRefreshDaemon(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			_, err := s.RefreshAll(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "schedule refresh", "err", err)
			}
			cancel()
		}
	}
}

// fast schedules-only sweep during the evening game window, when
// scores on the site actually change
func (s *Service) scheduleOnlyDaemon(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := timezone.Now()
			if now.Hour() < 17 || now.Hour() > 22 {
				continue
			}
			ctx, cancel := context.WithTimeout(ctx, 15*time.Minute)
			_, err := s.RefreshSchedules(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "schedules-only refresh", "err", err)
			}
			cancel()
		}
	}
}

func (s *Service) fieldRefreshDaemon(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := timezone.Now()
			// field details barely change, refresh off-peak
			if now.Hour() != 4 {
				continue
			}
			ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			err := s.RefreshFields(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "field refresh", "err", err)
			}
			cancel()
		}
	}
}
