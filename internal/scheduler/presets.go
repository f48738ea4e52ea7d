package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/folio/internal/theming"
)

const (
	presetRefreshJobName = "remote_preset_refresh"
	presetRefreshTimeout = time.Minute
)

// PresetRefresher is satisfied by *theming.RemotePresets.
type PresetRefresher interface {
	Refresh(ctx context.Context) error
}

var _ PresetRefresher = (*theming.RemotePresets)(nil)

// RegisterPresetRefreshJob schedules refresher on cronExpr using the
// singleton scheduler.
func RegisterPresetRefreshJob(refresher PresetRefresher, cronExpr string) error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	return svc.RegisterPresetRefreshJob(refresher, cronExpr)
}

func (s *Service) RegisterPresetRefreshJob(refresher PresetRefresher, cronExpr string) error {
	if refresher == nil {
		return fmt.Errorf("preset refresh job requires a refresher")
	}

	jobLogger := log.With().
		Str("component", "remote_preset_refresh_job").
		Str("job_name", presetRefreshJobName).
		Str("cron", cronExpr).
		Logger()

	// The first run happens as soon as the scheduler starts so remote
	// presets are available without waiting for the first cron slot.
	_, err := s.AddJob(presetRefreshJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), presetRefreshTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		RefreshPresets(ctx, refresher)
	}, gocron.WithStartAt(gocron.WithStartImmediately()))
	if err != nil {
		return fmt.Errorf("register %s: %w", presetRefreshJobName, err)
	}
	return nil
}

// RefreshPresets runs one refresh and logs the outcome. Partial failures
// keep whatever was fetched.
func RefreshPresets(ctx context.Context, refresher PresetRefresher) {
	logger := log.Ctx(ctx)
	started := time.Now()

	if err := refresher.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Dur("duration", time.Since(started)).Msg("Remote preset refresh finished with errors")
		return
	}
	logger.Debug().Dur("duration", time.Since(started)).Msg("Remote preset refresh finished")
}
