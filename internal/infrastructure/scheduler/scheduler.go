package scheduler

import (
	"context"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/config"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/utils"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	broadcastJob  = "snapshot-broadcast"
	dailyResetJob = "daily-reset"
)

type Task func(ctx context.Context)

// CreateScheduler registers the periodic snapshot broadcast and the daily
// reset. Both run in singleton mode so a slow run is skipped rather than
// stacked.
func CreateScheduler(conf config.ScheduleConfig, broadcast Task, dailyReset Task) (gocron.Scheduler, error) {
	location, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("component", "CreateScheduler").Str("timezone", conf.Timezone).Msg("falling back to UTC")
		location = time.UTC
	}

	hour, minute, second, err := utils.ParseClock(conf.DailyResetTime)
	if err != nil {
		return nil, err
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(location))
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			conf.BroadcastInterval,
		),
		gocron.NewTask(run, broadcastJob, broadcast),
		gocron.WithName(broadcastJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(hour, minute, second)),
		),
		gocron.NewTask(run, dailyResetJob, dailyReset),
		gocron.WithName(dailyResetJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// run hands every task a context carrying the global logger.
func run(job string, task Task) {
	logger := log.With().Str("job", job).Logger()
	task(logger.WithContext(context.Background()))
}
