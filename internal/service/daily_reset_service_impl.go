package service

import (
	"context"
	"errors"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/rs/zerolog/log"
)

type DailyResetServiceImpl struct {
	userRepo  repository.UserRepository
	occupancy *Occupancy
	ledger    TimeTrackingLedger
	notifier  ReportNotifier
	now       func() time.Time
}

func CreateDailyResetService(userRepo repository.UserRepository, occupancy *Occupancy, ledger TimeTrackingLedger, notifier ReportNotifier) DailyResetService {
	return &DailyResetServiceImpl{userRepo: userRepo, occupancy: occupancy, ledger: ledger, notifier: notifier, now: time.Now}
}

// Run sets every user still on or off duty or away to OFFLINE. Occupying
// users also lose their interval and seat; emptied consoles are not reset.
// A failing user is logged and skipped, the joined errors are returned.
func (s *DailyResetServiceImpl) Run(ctx context.Context) (summary dto.DailyResetSummary, err error) {
	summary = dto.DailyResetSummary{
		ExecutedAt:       s.now(),
		OnDuty:           []string{},
		OffDuty:          []string{},
		AwayFromKeyboard: []string{},
	}

	users, err := s.userRepo.GetUsersByStatuses(ctx, rosterStatuses)
	if err != nil {
		return summary, err
	}

	var failures []error
	for _, user := range users {
		if err := s.resetUser(ctx, user); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "DailyReset").Str("user_id", user.ID.Hex()).Msg("")
			failures = append(failures, err)
			continue
		}

		switch user.Status {
		case domain.StatusOnDuty:
			summary.OnDuty = append(summary.OnDuty, user.DisplayName())
		case domain.StatusOffDuty:
			summary.OffDuty = append(summary.OffDuty, user.DisplayName())
		case domain.StatusAwayFromKeyboard:
			summary.AwayFromKeyboard = append(summary.AwayFromKeyboard, user.DisplayName())
		}
	}

	log.Ctx(ctx).Info().Str("component", "DailyReset").Int("reset", summary.Total()).Int("failed", len(failures)).Msg("daily reset finished")

	if s.notifier != nil {
		s.notifier.NotifyDailyReset(ctx, summary)
	}

	return summary, errors.Join(failures...)
}

func (s *DailyResetServiceImpl) resetUser(ctx context.Context, user domain.User) error {
	userID := user.ID.Hex()

	unlock := s.occupancy.LockUser(userID)
	defer unlock()

	if err := s.userRepo.UpdateUserStatus(ctx, userID, domain.StatusOffline); err != nil {
		return err
	}

	if !user.Status.Occupying() {
		return nil
	}

	if _, err := s.ledger.CloseOpenIntervals(ctx, userID, s.now()); err != nil {
		return err
	}

	_, err := s.occupancy.EvictEverywhere(ctx, domain.SystemActorID, userID, false)
	return err
}
