package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/rs/zerolog/log"
)

type StatusServiceImpl struct {
	userRepo  repository.UserRepository
	occupancy *Occupancy
	ledger    TimeTrackingLedger
	audit     AuditLogger
	now       func() time.Time
}

func CreateStatusService(userRepo repository.UserRepository, occupancy *Occupancy, ledger TimeTrackingLedger, audit AuditLogger) StatusService {
	return &StatusServiceImpl{userRepo: userRepo, occupancy: occupancy, ledger: ledger, audit: audit, now: time.Now}
}

// SetStatus applies a duty status transition. Leaving ON_DUTY vacates every
// console and closes open intervals; entering AWAY_FROM_KEYBOARD then seats
// the user on the AFK console with a fresh interval.
func (s *StatusServiceImpl) SetStatus(ctx context.Context, actor domain.Profile, targetUserID string, status domain.DutyStatus) (user domain.User, err error) {
	if !status.Valid() {
		return user, errs.ErrInvalidStatus
	}

	unlock := s.occupancy.LockUser(targetUserID)
	defer unlock()

	user, err = s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return user, err
	}

	previous := user.Status
	if err = s.userRepo.UpdateUserStatus(ctx, targetUserID, status); err != nil {
		return user, err
	}
	user.Status = status

	s.audit.Log(ctx, s.statusAuditEntry(actor, user, previous, status))

	now := s.now()

	if status != domain.StatusOnDuty {
		if _, err = s.occupancy.EvictEverywhere(ctx, actor.Sub, targetUserID, true); err != nil {
			return user, err
		}
		if _, err = s.ledger.CloseOpenIntervals(ctx, targetUserID, now); err != nil {
			return user, err
		}
	}

	if status == domain.StatusAwayFromKeyboard {
		if err = s.seatAFK(ctx, actor, targetUserID, now); err != nil {
			return user, err
		}
	}

	log.Ctx(ctx).Info().Str("component", "SetStatus").Str("user_id", targetUserID).
		Str("from", string(previous)).Str("to", string(status)).Msg("status changed")

	return user, nil
}

func (s *StatusServiceImpl) seatAFK(ctx context.Context, actor domain.Profile, userID string, now time.Time) error {
	afkID, err := s.occupancy.AFKControlCenterID(ctx)
	if err != nil {
		return err
	}
	if afkID == "" {
		log.Ctx(ctx).Warn().Str("component", "SetStatus").Msg("no AFK control center provisioned")
		return nil
	}

	if _, err = s.occupancy.Seat(ctx, actor.Sub, afkID, userID, false); err != nil && !errors.Is(err, errs.ErrAlreadyMember) {
		return err
	}

	_, err = s.ledger.OpenInterval(ctx, userID, afkID, now)
	return err
}

func (s *StatusServiceImpl) statusAuditEntry(actor domain.Profile, user domain.User, previous, status domain.DutyStatus) AuditEntry {
	diff := domain.StatusDiff{Before: previous, After: status}
	userID := user.ID.Hex()

	if actor.Sub == userID {
		return AuditEntry{
			SenderID:    userID,
			Type:        domain.AuditUserStatus,
			Description: fmt.Sprintf("%s changed status to %s", user.DisplayName(), status),
			Diff:        diff,
		}
	}

	return AuditEntry{
		SenderID:    actor.Sub,
		TargetID:    stringPtr(userID),
		Type:        domain.AuditUserStatusOther,
		Description: fmt.Sprintf("Status of %s changed to %s", user.DisplayName(), status),
		Diff:        diff,
	}
}
