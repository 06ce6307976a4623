package service

import (
	"context"
	"sort"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
)

type TimeTrackingLedgerImpl struct {
	trackingRepo repository.TimeTrackingRepository
	userRepo     repository.UserRepository
	memberRepo   repository.MemberRepository
}

func CreateTimeTrackingLedger(trackingRepo repository.TimeTrackingRepository, userRepo repository.UserRepository, memberRepo repository.MemberRepository) TimeTrackingLedger {
	return &TimeTrackingLedgerImpl{trackingRepo: trackingRepo, userRepo: userRepo, memberRepo: memberRepo}
}

// CloseOpenIntervals finishes every open interval of the user. It is a no-op
// when none is open.
func (l *TimeTrackingLedgerImpl) CloseOpenIntervals(ctx context.Context, userID string, at time.Time) (closed int, err error) {
	open, err := l.trackingRepo.GetOpenTimeTrackings(ctx, userID)
	if err != nil {
		return 0, err
	}

	endDate := at.UnixMilli()
	for _, tracking := range open {
		updated, err := l.trackingRepo.FinishTimeTracking(ctx, tracking.ID, endDate)
		if err != nil {
			return closed, err
		}
		if updated {
			closed++
		}
	}

	return closed, nil
}

func (l *TimeTrackingLedgerImpl) OpenInterval(ctx context.Context, userID string, controlCenterID string, at time.Time) (tracking domain.TimeTracking, err error) {
	tracking = domain.TimeTracking{
		UserID:          userID,
		ControlCenterID: controlCenterID,
		StartDate:       at.UnixMilli(),
		Finished:        false,
	}

	id, err := l.trackingRepo.AddTimeTracking(ctx, tracking)
	if err != nil {
		return domain.TimeTracking{}, err
	}
	tracking.ID = id

	return tracking, nil
}

// Aggregate sums finished intervals lying fully inside the window per user.
// Only active members holding the USER role are reported.
func (l *TimeTrackingLedgerImpl) Aggregate(ctx context.Context, window dto.TrackingWindow) (data []dto.TrackingTotal, err error) {
	if window.EndDate < window.StartDate {
		return nil, errs.ErrClient
	}

	trackings, err := l.trackingRepo.GetFinishedTimeTrackings(ctx, window)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, tracking := range trackings {
		if !tracking.Within(window.StartDate, window.EndDate) {
			continue
		}
		totals[tracking.UserID] += tracking.Duration()
	}

	data = []dto.TrackingTotal{}
	if len(totals) == 0 {
		return data, nil
	}

	userIDs := make([]string, 0, len(totals))
	for userID := range totals {
		userIDs = append(userIDs, userID)
	}

	members, err := l.memberRepo.GetMembers(ctx, dto.MemberFilter{UserIDs: userIDs})
	if err != nil {
		return nil, err
	}
	users, err := l.userRepo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := indexUsers(users)

	for _, member := range members {
		user, ok := usersByID[member.UserID]
		if !ok || user.Role != domain.RoleUser {
			continue
		}

		total := dto.TrackingTotal{
			UserID:   member.UserID,
			MemberID: member.ID.Hex(),
			Total:    totals[member.UserID],
		}
		if user.Details != nil {
			total.FirstName = user.Details.FirstName
			total.LastName = user.Details.LastName
		}
		data = append(data, total)
	}

	sort.SliceStable(data, func(i, j int) bool {
		if data[i].Total == data[j].Total {
			return data[i].UserID < data[j].UserID
		}
		return data[i].Total > data[j].Total
	})

	return data, nil
}

func indexUsers(users []domain.User) map[string]domain.User {
	usersByID := make(map[string]domain.User, len(users))
	for _, user := range users {
		usersByID[user.ID.Hex()] = user
	}
	return usersByID
}
