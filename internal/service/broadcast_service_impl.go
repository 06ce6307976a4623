package service

import (
	"context"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/rs/zerolog/log"
)

var rosterStatuses = []domain.DutyStatus{
	domain.StatusOnDuty,
	domain.StatusOffDuty,
	domain.StatusAwayFromKeyboard,
}

type BroadcastServiceImpl struct {
	statistics StatisticsService
	publisher  Publisher
}

func CreateBroadcastService(statistics StatisticsService, publisher Publisher) BroadcastService {
	return &BroadcastServiceImpl{statistics: statistics, publisher: publisher}
}

// Tick pushes the statistics counts, the three status rosters and the
// console details, in that order. Nothing is computed without clients.
func (s *BroadcastServiceImpl) Tick(ctx context.Context) {
	if s.publisher.ClientCount() == 0 {
		return
	}

	counts, err := s.statistics.GetCounts(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Tick").Msg("")
	} else {
		s.publisher.Broadcast(dto.EventStatistics, counts)
	}

	for _, status := range rosterStatuses {
		roster, err := s.statistics.GetRoster(ctx, status)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "Tick").Str("status", string(status)).Msg("")
			continue
		}
		s.publisher.Broadcast(string(status), roster)
	}

	if err := s.PublishControlCenterDetails(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Tick").Msg("")
	}
}

func (s *BroadcastServiceImpl) PublishControlCenterDetails(ctx context.Context) (err error) {
	details, err := s.statistics.GetControlCenterDetails(ctx)
	if err != nil {
		return err
	}

	s.publisher.Broadcast(dto.EventControlCenterDetails, details)
	return nil
}
