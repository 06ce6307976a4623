package service

import (
	"context"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/rs/zerolog/log"
)

const EventAuditLogCreated = "audit_log_created"

type AuditLoggerImpl struct {
	repo      repository.AuditLogRepository
	publisher EventPublisher
	now       func() time.Time
}

func CreateAuditLogger(repo repository.AuditLogRepository, publisher EventPublisher) AuditLogger {
	return &AuditLoggerImpl{repo: repo, publisher: publisher, now: time.Now}
}

func (s *AuditLoggerImpl) Log(ctx context.Context, entry AuditEntry) {
	auditLog := domain.AuditLog{
		SenderID:    entry.SenderID,
		TargetID:    entry.TargetID,
		Type:        entry.Type,
		Description: entry.Description,
		Changes:     []string{},
		CreatedAt:   s.now(),
	}
	if entry.Diff != nil {
		auditLog.Changes = entry.Diff.Snapshots()
	}

	id, err := s.repo.AddAuditLog(ctx, auditLog)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "AuditLog").Str("type", string(entry.Type)).Msg("audit log not stored")
		return
	}
	auditLog.ID = id

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, EventAuditLogCreated, auditLog); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "AuditLog").Str("type", string(entry.Type)).Msg("audit log not published")
	}
}

func stringPtr(value string) *string {
	return &value
}
