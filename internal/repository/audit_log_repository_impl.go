package repository

import (
	"context"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditLogRepositoryImpl struct {
	db *mongo.Database
}

func CreateAuditLogRepository(db *mongo.Database) AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) AddAuditLog(ctx context.Context, data domain.AuditLog) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(auditLogsCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddAuditLog").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}
