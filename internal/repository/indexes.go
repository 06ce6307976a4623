package repository

import (
	"context"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexes = map[string][]mongo.IndexModel{
	usersCollection: {
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	membersCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	controlCentersCollection: {
		{Keys: bson.D{{Key: "members", Value: 1}}},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "type", Value: domain.TypeAFK}}),
		},
	},
	timeTrackingsCollection: {
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName("userId_open_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "finished", Value: false}}),
		},
		{Keys: bson.D{{Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}}},
	},
	auditLogsCollection: {
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
}

// EnsureIndexes creates the indexes backing the membership and
// open-interval invariants. Existing indexes are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "EnsureIndexes").Str("collection", collection).Msg("")
			return err
		}
	}

	return nil
}
