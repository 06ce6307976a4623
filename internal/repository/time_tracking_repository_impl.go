package repository

import (
	"context"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TimeTrackingRepositoryImpl struct {
	db *mongo.Database
}

func CreateTimeTrackingRepository(db *mongo.Database) TimeTrackingRepository {
	return &TimeTrackingRepositoryImpl{db: db}
}

func (r *TimeTrackingRepositoryImpl) AddTimeTracking(ctx context.Context, data domain.TimeTracking) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(timeTrackingsCollection).InsertOne(ctx, data)
	if err != nil {
		// the partial unique index rejects a second open interval
		if mongo.IsDuplicateKeyError(err) {
			return id, errs.ErrConflict
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "AddTimeTracking").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *TimeTrackingRepositoryImpl) GetOpenTimeTrackings(ctx context.Context, userID string) (data []domain.TimeTracking, err error) {
	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "finished", Value: false},
	}

	cursor, err := r.db.Collection(timeTrackingsCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetOpenTimeTrackings").Msg("")
		return
	}

	data = []domain.TimeTracking{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetOpenTimeTrackings").Msg("")
		return
	}

	return data, nil
}

func (r *TimeTrackingRepositoryImpl) FinishTimeTracking(ctx context.Context, id primitive.ObjectID, endDate int64) (updated bool, err error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "finished", Value: false},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "endDate", Value: endDate},
		{Key: "finished", Value: true},
	}}}

	result, err := r.db.Collection(timeTrackingsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "FinishTimeTracking").Msg("")
		return
	}

	return result.ModifiedCount > 0, nil
}

func (r *TimeTrackingRepositoryImpl) GetFinishedTimeTrackings(ctx context.Context, window dto.TrackingWindow) (data []domain.TimeTracking, err error) {
	filter := bson.D{
		{Key: "finished", Value: true},
		{Key: "startDate", Value: bson.D{{Key: "$gte", Value: window.StartDate}}},
		{Key: "endDate", Value: bson.D{{Key: "$lte", Value: window.EndDate}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})

	cursor, err := r.db.Collection(timeTrackingsCollection).Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetFinishedTimeTrackings").Msg("")
		return
	}

	data = []domain.TimeTracking{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetFinishedTimeTrackings").Msg("")
		return
	}

	return data, nil
}
