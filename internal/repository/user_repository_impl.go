package repository

import (
	"context"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepositoryImpl struct {
	db *mongo.Database
}

func CreateUserRepository(db *mongo.Database) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id string) (user domain.User, err error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user, errs.ErrUserNotFound
	}

	filter := bson.D{{Key: "_id", Value: userID}}

	err = r.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return user, errs.ErrUserNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserByID").Msg("")
		return user, err
	}

	return user, nil
}

func (r *UserRepositoryImpl) GetUsersByIDs(ctx context.Context, ids []string) (data []domain.User, err error) {
	objectIDs := toObjectIDs(ids)
	if len(objectIDs) == 0 {
		return []domain.User{}, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: objectIDs}}}}

	cursor, err := r.db.Collection(usersCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsersByIDs").Msg("")
		return
	}

	data = []domain.User{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsersByIDs").Msg("")
		return
	}

	return data, nil
}

func (r *UserRepositoryImpl) GetUsersByStatuses(ctx context.Context, statuses []domain.DutyStatus) (data []domain.User, err error) {
	filter := bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: statuses}}}}

	cursor, err := r.db.Collection(usersCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsersByStatuses").Msg("")
		return
	}

	data = []domain.User{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsersByStatuses").Msg("")
		return
	}

	return data, nil
}

func (r *UserRepositoryImpl) UpdateUserStatus(ctx context.Context, id string, status domain.DutyStatus) (err error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrUserNotFound
	}

	filter := bson.D{{Key: "_id", Value: userID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "updatedAt", Value: time.Now()},
	}}}

	result, err := r.db.Collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateUserStatus").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrUserNotFound
	}

	return nil
}

func (r *UserRepositoryImpl) UpdateUserDetails(ctx context.Context, id string, details domain.UserDetails) (err error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrUserNotFound
	}

	// details are written once; a concurrent second setup matches nothing
	filter := bson.D{
		{Key: "_id", Value: userID},
		{Key: "details", Value: bson.D{{Key: "$exists", Value: false}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "details", Value: details},
		{Key: "updatedAt", Value: time.Now()},
	}}}

	result, err := r.db.Collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateUserDetails").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotModified
	}

	return nil
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	return objectIDs
}
