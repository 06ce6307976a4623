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
)

type MemberRepositoryImpl struct {
	db *mongo.Database
}

func CreateMemberRepository(db *mongo.Database) MemberRepository {
	return &MemberRepositoryImpl{db: db}
}

func (r *MemberRepositoryImpl) AddMember(ctx context.Context, data domain.Member) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(membersCollection).InsertOne(ctx, data)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return id, errs.ErrNotModified
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "AddMember").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MemberRepositoryImpl) GetMemberByUserID(ctx context.Context, userID string) (member domain.Member, err error) {
	filter := bson.D{{Key: "userId", Value: userID}}

	err = r.db.Collection(membersCollection).FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return member, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetMemberByUserID").Msg("")
		return member, err
	}

	return member, nil
}

func (r *MemberRepositoryImpl) GetMembers(ctx context.Context, param dto.MemberFilter) (data []domain.Member, err error) {
	filter := bson.D{}
	if param.UserIDs != nil {
		filter = append(filter, bson.E{Key: "userId", Value: bson.D{{Key: "$in", Value: param.UserIDs}}})
	}
	if !param.IncludeTerminated {
		filter = append(filter, bson.E{Key: "terminated", Value: bson.D{{Key: "$ne", Value: true}}})
	}

	cursor, err := r.db.Collection(membersCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetMembers").Msg("")
		return
	}

	data = []domain.Member{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetMembers").Msg("")
		return
	}

	return data, nil
}
