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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ControlCenterRepositoryImpl struct {
	db *mongo.Database
}

func CreateControlCenterRepository(db *mongo.Database) ControlCenterRepository {
	return &ControlCenterRepositoryImpl{db: db}
}

func (r *ControlCenterRepositoryImpl) AddControlCenter(ctx context.Context, data domain.ControlCenter) (id primitive.ObjectID, err error) {
	if data.Members == nil {
		data.Members = []string{}
	}

	result, err := r.db.Collection(controlCentersCollection).InsertOne(ctx, data)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return id, errs.ErrConflict
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "AddControlCenter").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *ControlCenterRepositoryImpl) GetControlCenters(ctx context.Context) (data []domain.ControlCenter, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "label", Value: 1}})

	cursor, err := r.db.Collection(controlCentersCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetControlCenters").Msg("")
		return
	}

	data = []domain.ControlCenter{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetControlCenters").Msg("")
		return
	}

	return data, nil
}

func (r *ControlCenterRepositoryImpl) GetControlCenterByID(ctx context.Context, id string) (controlCenter domain.ControlCenter, err error) {
	controlCenterID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return controlCenter, errs.ErrControlCenterNotFound
	}

	return r.findOne(ctx, "GetControlCenterByID", bson.D{{Key: "_id", Value: controlCenterID}})
}

func (r *ControlCenterRepositoryImpl) GetControlCenterByType(ctx context.Context, controlCenterType string) (controlCenter domain.ControlCenter, err error) {
	return r.findOne(ctx, "GetControlCenterByType", bson.D{{Key: "type", Value: controlCenterType}})
}

func (r *ControlCenterRepositoryImpl) findOne(ctx context.Context, component string, filter bson.D) (controlCenter domain.ControlCenter, err error) {
	err = r.db.Collection(controlCentersCollection).FindOne(ctx, filter).Decode(&controlCenter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return controlCenter, errs.ErrControlCenterNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return controlCenter, err
	}

	return controlCenter, nil
}

func (r *ControlCenterRepositoryImpl) GetControlCentersByMember(ctx context.Context, userID string) (data []domain.ControlCenter, err error) {
	filter := bson.D{{Key: "members", Value: userID}}

	cursor, err := r.db.Collection(controlCentersCollection).Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetControlCentersByMember").Msg("")
		return
	}

	data = []domain.ControlCenter{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetControlCentersByMember").Msg("")
		return
	}

	return data, nil
}

func (r *ControlCenterRepositoryImpl) UpdateControlCenter(ctx context.Context, data domain.ControlCenter) (err error) {
	set := bson.D{
		{Key: "label", Value: data.Label},
		{Key: "type", Value: data.Type},
		{Key: "hasStatus", Value: data.HasStatus},
		{Key: "hasVehicle", Value: data.HasVehicle},
		{Key: "maxMembers", Value: data.MaxMembers},
		{Key: "updatedAt", Value: time.Now()},
	}
	unset := bson.D{}

	if data.Color != nil {
		set = append(set, bson.E{Key: "color", Value: *data.Color})
	} else {
		unset = append(unset, bson.E{Key: "color", Value: ""})
	}
	if data.HasStatus && data.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *data.Status})
	} else if !data.HasStatus {
		unset = append(unset, bson.E{Key: "status", Value: ""})
	}
	if !data.HasVehicle {
		unset = append(unset, bson.E{Key: "vehicle", Value: ""})
	}

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}

	result, err := r.db.Collection(controlCentersCollection).UpdateOne(ctx, bson.D{{Key: "_id", Value: data.ID}}, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateControlCenter").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrControlCenterNotFound
	}

	return nil
}

func (r *ControlCenterRepositoryImpl) DeleteControlCenter(ctx context.Context, id string) (err error) {
	controlCenterID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrControlCenterNotFound
	}

	result, err := r.db.Collection(controlCentersCollection).DeleteOne(ctx, bson.D{{Key: "_id", Value: controlCenterID}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteControlCenter").Msg("")
		return
	}

	if result.DeletedCount == 0 {
		return errs.ErrControlCenterNotFound
	}

	return nil
}

// AddMember appends userID only while the user is not yet listed and, with
// enforceCapacity, while a seat is free. Both checks and the push happen in
// one document update.
func (r *ControlCenterRepositoryImpl) AddMember(ctx context.Context, id string, userID string, enforceCapacity bool) (before domain.ControlCenter, err error) {
	controlCenterID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return before, errs.ErrControlCenterNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: controlCenterID},
		{Key: "members", Value: bson.D{{Key: "$ne", Value: userID}}},
	}
	if enforceCapacity {
		filter = append(filter, bson.E{Key: "$expr", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$maxMembers", domain.UnlimitedMembers}}},
			bson.D{{Key: "$lt", Value: bson.A{
				bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$members", bson.A{}}}}}},
				"$maxMembers",
			}}},
		}}}})
	}

	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "members", Value: userID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	err = r.db.Collection(controlCentersCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err == nil {
		return before, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddMember").Msg("")
		return before, err
	}

	current, err := r.GetControlCenterByID(ctx, id)
	if err != nil {
		return before, err
	}

	switch {
	case current.HasMember(userID):
		return current, errs.ErrAlreadyMember
	case enforceCapacity && current.IsFull():
		return current, errs.ErrMaxMembersReached
	default:
		return current, errs.ErrConflict
	}
}

// RemoveMember pulls userID from the member list. With resetWhenEmpty, a
// console left empty gets its vehicle unset and its status reset, guarded so
// that a member joining in between keeps the console as is.
func (r *ControlCenterRepositoryImpl) RemoveMember(ctx context.Context, id string, userID string, resetWhenEmpty bool) (before domain.ControlCenter, err error) {
	controlCenterID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return before, errs.ErrControlCenterNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: controlCenterID},
		{Key: "members", Value: userID},
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "members", Value: userID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	err = r.db.Collection(controlCentersCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Ctx(ctx).Error().Err(err).Str("component", "RemoveMember").Msg("")
			return before, err
		}

		if _, err = r.GetControlCenterByID(ctx, id); err != nil {
			return before, err
		}
		return before, errs.ErrNotMember
	}

	if !resetWhenEmpty || len(before.WithoutMember(userID)) > 0 || (!before.HasStatus && !before.HasVehicle) {
		return before, nil
	}

	reset := bson.D{}
	if before.HasStatus {
		reset = append(reset, bson.E{Key: "$set", Value: bson.D{{Key: "status", Value: domain.CenterStatusNotOccupied}}})
	}
	if before.HasVehicle {
		reset = append(reset, bson.E{Key: "$unset", Value: bson.D{{Key: "vehicle", Value: ""}}})
	}

	emptyFilter := bson.D{
		{Key: "_id", Value: controlCenterID},
		{Key: "members", Value: bson.D{{Key: "$size", Value: 0}}},
	}
	if _, err = r.db.Collection(controlCentersCollection).UpdateOne(ctx, emptyFilter, reset); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "RemoveMember").Msg("")
		return before, err
	}

	return before, nil
}

func (r *ControlCenterRepositoryImpl) UpdateStatus(ctx context.Context, id string, status domain.CenterStatus) (err error) {
	controlCenterID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrControlCenterNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "updatedAt", Value: time.Now()},
	}}}

	result, err := r.db.Collection(controlCentersCollection).UpdateOne(ctx, bson.D{{Key: "_id", Value: controlCenterID}}, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateStatus").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrControlCenterNotFound
	}

	return nil
}

// UpdateVehicle assigns a vehicle, or unsets the field when vehicle is nil.
func (r *ControlCenterRepositoryImpl) UpdateVehicle(ctx context.Context, id string, vehicle *string) (err error) {
	controlCenterID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrControlCenterNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}}}
	if vehicle != nil {
		update = bson.D{{Key: "$set", Value: bson.D{
			{Key: "vehicle", Value: *vehicle},
			{Key: "updatedAt", Value: time.Now()},
		}}}
	} else {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "vehicle", Value: ""}}})
	}

	result, err := r.db.Collection(controlCentersCollection).UpdateOne(ctx, bson.D{{Key: "_id", Value: controlCenterID}}, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateVehicle").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrControlCenterNotFound
	}

	return nil
}
