package repository

import (
	"context"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrganisationRepositoryImpl reads groups, departments and vehicles. Those
// are maintained elsewhere and only looked up here.
type OrganisationRepositoryImpl struct {
	db *mongo.Database
}

func CreateOrganisationRepository(db *mongo.Database) OrganisationRepository {
	return &OrganisationRepositoryImpl{db: db}
}

func (r *OrganisationRepositoryImpl) GetGroups(ctx context.Context) (data []domain.Group, err error) {
	opts := options.Find().SetSort(bson.D{{Key: "uniqueId", Value: -1}})

	cursor, err := r.db.Collection(groupsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetGroups").Msg("")
		return
	}

	data = []domain.Group{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetGroups").Msg("")
		return
	}

	return data, nil
}

func (r *OrganisationRepositoryImpl) GetDepartments(ctx context.Context) (data []domain.Department, err error) {
	cursor, err := r.db.Collection(departmentsCollection).Find(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetDepartments").Msg("")
		return
	}

	data = []domain.Department{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetDepartments").Msg("")
		return
	}

	return data, nil
}

func (r *OrganisationRepositoryImpl) GetDefaultGroup(ctx context.Context) (group domain.Group, err error) {
	err = r.db.Collection(groupsCollection).FindOne(ctx, bson.D{{Key: "default", Value: true}}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return group, errs.ErrGroupNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetDefaultGroup").Msg("")
		return group, err
	}

	return group, nil
}

func (r *OrganisationRepositoryImpl) GetDefaultDepartment(ctx context.Context) (department domain.Department, err error) {
	err = r.db.Collection(departmentsCollection).FindOne(ctx, bson.D{{Key: "default", Value: true}}).Decode(&department)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return department, errs.ErrDepartmentNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetDefaultDepartment").Msg("")
		return department, err
	}

	return department, nil
}

func (r *OrganisationRepositoryImpl) GetVehicleByID(ctx context.Context, id string) (vehicle domain.Vehicle, err error) {
	vehicleID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return vehicle, errs.ErrVehicleNotFound
	}

	err = r.db.Collection(vehiclesCollection).FindOne(ctx, bson.D{{Key: "_id", Value: vehicleID}}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return vehicle, errs.ErrVehicleNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetVehicleByID").Msg("")
		return vehicle, err
	}

	return vehicle, nil
}
