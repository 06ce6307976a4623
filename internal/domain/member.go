package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Member struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	GroupID           string             `bson:"groupId" json:"groupId"`
	DepartmentIDs     []string           `bson:"departmentIds" json:"departmentIds"`
	DutyNumber        *string            `bson:"dutyNumber,omitempty" json:"dutyNumber,omitempty"`
	HiredDate         time.Time          `bson:"hiredDate" json:"hiredDate"`
	LastPromotionDate time.Time          `bson:"lastPromotionDate" json:"lastPromotionDate"`
	Terminated        bool               `bson:"terminated" json:"terminated"`
	TerminatedAt      *time.Time         `bson:"terminatedAt,omitempty" json:"terminatedAt,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UniqueID    int                `bson:"uniqueId" json:"uniqueId"`
	Name        string             `bson:"name" json:"name"`
	ShortName   string             `bson:"shortName" json:"shortName"`
	Permissions []string           `bson:"permissions" json:"permissions"`
	Default     bool               `bson:"default" json:"default"`
}

type Department struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Permissions []string           `bson:"permissions" json:"permissions"`
	Default     bool               `bson:"default" json:"default"`
}

type Vehicle struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Label string             `bson:"label" json:"label"`
}
