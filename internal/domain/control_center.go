package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TypeAFK marks the single holding console for away-from-keyboard users.
const TypeAFK = "AFK"

// UnlimitedMembers disables the capacity check of a console.
const UnlimitedMembers = -1

type CenterStatus string

const (
	CenterStatusActive      CenterStatus = "ACTIVE"
	CenterStatusAbsent      CenterStatus = "ABSENT"
	CenterStatusMeeting     CenterStatus = "MEETING"
	CenterStatusOffice      CenterStatus = "OFFICE"
	CenterStatusNotOccupied CenterStatus = "NOT_OCCUPIED"
)

func (s CenterStatus) Valid() bool {
	switch s {
	case CenterStatusActive, CenterStatusAbsent, CenterStatusMeeting, CenterStatusOffice, CenterStatusNotOccupied:
		return true
	}
	return false
}

type ControlCenter struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Label      string             `bson:"label" json:"label"`
	Type       string             `bson:"type" json:"type"`
	Color      *string            `bson:"color,omitempty" json:"color,omitempty"`
	HasStatus  bool               `bson:"hasStatus" json:"hasStatus"`
	Status     *CenterStatus      `bson:"status,omitempty" json:"status,omitempty"`
	HasVehicle bool               `bson:"hasVehicle" json:"hasVehicle"`
	Vehicle    *string            `bson:"vehicle,omitempty" json:"vehicle,omitempty"`
	Members    []string           `bson:"members" json:"members"`
	MaxMembers int                `bson:"maxMembers" json:"maxMembers"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

func (c ControlCenter) IsAFK() bool {
	return c.Type == TypeAFK
}

func (c ControlCenter) IsFull() bool {
	return c.MaxMembers != UnlimitedMembers && len(c.Members) >= c.MaxMembers
}

func (c ControlCenter) HasMember(userID string) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// WithoutMember returns a copy of the member list with the first occurrence
// of userID removed.
func (c ControlCenter) WithoutMember(userID string) []string {
	members := make([]string, 0, len(c.Members))
	removed := false
	for _, id := range c.Members {
		if !removed && id == userID {
			removed = true
			continue
		}
		members = append(members, id)
	}
	return members
}

// WithMember returns a copy of the member list with userID appended.
func (c ControlCenter) WithMember(userID string) []string {
	members := make([]string, 0, len(c.Members)+1)
	members = append(members, c.Members...)
	return append(members, userID)
}

// Vacated applies the reset rules for a console whose last member left.
func (c ControlCenter) Vacated() ControlCenter {
	if len(c.Members) > 0 {
		return c
	}
	if c.HasVehicle {
		c.Vehicle = nil
	}
	if c.HasStatus {
		status := CenterStatusNotOccupied
		c.Status = &status
	}
	return c
}
