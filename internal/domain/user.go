package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser          Role = "USER"
	RoleModerator     Role = "MODERATOR"
	RoleAdministrator Role = "ADMINISTRATOR"
)

var roleOrder = []Role{RoleUser, RoleModerator, RoleAdministrator}

// AtLeast reports whether r ranks at or above min.
func (r Role) AtLeast(min Role) bool {
	return roleRank(r) >= 0 && roleRank(min) >= 0 && roleRank(r) >= roleRank(min)
}

func roleRank(r Role) int {
	for i, item := range roleOrder {
		if item == r {
			return i
		}
	}
	return -1
}

type DutyStatus string

const (
	StatusOffline          DutyStatus = "OFFLINE"
	StatusOffDuty          DutyStatus = "OFF_DUTY"
	StatusOnDuty           DutyStatus = "ON_DUTY"
	StatusAwayFromKeyboard DutyStatus = "AWAY_FROM_KEYBOARD"
)

func (s DutyStatus) Valid() bool {
	switch s {
	case StatusOffline, StatusOffDuty, StatusOnDuty, StatusAwayFromKeyboard:
		return true
	}
	return false
}

// Occupying reports whether a user in this status may hold a console seat
// with an open time-tracking interval.
func (s DutyStatus) Occupying() bool {
	return s == StatusOnDuty || s == StatusAwayFromKeyboard
}

type UserAccount struct {
	ID            string `bson:"id" json:"id"`
	Username      string `bson:"username" json:"username"`
	Discriminator string `bson:"discriminator,omitempty" json:"discriminator,omitempty"`
	Avatar        string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

type UserDetails struct {
	ID          string `bson:"id" json:"id"`
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Account   UserAccount        `bson:"account" json:"account"`
	Details   *UserDetails       `bson:"details,omitempty" json:"details,omitempty"`
	Role      Role               `bson:"role" json:"role"`
	Status    DutyStatus         `bson:"status" json:"status"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// DisplayName prefers the roleplay name and falls back to the account name.
func (u User) DisplayName() string {
	if u.Details != nil {
		name := strings.TrimSpace(u.Details.FirstName + " " + u.Details.LastName)
		if name != "" {
			return name
		}
	}
	if u.Account.Username != "" {
		return u.Account.Username
	}
	return u.ID.Hex()
}
