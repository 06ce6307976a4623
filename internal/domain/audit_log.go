package domain

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLogType string

const (
	AuditUserStatus                  AuditLogType = "USER_STATUS"
	AuditUserStatusOther             AuditLogType = "USER_STATUS_OTHER"
	AuditMemberHired                 AuditLogType = "MEMBER_HIRED"
	AuditControlCenterCreated        AuditLogType = "CONTROL_CENTER_CREATED"
	AuditControlCenterPatched        AuditLogType = "CONTROL_CENTER_PATCHED"
	AuditControlCenterDeleted        AuditLogType = "CONTROL_CENTER_DELETED"
	AuditControlCenterMemberAdded    AuditLogType = "CONTROL_CENTER_MEMBER_ADDED"
	AuditControlCenterMemberRemoved  AuditLogType = "CONTROL_CENTER_MEMBER_REMOVED"
	AuditControlCenterPatchedStatus  AuditLogType = "CONTROL_CENTER_PATCHED_STATUS"
	AuditControlCenterPatchedVehicle AuditLogType = "CONTROL_CENTER_PATCHED_VEHICLE"
)

type AuditLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID    string             `bson:"senderId" json:"senderId"`
	TargetID    *string            `bson:"targetId,omitempty" json:"targetId,omitempty"`
	Type        AuditLogType       `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Changes     []string           `bson:"changes" json:"changes"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Diff is a before/after pair rendered to two display-only snapshots.
type Diff interface {
	Snapshots() []string
}

type StatusDiff struct {
	Before DutyStatus
	After  DutyStatus
}

func (d StatusDiff) Snapshots() []string {
	return []string{string(d.Before), string(d.After)}
}

type MemberListDiff struct {
	Before []string
	After  []string
}

func (d MemberListDiff) Snapshots() []string {
	return []string{strings.Join(d.Before, ", "), strings.Join(d.After, ", ")}
}

type ControlCenterDiff struct {
	Before ControlCenter
	After  ControlCenter
}

func (d ControlCenterDiff) Snapshots() []string {
	return []string{snapshot(d.Before), snapshot(d.After)}
}

func snapshot(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
