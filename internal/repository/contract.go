package repository

import (
	"context"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (user domain.User, err error)
	GetUsersByIDs(ctx context.Context, ids []string) (data []domain.User, err error)
	GetUsersByStatuses(ctx context.Context, statuses []domain.DutyStatus) (data []domain.User, err error)
	UpdateUserStatus(ctx context.Context, id string, status domain.DutyStatus) (err error)
	UpdateUserDetails(ctx context.Context, id string, details domain.UserDetails) (err error)
}

type MemberRepository interface {
	AddMember(ctx context.Context, data domain.Member) (id primitive.ObjectID, err error)
	GetMemberByUserID(ctx context.Context, userID string) (member domain.Member, err error)
	GetMembers(ctx context.Context, param dto.MemberFilter) (data []domain.Member, err error)
}

// ControlCenterRepository owns the console documents. AddMember and
// RemoveMember are single conditional updates and return the document as it
// was before the change.
type ControlCenterRepository interface {
	AddControlCenter(ctx context.Context, data domain.ControlCenter) (id primitive.ObjectID, err error)
	GetControlCenters(ctx context.Context) (data []domain.ControlCenter, err error)
	GetControlCenterByID(ctx context.Context, id string) (controlCenter domain.ControlCenter, err error)
	GetControlCenterByType(ctx context.Context, controlCenterType string) (controlCenter domain.ControlCenter, err error)
	GetControlCentersByMember(ctx context.Context, userID string) (data []domain.ControlCenter, err error)
	UpdateControlCenter(ctx context.Context, data domain.ControlCenter) (err error)
	DeleteControlCenter(ctx context.Context, id string) (err error)
	AddMember(ctx context.Context, id string, userID string, enforceCapacity bool) (before domain.ControlCenter, err error)
	RemoveMember(ctx context.Context, id string, userID string, resetWhenEmpty bool) (before domain.ControlCenter, err error)
	UpdateStatus(ctx context.Context, id string, status domain.CenterStatus) (err error)
	UpdateVehicle(ctx context.Context, id string, vehicle *string) (err error)
}

type TimeTrackingRepository interface {
	AddTimeTracking(ctx context.Context, data domain.TimeTracking) (id primitive.ObjectID, err error)
	GetOpenTimeTrackings(ctx context.Context, userID string) (data []domain.TimeTracking, err error)
	FinishTimeTracking(ctx context.Context, id primitive.ObjectID, endDate int64) (updated bool, err error)
	GetFinishedTimeTrackings(ctx context.Context, window dto.TrackingWindow) (data []domain.TimeTracking, err error)
}

type OrganisationRepository interface {
	GetGroups(ctx context.Context) (data []domain.Group, err error)
	GetDepartments(ctx context.Context) (data []domain.Department, err error)
	GetDefaultGroup(ctx context.Context) (group domain.Group, err error)
	GetDefaultDepartment(ctx context.Context) (department domain.Department, err error)
	GetVehicleByID(ctx context.Context, id string) (vehicle domain.Vehicle, err error)
}

type AuditLogRepository interface {
	AddAuditLog(ctx context.Context, data domain.AuditLog) (id primitive.ObjectID, err error)
}
