package service

import (
	"context"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
)

type StatusService interface {
	SetStatus(ctx context.Context, actor domain.Profile, targetUserID string, status domain.DutyStatus) (user domain.User, err error)
}

type ControlCenterService interface {
	EnsureAFKControlCenter(ctx context.Context) (controlCenter domain.ControlCenter, err error)
	GetControlCenters(ctx context.Context) (data []domain.ControlCenter, err error)
	GetControlCenter(ctx context.Context, id string) (controlCenter domain.ControlCenter, err error)
	CreateControlCenter(ctx context.Context, actor domain.Profile, req dto.ControlCenterRequest) (controlCenter domain.ControlCenter, err error)
	PatchControlCenter(ctx context.Context, actor domain.Profile, id string, req dto.ControlCenterRequest) (controlCenter domain.ControlCenter, err error)
	DeleteControlCenter(ctx context.Context, actor domain.Profile, id string) (err error)
	Join(ctx context.Context, actor domain.Profile, controlCenterID string, userID string) (controlCenter domain.ControlCenter, err error)
	Leave(ctx context.Context, actor domain.Profile, controlCenterID string, userID string) (controlCenter domain.ControlCenter, err error)
	PatchStatus(ctx context.Context, actor domain.Profile, id string, status domain.CenterStatus) (controlCenter domain.ControlCenter, err error)
	PatchVehicle(ctx context.Context, actor domain.Profile, id string, vehicleID string) (controlCenter domain.ControlCenter, err error)
	DeleteVehicle(ctx context.Context, actor domain.Profile, id string) (controlCenter domain.ControlCenter, err error)
}

type TimeTrackingLedger interface {
	CloseOpenIntervals(ctx context.Context, userID string, at time.Time) (closed int, err error)
	OpenInterval(ctx context.Context, userID string, controlCenterID string, at time.Time) (tracking domain.TimeTracking, err error)
	Aggregate(ctx context.Context, window dto.TrackingWindow) (data []dto.TrackingTotal, err error)
}

type StatisticsService interface {
	GetCounts(ctx context.Context) (counts dto.StatisticsCounts, err error)
	GetRoster(ctx context.Context, status domain.DutyStatus) (data []dto.RosterEntry, err error)
	GetControlCenterDetails(ctx context.Context) (data []dto.ControlCenterDetails, err error)
	GetTrackings(ctx context.Context, window dto.TrackingWindow) (data []dto.TrackingTotal, err error)
}

// Publisher fans realtime events out to connected clients.
type Publisher interface {
	ClientCount() int
	Broadcast(event string, data interface{})
}

type BroadcastService interface {
	Tick(ctx context.Context)
	PublishControlCenterDetails(ctx context.Context) (err error)
}

type DailyResetService interface {
	Run(ctx context.Context) (summary dto.DailyResetSummary, err error)
}

type UserService interface {
	Authenticate(ctx context.Context, claims domain.Profile) (profile domain.Profile, err error)
	GetMe(ctx context.Context, profile domain.Profile) (data dto.MeResponse, err error)
	Setup(ctx context.Context, profile domain.Profile, req dto.SetupRequest) (user domain.User, err error)
}

type AuditEntry struct {
	SenderID    string
	TargetID    *string
	Type        domain.AuditLogType
	Description string
	Diff        domain.Diff
}

// AuditLogger records audit entries. Failures are logged and never surface
// to the caller.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) (err error)
}

type ReportNotifier interface {
	NotifyDailyReset(ctx context.Context, summary dto.DailyResetSummary)
}
