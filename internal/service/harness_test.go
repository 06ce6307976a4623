package service

import (
	"context"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/keylock"
)

type harness struct {
	store          *store
	clock          *fakeClock
	events         *fakeEventPublisher
	notifier       *fakeNotifier
	occupancy      *Occupancy
	ledger         TimeTrackingLedger
	status         StatusService
	controlCenters ControlCenterService
	statistics     StatisticsService
	dailyReset     DailyResetService
	users          UserService
	afkID          string
}

func newHarness() *harness {
	h := &harness{
		store:    newStore(),
		clock:    &fakeClock{now: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)},
		events:   &fakeEventPublisher{},
		notifier: &fakeNotifier{},
	}

	userRepo := fakeUserRepo{s: h.store}
	memberRepo := fakeMemberRepo{s: h.store}
	controlCenterRepo := fakeControlCenterRepo{s: h.store}
	trackingRepo := fakeTimeTrackingRepo{s: h.store}
	organisationRepo := fakeOrganisationRepo{s: h.store}

	audit := CreateAuditLogger(&fakeAuditLogRepo{s: h.store}, h.events).(*AuditLoggerImpl)
	audit.now = h.clock.Now

	h.occupancy = CreateOccupancy(controlCenterRepo, audit, keylock.New())
	h.ledger = CreateTimeTrackingLedger(trackingRepo, userRepo, memberRepo)

	status := CreateStatusService(userRepo, h.occupancy, h.ledger, audit).(*StatusServiceImpl)
	status.now = h.clock.Now
	h.status = status

	controlCenters := CreateControlCenterService(controlCenterRepo, userRepo, organisationRepo, h.occupancy, h.ledger, audit).(*ControlCenterServiceImpl)
	controlCenters.now = h.clock.Now
	h.controlCenters = controlCenters

	h.statistics = CreateStatisticsService(userRepo, memberRepo, controlCenterRepo, organisationRepo, h.ledger)

	dailyReset := CreateDailyResetService(userRepo, h.occupancy, h.ledger, h.notifier).(*DailyResetServiceImpl)
	dailyReset.now = h.clock.Now
	h.dailyReset = dailyReset

	users := CreateUserService(userRepo, memberRepo, organisationRepo, audit).(*UserServiceImpl)
	users.now = h.clock.Now
	h.users = users

	afk, err := h.controlCenters.EnsureAFKControlCenter(context.Background())
	if err != nil {
		panic(err)
	}
	h.afkID = afk.ID.Hex()

	return h
}

func (h *harness) console(label string, maxMembers int, hasStatus, hasVehicle bool) string {
	cc := domain.ControlCenter{Label: label, Type: "LST", MaxMembers: maxMembers, HasStatus: hasStatus, HasVehicle: hasVehicle}
	if hasStatus {
		status := domain.CenterStatusNotOccupied
		cc.Status = &status
	}
	return h.store.addControlCenter(cc)
}

func self(userID string) domain.Profile {
	return domain.Profile{Sub: userID, Role: domain.RoleUser}
}

func admin() domain.Profile {
	return domain.Profile{Sub: "admin", Role: domain.RoleAdministrator}
}
