package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/rs/zerolog/log"
)

const afkControlCenterLabel = "AFK / AFK-Bot"

type ControlCenterServiceImpl struct {
	controlCenterRepo repository.ControlCenterRepository
	userRepo          repository.UserRepository
	organisationRepo  repository.OrganisationRepository
	occupancy         *Occupancy
	ledger            TimeTrackingLedger
	audit             AuditLogger
	now               func() time.Time
}

func CreateControlCenterService(controlCenterRepo repository.ControlCenterRepository, userRepo repository.UserRepository, organisationRepo repository.OrganisationRepository, occupancy *Occupancy, ledger TimeTrackingLedger, audit AuditLogger) ControlCenterService {
	return &ControlCenterServiceImpl{
		controlCenterRepo: controlCenterRepo,
		userRepo:          userRepo,
		organisationRepo:  organisationRepo,
		occupancy:         occupancy,
		ledger:            ledger,
		audit:             audit,
		now:               time.Now,
	}
}

// EnsureAFKControlCenter provisions the AFK console once and remembers its id.
func (s *ControlCenterServiceImpl) EnsureAFKControlCenter(ctx context.Context) (controlCenter domain.ControlCenter, err error) {
	controlCenter, err = s.controlCenterRepo.GetControlCenterByType(ctx, domain.TypeAFK)
	if err == nil {
		s.occupancy.setAFKControlCenterID(controlCenter.ID.Hex())
		return controlCenter, nil
	}
	if !errors.Is(err, errs.ErrControlCenterNotFound) {
		return controlCenter, err
	}

	now := s.now()
	controlCenter = domain.ControlCenter{
		Label:      afkControlCenterLabel,
		Type:       domain.TypeAFK,
		Members:    []string{},
		MaxMembers: domain.UnlimitedMembers,
		UpdatedAt:  now,
		CreatedAt:  now,
	}

	id, err := s.controlCenterRepo.AddControlCenter(ctx, controlCenter)
	if errors.Is(err, errs.ErrConflict) {
		// provisioned by another instance in between
		controlCenter, err = s.controlCenterRepo.GetControlCenterByType(ctx, domain.TypeAFK)
		if err != nil {
			return controlCenter, err
		}
		s.occupancy.setAFKControlCenterID(controlCenter.ID.Hex())
		return controlCenter, nil
	}
	if err != nil {
		return controlCenter, err
	}
	controlCenter.ID = id

	s.occupancy.setAFKControlCenterID(id.Hex())
	log.Ctx(ctx).Info().Str("component", "EnsureAFKControlCenter").Str("id", id.Hex()).Msg("AFK control center created")

	return controlCenter, nil
}

func (s *ControlCenterServiceImpl) GetControlCenters(ctx context.Context) (data []domain.ControlCenter, err error) {
	return s.controlCenterRepo.GetControlCenters(ctx)
}

func (s *ControlCenterServiceImpl) GetControlCenter(ctx context.Context, id string) (controlCenter domain.ControlCenter, err error) {
	return s.controlCenterRepo.GetControlCenterByID(ctx, id)
}

func (s *ControlCenterServiceImpl) CreateControlCenter(ctx context.Context, actor domain.Profile, req dto.ControlCenterRequest) (controlCenter domain.ControlCenter, err error) {
	controlCenter, err = applyControlCenterRequest(domain.ControlCenter{Members: []string{}}, req)
	if err != nil {
		return controlCenter, err
	}

	now := s.now()
	controlCenter.CreatedAt = now
	controlCenter.UpdatedAt = now

	id, err := s.controlCenterRepo.AddControlCenter(ctx, controlCenter)
	if err != nil {
		return controlCenter, err
	}
	controlCenter.ID = id

	s.audit.Log(ctx, AuditEntry{
		SenderID:    actor.Sub,
		TargetID:    stringPtr(id.Hex()),
		Type:        domain.AuditControlCenterCreated,
		Description: "Control center created!",
		Diff:        domain.ControlCenterDiff{After: controlCenter},
	})

	return controlCenter, nil
}

func (s *ControlCenterServiceImpl) PatchControlCenter(ctx context.Context, actor domain.Profile, id string, req dto.ControlCenterRequest) (controlCenter domain.ControlCenter, err error) {
	before, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	if err != nil {
		return controlCenter, err
	}
	if s.isProtected(before) {
		return controlCenter, errs.ErrProtectedControlCenter
	}

	controlCenter, err = applyControlCenterRequest(before, req)
	if err != nil {
		return controlCenter, err
	}
	controlCenter.UpdatedAt = s.now()

	if err = s.controlCenterRepo.UpdateControlCenter(ctx, controlCenter); err != nil {
		return controlCenter, err
	}

	s.audit.Log(ctx, AuditEntry{
		SenderID:    actor.Sub,
		TargetID:    stringPtr(id),
		Type:        domain.AuditControlCenterPatched,
		Description: "Control center patched!",
		Diff:        domain.ControlCenterDiff{Before: before, After: controlCenter},
	})

	return controlCenter, nil
}

// DeleteControlCenter refuses the AFK console and consoles still occupied.
func (s *ControlCenterServiceImpl) DeleteControlCenter(ctx context.Context, actor domain.Profile, id string) (err error) {
	controlCenter, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	if err != nil {
		return err
	}
	if s.isProtected(controlCenter) {
		return errs.ErrProtectedControlCenter
	}
	if len(controlCenter.Members) > 0 {
		return fmt.Errorf("control center still has members: %w", errs.ErrConflict)
	}

	if err = s.controlCenterRepo.DeleteControlCenter(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, AuditEntry{
		SenderID:    actor.Sub,
		TargetID:    stringPtr(id),
		Type:        domain.AuditControlCenterDeleted,
		Description: "Control center deleted!",
		Diff:        domain.ControlCenterDiff{Before: controlCenter},
	})

	return nil
}

// Join seats the user on a console. Other consoles listing the user are
// vacated first; that eviction keeps the open interval, which is only
// replaced once the new seat is taken.
func (s *ControlCenterServiceImpl) Join(ctx context.Context, actor domain.Profile, controlCenterID string, userID string) (controlCenter domain.ControlCenter, err error) {
	target, err := s.controlCenterRepo.GetControlCenterByID(ctx, controlCenterID)
	if err != nil {
		return controlCenter, err
	}
	if target.IsFull() {
		return controlCenter, errs.ErrMaxMembersReached
	}
	if _, err = s.userRepo.GetUserByID(ctx, userID); err != nil {
		return controlCenter, err
	}

	unlock := s.occupancy.LockUser(userID)
	defer unlock()

	if target.HasMember(userID) {
		return controlCenter, errs.ErrAlreadyMember
	}

	current, err := s.controlCenterRepo.GetControlCentersByMember(ctx, userID)
	if err != nil {
		return controlCenter, err
	}
	for _, other := range current {
		if other.ID == target.ID {
			return controlCenter, errs.ErrAlreadyMember
		}
	}
	for _, other := range current {
		if _, err = s.occupancy.Evict(ctx, actor.Sub, other.ID.Hex(), userID, true); err != nil && !errors.Is(err, errs.ErrNotMember) {
			return controlCenter, err
		}
	}

	controlCenter, err = s.occupancy.Seat(ctx, actor.Sub, controlCenterID, userID, true)
	if err != nil {
		return controlCenter, err
	}

	now := s.now()
	if _, err = s.ledger.CloseOpenIntervals(ctx, userID, now); err != nil {
		return controlCenter, err
	}
	if _, err = s.ledger.OpenInterval(ctx, userID, controlCenterID, now); err != nil {
		return controlCenter, err
	}

	return controlCenter, nil
}

func (s *ControlCenterServiceImpl) Leave(ctx context.Context, actor domain.Profile, controlCenterID string, userID string) (controlCenter domain.ControlCenter, err error) {
	target, err := s.controlCenterRepo.GetControlCenterByID(ctx, controlCenterID)
	if err != nil {
		return controlCenter, err
	}
	if _, err = s.userRepo.GetUserByID(ctx, userID); err != nil {
		return controlCenter, err
	}

	unlock := s.occupancy.LockUser(userID)
	defer unlock()

	if !target.HasMember(userID) {
		return controlCenter, errs.ErrNotMember
	}

	controlCenter, err = s.occupancy.Evict(ctx, actor.Sub, controlCenterID, userID, true)
	if err != nil {
		return controlCenter, err
	}

	if _, err = s.ledger.CloseOpenIntervals(ctx, userID, s.now()); err != nil {
		return controlCenter, err
	}

	return controlCenter, nil
}

func (s *ControlCenterServiceImpl) PatchStatus(ctx context.Context, actor domain.Profile, id string, status domain.CenterStatus) (controlCenter domain.ControlCenter, err error) {
	before, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	if err != nil {
		return controlCenter, err
	}
	if !before.HasStatus {
		return controlCenter, errs.ErrNoStatus
	}
	if !status.Valid() {
		return controlCenter, errs.ErrInvalidStatus
	}

	if err = s.controlCenterRepo.UpdateStatus(ctx, id, status); err != nil {
		return controlCenter, err
	}

	controlCenter = before
	controlCenter.Status = &status
	controlCenter.UpdatedAt = s.now()

	s.audit.Log(ctx, AuditEntry{
		SenderID:    actor.Sub,
		TargetID:    stringPtr(id),
		Type:        domain.AuditControlCenterPatchedStatus,
		Description: "Control center status patched!",
		Diff:        domain.ControlCenterDiff{Before: before, After: controlCenter},
	})

	return controlCenter, nil
}

func (s *ControlCenterServiceImpl) PatchVehicle(ctx context.Context, actor domain.Profile, id string, vehicleID string) (controlCenter domain.ControlCenter, err error) {
	before, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	if err != nil {
		return controlCenter, err
	}
	if !before.HasVehicle {
		return controlCenter, errs.ErrNoVehicle
	}

	vehicle, err := s.organisationRepo.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		return controlCenter, err
	}

	return s.updateVehicle(ctx, actor, before, stringPtr(vehicle.ID.Hex()))
}

func (s *ControlCenterServiceImpl) DeleteVehicle(ctx context.Context, actor domain.Profile, id string) (controlCenter domain.ControlCenter, err error) {
	before, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	if err != nil {
		return controlCenter, err
	}
	if !before.HasVehicle {
		return controlCenter, errs.ErrNoVehicle
	}

	return s.updateVehicle(ctx, actor, before, nil)
}

func (s *ControlCenterServiceImpl) updateVehicle(ctx context.Context, actor domain.Profile, before domain.ControlCenter, vehicle *string) (controlCenter domain.ControlCenter, err error) {
	id := before.ID.Hex()
	if err = s.controlCenterRepo.UpdateVehicle(ctx, id, vehicle); err != nil {
		return controlCenter, err
	}

	controlCenter = before
	controlCenter.Vehicle = vehicle
	controlCenter.UpdatedAt = s.now()

	s.audit.Log(ctx, AuditEntry{
		SenderID:    actor.Sub,
		TargetID:    stringPtr(id),
		Type:        domain.AuditControlCenterPatchedVehicle,
		Description: "Control center vehicle patched!",
		Diff:        domain.ControlCenterDiff{Before: before, After: controlCenter},
	})

	return controlCenter, nil
}

func (s *ControlCenterServiceImpl) isProtected(controlCenter domain.ControlCenter) bool {
	return controlCenter.IsAFK() || s.occupancy.isAFKControlCenter(controlCenter.ID.Hex())
}

// applyControlCenterRequest validates a create or patch body onto base.
func applyControlCenterRequest(base domain.ControlCenter, req dto.ControlCenterRequest) (domain.ControlCenter, error) {
	label := strings.TrimSpace(req.Label)
	controlCenterType := strings.ToUpper(strings.TrimSpace(req.Type))
	if label == "" || controlCenterType == "" {
		return base, errs.ErrClient
	}
	if controlCenterType == domain.TypeAFK {
		return base, errs.ErrTypeNotAllowed
	}

	maxMembers := domain.UnlimitedMembers
	if req.MaxMembers != nil {
		maxMembers = *req.MaxMembers
	}
	if maxMembers == 0 || maxMembers < domain.UnlimitedMembers {
		return base, errs.ErrClient
	}

	controlCenter := base
	controlCenter.Label = label
	controlCenter.Type = controlCenterType
	controlCenter.Color = req.Color
	controlCenter.HasStatus = req.HasStatus
	controlCenter.HasVehicle = req.HasVehicle
	controlCenter.MaxMembers = maxMembers

	if !controlCenter.HasStatus {
		controlCenter.Status = nil
	} else if controlCenter.Status == nil {
		status := domain.CenterStatusNotOccupied
		controlCenter.Status = &status
	}
	if !controlCenter.HasVehicle {
		controlCenter.Vehicle = nil
	}

	return controlCenter, nil
}
