package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/keylock"
)

// Occupancy is the shared unit of work behind every console membership
// change: eviction with its audit trail, guarded appends and the per-user
// lock. Status changes, joins, leaves and the daily reset all go through it.
type Occupancy struct {
	controlCenterRepo repository.ControlCenterRepository
	audit             AuditLogger
	locks             *keylock.KeyLock

	mu    sync.RWMutex
	afkID string
}

func CreateOccupancy(controlCenterRepo repository.ControlCenterRepository, audit AuditLogger, locks *keylock.KeyLock) *Occupancy {
	return &Occupancy{controlCenterRepo: controlCenterRepo, audit: audit, locks: locks}
}

// LockUser serializes occupancy changes of one user.
func (o *Occupancy) LockUser(userID string) func() {
	return o.locks.Lock(userID)
}

func (o *Occupancy) setAFKControlCenterID(id string) {
	o.mu.Lock()
	o.afkID = id
	o.mu.Unlock()
}

// AFKControlCenterID returns the provisioned AFK console id, or "" when no
// AFK console exists.
func (o *Occupancy) AFKControlCenterID(ctx context.Context) (string, error) {
	o.mu.RLock()
	id := o.afkID
	o.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	afk, err := o.controlCenterRepo.GetControlCenterByType(ctx, domain.TypeAFK)
	if err != nil {
		if errors.Is(err, errs.ErrControlCenterNotFound) {
			return "", nil
		}
		return "", err
	}

	o.setAFKControlCenterID(afk.ID.Hex())
	return afk.ID.Hex(), nil
}

func (o *Occupancy) isAFKControlCenter(id string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.afkID != "" && o.afkID == id
}

// Evict removes the user from one console. With cleanup an emptied console
// loses its vehicle and falls back to NOT_OCCUPIED.
func (o *Occupancy) Evict(ctx context.Context, actorID string, controlCenterID string, userID string, cleanup bool) (after domain.ControlCenter, err error) {
	before, err := o.controlCenterRepo.RemoveMember(ctx, controlCenterID, userID, cleanup)
	if err != nil {
		return after, err
	}

	after = before
	after.Members = before.WithoutMember(userID)
	if cleanup {
		after = after.Vacated()
	}

	o.audit.Log(ctx, AuditEntry{
		SenderID:    actorID,
		TargetID:    stringPtr(userID),
		Type:        domain.AuditControlCenterMemberRemoved,
		Description: fmt.Sprintf("Member removed from control center. (ID: %s, Label: %s)", controlCenterID, before.Label),
		Diff:        domain.MemberListDiff{Before: before.Members, After: after.Members},
	})

	return after, nil
}

// EvictEverywhere removes the user from every console listing them and
// returns the consoles as they are afterwards.
func (o *Occupancy) EvictEverywhere(ctx context.Context, actorID string, userID string, cleanup bool) (evicted []domain.ControlCenter, err error) {
	controlCenters, err := o.controlCenterRepo.GetControlCentersByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, controlCenter := range controlCenters {
		after, err := o.Evict(ctx, actorID, controlCenter.ID.Hex(), userID, cleanup)
		if err != nil {
			// left concurrently, nothing to undo
			if errors.Is(err, errs.ErrNotMember) || errors.Is(err, errs.ErrControlCenterNotFound) {
				continue
			}
			return evicted, err
		}
		evicted = append(evicted, after)
	}

	return evicted, nil
}

// Seat appends the user to a console. enforceCapacity is false only for the
// forced AFK seat.
func (o *Occupancy) Seat(ctx context.Context, actorID string, controlCenterID string, userID string, enforceCapacity bool) (after domain.ControlCenter, err error) {
	before, err := o.controlCenterRepo.AddMember(ctx, controlCenterID, userID, enforceCapacity)
	if err != nil {
		return after, err
	}

	after = before
	after.Members = before.WithMember(userID)

	o.audit.Log(ctx, AuditEntry{
		SenderID:    actorID,
		TargetID:    stringPtr(userID),
		Type:        domain.AuditControlCenterMemberAdded,
		Description: fmt.Sprintf("Member added to control center. (ID: %s, Label: %s)", controlCenterID, before.Label),
		Diff:        domain.MemberListDiff{Before: before.Members, After: after.Members},
	})

	return after, nil
}
