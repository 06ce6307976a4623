package service

import (
	"context"
	"sort"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
)

type StatisticsServiceImpl struct {
	userRepo          repository.UserRepository
	memberRepo        repository.MemberRepository
	controlCenterRepo repository.ControlCenterRepository
	organisationRepo  repository.OrganisationRepository
	ledger            TimeTrackingLedger
}

func CreateStatisticsService(userRepo repository.UserRepository, memberRepo repository.MemberRepository, controlCenterRepo repository.ControlCenterRepository, organisationRepo repository.OrganisationRepository, ledger TimeTrackingLedger) StatisticsService {
	return &StatisticsServiceImpl{
		userRepo:          userRepo,
		memberRepo:        memberRepo,
		controlCenterRepo: controlCenterRepo,
		organisationRepo:  organisationRepo,
		ledger:            ledger,
	}
}

// GetCounts buckets active members holding the USER role by duty status.
func (s *StatisticsServiceImpl) GetCounts(ctx context.Context) (counts dto.StatisticsCounts, err error) {
	members, err := s.memberRepo.GetMembers(ctx, dto.MemberFilter{})
	if err != nil {
		return counts, err
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, memberUserIDs(members))
	if err != nil {
		return counts, err
	}
	usersByID := indexUsers(users)

	for _, member := range members {
		user, ok := usersByID[member.UserID]
		if !ok || user.Role != domain.RoleUser {
			continue
		}

		switch user.Status {
		case domain.StatusOnDuty:
			counts.OnDuty++
		case domain.StatusOffDuty:
			counts.OffDuty++
		case domain.StatusAwayFromKeyboard:
			counts.AwayFromKeyboard++
		default:
			counts.Offline++
		}
	}

	return counts, nil
}

// GetRoster lists active members in the given status, highest group first.
func (s *StatisticsServiceImpl) GetRoster(ctx context.Context, status domain.DutyStatus) (data []dto.RosterEntry, err error) {
	if !status.Valid() {
		return nil, errs.ErrInvalidStatus
	}

	users, err := s.userRepo.GetUsersByStatuses(ctx, []domain.DutyStatus{status})
	if err != nil {
		return nil, err
	}
	data = []dto.RosterEntry{}
	if len(users) == 0 {
		return data, nil
	}

	userIDs := make([]string, 0, len(users))
	for _, user := range users {
		userIDs = append(userIDs, user.ID.Hex())
	}

	members, err := s.memberRepo.GetMembers(ctx, dto.MemberFilter{UserIDs: userIDs})
	if err != nil {
		return nil, err
	}
	lookup, err := s.organisationLookup(ctx)
	if err != nil {
		return nil, err
	}
	controlCenters, err := s.controlCenterRepo.GetControlCenters(ctx)
	if err != nil {
		return nil, err
	}

	seats := make(map[string]domain.ControlCenter)
	for _, controlCenter := range controlCenters {
		for _, memberID := range controlCenter.Members {
			seats[memberID] = controlCenter
		}
	}

	usersByID := indexUsers(users)
	for _, member := range members {
		user, ok := usersByID[member.UserID]
		if !ok {
			continue
		}

		entry := dto.RosterEntry{
			ID:            member.ID.Hex(),
			UserID:        member.UserID,
			GroupID:       member.GroupID,
			Group:         lookup.group(member.GroupID),
			DepartmentIDs: member.DepartmentIDs,
			Departments:   lookup.departments(member.DepartmentIDs),
			DutyNumber:    member.DutyNumber,
		}
		if user.Details != nil {
			entry.FirstName = user.Details.FirstName
			entry.LastName = user.Details.LastName
			entry.PhoneNumber = user.Details.PhoneNumber
		}
		if controlCenter, ok := seats[member.UserID]; ok {
			entry.ControlCenter = &dto.ControlCenterSummary{
				ID:    controlCenter.ID.Hex(),
				Label: controlCenter.Label,
				Type:  controlCenter.Type,
			}
		}
		data = append(data, entry)
	}

	sort.SliceStable(data, func(i, j int) bool {
		return groupRank(data[i].Group) > groupRank(data[j].Group)
	})

	return data, nil
}

// GetControlCenterDetails returns every console with its seated members in
// seat order. Empty consoles are included.
func (s *StatisticsServiceImpl) GetControlCenterDetails(ctx context.Context) (data []dto.ControlCenterDetails, err error) {
	controlCenters, err := s.controlCenterRepo.GetControlCenters(ctx)
	if err != nil {
		return nil, err
	}

	var userIDs []string
	for _, controlCenter := range controlCenters {
		userIDs = append(userIDs, controlCenter.Members...)
	}

	usersByID := map[string]domain.User{}
	membersByUserID := map[string]domain.Member{}
	if len(userIDs) > 0 {
		users, err := s.userRepo.GetUsersByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		usersByID = indexUsers(users)

		members, err := s.memberRepo.GetMembers(ctx, dto.MemberFilter{UserIDs: userIDs})
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			membersByUserID[member.UserID] = member
		}
	}

	lookup, err := s.organisationLookup(ctx)
	if err != nil {
		return nil, err
	}

	data = make([]dto.ControlCenterDetails, 0, len(controlCenters))
	for _, controlCenter := range controlCenters {
		details := dto.ControlCenterDetails{
			ID:         controlCenter.ID.Hex(),
			Label:      controlCenter.Label,
			Type:       controlCenter.Type,
			Color:      controlCenter.Color,
			Vehicle:    controlCenter.Vehicle,
			MaxMembers: controlCenter.MaxMembers,
			Members:    []dto.ControlCenterMember{},
		}
		if controlCenter.Status != nil {
			status := string(*controlCenter.Status)
			details.Status = &status
		}

		for _, userID := range controlCenter.Members {
			user, ok := usersByID[userID]
			if !ok {
				continue
			}

			entry := dto.ControlCenterMember{
				UserID:      userID,
				Departments: []dto.DepartmentSummary{},
			}
			if user.Details != nil {
				entry.FirstName = user.Details.FirstName
				entry.LastName = user.Details.LastName
				entry.PhoneNumber = user.Details.PhoneNumber
			}
			if member, ok := membersByUserID[userID]; ok {
				entry.ID = member.ID.Hex()
				entry.Group = lookup.group(member.GroupID)
				entry.Departments = lookup.departments(member.DepartmentIDs)
				entry.DutyNumber = member.DutyNumber
			}
			details.Members = append(details.Members, entry)
		}

		data = append(data, details)
	}

	return data, nil
}

func (s *StatisticsServiceImpl) GetTrackings(ctx context.Context, window dto.TrackingWindow) (data []dto.TrackingTotal, err error) {
	return s.ledger.Aggregate(ctx, window)
}

type organisationLookup struct {
	groups          map[string]domain.Group
	departmentsByID map[string]domain.Department
}

func (s *StatisticsServiceImpl) organisationLookup(ctx context.Context) (organisationLookup, error) {
	lookup := organisationLookup{
		groups:          map[string]domain.Group{},
		departmentsByID: map[string]domain.Department{},
	}

	groups, err := s.organisationRepo.GetGroups(ctx)
	if err != nil {
		return lookup, err
	}
	for _, group := range groups {
		lookup.groups[group.ID.Hex()] = group
	}

	departments, err := s.organisationRepo.GetDepartments(ctx)
	if err != nil {
		return lookup, err
	}
	for _, department := range departments {
		lookup.departmentsByID[department.ID.Hex()] = department
	}

	return lookup, nil
}

func (l organisationLookup) group(id string) *dto.GroupSummary {
	group, ok := l.groups[id]
	if !ok {
		return nil
	}
	return &dto.GroupSummary{
		ID:        id,
		UniqueID:  group.UniqueID,
		Name:      group.Name,
		ShortName: group.ShortName,
	}
}

func (l organisationLookup) departments(ids []string) []dto.DepartmentSummary {
	summaries := make([]dto.DepartmentSummary, 0, len(ids))
	for _, id := range ids {
		department, ok := l.departmentsByID[id]
		if !ok {
			continue
		}
		summaries = append(summaries, dto.DepartmentSummary{ID: id, Name: department.Name})
	}
	return summaries
}

func groupRank(group *dto.GroupSummary) int {
	if group == nil {
		return -1
	}
	return group.UniqueID
}

func memberUserIDs(members []domain.Member) []string {
	userIDs := make([]string, 0, len(members))
	for _, member := range members {
		userIDs = append(userIDs, member.UserID)
	}
	return userIDs
}
