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
)

type UserServiceImpl struct {
	userRepo         repository.UserRepository
	memberRepo       repository.MemberRepository
	organisationRepo repository.OrganisationRepository
	audit            AuditLogger
	now              func() time.Time
}

func CreateUserService(userRepo repository.UserRepository, memberRepo repository.MemberRepository, organisationRepo repository.OrganisationRepository, audit AuditLogger) UserService {
	return &UserServiceImpl{userRepo: userRepo, memberRepo: memberRepo, organisationRepo: organisationRepo, audit: audit, now: time.Now}
}

// Authenticate resolves token claims against the stored user. The role comes
// from the user document, permissions are the token's plus those granted by
// the member's group and departments.
func (s *UserServiceImpl) Authenticate(ctx context.Context, claims domain.Profile) (profile domain.Profile, err error) {
	user, err := s.userRepo.GetUserByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return profile, errs.ErrUnauthorized
		}
		return profile, err
	}

	profile = domain.Profile{Sub: claims.Sub, Role: user.Role, Permissions: claims.Permissions}

	member, err := s.memberRepo.GetMemberByUserID(ctx, claims.Sub)
	if errors.Is(err, errs.ErrNotFound) {
		return profile, nil
	}
	if err != nil {
		return profile, err
	}
	if member.Terminated {
		return profile, errs.ErrMemberTerminated
	}

	_, _, granted, err := s.memberGrants(ctx, member)
	if err != nil {
		return profile, err
	}
	profile.Permissions = mergePermissions(claims.Permissions, granted)

	return profile, nil
}

func (s *UserServiceImpl) GetMe(ctx context.Context, profile domain.Profile) (data dto.MeResponse, err error) {
	user, err := s.userRepo.GetUserByID(ctx, profile.Sub)
	if err != nil {
		return data, err
	}

	data = dto.MeResponse{
		User:        user,
		Departments: []domain.Department{},
		Permissions: mergePermissions(profile.Permissions, nil),
	}

	member, err := s.memberRepo.GetMemberByUserID(ctx, profile.Sub)
	if errors.Is(err, errs.ErrNotFound) {
		return data, nil
	}
	if err != nil {
		return data, err
	}
	data.Member = &member

	group, departments, granted, err := s.memberGrants(ctx, member)
	if err != nil {
		return data, err
	}
	data.Group = group
	data.Departments = departments
	data.Permissions = mergePermissions(profile.Permissions, granted)

	return data, nil
}

// Setup stores the roleplay details once and hires the user into the
// default group and department.
func (s *UserServiceImpl) Setup(ctx context.Context, profile domain.Profile, req dto.SetupRequest) (user domain.User, err error) {
	user, err = s.userRepo.GetUserByID(ctx, profile.Sub)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return user, errs.ErrUnauthorized
		}
		return user, err
	}
	if user.Details != nil {
		return user, errs.ErrNotModified
	}

	details := domain.UserDetails{
		ID:          strings.TrimSpace(req.ID),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: formatPhoneNumber(req.PhoneNumber),
	}
	if details.ID == "" || details.FirstName == "" || details.LastName == "" || details.PhoneNumber == "" {
		return user, errs.ErrClient
	}

	group, err := s.organisationRepo.GetDefaultGroup(ctx)
	if err != nil {
		return user, err
	}
	department, err := s.organisationRepo.GetDefaultDepartment(ctx)
	if err != nil {
		return user, err
	}

	if err = s.userRepo.UpdateUserDetails(ctx, profile.Sub, details); err != nil {
		return user, err
	}
	user.Details = &details

	// an existing member keeps its record and is not hired again
	hired := false
	_, err = s.memberRepo.GetMemberByUserID(ctx, profile.Sub)
	if errors.Is(err, errs.ErrNotFound) {
		now := s.now()
		_, err = s.memberRepo.AddMember(ctx, domain.Member{
			UserID:            profile.Sub,
			GroupID:           group.ID.Hex(),
			DepartmentIDs:     []string{department.ID.Hex()},
			HiredDate:         now,
			LastPromotionDate: now,
			Terminated:        false,
			UpdatedAt:         now,
			CreatedAt:         now,
		})
		hired = err == nil
		if errors.Is(err, errs.ErrNotModified) {
			err = nil
		}
	}
	if err != nil {
		return user, err
	}

	if hired {
		s.audit.Log(ctx, AuditEntry{
			SenderID:    profile.Sub,
			Type:        domain.AuditMemberHired,
			Description: fmt.Sprintf("%s %s (ID: %s) was hired!", details.FirstName, details.LastName, details.ID),
		})
	}

	return user, nil
}

func (s *UserServiceImpl) memberGrants(ctx context.Context, member domain.Member) (group *domain.Group, departments []domain.Department, permissions []string, err error) {
	groups, err := s.organisationRepo.GetGroups(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, item := range groups {
		if item.ID.Hex() == member.GroupID {
			found := item
			group = &found
			permissions = append(permissions, item.Permissions...)
			break
		}
	}

	all, err := s.organisationRepo.GetDepartments(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	departments = []domain.Department{}
	for _, item := range all {
		for _, id := range member.DepartmentIDs {
			if item.ID.Hex() == id {
				departments = append(departments, item)
				permissions = append(permissions, item.Permissions...)
				break
			}
		}
	}

	return group, departments, permissions, nil
}

func mergePermissions(lists ...[]string) []string {
	seen := map[string]struct{}{}
	merged := []string{}
	for _, list := range lists {
		for _, permission := range list {
			if _, ok := seen[permission]; ok {
				continue
			}
			seen[permission] = struct{}{}
			merged = append(merged, permission)
		}
	}
	return merged
}

// formatPhoneNumber normalises to xx-xx-xxx, dropping anything past seven
// characters.
func formatPhoneNumber(value string) string {
	phone := []rune(strings.ReplaceAll(strings.TrimSpace(value), "-", ""))
	if len(phone) > 7 {
		phone = phone[:7]
	}

	parts := []string{}
	for _, bounds := range [][2]int{{0, 2}, {2, 4}, {4, 7}} {
		if bounds[0] >= len(phone) {
			break
		}
		end := bounds[1]
		if end > len(phone) {
			end = len(phone)
		}
		parts = append(parts, string(phone[bounds[0]:end]))
	}

	return strings.Join(parts, "-")
}
