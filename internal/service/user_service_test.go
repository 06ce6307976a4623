package service

import (
	"context"
	"testing"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetup(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	group := h.store.addGroup("Anwärter", 1, "CONTROL_CENTERS_SHOW")
	department := h.store.addDepartment("Leitstelle")

	u := primitive.NewObjectID()
	h.store.mu.Lock()
	h.store.users[u.Hex()] = domain.User{ID: u, Account: domain.UserAccount{Username: "new"}, Role: domain.RoleUser, Status: domain.StatusOffline}
	h.store.mu.Unlock()

	user, err := h.users.Setup(ctx, self(u.Hex()), dto.SetupRequest{ID: " 4711 ", FirstName: "Max", LastName: "Muster", PhoneNumber: "123-45-67"})
	require.NoError(t, err)
	require.NotNil(t, user.Details)
	require.Equal(t, "4711", user.Details.ID)
	require.Equal(t, "12-34-567", user.Details.PhoneNumber)

	member, err := fakeMemberRepo{s: h.store}.GetMemberByUserID(ctx, u.Hex())
	require.NoError(t, err)
	require.Equal(t, group, member.GroupID)
	require.Equal(t, []string{department}, member.DepartmentIDs)

	hired := h.store.auditLogsOfType(domain.AuditMemberHired)
	require.Len(t, hired, 1)
	require.Equal(t, u.Hex(), hired[0].SenderID)

	_, err = h.users.Setup(ctx, self(u.Hex()), dto.SetupRequest{ID: "1", FirstName: "A", LastName: "B", PhoneNumber: "1234567"})
	require.ErrorIs(t, err, errs.ErrNotModified)
}

func TestSetupKeepsExistingMember(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.store.addGroup("Anwärter", 1)
	h.store.addDepartment("Leitstelle")
	leader := h.store.addGroup("Leitung", 5)

	u := primitive.NewObjectID()
	h.store.mu.Lock()
	h.store.users[u.Hex()] = domain.User{ID: u, Role: domain.RoleUser, Status: domain.StatusOffline}
	h.store.mu.Unlock()
	h.store.addMember(u.Hex(), leader, []string{}, false)

	user, err := h.users.Setup(ctx, self(u.Hex()), dto.SetupRequest{ID: "7", FirstName: "Lea", LastName: "Leitung", PhoneNumber: "7654321"})
	require.NoError(t, err)
	require.Equal(t, "Lea", user.Details.FirstName)

	member, err := fakeMemberRepo{s: h.store}.GetMemberByUserID(ctx, u.Hex())
	require.NoError(t, err)
	require.Equal(t, leader, member.GroupID)
	require.Empty(t, h.store.auditLogsOfType(domain.AuditMemberHired))
}

func TestSetupValidation(t *testing.T) {
	h := newHarness()
	h.store.addGroup("Anwärter", 1)
	h.store.addDepartment("Leitstelle")

	u := primitive.NewObjectID()
	h.store.mu.Lock()
	h.store.users[u.Hex()] = domain.User{ID: u, Role: domain.RoleUser}
	h.store.mu.Unlock()

	_, err := h.users.Setup(context.Background(), self(u.Hex()), dto.SetupRequest{ID: "1", FirstName: " ", LastName: "B", PhoneNumber: "1234567"})
	require.ErrorIs(t, err, errs.ErrClient)

	_, err = h.users.Setup(context.Background(), self("000000000000000000000000"), dto.SetupRequest{})
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestFormatPhoneNumber(t *testing.T) {
	testCases := map[string]string{
		"1234567":   "12-34-567",
		"12-34-567": "12-34-567",
		"123456789": "12-34-567",
		" 12345 ":   "12-34-5",
		"":          "",
	}

	for input, expected := range testCases {
		require.Equal(t, expected, formatPhoneNumber(input), input)
	}
}

func TestAuthenticate(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	group := h.store.addGroup("Leitung", 5, "CONTROL_CENTERS_MANAGE", "USER_STATUS_MANAGE")
	department := h.store.addDepartment("Leitstelle", "CONTROL_CENTERS_SHOW", "CONTROL_CENTERS_MANAGE")

	active := h.store.addUser("anna", domain.RoleModerator, domain.StatusOffline)
	h.store.addMember(active, group, []string{department}, false)

	profile, err := h.users.Authenticate(ctx, domain.Profile{Sub: active, Role: domain.RoleUser, Permissions: []string{"STATISTICS_TRACKINGS_SHOW"}})
	require.NoError(t, err)
	require.Equal(t, domain.RoleModerator, profile.Role)
	require.Equal(t, []string{"STATISTICS_TRACKINGS_SHOW", "CONTROL_CENTERS_MANAGE", "USER_STATUS_MANAGE", "CONTROL_CENTERS_SHOW"}, profile.Permissions)

	fired := h.store.addUser("fred", domain.RoleUser, domain.StatusOffline)
	h.store.addMember(fired, group, nil, true)
	_, err = h.users.Authenticate(ctx, domain.Profile{Sub: fired})
	require.ErrorIs(t, err, errs.ErrMemberTerminated)

	_, err = h.users.Authenticate(ctx, domain.Profile{Sub: "000000000000000000000000"})
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	newcomer := h.store.addUser("nina", domain.RoleUser, domain.StatusOffline)
	profile, err = h.users.Authenticate(ctx, domain.Profile{Sub: newcomer})
	require.NoError(t, err)
	require.Equal(t, newcomer, profile.Sub)
}

func TestGetMe(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	group := h.store.addGroup("Leitung", 5, "CONTROL_CENTERS_MANAGE")
	department := h.store.addDepartment("Leitstelle", "CONTROL_CENTERS_SHOW")
	u := h.store.addUser("anna", domain.RoleUser, domain.StatusOnDuty)
	h.store.addMember(u, group, []string{department}, false)

	me, err := h.users.GetMe(ctx, self(u))
	require.NoError(t, err)
	require.Equal(t, u, me.User.ID.Hex())
	require.NotNil(t, me.Member)
	require.NotNil(t, me.Group)
	require.Equal(t, "Leitung", me.Group.Name)
	require.Len(t, me.Departments, 1)
	require.ElementsMatch(t, []string{"CONTROL_CENTERS_MANAGE", "CONTROL_CENTERS_SHOW"}, me.Permissions)

	loner := h.store.addUser("lone", domain.RoleUser, domain.StatusOffline)
	me, err = h.users.GetMe(ctx, self(loner))
	require.NoError(t, err)
	require.Nil(t, me.Member)
	require.Empty(t, me.Permissions)
}
