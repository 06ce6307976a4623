package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type store struct {
	mu             sync.Mutex
	users          map[string]domain.User
	members        map[string]domain.Member
	controlCenters map[string]domain.ControlCenter
	trackings      map[primitive.ObjectID]domain.TimeTracking
	groups         []domain.Group
	departments    []domain.Department
	vehicles       map[string]domain.Vehicle
	auditLogs      []domain.AuditLog
}

func newStore() *store {
	return &store{
		users:          map[string]domain.User{},
		members:        map[string]domain.Member{},
		controlCenters: map[string]domain.ControlCenter{},
		trackings:      map[primitive.ObjectID]domain.TimeTracking{},
		vehicles:       map[string]domain.Vehicle{},
	}
}

func (s *store) addUser(name string, role domain.Role, status domain.DutyStatus) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := domain.User{
		ID:      primitive.NewObjectID(),
		Account: domain.UserAccount{ID: name, Username: name},
		Details: &domain.UserDetails{ID: name, FirstName: name, LastName: "Tester", PhoneNumber: "12-34-567"},
		Role:    role,
		Status:  status,
	}
	s.users[user.ID.Hex()] = user
	return user.ID.Hex()
}

func (s *store) addMember(userID, groupID string, departmentIDs []string, terminated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[userID] = domain.Member{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		GroupID:       groupID,
		DepartmentIDs: departmentIDs,
		Terminated:    terminated,
	}
}

func (s *store) addGroup(name string, uniqueID int, permissions ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := domain.Group{ID: primitive.NewObjectID(), UniqueID: uniqueID, Name: name, ShortName: name, Permissions: permissions, Default: len(s.groups) == 0}
	s.groups = append(s.groups, group)
	return group.ID.Hex()
}

func (s *store) addDepartment(name string, permissions ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	department := domain.Department{ID: primitive.NewObjectID(), Name: name, Permissions: permissions, Default: len(s.departments) == 0}
	s.departments = append(s.departments, department)
	return department.ID.Hex()
}

func (s *store) addVehicle(label string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle := domain.Vehicle{ID: primitive.NewObjectID(), Label: label}
	s.vehicles[vehicle.ID.Hex()] = vehicle
	return vehicle.ID.Hex()
}

func (s *store) addControlCenter(cc domain.ControlCenter) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cc.ID = primitive.NewObjectID()
	if cc.Members == nil {
		cc.Members = []string{}
	}
	s.controlCenters[cc.ID.Hex()] = cc
	return cc.ID.Hex()
}

func (s *store) controlCenter(id string) domain.ControlCenter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controlCenters[id]
}

func (s *store) user(id string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *store) openTrackings(userID string) []domain.TimeTracking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []domain.TimeTracking
	for _, tracking := range s.trackings {
		if tracking.UserID == userID && !tracking.Finished {
			open = append(open, tracking)
		}
	}
	return open
}

func (s *store) allTrackings(userID string) []domain.TimeTracking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []domain.TimeTracking
	for _, tracking := range s.trackings {
		if tracking.UserID == userID {
			all = append(all, tracking)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate < all[j].StartDate })
	return all
}

// consolesListing returns the ids of every console listing userID.
func (s *store) consolesListing(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, cc := range s.controlCenters {
		if cc.HasMember(userID) {
			ids = append(ids, id)
		}
	}
	return ids
}

type fakeUserRepo struct{ s *store }

func (r fakeUserRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return user, errs.ErrUserNotFound
	}
	return user, nil
}

func (r fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	data := []domain.User{}
	for _, id := range ids {
		if user, ok := r.s.users[id]; ok {
			data = append(data, user)
		}
	}
	return data, nil
}

func (r fakeUserRepo) GetUsersByStatuses(ctx context.Context, statuses []domain.DutyStatus) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	data := []domain.User{}
	for _, user := range r.s.users {
		for _, status := range statuses {
			if user.Status == status {
				data = append(data, user)
			}
		}
	}
	sort.Slice(data, func(i, j int) bool { return data[i].ID.Hex() < data[j].ID.Hex() })
	return data, nil
}

func (r fakeUserRepo) UpdateUserStatus(ctx context.Context, id string, status domain.DutyStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	user.Status = status
	r.s.users[id] = user
	return nil
}

func (r fakeUserRepo) UpdateUserDetails(ctx context.Context, id string, details domain.UserDetails) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	if user.Details != nil {
		return errs.ErrNotModified
	}
	user.Details = &details
	r.s.users[id] = user
	return nil
}

type fakeMemberRepo struct{ s *store }

func (r fakeMemberRepo) AddMember(ctx context.Context, data domain.Member) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[data.UserID]; ok {
		return primitive.NilObjectID, errs.ErrNotModified
	}
	data.ID = primitive.NewObjectID()
	r.s.members[data.UserID] = data
	return data.ID, nil
}

func (r fakeMemberRepo) GetMemberByUserID(ctx context.Context, userID string) (domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	member, ok := r.s.members[userID]
	if !ok {
		return member, errs.ErrNotFound
	}
	return member, nil
}

func (r fakeMemberRepo) GetMembers(ctx context.Context, param dto.MemberFilter) ([]domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var wanted map[string]bool
	if param.UserIDs != nil {
		wanted = map[string]bool{}
		for _, id := range param.UserIDs {
			wanted[id] = true
		}
	}
	data := []domain.Member{}
	for _, member := range r.s.members {
		if wanted != nil && !wanted[member.UserID] {
			continue
		}
		if member.Terminated && !param.IncludeTerminated {
			continue
		}
		data = append(data, member)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].UserID < data[j].UserID })
	return data, nil
}

type fakeControlCenterRepo struct{ s *store }

func (r fakeControlCenterRepo) AddControlCenter(ctx context.Context, data domain.ControlCenter) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if data.IsAFK() {
		for _, cc := range r.s.controlCenters {
			if cc.IsAFK() {
				return primitive.NilObjectID, errs.ErrConflict
			}
		}
	}
	data.ID = primitive.NewObjectID()
	if data.Members == nil {
		data.Members = []string{}
	}
	r.s.controlCenters[data.ID.Hex()] = data
	return data.ID, nil
}

func (r fakeControlCenterRepo) GetControlCenters(ctx context.Context) ([]domain.ControlCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	data := []domain.ControlCenter{}
	for _, cc := range r.s.controlCenters {
		data = append(data, cc)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Label < data[j].Label })
	return data, nil
}

func (r fakeControlCenterRepo) GetControlCenterByID(ctx context.Context, id string) (domain.ControlCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cc, ok := r.s.controlCenters[id]
	if !ok {
		return cc, errs.ErrControlCenterNotFound
	}
	return cc, nil
}

func (r fakeControlCenterRepo) GetControlCenterByType(ctx context.Context, controlCenterType string) (domain.ControlCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cc := range r.s.controlCenters {
		if cc.Type == controlCenterType {
			return cc, nil
		}
	}
	return domain.ControlCenter{}, errs.ErrControlCenterNotFound
}

func (r fakeControlCenterRepo) GetControlCentersByMember(ctx context.Context, userID string) ([]domain.ControlCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	data := []domain.ControlCenter{}
	for _, cc := range r.s.controlCenters {
		if cc.HasMember(userID) {
			data = append(data, cc)
		}
	}
	return data, nil
}

func (r fakeControlCenterRepo) UpdateControlCenter(ctx context.Context, data domain.ControlCenter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cc, ok := r.s.controlCenters[data.ID.Hex()]
	if !ok {
		return errs.ErrControlCenterNotFound
	}
	data.Members = cc.Members
	r.s.controlCenters[data.ID.Hex()] = data
	return nil
}

func (r fakeControlCenterRepo) DeleteControlCenter(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.controlCenters[id]; !ok {
		return errs.ErrControlCenterNotFound
	}
	delete(r.s.controlCenters, id)
	return nil
}

func (r fakeControlCenterRepo) AddMember(ctx context.Context, id string, userID string, enforceCapacity bool) (domain.ControlCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cc, ok := r.s.controlCenters[id]
	if !ok {
		return cc, errs.ErrControlCenterNotFound
	}
	if cc.HasMember(userID) {
		return cc, errs.ErrAlreadyMember
	}
	if enforceCapacity && cc.IsFull() {
		return cc, errs.ErrMaxMembersReached
	}
	before := cc
	cc.Members = cc.WithMember(userID)
	r.s.controlCenters[id] = cc
	return before, nil
}

func (r fakeControlCenterRepo) RemoveMember(ctx context.Context, id string, userID string, resetWhenEmpty bool) (domain.ControlCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cc, ok := r.s.controlCenters[id]
	if !ok {
		return cc, errs.ErrControlCenterNotFound
	}
	if !cc.HasMember(userID) {
		return cc, errs.ErrNotMember
	}
	before := cc
	cc.Members = cc.WithoutMember(userID)
	if resetWhenEmpty {
		cc = cc.Vacated()
	}
	r.s.controlCenters[id] = cc
	return before, nil
}

func (r fakeControlCenterRepo) UpdateStatus(ctx context.Context, id string, status domain.CenterStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cc, ok := r.s.controlCenters[id]
	if !ok {
		return errs.ErrControlCenterNotFound
	}
	cc.Status = &status
	r.s.controlCenters[id] = cc
	return nil
}

func (r fakeControlCenterRepo) UpdateVehicle(ctx context.Context, id string, vehicle *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cc, ok := r.s.controlCenters[id]
	if !ok {
		return errs.ErrControlCenterNotFound
	}
	cc.Vehicle = vehicle
	r.s.controlCenters[id] = cc
	return nil
}

type fakeTimeTrackingRepo struct{ s *store }

func (r fakeTimeTrackingRepo) AddTimeTracking(ctx context.Context, data domain.TimeTracking) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !data.Finished {
		for _, tracking := range r.s.trackings {
			if tracking.UserID == data.UserID && !tracking.Finished {
				return primitive.NilObjectID, errs.ErrConflict
			}
		}
	}
	data.ID = primitive.NewObjectID()
	r.s.trackings[data.ID] = data
	return data.ID, nil
}

func (r fakeTimeTrackingRepo) GetOpenTimeTrackings(ctx context.Context, userID string) ([]domain.TimeTracking, error) {
	return r.s.openTrackings(userID), nil
}

func (r fakeTimeTrackingRepo) FinishTimeTracking(ctx context.Context, id primitive.ObjectID, endDate int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tracking, ok := r.s.trackings[id]
	if !ok || tracking.Finished {
		return false, nil
	}
	tracking.EndDate = &endDate
	tracking.Finished = true
	r.s.trackings[id] = tracking
	return true, nil
}

func (r fakeTimeTrackingRepo) GetFinishedTimeTrackings(ctx context.Context, window dto.TrackingWindow) ([]domain.TimeTracking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	data := []domain.TimeTracking{}
	for _, tracking := range r.s.trackings {
		if tracking.Within(window.StartDate, window.EndDate) {
			data = append(data, tracking)
		}
	}
	return data, nil
}

type fakeOrganisationRepo struct{ s *store }

func (r fakeOrganisationRepo) GetGroups(ctx context.Context) ([]domain.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Group{}, r.s.groups...), nil
}

func (r fakeOrganisationRepo) GetDepartments(ctx context.Context) ([]domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Department{}, r.s.departments...), nil
}

func (r fakeOrganisationRepo) GetDefaultGroup(ctx context.Context) (domain.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, group := range r.s.groups {
		if group.Default {
			return group, nil
		}
	}
	return domain.Group{}, errs.ErrGroupNotFound
}

func (r fakeOrganisationRepo) GetDefaultDepartment(ctx context.Context) (domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, department := range r.s.departments {
		if department.Default {
			return department, nil
		}
	}
	return domain.Department{}, errs.ErrDepartmentNotFound
}

func (r fakeOrganisationRepo) GetVehicleByID(ctx context.Context, id string) (domain.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vehicle, ok := r.s.vehicles[id]
	if !ok {
		return vehicle, errs.ErrVehicleNotFound
	}
	return vehicle, nil
}

type fakeAuditLogRepo struct {
	s   *store
	err error
}

func (r *fakeAuditLogRepo) AddAuditLog(ctx context.Context, data domain.AuditLog) (primitive.ObjectID, error) {
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	data.ID = primitive.NewObjectID()
	r.s.auditLogs = append(r.s.auditLogs, data)
	return data.ID, nil
}

func (s *store) auditLogsOfType(auditType domain.AuditLogType) []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var logs []domain.AuditLog
	for _, entry := range s.auditLogs {
		if entry.Type == auditType {
			logs = append(logs, entry)
		}
	}
	return logs
}

type publishedEvent struct {
	EventType string
	Data      interface{}
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakeEventPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{EventType: eventType, Data: data})
	return p.err
}

type fakeHub struct {
	mu      sync.Mutex
	clients int
	events  []string
	data    map[string]interface{}
}

func (h *fakeHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

func (h *fakeHub) Broadcast(event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	if h.data == nil {
		h.data = map[string]interface{}{}
	}
	h.data[event] = data
}

type fakeNotifier struct {
	summaries []dto.DailyResetSummary
}

func (n *fakeNotifier) NotifyDailyReset(ctx context.Context, summary dto.DailyResetSummary) {
	n.summaries = append(n.summaries, summary)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
