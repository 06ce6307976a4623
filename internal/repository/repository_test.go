package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/infrastructure/database/mongodb"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RepositoryTestSuite runs against a real MongoDB. Set MONGO_TEST_URI to
// enable it; every run uses a fresh database that is dropped afterwards.
type RepositoryTestSuite struct {
	suite.Suite
	db                *mongo.Database
	controlCenterRepo ControlCenterRepository
	timeTrackingRepo  TimeTrackingRepository
	userRepo          UserRepository
	memberRepo        MemberRepository
}

func (s *RepositoryTestSuite) SetupSuite() {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		s.T().Skip("MONGO_TEST_URI not set")
	}

	db, err := mongodb.ConnectToMongoDB(uri, fmt.Sprintf("leitstelle_test_%d", time.Now().UnixNano()))
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(EnsureIndexes(context.Background(), db))

	s.controlCenterRepo = CreateControlCenterRepository(db)
	s.timeTrackingRepo = CreateTimeTrackingRepository(db)
	s.userRepo = CreateUserRepository(db)
	s.memberRepo = CreateMemberRepository(db)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.db == nil {
		return
	}
	ctx := context.Background()
	s.Require().NoError(s.db.Drop(ctx))
	s.Require().NoError(s.db.Client().Disconnect(ctx))
}

func (s *RepositoryTestSuite) addConsole(maxMembers int, hasStatus, hasVehicle bool) string {
	cc := domain.ControlCenter{
		Label:      "LST",
		Type:       "LST",
		HasStatus:  hasStatus,
		HasVehicle: hasVehicle,
		MaxMembers: maxMembers,
		Members:    []string{},
	}
	if hasStatus {
		status := domain.CenterStatusActive
		cc.Status = &status
	}
	if hasVehicle {
		vehicle := "vehicle-1"
		cc.Vehicle = &vehicle
	}

	id, err := s.controlCenterRepo.AddControlCenter(context.Background(), cc)
	s.Require().NoError(err)
	return id.Hex()
}

func (s *RepositoryTestSuite) TestAddMemberGuards() {
	ctx := context.Background()
	id := s.addConsole(1, false, false)

	before, err := s.controlCenterRepo.AddMember(ctx, id, "u1", true)
	s.Require().NoError(err)
	s.Empty(before.Members)

	_, err = s.controlCenterRepo.AddMember(ctx, id, "u1", true)
	s.ErrorIs(err, errs.ErrAlreadyMember)

	_, err = s.controlCenterRepo.AddMember(ctx, id, "u2", true)
	s.ErrorIs(err, errs.ErrMaxMembersReached)

	// without the capacity check the console may exceed its limit
	_, err = s.controlCenterRepo.AddMember(ctx, id, "u2", false)
	s.Require().NoError(err)

	_, err = s.controlCenterRepo.AddMember(ctx, "000000000000000000000000", "u1", true)
	s.ErrorIs(err, errs.ErrControlCenterNotFound)
}

func (s *RepositoryTestSuite) TestConcurrentAddMemberRespectsCapacity() {
	ctx := context.Background()
	id := s.addConsole(2, false, false)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.controlCenterRepo.AddMember(ctx, id, fmt.Sprintf("user-%d", i), true)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, errs.ErrMaxMembersReached)
		}
	}
	s.Equal(2, succeeded)

	cc, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	s.Require().NoError(err)
	s.Len(cc.Members, 2)
}

func (s *RepositoryTestSuite) TestRemoveMemberResetsEmptyConsole() {
	ctx := context.Background()
	id := s.addConsole(3, true, true)

	_, err := s.controlCenterRepo.AddMember(ctx, id, "u1", true)
	s.Require().NoError(err)
	_, err = s.controlCenterRepo.AddMember(ctx, id, "u2", true)
	s.Require().NoError(err)

	_, err = s.controlCenterRepo.RemoveMember(ctx, id, "u1", true)
	s.Require().NoError(err)
	cc, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	s.Require().NoError(err)
	s.Equal(domain.CenterStatusActive, *cc.Status)
	s.NotNil(cc.Vehicle)

	before, err := s.controlCenterRepo.RemoveMember(ctx, id, "u2", true)
	s.Require().NoError(err)
	s.Equal([]string{"u2"}, before.Members)

	cc, err = s.controlCenterRepo.GetControlCenterByID(ctx, id)
	s.Require().NoError(err)
	s.Empty(cc.Members)
	s.Equal(domain.CenterStatusNotOccupied, *cc.Status)
	s.Nil(cc.Vehicle)

	_, err = s.controlCenterRepo.RemoveMember(ctx, id, "u2", true)
	s.ErrorIs(err, errs.ErrNotMember)
}

func (s *RepositoryTestSuite) TestRemoveMemberWithoutReset() {
	ctx := context.Background()
	id := s.addConsole(3, true, true)

	_, err := s.controlCenterRepo.AddMember(ctx, id, "u1", true)
	s.Require().NoError(err)
	_, err = s.controlCenterRepo.RemoveMember(ctx, id, "u1", false)
	s.Require().NoError(err)

	cc, err := s.controlCenterRepo.GetControlCenterByID(ctx, id)
	s.Require().NoError(err)
	s.Empty(cc.Members)
	s.Equal(domain.CenterStatusActive, *cc.Status)
	s.NotNil(cc.Vehicle)
}

func (s *RepositoryTestSuite) TestSingleAFKConsole() {
	ctx := context.Background()
	afk := domain.ControlCenter{Label: "AFK", Type: domain.TypeAFK, MaxMembers: domain.UnlimitedMembers, Members: []string{}}

	_, err := s.controlCenterRepo.AddControlCenter(ctx, afk)
	s.Require().NoError(err)
	_, err = s.controlCenterRepo.AddControlCenter(ctx, afk)
	s.ErrorIs(err, errs.ErrConflict)
}

func (s *RepositoryTestSuite) TestOneOpenIntervalPerUser() {
	ctx := context.Background()
	start := time.Now().UnixMilli()

	id, err := s.timeTrackingRepo.AddTimeTracking(ctx, domain.TimeTracking{UserID: "tracked", ControlCenterID: "cc", StartDate: start})
	s.Require().NoError(err)

	_, err = s.timeTrackingRepo.AddTimeTracking(ctx, domain.TimeTracking{UserID: "tracked", ControlCenterID: "cc", StartDate: start + 1})
	s.ErrorIs(err, errs.ErrConflict)

	updated, err := s.timeTrackingRepo.FinishTimeTracking(ctx, id, start+1000)
	s.Require().NoError(err)
	s.True(updated)

	updated, err = s.timeTrackingRepo.FinishTimeTracking(ctx, id, start+2000)
	s.Require().NoError(err)
	s.False(updated)

	open, err := s.timeTrackingRepo.GetOpenTimeTrackings(ctx, "tracked")
	s.Require().NoError(err)
	s.Empty(open)

	finished, err := s.timeTrackingRepo.GetFinishedTimeTrackings(ctx, dto.TrackingWindow{StartDate: start, EndDate: start + 1000})
	s.Require().NoError(err)
	s.Len(finished, 1)
	s.Equal(int64(1000), finished[0].Duration())
}

func (s *RepositoryTestSuite) TestUserDetailsAreSetOnce() {
	ctx := context.Background()
	result, err := s.db.Collection(usersCollection).InsertOne(ctx, domain.User{Role: domain.RoleUser, Status: domain.StatusOffline})
	s.Require().NoError(err)
	id := result.InsertedID.(primitive.ObjectID).Hex()

	details := domain.UserDetails{ID: "1", FirstName: "Anna", LastName: "Tester", PhoneNumber: "12-34-567"}
	s.Require().NoError(s.userRepo.UpdateUserDetails(ctx, id, details))
	s.ErrorIs(s.userRepo.UpdateUserDetails(ctx, id, details), errs.ErrNotModified)

	s.Require().NoError(s.userRepo.UpdateUserStatus(ctx, id, domain.StatusOnDuty))
	users, err := s.userRepo.GetUsersByStatuses(ctx, []domain.DutyStatus{domain.StatusOnDuty})
	s.Require().NoError(err)
	s.Len(users, 1)
	s.Equal("Anna", users[0].Details.FirstName)
}

func (s *RepositoryTestSuite) TestMemberIsUniquePerUser() {
	ctx := context.Background()

	_, err := s.memberRepo.AddMember(ctx, domain.Member{UserID: "hired", GroupID: "g", DepartmentIDs: []string{}})
	s.Require().NoError(err)
	_, err = s.memberRepo.AddMember(ctx, domain.Member{UserID: "hired", GroupID: "g", DepartmentIDs: []string{}})
	s.ErrorIs(err, errs.ErrNotModified)

	_, err = s.memberRepo.GetMemberByUserID(ctx, "nobody")
	s.ErrorIs(err, errs.ErrNotFound)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
