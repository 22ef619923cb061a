package rolepanel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/squadkit/squadbot/internal/common/clock/mocks"
	uuidMocks "github.com/squadkit/squadbot/internal/common/uuid/mocks"
	"github.com/squadkit/squadbot/internal/models"
	panelRepo "github.com/squadkit/squadbot/internal/repositories/rolepanel"
	panelMocks "github.com/squadkit/squadbot/internal/repositories/rolepanel/mocks"
)

type RolePanelServiceTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockRepo  *panelMocks.MockRepository
	mockClock *clockMocks.MockClock
	mockUUID  *uuidMocks.MockUUID
	svc       Service
	ctx       context.Context

	testTime  time.Time
	testPanel *models.RolePanel
}

func TestRolePanelServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RolePanelServiceTestSuite))
}

func (s *RolePanelServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = panelMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	s.testPanel = &models.RolePanel{
		ID:        "test-panel-id",
		GuildID:   "test-guild-id",
		ChannelID: "test-channel-id",
		Title:     "Pick your games",
		Roles: []*models.RoleOption{
			{RoleID: "role-1", Label: "Valorant"},
		},
		CreatedAt: s.testTime,
		UpdatedAt: s.testTime,
	}

	svc, err := New(&Config{
		Repo:          s.mockRepo,
		UUIDGenerator: s.mockUUID,
		Clock:         s.mockClock,
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *RolePanelServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *RolePanelServiceTestSuite) TestCreatePanel() {
	s.mockUUID.EXPECT().NewUUID().Return("test-panel-id")
	s.mockRepo.EXPECT().
		SavePanel(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *panelRepo.SavePanelInput) error {
			s.Equal("test-panel-id", input.Panel.ID)
			s.Equal("test-guild-id", input.Panel.GuildID)
			s.Equal("Pick your games", input.Panel.Title)
			s.Equal(s.testTime, input.Panel.CreatedAt)
			return nil
		})

	out, err := s.svc.CreatePanel(s.ctx, &CreatePanelInput{
		GuildID:   "test-guild-id",
		ChannelID: "test-channel-id",
		Title:     "Pick your games",
	})
	s.Require().NoError(err)
	s.Equal("test-panel-id", out.Panel.ID)
	s.Empty(out.Panel.Roles)
}

func (s *RolePanelServiceTestSuite) TestCreatePanelRequiresTitle() {
	_, err := s.svc.CreatePanel(s.ctx, &CreatePanelInput{
		GuildID:   "test-guild-id",
		ChannelID: "test-channel-id",
	})
	s.Error(err)
}

func (s *RolePanelServiceTestSuite) TestAddRole() {
	s.mockRepo.EXPECT().
		GetPanel(s.ctx, &panelRepo.GetPanelInput{PanelID: "test-panel-id"}).
		Return(s.testPanel, nil)
	s.mockRepo.EXPECT().
		SavePanel(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *panelRepo.SavePanelInput) error {
			s.Len(input.Panel.Roles, 2)
			return nil
		})

	out, err := s.svc.AddRole(s.ctx, &AddRoleInput{
		PanelID: "test-panel-id",
		RoleID:  "role-2",
		Label:   "Minecraft",
		Emoji:   "⛏️",
	})
	s.Require().NoError(err)
	s.Require().Len(out.Panel.Roles, 2)
	s.Equal("role-2", out.Panel.Roles[1].RoleID)
	s.Equal("Minecraft", out.Panel.Roles[1].Label)
}

func (s *RolePanelServiceTestSuite) TestAddRoleRejectsDuplicate() {
	s.mockRepo.EXPECT().
		GetPanel(s.ctx, gomock.Any()).
		Return(s.testPanel, nil)

	_, err := s.svc.AddRole(s.ctx, &AddRoleInput{
		PanelID: "test-panel-id",
		RoleID:  "role-1",
		Label:   "Valorant again",
	})
	s.ErrorIs(err, ErrRoleAlreadyOnPanel)
}

func (s *RolePanelServiceTestSuite) TestAddRoleRejectsFullPanel() {
	full := &models.RolePanel{
		ID:      "test-panel-id",
		GuildID: "test-guild-id",
	}
	for i := 0; i < models.MaxPanelRoles; i++ {
		full.Roles = append(full.Roles, &models.RoleOption{
			RoleID: fmt.Sprintf("role-%d", i),
			Label:  fmt.Sprintf("Role %d", i),
		})
	}

	s.mockRepo.EXPECT().
		GetPanel(s.ctx, gomock.Any()).
		Return(full, nil)

	_, err := s.svc.AddRole(s.ctx, &AddRoleInput{
		PanelID: "test-panel-id",
		RoleID:  "one-too-many",
		Label:   "Overflow",
	})
	s.ErrorIs(err, ErrPanelFull)
}

func (s *RolePanelServiceTestSuite) TestRemoveRole() {
	s.mockRepo.EXPECT().
		GetPanel(s.ctx, gomock.Any()).
		Return(s.testPanel, nil)
	s.mockRepo.EXPECT().
		SavePanel(s.ctx, gomock.Any()).
		Return(nil)

	out, err := s.svc.RemoveRole(s.ctx, &RemoveRoleInput{
		PanelID: "test-panel-id",
		RoleID:  "role-1",
	})
	s.Require().NoError(err)
	s.Empty(out.Panel.Roles)
}

func (s *RolePanelServiceTestSuite) TestRemoveRoleNotOnPanel() {
	s.mockRepo.EXPECT().
		GetPanel(s.ctx, gomock.Any()).
		Return(s.testPanel, nil)

	_, err := s.svc.RemoveRole(s.ctx, &RemoveRoleInput{
		PanelID: "test-panel-id",
		RoleID:  "role-99",
	})
	s.ErrorIs(err, ErrRoleNotOnPanel)
}

func (s *RolePanelServiceTestSuite) TestGetPanelNotFound() {
	s.mockRepo.EXPECT().
		GetPanel(s.ctx, gomock.Any()).
		Return(nil, panelRepo.ErrPanelNotFound)

	_, err := s.svc.GetPanel(s.ctx, &GetPanelInput{PanelID: "missing"})
	s.ErrorIs(err, ErrPanelNotFound)
}

func (s *RolePanelServiceTestSuite) TestSetMessageRef() {
	s.mockRepo.EXPECT().
		GetPanel(s.ctx, gomock.Any()).
		Return(s.testPanel, nil)
	s.mockRepo.EXPECT().
		SavePanel(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *panelRepo.SavePanelInput) error {
			s.Equal("test-message-id", input.Panel.MessageID)
			return nil
		})

	err := s.svc.SetMessageRef(s.ctx, &SetMessageRefInput{
		PanelID:   "test-panel-id",
		MessageID: "test-message-id",
	})
	s.NoError(err)
}
