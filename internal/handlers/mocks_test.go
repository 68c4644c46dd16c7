package handlers

import (
	"context"
	"time"

	"github.com/farmops/equiptrack/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
)

// MockEquipmentCollection is a mock implementation of db.EquipmentCollection
type MockEquipmentCollection struct {
	mock.Mock
}

func (m *MockEquipmentCollection) InsertEquipment(ctx context.Context, equipment models.Equipment) error {
	args := m.Called(ctx, equipment)
	return args.Error(0)
}

func (m *MockEquipmentCollection) FindEquipment(ctx context.Context, filter bson.M) ([]models.Equipment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Equipment), args.Error(1)
}

func (m *MockEquipmentCollection) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockEquipmentCollection) UpdateEquipment(ctx context.Context, id string, equipment models.Equipment) error {
	args := m.Called(ctx, id, equipment)
	return args.Error(0)
}

func (m *MockEquipmentCollection) UpdateEngineHours(ctx context.Context, id string, hours float64) error {
	args := m.Called(ctx, id, hours)
	return args.Error(0)
}

func (m *MockEquipmentCollection) DeleteEquipment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTemplateCollection is a mock implementation of db.TemplateCollection
type MockTemplateCollection struct {
	mock.Mock
}

func (m *MockTemplateCollection) InsertTemplate(ctx context.Context, template models.MaintenanceTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateCollection) FindTemplates(ctx context.Context, filter bson.M) ([]models.MaintenanceTemplate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceTemplate), args.Error(1)
}

func (m *MockTemplateCollection) FindTemplateByID(ctx context.Context, id string) (*models.MaintenanceTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceTemplate), args.Error(1)
}

func (m *MockTemplateCollection) UpdateTemplate(ctx context.Context, id string, template models.MaintenanceTemplate) error {
	args := m.Called(ctx, id, template)
	return args.Error(0)
}

func (m *MockTemplateCollection) DeleteTemplate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockScheduleCollection is a mock implementation of db.ScheduleCollection
type MockScheduleCollection struct {
	mock.Mock
}

func (m *MockScheduleCollection) InsertSchedule(ctx context.Context, schedule models.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleCollection) FindSchedules(ctx context.Context, filter bson.M) ([]models.Schedule, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func (m *MockScheduleCollection) FindScheduleByID(ctx context.Context, id string) (*models.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

func (m *MockScheduleCollection) UpdateSchedule(ctx context.Context, id string, schedule models.Schedule) error {
	args := m.Called(ctx, id, schedule)
	return args.Error(0)
}

func (m *MockScheduleCollection) LogCompletion(ctx context.Context, id string, record models.CompletionRecord) error {
	args := m.Called(ctx, id, record)
	return args.Error(0)
}

func (m *MockScheduleCollection) DeleteSchedule(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScheduleCollection) DeleteSchedulesForEquipment(ctx context.Context, equipmentID string) error {
	args := m.Called(ctx, equipmentID)
	return args.Error(0)
}

// MockIssueCollection is a mock implementation of db.IssueCollection
type MockIssueCollection struct {
	mock.Mock
}

func (m *MockIssueCollection) InsertIssue(ctx context.Context, issue models.Issue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *MockIssueCollection) FindIssues(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Issue), args.Error(1)
}

func (m *MockIssueCollection) FindIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Issue), args.Error(1)
}

func (m *MockIssueCollection) UpdateIssue(ctx context.Context, id string, issue models.Issue) error {
	args := m.Called(ctx, id, issue)
	return args.Error(0)
}

func (m *MockIssueCollection) ResolveIssue(ctx context.Context, id string, resolvedAt time.Time) error {
	args := m.Called(ctx, id, resolvedAt)
	return args.Error(0)
}

func (m *MockIssueCollection) DeleteIssue(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
