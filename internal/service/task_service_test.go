package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindOwned(ctx context.Context, id, userID uint) (*model.Task, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateOwned(ctx context.Context, id, userID uint, title, description string) (int64, error) {
	args := m.Called(ctx, id, userID, title, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) DeleteOwned(ctx context.Context, id, userID uint) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestTaskService_Create(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		description   string
		setupMock     func(*MockTaskRepository)
		expectedError error
	}{
		{
			name:        "successful create returns store-assigned fields",
			title:       "write report",
			description: "quarterly numbers",
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.Task).ID = 11
					}).
					Return(nil)
				m.On("FindOwned", mock.Anything, uint(11), uint(3)).Return(&model.Task{
					ID:          11,
					UserID:      3,
					Title:       "write report",
					Description: "quarterly numbers",
					CreatedAt:   time.Now(),
				}, nil)
			},
		},
		{
			name:          "empty title persists nothing",
			title:         "",
			setupMock:     func(m *MockTaskRepository) {},
			expectedError: apperrors.ErrTitleRequired,
		},
		{
			name:          "whitespace-only title persists nothing",
			title:         "   \t",
			setupMock:     func(m *MockTaskRepository) {},
			expectedError: apperrors.ErrTitleRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo)
			task, err := service.Create(context.Background(), 3, tt.title, tt.description)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, task)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, task)
				assert.Equal(t, uint(11), task.ID)
				assert.Equal(t, uint(3), task.UserID)
				assert.Equal(t, tt.title, task.Title)
				assert.Equal(t, tt.description, task.Description)
				assert.False(t, task.CreatedAt.IsZero())
			}

			// AssertExpectations doubles as proof that validation failures
			// never reached the store.
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Update(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		setupMock     func(*MockTaskRepository)
		expectedError error
	}{
		{
			name:  "successful update returns the new row",
			title: "new title",
			setupMock: func(m *MockTaskRepository) {
				m.On("UpdateOwned", mock.Anything, uint(11), uint(3), "new title", "new desc").
					Return(int64(1), nil)
				m.On("FindOwned", mock.Anything, uint(11), uint(3)).Return(&model.Task{
					ID:          11,
					UserID:      3,
					Title:       "new title",
					Description: "new desc",
				}, nil)
			},
		},
		{
			name:  "absent or not owned reads as not found",
			title: "new title",
			setupMock: func(m *MockTaskRepository) {
				m.On("UpdateOwned", mock.Anything, uint(11), uint(3), "new title", "new desc").
					Return(int64(0), nil)
			},
			expectedError: apperrors.ErrTaskNotFound,
		},
		{
			name:          "empty title rejected before the store",
			title:         "  ",
			setupMock:     func(m *MockTaskRepository) {},
			expectedError: apperrors.ErrTitleRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo)
			task, err := service.Update(context.Background(), 3, 11, tt.title, "new desc")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, task)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new title", task.Title)
				assert.Equal(t, "new desc", task.Description)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Delete(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("DeleteOwned", mock.Anything, uint(11), uint(3)).Return(int64(1), nil)

		service := NewTaskService(mockRepo)
		assert.NoError(t, service.Delete(context.Background(), 3, 11))
		mockRepo.AssertExpectations(t)
	})

	t.Run("someone else's task reads as not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("DeleteOwned", mock.Anything, uint(11), uint(4)).Return(int64(0), nil)

		service := NewTaskService(mockRepo)
		assert.ErrorIs(t, service.Delete(context.Background(), 4, 11), apperrors.ErrTaskNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_List(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("ListByUser", mock.Anything, uint(3)).Return([]model.Task{
		{ID: 1, UserID: 3, Title: "a"},
		{ID: 2, UserID: 3, Title: "b"},
	}, nil)

	service := NewTaskService(mockRepo)
	tasks, err := service.List(context.Background(), 3)

	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	mockRepo.AssertExpectations(t)
}
