package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dealhub/internal/auth"
	apperrors "dealhub/internal/errors"
	"dealhub/internal/model"
)

func newUserServiceForTest(users *MockUserRepository, listings *MockListingRepository, deals *MockDealRepository, allowDeleteWithRefs bool) UserService {
	return NewUserService(users, listings, deals, allowDeleteWithRefs, zap.NewNop())
}

var (
	adminActor = auth.Actor{ID: 1, Email: "admin@example.com", Role: model.RoleAdmin}
	userActor  = auth.Actor{ID: 2, Email: "user@example.com", Role: model.RoleUser}
)

func TestUserService_ListUsers(t *testing.T) {
	t.Run("admin lists users", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("List", mock.Anything).Return([]model.User{{ID: 1}, {ID: 2}}, nil)

		service := newUserServiceForTest(mockUsers, new(MockListingRepository), new(MockDealRepository), false)
		users, err := service.ListUsers(context.Background(), adminActor)

		assert.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		service := newUserServiceForTest(new(MockUserRepository), new(MockListingRepository), new(MockDealRepository), false)
		_, err := service.ListUsers(context.Background(), userActor)

		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestUserService_GetUser(t *testing.T) {
	subject := &model.User{ID: 2, Email: "user@example.com", Role: model.RoleUser}

	tests := []struct {
		name         string
		id           uint
		actor        auth.Actor
		setupMock    func(*MockUserRepository)
		expectedKind apperrors.Kind
	}{
		{
			name:  "self access",
			id:    2,
			actor: userActor,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(subject, nil)
			},
		},
		{
			name:  "admin access",
			id:    2,
			actor: adminActor,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(subject, nil)
			},
		},
		{
			name:         "other user is rejected",
			id:           3,
			actor:        userActor,
			setupMock:    func(m *MockUserRepository) {},
			expectedKind: apperrors.KindForbidden,
		},
		{
			name:  "missing user",
			id:    2,
			actor: userActor,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedKind: apperrors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockUsers)

			service := newUserServiceForTest(mockUsers, new(MockListingRepository), new(MockDealRepository), false)
			user, err := service.GetUser(context.Background(), tt.id, tt.actor)

			if tt.expectedKind != "" {
				assert.True(t, apperrors.IsKind(err, tt.expectedKind))
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, user.ID)
			}
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("self update", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Name: "Old Name", Email: "user@example.com"}, nil)
		mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := newUserServiceForTest(mockUsers, new(MockListingRepository), new(MockDealRepository), false)
		user, err := service.UpdateUser(context.Background(), 2, UserUpdate{Name: "New Name"}, userActor)

		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
	})

	t.Run("non-admin cannot change role", func(t *testing.T) {
		service := newUserServiceForTest(new(MockUserRepository), new(MockListingRepository), new(MockDealRepository), false)
		_, err := service.UpdateUser(context.Background(), 2, UserUpdate{Role: model.RoleAdmin}, userActor)

		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("admin changes role", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Email: "user@example.com", Role: model.RoleUser}, nil)
		mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := newUserServiceForTest(mockUsers, new(MockListingRepository), new(MockDealRepository), false)
		user, err := service.UpdateUser(context.Background(), 2, UserUpdate{Role: model.RoleAdmin}, adminActor)

		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("email already taken", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Email: "user@example.com"}, nil)
		mockUsers.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 3, Email: "taken@example.com"}, nil)

		service := newUserServiceForTest(mockUsers, new(MockListingRepository), new(MockDealRepository), false)
		_, err := service.UpdateUser(context.Background(), 2, UserUpdate{Email: "taken@example.com"}, userActor)

		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	subject := &model.User{ID: 2, Email: "user@example.com"}

	t.Run("clean user is deleted", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockListings := new(MockListingRepository)
		mockDeals := new(MockDealRepository)
		mockUsers.On("FindByID", mock.Anything, uint(2)).Return(subject, nil)
		mockListings.On("CountBySeller", mock.Anything, uint(2)).Return(int64(0), nil)
		mockDeals.On("CountByUser", mock.Anything, uint(2)).Return(int64(0), nil)
		mockUsers.On("Delete", mock.Anything, uint(2)).Return(nil)

		service := newUserServiceForTest(mockUsers, mockListings, mockDeals, false)
		err := service.DeleteUser(context.Background(), 2, userActor)

		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
	})

	t.Run("referenced user is refused", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockListings := new(MockListingRepository)
		mockDeals := new(MockDealRepository)
		mockUsers.On("FindByID", mock.Anything, uint(2)).Return(subject, nil)
		mockListings.On("CountBySeller", mock.Anything, uint(2)).Return(int64(1), nil)
		mockDeals.On("CountByUser", mock.Anything, uint(2)).Return(int64(0), nil)

		service := newUserServiceForTest(mockUsers, mockListings, mockDeals, false)
		err := service.DeleteUser(context.Background(), 2, userActor)

		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
		mockUsers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("reference check skipped when configured", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, uint(2)).Return(subject, nil)
		mockUsers.On("Delete", mock.Anything, uint(2)).Return(nil)

		service := newUserServiceForTest(mockUsers, new(MockListingRepository), new(MockDealRepository), true)
		err := service.DeleteUser(context.Background(), 2, adminActor)

		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
	})

	t.Run("other user is rejected", func(t *testing.T) {
		service := newUserServiceForTest(new(MockUserRepository), new(MockListingRepository), new(MockDealRepository), false)
		err := service.DeleteUser(context.Background(), 3, userActor)

		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}
