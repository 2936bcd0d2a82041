package service_test

import (
	"context"
	"errors"
	"testing"

	"delivery-web-server/internal/model"
	"delivery-web-server/internal/security"
	"delivery-web-server/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockJWTService struct{ mock.Mock }

func (m *MockJWTService) GenerateAccessToken(userUUID string) (string, error) {
	args := m.Called(userUUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateJWT(tokenString string, secret []byte) (*security.Claims, error) {
	args := m.Called(tokenString, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Claims), args.Error(1)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		email       string
		password    string
		setupMocks  func(mockRepo *MockUserRepository)
		expectError string
	}{
		{
			name:        "invalid email",
			email:       "not-an-email",
			password:    "StrongPass123!",
			expectError: "[UserService] некорректный email",
		},
		{
			name:        "short password",
			email:       "user@example.com",
			password:    "Sh0rt!",
			expectError: "пароль должен содержать минимум 8 символов",
		},
		{
			name:        "no mixed case",
			email:       "user@example.com",
			password:    "lowercase123!",
			expectError: "пароль должен содержать минимум 2 буквы в разных регистрах",
		},
		{
			name:        "no digit",
			email:       "user@example.com",
			password:    "StrongPass!",
			expectError: "пароль должен содержать хотя бы одну цифру",
		},
		{
			name:        "no special char",
			email:       "user@example.com",
			password:    "StrongPass123",
			expectError: "пароль должен содержать хотя бы один специальный символ",
		},
		{
			name:     "email taken",
			email:    "user@example.com",
			password: "StrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").
					Return(&model.User{UUID: "user-123"}, nil).Once()
			},
			expectError: "email уже занят",
		},
		{
			name:     "lookup error",
			email:    "user@example.com",
			password: "StrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").
					Return(nil, errors.New("db down")).Once()
			},
			expectError: "[UserService] ошибка проверки email",
		},
		{
			name:     "repository error",
			email:    "user@example.com",
			password: "StrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").
					Return(nil, model.ErrNotFound).Once()
				mockRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
					Return(nil, errors.New("db error")).Once()
			},
			expectError: "[UserService] ошибка создания пользователя",
		},
		{
			name:     "success",
			email:    "user@example.com",
			password: "StrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").
					Return(nil, model.ErrNotFound).Once()
				mockRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
					Return(&model.User{UUID: "user-123", Email: "user@example.com"}, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc := service.NewUserService(nil, mockRepo, nil)

			if tt.setupMocks != nil {
				tt.setupMocks(mockRepo)
			}

			user, err := svc.Register(ctx, tt.email, tt.password)

			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "user-123", user.UUID)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Register_HashesPassword(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := service.NewUserService(nil, mockRepo, nil)

	var saved *model.User
	mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").Return(nil, model.ErrNotFound).Once()
	mockRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).(*model.User)
		}).
		Return(&model.User{UUID: "user-123"}, nil).Once()

	_, err := svc.Register(ctx, "user@example.com", "StrongPass123!")

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEqual(t, "StrongPass123!", saved.PasswordHash)
	assert.True(t, security.CheckPassword("StrongPass123!", saved.PasswordHash))
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := security.HashPassword("StrongPass123!")
	require.NoError(t, err)

	user := &model.User{UUID: "user-123", Email: "user@example.com", PasswordHash: hash}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(mockRepo *MockUserRepository, mockJWT *MockJWTService)
		expectedToken string
		expectedErr   error
	}{
		{
			name:     "success",
			email:    "user@example.com",
			password: "StrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository, mockJWT *MockJWTService) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").Return(user, nil).Once()
				mockJWT.On("GenerateAccessToken", "user-123").Return("jwt-token", nil).Once()
			},
			expectedToken: "jwt-token",
		},
		{
			name:     "unknown email",
			email:    "missing@example.com",
			password: "StrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository, mockJWT *MockJWTService) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "missing@example.com").
					Return(nil, model.ErrNotFound).Once()
			},
			expectedErr: model.ErrAuthRequired,
		},
		{
			name:     "wrong password",
			email:    "user@example.com",
			password: "WrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository, mockJWT *MockJWTService) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").Return(user, nil).Once()
			},
			expectedErr: model.ErrAuthRequired,
		},
		{
			name:     "token generation error",
			email:    "user@example.com",
			password: "StrongPass123!",
			setupMocks: func(mockRepo *MockUserRepository, mockJWT *MockJWTService) {
				mockRepo.On("FindByEmail", ctx, mock.Anything, "user@example.com").Return(user, nil).Once()
				mockJWT.On("GenerateAccessToken", "user-123").Return("", errors.New("no secret")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockJWT := new(MockJWTService)
			svc := service.NewUserService(nil, mockRepo, mockJWT)

			tt.setupMocks(mockRepo, mockJWT)

			token, err := svc.Login(ctx, tt.email, tt.password)

			if tt.expectedToken != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			} else {
				require.Error(t, err)
				assert.Empty(t, token)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			}

			mockRepo.AssertExpectations(t)
			mockJWT.AssertExpectations(t)
		})
	}
}
