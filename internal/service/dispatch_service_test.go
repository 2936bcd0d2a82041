package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockMailSender struct{ mock.Mock }

func (m *MockMailSender) SendDeliveryLink(ctx context.Context, recipientEmail string, filenameOriginal string, accessURL string) error {
	return m.Called(ctx, recipientEmail, filenameOriginal, accessURL).Error(0)
}

func newTestDispatchService() (*service.DispatchService, *MockDeliveryRepository, *MockCacheRepository, *MockMailSender, *MockChangeNotifier) {
	mockRepo := new(MockDeliveryRepository)
	mockCache := new(MockCacheRepository)
	mockMail := new(MockMailSender)
	mockNotifier := new(MockChangeNotifier)

	svc := service.NewDispatchService(
		nil,
		mockRepo,
		mockCache,
		mockMail,
		mockNotifier,
		&config.DispatchConfig{Workers: 2, RatePerSecond: 100},
		"https://files.example.com/",
		zap.NewNop(),
	)

	return svc, mockRepo, mockCache, mockMail, mockNotifier
}

func dueDelivery(uuid string, token string) model.Delivery {
	return model.Delivery{
		UUID:             uuid,
		OwnerUUID:        "user1",
		FilenameOriginal: "report.pdf",
		RecipientEmail:   "friend@example.com",
		AccessToken:      token,
		Status:           model.DeliveryStatusPending,
		ScheduledAt:      time.Now().UTC().Add(-time.Minute),
	}
}

func TestRunOnce_NothingDue(t *testing.T) {
	svc, mockRepo, _, mockMail, _ := newTestDispatchService()
	ctx := context.Background()

	mockRepo.On("ListDue", ctx, mock.Anything, mock.Anything).Return([]model.Delivery{}, nil).Once()

	result, err := svc.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, result.Details)
	// пустой прогон не должен трогать почтовый транспорт
	mockMail.AssertNotCalled(t, "SendDeliveryLink")
}

func TestRunOnce_ListError(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestDispatchService()
	ctx := context.Background()

	mockRepo.On("ListDue", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	result, err := svc.RunOnce(ctx)

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestRunOnce_AllSent(t *testing.T) {
	svc, mockRepo, mockCache, mockMail, mockNotifier := newTestDispatchService()
	ctx := context.Background()

	due := []model.Delivery{dueDelivery("d1", "tok1"), dueDelivery("d2", "tok2")}

	mockRepo.On("ListDue", ctx, mock.Anything, mock.Anything).Return(due, nil).Once()
	mockMail.On("SendDeliveryLink", mock.Anything, "friend@example.com", "report.pdf", "https://files.example.com/access/tok1").Return(nil).Once()
	mockMail.On("SendDeliveryLink", mock.Anything, "friend@example.com", "report.pdf", "https://files.example.com/access/tok2").Return(nil).Once()
	mockRepo.On("MarkSent", mock.Anything, mock.Anything, "d1", mock.Anything).Return(nil).Once()
	mockRepo.On("MarkSent", mock.Anything, mock.Anything, "d2", mock.Anything).Return(nil).Once()
	mockCache.On("DeleteDelivery", mock.Anything, "tok1").Return(nil).Once()
	mockCache.On("DeleteDelivery", mock.Anything, "tok2").Return(nil).Once()
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Return(nil).Times(2)

	result, err := svc.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 0, result.Failed)
	// порядок сводки совпадает с порядком выборки
	assert.Equal(t, "d1", result.Details[0].UUID)
	assert.Equal(t, "d2", result.Details[1].UUID)

	mockRepo.AssertExpectations(t)
	mockMail.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestRunOnce_Outcomes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		setupMocks      func(mockRepo *MockDeliveryRepository, mockCache *MockCacheRepository, mockMail *MockMailSender, mockNotifier *MockChangeNotifier)
		expectedSuccess int
		expectedFailed  int
		expectedErrPart string
	}{
		{
			name: "mail failure marks failed",
			setupMocks: func(mockRepo *MockDeliveryRepository, mockCache *MockCacheRepository, mockMail *MockMailSender, mockNotifier *MockChangeNotifier) {
				mockMail.On("SendDeliveryLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(errors.New("smtp: connection refused")).Once()
				mockRepo.On("MarkFailed", mock.Anything, mock.Anything, "d1", "smtp: connection refused").Return(nil).Once()
				mockCache.On("DeleteDelivery", mock.Anything, "tok1").Return(nil).Once()
				mockNotifier.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedFailed:  1,
			expectedErrPart: "smtp: connection refused",
		},
		{
			name: "lost race on mark sent is success",
			setupMocks: func(mockRepo *MockDeliveryRepository, mockCache *MockCacheRepository, mockMail *MockMailSender, mockNotifier *MockChangeNotifier) {
				mockMail.On("SendDeliveryLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				mockRepo.On("MarkSent", mock.Anything, mock.Anything, "d1", mock.Anything).
					Return(model.ErrPreconditionFailed).Once()
			},
			expectedSuccess: 1,
		},
		{
			name: "lost race on mark failed is success",
			setupMocks: func(mockRepo *MockDeliveryRepository, mockCache *MockCacheRepository, mockMail *MockMailSender, mockNotifier *MockChangeNotifier) {
				mockMail.On("SendDeliveryLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(errors.New("smtp down")).Once()
				mockRepo.On("MarkFailed", mock.Anything, mock.Anything, "d1", "smtp down").
					Return(model.ErrPreconditionFailed).Once()
			},
			expectedSuccess: 1,
		},
		{
			name: "sent but status not recorded",
			setupMocks: func(mockRepo *MockDeliveryRepository, mockCache *MockCacheRepository, mockMail *MockMailSender, mockNotifier *MockChangeNotifier) {
				mockMail.On("SendDeliveryLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				mockRepo.On("MarkSent", mock.Anything, mock.Anything, "d1", mock.Anything).
					Return(errors.New("db down")).Once()
			},
			expectedSuccess: 1,
			expectedErrPart: "статус не обновлен",
		},
		{
			name: "mail and status both failed",
			setupMocks: func(mockRepo *MockDeliveryRepository, mockCache *MockCacheRepository, mockMail *MockMailSender, mockNotifier *MockChangeNotifier) {
				mockMail.On("SendDeliveryLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(errors.New("smtp down")).Once()
				mockRepo.On("MarkFailed", mock.Anything, mock.Anything, "d1", "smtp down").
					Return(errors.New("db down")).Once()
			},
			expectedFailed:  1,
			expectedErrPart: "статус не записан",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache, mockMail, mockNotifier := newTestDispatchService()

			due := []model.Delivery{dueDelivery("d1", "tok1")}
			mockRepo.On("ListDue", ctx, mock.Anything, mock.Anything).Return(due, nil).Once()

			tt.setupMocks(mockRepo, mockCache, mockMail, mockNotifier)

			result, err := svc.RunOnce(ctx)

			require.NoError(t, err)
			assert.Equal(t, 1, result.Processed)
			assert.Equal(t, tt.expectedSuccess, result.Success)
			assert.Equal(t, tt.expectedFailed, result.Failed)
			if tt.expectedErrPart != "" {
				assert.Contains(t, result.Details[0].Error, tt.expectedErrPart)
			}

			mockRepo.AssertExpectations(t)
			mockCache.AssertExpectations(t)
			mockMail.AssertExpectations(t)
			mockNotifier.AssertExpectations(t)
		})
	}
}

// Письмо, отправленное без записанного статуса, остаётся видимым следующему
// прогону: запись в БД всё ещё pending и будет выбрана повторно.
func TestRunOnce_FailedExcludedFromNextRun(t *testing.T) {
	svc, mockRepo, mockCache, mockMail, mockNotifier := newTestDispatchService()
	ctx := context.Background()

	due := []model.Delivery{dueDelivery("d1", "tok1")}

	mockRepo.On("ListDue", ctx, mock.Anything, mock.Anything).Return(due, nil).Once()
	mockMail.On("SendDeliveryLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()
	mockRepo.On("MarkFailed", mock.Anything, mock.Anything, "d1", "smtp down").Return(nil).Once()
	mockCache.On("DeleteDelivery", mock.Anything, "tok1").Return(nil).Once()
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Failed)

	// failed не попадает в выборку, второй прогон пустой и писем не шлёт
	mockRepo.On("ListDue", ctx, mock.Anything, mock.Anything).Return([]model.Delivery{}, nil).Once()

	second, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	mockMail.AssertNumberOfCalls(t, "SendDeliveryLink", 1)
}
