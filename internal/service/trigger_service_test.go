package service_test

import (
	"context"
	"errors"
	"sync"
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

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) RunOnce(ctx context.Context) (*model.BatchResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchResult), args.Error(1)
}

func newTestTriggerService(t *testing.T, cfg *config.DispatchConfig) (*service.TriggerService, *MockDispatcher) {
	mockDispatcher := new(MockDispatcher)

	svc, err := service.NewTriggerService(mockDispatcher, cfg, zap.NewNop())
	require.NoError(t, err)

	return svc, mockDispatcher
}

func TestNewTriggerService_InvalidDurations(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.DispatchConfig
	}{
		{name: "bad poll interval", cfg: &config.DispatchConfig{PollInterval: "abc"}},
		{name: "bad settle delay", cfg: &config.DispatchConfig{SettleDelay: "xyz"}},
		{name: "bad run timeout", cfg: &config.DispatchConfig{RunTimeout: "1parsec"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.NewTriggerService(new(MockDispatcher), tt.cfg, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestRunDispatch_ReturnsRunSummary(t *testing.T) {
	svc, mockDispatcher := newTestTriggerService(t, &config.DispatchConfig{})

	mockDispatcher.On("RunOnce", mock.Anything).Return(&model.BatchResult{Processed: 2}, nil).Once()

	result, err := svc.RunDispatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	mockDispatcher.AssertExpectations(t)
}

func TestRunDispatch_DispatcherError(t *testing.T) {
	svc, mockDispatcher := newTestTriggerService(t, &config.DispatchConfig{})

	mockDispatcher.On("RunOnce", mock.Anything).Return(nil, errors.New("db down")).Once()

	result, err := svc.RunDispatch(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestRunDispatch_CanceledContext(t *testing.T) {
	svc, mockDispatcher := newTestTriggerService(t, &config.DispatchConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.RunDispatch(ctx)

	require.Error(t, err)
	assert.Nil(t, result)
	mockDispatcher.AssertNotCalled(t, "RunOnce")
}

func TestRunDispatch_CoalescesConcurrentCalls(t *testing.T) {
	svc, mockDispatcher := newTestTriggerService(t, &config.DispatchConfig{})

	release := make(chan struct{})
	entered := make(chan struct{})
	var enterOnce sync.Once

	mockDispatcher.On("RunOnce", mock.Anything).
		Run(func(args mock.Arguments) {
			enterOnce.Do(func() { close(entered) })
			<-release
		}).
		Return(&model.BatchResult{Processed: 3}, nil)

	const callers = 5
	results := make([]*model.BatchResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.RunDispatch(context.Background())
		}()
	}

	// ждём, пока первый вызов займет слот, даём остальным присоединиться
	<-entered
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, 3, results[i].Processed)
	}
	mockDispatcher.AssertNumberOfCalls(t, "RunOnce", 1)
}

func TestRunDispatch_NotifiesSubscribers(t *testing.T) {
	svc, mockDispatcher := newTestTriggerService(t, &config.DispatchConfig{})

	mockDispatcher.On("RunOnce", mock.Anything).Return(&model.BatchResult{Processed: 1}, nil)

	received := make(chan model.BatchResult, 1)
	unsubscribe := svc.Subscribe(func(result model.BatchResult) {
		received <- result
	})

	_, err := svc.RunDispatch(context.Background())
	require.NoError(t, err)

	select {
	case result := <-received:
		assert.Equal(t, 1, result.Processed)
	default:
		t.Fatal("наблюдатель не получил сводку прогона")
	}

	// после отписки сводки больше не приходят
	unsubscribe()

	_, err = svc.RunDispatch(context.Background())
	require.NoError(t, err)
	assert.Len(t, received, 0)
}

func TestStart_RunsImmediatelyAndCollapsesBurst(t *testing.T) {
	svc, mockDispatcher := newTestTriggerService(t, &config.DispatchConfig{
		PollInterval: "1h",
		SettleDelay:  "20ms",
		RunTimeout:   "1s",
	})

	mockDispatcher.On("RunOnce", mock.Anything).Return(&model.BatchResult{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)

	// всплеск сигналов должен схлопнуться в один отложенный прогон
	for i := 0; i < 10; i++ {
		svc.NotifyChange()
	}

	time.Sleep(200 * time.Millisecond)
	svc.Stop()

	// один прогон на старте и один по сигналу
	mockDispatcher.AssertNumberOfCalls(t, "RunOnce", 2)
}

func TestStart_FollowUpAfterEffectiveRun(t *testing.T) {
	svc, mockDispatcher := newTestTriggerService(t, &config.DispatchConfig{
		PollInterval: "1h",
		SettleDelay:  "10ms",
		RunTimeout:   "1s",
	})

	// первый прогон с результатом планирует контрольную проверку
	mockDispatcher.On("RunOnce", mock.Anything).Return(&model.BatchResult{Processed: 1, Success: 1}, nil).Once()
	mockDispatcher.On("RunOnce", mock.Anything).Return(&model.BatchResult{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	svc.Stop()

	mockDispatcher.AssertNumberOfCalls(t, "RunOnce", 2)
}

func TestStop_WithoutStart(t *testing.T) {
	svc, _ := newTestTriggerService(t, &config.DispatchConfig{})

	// не должен блокироваться в ожидании незапущенного цикла
	svc.Stop()
	svc.Stop()
}
