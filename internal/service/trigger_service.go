package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/ports"
	"delivery-web-server/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TriggerService сводит все источники запуска диспетчера в одну точку:
// ручной вызов API, сигналы об изменениях данных и периодический таймер.
// Параллельные вызовы RunDispatch схлопываются в один прогон, всплеск
// сигналов об изменениях превращается в один отложенный запуск.
type TriggerService struct {
	dispatcher ports.Dispatcher
	logger     *zap.Logger

	pollInterval time.Duration
	settleDelay  time.Duration
	runTimeout   time.Duration

	group singleflight.Group
	wake  chan struct{}

	mu         sync.Mutex
	observers  map[int]func(model.BatchResult)
	nextID     int
	debouncing bool

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewTriggerService(dispatcher ports.Dispatcher, cfg *config.DispatchConfig, logger *zap.Logger) (*TriggerService, error) {
	pollInterval := 30 * time.Second
	settleDelay := time.Second
	runTimeout := 2 * time.Minute

	var err error
	if cfg.PollInterval != "" {
		pollInterval, err = time.ParseDuration(cfg.PollInterval)
		if err != nil {
			return nil, util.LogError("[TriggerService] ошибка парсинга poll_interval", err)
		}
	}
	if cfg.SettleDelay != "" {
		settleDelay, err = time.ParseDuration(cfg.SettleDelay)
		if err != nil {
			return nil, util.LogError("[TriggerService] ошибка парсинга settle_delay", err)
		}
	}
	if cfg.RunTimeout != "" {
		runTimeout, err = time.ParseDuration(cfg.RunTimeout)
		if err != nil {
			return nil, util.LogError("[TriggerService] ошибка парсинга run_timeout", err)
		}
	}

	return &TriggerService{
		dispatcher:   dispatcher,
		logger:       logger,
		pollInterval: pollInterval,
		settleDelay:  settleDelay,
		runTimeout:   runTimeout,
		wake:         make(chan struct{}, 1),
		observers:    make(map[int]func(model.BatchResult)),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}, nil
}

// RunDispatch : идемпотентная точка запуска прогона. Конкурентные вызовы
// получают результат одного и того же прогона. Начатый прогон не отменяется
// вместе с контекстом вызывающего, у него собственный таймаут.
func (s *TriggerService) RunDispatch(ctx context.Context) (*model.BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err, _ := s.group.Do("dispatch", func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		result, err := s.dispatcher.RunOnce(runCtx)
		if err != nil {
			return nil, err
		}

		s.notifyObservers(*result)

		// после результативного прогона планируем одну контрольную
		// проверку: пока он шел, могли созреть новые записи
		if result.Success > 0 || result.Failed > 0 {
			s.scheduleFollowUp()
		}

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*model.BatchResult), nil
}

// NotifyChange : сигнал «данные изменились». Всплеск сигналов схлопывается:
// первый взводит отложенный запуск, остальные до его срабатывания игнорируются.
func (s *TriggerService) NotifyChange() {
	s.mu.Lock()
	if s.debouncing {
		s.mu.Unlock()
		return
	}
	s.debouncing = true
	s.mu.Unlock()

	go func() {
		select {
		case <-time.After(s.settleDelay):
			s.mu.Lock()
			s.debouncing = false
			s.mu.Unlock()
			s.requestWake()
		case <-s.stop:
		}
	}()
}

// Subscribe : регистрирует наблюдателя сводок прогонов, возвращает функцию отписки
func (s *TriggerService) Subscribe(fn func(model.BatchResult)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Start : запускает фоновый цикл. Первый прогон выполняется сразу,
// дальше по таймеру и по сигналам пробуждения.
func (s *TriggerService) Start(ctx context.Context) {
	if s.started.CompareAndSwap(false, true) == false {
		return
	}
	go s.run(ctx)
}

// Stop : останавливает цикл и отложенные запуски, дожидается завершения
func (s *TriggerService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *TriggerService) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Info("фоновый диспетчер запущен",
		zap.Duration("poll_interval", s.pollInterval),
		zap.Duration("settle_delay", s.settleDelay))

	s.runSafely(ctx)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("фоновый диспетчер остановлен")
			return
		case <-s.stop:
			s.logger.Info("фоновый диспетчер остановлен")
			return
		case <-ticker.C:
			s.runSafely(ctx)
		case <-s.wake:
			s.runSafely(ctx)
		}
	}
}

func (s *TriggerService) runSafely(ctx context.Context) {
	if _, err := s.RunDispatch(ctx); err != nil {
		s.logger.Error("прогон диспетчера завершился ошибкой", zap.Error(err))
	}
}

func (s *TriggerService) scheduleFollowUp() {
	go func() {
		select {
		case <-time.After(s.settleDelay):
			s.requestWake()
		case <-s.stop:
		}
	}()
}

// requestWake : взводит пробуждение цикла, повторные сигналы схлопываются
func (s *TriggerService) requestWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *TriggerService) notifyObservers(result model.BatchResult) {
	s.mu.Lock()
	observers := make([]func(model.BatchResult), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(result)
	}
}
