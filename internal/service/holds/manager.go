package holds

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
)

// Manager фоновая метла холдов: с фиксированным интервалом переводит
// в expired заявки, чей дедлайн решения истек, и сообщает о каждой
// наблюдателю. Единственный писатель статуса expired в системе.
type Manager struct {
	bookingRepo  BookingRepository
	interval     time.Duration
	location     *time.Location
	onExpired    ExpiryObserver
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewManager создает менеджер холдов. Метрики опциональны (nil - не пишем).
func NewManager(
	bookingRepo BookingRepository,
	interval time.Duration,
	location *time.Location,
	onExpired ExpiryObserver,
	m *metrics.Metrics,
	logger Logger,
) (*Manager, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Manager{
		bookingRepo:  bookingRepo,
		interval:     interval,
		location:     location,
		onExpired:    onExpired,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
	}, nil
}

// Start запускает цикл обхода. Повторный вызов на работающем менеджере -
// no-op: второй цикл не стартует.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.logger.Warn("HoldManager: Start called while already running, ignored")
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})

	m.logger.Info("HoldManager: started, sweep interval %s", m.interval)
	go m.run(m.stopCh, m.doneCh)
}

// Stop останавливает цикл и блокируется до его завершения.
// Конкурентные вызовы безопасны: канал остановки закрывает только тот,
// кто застал менеджер работающим, остальные дожидаются выхода цикла.
// Вызов на остановленном менеджере - no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	doneCh := m.doneCh
	initiated := m.running
	if initiated {
		m.running = false
		close(m.stopCh)
	}
	m.mu.Unlock()

	// Менеджер ни разу не стартовал
	if doneCh == nil {
		return
	}

	<-doneCh
	if initiated {
		m.logger.Info("HoldManager: stopped")
	}
}

func (m *Manager) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep один проход метлы: гасим просроченные холды и оповещаем наблюдателя
func (m *Manager) sweep() {
	ctx := context.Background()
	now := m.timeProvider.Now().In(m.location)

	expired, err := m.bookingRepo.SweepExpiredHolds(ctx, now)
	if err != nil {
		m.logger.Error("HoldManager: sweep failed: %v", err)
		if m.metrics != nil {
			m.metrics.SweepTicksTotal.WithLabelValues("error").Inc()
		}
		return
	}

	if m.metrics != nil {
		m.metrics.SweepTicksTotal.WithLabelValues("ok").Inc()
		m.metrics.HoldsExpiredTotal.WithLabelValues("deadline").Add(float64(len(expired)))
	}

	for _, id := range expired {
		m.logger.Info("HoldManager: booking id=%d hold expired", id)
		if m.onExpired != nil {
			m.onExpired(id)
		}
	}
}
