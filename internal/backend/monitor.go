package backend

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Monitor pings the backend on a fixed interval and remembers whether the
// last ping succeeded. It only reports; requests are never gated on it.
type Monitor struct {
	client   *Client
	interval time.Duration
	logger   *zap.Logger

	healthy atomic.Bool
	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewMonitor(client *Client, interval time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		client:   client,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs an immediate check and then keeps checking in the background
// until Close.
func (m *Monitor) Start() {
	m.check()
	m.running.Store(true)
	go m.loop()
}

func (m *Monitor) Healthy() bool {
	return m.healthy.Load()
}

func (m *Monitor) loop() {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.check()
		}
	}
}

func (m *Monitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	err := m.client.Ping(ctx)
	was := m.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		m.logger.Warn("backend ping failed", zap.String("url", m.client.baseURL), zap.Error(err))
	case err != nil && !was:
		m.logger.Debug("backend still unreachable", zap.String("url", m.client.baseURL), zap.Error(err))
	case err == nil && !was:
		m.logger.Info("backend reachable", zap.String("url", m.client.baseURL))
	}
}

// Close stops the background loop and waits for it to exit.
func (m *Monitor) Close() {
	m.once.Do(func() {
		close(m.stop)
	})
	if m.running.Load() {
		<-m.done
	}
	m.client.CloseIdleConnections()
}
