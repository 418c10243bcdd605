package shutdown

import (
	"context"
	"sync"

	"github.com/pyronexus/cointracking/pkg/logger"
)

// Handler releases one resource. It should return once ctx is done.
type Handler func(ctx context.Context) error

// Manager runs registered cleanup handlers when the process exits.
type Manager struct {
	mu       sync.Mutex
	handlers map[string]Handler
	order    []string
}

func NewManager() *Manager {
	return &Manager{handlers: make(map[string]Handler)}
}

// OnShutdown registers handler under name. Registering a name twice replaces
// the earlier handler.
func (m *Manager) OnShutdown(name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.handlers[name]; !ok {
		m.order = append(m.order, name)
	}
	m.handlers[name] = handler
}

// Shutdown runs every handler concurrently and waits for all of them or for
// ctx. It returns the number of handlers that failed or did not finish.
func (m *Manager) Shutdown(ctx context.Context) int {
	m.mu.Lock()
	names := append([]string(nil), m.order...)
	handlers := make([]Handler, len(names))
	for i, name := range names {
		handlers[i] = m.handlers[name]
	}
	m.mu.Unlock()

	if len(handlers) == 0 {
		return 0
	}
	log := logger.Component("shutdown")

	var (
		wg     sync.WaitGroup
		failMu sync.Mutex
		failed int
	)
	done := make(map[string]bool, len(names))
	for i, handler := range handlers {
		wg.Add(1)
		go func(name string, handler Handler) {
			defer wg.Done()
			err := handler(ctx)

			failMu.Lock()
			defer failMu.Unlock()
			done[name] = true
			if err != nil {
				failed++
				log.WithField("handler", name).WithError(err).Warn("shutdown handler failed")
			}
		}(names[i], handler)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return failed
	case <-ctx.Done():
		failMu.Lock()
		defer failMu.Unlock()
		pending := len(names) - len(done)
		log.WithField("pending", pending).Warnf("shutdown timed out: %v", ctx.Err())
		return failed + pending
	}
}
