package shutdown

import (
	"sync/atomic"
)

// Manager tracks whether the process is draining. Readiness checks consult
// it so load balancers stop routing before listeners close.
type Manager struct {
	shuttingDown atomic.Bool
	shutdownChan chan struct{}
}

func NewManager() *Manager {
	return &Manager{shutdownChan: make(chan struct{})}
}

func (m *Manager) IsShuttingDown() bool {
	return m.shuttingDown.Load()
}

// Shutdown starts draining. It reports false when draining had already begun.
func (m *Manager) Shutdown() bool {
	if !m.shuttingDown.CompareAndSwap(false, true) {
		return false
	}
	close(m.shutdownChan)
	return true
}

// Wait is closed once Shutdown has been called.
func (m *Manager) Wait() <-chan struct{} {
	return m.shutdownChan
}
