package feed

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jusunglee/transit-router/internal/dataset"
)

// UpdateFunc receives every newly loaded dataset. Returning an error keeps
// the previous dataset in service; the file is retried on the next tick.
type UpdateFunc func(ds *dataset.Dataset) error

// Manager watches the network document and reloads it when it changes
type Manager struct {
	path           string
	updateInterval time.Duration
	onUpdate       UpdateFunc
	logger         logrus.FieldLogger

	mu          sync.Mutex
	lastModTime time.Time
	lastSize    int64
	lastUpdate  time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager creates a new feed manager
func NewManager(path string, updateInterval time.Duration, onUpdate UpdateFunc, logger logrus.FieldLogger) *Manager {
	return &Manager{
		path:           path,
		updateInterval: updateInterval,
		onUpdate:       onUpdate,
		logger:         logger.WithField("component", "feed"),
		stopCh:         make(chan struct{}),
	}
}

// Refresh loads the document if its modification time or size changed
// since the last successful load. It reports whether a new dataset was
// applied. Two same-size writes within the filesystem's timestamp
// granularity look unchanged until the next modification.
func (m *Manager) Refresh() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, err := os.Stat(m.path)
	if err != nil {
		return false, fmt.Errorf("stat dataset: %w", err)
	}
	if !m.lastModTime.IsZero() && info.ModTime().Equal(m.lastModTime) && info.Size() == m.lastSize {
		return false, nil
	}

	ds, err := dataset.Load(m.path)
	if err != nil {
		return false, err
	}
	if err := m.onUpdate(ds); err != nil {
		return false, err
	}

	m.lastModTime = info.ModTime()
	m.lastSize = info.Size()
	m.lastUpdate = time.Now()
	return true, nil
}

// LastUpdate returns when a dataset was last applied
func (m *Manager) LastUpdate() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUpdate
}

// Start begins the reload loop. A non-positive interval disables it.
func (m *Manager) Start() {
	if m.updateInterval <= 0 {
		return
	}
	m.wg.Add(1)
	go m.updateLoop()
}

// Stop stops the reload loop. It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Manager) updateLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			changed, err := m.Refresh()
			if err != nil {
				m.logger.WithError(err).Warn("dataset reload failed, keeping previous network")
				continue
			}
			if changed {
				m.logger.WithField("path", m.path).Info("dataset reloaded")
			}
		case <-m.stopCh:
			return
		}
	}
}
