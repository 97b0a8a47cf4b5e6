package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/common"
	"github.com/ternarybob/optionsintel/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db           *BadgerDB
	cache        interfaces.CacheStorage
	intelligence interfaces.IntelligenceStorage
	patterns     interfaces.PatternStorage
	logger       arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:           db,
		cache:        NewCacheStorage(db, logger),
		intelligence: NewIntelligenceStorage(db, logger),
		patterns:     NewPatternStorage(db, logger),
		logger:       logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// CacheStorage returns the cache storage interface
func (m *Manager) CacheStorage() interfaces.CacheStorage {
	return m.cache
}

// IntelligenceStorage returns the market-intelligence storage interface
func (m *Manager) IntelligenceStorage() interfaces.IntelligenceStorage {
	return m.intelligence
}

// PatternStorage returns the pattern storage interface
func (m *Manager) PatternStorage() interfaces.PatternStorage {
	return m.patterns
}

// RunValueLogGC reclaims space from deleted rows
func (m *Manager) RunValueLogGC() error {
	return m.db.RunValueLogGC()
}

// Close closes the underlying database
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing Badger storage manager")
	return m.db.Close()
}
