package history

import (
	"fmt"

	"github.com/0xcro3dile/phtqa/internal/domain/ports"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverBolt   = "bbolt"
)

// Open creates the history store for driver. limit bounds the in-memory store only.
func Open(driver, path string, limit int) (ports.HistoryStore, error) {
	switch driver {
	case "", DriverMemory:
		return NewInMemoryStore(limit), nil
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverBolt:
		return NewBoltStore(path)
	default:
		return nil, fmt.Errorf("unknown history driver %q", driver)
	}
}
