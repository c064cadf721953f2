package system

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hospadmin/hospital-admin/internal"
	"github.com/hospadmin/hospital-admin/internal/audit"
)

// Operation-log rows older than this are eligible for the cleanup purge.
const logRetention = 30 * 24 * time.Hour

type Service struct {
	config   ConfigRepository
	logs     LogRepository
	stats    StatsRepository
	recorder *audit.Recorder
	logger   *slog.Logger
}

func NewService(config ConfigRepository, logs LogRepository, stats StatsRepository, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		config:   config,
		logs:     logs,
		stats:    stats,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *Service) ConfigList() ([]ConfigEntry, error) {
	entries, err := s.config.All()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load configuration", err)
	}
	return entries, nil
}

func (s *Service) ConfigUpdate(key string, value *string, meta audit.Meta) (*ConfigEntry, error) {
	entry, err := s.config.GetByKey(key)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load configuration", err)
	}
	if entry == nil {
		return nil, internal.NewNotFoundError("configuration key not found", internal.ErrCodeConfigNotFound)
	}

	if err := s.config.UpdateValue(key, value); err != nil {
		return nil, internal.NewPersistenceError("failed to update configuration", err)
	}

	s.recorder.Record(meta, "update", "config", &entry.ID, fmt.Sprintf("updated config %s", key))

	entry, err = s.config.GetByKey(key)
	if err != nil {
		return nil, internal.NewPersistenceError("failed to load configuration", err)
	}
	return entry, nil
}

func (s *Service) Logs(filter LogFilter) ([]LogView, int64, error) {
	views, total, err := s.logs.List(filter)
	if err != nil {
		return nil, 0, internal.NewPersistenceError("failed to load operation logs", err)
	}
	return views, total, nil
}

// CleanupLogs purges operation-log rows past retention and reports how
// many were removed. Runs only when an operator asks for it.
func (s *Service) CleanupLogs(meta audit.Meta) (int64, error) {
	cutoff := time.Now().Add(-logRetention)
	removed, err := s.logs.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, internal.NewPersistenceError("failed to clean up operation logs", err)
	}

	s.recorder.Record(meta, "cleanup", "log", nil, fmt.Sprintf("removed %d log entries", removed))
	return removed, nil
}

func (s *Service) Info() (*Stats, error) {
	stats, err := s.stats.Collect()
	if err != nil {
		return nil, internal.NewPersistenceError("failed to collect system statistics", err)
	}
	return stats, nil
}
