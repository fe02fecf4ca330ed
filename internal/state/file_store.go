package state

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

// stateDocument is the on-disk cooldown record.
type stateDocument struct {
	Version    int               `json:"version"`
	LastAlerts map[string]string `json:"last_alerts"`
}

// FileStore persists cooldown state as a small JSON document.
type FileStore struct {
	path      string
	cooldowns config.Cooldowns
	doc       stateDocument
	now       func() time.Time
}

// NewFileStore loads cooldown state from path. A missing, unreadable,
// or corrupt file yields an empty store with a warning, never an
// error.
func NewFileStore(path string, cooldowns config.Cooldowns) *FileStore {
	s := &FileStore{
		path:      path,
		cooldowns: cooldowns,
		doc: stateDocument{
			Version:    schemaVersion,
			LastAlerts: make(map[string]string),
		},
		now: time.Now,
	}
	s.load()
	return s
}

func (s *FileStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Could not read cooldown state, starting empty",
				logger.String("path", s.path),
				logger.ErrorField(err),
			)
		}
		return
	}

	var doc stateDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("Corrupt cooldown state, starting empty",
			logger.String("path", s.path),
			logger.ErrorField(err),
		)
		return
	}
	if doc.LastAlerts == nil {
		doc.LastAlerts = make(map[string]string)
	}
	doc.Version = schemaVersion
	s.doc = doc
}

// ShouldFire implements Store.
func (s *FileStore) ShouldFire(ruleName string, severity models.Severity) bool {
	value, exists := s.doc.LastAlerts[ruleName]
	if !exists {
		return true
	}

	lastFire, ok := parseLastFire(value)
	if !ok {
		// Malformed timestamp is treated as never fired.
		return true
	}

	return s.now().Sub(lastFire) >= s.cooldowns.Window(string(severity))
}

// RecordFire implements Store. The in-memory record is updated first
// so decisions within the current run stay consistent; a failed write
// only means the next run sees stale state.
func (s *FileStore) RecordFire(ruleName string) {
	s.doc.LastAlerts[ruleName] = s.now().Format(time.RFC3339)
	s.save()
}

func (s *FileStore) save() {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		logger.Warn("Could not encode cooldown state",
			logger.ErrorField(err),
		)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		logger.Warn("Could not save cooldown state",
			logger.String("path", s.path),
			logger.ErrorField(err),
		)
	}
}

// LastFire returns the last recorded fire time for a rule.
func (s *FileStore) LastFire(ruleName string) (time.Time, bool) {
	value, exists := s.doc.LastAlerts[ruleName]
	if !exists {
		return time.Time{}, false
	}
	return parseLastFire(value)
}
