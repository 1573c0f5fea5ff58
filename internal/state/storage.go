// Package state persists the connection continuity fields between runs.
//
// The durable layout is a single JSON blob under a fixed key:
//
//	{ "version": 1, "firstTimeConnection": bool, "lastSuccessfulConnection": millis|null }
//
// Only the two continuity fields are ever restored; phase statuses and
// timestamps are always rebuilt fresh by the machine at startup.
package state

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kanbaru/walletbridge/internal/connection"
	"github.com/kanbaru/walletbridge/internal/domain"
)

// StorageKey is the fixed identifier of the connection blob.
const StorageKey = "connection-storage"

// CurrentVersion is the current storage schema version.
const CurrentVersion = 1

// Record is the on-disk shape of the connection blob. The phase maps are kept
// for schema compatibility with older blobs that persisted them; the loader
// ignores their contents.
type Record struct {
	Version                  int               `json:"version"`
	SessionID                string            `json:"sessionId,omitempty"`
	FirstTimeConnection      bool              `json:"firstTimeConnection"`
	LastSuccessfulConnection *int64            `json:"lastSuccessfulConnection"`
	PhaseStatuses            map[string]string `json:"phaseStatuses,omitempty"`
	PhaseTimestamps          map[string]*int64 `json:"phaseTimestamps,omitempty"`
}

// DefaultRecord returns a Record for a user who has never connected.
func DefaultRecord() Record {
	return Record{
		Version:                  CurrentVersion,
		FirstTimeConnection:      true,
		LastSuccessfulConnection: nil,
		PhaseStatuses:            defaultPhaseStatuses(),
		PhaseTimestamps:          defaultPhaseTimestamps(),
	}
}

// Migrate back-fills fields a blob from an older schema may be missing. It
// never fails; unknown-but-present fields are kept as they are.
func Migrate(raw map[string]interface{}) map[string]interface{} {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	if _, ok := raw["firstTimeConnection"]; !ok {
		raw["firstTimeConnection"] = true
	}
	if _, ok := raw["lastSuccessfulConnection"]; !ok {
		raw["lastSuccessfulConnection"] = nil
	}
	if _, ok := raw["phaseStatuses"]; !ok {
		raw["phaseStatuses"] = defaultPhaseStatuses()
	}
	if _, ok := raw["phaseTimestamps"]; !ok {
		raw["phaseTimestamps"] = defaultPhaseTimestamps()
	}
	raw["version"] = CurrentVersion
	return raw
}

// DecodeRecord parses a blob of any supported schema version into a Record,
// applying migrations. Malformed input yields the default record rather than
// an error.
func DecodeRecord(data []byte) Record {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultRecord()
	}

	migrated := Migrate(raw)

	// Re-marshal to get proper types into the struct
	buf, err := json.Marshal(migrated)
	if err != nil {
		return DefaultRecord()
	}
	var record Record
	if err := json.Unmarshal(buf, &record); err != nil {
		return DefaultRecord()
	}
	return record
}

// FileStore implements connection.Store on a JSON file in the user config
// directory.
type FileStore struct {
	logger *slog.Logger
}

// NewFileStore creates a FileStore.
func NewFileStore(logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{logger: logger}
}

// Load reads the persisted continuity fields. A missing or corrupt blob
// yields defaults, never an error the caller has to branch on.
func (s *FileStore) Load() (connection.PersistedState, error) {
	defaults := connection.PersistedState{FirstTimeConnection: true}

	path, err := storagePath()
	if err != nil {
		return defaults, &domain.StorageError{Op: "load", Err: err}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, &domain.StorageError{Op: "load", Path: path, Err: err}
	}

	record := DecodeRecord(data)
	return connection.PersistedState{
		SessionID:                record.SessionID,
		FirstTimeConnection:      record.FirstTimeConnection,
		LastSuccessfulConnection: millisToTime(record.LastSuccessfulConnection),
	}, nil
}

// Save writes the continuity fields through to disk.
func (s *FileStore) Save(ps connection.PersistedState) error {
	path, err := storagePath()
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}

	record := Record{
		Version:                  CurrentVersion,
		SessionID:                ps.SessionID,
		FirstTimeConnection:      ps.FirstTimeConnection,
		LastSuccessfulConnection: timeToMillis(ps.LastSuccessfulConnection),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &domain.StorageError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// storagePath is a variable holding the function that returns the path to the
// connection blob. This allows it to be overridden in tests.
var storagePath = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "walletbridge", StorageKey+".json"), nil
}

func defaultPhaseStatuses() map[string]string {
	statuses := make(map[string]string, len(domain.PhaseOrder))
	for _, phase := range domain.PhaseOrder {
		statuses[phase.String()] = domain.StatusWaiting.String()
	}
	return statuses
}

func defaultPhaseTimestamps() map[string]*int64 {
	timestamps := make(map[string]*int64, len(domain.PhaseOrder))
	for _, phase := range domain.PhaseOrder {
		timestamps[phase.String()] = nil
	}
	return timestamps
}

func timeToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func millisToTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}
