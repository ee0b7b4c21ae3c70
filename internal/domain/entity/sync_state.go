package entity

import (
	"time"
)

// Sync Status
const (
	SyncIdle    = "idle"
	SyncSyncing = "syncing"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// SyncState is the last-known state of the remote replication engine.
// An empty Endpoint means local-only mode.
type SyncState struct {
	Endpoint     string    `json:"endpoint,omitempty"`
	Status       string    `json:"status"`
	LastSyncTime time.Time `json:"lastSyncTime,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
}
