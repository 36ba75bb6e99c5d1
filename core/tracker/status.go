package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SyncStatus is the state of the remote mirror.
type SyncStatus string

const (
	StatusDisabled SyncStatus = "disabled"
	StatusLoading  SyncStatus = "loading"
	StatusSyncing  SyncStatus = "syncing"
	StatusSynced   SyncStatus = "synced"
	StatusError    SyncStatus = "error"
)

var statuses = []SyncStatus{StatusDisabled, StatusLoading, StatusSyncing, StatusSynced, StatusError}

// transitions lists the statuses reachable from each status.
// error is only left through a manual refresh (error -> loading).
var transitions = map[SyncStatus][]SyncStatus{
	StatusDisabled: {StatusLoading},
	StatusLoading:  {StatusSyncing, StatusSynced, StatusError},
	StatusSyncing:  {StatusSynced, StatusError},
	StatusSynced:   {StatusSyncing, StatusLoading},
	StatusError:    {StatusLoading},
}

var syncStatusGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homeschool",
	Subsystem: "sync",
	Name:      "status",
	Help:      "Current remote sync status (1 for the active status).",
}, []string{"status"})

// CanTransition reports whether `s` may move to `to`. Staying put is always allowed.
func (s SyncStatus) CanTransition(to SyncStatus) bool {
	if s == to {
		return true
	}
	for _, st := range transitions[s] {
		if st == to {
			return true
		}
	}
	return false
}

func observeStatus(current SyncStatus) {
	for _, s := range statuses {
		v := 0.0
		if s == current {
			v = 1
		}
		syncStatusGauge.WithLabelValues(string(s)).Set(v)
	}
}

// SyncState is a snapshot of the remote mirror status.
type SyncState struct {
	Status  SyncStatus `json:"status"`
	Enabled bool       `json:"enabled"`
	Error   string     `json:"error,omitempty"`
	Pending int        `json:"pending"` // remote writes in flight
}
