package order

import (
	"maps"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Metadata keys written into history entries.
const (
	MetaNoteOnly       = "noteOnly"
	MetaRevertedFrom   = "revertedFrom"
	MetaReason         = "reason"
	MetaAdminOverride  = "adminOverride"
	MetaPreviousStatus = "previousStatus"
	MetaChannel        = "channel"
	MetaAgentID        = "agentId"
	MetaAction         = "action"
	MetaCommission     = "commission"
	MetaTrackingNumber = "trackingNumber"
	MetaAgentCount     = "agentCount"
)

type HistoryEntry struct {
	Status        Status
	Timestamp     time.Time
	UpdatedBy     kernel.UUID
	UpdatedByRole kernel.Role
	Note          string
	Metadata      map[string]any
}

func newHistoryEntry(status Status, actor kernel.Actor, note string, metadata map[string]any, now time.Time) HistoryEntry {
	return HistoryEntry{
		Status:        status,
		Timestamp:     now,
		UpdatedBy:     actor.ID(),
		UpdatedByRole: actor.Role(),
		Note:          note,
		Metadata:      metadata,
	}
}

func (e HistoryEntry) clone() HistoryEntry {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}

// IsNoteOnly reports whether the entry was appended without a status change.
func (e HistoryEntry) IsNoteOnly() bool {
	v, ok := e.Metadata[MetaNoteOnly].(bool)
	return ok && v
}
