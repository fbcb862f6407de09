package logbook

import "time"

// ChangeKind describes a mutation of the logbook.
type ChangeKind int

const (
	SessionAdded ChangeKind = iota
	SessionUpdated
	SessionDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case SessionAdded:
		return "added"
	case SessionUpdated:
		return "updated"
	case SessionDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is published after a session was written.
type Change struct {
	Kind      ChangeKind
	VehicleID string
	SessionID string
	Time      time.Time
}
