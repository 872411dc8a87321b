package domain

import "time"

// SessionStatus is the stored lifecycle state of a session. There is no
// stored "timed out" state: staleness is derived at read time from last_seen.
type SessionStatus string

const (
	SessionOnline  SessionStatus = "online"
	SessionOffline SessionStatus = "offline"
)

// Session is one device connection for a user. Multiple sessions per
// username may coexist. Rows are never deleted; ended sessions stay behind
// as the "last seen" audit trail.
//
// Invariant: LastSeen >= StartedAt.
type Session struct {
	ID        string // ULID
	Username  string
	StartedAt time.Time
	LastSeen  time.Time
	Status    SessionStatus
}
