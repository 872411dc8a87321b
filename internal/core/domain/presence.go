package domain

import "time"

// PresenceRow is the stored side of a presence query: the session row with
// the greatest last_seen for one username, joined with the credential role.
// Usernames without a credential row report RoleUser, matching the LEFT
// JOIN default the original schema used.
type PresenceRow struct {
	Username string
	Role     Role
	Status   SessionStatus
	LastSeen time.Time
}

// PresenceView is the derived online/offline projection for one username.
// It is computed at read time and never stored: a session that stopped
// heartbeating flips to offline in later snapshots without any write.
type PresenceView struct {
	Username string
	Role     Role
	IsOnline bool
	LastSeen time.Time
}
