package domain

import "time"

// Credential is a stored login identity. Usernames are compared exactly as
// stored; no case folding or other normalization happens anywhere.
type Credential struct {
	Username     string
	PasswordHash string // argon2id PHC string, or a legacy sha256 hex digest
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
