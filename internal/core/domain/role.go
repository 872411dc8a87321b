package domain

// Role is the access level attached to a credential. Stored verbatim as the
// role column value, so the publisher role keeps its original "penerbit"
// spelling for compatibility with rows written by the old desktop client.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RolePublisher Role = "penerbit"
)

// Scope names granted through roles.
const (
	ScopeArticlesRead  = "articles:read"
	ScopeArticlesWrite = "articles:write"
	ScopePresenceRead  = "presence:read"
	ScopeAdminWrite    = "admin:write"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RolePublisher:
		return true
	}
	return false
}

// Scopes returns the permission scopes granted by the role.
func (r Role) Scopes() []string {
	switch r {
	case RoleAdmin:
		return []string{ScopeArticlesRead, ScopePresenceRead, ScopeAdminWrite}
	case RolePublisher:
		return []string{ScopeArticlesRead, ScopeArticlesWrite}
	default:
		return []string{ScopeArticlesRead}
	}
}

func (r Role) String() string { return string(r) }
