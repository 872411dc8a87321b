package wartasdk

import (
	"time"

	"github.com/wartahub/warta/pkg/jwtx"
)

// RegisterRequest creates a new account. Role may be omitted and defaults
// to "user"; "penerbit" is the publisher role carried over from the
// original Indonesian deployment.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user penerbit admin"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token plus the presence session opened
// for this login. Clients heartbeat against SessionID to stay online.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "Bearer"
	ExpiresIn   int    `json:"expires_in"` // seconds
	SessionID   string `json:"session_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// HeartbeatResponse reports whether the session still exists. Alive=false
// means the client should treat the session as gone and re-login.
type HeartbeatResponse struct {
	Alive    bool      `json:"alive"`
	LastSeen time.Time `json:"last_seen,omitempty"`
}

// PresenceEntry is one username's derived online state.
type PresenceEntry struct {
	Username string    `json:"username"`
	Role     string    `json:"role"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

type PresenceResponse struct {
	Users []PresenceEntry `json:"users"`
}

// CreateArticleRequest creates an article. With Publish set the article
// skips the draft stage and lands in the public feed immediately.
type CreateArticleRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Publish bool   `json:"publish,omitempty"`
}

type ArticleInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Status    string    `json:"status"` // "draft" or "published"
	CreatedAt time.Time `json:"created_at"`
}

type ArticleListResponse struct {
	Articles []ArticleInfo `json:"articles"`
}

// HealthResponse is returned by the livez/readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"` // "ok" or "degraded"
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse is the JWKS document served at /.well-known/jwks.json.
type JWKSResponse jwtx.JWKS
