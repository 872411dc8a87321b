package store

import (
	"context"
	"errors"
	"time"

	"github.com/wartahub/warta/internal/core/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres if the hosted deployment ever comes back) implement this. It
// exposes sub-repositories to keep concerns tidy and testable.
//
// Every method may fail for infrastructure reasons; such failures are
// returned as errors distinct from ErrNotFound so callers can tell "no such
// row" apart from "we don't know".
type Store interface {
	Credentials() Credentials
	Sessions() Sessions
	Articles() Articles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn
	// returns an error and committing otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Credentials interface {
	// Exists reports whether a credential row is stored for username.
	// Infrastructure failures are returned as an error, never as a bare
	// false: callers must not confuse "unreachable" with "absent".
	Exists(ctx context.Context, username string) (bool, error)

	// GetByUsername returns the stored credential, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (domain.Credential, error)

	// Create inserts a credential. Inserting an existing username is a
	// silent no-op (ON CONFLICT DO NOTHING); existing rows are never
	// overwritten by this call.
	Create(ctx context.Context, c domain.Credential) error

	// Upsert inserts or replaces the password hash and role for a
	// username. Used by the admin reset path only.
	Upsert(ctx context.Context, c domain.Credential) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	// Used when upgrading a legacy digest after a successful login.
	UpdatePasswordHash(ctx context.Context, username, newHash string) error

	// IsEmpty reports whether no credentials are stored.
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s domain.Session) error

	// Get returns a session by id, or ErrNotFound.
	Get(ctx context.Context, id string) (domain.Session, error)

	// Touch advances last_seen for the session. Returns false when the
	// session id does not exist; errors are reserved for storage failure.
	Touch(ctx context.Context, id string, at time.Time) (bool, error)

	// End marks the session offline and stamps last_seen. Idempotent:
	// ending an already-offline or unknown session is harmless.
	End(ctx context.Context, id string, at time.Time) error

	// LatestPerUser returns, for every username that ever had a session,
	// the row with the greatest last_seen (an online row wins an exact
	// timestamp tie) joined with the credential role.
	LatestPerUser(ctx context.Context) ([]domain.PresenceRow, error)
}

type Articles interface {
	// Create inserts a new article (id is provided by the app via ULID).
	Create(ctx context.Context, a domain.Article) error

	// Get returns an article by id, or ErrNotFound.
	Get(ctx context.Context, id string) (domain.Article, error)

	// SetPublished transitions the article to published, scoped to the
	// owning author. Returns false when no matching row exists.
	SetPublished(ctx context.Context, id, author string) (bool, error)

	// ListByAuthor returns the author's articles, newest first.
	ListByAuthor(ctx context.Context, author string, limit int) ([]domain.Article, error)

	// ListPublished returns published articles, newest first.
	ListPublished(ctx context.Context, limit int) ([]domain.Article, error)
}
