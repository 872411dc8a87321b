package service

import (
	"context"
	"errors"
	"time"

	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/store"
	"github.com/wartahub/warta/pkg/idx"
)

// DefaultOnlineWindow is how long a session stays "online" after its last
// heartbeat. A session whose last_seen is this old or older reads as
// offline; there is no background reaper, staleness is derived per query.
const DefaultOnlineWindow = 45 * time.Second

type PresenceService struct {
	Store  store.Store
	Window time.Duration

	// Now is the clock used for all presence timestamps. Overridable in
	// tests; defaults to time.Now.
	Now func() time.Time
}

func NewPresenceService(st store.Store, window time.Duration) *PresenceService {
	if window <= 0 {
		window = DefaultOnlineWindow
	}
	return &PresenceService{Store: st, Window: window}
}

// now returns the current instant in UTC truncated to whole seconds, the
// resolution the schema stores. Sub-second precision would make last_seen
// comparisons depend on driver formatting.
func (s *PresenceService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Second)
	}
	return time.Now().UTC().Truncate(time.Second)
}

// StartSession opens a fresh session for username and returns it. Each call
// creates a new session row: one user logging in from two devices holds two
// independent sessions.
func (s *PresenceService) StartSession(ctx context.Context, username string) (domain.Session, error) {
	now := s.now()
	sess := domain.Session{
		ID:        idx.New().String(),
		Username:  username,
		StartedAt: now,
		LastSeen:  now,
		Status:    domain.SessionOnline,
	}

	if err := s.Store.Sessions().Create(ctx, sess); err != nil {
		return domain.Session{}, storageErr(err)
	}

	return sess, nil
}

// Heartbeat advances the session's last_seen to now. Returns true when the
// session exists and false when it does not; callers use false to tell a
// client its session is gone and it should re-login.
//
// last_seen only moves forward in practice because heartbeats carry the
// current clock, but no ordering check is enforced here.
func (s *PresenceService) Heartbeat(ctx context.Context, sessionID string) (bool, error) {
	alive, err := s.Store.Sessions().Touch(ctx, sessionID, s.now())
	if err != nil {
		return false, storageErr(err)
	}
	return alive, nil
}

// EndSession marks the session offline. Idempotent: ending an unknown or
// already-ended session succeeds without effect. The row is kept as the
// user's "last seen" record.
func (s *PresenceService) EndSession(ctx context.Context, sessionID string) error {
	if err := s.Store.Sessions().End(ctx, sessionID, s.now()); err != nil {
		return storageErr(err)
	}
	return nil
}

// Snapshot reports, for every username that ever held a session, whether it
// is currently online. A user is online when their freshest session is
// stored online AND its last_seen is strictly younger than the window.
// A session exactly window old is already offline.
func (s *PresenceService) Snapshot(ctx context.Context) ([]domain.PresenceView, error) {
	rows, err := s.Store.Sessions().LatestPerUser(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	now := s.now()
	views := make([]domain.PresenceView, 0, len(rows))
	for _, r := range rows {
		online := r.Status == domain.SessionOnline && now.Sub(r.LastSeen) < s.Window
		views = append(views, domain.PresenceView{
			Username: r.Username,
			Role:     r.Role,
			IsOnline: online,
			LastSeen: r.LastSeen,
		})
	}

	return views, nil
}

// Session returns one session by id, mapping a missing row to ErrNotFound.
func (s *PresenceService) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	sess, err := s.Store.Sessions().Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrNotFound
		}
		return domain.Session{}, storageErr(err)
	}
	return sess, nil
}
