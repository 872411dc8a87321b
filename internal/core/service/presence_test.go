package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/service"
)

// testClock is a controllable clock for presence tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time              { return c.now }
func (c *testClock) Advance(d time.Duration)     { c.now = c.now.Add(d) }
func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
}

func newPresence(t *testing.T) (*service.PresenceService, *testClock) {
	t.Helper()
	st := newTestStore(t)
	clock := newTestClock()
	svc := service.NewPresenceService(st, service.DefaultOnlineWindow)
	svc.Now = clock.Now
	return svc, clock
}

func TestStartSession(t *testing.T) {
	svc, clock := newPresence(t)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.Equal(t, "siti", sess.Username)
	require.Equal(t, domain.SessionOnline, sess.Status)
	require.Equal(t, clock.now, sess.StartedAt)
	require.Equal(t, sess.StartedAt, sess.LastSeen)
}

func TestHeartbeat(t *testing.T) {
	svc, clock := newPresence(t)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)

	clock.Advance(10 * time.Second)

	alive, err := svc.Heartbeat(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, alive)

	got, err := svc.Session(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, clock.now, got.LastSeen)
	require.True(t, !got.LastSeen.Before(got.StartedAt))
}

func TestHeartbeatUnknownSession(t *testing.T) {
	svc, _ := newPresence(t)

	alive, err := svc.Heartbeat(context.Background(), "01K0000000000000000000000")
	require.NoError(t, err)
	require.False(t, alive, "unknown session must report not-alive, not error")
}

func TestSnapshotWindowBoundary(t *testing.T) {
	cases := []struct {
		name   string
		age    time.Duration
		online bool
	}{
		{"fresh heartbeat", 10 * time.Second, true},
		{"just inside window", 44 * time.Second, true},
		{"exactly at window is offline", 45 * time.Second, false},
		{"stale", 50 * time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, clock := newPresence(t)
			ctx := context.Background()

			_, err := svc.StartSession(ctx, "siti")
			require.NoError(t, err)

			clock.Advance(tc.age)

			views, err := svc.Snapshot(ctx)
			require.NoError(t, err)
			require.Len(t, views, 1)
			require.Equal(t, "siti", views[0].Username)
			require.Equal(t, tc.online, views[0].IsOnline)
		})
	}
}

func TestSnapshotFlipsWithoutWrites(t *testing.T) {
	svc, clock := newPresence(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)

	views, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.True(t, views[0].IsOnline)

	// No heartbeat, no end; just time passing
	clock.Advance(2 * time.Minute)

	views, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, views[0].IsOnline)
}

func TestSnapshotUsesFreshestSession(t *testing.T) {
	svc, clock := newPresence(t)
	ctx := context.Background()

	// First device logs in, goes silent
	_, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)

	// Second device logs in and keeps heartbeating
	s2, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	alive, err := svc.Heartbeat(ctx, s2.ID)
	require.NoError(t, err)
	require.True(t, alive)

	views, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1, "one row per username, not per session")
	require.True(t, views[0].IsOnline)
}

func TestEndingOneSessionKeepsUserOnline(t *testing.T) {
	svc, clock := newPresence(t)
	ctx := context.Background()

	// Two devices logged in within the same second, so their last_seen
	// values tie exactly after truncation
	s1, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)
	s2, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, s1.ID))

	// At an exact timestamp tie the surviving online session must win
	views, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.True(t, views[0].IsOnline, "ending one of two live sessions must not hide the other")

	// And once the survivor heartbeats it is strictly freshest anyway
	clock.Advance(10 * time.Second)
	alive, err := svc.Heartbeat(ctx, s2.ID)
	require.NoError(t, err)
	require.True(t, alive)

	views, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.True(t, views[0].IsOnline)

	// Ending the survivor too finally takes the user offline
	require.NoError(t, svc.EndSession(ctx, s2.ID))

	views, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, views[0].IsOnline)
}

func TestSnapshotReportsRole(t *testing.T) {
	svc, clock := newPresence(t)
	_ = clock
	ctx := context.Background()

	usePepper(t)
	auth := &service.AuthService{Store: svc.Store}
	require.NoError(t, auth.Register(ctx, "siti", "rahasia", domain.RolePublisher))

	_, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)

	// A session without a credential row falls back to the user role
	_, err = svc.StartSession(ctx, "hantu")
	require.NoError(t, err)

	views, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byName := map[string]domain.PresenceView{}
	for _, v := range views {
		byName[v.Username] = v
	}
	require.Equal(t, domain.RolePublisher, byName["siti"].Role)
	require.Equal(t, domain.RoleUser, byName["hantu"].Role)
}

func TestEndSession(t *testing.T) {
	svc, _ := newPresence(t)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, sess.ID))

	// Recent last_seen, but explicitly ended: offline
	views, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, views[0].IsOnline)

	// Row survives as the last-seen record
	got, err := svc.Session(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SessionOffline, got.Status)

	// Idempotent, including for sessions that never existed
	require.NoError(t, svc.EndSession(ctx, sess.ID))
	require.NoError(t, svc.EndSession(ctx, "01K0000000000000000000000"))
}

func TestHeartbeatAfterEndKeepsSessionOffline(t *testing.T) {
	svc, clock := newPresence(t)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, "siti")
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(ctx, sess.ID))

	clock.Advance(time.Second)

	// The row still exists so the touch lands, but status stays offline
	alive, err := svc.Heartbeat(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, alive)

	views, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, views[0].IsOnline)
}

func TestPresenceStorageUnavailable(t *testing.T) {
	st := newTestStore(t)
	svc := service.NewPresenceService(st, service.DefaultOnlineWindow)
	ctx := context.Background()

	require.NoError(t, st.Close())

	_, err := svc.StartSession(ctx, "siti")
	require.ErrorIs(t, err, service.ErrStorageUnavailable)

	_, err = svc.Heartbeat(ctx, "some-id")
	require.ErrorIs(t, err, service.ErrStorageUnavailable)

	_, err = svc.Snapshot(ctx)
	require.ErrorIs(t, err, service.ErrStorageUnavailable)
}
