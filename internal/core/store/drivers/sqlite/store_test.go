package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/store"
	"github.com/wartahub/warta/pkg/idx"
)

// newTestStore opens a file-backed database under t.TempDir. A :memory: DSN
// does not survive the database/sql connection pool, every connection would
// get its own empty database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_time_format=sqlite"
	st, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts.UTC()
}

func testCredential(username string, role domain.Role, at time.Time) domain.Credential {
	return domain.Credential{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         role,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	st := newTestStore(t)

	// Re-applying must be a no-op, not an error.
	require.NoError(t, st.ApplyMigrations())

	empty, err := st.Credentials().IsEmpty(context.Background())
	require.NoError(t, err)
	require.True(t, empty)
}

func TestCredentialsLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	creds := st.Credentials()

	exists, err := creds.Exists(ctx, "budi")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, creds.Create(ctx, testCredential("budi", domain.RolePublisher, now)))

	exists, err = creds.Exists(ctx, "budi")
	require.NoError(t, err)
	require.True(t, exists)

	got, err := creds.GetByUsername(ctx, "budi")
	require.NoError(t, err)
	require.Equal(t, "budi", got.Username)
	require.Equal(t, domain.RolePublisher, got.Role)
	require.True(t, got.CreatedAt.Equal(now))

	_, err = creds.GetByUsername(ctx, "siapa")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCredentialsCreateConflictIsNoOp(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	creds := st.Credentials()
	require.NoError(t, creds.Create(ctx, testCredential("budi", domain.RoleUser, now)))

	// Second create with a different role must not touch the existing row.
	clash := testCredential("budi", domain.RoleAdmin, now.Add(time.Hour))
	require.NoError(t, creds.Create(ctx, clash))

	got, err := creds.GetByUsername(ctx, "budi")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, got.Role)
	require.True(t, got.UpdatedAt.Equal(now))
}

func TestCredentialsUpsertOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	creds := st.Credentials()
	require.NoError(t, creds.Create(ctx, testCredential("budi", domain.RoleUser, now)))

	updated := testCredential("budi", domain.RoleAdmin, now.Add(time.Minute))
	updated.PasswordHash = "$argon2id$v=19$m=65536,t=3,p=2$bmV3$bmV3"
	updated.CreatedAt = now
	require.NoError(t, creds.Upsert(ctx, updated))

	got, err := creds.GetByUsername(ctx, "budi")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.Equal(t, updated.PasswordHash, got.PasswordHash)
	require.True(t, got.CreatedAt.Equal(now), "upsert keeps the original created_at")
	require.True(t, got.UpdatedAt.Equal(now.Add(time.Minute)))
}

func TestCredentialsUpdatePasswordHash(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	creds := st.Credentials()
	require.NoError(t, creds.Create(ctx, testCredential("budi", domain.RoleUser, now)))

	require.NoError(t, creds.UpdatePasswordHash(ctx, "budi", "$argon2id$v=19$m=65536,t=3,p=2$dXA$dXA"))

	got, err := creds.GetByUsername(ctx, "budi")
	require.NoError(t, err)
	require.Equal(t, "$argon2id$v=19$m=65536,t=3,p=2$dXA$dXA", got.PasswordHash)
	require.True(t, got.UpdatedAt.After(now) || got.UpdatedAt.Equal(now))
}

func TestSessionsTouchReportsExistence(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	sessions := st.Sessions()
	id := idx.New().String()
	require.NoError(t, sessions.Create(ctx, domain.Session{
		ID:        id,
		Username:  "budi",
		StartedAt: now,
		LastSeen:  now,
		Status:    domain.SessionOnline,
	}))

	ok, err := sessions.Touch(ctx, id, now.Add(10*time.Second))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, got.LastSeen.Equal(now.Add(10*time.Second)))
	require.Equal(t, domain.SessionOnline, got.Status)

	ok, err = sessions.Touch(ctx, "01K000000000000000000000XX", now)
	require.NoError(t, err)
	require.False(t, ok, "touching an unknown session is not an error, just a miss")
}

func TestSessionsEnd(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	sessions := st.Sessions()
	id := idx.New().String()
	require.NoError(t, sessions.Create(ctx, domain.Session{
		ID:        id,
		Username:  "budi",
		StartedAt: now,
		LastSeen:  now,
		Status:    domain.SessionOnline,
	}))

	require.NoError(t, sessions.End(ctx, id, now.Add(time.Minute)))

	got, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.SessionOffline, got.Status)
	require.True(t, got.LastSeen.Equal(now.Add(time.Minute)))

	// Row stays behind for the presence history; Get must still find it.
	_, err = sessions.Get(ctx, id)
	require.NoError(t, err)
}

func TestLatestPerUserPicksFreshestSession(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	require.NoError(t, st.Credentials().Create(ctx, testCredential("budi", domain.RolePublisher, now)))

	sessions := st.Sessions()

	// Older session already ended, newer one still online.
	require.NoError(t, sessions.Create(ctx, domain.Session{
		ID: idx.New().String(), Username: "budi",
		StartedAt: now.Add(-time.Hour), LastSeen: now.Add(-time.Hour),
		Status: domain.SessionOffline,
	}))
	require.NoError(t, sessions.Create(ctx, domain.Session{
		ID: idx.New().String(), Username: "budi",
		StartedAt: now, LastSeen: now.Add(30 * time.Second),
		Status: domain.SessionOnline,
	}))

	// A user with a session but no credential row, like the legacy data had.
	require.NoError(t, sessions.Create(ctx, domain.Session{
		ID: idx.New().String(), Username: "hantu",
		StartedAt: now, LastSeen: now,
		Status: domain.SessionOnline,
	}))

	rows, err := sessions.LatestPerUser(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "budi", rows[0].Username)
	require.Equal(t, domain.RolePublisher, rows[0].Role)
	require.Equal(t, domain.SessionOnline, rows[0].Status)
	require.True(t, rows[0].LastSeen.Equal(now.Add(30*time.Second)))

	require.Equal(t, "hantu", rows[1].Username)
	require.Equal(t, domain.RoleUser, rows[1].Role, "missing credential row defaults to user")
}

func TestLatestPerUserPrefersOnlineAtTimestampTie(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	sessions := st.Sessions()

	// Identical last_seen on both rows; only the status differs. The ULID
	// of the offline row is created second, so an id-based pick would
	// wrongly choose it.
	online := idx.New().String()
	offline := idx.New().String()
	require.NoError(t, sessions.Create(ctx, domain.Session{
		ID: online, Username: "siti",
		StartedAt: now, LastSeen: now,
		Status: domain.SessionOnline,
	}))
	require.NoError(t, sessions.Create(ctx, domain.Session{
		ID: offline, Username: "siti",
		StartedAt: now, LastSeen: now,
		Status: domain.SessionOffline,
	}))

	rows, err := sessions.LatestPerUser(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, domain.SessionOnline, rows[0].Status)
	require.True(t, rows[0].LastSeen.Equal(now))
}

func TestArticlesOrderingAndLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	articles := st.Articles()

	ids := make([]string, 3)
	for i := range ids {
		ids[i] = idx.New().String()
		require.NoError(t, articles.Create(ctx, domain.Article{
			ID:        ids[i],
			Title:     "Berita",
			Content:   "Isi berita",
			Author:    "budi",
			Status:    domain.ArticlePublished,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := articles.ListPublished(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ids[2], got[0].ID, "newest first")
	require.Equal(t, ids[1], got[1].ID)

	mine, err := articles.ListByAuthor(ctx, "budi", 10)
	require.NoError(t, err)
	require.Len(t, mine, 3)

	none, err := articles.ListByAuthor(ctx, "siti", 10)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestArticlesSetPublishedScopedToAuthor(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	articles := st.Articles()
	id := idx.New().String()
	require.NoError(t, articles.Create(ctx, domain.Article{
		ID: id, Title: "Draf", Content: "Isi", Author: "budi",
		Status: domain.ArticleDraft, CreatedAt: now,
	}))

	ok, err := articles.SetPublished(ctx, id, "siti")
	require.NoError(t, err)
	require.False(t, ok, "another author's publish must not match the row")

	got, err := articles.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.ArticleDraft, got.Status)

	ok, err = articles.SetPublished(ctx, id, "budi")
	require.NoError(t, err)
	require.True(t, ok)

	got, err = articles.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.ArticlePublished, got.Status)
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testTime(t, "2026-08-28T10:00:00Z")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Credentials().Create(ctx, testCredential("budi", domain.RoleUser, now))
	})
	require.NoError(t, err)

	exists, err := st.Credentials().Exists(ctx, "budi")
	require.NoError(t, err)
	require.True(t, exists)

	wantErr := errors.New("boom")
	err = st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Credentials().Create(ctx, testCredential("siti", domain.RoleUser, now)); err != nil {
			return err
		}
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	exists, err = st.Credentials().Exists(ctx, "siti")
	require.NoError(t, err)
	require.False(t, exists, "an error inside the callback rolls everything back")
}
