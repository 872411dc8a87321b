package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/service"
)

func TestCreateDraft(t *testing.T) {
	st := newTestStore(t)
	svc := &service.PublishingService{Store: st}
	ctx := context.Background()

	art, err := svc.Create(ctx, "siti", "Judul", "Isi berita", false)
	require.NoError(t, err)
	require.NotEmpty(t, art.ID)
	require.Equal(t, domain.ArticleDraft, art.Status)
	require.Equal(t, "siti", art.Author)

	t.Run("empty title", func(t *testing.T) {
		_, err := svc.Create(ctx, "siti", "", "Isi", false)
		require.ErrorIs(t, err, service.ErrInvalid)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := svc.Create(ctx, "siti", "Judul", "", false)
		require.ErrorIs(t, err, service.ErrInvalid)
	})
}

func TestCreatePublishedImmediately(t *testing.T) {
	st := newTestStore(t)
	svc := &service.PublishingService{Store: st}
	ctx := context.Background()

	art, err := svc.Create(ctx, "siti", "Judul", "Isi berita", true)
	require.NoError(t, err)
	require.Equal(t, domain.ArticlePublished, art.Status)

	// No separate publish call needed; it's already in the public feed
	pub, err := svc.ListPublished(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pub, 1)
	require.Equal(t, art.ID, pub[0].ID)
}

func TestPublishFlow(t *testing.T) {
	st := newTestStore(t)
	svc := &service.PublishingService{Store: st}
	ctx := context.Background()

	art, err := svc.Create(ctx, "siti", "Judul", "Isi", false)
	require.NoError(t, err)

	// Draft is visible to the author but not in the public feed
	mine, err := svc.ListMine(ctx, "siti", 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	pub, err := svc.ListPublished(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, pub)

	require.NoError(t, svc.Publish(ctx, art.ID, "siti"))

	pub, err = svc.ListPublished(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pub, 1)
	require.Equal(t, art.ID, pub[0].ID)
	require.Equal(t, domain.ArticlePublished, pub[0].Status)

	// Publishing again is a no-op, not an error
	require.NoError(t, svc.Publish(ctx, art.ID, "siti"))
}

func TestPublishNotFound(t *testing.T) {
	st := newTestStore(t)
	svc := &service.PublishingService{Store: st}
	ctx := context.Background()

	art, err := svc.Create(ctx, "siti", "Judul", "Isi", false)
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		err := svc.Publish(ctx, "01K0000000000000000000000", "siti")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("someone else's article looks missing", func(t *testing.T) {
		err := svc.Publish(ctx, art.ID, "budi")
		require.ErrorIs(t, err, service.ErrNotFound)

		// And it stayed a draft
		got, err := st.Articles().Get(ctx, art.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ArticleDraft, got.Status)
	})
}

func TestListOrderingAndLimit(t *testing.T) {
	st := newTestStore(t)
	svc := &service.PublishingService{Store: st}
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"satu", "dua", "tiga"} {
		art, err := svc.Create(ctx, "siti", title, "isi "+title, false)
		require.NoError(t, err)
		require.NoError(t, svc.Publish(ctx, art.ID, "siti"))
		ids = append(ids, art.ID)
	}

	// Same created_at second is likely here; ULIDs break the tie newest-first
	pub, err := svc.ListPublished(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pub, 3)
	require.Equal(t, ids[2], pub[0].ID)
	require.Equal(t, ids[0], pub[2].ID)

	limited, err := svc.ListPublished(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)

	mine, err := svc.ListMine(ctx, "siti", 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, ids[2], mine[0].ID)
}

func TestListMineIsScopedToAuthor(t *testing.T) {
	st := newTestStore(t)
	svc := &service.PublishingService{Store: st}
	ctx := context.Background()

	_, err := svc.Create(ctx, "siti", "Judul", "Isi", false)
	require.NoError(t, err)

	other, err := svc.ListMine(ctx, "budi", 0)
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestPublishingStorageUnavailable(t *testing.T) {
	st := newTestStore(t)
	svc := &service.PublishingService{Store: st}
	ctx := context.Background()

	require.NoError(t, st.Close())

	_, err := svc.Create(ctx, "siti", "Judul", "Isi", false)
	require.ErrorIs(t, err, service.ErrStorageUnavailable)

	err = svc.Publish(ctx, "some-id", "siti")
	require.ErrorIs(t, err, service.ErrStorageUnavailable)

	_, err = svc.ListPublished(ctx, 0)
	require.ErrorIs(t, err, service.ErrStorageUnavailable)
}
