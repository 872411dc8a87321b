package service

import (
	"context"
	"time"

	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/store"
	"github.com/wartahub/warta/pkg/idx"
)

// DefaultListLimit caps article listings when the caller does not pass a
// limit of their own.
const DefaultListLimit = 50

type PublishingService struct {
	Store store.Store
}

// Create stores a new article owned by author, as a draft or, with publish
// set, directly published. Title and content must be non-empty; the role
// gate (only publishers and not plain users may write) is enforced by the
// HTTP layer via token scopes before this runs.
func (s *PublishingService) Create(ctx context.Context, author, title, content string, publish bool) (domain.Article, error) {
	if title == "" || content == "" {
		return domain.Article{}, ErrInvalid
	}

	status := domain.ArticleDraft
	if publish {
		status = domain.ArticlePublished
	}

	art := domain.Article{
		ID:        idx.New().String(),
		Title:     title,
		Content:   content,
		Author:    author,
		Status:    status,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := s.Store.Articles().Create(ctx, art); err != nil {
		return domain.Article{}, storageErr(err)
	}

	return art, nil
}

// Publish transitions the author's draft to published. Publishing an
// already-published article succeeds and is a no-op on the row. Returns
// ErrNotFound when the article does not exist or belongs to someone else;
// ownership is checked in the same statement so other authors' articles are
// indistinguishable from missing ones.
func (s *PublishingService) Publish(ctx context.Context, id, author string) error {
	ok, err := s.Store.Articles().SetPublished(ctx, id, author)
	if err != nil {
		return storageErr(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListMine returns the author's own articles, drafts included, newest first.
func (s *PublishingService) ListMine(ctx context.Context, author string, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	arts, err := s.Store.Articles().ListByAuthor(ctx, author, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return arts, nil
}

// ListPublished returns published articles from all authors, newest first.
func (s *PublishingService) ListPublished(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	arts, err := s.Store.Articles().ListPublished(ctx, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return arts, nil
}
