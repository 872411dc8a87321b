package domain

import "time"

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
)

// Article is a news item owned by a publisher. The only modeled transition
// is draft -> published; articles are never unpublished or deleted.
type Article struct {
	ID        string // ULID
	Title     string
	Content   string
	Author    string // username of the publishing account
	Status    ArticleStatus
	CreatedAt time.Time
}
