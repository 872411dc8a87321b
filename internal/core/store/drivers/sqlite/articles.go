package sqlite

import (
	"context"
	"database/sql"

	"github.com/wartahub/warta/internal/core/domain"
)

type articlesRepo struct {
	q querier
}

func (r *articlesRepo) Create(ctx context.Context, a domain.Article) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO articles (id, title, content, author, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Content, a.Author, string(a.Status), a.CreatedAt,
	)
	return err
}

func (r *articlesRepo) Get(ctx context.Context, id string) (domain.Article, error) {
	var a domain.Article
	var status string
	err := r.q.QueryRowContext(ctx,
		`SELECT id, title, content, author, status, created_at
		 FROM articles WHERE id = ?`, id,
	).Scan(&a.ID, &a.Title, &a.Content, &a.Author, &status, &a.CreatedAt)
	if err != nil {
		return domain.Article{}, mapNotFound(err)
	}
	a.Status = domain.ArticleStatus(status)
	return a, nil
}

func (r *articlesRepo) SetPublished(ctx context.Context, id, author string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE articles SET status = ? WHERE id = ? AND author = ?`,
		string(domain.ArticlePublished), id, author,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *articlesRepo) ListByAuthor(ctx context.Context, author string, limit int) ([]domain.Article, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, title, content, author, status, created_at
		 FROM articles
		 WHERE author = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		author, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]domain.Article, error) {
	var out []domain.Article
	for rows.Next() {
		var a domain.Article
		var status string
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Author, &status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = domain.ArticleStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *articlesRepo) ListPublished(ctx context.Context, limit int) ([]domain.Article, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, title, content, author, status, created_at
		 FROM articles
		 WHERE status = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		string(domain.ArticlePublished), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}
