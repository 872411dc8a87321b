package sqlite

import (
	"context"
	"time"

	"github.com/wartahub/warta/internal/core/domain"
)

type credentialsRepo struct {
	q querier
}

func (r *credentialsRepo) Exists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE username = ?`, username,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *credentialsRepo) GetByUsername(ctx context.Context, username string) (domain.Credential, error) {
	var c domain.Credential
	var role string
	err := r.q.QueryRowContext(ctx,
		`SELECT username, password_hash, role, created_at, updated_at
		 FROM users WHERE username = ?`, username,
	).Scan(&c.Username, &c.PasswordHash, &role, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	c.Role = domain.Role(role)
	return c, nil
}

func (r *credentialsRepo) Create(ctx context.Context, c domain.Credential) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (username) DO NOTHING`,
		c.Username, c.PasswordHash, string(c.Role), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *credentialsRepo) Upsert(ctx context.Context, c domain.Credential) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (username) DO UPDATE SET
		   password_hash = excluded.password_hash,
		   role          = excluded.role,
		   updated_at    = excluded.updated_at`,
		c.Username, c.PasswordHash, string(c.Role), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *credentialsRepo) UpdatePasswordHash(ctx context.Context, username, newHash string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE username = ?`,
		newHash, time.Now().UTC().Truncate(time.Second), username,
	)
	return err
}

func (r *credentialsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
