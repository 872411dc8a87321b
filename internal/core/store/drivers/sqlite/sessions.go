package sqlite

import (
	"context"
	"time"

	"github.com/wartahub/warta/internal/core/domain"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, username, started_at, last_seen, status)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Username, s.StartedAt, s.LastSeen, string(s.Status),
	)
	return err
}

func (r *sessionsRepo) Get(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	var status string
	err := r.q.QueryRowContext(ctx,
		`SELECT id, username, started_at, last_seen, status
		 FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Username, &s.StartedAt, &s.LastSeen, &status)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Status = domain.SessionStatus(status)
	return s, nil
}

func (r *sessionsRepo) Touch(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET last_seen = ? WHERE id = ?`, at, id,
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

func (r *sessionsRepo) End(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET status = ?, last_seen = ? WHERE id = ?`,
		string(domain.SessionOffline), at, id,
	)
	return err
}

// LatestPerUser picks the session row with the greatest last_seen per
// username. Timestamps truncate to whole seconds, so exact last_seen ties
// between a user's sessions are common; an online row wins the tie so that
// ending one of two live sessions never hides the surviving one. The LEFT
// JOIN keeps usernames whose credential row is missing, defaulting their
// role to 'user' like the original schema did.
func (r *sessionsRepo) LatestPerUser(ctx context.Context) ([]domain.PresenceRow, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT username, role, status, last_seen FROM (
		     SELECT s.username,
		            COALESCE(u.role, 'user') AS role,
		            s.status,
		            s.last_seen,
		            ROW_NUMBER() OVER (
		                PARTITION BY s.username
		                ORDER BY s.last_seen DESC,
		                         (s.status = 'online') DESC,
		                         s.id DESC
		            ) AS rn
		     FROM sessions s
		     LEFT JOIN users u ON u.username = s.username
		 )
		 WHERE rn = 1
		 ORDER BY username`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PresenceRow
	for rows.Next() {
		var p domain.PresenceRow
		var role, status string
		if err := rows.Scan(&p.Username, &role, &status, &p.LastSeen); err != nil {
			return nil, err
		}
		p.Role = domain.Role(role)
		p.Status = domain.SessionStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}
