package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/store"
	"github.com/wartahub/warta/pkg/cryptox"
	"github.com/wartahub/warta/pkg/slogx"
)

const (
	// MinUsernameLen and MinPasswordLen match the limits the desktop client
	// enforced. Usernames are compared exactly as typed, no normalization.
	MinUsernameLen = 3
	MinPasswordLen = 4
)

type AuthService struct {
	Store store.Store
}

// Register creates a new credential. An empty role defaults to "user".
//
// Returns ErrInvalid for inputs below the minimum lengths or an unknown
// role, ErrAlreadyExists when the username is taken, and
// ErrStorageUnavailable when existence cannot be determined. The existence
// check fails closed: a user is never registered over a row we could not see.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) error {
	if len(username) < MinUsernameLen || len(password) < MinPasswordLen {
		return ErrInvalid
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return ErrInvalid
	}

	taken, err := s.Store.Credentials().Exists(ctx, username)
	if err != nil {
		return storageErr(err)
	}
	if taken {
		return ErrAlreadyExists
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return storageErr(err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := s.Store.Credentials().Create(ctx, domain.Credential{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAlreadyExists
		}
		return storageErr(err)
	}

	return nil
}

// Login verifies a username/password pair and returns the stored credential.
//
// Unknown usernames and wrong passwords both come back as
// ErrInvalidCredentials so callers cannot probe which usernames exist.
// Legacy sha256 rows verify against the old digest and are transparently
// upgraded to Argon2id; an upgrade failure does not fail the login.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Credential, error) {
	l := slogx.FromContext(ctx)

	cred, err := s.Store.Credentials().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credential{}, ErrInvalidCredentials
		}
		return domain.Credential{}, storageErr(err)
	}

	if cryptox.LooksLegacyDigest(cred.PasswordHash) {
		if err := cryptox.VerifyLegacyDigest(password, cred.PasswordHash); err != nil {
			return domain.Credential{}, ErrInvalidCredentials
		}

		// Upgrade the stored hash now that we hold the plaintext.
		if newHash, err := cryptox.HashPassword(password); err == nil {
			if err := s.Store.Credentials().UpdatePasswordHash(ctx, username, newHash); err != nil {
				l.Warn("legacy hash upgrade failed", slog.String("username", username), "err", err)
			} else {
				cred.PasswordHash = newHash
				l.Info("legacy hash upgraded", slog.String("username", username))
			}
		}

		return cred, nil
	}

	if err := cryptox.VerifyPassword(password, cred.PasswordHash); err != nil {
		return domain.Credential{}, ErrInvalidCredentials
	}

	return cred, nil
}

// ResetCredential inserts or overwrites a credential. This is the admin
// maintenance path (also used to seed the bootstrap admin account); unlike
// Register it replaces existing rows.
func (s *AuthService) ResetCredential(ctx context.Context, username, password string, role domain.Role) error {
	if len(username) < MinUsernameLen || len(password) < MinPasswordLen {
		return ErrInvalid
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return ErrInvalid
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return storageErr(err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := s.Store.Credentials().Upsert(ctx, domain.Credential{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return storageErr(err)
	}

	return nil
}
