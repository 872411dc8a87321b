package service

import (
	"time"

	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/pkg/jwtx"
)

type TokenService struct {
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// MintAccessToken issues a signed access token for the credential and the
// presence session opened for this login. Scopes come straight from the
// role, so a token never grants more than the role allows at mint time.
func (s *TokenService) MintAccessToken(cred domain.Credential, sessionID string) (string, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		cred.Username,
		sessionID,
		cred.Role.Scopes(),
		cred.Role.String(),
		ttl,
		s.Issuer,
		nil,
		time.Now().UTC(),
	)

	return s.Signer.Sign(claims)
}
