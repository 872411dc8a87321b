package jwtx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wartahub/warta/pkg/jwtx"
)

func newTestSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()

	pemKey, err := jwtx.GenerateEdDSAKeyPEM()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	return signer
}

func TestEdDSASignVerifyRoundTrip(t *testing.T) {
	signer := newTestSigner(t, "key-1")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := jwtx.NewAccessClaims(
		"siti", "01JABCDEF",
		[]string{"articles:read", "articles:write"},
		"penerbit",
		15*time.Minute,
		"warta-core",
		nil,
		time.Now().UTC(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier := jwtx.NewCommonEdDSA(keys, "warta-core", nil)
	got, err := verifier.Verify(token)
	require.NoError(t, err)

	require.Equal(t, "siti", got.Subject)
	require.Equal(t, "siti", got.Username)
	require.Equal(t, "01JABCDEF", got.SID)
	require.Equal(t, "penerbit", got.Role)
	require.True(t, got.HasScope("articles:write"))
	require.False(t, got.HasScope("presence:read"))
}

func TestEdDSAVerifyRejectsExpired(t *testing.T) {
	signer := newTestSigner(t, "key-1")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	// Issued an hour ago with a 15m TTL
	claims := jwtx.NewAccessClaims(
		"siti", "sid",
		[]string{"articles:read"},
		"user",
		15*time.Minute,
		"warta-core",
		nil,
		time.Now().UTC().Add(-time.Hour),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := jwtx.NewCommonEdDSA(keys, "warta-core", nil)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestEdDSAVerifyRejectsWrongIssuer(t *testing.T) {
	signer := newTestSigner(t, "key-1")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := jwtx.NewAccessClaims(
		"siti", "sid",
		nil, "user",
		15*time.Minute,
		"someone-else",
		nil,
		time.Now().UTC(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := jwtx.NewCommonEdDSA(keys, "warta-core", nil)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestEdDSAVerifyRejectsUnknownKID(t *testing.T) {
	signer := newTestSigner(t, "key-unknown")

	// KeySet holds a different key
	other := newTestSigner(t, "key-1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(other))

	claims := jwtx.NewAccessClaims(
		"siti", "sid",
		nil, "user",
		15*time.Minute,
		"warta-core",
		nil,
		time.Now().UTC(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := jwtx.NewCommonEdDSA(keys, "warta-core", nil)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)
}

func TestEdDSAVerifyRejectsTamperedToken(t *testing.T) {
	signer := newTestSigner(t, "key-1")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := jwtx.NewAccessClaims(
		"siti", "sid",
		nil, "user",
		15*time.Minute,
		"warta-core",
		nil,
		time.Now().UTC(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"

	verifier := jwtx.NewCommonEdDSA(keys, "warta-core", nil)
	_, err = verifier.Verify(tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestEdDSAVerifyRejectsMalformedToken(t *testing.T) {
	signer := newTestSigner(t, "key-1")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	verifier := jwtx.NewCommonEdDSA(keys, "warta-core", nil)
	_, err := verifier.Verify("bukan.token.jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestNewJTIUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		jti := jwtx.NewJTI()
		require.NotEmpty(t, jti)
		_, dup := seen[jti]
		require.False(t, dup, "duplicate jti %q", jti)
		seen[jti] = struct{}{}
	}
}
