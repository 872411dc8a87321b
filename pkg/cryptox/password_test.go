package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func usePepper(t *testing.T) {
	t.Helper()
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
}

func TestHashAndVerifyPassword(t *testing.T) {
	usePepper(t)

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	require.Error(t, VerifyPassword("wrong password", hash))
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	usePepper(t)

	h1, err := HashPassword("same input")
	require.NoError(t, err)
	h2, err := HashPassword("same input")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	usePepper(t)

	require.Error(t, VerifyPassword("pw", "not-a-phc-string"))
	require.Error(t, VerifyPassword("pw", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"))
}

func TestLegacyDigest(t *testing.T) {
	digest := LegacyDigest("pass1")
	require.Len(t, digest, 64)
	require.True(t, LooksLegacyDigest(digest))
	require.False(t, LooksLegacyDigest("$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"))
	require.False(t, LooksLegacyDigest("zz"))

	require.NoError(t, VerifyLegacyDigest("pass1", digest))
	require.Error(t, VerifyLegacyDigest("pass2", digest))
}
