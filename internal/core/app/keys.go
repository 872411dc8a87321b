package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wartahub/warta/pkg/idx"
	"github.com/wartahub/warta/pkg/jwtx"
)

// initSigningKeys builds the EdDSA signer and the verification KeySet.
//
// With SigningKeyFile set, the PKCS8 PEM key is loaded from disk and tokens
// survive restarts. Without it an ephemeral key is generated, which
// invalidates every outstanding token on restart; fine for dev, noisy for
// anything else, hence the warning.
func initSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, jwtx.Verifier, error) {
	var pemKey []byte
	var err error

	if cfg.SigningKeyFile != "" {
		pemKey, err = os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read signing key: %w", err)
		}
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		pemKey, err = jwtx.GenerateEdDSAKeyPEM()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		logger.Warn("ephemeral signing key generated, all existing tokens are now invalid")
	}

	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	verifier := jwtx.NewCommonEdDSA(keys, cfg.Issuer, nil)
	return signer, keys, verifier, nil
}
