package http

import (
	"net/http"

	"github.com/wartahub/warta/pkg/httpx"
	"github.com/wartahub/warta/pkg/jwtx"
	"github.com/wartahub/warta/pkg/wartasdk"
)

// JWKSHandler exposes the JSON Web Key Set so other services can verify our
// access tokens without sharing the private key.
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, wartasdk.JWKSResponse(keys.PublicJWKS()))
	}
}
