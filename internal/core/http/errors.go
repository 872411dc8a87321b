package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wartahub/warta/internal/core/service"
	"github.com/wartahub/warta/pkg/wartasdk"
)

// writeServiceError maps service-layer sentinels onto wire errors. Anything
// unrecognized is logged and reported as a plain server_error so internals
// never leak to clients.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalid):
		wartasdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		wartasdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrAlreadyExists):
		wartasdk.ErrAlreadyExists.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		wartasdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		wartasdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrStorageUnavailable):
		log.Warn("storage unavailable", "err", err)
		wartasdk.ErrStorageUnavailable.WriteError(w)
	default:
		log.Error("unhandled service error", "err", err)
		wartasdk.ErrServerError.WriteError(w)
	}
}
