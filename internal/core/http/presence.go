package http

import (
	"net/http"

	"github.com/wartahub/warta/internal/core/service"
	"github.com/wartahub/warta/pkg/httpx"
	"github.com/wartahub/warta/pkg/slogx"
	"github.com/wartahub/warta/pkg/wartasdk"
)

type PresenceHandler struct {
	PresenceService *service.PresenceService
}

// ServeHTTP returns one row per username that ever held a session, with the
// online flag derived at request time. Scope gating (presence:read) happens
// in the middleware chain.
func (h *PresenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	views, err := h.PresenceService.Snapshot(ctx)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	users := make([]wartasdk.PresenceEntry, 0, len(views))
	for _, v := range views {
		users = append(users, wartasdk.PresenceEntry{
			Username: v.Username,
			Role:     v.Role.String(),
			IsOnline: v.IsOnline,
			LastSeen: v.LastSeen,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, wartasdk.PresenceResponse{Users: users})
}
