package http

import (
	"net/http"

	"github.com/wartahub/warta/internal/core/service"
	"github.com/wartahub/warta/pkg/httpx"
	"github.com/wartahub/warta/pkg/slogx"
	"github.com/wartahub/warta/pkg/wartasdk"
)

type SessionsHandler struct {
	PresenceService *service.PresenceService
}

// ownsSession checks the token's sid claim against the session addressed in
// the path. A valid token for session A gets a 403, not a 404, when poking
// session B: the sessions are not secret, just not yours.
func ownsSession(r *http.Request, id string) bool {
	sid, _ := r.Context().Value(httpx.CtxKeySessionID).(string)
	return sid != "" && sid == id
}

// HandleHeartbeat advances last_seen for the caller's session. Alive=false
// (still 200) tells the client the session no longer exists server-side.
func (h *SessionsHandler) HandleHeartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")
	if !ownsSession(r, id) {
		wartasdk.ErrForbidden.WithDescription("token was not issued for this session").WriteError(w)
		return
	}

	alive, err := h.PresenceService.Heartbeat(ctx, id)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, wartasdk.HeartbeatResponse{Alive: alive})
}

// HandleEnd marks the caller's session offline. Idempotent; repeated calls
// and calls for sessions that already ended all return 204.
func (h *SessionsHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")
	if !ownsSession(r, id) {
		wartasdk.ErrForbidden.WithDescription("token was not issued for this session").WriteError(w)
		return
	}

	if err := h.PresenceService.EndSession(ctx, id); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
