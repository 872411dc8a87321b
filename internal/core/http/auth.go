package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/service"
	"github.com/wartahub/warta/pkg/httpx"
	"github.com/wartahub/warta/pkg/slogx"
	"github.com/wartahub/warta/pkg/wartasdk"
)

type RegisterHandler struct {
	AuthService *service.AuthService
	Validate    *validator.Validate
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req wartasdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wartasdk.ErrInvalidRequest.WithDescription("body must be valid JSON").WriteError(w)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		wartasdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	if err := h.AuthService.Register(ctx, req.Username, req.Password, domain.Role(req.Role)); err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("account registered", "username", req.Username, "role", req.Role)
	w.WriteHeader(http.StatusCreated)
}

type LoginHandler struct {
	AuthService     *service.AuthService
	PresenceService *service.PresenceService
	TokenService    *service.TokenService
	Validate        *validator.Validate
}

// ServeHTTP authenticates, opens a presence session, and mints the access
// token. The session is part of the login contract: if it cannot be
// recorded, the login fails rather than returning a token for a user who
// would look permanently offline.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req wartasdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wartasdk.ErrInvalidRequest.WithDescription("body must be valid JSON").WriteError(w)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		wartasdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	cred, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	sess, err := h.PresenceService.StartSession(ctx, cred.Username)
	if err != nil {
		log.Error("login aborted: session could not be recorded", "username", cred.Username, "err", err)
		writeServiceError(w, log, err)
		return
	}

	token, err := h.TokenService.MintAccessToken(cred, sess.ID)
	if err != nil {
		log.Error("token mint failed", "username", cred.Username, "err", err)
		wartasdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("login ok", "username", cred.Username, "session_id", sess.ID)
	httpx.WriteJSON(w, http.StatusOK, wartasdk.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.TokenService.AccessTTL.Seconds()),
		SessionID:   sess.ID,
		Username:    cred.Username,
		Role:        cred.Role.String(),
	})
}
