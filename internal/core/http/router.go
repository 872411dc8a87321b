package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wartahub/warta/internal/core/service"
	"github.com/wartahub/warta/internal/core/store"
	"github.com/wartahub/warta/pkg/httpx"
	"github.com/wartahub/warta/pkg/jwtx"
	"github.com/wartahub/warta/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	validate     *validator.Validate

	store             store.Store
	AuthService       *service.AuthService
	PresenceService   *service.PresenceService
	PublishingService *service.PublishingService
	TokenService      *service.TokenService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSessions()
	r.registerPresence()
	r.registerArticles()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	registerHandler := &RegisterHandler{AuthService: r.AuthService, Validate: r.validate}
	loginHandler := &LoginHandler{
		AuthService:     r.AuthService,
		PresenceService: r.PresenceService,
		TokenService:    r.TokenService,
		Validate:        r.validate,
	}

	// Credential endpoints get the strict limit: registration and login are
	// the brute-force surface.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{PresenceService: r.PresenceService}

	// Heartbeats arrive every ~20s per device, so the lenient limit
	securedHeartbeat := httpx.Chain(http.HandlerFunc(h.HandleHeartbeat),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedEnd := httpx.Chain(http.HandlerFunc(h.HandleEnd),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/sessions/{id}/heartbeat", securedHeartbeat)
	r.Mux.Handle("DELETE /v1/sessions/{id}", securedEnd)
}

func (r *Router) registerPresence() {
	h := &PresenceHandler{PresenceService: r.PresenceService}

	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("presence:read"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/presence", secured)
}

func (r *Router) registerArticles() {
	h := &ArticlesHandler{PublishingService: r.PublishingService, Validate: r.validate}

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("articles:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedPublish := httpx.Chain(http.HandlerFunc(h.HandlePublish),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("articles:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedMine := httpx.Chain(http.HandlerFunc(h.HandleMine),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("articles:read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/articles", securedCreate)
	r.Mux.Handle("POST /v1/articles/{id}/publish", securedPublish)
	r.Mux.Handle("GET /v1/articles/mine", securedMine)

	// The public feed needs no token
	r.Mux.Handle("GET /v1/articles/published",
		httpx.Chain(http.HandlerFunc(h.HandlePublished),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
