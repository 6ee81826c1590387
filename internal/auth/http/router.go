package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/internal/auth/store"
	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/jwtx"
	"github.com/arcwall/arcwall/pkg/slogx"

	_ "github.com/arcwall/arcwall/api/authd" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	AuthService  *service.AuthService
	TokenService *service.TokenService

	// Only set when signing with Ed25519; enables the JWKS endpoint.
	JWKSCodec *jwtx.EdDSACodec
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Arcwall Authentication Service API
//	@version		0.1.0
//	@description	Credential-based authentication service issuing JWT access and refresh token pairs,
//	@description	with server-side revocation through a token blocklist.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /v1/auth/register", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /v1/auth/login", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /v1/auth/refresh", &RefreshHandler{TokenService: r.TokenService})
	r.Mux.Handle("DELETE /v1/auth/logout", &LogoutHandler{TokenService: r.TokenService})
}

func (r *Router) registerUsers() {
	h := &UserInfoHandler{AuthService: r.AuthService}

	secured := httpx.Chain(h,
		AuthnMiddleware(r.TokenService),
	)

	r.Mux.Handle("GET /v1/me", secured)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.JWKSCodec != nil {
		r.Mux.Handle("GET /.well-known/jwks.json", JWKSHandler(r.JWKSCodec))
	}
}
