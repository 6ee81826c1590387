package http

import (
	"context"
	"net/http"

	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/jwtx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

type ctxKey int

const (
	ctxKeyClaims ctxKey = iota
	ctxKeyUserID
)

// AuthnMiddleware verifies the bearer access token on the request,
// blocklist check included, and injects the claims into the context.
// Any failure becomes the uniform invalid_token response; the concrete
// reason is only logged.
func AuthnMiddleware(tokens *service.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := httpx.BearerToken(r)
			if raw == "" {
				ErrInvalidToken.WriteError(w)
				return
			}

			claims, err := tokens.Verify(ctx, raw, jwtx.KindAccess)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				ErrInvalidToken.WriteError(w)
				return
			}

			ctx = context.WithValue(ctx, ctxKeyClaims, claims)
			ctx = context.WithValue(ctx, ctxKeyUserID, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified access token claims injected by
// AuthnMiddleware.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}

// UserIDFromContext returns the authenticated subject injected by
// AuthnMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(string)
	return id, ok && id != ""
}
