package http

import (
	"errors"
	"net/http"

	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/jwtx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh. The refresh token travels
// as a bearer credential, the same way the access token does elsewhere.
type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Refresh an access token
//	@Description	Exchanges a valid refresh token for a new, non-fresh access token. The refresh token is not rotated.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	tokenResponse	"access_token, token_type, expires_in"
//	@Failure		401	{object}	APIError		"error, error_description"
//	@Failure		500	{object}	APIError		"error, error_description"
//	@Header			200	{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	raw := httpx.BearerToken(r)
	if raw == "" {
		ErrInvalidToken.WriteError(w)
		return
	}

	access, err := h.TokenService.Refresh(ctx, raw)
	if err != nil {
		if isTokenError(err) {
			log.Warn("refresh rejected", "err", err)
			ErrInvalidToken.WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.TokenService.AccessTTL.Seconds()),
	})
}

// isTokenError reports whether err is one of the expected verification
// failures, as opposed to an infrastructure fault.
func isTokenError(err error) bool {
	return errors.Is(err, jwtx.ErrMalformed) ||
		errors.Is(err, jwtx.ErrInvalidSig) ||
		errors.Is(err, jwtx.ErrExpired) ||
		errors.Is(err, jwtx.ErrNotYetValid) ||
		errors.Is(err, jwtx.ErrInvalidClaim) ||
		errors.Is(err, service.ErrWrongKind) ||
		errors.Is(err, service.ErrRevoked) ||
		errors.Is(err, service.ErrInvalidRefresh)
}
