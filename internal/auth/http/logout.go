package http

import (
	"net/http"

	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

// LogoutHandler serves DELETE /v1/auth/logout. It revokes whichever token
// is presented as the bearer credential, access or refresh; client
// libraries call it once per token.
type LogoutHandler struct {
	TokenService *service.TokenService
}

type logoutResponse struct {
	Message string `json:"message"`
}

// ServeHTTP godoc
//
//	@Summary		Revoke a token
//	@Description	Adds the presented token to the blocklist. Revoking an already revoked token succeeds.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	logoutResponse	"message"
//	@Failure		401	{object}	APIError		"error, error_description"
//	@Failure		500	{object}	APIError		"error, error_description"
//	@Router			/v1/auth/logout [delete].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	raw := httpx.BearerToken(r)
	if raw == "" {
		ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.TokenService.Revoke(ctx, raw); err != nil {
		if isTokenError(err) {
			log.Warn("logout rejected", "err", err)
			ErrInvalidToken.WriteError(w)
			return
		}
		log.Error("logout failed", "err", err)
		ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, logoutResponse{Message: "token revoked"})
}
