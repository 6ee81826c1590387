package http

import (
	"net/http"

	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

// UserInfoHandler serves GET /v1/me behind AuthnMiddleware.
type UserInfoHandler struct {
	AuthService *service.AuthService
}

type userInfoResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Fresh    bool     `json:"fresh"`
}

// ServeHTTP godoc
//
//	@Summary		Get the authenticated user
//	@Description	Returns the profile behind the presented access token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	userInfoResponse	"id, username, roles, fresh"
//	@Failure		401	{object}	APIError			"error, error_description"
//	@Failure		500	{object}	APIError			"error, error_description"
//	@Router			/v1/me [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		ErrInvalidToken.WriteError(w)
		return
	}

	profile, err := h.AuthService.Profile(ctx, claims.Subject)
	if err != nil {
		log.Warn("failed to load profile", "user_id", claims.Subject, "err", err)
		ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfoResponse{
		ID:       profile.ID,
		Username: profile.Username,
		Roles:    profile.Roles,
		Fresh:    claims.Fresh,
	})
}
