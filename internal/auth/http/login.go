package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arcwall/arcwall/internal/auth/domain"
	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken      string     `json:"access_token"`
	RefreshToken     string     `json:"refresh_token,omitempty"`
	TokenType        string     `json:"token_type"`
	ExpiresIn        int        `json:"expires_in"`
	RefreshExpiresIn int        `json:"refresh_expires_in,omitempty"`
	User             *loginUser `json:"user,omitempty"`
}

type loginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ServeHTTP godoc
//
//	@Summary		Log in with credentials
//	@Description	Verifies a username and password and issues a fresh access token plus a refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	tokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	APIError		"error, error_description"
//	@Failure		401		{object}	APIError		"error, error_description"
//	@Failure		403		{object}	APIError		"error, error_description"
//	@Failure		500		{object}	APIError		"error, error_description"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrInvalidJSONBody.WriteError(w)
		return
	}

	pair, u, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			ErrInvalidCredentials.WriteError(w)
		case errors.Is(err, service.ErrAccountDisabled):
			ErrAccountDisabled.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair, &u))
}

func newTokenResponse(pair *domain.TokenPair, u *domain.User) tokenResponse {
	resp := tokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        pair.TokenType,
		ExpiresIn:        int(pair.AccessExpiresIn.Seconds()),
		RefreshExpiresIn: int(pair.RefreshExpiresIn.Seconds()),
	}
	if u != nil {
		resp.User = &loginUser{ID: u.ID, Username: u.Username}
	}
	return resp
}
