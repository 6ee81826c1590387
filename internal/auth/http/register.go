package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register.
type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates a new user account with a username and password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest		true	"Credentials"
//	@Success		201		{object}	registerResponse	"id, username"
//	@Failure		400		{object}	APIError			"error, error_description"
//	@Failure		409		{object}	APIError			"error, error_description"
//	@Failure		500		{object}	APIError			"error, error_description"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrInvalidJSONBody.WriteError(w)
		return
	}

	u, err := h.AuthService.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			ErrValidation.WithDescription(err.Error()).WriteError(w)
		case errors.Is(err, service.ErrUsernameTaken):
			ErrUsernameTaken.WriteError(w)
		default:
			log.Error("registration failed", "err", err)
			ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:       u.ID,
		Username: u.Username,
	})
}
