package http

import (
	"net/http"

	"github.com/arcwall/arcwall/pkg/httpx"
	"github.com/arcwall/arcwall/pkg/jwtx"
)

// JWKSHandler exposes the public signing key for token verification by
// other services. Only mounted when signing with an asymmetric key;
// HMAC deployments have nothing safe to publish.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(codec *jwtx.EdDSACodec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, jwtx.JWKS{Keys: []jwtx.JWK{codec.PublicJWK()}})
	}
}
