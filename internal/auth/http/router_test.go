package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arcwall/arcwall/internal/auth/service"
	"github.com/arcwall/arcwall/internal/auth/store/drivers/sqlite"
	"github.com/arcwall/arcwall/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewHS256([]byte("test-secret-test-secret-test-sec"), "arcwall-test")
	require.NoError(t, err)

	tokens := &service.TokenService{
		Codec:      codec,
		Store:      st,
		Issuer:     "arcwall-test",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	auth := &service.AuthService{Store: st, Tokens: tokens}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter("test", st, logger)
	router.AuthService = auth
	router.TokenService = tokens
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func doBearer(t *testing.T, srv *httptest.Server, method, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

type creds struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	t.Run("creates account", func(t *testing.T) {
		resp := postJSON(t, srv, "/v1/auth/register", creds{"alice", "hunter22"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)
		require.Equal(t, "alice", body["username"])
		require.NotEmpty(t, body["id"])
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		resp := postJSON(t, srv, "/v1/auth/register", creds{"alice", "hunter22"})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, "username_taken", decodeBody(t, resp)["error"])
	})

	t.Run("short password is rejected", func(t *testing.T) {
		resp := postJSON(t, srv, "/v1/auth/register", creds{"bob", "tiny"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "validation_error", decodeBody(t, resp)["error"])
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/v1/auth/register", "application/json",
			bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/v1/auth/register", creds{"alice", "hunter22"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("valid credentials return a pair", func(t *testing.T) {
		resp := postJSON(t, srv, "/v1/auth/login", creds{"alice", "hunter22"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

		body := decodeBody(t, resp)
		require.NotEmpty(t, body["access_token"])
		require.NotEmpty(t, body["refresh_token"])
		require.Equal(t, "Bearer", body["token_type"])
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		resp := postJSON(t, srv, "/v1/auth/login", creds{"alice", "wrong-pw"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_credentials", decodeBody(t, resp)["error"])
	})

	t.Run("unknown user looks the same as wrong password", func(t *testing.T) {
		resp := postJSON(t, srv, "/v1/auth/login", creds{"nobody", "hunter22"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_credentials", decodeBody(t, resp)["error"])
	})
}

// TestTokenLifecycle walks the full journey: login, use the access token,
// refresh, revoke the access token and confirm the refresh token outlives it.
func TestTokenLifecycle(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/v1/auth/register", creds{"carol", "hunter22"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	login := decodeBody(t, postJSON(t, srv, "/v1/auth/login", creds{"carol", "hunter22"}))
	access := login["access_token"].(string)
	refresh := login["refresh_token"].(string)

	t.Run("access token reaches protected endpoints and is fresh", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodGet, "/v1/me", access)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		require.Equal(t, "carol", body["username"])
		require.Equal(t, true, body["fresh"])
	})

	t.Run("refresh token is rejected where an access token is expected", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodGet, "/v1/me", refresh)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_token", decodeBody(t, resp)["error"])
	})

	var refreshedAccess string

	t.Run("refresh mints a non-fresh access token", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodPost, "/v1/auth/refresh", refresh)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		refreshedAccess = body["access_token"].(string)
		require.NotEmpty(t, refreshedAccess)

		me := decodeBody(t, doBearer(t, srv, http.MethodGet, "/v1/me", refreshedAccess))
		require.Equal(t, false, me["fresh"])
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodPost, "/v1/auth/refresh", access)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_token", decodeBody(t, resp)["error"])
	})

	t.Run("revoking the access token locks it out immediately", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodDelete, "/v1/auth/logout", access)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doBearer(t, srv, http.MethodGet, "/v1/me", access)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_token", decodeBody(t, resp)["error"])
	})

	t.Run("the refresh token survives the access token's revocation", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodPost, "/v1/auth/refresh", refresh)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("revocation is idempotent", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodDelete, "/v1/auth/logout", access)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("revoking the refresh token ends the session", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodDelete, "/v1/auth/logout", refresh)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doBearer(t, srv, http.MethodPost, "/v1/auth/refresh", refresh)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("earlier refreshed access token keeps working until revoked", func(t *testing.T) {
		resp := doBearer(t, srv, http.MethodGet, "/v1/me", refreshedAccess)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestProtectedEndpointWithoutToken(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := doBearer(t, srv, http.MethodGet, "/v1/me", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid_token", decodeBody(t, resp)["error"])
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/livez")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decodeBody(t, resp)["status"])

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestJWKSOnlyInEdDSAMode(t *testing.T) {
	t.Parallel()

	t.Run("absent for HMAC signing", func(t *testing.T) {
		srv := newTestServer(t)
		resp, err := http.Get(srv.URL + "/.well-known/jwks.json")
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}
