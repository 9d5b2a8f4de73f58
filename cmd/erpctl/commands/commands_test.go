package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
	"github.com/OolalaDXB/outrenational/pkg/jwtx"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		var req erpsdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "Sup3r-Secret!" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(erpsdk.ErrorResponse{Error: erpsdk.ErrorCodeInvalidCredentials})
			return
		}
		_ = json.NewEncoder(w).Encode(erpsdk.TokenResponse{
			AccessToken: "at-1", RefreshToken: "rt-1", TokenType: "Bearer", ExpiresIn: 900, Scope: "catalog:write catalog:read",
		})
	})
	mux.HandleFunc("POST /v1/products/import", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.Contains(t, string(body), "LP-1")
		_ = json.NewEncoder(w).Encode(erpsdk.ImportReport{
			Created: 1,
			Errors:  []erpsdk.ImportError{{Line: 3, Message: "sku is required"}},
		})
	})
	mux.HandleFunc("POST /v1/purchase-orders/{id}/transition", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(erpsdk.ErrorResponse{Error: erpsdk.ErrorCodeInvalidTransition, ErrorDescription: "draft -> received"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(erpsdk.HealthResponse{
			Status: "ok", Version: "v1", Uptime: "1s",
			Checks: &erpsdk.HealthChecks{Database: "ok", Signer: "ok"},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginThenImport(t *testing.T) {
	t.Setenv("ERP_SERVER", "")
	srv := fakeAPI(t)
	dir := t.TempDir()

	_, err := run(t, "", "--home", dir, "-s", srv.URL, "login", "--tenant", "outre", "--email", "a@b.c", "--password", "nope")
	require.Error(t, err)

	out, err := run(t, "Sup3r-Secret!\n", "--home", dir, "-s", srv.URL, "login", "--tenant", "outre", "--email", "a@b.c")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in to outre")

	raw, err := os.ReadFile(filepath.Join(dir, sessionFile))
	require.NoError(t, err)
	var saved savedSession
	require.NoError(t, json.Unmarshal(raw, &saved))
	require.Equal(t, "rt-1", saved.RefreshToken)
	require.Equal(t, "catalog:read catalog:write", saved.Scope)
	require.Equal(t, srv.URL, saved.Server)

	csv := "sku,title\nLP-1,Blue Train\n,Missing\n"
	// No --server: the one saved at login is used.
	out, err = run(t, csv, "--home", dir, "products", "import", "-")
	require.Error(t, err)
	require.Contains(t, out, "created 1, updated 0, rejected 1")
	require.Contains(t, out, "line 3: sku is required")
}

func TestCommandsNeedASession(t *testing.T) {
	_, err := run(t, "", "--home", t.TempDir(), "-s", "http://127.0.0.1:1", "products", "export")
	require.ErrorContains(t, err, "not logged in")
}

func TestTransitionRefused(t *testing.T) {
	t.Setenv("ERP_SERVER", "")
	srv := fakeAPI(t)
	dir := t.TempDir()

	_, err := run(t, "", "--home", dir, "-s", srv.URL, "login", "--tenant", "outre", "--email", "a@b.c", "--password", "Sup3r-Secret!")
	require.NoError(t, err)

	_, err = run(t, "", "--home", dir, "po", "transition", "01J", "received")
	require.EqualError(t, err, "refused: draft -> received")
}

func TestHealth(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "", "-s", srv.URL, "health")
	require.NoError(t, err)
	require.Contains(t, out, "status:  ok")
	require.Contains(t, out, "database: ok")
	require.NotContains(t, out, "cache:")
}

func TestKeygen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.pem")

	_, err := run(t, "", "keygen", path)
	require.NoError(t, err)

	pemBytes, err := os.ReadFile(path)
	require.NoError(t, err)
	km, err := jwtx.NewKeyManagerFromPEM(jwtx.KeyManagerOptions{Issuer: "test"}, pemBytes)
	require.NoError(t, err)
	require.Equal(t, 1, km.NumSigners())

	_, err = run(t, "", "keygen", path)
	require.ErrorContains(t, err, "--force")

	_, err = run(t, "", "keygen", "--force", path)
	require.NoError(t, err)
}
