package erp_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
)

/*
 * Container setup and shared assertions for the ERP end-to-end tests.
 * The image is built once from cmd/erp/Dockerfile and every test gets a
 * fresh container with its own SQLite file.
 */

const (
	testImageName = "outrenational-erp-test:latest"

	tenantSlug    = "outre"
	ownerEmail    = "owner@outre.test"
	ownerPassword = "Sup3r-Secret!"
)

func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building ERP Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up ERP Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/erp/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// relaxedLimits lifts the credential rate limits so flows that log in a
// few times do not trip them.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupERPContainer starts the service and returns its base URL. extra is
// merged over the default environment.
func setupERPContainer(t *testing.T, extra map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"ERP_DATABASE_FILE": "/tmp/erp.db",
		"ERP_PEPPER_FILE":   "/tmp/pepper",
		"ERP_ISSUER":        "outrenational-e2e",
		"ERP_NUM_KEYS":      "1",
		"ENV":               "test",
		"LOG_LEVEL":         "info",
		"LOG_FORMAT":        "json",
		// No network egress from the container; point upstreams nowhere.
		"VIES_BASE_URL":    "http://127.0.0.1:1",
		"DISCOGS_BASE_URL": "http://127.0.0.1:1",
	}
	for k, v := range extra {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// signupAndLogin creates the test tenant and returns an owner session.
func signupAndLogin(t *testing.T, client *erpsdk.Client) *erpsdk.Session {
	t.Helper()

	res, err := client.Signup(t.Context(), erpsdk.SignupRequest{
		TenantName: "Outre Records",
		Slug:       tenantSlug,
		Country:    "FR",
		OwnerEmail: ownerEmail,
		OwnerName:  "Owner",
		Password:   ownerPassword,
	})
	require.NoError(t, err, "signup should succeed")
	require.NotEmpty(t, res.TenantID)
	require.NotEmpty(t, res.UserID)

	sess, err := client.Login(t.Context(), erpsdk.LoginRequest{
		Tenant:   tenantSlug,
		Email:    ownerEmail,
		Password: ownerPassword,
	})
	require.NoError(t, err, "login should succeed")
	require.NotEmpty(t, sess.AccessToken())

	return sess
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *erpsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertAPIError checks err is an *erpsdk.APIError with the given status and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *erpsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *erpsdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
	require.Equal(t, code, apiErr.Code)
}
