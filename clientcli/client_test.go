package clientcli_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum"
	"github.com/sagarc03/stratum/clientcli"
	stratumhttp "github.com/sagarc03/stratum/http"
)

var testSchema = stratum.MustSchema(
	stratum.Scalar("host", stratum.String),
	stratum.Scalar("port", stratum.Uint16),
	stratum.Scalar("api_key", stratum.String, stratum.Secret()),
)

// newTestServer serves a real inspection handler over env, which tests may mutate
// between reloads.
func newTestServer(t *testing.T, token string, env stratum.MapEnv) *httptest.Server {
	t.Helper()

	resolver := stratum.NewResolver(testSchema, stratum.WithEnvPrefix("APP"))
	handle, err := stratum.NewHandle(context.Background(), resolver, func() stratum.Sources {
		return stratum.Sources{Env: env}
	})
	require.NoError(t, err)

	handler := stratumhttp.NewHandler(&stratumhttp.HandlerConfig{Token: token}, handle)
	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)
	return server
}

func validEnv() stratum.MapEnv {
	return stratum.MapEnv{"APP_HOST": "localhost", "APP_PORT": "8080", "APP_API_KEY": "k-123456789"}
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("empty endpoint uses default", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestClient_Show(t *testing.T) {
	server := newTestServer(t, "tok", validEnv())
	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL + "/", Token: "tok"})
	require.NoError(t, err)

	snap, err := client.Show(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Values, 3)

	assert.Equal(t, "host", snap.Values[0].Key)
	assert.Equal(t, "localhost", snap.Values[0].Raw)
	assert.Equal(t, stratum.SourceEnv, snap.Values[0].Source)
	assert.Equal(t, stratum.Uint16, snap.Values[1].Type)
	assert.Equal(t, "******", snap.Values[2].Raw)
	assert.True(t, snap.Values[2].Secret)
}

func TestClient_Get(t *testing.T) {
	server := newTestServer(t, "", validEnv())
	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)
	ctx := context.Background()

	v, err := client.Get(ctx, "port")
	require.NoError(t, err)
	assert.Equal(t, "8080", v.Raw)

	_, err = client.Get(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, clientcli.ErrNotFound)

	_, err = client.Get(ctx, "")
	assert.ErrorIs(t, err, clientcli.ErrEmptyKey)
}

func TestClient_Unauthorized(t *testing.T) {
	server := newTestServer(t, "tok", validEnv())
	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "wrong"})
	require.NoError(t, err)

	_, err = client.Show(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, clientcli.ErrUnauthorized)

	var apiErr *clientcli.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unauthorized", apiErr.Code)

	// health is open
	assert.NoError(t, client.Health(context.Background()))
}

func TestClient_Reload(t *testing.T) {
	env := validEnv()
	server := newTestServer(t, "", env)
	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)
	ctx := context.Background()

	env["APP_HOST"] = "example.com"
	snap, err := client.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, "example.com", snap.Values[0].Raw)

	delete(env, "APP_HOST")
	env["APP_PORT"] = "not-a-port"
	_, err = client.Reload(ctx)
	require.Error(t, err)

	var report *clientcli.ReportError
	require.True(t, errors.As(err, &report))
	assert.Equal(t, []string{"host", "port"}, report.Keys())
	assert.Equal(t, stratum.ProblemMissing, report.Problems[0].Problem)
	assert.Equal(t, stratum.ProblemInvalid, report.Problems[1].Problem)

	// previous configuration is kept
	v, err := client.Get(ctx, "host")
	require.NoError(t, err)
	assert.Equal(t, "example.com", v.Raw)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Show(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502 - upstream down")
}

func TestAPIError_Is(t *testing.T) {
	err := &clientcli.APIError{StatusCode: http.StatusNotFound, Body: "x"}
	assert.ErrorIs(t, err, clientcli.ErrNotFound)
	assert.NotErrorIs(t, err, clientcli.ErrUnauthorized)
	assert.True(t, err.IsNotFound())
}
