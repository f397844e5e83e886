package elasticsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/retry"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already has http://", input: "http://elasticsearch:9200", expected: "http://elasticsearch:9200"},
		{name: "already has https://", input: "https://elasticsearch:9200", expected: "https://elasticsearch:9200"},
		{name: "missing protocol", input: "elasticsearch:9200", expected: "http://elasticsearch:9200"},
		{name: "empty string", input: "", expected: "http://localhost:9200"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, normalizeURL(tc.input))
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{URL: "http://custom:9200", MaxRetries: 5}
	cfg.SetDefaults()

	assert.Equal(t, "http://custom:9200", cfg.URL)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.PingTimeout)
	require.NotNil(t, cfg.RetryConfig)
	assert.Equal(t, 5, cfg.RetryConfig.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryConfig.InitialDelay)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{URL: srv.URL}, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewClient_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := Config{
		URL:         "http://127.0.0.1:1",
		MaxRetries:  1,
		PingTimeout: time.Second,
		RetryConfig: &retry.Config{
			MaxAttempts:  2,
			InitialDelay: 10 * time.Millisecond,
			MaxDelay:     20 * time.Millisecond,
			Multiplier:   2.0,
			IsRetryable:  retry.DefaultIsRetryable,
		},
	}

	_, err := NewClient(context.Background(), cfg, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Elasticsearch")
}
