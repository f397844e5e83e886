package sse

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

func TestWriteEvent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteEvent(&buf, Event{Type: EventTypeContactNew, ID: "c-1", Retry: 3000, Data: map[string]string{"k": "v"}})

	require.NoError(t, err)
	assert.Equal(t, "event: contact:new\nid: c-1\nretry: 3000\ndata: {\"k\":\"v\"}\n\n", buf.String())
}

func TestHandler_StreamsEvents(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	b := NewBroker(logger.NewNop())
	require.NoError(t, b.Start(context.Background()))
	t.Cleanup(func() { _ = b.Stop() })

	router := gin.New()
	router.GET("/events", Handler(b, logger.NewNop()))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", http.NoBody)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEventType := func() string {
		for {
			line, readErr := reader.ReadString('\n')
			require.NoError(t, readErr)
			if typ, ok := strings.CutPrefix(strings.TrimSpace(line), "event: "); ok {
				return typ
			}
		}
	}

	assert.Equal(t, eventTypeConnected, readEventType())

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, b.Publish(context.Background(), NewContactEvent("c-9", "Abel", "abel@paints.test", "", "general")))

	assert.Equal(t, EventTypeContactNew, readEventType())
}

func TestHandler_RejectsWhenFull(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	b := NewBroker(logger.NewNop(), WithMaxClients(1))
	require.NoError(t, b.Start(context.Background()))
	t.Cleanup(func() { _ = b.Stop() })

	_, cleanup, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	router := gin.New()
	router.GET("/events", Handler(b, logger.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", http.NoBody))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
