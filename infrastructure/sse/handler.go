package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

// Handler streams broker events to one client until it disconnects.
func Handler(broker Broker, log logger.Logger, opts ...ClientOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, cleanup, err := broker.Subscribe(c.Request.Context(), opts...)
		if err != nil {
			if errors.Is(err, ErrTooManyClients) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many connections"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
			return
		}
		defer cleanup()

		SetHeaders(c.Writer)
		c.Status(http.StatusOK)

		connected := Event{
			Type: eventTypeConnected,
			Data: gin.H{"timestamp": now(), "message": "SSE connection established"},
		}
		if writeErr := writeAndFlush(c.Writer, connected); writeErr != nil {
			log.Debug("SSE write failed", logger.Error(writeErr))
			return
		}

		ticker := time.NewTicker(broker.HeartbeatInterval())
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if writeErr := writeAndFlush(c.Writer, event); writeErr != nil {
					log.Debug("SSE write failed, client likely gone",
						logger.String("event_type", event.Type),
						logger.Error(writeErr),
					)
					return
				}
			case <-ticker.C:
				if _, writeErr := fmt.Fprintf(c.Writer, ": heartbeat %s\n\n", now()); writeErr != nil {
					return
				}
				c.Writer.Flush()
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}

// SetHeaders sets the SSE response headers.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func writeAndFlush(w gin.ResponseWriter, event Event) error {
	if err := WriteEvent(w, event); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// WriteEvent encodes event in the SSE wire format.
func WriteEvent(w io.Writer, event Event) error {
	if event.Type != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
			return fmt.Errorf("write event type: %w", err)
		}
	}
	if event.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", event.ID); err != nil {
			return fmt.Errorf("write event id: %w", err)
		}
	}
	if event.Retry > 0 {
		if _, err := fmt.Fprintf(w, "retry: %d\n", event.Retry); err != nil {
			return fmt.Errorf("write retry: %w", err)
		}
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	if _, err = fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event data: %w", err)
	}
	return nil
}
