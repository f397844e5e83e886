// Package profiling starts optional pprof and Pyroscope profilers, switched on
// by environment variables so production images need no rebuild.
package profiling

import (
	"errors"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // bound to localhost only
	"os"
	"time"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

const (
	defaultPprofPort  = "6060"
	pprofReadTimeout  = 10 * time.Second
	pprofWriteTimeout = 60 * time.Second
)

// StartPprofServer serves /debug/pprof on localhost:$PPROF_PORT when
// ENABLE_PROFILING=true. It returns immediately.
func StartPprofServer(log logger.Logger) {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return
	}

	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = defaultPprofPort
	}
	addr := net.JoinHostPort("localhost", port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      http.DefaultServeMux,
		ReadTimeout:  pprofReadTimeout,
		WriteTimeout: pprofWriteTimeout,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()
}
