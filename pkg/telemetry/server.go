package telemetry

import (
	"context"
	stdliberrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
)

// NewRouter mounts /metrics and /healthz.
func NewRouter(m *Metrics) http.Handler {
	router := chi.NewRouter()
	router.Get("/metrics", m.Handler().ServeHTTP)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, m *Metrics, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeMetrics, "listening for metrics").WithContext("addr", addr)
	}
	return serveListener(ctx, ln, m, logger)
}

func serveListener(ctx context.Context, ln net.Listener, m *Metrics, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &http.Server{
		Handler:           NewRouter(m),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !stdliberrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return tperrors.Wrap(err, tperrors.ErrCodeMetrics, "metrics server failed")
	}
}
