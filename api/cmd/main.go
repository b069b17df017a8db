package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/bootstrap"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

const (
	exitOK   = 0
	exitFail = 1

	drainTimeout = 15 * time.Second
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type stdServer struct{ *http.Server }

func (s stdServer) Addr() string { return s.Server.Addr }

// serverBuilder returns the server plus a cleanup releasing the DB pool,
// the cache, the broker and the blacklist janitor.
type serverBuilder func() (httpServer, func(), error)

// Run serves until ctx is canceled or the listener dies and returns the exit code.
func Run(ctx context.Context, build serverBuilder, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return exitFail
	}
	defer cleanup()

	serveErr := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("account service listening")
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case <-ctx.Done():
		lg.Info().Msg("stopping")
	case err := <-serveErr:
		if err != nil {
			lg.Error().Err(err).Msg("listener failed")
			return exitFail
		}
		return exitOK
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		lg.Warn().Err(err).Msg("drain timed out, closing connections")
		_ = srv.Close()
	}

	lg.Info().Msg("stopped")
	return exitOK
}

func build() (httpServer, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return stdServer{srv}, cleanup, nil
}

func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, build, logger.Logger)
	stop()
	os.Exit(code)
}
