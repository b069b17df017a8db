package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer blocks in ListenAndServe until Shutdown or Close is called,
// unless serveErr is set, in which case it returns immediately.
type stubServer struct {
	serveErr    error
	shutdownErr error

	started  chan struct{}
	released chan struct{}

	shutdowns atomic.Int32
	closes    atomic.Int32
}

func newStub(serveErr, shutdownErr error) *stubServer {
	return &stubServer{
		serveErr:    serveErr,
		shutdownErr: shutdownErr,
		started:     make(chan struct{}),
		released:    make(chan struct{}),
	}
}

func (s *stubServer) ListenAndServe() error {
	close(s.started)
	if s.serveErr != nil {
		return s.serveErr
	}
	<-s.released
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdowns.Add(1)
	if s.shutdownErr == nil {
		close(s.released)
	}
	return s.shutdownErr
}

func (s *stubServer) Close() error {
	s.closes.Add(1)
	close(s.released)
	return nil
}

func (s *stubServer) Addr() string { return ":0" }

func builderFor(s *stubServer, cleaned *atomic.Bool) serverBuilder {
	return func() (httpServer, func(), error) {
		return s, func() { cleaned.Store(true) }, nil
	}
}

func canceledAfterStart(s *stubServer) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-s.started
		cancel()
	}()
	return ctx
}

func TestRun_BuildError(t *testing.T) {
	var cleaned atomic.Bool
	build := func() (httpServer, func(), error) {
		return nil, func() { cleaned.Store(true) }, errors.New("JWT_SECRET is required")
	}

	assert.Equal(t, exitFail, Run(context.Background(), build, zerolog.Nop()))
	assert.False(t, cleaned.Load(), "cleanup must not run when build fails")
}

func TestRun_GracefulStop(t *testing.T) {
	s := newStub(nil, nil)
	var cleaned atomic.Bool

	code := Run(canceledAfterStart(s), builderFor(s, &cleaned), zerolog.Nop())

	require.Equal(t, exitOK, code)
	assert.EqualValues(t, 1, s.shutdowns.Load())
	assert.Zero(t, s.closes.Load())
	assert.True(t, cleaned.Load())
}

func TestRun_ListenerFailure(t *testing.T) {
	s := newStub(errors.New("bind: address already in use"), nil)
	var cleaned atomic.Bool

	code := Run(context.Background(), builderFor(s, &cleaned), zerolog.Nop())

	require.Equal(t, exitFail, code)
	assert.Zero(t, s.shutdowns.Load())
	assert.True(t, cleaned.Load())
}

func TestRun_DrainFailureForcesClose(t *testing.T) {
	s := newStub(nil, context.DeadlineExceeded)
	var cleaned atomic.Bool

	code := Run(canceledAfterStart(s), builderFor(s, &cleaned), zerolog.Nop())

	require.Equal(t, exitOK, code)
	assert.EqualValues(t, 1, s.shutdowns.Load())
	assert.EqualValues(t, 1, s.closes.Load())
}

func TestStdServer_Addr(t *testing.T) {
	assert.Equal(t, ":8080", stdServer{&http.Server{Addr: ":8080"}}.Addr())
}
