package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"memgate/internal/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGateSessionReusesGate(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	a, err := app.getGateSession(ctx, "one")
	require.NoError(t, err)
	b, err := app.getGateSession(ctx, "one")
	require.NoError(t, err)
	assert.Same(t, a, b, "same session id returns the same gate")

	c, err := app.getGateSession(ctx, "two")
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, app.gateSessionCount())
}

func TestGetGateSessionInvalidConfig(t *testing.T) {
	app, _ := newTestApp(t, func(cfg *Config) { cfg.GatePairs = len(memory.DefaultCatalog) + 1 })
	_, err := app.getGateSession(context.Background(), "x")
	assert.ErrorIs(t, err, memory.ErrInsufficientSymbols)
	assert.Zero(t, app.gateSessionCount(), "failed session should not be stored")
}

func TestCleanupIdleSessions(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	stale, err := app.getGateSession(ctx, "stale")
	require.NoError(t, err)
	fresh, err := app.getGateSession(ctx, "fresh")
	require.NoError(t, err)
	require.NoError(t, stale.Gate.Game().Start())
	app.SessionMutex.Lock()
	stale.LastAccessTime = time.Now().Add(-3 * time.Hour)
	app.SessionMutex.Unlock()

	require.Equal(t, 1, app.cleanupIdleSessions(time.Hour))
	assert.Equal(t, 1, app.gateSessionCount())
	assert.True(t, stale.Gate.Game().Snapshot().Closed, "expired gate is closed")
	assert.False(t, fresh.Gate.Game().Snapshot().Closed)

	assert.Equal(t, 1, app.cleanupIdleSessions(0), "zero max age drops everything")
}

func TestSweptGateRejectsLateUnlock(t *testing.T) {
	app, sched := newTestApp(t)
	ctx := context.Background()

	gs, err := app.getGateSession(ctx, "late")
	require.NoError(t, err)
	require.NoError(t, app.startGate(ctx, gs))
	for _, pair := range [][2]int{{0, 2}, {1, 3}} {
		app.flipCard(ctx, gs, pair[0])
		app.flipCard(ctx, gs, pair[1])
		sched.Advance(app.Config.MatchDelay)
	}
	require.Equal(t, memory.StatusWon, gs.Gate.Game().Status())

	require.Equal(t, 1, app.cleanupIdleSessions(0))
	err = app.unlockGate(ctx, gs)
	assert.ErrorIs(t, err, memory.ErrClosed)
	assert.True(t, gs.UnlockedAt.IsZero(), "OnUnlock must not run for a swept session")
	status, _ := gateErrorStatus(err)
	assert.Equal(t, http.StatusGone, status)
}

func TestRunSessionSweeperStops(t *testing.T) {
	app, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.runSessionSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestGateErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{memory.ErrNotStarted, http.StatusConflict, ErrorGameNotStarted},
		{memory.ErrAlreadyStarted, http.StatusConflict, ErrorGameAlreadyStarted},
		{memory.ErrNotWon, http.StatusConflict, ErrorGateNotWon},
		{memory.ErrDismissNotAllowed, http.StatusForbidden, ErrorDismissNotAllowed},
		{memory.ErrClosed, http.StatusGone, ErrorSessionClosed},
		{errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, c := range cases {
		status, msg := gateErrorStatus(c.err)
		assert.Equal(t, c.status, status, "%v", c.err)
		assert.Equal(t, c.msg, msg, "%v", c.err)
	}
}
