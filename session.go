package main

import (
	"context"
	"net/http"
	"time"

	"memgate/internal/memory"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || uuid.Validate(sessionID) != nil {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.Config.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.Config.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getGateSession retrieves or creates the gate for a session.
func (app *App) getGateSession(ctx context.Context, sessionID string) (*GateSession, error) {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if gs, ok := app.GateSessions[sessionID]; ok {
		gs.LastAccessTime = time.Now()
		return gs, nil
	}

	gs, err := app.newGateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	app.GateSessions[sessionID] = gs
	logInfo("%sCreated gate for session: %s", reqPrefix(ctx), sessionID)
	return gs, nil
}

// newGateSession builds a gate wired to the app's config and logging.
func (app *App) newGateSession(ctx context.Context, sessionID string) (*GateSession, error) {
	gs := &GateSession{ID: sessionID, LastAccessTime: time.Now()}
	gate, err := memory.NewGate(app.gateConfig(func() {
		app.SessionMutex.Lock()
		gs.UnlockedAt = time.Now()
		app.SessionMutex.Unlock()
		logInfo("Portfolio unlocked for session: %s", sessionID)
	}), app.gateOptions(sessionID)...)
	if err != nil {
		logWarn("%sFailed to create gate for session %s: %v", reqPrefix(ctx), sessionID, err)
		return nil, err
	}
	gs.Gate = gate
	return gs, nil
}

func (app *App) gateConfig(onUnlock func()) memory.GateConfig {
	return memory.GateConfig{
		Config: memory.Config{
			PairCount:     app.Config.GatePairs,
			MatchDelay:    app.Config.MatchDelay,
			MismatchDelay: app.Config.MismatchDelay,
		},
		OnUnlock:     onUnlock,
		AllowDismiss: app.Config.AllowDismiss,
	}
}

func (app *App) gateOptions(sessionID string) []memory.Option {
	opts := []memory.Option{memory.WithObserver(func(ev memory.Event) {
		logGateEvent(sessionID, ev)
	})}
	if app.Scheduler != nil {
		opts = append(opts, memory.WithScheduler(app.Scheduler))
	}
	if app.Rand != nil {
		opts = append(opts, memory.WithRand(app.Rand))
	}
	return opts
}

func logGateEvent(sessionID string, ev memory.Event) {
	switch ev.Kind {
	case memory.EventFlipped:
		return
	case memory.EventWon:
		logInfo("Session %s won the memory game in %d moves", sessionID, ev.Moves)
	default:
		logInfo("Session %s gate event %s (generation %d, moves %d, cards %v)", sessionID, ev.Kind, ev.Generation, ev.Moves, ev.Indices)
	}
}

// gateSessionCount returns the number of live sessions.
func (app *App) gateSessionCount() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.GateSessions)
}

// cleanupIdleSessions closes and drops sessions idle for longer than maxAge.
func (app *App) cleanupIdleSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	app.SessionMutex.Lock()
	expired := lo.PickBy(app.GateSessions, func(_ string, gs *GateSession) bool {
		return gs.LastAccessTime.Before(cutoff)
	})
	for id := range expired {
		delete(app.GateSessions, id)
	}
	app.SessionMutex.Unlock()

	for _, gs := range expired {
		gs.Gate.Close()
	}
	if len(expired) > 0 {
		logInfo("Session cleanup completed: removed %d idle sessions", len(expired))
	}
	return len(expired)
}

// runSessionSweeper periodically expires idle sessions until ctx is done.
func (app *App) runSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.cleanupIdleSessions(app.Config.SessionTimeout)
		}
	}
}
