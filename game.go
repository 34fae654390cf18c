package main

import (
	"context"
	"errors"
	"net/http"

	"memgate/internal/memory"
)

// startGate deals the first deck for a session's gate.
func (app *App) startGate(ctx context.Context, gs *GateSession) error {
	if err := gs.Gate.Game().Start(); err != nil {
		logWarn("%sSession %s could not start game: %v", reqPrefix(ctx), gs.ID, err)
		return err
	}
	logInfo("%sSession %s started the memory game", reqPrefix(ctx), gs.ID)
	return nil
}

// flipCard forwards a card click. Ignored clicks are not errors.
func (app *App) flipCard(ctx context.Context, gs *GateSession, index int) memory.FlipResult {
	result := gs.Gate.Game().Flip(index)
	if result == memory.FlipIgnored {
		logInfo("%sSession %s click on card %d ignored", reqPrefix(ctx), gs.ID, index)
	}
	return result
}

// restartGate replaces the session's game with a fresh deck.
func (app *App) restartGate(ctx context.Context, gs *GateSession) error {
	if err := gs.Gate.Game().Restart(); err != nil {
		logWarn("%sSession %s could not restart game: %v", reqPrefix(ctx), gs.ID, err)
		return err
	}
	return nil
}

// unlockGate closes the gate once the game is won.
func (app *App) unlockGate(ctx context.Context, gs *GateSession) error {
	if err := gs.Gate.Unlock(); err != nil {
		logWarn("%sSession %s attempted unlock: %v", reqPrefix(ctx), gs.ID, err)
		return err
	}
	return nil
}

// dismissGate closes the overlay without a win when configured to allow it.
func (app *App) dismissGate(ctx context.Context, gs *GateSession) error {
	if err := gs.Gate.Dismiss(); err != nil {
		logWarn("%sSession %s attempted dismiss: %v", reqPrefix(ctx), gs.ID, err)
		return err
	}
	logInfo("%sSession %s dismissed the gate", reqPrefix(ctx), gs.ID)
	return nil
}

// gateErrorStatus maps gate errors to an HTTP status and user-facing message.
func gateErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, memory.ErrNotStarted):
		return http.StatusConflict, ErrorGameNotStarted
	case errors.Is(err, memory.ErrAlreadyStarted):
		return http.StatusConflict, ErrorGameAlreadyStarted
	case errors.Is(err, memory.ErrNotWon):
		return http.StatusConflict, ErrorGateNotWon
	case errors.Is(err, memory.ErrDismissNotAllowed):
		return http.StatusForbidden, ErrorDismissNotAllowed
	case errors.Is(err, memory.ErrClosed):
		return http.StatusGone, ErrorSessionClosed
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
