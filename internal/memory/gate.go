package memory

import (
	"errors"
	"sync"
)

var (
	ErrNotWon            = errors.New("gate cannot unlock before the game is won")
	ErrDismissNotAllowed = errors.New("gate cannot be dismissed")
)

// GateConfig configures a Gate. OnUnlock fires once, on the first successful
// Unlock.
type GateConfig struct {
	Config
	OnUnlock     func()
	AllowDismiss bool
}

// Gate is the overlay that keeps content hidden until the player wins and
// confirms. It starts open.
type Gate struct {
	game         *Game
	onUnlock     func()
	allowDismiss bool

	mu        sync.Mutex
	open      bool
	unlocked  bool
	dismissed bool
}

// GateView is the full presentation of a gate and its game. AllowDismiss
// tells the overlay whether to offer a close button.
type GateView struct {
	Open         bool       `json:"open"`
	Unlocked     bool       `json:"unlocked"`
	Dismissed    bool       `json:"dismissed"`
	AllowDismiss bool       `json:"allowDismiss"`
	Status       Status     `json:"status"`
	Locked       bool       `json:"locked"`
	Checking     bool       `json:"checking"`
	Moves        int        `json:"moves"`
	PairsLeft    int        `json:"pairsLeft"`
	Cards        []CardView `json:"cards"`
}

// NewGate builds a gate around a fresh game.
func NewGate(cfg GateConfig, opts ...Option) (*Gate, error) {
	game, err := NewGame(cfg.Config, opts...)
	if err != nil {
		return nil, err
	}
	return &Gate{
		game:         game,
		onUnlock:     cfg.OnUnlock,
		allowDismiss: cfg.AllowDismiss,
		open:         true,
	}, nil
}

// Game exposes the underlying state machine.
func (gt *Gate) Game() *Game {
	return gt.game
}

// Open reports whether the overlay still hides the content.
func (gt *Gate) Open() bool {
	gt.mu.Lock()
	defer gt.mu.Unlock()
	return gt.open
}

// Unlock closes the gate after a win. The Won check and the unlock happen
// under the game lock.
func (gt *Gate) Unlock() error {
	fire := false
	err := gt.game.whileOpen(func(status Status) error {
		if status != StatusWon {
			return ErrNotWon
		}
		gt.mu.Lock()
		defer gt.mu.Unlock()
		if !gt.unlocked {
			gt.unlocked = true
			gt.open = false
			fire = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if fire && gt.onUnlock != nil {
		gt.onUnlock()
	}
	return nil
}

// Dismiss closes the overlay without a win, when the gate allows it.
func (gt *Gate) Dismiss() error {
	if !gt.allowDismiss {
		return ErrDismissNotAllowed
	}
	return gt.game.whileOpen(func(Status) error {
		gt.mu.Lock()
		defer gt.mu.Unlock()
		if gt.open {
			gt.open = false
			gt.dismissed = true
		}
		return nil
	})
}

// Close tears down the gate's game.
func (gt *Gate) Close() {
	gt.game.Close()
}

// View snapshots the gate and its game.
func (gt *Gate) View() GateView {
	s := gt.game.Snapshot()
	gt.mu.Lock()
	defer gt.mu.Unlock()
	return GateView{
		Open:         gt.open,
		Unlocked:     gt.unlocked,
		Dismissed:    gt.dismissed,
		AllowDismiss: gt.allowDismiss,
		Status:       s.Status,
		Locked:       s.Locked,
		Checking:     s.Checking,
		Moves:        s.Moves,
		PairsLeft:    s.PairsLeft(),
		Cards:        Cards(s),
	}
}
