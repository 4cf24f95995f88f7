package service

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// KeyAction is the handler bound to a key.
type KeyAction func() error

type binding struct {
	action         KeyAction
	preventDefault bool
}

// Keymap dispatches key presses to bound actions.
type Keymap struct {
	logger   *slog.Logger
	bindings map[domain.Key]binding
	mu       sync.RWMutex
}

// NewKeymap creates an empty keymap.
func NewKeymap(logger *slog.Logger) *Keymap {
	return &Keymap{
		logger:   logger,
		bindings: make(map[domain.Key]binding),
	}
}

// NewPlayerKeymap binds the player keys:
// Space toggles play/pause and suppresses the host's default handling,
// Left/Right change track, Up/Down step the volume.
func NewPlayerKeymap(logger *slog.Logger, playback *PlaybackService, playlist *PlaylistService) *Keymap {
	k := NewKeymap(logger)
	k.Bind(domain.KeySpace, playback.TogglePlayPause, true)
	k.Bind(domain.KeyLeft, playlist.Previous, false)
	k.Bind(domain.KeyRight, playlist.Next, false)
	k.Bind(domain.KeyUp, func() error { return playback.AdjustVolume(domain.VolumeStep) }, false)
	k.Bind(domain.KeyDown, func() error { return playback.AdjustVolume(-domain.VolumeStep) }, false)
	return k
}

// Bind registers action for key, replacing any previous binding.
func (k *Keymap) Bind(key domain.Key, action KeyAction, preventDefault bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[key] = binding{action: action, preventDefault: preventDefault}
}

// Dispatch runs the action bound to key. It reports whether a binding
// existed and whether the host should suppress its default handling.
// Action errors are logged, not returned.
func (k *Keymap) Dispatch(key domain.Key) (handled, preventDefault bool) {
	k.mu.RLock()
	b, ok := k.bindings[key]
	k.mu.RUnlock()

	if !ok {
		return false, false
	}

	if err := b.action(); err != nil {
		if errors.Is(err, domain.ErrAutoplayBlocked) {
			k.logger.Debug("key action blocked by autoplay policy", slog.String("key", string(key)))
		} else {
			k.logger.Warn("key action failed", slog.String("key", string(key)), slog.Any("error", err))
		}
	}
	return true, b.preventDefault
}
