// Package presenter connects the player services to a front-end.
// It maps domain events to PlayerView updates and UI commands to service calls,
// so the desktop window and the terminal share one control path.
package presenter

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
	"github.com/tejashwikalptaru/eqplayer/internal/service"
)

// Presenter implements the Presenter pattern (MVP architecture).
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to view updates
// - Translate UI commands to service method calls
//
// Every command counts as a user gesture, which lifts the autoplay policy.
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	playback *service.PlaybackService
	playlist *service.PlaylistService
	theme    *service.ThemeService
	keymap   *service.Keymap

	bus  ports.EventBus
	view ports.PlayerView

	subscriptions []domain.SubscriptionID

	mu           sync.Mutex
	started      bool
	shutdownOnce sync.Once
}

// NewPresenter creates a new presenter. Call Start to attach it to the bus.
func NewPresenter(
	logger *slog.Logger,
	playback *service.PlaybackService,
	playlist *service.PlaylistService,
	theme *service.ThemeService,
	keymap *service.Keymap,
	bus ports.EventBus,
	view ports.PlayerView,
) *Presenter {
	return &Presenter{
		logger:   logger,
		playback: playback,
		playlist: playlist,
		theme:    theme,
		keymap:   keymap,
		bus:      bus,
		view:     view,
	}
}

// Start subscribes to events and syncs the view with the current state.
func (p *Presenter) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.started = true

	p.subscribeToEvents()
	p.syncInitialState()
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := []struct {
		eventType domain.EventType
		handler   domain.EventHandler
	}{
		{domain.EventTrackLoaded, p.onTrackLoaded},
		{domain.EventTrackStarted, p.onTrackStarted},
		{domain.EventTrackPaused, p.onPlaybackHalted},
		{domain.EventTrackStopped, p.onPlaybackHalted},
		{domain.EventTrackCompleted, p.onPlaybackHalted},
		{domain.EventTrackError, p.onTrackError},
		{domain.EventAutoplayBlocked, p.onAutoplayBlocked},
		{domain.EventVolumeChanged, p.onVolumeChanged},
		{domain.EventThemeToggled, p.onThemeToggled},
	}

	for _, sub := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.bus.Subscribe(sub.eventType, sub.handler))
	}
}

// syncInitialState pushes the current service state into the view.
func (p *Presenter) syncInitialState() {
	state := p.playback.GetState()

	p.view.SetVolume(state.Volume)
	p.view.ApplyTheme(p.theme.Current().Preset())
	p.view.SetAutoplayNoticeVisible(false)
	p.view.SetPlayState(state.IsPlaying())

	if state.CurrentTrack != nil {
		p.view.SetTitle(state.CurrentTrack.Title)
	}
}

// Event handlers

func (p *Presenter) onTrackLoaded(event domain.Event) {
	e, ok := event.(domain.TrackLoadedEvent)
	if !ok {
		return
	}
	p.view.SetTitle(e.Track.Title)
}

func (p *Presenter) onTrackStarted(domain.Event) {
	p.view.SetAutoplayNoticeVisible(false)
	p.view.SetPlayState(true)
}

func (p *Presenter) onPlaybackHalted(domain.Event) {
	p.view.SetPlayState(false)
}

func (p *Presenter) onTrackError(event domain.Event) {
	e, ok := event.(domain.TrackErrorEvent)
	if !ok {
		return
	}
	p.logger.Warn("track error", slog.String("title", e.Track.Title), slog.Any("error", e.Error))
	p.view.SetPlayState(false)
}

func (p *Presenter) onAutoplayBlocked(domain.Event) {
	p.view.SetPlayState(false)
	p.view.SetAutoplayNoticeVisible(true)
}

func (p *Presenter) onVolumeChanged(event domain.Event) {
	e, ok := event.(domain.VolumeChangedEvent)
	if !ok {
		return
	}
	p.view.SetVolume(e.Volume)
}

func (p *Presenter) onThemeToggled(event domain.Event) {
	e, ok := event.(domain.ThemeToggledEvent)
	if !ok {
		return
	}
	p.view.ApplyTheme(e.Preset)
}

// UI Command handlers (called by the front-end)

// OnPlayClicked handles the play/pause button.
func (p *Presenter) OnPlayClicked() {
	p.playback.UserGesture()
	p.report("play/pause", p.playback.TogglePlayPause())
}

// OnNextClicked handles the next button.
func (p *Presenter) OnNextClicked() {
	p.playback.UserGesture()
	p.report("next track", p.playlist.Next())
}

// OnPreviousClicked handles the previous button.
func (p *Presenter) OnPreviousClicked() {
	p.playback.UserGesture()
	p.report("previous track", p.playlist.Previous())
}

// OnVolumeChanged handles the volume slider (0.0 to 1.0).
func (p *Presenter) OnVolumeChanged(volume float64) {
	p.playback.UserGesture()
	p.report("volume change", p.playback.SetVolume(volume))
}

// OnThemeClicked handles the day/night toggle.
func (p *Presenter) OnThemeClicked() {
	p.playback.UserGesture()
	p.theme.Toggle()
}

// OnKeyPressed dispatches a key press. It reports whether the key was bound
// and whether the front-end should suppress its default handling.
func (p *Presenter) OnKeyPressed(key domain.Key) (handled, preventDefault bool) {
	p.playback.UserGesture()
	return p.keymap.Dispatch(key)
}

// OnFrameRendered asks the view to repaint the equalizer.
func (p *Presenter) OnFrameRendered() {
	p.view.RefreshSpectrum()
}

func (p *Presenter) report(action string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, domain.ErrAutoplayBlocked) {
		p.logger.Debug(action+" blocked by autoplay policy")
		return
	}
	p.logger.Error(action+" failed", slog.Any("error", err))
}

// Shutdown detaches the presenter from the bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for _, id := range p.subscriptions {
			p.bus.Unsubscribe(id)
		}
		p.subscriptions = nil
	})
}
