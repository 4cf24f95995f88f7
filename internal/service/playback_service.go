// Package service provides the player logic: playback, playlist cursor,
// theme, key bindings and the visualizer lifecycle.
package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// DefaultVolume is the output gain before the user touches the slider.
const DefaultVolume = 0.5

// PlaybackOption configures a PlaybackService.
type PlaybackOption func(*PlaybackService)

// WithInitialVolume sets the starting volume, clamped to [0, 1].
func WithInitialVolume(volume float64) PlaybackOption {
	return func(s *PlaybackService) {
		s.volume = domain.ClampVolume(volume)
	}
}

// WithUpdateInterval sets how often the service polls the engine for track end.
func WithUpdateInterval(d time.Duration) PlaybackOption {
	return func(s *PlaybackService) {
		if d > 0 {
			s.updateInterval = d
		}
	}
}

// PlaybackService orchestrates audio playback operations.
// It manages the current track, play/pause and the volume.
// All operations are thread-safe via sync.RWMutex.
//
// Events are published after the lock is released, so handlers may call
// back into the service.
type PlaybackService struct {
	// Dependencies (injected)
	logger *slog.Logger
	engine ports.AudioEngine
	bus    ports.EventBus

	// State
	currentTrack   *domain.Track
	currentHandle  domain.TrackHandle
	currentIndex   int // Index in the playlist (managed by PlaylistService)
	volume         float64
	updateInterval time.Duration

	// Concurrency control
	mu            sync.RWMutex
	stopUpdate    chan struct{}
	updateRunning bool
	updateWg      sync.WaitGroup // WaitGroup to wait for update goroutine to exit
	manualStop    bool           // True if the user explicitly stopped playback
	hasPlayed     bool           // True if the current track has been played
}

// NewPlaybackService creates a new playback service.
func NewPlaybackService(
	logger *slog.Logger,
	engine ports.AudioEngine,
	bus ports.EventBus,
	opts ...PlaybackOption,
) *PlaybackService {
	service := &PlaybackService{
		logger:         logger,
		engine:         engine,
		bus:            bus,
		currentHandle:  domain.InvalidTrackHandle,
		currentIndex:   -1,
		volume:         DefaultVolume,
		updateInterval: 250 * time.Millisecond,
		stopUpdate:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(service)
	}

	logger.Debug("playback service initialized", slog.Float64("volume", service.volume))

	// Start update routine
	service.startUpdateRoutine()

	return service
}

// LoadTrack makes track the current source.
// This stops any current track, loads the new one and applies the current volume.
func (s *PlaybackService) LoadTrack(track domain.Track, index int) error {
	var events []domain.Event
	defer func() { s.publish(events...) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("loading track", slog.String("source", track.Source), slog.Int("index", index))

	if s.currentHandle != domain.InvalidTrackHandle {
		if ev, err := s.stopInternal(); err != nil {
			s.logger.Warn("failed to stop current track", slog.Any("error", err))
		} else if ev != nil {
			events = append(events, ev)
		}
	}

	handle, err := s.engine.Load(track.Source)
	if err != nil {
		s.logger.Error("failed to load track", slog.String("source", track.Source), slog.Any("error", err))
		events = append(events, domain.NewTrackErrorEvent(track, err))
		return err
	}

	if err := s.engine.SetVolume(handle, s.volume); err != nil {
		s.unloadQuietly(handle)
		return err
	}

	duration, err := s.engine.Duration(handle)
	if err != nil {
		s.unloadQuietly(handle)
		return err
	}

	s.currentTrack = &track
	s.currentHandle = handle
	s.currentIndex = index
	s.manualStop = false
	s.hasPlayed = false

	events = append(events, domain.NewTrackLoadedEvent(track, handle, duration, index))
	return nil
}

func (s *PlaybackService) unloadQuietly(handle domain.TrackHandle) {
	if err := s.engine.Unload(handle); err != nil {
		s.logger.Warn("failed to unload track", slog.Any("error", err))
	}
}

// Play starts or resumes playback of the current track.
//
// When the engine rejects the start because no user gesture happened yet,
// Play publishes an AutoplayBlockedEvent and returns domain.ErrAutoplayBlocked.
// This is an expected outcome, not a failure.
func (s *PlaybackService) Play() error {
	var events []domain.Event
	defer func() { s.publish(events...) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentHandle == domain.InvalidTrackHandle || s.currentTrack == nil {
		return domain.ErrNoTrackLoaded
	}

	status, err := s.engine.Status(s.currentHandle)
	if err != nil {
		return err
	}
	if status == domain.StatusPlaying {
		return nil
	}

	if err := s.engine.Play(s.currentHandle); err != nil {
		if errors.Is(err, domain.ErrAutoplayBlocked) {
			s.logger.Info("playback start blocked until user interaction",
				slog.String("title", s.currentTrack.Title))
			events = append(events, domain.NewAutoplayBlockedEvent(*s.currentTrack))
			return err
		}
		s.logger.Error("playback failed", slog.String("title", s.currentTrack.Title), slog.Any("error", err))
		events = append(events, domain.NewTrackErrorEvent(*s.currentTrack, err))
		return err
	}

	s.manualStop = false
	s.hasPlayed = true
	events = append(events, domain.NewTrackStartedEvent(*s.currentTrack))
	return nil
}

// Pause pauses playback of the current track.
func (s *PlaybackService) Pause() error {
	var events []domain.Event
	defer func() { s.publish(events...) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentHandle == domain.InvalidTrackHandle || s.currentTrack == nil {
		return domain.ErrNoTrackLoaded
	}

	position, err := s.engine.Position(s.currentHandle)
	if err != nil {
		position = 0
	}

	if err := s.engine.Pause(s.currentHandle); err != nil {
		return err
	}

	events = append(events, domain.NewTrackPausedEvent(*s.currentTrack, position))
	return nil
}

// TogglePlayPause pauses a playing track and plays anything else.
func (s *PlaybackService) TogglePlayPause() error {
	if s.GetState().IsPlaying() {
		return s.Pause()
	}
	return s.Play()
}

// Stop stops playback and unloads the current track.
func (s *PlaybackService) Stop() error {
	s.mu.Lock()
	ev, err := s.stopInternal()
	s.mu.Unlock()

	if ev != nil {
		s.publish(ev)
	}
	return err
}

// stopInternal stops playback without locking (caller must hold lock).
// It returns the stopped event for the caller to publish.
func (s *PlaybackService) stopInternal() (domain.Event, error) {
	if s.currentHandle == domain.InvalidTrackHandle {
		return nil, nil
	}

	s.manualStop = true
	s.hasPlayed = false

	err := s.engine.Stop(s.currentHandle)

	var ev domain.Event
	if err == nil && s.currentTrack != nil {
		ev = domain.NewTrackStoppedEvent(*s.currentTrack)
	}

	// Even if stop fails, clear our state
	s.currentHandle = domain.InvalidTrackHandle
	s.currentTrack = nil
	return ev, err
}

// SetVolume sets the playback volume. Values outside [0, 1] are clamped.
func (s *PlaybackService) SetVolume(volume float64) error {
	s.mu.Lock()
	ev, err := s.setVolumeLocked(domain.ClampVolume(volume))
	s.mu.Unlock()

	if ev != nil {
		s.publish(ev)
	}
	return err
}

// AdjustVolume moves the volume by delta. An increase only applies below 1
// and a decrease only above 0, so a saturated volume publishes nothing.
func (s *PlaybackService) AdjustVolume(delta float64) error {
	s.mu.Lock()
	current := s.volume
	if (delta > 0 && current >= 1) || (delta < 0 && current <= 0) || delta == 0 {
		s.mu.Unlock()
		return nil
	}
	ev, err := s.setVolumeLocked(domain.StepVolume(current, delta))
	s.mu.Unlock()

	if ev != nil {
		s.publish(ev)
	}
	return err
}

func (s *PlaybackService) setVolumeLocked(volume float64) (domain.Event, error) {
	if s.currentHandle != domain.InvalidTrackHandle {
		if err := s.engine.SetVolume(s.currentHandle, volume); err != nil {
			return nil, err
		}
	}
	s.volume = volume
	return domain.NewVolumeChangedEvent(volume), nil
}

// GetVolume returns the current volume (0.0 to 1.0).
func (s *PlaybackService) GetVolume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.volume
}

// UserGesture records a user interaction with the player.
func (s *PlaybackService) UserGesture() {
	s.engine.UserGesture()
}

// GetState returns the current playback state.
func (s *PlaybackService) GetState() domain.PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := domain.PlaybackState{
		CurrentIndex: s.currentIndex,
		Volume:       s.volume,
		Status:       domain.StatusStopped,
	}

	if s.currentTrack != nil {
		track := *s.currentTrack
		state.CurrentTrack = &track
	}

	if s.currentHandle != domain.InvalidTrackHandle {
		if status, err := s.engine.Status(s.currentHandle); err == nil {
			state.Status = status
		}

		if position, err := s.engine.Position(s.currentHandle); err == nil {
			state.Position = position
		}

		if duration, err := s.engine.Duration(s.currentHandle); err == nil {
			state.Duration = duration
		}
	}

	return state
}

// Shutdown stops playback and cleans up resources.
func (s *PlaybackService) Shutdown() error {
	s.mu.Lock()

	// Stop update routine
	if s.updateRunning {
		close(s.stopUpdate)
		s.updateRunning = false
	}

	// Release lock before waiting for goroutine to exit (to avoid deadlock)
	s.mu.Unlock()

	s.updateWg.Wait()

	return s.Stop()
}

func (s *PlaybackService) publish(events ...domain.Event) {
	for _, ev := range events {
		s.bus.Publish(ev)
	}
}

// startUpdateRoutine starts a goroutine that watches for the natural end of a track.
func (s *PlaybackService) startUpdateRoutine() {
	s.mu.Lock()
	if s.updateRunning {
		s.mu.Unlock()
		return
	}
	s.updateRunning = true
	s.updateWg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.updateWg.Done()
		ticker := time.NewTicker(s.updateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopUpdate:
				return

			case <-ticker.C:
				s.checkTrackFinished()
			}
		}
	}()
}

// checkTrackFinished publishes completion and an auto-next request once a
// played track stops on its own.
func (s *PlaybackService) checkTrackFinished() {
	s.mu.Lock()

	if s.currentHandle == domain.InvalidTrackHandle || s.currentTrack == nil || !s.hasPlayed || s.manualStop {
		s.mu.Unlock()
		return
	}

	status, err := s.engine.Status(s.currentHandle)
	if err != nil || status != domain.StatusStopped {
		s.mu.Unlock()
		return
	}

	track := *s.currentTrack
	index := s.currentIndex
	s.hasPlayed = false
	s.mu.Unlock()

	s.logger.Debug("track finished", slog.String("title", track.Title), slog.Int("index", index))

	s.publish(
		domain.NewTrackCompletedEvent(track),
		domain.NewAutoNextEvent(track, index),
	)
}

// Verify that PlaybackService implements the expected interface patterns
var _ interface {
	LoadTrack(domain.Track, int) error
	Play() error
	Pause() error
	TogglePlayPause() error
	Stop() error
	SetVolume(float64) error
	AdjustVolume(float64) error
	GetVolume() float64
	UserGesture()
	GetState() domain.PlaybackState
	Shutdown() error
} = (*PlaybackService)(nil)
