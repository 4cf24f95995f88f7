// Package mock provides a mock implementation of the AudioEngine interface.
// This is used for testing services without a real output device.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// DefaultDuration is the simulated length of every loaded track.
const DefaultDuration = 3 * time.Minute

// Engine is a mock implementation of the AudioEngine interface.
// It simulates audio playback in memory without actually playing audio.
//
// Thread-safety: This implementation is thread-safe.
type Engine struct {
	// Dependencies
	logger *slog.Logger

	// Configuration
	initialized bool
	sampleRate  int

	// Track state
	tracks     map[domain.TrackHandle]*mockTrack
	nextHandle domain.TrackHandle
	mu         sync.RWMutex

	// Autoplay policy emulation
	autoplayBlocked bool
	gestured        bool
	gestures        int

	analyser *Analyser

	// Behavior configuration (for testing error scenarios)
	failInitialize bool
	failLoad       bool
	failPlay       bool
}

// mockTrack represents a loaded track in the mock engine.
type mockTrack struct {
	handle   domain.TrackHandle
	source   string
	duration time.Duration
	position time.Duration
	volume   float64
	status   domain.PlaybackStatus
}

// NewEngine creates a new mock audio engine.
func NewEngine() *Engine {
	m := &Engine{
		tracks:     make(map[domain.TrackHandle]*mockTrack),
		nextHandle: 1,
	}
	m.analyser = &Analyser{engine: m}
	return m
}

// SetLogger sets the logger for this engine.
// This should be called after construction before using the engine.
func (m *Engine) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetFailInitialize configures the mock to fail initialization (for testing).
func (m *Engine) SetFailInitialize(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failInitialize = fail
}

// SetFailLoad configures the mock to fail loading tracks (for testing).
func (m *Engine) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetFailPlay configures the mock to fail playback (for testing).
func (m *Engine) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetAutoplayBlocked makes Play return domain.ErrAutoplayBlocked
// until UserGesture is called.
func (m *Engine) SetAutoplayBlocked(blocked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoplayBlocked = blocked
	m.gestured = false
}

// Initialize initializes the mock audio engine.
func (m *Engine) Initialize(sampleRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failInitialize {
		return domain.NewAudioEngineError("initialize", "", "mock initialization failed", nil)
	}

	if m.initialized {
		return domain.ErrAlreadyInitialized
	}

	m.initialized = true
	m.sampleRate = sampleRate

	return nil
}

// Shutdown shuts down the mock audio engine.
func (m *Engine) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	m.initialized = false
	m.tracks = make(map[domain.TrackHandle]*mockTrack)

	return nil
}

// IsInitialized returns true if the engine is initialized.
func (m *Engine) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Load registers a source and returns a handle.
func (m *Engine) Load(source string) (domain.TrackHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.InvalidTrackHandle, domain.ErrNotInitialized
	}

	if m.failLoad {
		return domain.InvalidTrackHandle, domain.NewAudioEngineError("load", source, "mock load failed", nil)
	}

	if source == "" {
		return domain.InvalidTrackHandle, domain.ErrInvalidFilePath
	}

	handle := m.nextHandle
	m.nextHandle++

	m.tracks[handle] = &mockTrack{
		handle:   handle,
		source:   source,
		duration: DefaultDuration,
		volume:   1.0,
		status:   domain.StatusStopped,
	}

	if m.logger != nil {
		m.logger.Debug("mock track loaded", slog.String("source", source), slog.Int64("handle", int64(handle)))
	}

	return handle, nil
}

// Unload unloads a previously loaded track.
func (m *Engine) Unload(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	if _, exists := m.tracks[handle]; !exists {
		return domain.ErrInvalidTrackHandle
	}

	delete(m.tracks, handle)
	return nil
}

// Play starts or resumes playback.
func (m *Engine) Play(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	track, exists := m.tracks[handle]
	if !exists {
		return domain.ErrInvalidTrackHandle
	}

	if m.autoplayBlocked && !m.gestured {
		return domain.ErrAutoplayBlocked
	}

	if m.failPlay {
		return domain.ErrPlaybackFailed
	}

	// A finished track restarts from the beginning
	if track.status == domain.StatusStopped && track.position >= track.duration {
		track.position = 0
	}

	track.status = domain.StatusPlaying
	return nil
}

// Pause pauses playback.
func (m *Engine) Pause(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	track, exists := m.tracks[handle]
	if !exists {
		return domain.ErrInvalidTrackHandle
	}

	if track.status == domain.StatusPlaying {
		track.status = domain.StatusPaused
	}

	return nil
}

// Stop stops playback and unloads the track.
func (m *Engine) Stop(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	if _, exists := m.tracks[handle]; !exists {
		return domain.ErrInvalidTrackHandle
	}

	delete(m.tracks, handle)
	return nil
}

// Status returns the playback status.
func (m *Engine) Status(handle domain.TrackHandle) (domain.PlaybackStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, err := m.trackLocked(handle)
	if err != nil {
		return domain.StatusStopped, err
	}
	return track.status, nil
}

// Position returns the current playback position.
func (m *Engine) Position(handle domain.TrackHandle) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, err := m.trackLocked(handle)
	if err != nil {
		return 0, err
	}
	return track.position, nil
}

// Duration returns the total track duration.
func (m *Engine) Duration(handle domain.TrackHandle) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, err := m.trackLocked(handle)
	if err != nil {
		return 0, err
	}
	return track.duration, nil
}

// SetVolume sets the playback volume.
func (m *Engine) SetVolume(handle domain.TrackHandle, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, err := m.trackLocked(handle)
	if err != nil {
		return err
	}

	if volume < 0.0 || volume > 1.0 {
		return domain.NewValidationError("volume", volume, "must be between 0.0 and 1.0")
	}

	track.volume = volume
	return nil
}

// GetVolume returns the current volume.
func (m *Engine) GetVolume(handle domain.TrackHandle) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, err := m.trackLocked(handle)
	if err != nil {
		return 0, err
	}
	return track.volume, nil
}

// UserGesture lifts the emulated autoplay block.
func (m *Engine) UserGesture() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gestured = true
	m.gestures++
}

// Analyser returns the synthetic analyser of this engine.
func (m *Engine) Analyser() ports.Analyser {
	return m.analyser
}

// MockAnalyser returns the analyser with its test helpers.
func (m *Engine) MockAnalyser() *Analyser {
	return m.analyser
}

func (m *Engine) trackLocked(handle domain.TrackHandle) (*mockTrack, error) {
	if !m.initialized {
		return nil, domain.ErrNotInitialized
	}
	track, exists := m.tracks[handle]
	if !exists {
		return nil, domain.ErrInvalidTrackHandle
	}
	return track, nil
}

// GetLoadedTracks returns the number of currently loaded tracks (for testing).
func (m *Engine) GetLoadedTracks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tracks)
}

// GestureCount returns how many user gestures were recorded (for testing).
func (m *Engine) GestureCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gestures
}

// SourceOf returns the source a handle was loaded from (for testing).
func (m *Engine) SourceOf(handle domain.TrackHandle) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	track, ok := m.tracks[handle]
	if !ok {
		return "", false
	}
	return track.source, true
}

// SimulateProgress simulates playback progress (for testing).
// This advances the position by the specified duration and stops the
// track when it reaches the end.
func (m *Engine) SimulateProgress(handle domain.TrackHandle, delta time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, exists := m.tracks[handle]
	if !exists {
		return domain.ErrInvalidTrackHandle
	}

	if track.status != domain.StatusPlaying {
		return fmt.Errorf("track is not playing")
	}

	track.position += delta
	if track.position >= track.duration {
		track.position = track.duration
		track.status = domain.StatusStopped
	}

	return nil
}

// playingVolume reports the volume of the playing track, if any.
func (m *Engine) playingVolume() (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, track := range m.tracks {
		if track.status == domain.StatusPlaying {
			return track.volume, true
		}
	}
	return 0, false
}

// Analyser is a synthetic frequency analyser.
// While resumed and a track plays, it reports a spectrum falling off
// towards high frequencies, scaled by the track volume.
type Analyser struct {
	engine *Engine

	mu          sync.Mutex
	running     bool
	resumeCalls int
	failResume  error
}

// BinCount is the number of bins the synthetic analyser reports.
const BinCount = 256

// FrequencyBinCount returns BinCount.
func (a *Analyser) FrequencyBinCount() int {
	return BinCount
}

// ByteFrequencyData fills dst with the synthetic spectrum.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	clear(dst)

	a.mu.Lock()
	running := a.running
	a.mu.Unlock()
	if !running {
		return
	}

	volume, playing := a.engine.playingVolume()
	if !playing {
		return
	}
	for i := range dst {
		if i >= BinCount {
			break
		}
		dst[i] = byte(255 * volume * (1 - float64(i)/BinCount))
	}
}

// Resume marks the analyser running.
func (a *Analyser) Resume(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.resumeCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.failResume != nil {
		return a.failResume
	}
	a.running = true
	return nil
}

// SetFailResume makes Resume return err (for testing).
func (a *Analyser) SetFailResume(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failResume = err
}

// ResumeCalls returns how often Resume was called (for testing).
func (a *Analyser) ResumeCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resumeCalls
}

// Running reports whether Resume succeeded.
func (a *Analyser) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Verify that Engine implements the AudioEngine interface
var _ ports.AudioEngine = (*Engine)(nil)
