// Package otoaudio provides an oto output-device adapter implementing the AudioEngine interface.
//
// Decoded PCM flows through a counting reader (for position), a tap that feeds
// the frequency analyser, and finally the oto player.
package otoaudio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/tejashwikalptaru/eqplayer/internal/analysis"
	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

const (
	channelCount   = 2
	bytesPerSample = 2 // 16-bit
	frameBytes     = channelCount * bytesPerSample

	// tapCapacity holds a few analyser windows of mono samples.
	tapCapacity = analysis.DefaultFFTSize * 4
)

var (
	otoCtx     *oto.Context
	otoRate    int
	otoOnce    sync.Once
	otoInitErr error
)

// initOto creates the process-wide output context. oto allows only one,
// so later calls with a different rate fail.
func initOto(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if otoRate != sampleRate {
		return nil, domain.NewAudioEngineError("initialize", "", "output already opened at a different sample rate", nil)
	}
	return otoCtx, nil
}

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAutoplay lets Play start without a prior user gesture.
func WithAutoplay(allowed bool) Option {
	return func(e *Engine) {
		e.autoplay = allowed
	}
}

// Engine plays decoded audio files through oto.
//
// Like a browser, it refuses to start playback until UserGesture has been
// called, unless autoplay is allowed.
//
// Thread-safety: This implementation is thread-safe via sync.RWMutex.
type Engine struct {
	logger   *slog.Logger
	autoplay bool

	initialized bool
	sampleRate  int
	ctx         *oto.Context
	gestured    bool

	tracks     map[domain.TrackHandle]*trackInfo
	nextHandle domain.TrackHandle
	mu         sync.RWMutex

	tap      *analysis.Tap
	analyser *analysis.Analyser
}

// trackInfo stores information about a loaded track.
type trackInfo struct {
	source   string
	file     *os.File
	decoder  audioDecoder
	counter  *countingReader
	player   *oto.Player
	duration time.Duration
	volume   float64
	status   domain.PlaybackStatus
}

// NewEngine creates an uninitialized oto engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:     slog.Default(),
		tracks:     make(map[domain.TrackHandle]*trackInfo),
		nextHandle: 1,
		tap:        analysis.NewTap(tapCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.analyser = analysis.NewAnalyser(e.tap, analysis.WithResumeHook(e.resumeOutput))
	return e
}

// Initialize opens the output device.
func (e *Engine) Initialize(sampleRate int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return domain.ErrAlreadyInitialized
	}

	ctx, err := initOto(sampleRate)
	if err != nil {
		return domain.NewAudioEngineError("initialize", "", "cannot open output device", err)
	}

	e.ctx = ctx
	e.sampleRate = sampleRate
	e.initialized = true
	e.logger.Info("audio output opened", slog.Int("sample_rate", sampleRate))
	return nil
}

// Shutdown releases all loaded tracks and suspends the output.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}

	for handle := range e.tracks {
		e.releaseLocked(handle)
	}
	e.analyser.Suspend()

	var err error
	if suspendErr := e.ctx.Suspend(); suspendErr != nil {
		err = domain.NewAudioEngineError("shutdown", "", "cannot suspend output device", suspendErr)
	}

	e.initialized = false
	e.tracks = make(map[domain.TrackHandle]*trackInfo)
	return err
}

// IsInitialized returns true if the engine is initialized.
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// Load opens and decodes an audio file and returns a handle.
func (e *Engine) Load(source string) (domain.TrackHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.InvalidTrackHandle, domain.ErrNotInitialized
	}
	if source == "" {
		return domain.InvalidTrackHandle, domain.ErrInvalidFilePath
	}

	f, err := os.Open(source)
	if err != nil {
		return domain.InvalidTrackHandle, domain.NewAudioEngineError("load", source, "cannot open file", err)
	}

	dec, err := newDecoder(f)
	if err != nil {
		_ = f.Close()
		return domain.InvalidTrackHandle, domain.NewAudioEngineError("load", source, "cannot decode file", err)
	}

	if dec.SampleRate() != e.sampleRate {
		_ = f.Close()
		return domain.InvalidTrackHandle, domain.NewAudioEngineError("load", source,
			"sample rate does not match the output device", domain.ErrUnsupportedFormat)
	}

	counter := &countingReader{reader: dec}
	info := &trackInfo{
		source:   source,
		file:     f,
		decoder:  dec,
		counter:  counter,
		duration: bytesToDuration(dec.Length(), e.sampleRate),
		volume:   1.0,
		status:   domain.StatusStopped,
	}
	info.player = e.ctx.NewPlayer(io.TeeReader(counter, e.tap))

	handle := e.nextHandle
	e.nextHandle++
	e.tracks[handle] = info

	e.logger.Debug("track loaded",
		slog.String("source", source),
		slog.Duration("duration", info.duration))
	return handle, nil
}

// Unload releases a loaded track.
func (e *Engine) Unload(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.trackLocked(handle); err != nil {
		return err
	}
	e.releaseLocked(handle)
	return nil
}

// releaseLocked pauses the player, closes the file and forgets the track.
func (e *Engine) releaseLocked(handle domain.TrackHandle) {
	info, ok := e.tracks[handle]
	if !ok {
		return
	}
	info.player.Pause()
	if err := info.file.Close(); err != nil {
		e.logger.Warn("closing track file failed", slog.String("source", info.source), slog.Any("error", err))
	}
	delete(e.tracks, handle)
	e.tap.Clear()
}

// Play starts or resumes playback.
func (e *Engine) Play(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.trackLocked(handle)
	if err != nil {
		return err
	}

	if !e.autoplay && !e.gestured {
		return domain.ErrAutoplayBlocked
	}

	e.refreshLocked(info)
	if info.status == domain.StatusPlaying {
		return nil
	}

	// A finished track restarts from the beginning on a fresh player.
	if info.counter.Pos() >= info.decoder.Length() {
		if _, err := info.decoder.Seek(0, io.SeekStart); err != nil {
			return domain.NewAudioEngineError("play", info.source, "cannot rewind", err)
		}
		info.counter.SetPos(0)
		info.player = e.ctx.NewPlayer(io.TeeReader(info.counter, e.tap))
	}

	info.player.SetVolume(info.volume)
	info.player.Play()
	info.status = domain.StatusPlaying
	return nil
}

// Pause pauses playback.
func (e *Engine) Pause(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.trackLocked(handle)
	if err != nil {
		return err
	}

	if info.status == domain.StatusPlaying {
		info.player.Pause()
		info.status = domain.StatusPaused
		e.tap.Clear()
	}
	return nil
}

// Stop stops playback and unloads the track.
func (e *Engine) Stop(handle domain.TrackHandle) error {
	return e.Unload(handle)
}

// Status returns the playback status. A track that has played to its end
// reports StatusStopped.
func (e *Engine) Status(handle domain.TrackHandle) (domain.PlaybackStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.trackLocked(handle)
	if err != nil {
		return domain.StatusStopped, err
	}
	e.refreshLocked(info)
	return info.status, nil
}

// refreshLocked notices a player that ran out of data.
func (e *Engine) refreshLocked(info *trackInfo) {
	if info.status != domain.StatusPlaying || info.player.IsPlaying() {
		return
	}
	if perr := info.player.Err(); perr != nil && !errors.Is(perr, io.EOF) {
		e.logger.Error("playback stopped with error", slog.String("source", info.source), slog.Any("error", perr))
	}
	info.status = domain.StatusStopped
	e.tap.Clear()
}

// Position returns the audible playback position.
func (e *Engine) Position(handle domain.TrackHandle) (time.Duration, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	info, err := e.trackLocked(handle)
	if err != nil {
		return 0, err
	}
	played := info.counter.Pos() - int64(info.player.BufferedSize())
	return min(bytesToDuration(max(played, 0), e.sampleRate), info.duration), nil
}

// Duration returns the total track duration.
func (e *Engine) Duration(handle domain.TrackHandle) (time.Duration, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	info, err := e.trackLocked(handle)
	if err != nil {
		return 0, err
	}
	return info.duration, nil
}

// SetVolume sets the playback volume.
func (e *Engine) SetVolume(handle domain.TrackHandle, volume float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.trackLocked(handle)
	if err != nil {
		return err
	}
	if volume < 0 || volume > 1 {
		return domain.NewValidationError("volume", volume, "must be between 0.0 and 1.0")
	}

	info.volume = volume
	info.player.SetVolume(volume)
	return nil
}

// GetVolume returns the current volume.
func (e *Engine) GetVolume(handle domain.TrackHandle) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	info, err := e.trackLocked(handle)
	if err != nil {
		return 0, err
	}
	return info.volume, nil
}

// UserGesture lifts the autoplay block.
func (e *Engine) UserGesture() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.gestured {
		e.logger.Debug("user gesture recorded, autoplay unblocked")
	}
	e.gestured = true
}

// Analyser returns the analyser fed by the engine output.
func (e *Engine) Analyser() ports.Analyser {
	return e.analyser
}

// resumeOutput resumes a suspended output device.
func (e *Engine) resumeOutput(context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}
	if err := e.ctx.Resume(); err != nil {
		return domain.NewAudioEngineError("resume", "", "cannot resume output device", err)
	}
	return nil
}

func (e *Engine) trackLocked(handle domain.TrackHandle) (*trackInfo, error) {
	if !e.initialized {
		return nil, domain.ErrNotInitialized
	}
	info, ok := e.tracks[handle]
	if !ok {
		return nil, domain.ErrInvalidTrackHandle
	}
	return info, nil
}

// bytesToDuration converts a 16-bit stereo byte count to play time.
func bytesToDuration(n int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	bytesPerSec := float64(sampleRate * frameBytes)
	return time.Duration(float64(n) / bytesPerSec * float64(time.Second))
}

var _ ports.AudioEngine = (*Engine)(nil)
