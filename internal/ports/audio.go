// Package ports define interfaces for dependency inversion.
// These interfaces keep the player logic independent of audio backends and UI toolkits.
package ports

import (
	"context"
	"time"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// AudioEngine is the interface for audio playback engines.
// It plays the role of the audio element: load a source, play, pause, set the gain.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioEngine interface {
	// Initialize opens the output device at the given sample rate.
	Initialize(sampleRate int) error

	// Shutdown releases all engine resources.
	Shutdown() error

	// IsInitialized returns true if the engine has been successfully initialized.
	IsInitialized() bool

	// Load opens an audio source and returns a handle to it.
	Load(source string) (domain.TrackHandle, error)

	// Unload releases a loaded track without publishing anything.
	Unload(handle domain.TrackHandle) error

	// Play starts or resumes playback.
	// Returns domain.ErrAutoplayBlocked when the autoplay policy rejects the start.
	Play(handle domain.TrackHandle) error

	// Pause pauses playback and keeps the position.
	Pause(handle domain.TrackHandle) error

	// Stop stops playback and unloads the track.
	Stop(handle domain.TrackHandle) error

	// Status returns the playback status of the track.
	Status(handle domain.TrackHandle) (domain.PlaybackStatus, error)

	// Position returns the playback position within the track.
	Position(handle domain.TrackHandle) (time.Duration, error)

	// Duration returns the total length of the track.
	Duration(handle domain.TrackHandle) (time.Duration, error)

	// SetVolume sets the output gain for the track (0.0 to 1.0).
	SetVolume(handle domain.TrackHandle, volume float64) error

	// GetVolume returns the output gain for the track.
	GetVolume(handle domain.TrackHandle) (float64, error)

	// UserGesture records that the user interacted with the player.
	// Engines that emulate an autoplay policy accept playback starts afterwards.
	UserGesture()

	// Analyser returns the frequency-analysis node connected to the engine output.
	Analyser() Analyser
}

// Analyser is the frequency-analysis node of the audio graph.
type Analyser interface {
	// FrequencyBinCount returns the number of magnitude bins (half the window size).
	FrequencyBinCount() int

	// ByteFrequencyData fills dst with the current magnitudes, 0-255 per bin.
	// dst shorter than FrequencyBinCount receives the first len(dst) bins.
	ByteFrequencyData(dst []byte)

	// Resume starts a suspended audio graph.
	// It must be called before the first frame is rendered.
	Resume(ctx context.Context) error
}
