// Package domain contains core models of the player with no external dependencies.
// It defines tracks, playback state, themes and the keys the player reacts to.
package domain

import (
	"image/color"
	"math"
	"time"
)

// Track is a single entry of the playlist.
// Tracks are immutable once the playlist is built.
type Track struct {
	// ID identifies the track inside the playlist
	ID string

	// Title is the text shown in the title area
	Title string

	// Source is the path to the audio data
	Source string

	// Artist is the performing artist, when tags provide one
	Artist string
}

// WrapPrevious returns the cursor position before index in a sequence of the given length.
// Index 0 wraps to length-1.
func WrapPrevious(index, length int) int {
	if length <= 0 {
		return -1
	}
	if index <= 0 {
		return length - 1
	}
	return index - 1
}

// WrapNext returns the cursor position after index in a sequence of the given length.
// Index length-1 wraps to 0.
func WrapNext(index, length int) int {
	if length <= 0 {
		return -1
	}
	if index >= length-1 {
		return 0
	}
	return index + 1
}

// ClampVolume constrains a volume level to [0, 1].
func ClampVolume(volume float64) float64 {
	switch {
	case volume < 0:
		return 0
	case volume > 1:
		return 1
	default:
		return volume
	}
}

// VolumeStep is the volume change of one arrow key press.
const VolumeStep = 0.1

// StepVolume moves a volume level by delta and clamps the result to [0, 1].
// The sum is rounded to nine decimals so repeated steps land on exact tenths.
func StepVolume(volume, delta float64) float64 {
	return ClampVolume(math.Round((volume+delta)*1e9) / 1e9)
}

// PlaybackState is a snapshot of the playback controller.
type PlaybackState struct {
	// CurrentTrack is the loaded track (nil if none)
	CurrentTrack *Track

	// CurrentIndex is the playlist cursor (-1 if no track)
	CurrentIndex int

	// Status is the engine status of the loaded track
	Status PlaybackStatus

	// Position is the playback position within the track
	Position time.Duration

	// Duration is the total length of the loaded track
	Duration time.Duration

	// Volume is the output gain (0.0 to 1.0)
	Volume float64
}

// IsPlaying reports whether audio is currently running.
func (s PlaybackState) IsPlaying() bool {
	return s.Status == StatusPlaying
}

// PlaybackStatus represents the current playback state of a track.
type PlaybackStatus int

const (
	// StatusStopped indicates playback is stopped or never started
	StatusStopped PlaybackStatus = iota

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusPaused indicates playback is paused
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// TrackHandle is an opaque identifier the audio engine uses for a loaded track.
type TrackHandle int64

const (
	// InvalidTrackHandle represents an invalid or uninitialized track handle
	InvalidTrackHandle TrackHandle = 0
)

// Play/pause control glyphs.
const (
	GlyphPause = "⏸"
	GlyphPlay  = "▶"
)

// PlayPauseGlyph returns the glyph the play/pause control shows.
// A playing track shows the pause glyph.
func PlayPauseGlyph(playing bool) string {
	if playing {
		return GlyphPause
	}
	return GlyphPlay
}

// Theme is the binary day/night display mode.
type Theme int

const (
	// ThemeNight is the default dark mode
	ThemeNight Theme = iota

	// ThemeDay is the light mode
	ThemeDay
)

// String returns the theme name.
func (t Theme) String() string {
	if t == ThemeDay {
		return "day"
	}
	return "night"
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeNight {
		return ThemeDay
	}
	return ThemeNight
}

// ThemePreset holds the fixed colors and glyph of a theme.
type ThemePreset struct {
	Theme      Theme
	Background color.RGBA
	Foreground color.RGBA
	Glyph      string
}

// Preset returns the fixed preset of the theme.
func (t Theme) Preset() ThemePreset {
	if t == ThemeDay {
		return ThemePreset{
			Theme:      ThemeDay,
			Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Foreground: color.RGBA{R: 0, G: 0, B: 0, A: 255},
			Glyph:      "\U0001F31E",
		}
	}
	return ThemePreset{
		Theme:      ThemeNight,
		Background: color.RGBA{R: 2, G: 0, B: 38, A: 255},
		Foreground: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Glyph:      "\U0001F319",
	}
}

// Key names a keyboard key the player binds.
type Key string

// Bound keys.
const (
	KeySpace Key = "space"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
	KeyUp    Key = "up"
	KeyDown  Key = "down"
)

// VisualizerState is the state of the spectrum render loop.
type VisualizerState int

const (
	// VisualizerIdle means no render loop is scheduled
	VisualizerIdle VisualizerState = iota

	// VisualizerRunning means the render loop reschedules itself every frame
	VisualizerRunning
)

// String returns the state name.
func (s VisualizerState) String() string {
	if s == VisualizerRunning {
		return "running"
	}
	return "idle"
}
