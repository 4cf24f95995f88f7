// Package domain defines events for the event-driven architecture.
// Events replace direct callbacks between services and the UI.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackLoaded     EventType = "track.loaded"
	EventTrackStarted    EventType = "track.started"
	EventTrackPaused     EventType = "track.paused"
	EventTrackStopped    EventType = "track.stopped"
	EventTrackCompleted  EventType = "track.completed"
	EventTrackError      EventType = "track.error"
	EventAutoNext        EventType = "track.auto_next"
	EventAutoplayBlocked EventType = "autoplay.blocked"

	// Volume events
	EventVolumeChanged EventType = "volume.changed"

	// Display events
	EventThemeToggled      EventType = "theme.toggled"
	EventVisualizerStarted EventType = "visualizer.started"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackLoadedEvent is published when a track becomes the current source.
type TrackLoadedEvent struct {
	baseEvent
	Track    Track
	Handle   TrackHandle
	Duration time.Duration
	Index    int
}

// Type returns the event type.
func (e TrackLoadedEvent) Type() EventType {
	return EventTrackLoaded
}

// NewTrackLoadedEvent creates a new TrackLoadedEvent.
func NewTrackLoadedEvent(track Track, handle TrackHandle, duration time.Duration, index int) TrackLoadedEvent {
	return TrackLoadedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Handle:    handle,
		Duration:  duration,
		Index:     index,
	}
}

// TrackStartedEvent is the "playback started" signal.
type TrackStartedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType {
	return EventTrackStarted
}

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track Track) TrackStartedEvent {
	return TrackStartedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackPausedEvent is published when playback is paused.
type TrackPausedEvent struct {
	baseEvent
	Track    Track
	Position time.Duration
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType {
	return EventTrackPaused
}

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(track Track, position time.Duration) TrackPausedEvent {
	return TrackPausedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Position:  position,
	}
}

// TrackStoppedEvent is published when a track is unloaded.
type TrackStoppedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackStoppedEvent) Type() EventType {
	return EventTrackStopped
}

// NewTrackStoppedEvent creates a new TrackStoppedEvent.
func NewTrackStoppedEvent(track Track) TrackStoppedEvent {
	return TrackStoppedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackCompletedEvent is published when a track plays to its end.
type TrackCompletedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackCompletedEvent) Type() EventType {
	return EventTrackCompleted
}

// NewTrackCompletedEvent creates a new TrackCompletedEvent.
func NewTrackCompletedEvent(track Track) TrackCompletedEvent {
	return TrackCompletedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackErrorEvent is published when a track cannot be loaded or played.
type TrackErrorEvent struct {
	baseEvent
	Track Track
	Error error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType {
	return EventTrackError
}

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(track Track, err error) TrackErrorEvent {
	return TrackErrorEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Error:     err,
	}
}

// AutoNextEvent asks the playlist to advance after a track completed.
type AutoNextEvent struct {
	baseEvent
	Track Track
	Index int
}

// Type returns the event type.
func (e AutoNextEvent) Type() EventType {
	return EventAutoNext
}

// NewAutoNextEvent creates a new AutoNextEvent.
func NewAutoNextEvent(track Track, index int) AutoNextEvent {
	return AutoNextEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Index:     index,
	}
}

// AutoplayBlockedEvent is published when the platform rejects a playback start
// that was not preceded by a user gesture.
type AutoplayBlockedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e AutoplayBlockedEvent) Type() EventType {
	return EventAutoplayBlocked
}

// NewAutoplayBlockedEvent creates a new AutoplayBlockedEvent.
func NewAutoplayBlockedEvent(track Track) AutoplayBlockedEvent {
	return AutoplayBlockedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// VolumeChangedEvent is published when the output gain changes.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType {
	return EventVolumeChanged
}

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{
		baseEvent: newBaseEvent(),
		Volume:    volume,
	}
}

// ThemeToggledEvent is published when the display theme flips.
type ThemeToggledEvent struct {
	baseEvent
	Preset ThemePreset
}

// Type returns the event type.
func (e ThemeToggledEvent) Type() EventType {
	return EventThemeToggled
}

// NewThemeToggledEvent creates a new ThemeToggledEvent.
func NewThemeToggledEvent(preset ThemePreset) ThemeToggledEvent {
	return ThemeToggledEvent{
		baseEvent: newBaseEvent(),
		Preset:    preset,
	}
}

// VisualizerStartedEvent is published once the render loop enters the running state.
type VisualizerStartedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e VisualizerStartedEvent) Type() EventType {
	return EventVisualizerStarted
}

// NewVisualizerStartedEvent creates a new VisualizerStartedEvent.
func NewVisualizerStartedEvent() VisualizerStartedEvent {
	return VisualizerStartedEvent{baseEvent: newBaseEvent()}
}
