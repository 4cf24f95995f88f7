package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/eqplayer/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/eqplayer/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/logger"
)

// eventRecorder collects every event published on a bus.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func recordEvents(bus *eventbus.SyncEventBus) *eventRecorder {
	r := &eventRecorder{}
	bus.SubscribeAll(func(e domain.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	})
	return r
}

func (r *eventRecorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func (r *eventRecorder) count(t domain.EventType) int {
	n := 0
	for _, et := range r.types() {
		if et == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last(t domain.EventType) (domain.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type() == t {
			return r.events[i], true
		}
	}
	return nil, false
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Helper to create an initialized mock engine
func newTestEngine(t *testing.T) *mock.Engine {
	t.Helper()
	engine := mock.NewEngine()
	require.NoError(t, engine.Initialize(44100))
	return engine
}

// Helper to create a test playback service
func newTestPlaybackService(t *testing.T, opts ...PlaybackOption) (*PlaybackService, *mock.Engine, *eventbus.SyncEventBus) {
	t.Helper()
	engine := newTestEngine(t)
	bus := eventbus.NewSyncEventBus()

	opts = append([]PlaybackOption{WithUpdateInterval(5 * time.Millisecond)}, opts...)
	service := NewPlaybackService(logger.NewTestLogger(), engine, bus, opts...)
	t.Cleanup(func() { _ = service.Shutdown() })

	return service, engine, bus
}

// Helper to create a test track
func createTestTrack(id, title, source string) domain.Track {
	return domain.Track{
		ID:     id,
		Title:  title,
		Source: source,
	}
}

func testPlaylist() []domain.Track {
	return []domain.Track{
		createTestTrack("a", "Song Bird", "aud/KennyGSaxSongBird.mp3"),
		createTestTrack("b", "The Moment", "aud/KennyGTheMoment.mp3"),
		createTestTrack("c", "Forever in Love", "aud/GForeverInLove.mp3"),
	}
}
