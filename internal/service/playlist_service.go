package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// PlaylistService owns the fixed, ordered playlist and its cursor.
// Changing the track loads it into the playback service and starts it.
// All operations are thread-safe via sync.RWMutex.
type PlaylistService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	playback *PlaybackService
	bus      ports.EventBus

	// State
	tracks       []domain.Track
	currentIndex int

	// Concurrency control
	mu sync.RWMutex

	// Event subscription
	autoNextSub domain.SubscriptionID
}

// NewPlaylistService creates a playlist over tracks. The order is the playback order.
func NewPlaylistService(
	logger *slog.Logger,
	playback *PlaybackService,
	bus ports.EventBus,
	tracks []domain.Track,
) *PlaylistService {
	service := &PlaylistService{
		logger:       logger,
		playback:     playback,
		bus:          bus,
		tracks:       append([]domain.Track(nil), tracks...),
		currentIndex: -1,
	}

	// Subscribe to auto-next events from the playback service
	service.autoNextSub = bus.Subscribe(domain.EventAutoNext, service.handleAutoNext)

	return service
}

// Start establishes the first track. Playback may be blocked by the
// autoplay policy, which is not an error.
func (s *PlaylistService) Start() error {
	return s.ChangeTrack(0)
}

// ChangeTrack moves the cursor to index, loads the track and starts it.
// A start rejected by the autoplay policy leaves the track loaded and paused
// and returns nil.
func (s *PlaylistService) ChangeTrack(index int) error {
	s.mu.Lock()
	if len(s.tracks) == 0 {
		s.mu.Unlock()
		return domain.ErrPlaylistEmpty
	}
	if index < 0 || index >= len(s.tracks) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", domain.ErrInvalidIndex, index, len(s.tracks))
	}
	s.currentIndex = index
	track := s.tracks[index]
	s.mu.Unlock()

	s.logger.Info("changing track", slog.Int("index", index), slog.String("title", track.Title))

	// Load and play (lock released so event handlers may read the cursor)
	if err := s.playback.LoadTrack(track, index); err != nil {
		return domain.NewServiceError("PlaylistService", "ChangeTrack", "cannot load track", err)
	}

	if err := s.playback.Play(); err != nil && !errors.Is(err, domain.ErrAutoplayBlocked) {
		return domain.NewServiceError("PlaylistService", "ChangeTrack", "cannot start track", err)
	}
	return nil
}

// Previous moves to the previous track, wrapping from the first to the last.
func (s *PlaylistService) Previous() error {
	s.mu.RLock()
	index := domain.WrapPrevious(s.currentIndex, len(s.tracks))
	s.mu.RUnlock()

	if index < 0 {
		return domain.ErrPlaylistEmpty
	}
	return s.ChangeTrack(index)
}

// Next moves to the next track, wrapping from the last to the first.
func (s *PlaylistService) Next() error {
	s.mu.RLock()
	index := domain.WrapNext(s.currentIndex, len(s.tracks))
	s.mu.RUnlock()

	if index < 0 {
		return domain.ErrPlaylistEmpty
	}
	return s.ChangeTrack(index)
}

// CurrentIndex returns the cursor, or -1 before the first track change.
func (s *PlaylistService) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentIndex
}

// Current returns the track under the cursor.
func (s *PlaylistService) Current() (domain.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentIndex < 0 || s.currentIndex >= len(s.tracks) {
		return domain.Track{}, false
	}
	return s.tracks[s.currentIndex], true
}

// Tracks returns a copy of the playlist.
func (s *PlaylistService) Tracks() []domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks := make([]domain.Track, len(s.tracks))
	copy(tracks, s.tracks)
	return tracks
}

// handleAutoNext advances after the current track finished on its own.
func (s *PlaylistService) handleAutoNext(event domain.Event) {
	autoNext, ok := event.(domain.AutoNextEvent)
	if !ok {
		return
	}

	s.mu.RLock()
	current := s.currentIndex
	s.mu.RUnlock()

	// Verify the event is for the current track
	if autoNext.Index != current {
		return
	}

	if err := s.Next(); err != nil {
		s.logger.Error("auto-advance failed", slog.Any("error", err))
	}
}

// Shutdown cleans up resources.
func (s *PlaylistService) Shutdown() error {
	s.bus.Unsubscribe(s.autoNextSub)
	return nil
}

// Verify that PlaylistService implements the expected interface patterns
var _ interface {
	Start() error
	ChangeTrack(int) error
	Previous() error
	Next() error
	CurrentIndex() int
	Current() (domain.Track, bool)
	Tracks() []domain.Track
	Shutdown() error
} = (*PlaylistService)(nil)
