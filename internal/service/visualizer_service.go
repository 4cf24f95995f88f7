package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// FrameLoop is a render loop that runs until its context is cancelled
// or its own stop condition holds.
type FrameLoop interface {
	Run(ctx context.Context) error
}

// VisualizerService starts the spectrum render loop on the first
// playback start and keeps it running until shutdown.
//
// Idle → Running happens once; later starts are no-ops.
type VisualizerService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	analyser ports.Analyser
	loop     FrameLoop
	bus      ports.EventBus

	state  domain.VisualizerState
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	startedSub domain.SubscriptionID
}

// NewVisualizerService creates an idle visualizer that waits for the
// first TrackStartedEvent.
func NewVisualizerService(
	logger *slog.Logger,
	analyser ports.Analyser,
	loop FrameLoop,
	bus ports.EventBus,
) *VisualizerService {
	service := &VisualizerService{
		logger:   logger,
		analyser: analyser,
		loop:     loop,
		bus:      bus,
		state:    domain.VisualizerIdle,
	}

	service.startedSub = bus.Subscribe(domain.EventTrackStarted, service.handleTrackStarted)

	return service
}

func (s *VisualizerService) handleTrackStarted(domain.Event) {
	if err := s.Start(context.Background()); err != nil {
		s.logger.Error("visualizer failed to start", slog.Any("error", err))
	}
}

// Start resumes the analyser and launches the render loop.
// If resuming fails the visualizer stays idle and a later start retries.
func (s *VisualizerService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state == domain.VisualizerRunning {
		s.mu.Unlock()
		return nil
	}

	if err := s.analyser.Resume(ctx); err != nil {
		s.mu.Unlock()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = domain.VisualizerRunning
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(loopCtx)

	s.logger.Info("visualizer running")
	s.bus.Publish(domain.NewVisualizerStartedEvent())
	return nil
}

func (s *VisualizerService) run(ctx context.Context) {
	defer s.wg.Done()

	err := s.loop.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("render loop stopped", slog.Any("error", err))
	}

	s.mu.Lock()
	s.state = domain.VisualizerIdle
	s.mu.Unlock()
}

// State returns whether the render loop is running.
func (s *VisualizerService) State() domain.VisualizerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Shutdown stops the render loop and waits for it to exit.
func (s *VisualizerService) Shutdown() error {
	s.bus.Unsubscribe(s.startedSub)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.state = domain.VisualizerIdle
	s.mu.Unlock()
	return nil
}
