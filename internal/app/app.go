// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tejashwikalptaru/eqplayer/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/eqplayer/internal/adapter/audio/otoaudio"
	"github.com/tejashwikalptaru/eqplayer/internal/adapter/eventbus"
	fyneui "github.com/tejashwikalptaru/eqplayer/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/eqplayer/internal/adapter/ui/presenter"
	"github.com/tejashwikalptaru/eqplayer/internal/adapter/ui/terminal"
	"github.com/tejashwikalptaru/eqplayer/internal/logger"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
	"github.com/tejashwikalptaru/eqplayer/internal/service"
	"github.com/tejashwikalptaru/eqplayer/internal/spectrum"
)

// Equalizer surface size in pixels.
const (
	SurfaceWidth  = 640
	SurfaceHeight = 300
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for the command
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	logFile *os.File
	config  Config

	// Infrastructure
	eventBus    *eventbus.SyncEventBus
	audioEngine ports.AudioEngine
	surface     *spectrum.ImageSurface
	renderer    *spectrum.Renderer

	// Services
	playbackService   *service.PlaybackService
	playlistService   *service.PlaylistService
	themeService      *service.ThemeService
	keymap            *service.Keymap
	visualizerService *service.VisualizerService

	// UI
	presenter    *presenter.Presenter
	view         ports.PlayerView
	fyneApp      fyne.App
	mainWindow   *fyneui.MainWindow
	terminalView *terminal.View

	startOnce    sync.Once
	startErr     error
	shutdownOnce sync.Once
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	app := &Application{config: config}

	// Step 1: Create logger
	loggerCfg := config.LoggerConfig()
	output, logFile, err := openLogOutput(config)
	if err != nil {
		return nil, err
	}
	loggerCfg.Output = output
	app.logFile = logFile
	app.logger = logger.NewLogger(loggerCfg)
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("app_name", config.AppName),
		slog.String("ui", config.UI))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(
		eventbus.WithLogger(app.logger.With(slog.String("component", "eventbus"))),
	)

	// Step 3: Create an audio engine
	if err := app.initAudioEngine(); err != nil {
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
		return nil, err
	}

	// Step 4: Create services (with dependency injection)
	app.playbackService = service.NewPlaybackService(
		app.logger.With(slog.String("service", "playback")),
		app.audioEngine,
		app.eventBus,
		service.WithInitialVolume(config.Volume),
	)

	app.playlistService = service.NewPlaylistService(
		app.logger.With(slog.String("service", "playlist")),
		app.playbackService,
		app.eventBus,
		config.Playlist(),
	)

	app.themeService = service.NewThemeService(
		app.logger.With(slog.String("service", "theme")),
		app.eventBus,
	)

	app.keymap = service.NewPlayerKeymap(
		app.logger.With(slog.String("component", "keymap")),
		app.playbackService,
		app.playlistService,
	)

	// Step 5: Create the equalizer pipeline
	app.surface = spectrum.NewImageSurface(SurfaceWidth, SurfaceHeight)
	app.renderer = spectrum.NewRenderer(
		app.audioEngine.Analyser(),
		app.surface,
		spectrum.WithFrameInterval(time.Second/time.Duration(config.FrameRate)),
		spectrum.WithFrameHook(app.onFrameRendered),
	)
	app.visualizerService = service.NewVisualizerService(
		app.logger.With(slog.String("service", "visualizer")),
		app.audioEngine.Analyser(),
		app.renderer,
		app.eventBus,
	)

	// Step 6: Create UI
	switch config.UI {
	case UITerminal:
		app.terminalView = terminal.NewView()
		app.view = app.terminalView
	default:
		if config.TestFyneApp != nil {
			app.fyneApp = config.TestFyneApp
		} else {
			app.fyneApp = fyneapp.NewWithID(config.AppID)
		}
		app.mainWindow = fyneui.NewMainWindow(
			app.fyneApp,
			config.AppName,
			app.surface,
			fyne.NewSize(SurfaceWidth, SurfaceHeight),
		)
		app.view = app.mainWindow
	}

	// Step 7: Create Presenter and wire with UI
	app.presenter = presenter.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.playbackService,
		app.playlistService,
		app.themeService,
		app.keymap,
		app.eventBus,
		app.view,
	)
	if app.mainWindow != nil {
		app.mainWindow.SetController(app.presenter)
	}

	return app, nil
}

// openLogOutput picks where the log goes. A nil writer means stderr.
func openLogOutput(config Config) (io.Writer, *os.File, error) {
	if config.Log.File != "" {
		f, err := tea.LogToFile(config.Log.File, "")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, f, nil
	}
	if config.UI == UITerminal {
		return io.Discard, nil, nil
	}
	return nil, nil, nil
}

func (a *Application) initAudioEngine() error {
	if a.config.UseMockAudio {
		engine := mock.NewEngine()
		engine.SetLogger(a.logger.With(slog.String("engine", "mock")))
		engine.SetAutoplayBlocked(!a.config.Autoplay)
		a.audioEngine = engine
	} else {
		a.audioEngine = otoaudio.NewEngine(
			otoaudio.WithLogger(a.logger.With(slog.String("engine", "oto"))),
			otoaudio.WithAutoplay(a.config.Autoplay),
		)
	}

	if err := a.audioEngine.Initialize(a.config.SampleRate); err != nil {
		return fmt.Errorf("failed to initialize audio engine: %w", err)
	}
	return nil
}

func (a *Application) onFrameRendered() {
	if a.presenter != nil {
		a.presenter.OnFrameRendered()
	}
}

// Start attaches the presenter and establishes the first track.
// Playback may stay paused when the autoplay policy blocks it.
// Calling Start again returns the first result.
func (a *Application) Start() error {
	a.startOnce.Do(func() {
		a.presenter.Start()
		if err := a.playlistService.Start(); err != nil {
			a.startErr = fmt.Errorf("failed to start playlist: %w", err)
		}
	})
	return a.startErr
}

// Run starts the application and blocks until the UI exits or ctx ends.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("EQ Player started", slog.String("version", GetVersionInfo().FullString()))

	if err := a.Start(); err != nil {
		return err
	}

	if a.terminalView != nil {
		model := terminal.NewModel(a.config.AppName, a.presenter, a.terminalView, a.surface)
		return terminal.Run(ctx, model)
	}

	stop := context.AfterFunc(ctx, a.mainWindow.Close)
	defer stop()

	// Show and run UI (blocks until the window is closed)
	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.presenter != nil {
			a.presenter.Shutdown()
		}

		// Shutdown services (in reverse order of creation)
		if err := a.visualizerService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown visualizer service", slog.Any("error", err))
		}

		if err := a.playlistService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown playlist service", slog.Any("error", err))
		}

		if err := a.playbackService.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown playback service", slog.Any("error", err))
		}

		// Shutdown audio engine
		if err := a.audioEngine.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown audio engine", slog.Any("error", err))
		}

		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}

		a.logger.Info("application shutdown complete")

		if a.logFile != nil {
			_ = a.logFile.Close()
		}
	})
	return nil
}

// GetServices returns the services (for testing).
func (a *Application) GetServices() (*service.PlaybackService, *service.PlaylistService, *service.ThemeService) {
	return a.playbackService, a.playlistService, a.themeService
}

// GetVisualizer returns the visualizer service (for testing).
func (a *Application) GetVisualizer() *service.VisualizerService {
	return a.visualizerService
}

// GetPresenter returns the presenter (for testing).
func (a *Application) GetPresenter() *presenter.Presenter {
	return a.presenter
}

// GetEventBus returns the event bus (for testing).
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne app, nil for the terminal front-end.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetRenderer returns the spectrum renderer (for testing).
func (a *Application) GetRenderer() *spectrum.Renderer {
	return a.renderer
}
