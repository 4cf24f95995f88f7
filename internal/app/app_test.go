package app

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/testutil"
)

func newTestConfig(t *testing.T) Config {
	t.Helper()
	config := DefaultConfig()
	config.UseMockAudio = true
	config.TestFyneApp = test.NewTempApp(t)
	config.Log.Level = "ERROR"
	return config
}

func newTestApplication(t *testing.T, config Config) *Application {
	t.Helper()
	app, err := NewApplication(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown() })
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))

	// Verify all services were created
	playback, playlist, theme := app.GetServices()
	assert.NotNil(t, playback)
	assert.NotNil(t, playlist)
	assert.NotNil(t, theme)
	assert.NotNil(t, app.GetVisualizer())
	assert.NotNil(t, app.GetPresenter())
	assert.NotNil(t, app.GetRenderer())

	// Verify event bus was created
	assert.NotNil(t, app.GetEventBus())

	// Verify Fyne app was created
	assert.NotNil(t, app.GetFyneApp())

	assert.Len(t, playlist.Tracks(), 3)
	assert.Equal(t, domain.ThemeNight, theme.Current())
	assert.Equal(t, 0.5, playback.GetVolume())
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	config := newTestConfig(t)
	config.Volume = 2

	app, err := NewApplication(config)
	assert.Nil(t, app)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "volume", validationErr.Field)
}

func TestApplication_StartBlockedUntilGesture(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	playback, playlist, _ := app.GetServices()

	require.NoError(t, app.Start())

	state := playback.GetState()
	require.NotNil(t, state.CurrentTrack)
	assert.Equal(t, "Song Bird", state.CurrentTrack.Title)
	assert.Equal(t, 0, playlist.CurrentIndex())
	assert.False(t, state.IsPlaying())
	assert.Equal(t, domain.VisualizerIdle, app.GetVisualizer().State())

	app.GetPresenter().OnPlayClicked()

	assert.True(t, playback.GetState().IsPlaying())
	assert.Eventually(t, func() bool {
		return app.GetVisualizer().State() == domain.VisualizerRunning
	}, time.Second, 5*time.Millisecond)
}

func TestApplication_StartWithAutoplay(t *testing.T) {
	config := newTestConfig(t)
	config.Autoplay = true
	app := newTestApplication(t, config)
	playback, _, _ := app.GetServices()

	require.NoError(t, app.Start())
	// Start again must not reload the track
	require.NoError(t, app.Start())

	assert.True(t, playback.GetState().IsPlaying())
	assert.Eventually(t, func() bool {
		return app.GetVisualizer().State() == domain.VisualizerRunning
	}, time.Second, 5*time.Millisecond)
}

func TestApplication_KeyboardThroughPresenter(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	playback, playlist, _ := app.GetServices()
	require.NoError(t, app.Start())

	handled, _ := app.GetPresenter().OnKeyPressed(domain.KeyRight)
	assert.True(t, handled)
	assert.Equal(t, 1, playlist.CurrentIndex())
	assert.True(t, playback.GetState().IsPlaying())

	app.GetPresenter().OnKeyPressed(domain.KeyDown)
	assert.InDelta(t, 0.4, playback.GetVolume(), 1e-9)
}

func TestApplication_TerminalMode(t *testing.T) {
	config := DefaultConfig()
	config.UseMockAudio = true
	config.UI = UITerminal
	config.Log.Level = "ERROR"

	app := newTestApplication(t, config)

	assert.Nil(t, app.GetFyneApp())
	assert.NotNil(t, app.terminalView)
	require.NoError(t, app.Start())
}

// captureStderr points os.Stderr at a temp file for the rest of the test.
func captureStderr(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	orig := os.Stderr
	os.Stderr = f
	t.Cleanup(func() {
		os.Stderr = orig
		_ = f.Close()
	})
	return f
}

func newTerminalConfig() Config {
	config := DefaultConfig()
	config.UseMockAudio = true
	config.UI = UITerminal
	config.Log.Level = "DEBUG"
	return config
}

func TestApplication_TerminalModeKeepsStderrClean(t *testing.T) {
	stderr := captureStderr(t)

	app := newTestApplication(t, newTerminalConfig())
	require.NoError(t, app.Start())
	app.GetPresenter().OnKeyPressed(domain.KeyRight)
	require.NoError(t, app.Shutdown())

	info, err := stderr.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestApplication_LogFile(t *testing.T) {
	stderr := captureStderr(t)
	path := filepath.Join(t.TempDir(), "eqplayer.log")
	stdLog := log.Writer()
	t.Cleanup(func() { log.SetOutput(stdLog) })

	config := newTerminalConfig()
	config.Log.File = path
	app := newTestApplication(t, config)
	require.NoError(t, app.Start())
	require.NoError(t, app.Shutdown())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "changing track")

	info, err := stderr.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestApplicationLifecycle(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreFyneGoroutines()...)

	app, err := NewApplication(newTestConfig(t))
	require.NoError(t, err)
	require.NoError(t, app.Start())
	app.GetPresenter().OnPlayClicked()

	// Shutdown
	err = app.Shutdown()
	assert.NoError(t, err)

	// Shutdown again should not panic
	err = app.Shutdown()
	assert.NoError(t, err)

	assert.Equal(t, domain.VisualizerIdle, app.GetVisualizer().State())
}

func TestVersionInfo(t *testing.T) {
	info := VersionInfo{Version: "1.2.3", GitCommit: "abc", BuildTime: "now"}
	assert.Equal(t, "EQ Player 1.2.3 (commit: abc, built: now)", info.FullString())

	info.GitTag = "v1.2.4"
	assert.Contains(t, info.FullString(), "v1.2.4")
}
