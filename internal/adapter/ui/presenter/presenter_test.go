package presenter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/eqplayer/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/eqplayer/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/logger"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
	"github.com/tejashwikalptaru/eqplayer/internal/service"
)

// recordingView remembers the last value of every view update.
type recordingView struct {
	mu        sync.Mutex
	title     string
	playing   bool
	notice    bool
	volume    float64
	preset    domain.ThemePreset
	refreshes int
	updates   int
}

func (v *recordingView) SetTitle(title string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.title = title
	v.updates++
}

func (v *recordingView) SetPlayState(playing bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = playing
	v.updates++
}

func (v *recordingView) SetAutoplayNoticeVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notice = visible
	v.updates++
}

func (v *recordingView) SetVolume(volume float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.volume = volume
	v.updates++
}

func (v *recordingView) ApplyTheme(preset domain.ThemePreset) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preset = preset
	v.updates++
}

func (v *recordingView) RefreshSpectrum() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refreshes++
}

func (v *recordingView) snapshot() recordingView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return recordingView{
		title:     v.title,
		playing:   v.playing,
		notice:    v.notice,
		volume:    v.volume,
		preset:    v.preset,
		refreshes: v.refreshes,
		updates:   v.updates,
	}
}

var _ ports.PlayerView = (*recordingView)(nil)

type fixture struct {
	presenter *Presenter
	view      *recordingView
	engine    *mock.Engine
	playback  *service.PlaybackService
	playlist  *service.PlaylistService
}

// Helper to create a started presenter over a three-track playlist
func newTestPresenter(t *testing.T, blocked bool) fixture {
	t.Helper()
	log := logger.NewTestLogger()

	engine := mock.NewEngine()
	require.NoError(t, engine.Initialize(44100))
	engine.SetAutoplayBlocked(blocked)

	bus := eventbus.NewSyncEventBus()
	playback := service.NewPlaybackService(log, engine, bus)
	playlist := service.NewPlaylistService(log, playback, bus, []domain.Track{
		{ID: "a", Title: "Song Bird", Source: "aud/KennyGSaxSongBird.mp3"},
		{ID: "b", Title: "The Moment", Source: "aud/KennyGTheMoment.mp3"},
		{ID: "c", Title: "Forever in Love", Source: "aud/GForeverInLove.mp3"},
	})
	theme := service.NewThemeService(log, bus)
	keymap := service.NewPlayerKeymap(log, playback, playlist)

	view := &recordingView{}
	presenter := NewPresenter(log, playback, playlist, theme, keymap, bus, view)
	presenter.Start()

	t.Cleanup(func() {
		presenter.Shutdown()
		_ = playlist.Shutdown()
		_ = playback.Shutdown()
	})

	require.NoError(t, playlist.Start())

	return fixture{
		presenter: presenter,
		view:      view,
		engine:    engine,
		playback:  playback,
		playlist:  playlist,
	}
}

func TestPresenter_InitialState(t *testing.T) {
	f := newTestPresenter(t, false)
	view := f.view.snapshot()

	assert.Equal(t, "Song Bird", view.title)
	assert.True(t, view.playing)
	assert.False(t, view.notice)
	assert.Equal(t, 0.5, view.volume)
	assert.Equal(t, domain.ThemeNight.Preset(), view.preset)
}

func TestPresenter_AutoplayBlockedHandshake(t *testing.T) {
	f := newTestPresenter(t, true)

	view := f.view.snapshot()
	assert.Equal(t, "Song Bird", view.title)
	assert.False(t, view.playing)
	assert.True(t, view.notice)

	// Clicking play counts as the gesture and starts playback
	f.presenter.OnPlayClicked()

	view = f.view.snapshot()
	assert.True(t, view.playing)
	assert.False(t, view.notice)
	assert.Equal(t, 1, f.engine.GestureCount())
}

func TestPresenter_BlockedKeyPressStartsPlayback(t *testing.T) {
	f := newTestPresenter(t, true)

	handled, preventDefault := f.presenter.OnKeyPressed(domain.KeySpace)
	assert.True(t, handled)
	assert.True(t, preventDefault)

	view := f.view.snapshot()
	assert.True(t, view.playing)
	assert.False(t, view.notice)
}

func TestPresenter_PlayPauseToggle(t *testing.T) {
	f := newTestPresenter(t, false)

	f.presenter.OnPlayClicked()
	assert.False(t, f.view.snapshot().playing)
	assert.Equal(t, domain.StatusPaused, f.playback.GetState().Status)

	f.presenter.OnPlayClicked()
	assert.True(t, f.view.snapshot().playing)
}

func TestPresenter_TrackNavigation(t *testing.T) {
	f := newTestPresenter(t, false)

	f.presenter.OnNextClicked()
	assert.Equal(t, "The Moment", f.view.snapshot().title)
	assert.True(t, f.view.snapshot().playing)

	f.presenter.OnPreviousClicked()
	f.presenter.OnPreviousClicked()
	assert.Equal(t, "Forever in Love", f.view.snapshot().title)
	assert.Equal(t, 2, f.playlist.CurrentIndex())

	f.presenter.OnKeyPressed(domain.KeyRight)
	assert.Equal(t, "Song Bird", f.view.snapshot().title)
}

func TestPresenter_Volume(t *testing.T) {
	f := newTestPresenter(t, false)

	f.presenter.OnVolumeChanged(0.25)
	assert.Equal(t, 0.25, f.view.snapshot().volume)

	f.presenter.OnVolumeChanged(1.4)
	assert.Equal(t, 1.0, f.view.snapshot().volume)

	handled, preventDefault := f.presenter.OnKeyPressed(domain.KeyDown)
	assert.True(t, handled)
	assert.False(t, preventDefault)
	assert.InDelta(t, 0.9, f.view.snapshot().volume, 1e-12)
}

func TestPresenter_Theme(t *testing.T) {
	f := newTestPresenter(t, false)

	f.presenter.OnThemeClicked()
	assert.Equal(t, domain.ThemeDay.Preset(), f.view.snapshot().preset)

	f.presenter.OnThemeClicked()
	assert.Equal(t, domain.ThemeNight.Preset(), f.view.snapshot().preset)
}

func TestPresenter_UnboundKey(t *testing.T) {
	f := newTestPresenter(t, false)

	handled, preventDefault := f.presenter.OnKeyPressed(domain.Key("tab"))
	assert.False(t, handled)
	assert.False(t, preventDefault)
}

func TestPresenter_FrameRendered(t *testing.T) {
	f := newTestPresenter(t, false)

	f.presenter.OnFrameRendered()
	f.presenter.OnFrameRendered()
	assert.Equal(t, 2, f.view.snapshot().refreshes)
}

func TestPresenter_Shutdown(t *testing.T) {
	f := newTestPresenter(t, false)

	f.presenter.Shutdown()
	before := f.view.snapshot().updates

	require.NoError(t, f.playlist.Next())
	assert.Equal(t, before, f.view.snapshot().updates)
	assert.Equal(t, "Song Bird", f.view.snapshot().title)

	// Idempotent
	f.presenter.Shutdown()
}
