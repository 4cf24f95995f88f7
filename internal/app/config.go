package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/BurntSushi/toml"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/logger"
	"github.com/tejashwikalptaru/eqplayer/internal/metadata"
)

// Front-ends.
const (
	UIFyne     = "fyne"
	UITerminal = "terminal"
)

// Config holds application configuration.
// It is read from a TOML file; fields missing in the file keep their defaults.
type Config struct {
	// AppID is the unique application identifier
	AppID string `toml:"app_id"`

	// AppName is the display name
	AppName string `toml:"app_name"`

	// Volume is the initial output gain (0.0 to 1.0)
	Volume float64 `toml:"volume"`

	// Autoplay lets playback start without a prior user interaction
	Autoplay bool `toml:"autoplay"`

	// FrameRate is the equalizer refresh rate in frames per second
	FrameRate int `toml:"frame_rate"`

	// UI selects the front-end: "fyne" or "terminal"
	UI string `toml:"ui"`

	// UseMockAudio determines whether to use a mock audio engine (for testing)
	UseMockAudio bool `toml:"mock_audio"`

	// SampleRate is the audio output sample rate
	SampleRate int `toml:"sample_rate"`

	Log LogConfig `toml:"log"`

	// Tracks is the playlist in playback order
	Tracks []TrackConfig `toml:"track"`

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App `toml:"-"`
}

// LogConfig is the [log] table.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`

	// File receives the log. The terminal front-end discards the log
	// when it is empty, since stderr is the screen it draws on.
	File string `toml:"file"`
}

// TrackConfig is one [[track]] entry.
type TrackConfig struct {
	Title string `toml:"title"`
	Path  string `toml:"path"`
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:      "com.eqplayer.app",
		AppName:    "EQ Player",
		Volume:     0.5,
		FrameRate:  60,
		UI:         UIFyne,
		SampleRate: 44100,
		Log: LogConfig{
			Level:  loggerCfg.Level.String(),
			Format: loggerCfg.Format,
		},
		Tracks: []TrackConfig{
			{Title: "Song Bird", Path: "aud/KennyGSaxSongBird.mp3"},
			{Title: "The Moment", Path: "aud/KennyGTheMoment.mp3"},
			{Title: "Forever in Love", Path: "aud/GForeverInLove.mp3"},
		},
	}
}

// LoadConfig reads a TOML file over DefaultConfig.
// Relative track paths are resolved against the directory of the file.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	defaults := cfg.Tracks
	cfg.Tracks = nil

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return Config{}, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if !md.IsDefined("track") {
		cfg.Tracks = defaults
		return cfg, nil
	}

	dir := filepath.Dir(path)
	for i, track := range cfg.Tracks {
		if track.Path != "" && !filepath.IsAbs(track.Path) {
			cfg.Tracks[i].Path = filepath.Join(dir, track.Path)
		}
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return domain.NewValidationError("volume", c.Volume, "must be between 0.0 and 1.0")
	}
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		return domain.NewValidationError("frame_rate", c.FrameRate, "must be between 1 and 240")
	}
	if c.SampleRate <= 0 {
		return domain.NewValidationError("sample_rate", c.SampleRate, "must be positive")
	}
	if c.UI != UIFyne && c.UI != UITerminal {
		return domain.NewValidationError("ui", c.UI, "must be fyne or terminal")
	}
	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return domain.NewValidationError("log.level", c.Log.Level, "must be DEBUG, INFO, WARN or ERROR")
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return domain.NewValidationError("log.format", c.Log.Format, "must be text or json")
	}
	if len(c.Tracks) == 0 {
		return domain.NewValidationError("track", len(c.Tracks), "at least one track is required")
	}
	for i, track := range c.Tracks {
		if strings.TrimSpace(track.Path) == "" {
			return domain.NewValidationError(fmt.Sprintf("track[%d].path", i), track.Path, "must not be empty")
		}
	}
	return nil
}

// LoggerConfig returns the logger configuration of the [log] table.
func (c Config) LoggerConfig() logger.Config {
	level, ok := logger.ParseLevel(c.Log.Level)
	if !ok {
		level = slog.LevelInfo
	}
	return logger.Config{
		Level:  level,
		Format: c.Log.Format,
	}
}

// Playlist builds the tracks. Missing titles come from tags, then the file name.
func (c Config) Playlist() []domain.Track {
	tracks := make([]domain.Track, 0, len(c.Tracks))
	for i, entry := range c.Tracks {
		tracks = append(tracks, metadata.Fill(domain.Track{
			ID:     strconv.Itoa(i),
			Title:  entry.Title,
			Source: entry.Path,
		}))
	}
	return tracks
}
