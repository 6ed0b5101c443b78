package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Output is written relative to the working directory unless absolute
	Output string `yaml:"output"`

	Video  VideoConfig  `yaml:"video"`
	Music  MusicConfig  `yaml:"music"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
}

type VideoConfig struct {
	Extension    string        `yaml:"extension"`
	ClipDuration time.Duration `yaml:"clip_duration"`
}

type MusicConfig struct {
	Extension string        `yaml:"extension"`
	Duration  time.Duration `yaml:"duration"`
}

type FFmpegConfig struct {
	Threads    int    `yaml:"threads"`
	Preset     string `yaml:"preset"`
	CRF        int    `yaml:"crf"`
	VideoCodec string `yaml:"video_codec"`
	AudioCodec string `yaml:"audio_codec"`
}

// Load reads configuration from path. An empty path means the built-in
// defaults; a named file that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Default returns the built-in settings: 2s video clips, 5s of music, result.mp4
func Default() *Config {
	return &Config{
		Output: "result.mp4",
		Video: VideoConfig{
			Extension:    ".mp4",
			ClipDuration: 2 * time.Second,
		},
		Music: MusicConfig{
			Extension: ".mp3",
			Duration:  5 * time.Second,
		},
		FFmpeg: FFmpegConfig{
			Threads:    0,
			Preset:     "medium",
			CRF:        23,
			VideoCodec: "libx264",
			AudioCodec: "aac",
		},
	}
}

// Validate checks the settings the pipeline relies on
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if filepath.Ext(c.Output) == "" {
		return fmt.Errorf("output %q has no extension to infer a container from", c.Output)
	}
	if !strings.HasPrefix(c.Video.Extension, ".") {
		return fmt.Errorf("video extension %q must start with a dot", c.Video.Extension)
	}
	if !strings.HasPrefix(c.Music.Extension, ".") {
		return fmt.Errorf("music extension %q must start with a dot", c.Music.Extension)
	}
	if c.Video.ClipDuration <= 0 {
		return fmt.Errorf("video clip duration must be positive")
	}
	if c.Music.Duration <= 0 {
		return fmt.Errorf("music duration must be positive")
	}
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 51 {
		return fmt.Errorf("CRF must be between 0 and 51")
	}
	if c.FFmpeg.Threads < 0 {
		return fmt.Errorf("threads cannot be negative")
	}
	return nil
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
