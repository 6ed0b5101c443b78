package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/kikiluvv/reelmix/internal/clips"
	"github.com/kikiluvv/reelmix/internal/ffmpeg"
)

var (
	// ErrNoVideoStream is returned when a file picked as video has no picture
	ErrNoVideoStream = errors.New("no video stream")
	// ErrNoAudioStream is returned when a file picked as music has no sound
	ErrNoAudioStream = errors.New("no audio stream")
)

// MediaEngine probes and renders media; *ffmpeg.Executor is the real one
type MediaEngine interface {
	Probe(ctx context.Context, path string) (*ffmpeg.MediaInfo, error)
	Render(ctx context.Context, opts ffmpeg.RenderOptions) error
}

// FileSelector picks a file with a given extension from a folder
type FileSelector interface {
	RandomFile(dir, ext string) (string, error)
}

// Options are the three source folders of a run
type Options struct {
	VideoFolder1 string
	VideoFolder2 string
	MusicFolder  string
}

// Result describes a finished run
type Result struct {
	Video1   string
	Video2   string
	Music    string
	Output   string
	Duration time.Duration
	Clip     *clips.Clip
}

// Config holds pipeline-specific configuration
type Config struct {
	VideoExt      string
	MusicExt      string
	ClipDuration  time.Duration
	MusicDuration time.Duration
	Output        string

	VideoCodec string
	AudioCodec string
	CRF        int
	Preset     string
}
