package ffmpeg

import "time"

// MediaInfo contains metadata about a media file
type MediaInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	HasVideo   bool
	VideoCodec string
	HasAudio   bool
	AudioCodec string

	// Per-stream lengths; zero when the container does not report them
	VideoDuration time.Duration
	AudioDuration time.Duration
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame      int
	FPS        float64
	Bitrate    string
	Time       string
	Speed      string
	Percentage float64
}

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
	// Duration of the expected output, used to fill Progress.Percentage
	Duration time.Duration
}

// Default encoding settings
const (
	DefaultCRF        = 23
	DefaultPreset     = "medium"
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
	DefaultPixFmt     = "yuv420p"
)

// SegmentInput is a window of one source video inside a composition
type SegmentInput struct {
	Path     string
	Start    time.Duration
	End      time.Duration
	HasAudio bool
}

// AudioInput is a window of one audio source used as the soundtrack
type AudioInput struct {
	Path  string
	Start time.Duration
	End   time.Duration
}

// RenderOptions configures a composition render: segments are played in
// order, conformed to Width x Height at FPS, and scored with Audio or with
// their own sound when KeepSourceAudio is set.
type RenderOptions struct {
	Segments        []SegmentInput
	Audio           *AudioInput
	KeepSourceAudio bool
	Output          string
	Width           int
	Height          int
	FPS             float64
	// Duration is the expected output length, used only for progress.
	// Each stream keeps its own length.
	Duration     time.Duration
	VideoCodec   string
	AudioCodec   string
	CRF          int
	Preset       string
	ProgressFunc ProgressFunc
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
// Called periodically with progress information as the operation executes.
type ProgressFunc func(*Progress)
