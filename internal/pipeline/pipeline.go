package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kikiluvv/reelmix/internal/clips"
	"github.com/kikiluvv/reelmix/internal/config"
	"github.com/kikiluvv/reelmix/internal/ffmpeg"
	"github.com/kikiluvv/reelmix/pkg/util"
	"github.com/rs/zerolog"
)

// Pipeline selects, trims, joins, scores and writes clips in that order
type Pipeline struct {
	logger   zerolog.Logger
	config   *Config
	engine   MediaEngine
	selector FileSelector
	out      io.Writer
}

// New creates a new pipeline instance. Progress lines go to out.
func New(logger zerolog.Logger, cfg *Config, engine MediaEngine, selector FileSelector, out io.Writer) (*Pipeline, error) {
	if cfg == nil {
		cfg = ConfigFrom(config.Default())
	}
	if engine == nil {
		return nil, fmt.Errorf("media engine is required")
	}
	if selector == nil {
		return nil, fmt.Errorf("file selector is required")
	}
	if out == nil {
		out = io.Discard
	}

	return &Pipeline{
		logger:   logger.With().Str("component", "pipeline").Logger(),
		config:   cfg,
		engine:   engine,
		selector: selector,
		out:      out,
	}, nil
}

// ConfigFrom maps application settings onto the pipeline
func ConfigFrom(appCfg *config.Config) *Config {
	return &Config{
		VideoExt:      appCfg.Video.Extension,
		MusicExt:      appCfg.Music.Extension,
		ClipDuration:  appCfg.Video.ClipDuration,
		MusicDuration: appCfg.Music.Duration,
		Output:        appCfg.Output,
		VideoCodec:    appCfg.FFmpeg.VideoCodec,
		AudioCodec:    appCfg.FFmpeg.AudioCodec,
		CRF:           appCfg.FFmpeg.CRF,
		Preset:        appCfg.FFmpeg.Preset,
	}
}

// Run executes the whole pipeline once. Any failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	p.logger.Info().
		Str("folder1", opts.VideoFolder1).
		Str("folder2", opts.VideoFolder2).
		Str("music_folder", opts.MusicFolder).
		Msg("starting pipeline")

	// Stage 1: pick the videos
	video1, err := p.selector.RandomFile(opts.VideoFolder1, p.config.VideoExt)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Selected random video file from folder 1: %s\n", video1)

	video2, err := p.selector.RandomFile(opts.VideoFolder2, p.config.VideoExt)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Selected random video file from folder 2: %s\n", video2)

	// Stage 2: trim both
	trimmed1, err := p.TrimVideo(ctx, video1, p.config.ClipDuration)
	if err != nil {
		return nil, err
	}
	trimmed2, err := p.TrimVideo(ctx, video2, p.config.ClipDuration)
	if err != nil {
		return nil, err
	}

	// Stage 3: pick the music
	music, err := p.selector.RandomFile(opts.MusicFolder, p.config.MusicExt)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Selected random music file: %s\n", music)

	// Stage 4: join and score
	combined, err := p.CombineVideos(trimmed1, trimmed2)
	if err != nil {
		return nil, err
	}
	scored, err := p.AddMusic(ctx, combined, music, p.config.MusicDuration)
	if err != nil {
		return nil, err
	}

	// Stage 5: write
	if err := p.SaveResult(ctx, scored, p.config.Output); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Result video saved to: %s\n", p.config.Output)

	p.logger.Info().
		Str("output", p.config.Output).
		Str("duration", util.FormatDuration(scored.Duration())).
		Msg("pipeline complete")

	return &Result{
		Video1:   video1,
		Video2:   video2,
		Music:    music,
		Output:   p.config.Output,
		Duration: scored.Duration(),
		Clip:     scored,
	}, nil
}

// LoadVideo probes a video file into a clip covering all of it
func (p *Pipeline) LoadVideo(ctx context.Context, path string) (*clips.Clip, error) {
	info, err := p.engine.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	if !info.HasVideo {
		return nil, fmt.Errorf("failed to load video %s: %w", path, ErrNoVideoStream)
	}

	return clips.FromSource(clips.Segment{
		Source:   path,
		Start:    0,
		End:      info.Duration,
		Width:    info.Width,
		Height:   info.Height,
		FPS:      info.FPS,
		HasAudio: info.HasAudio,
	}), nil
}

// LoadAudio probes an audio file into a track covering all of it
func (p *Pipeline) LoadAudio(ctx context.Context, path string) (*clips.AudioTrack, error) {
	info, err := p.engine.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load audio: %w", err)
	}
	if !info.HasAudio {
		return nil, fmt.Errorf("failed to load audio %s: %w", path, ErrNoAudioStream)
	}

	return clips.NewAudioTrack(path, info.Duration), nil
}

// TrimVideo loads a video and keeps its first duration
func (p *Pipeline) TrimVideo(ctx context.Context, path string, duration time.Duration) (*clips.Clip, error) {
	clip, err := p.LoadVideo(ctx, path)
	if err != nil {
		return nil, err
	}

	trimmed, err := clips.Subclip(clip, 0, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to trim %s: %w", path, err)
	}

	p.logger.Debug().
		Str("input", path).
		Dur("source_duration", clip.Duration()).
		Dur("duration", trimmed.Duration()).
		Msg("video trimmed")

	return trimmed, nil
}

// CombineVideos plays the clips back-to-back
func (p *Pipeline) CombineVideos(parts ...*clips.Clip) (*clips.Clip, error) {
	combined, err := clips.Concatenate(parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to combine videos: %w", err)
	}

	p.logger.Debug().
		Int("clips", len(parts)).
		Dur("duration", combined.Duration()).
		Msg("videos combined")

	return combined, nil
}

// AddMusic replaces the clip's audio with the first duration of the music file
func (p *Pipeline) AddMusic(ctx context.Context, clip *clips.Clip, musicPath string, duration time.Duration) (*clips.Clip, error) {
	track, err := p.LoadAudio(ctx, musicPath)
	if err != nil {
		return nil, err
	}

	trimmed, err := track.Subclip(0, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to trim %s: %w", musicPath, err)
	}

	scored, err := clips.WithAudio(clip, trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to add music: %w", err)
	}

	p.logger.Debug().
		Str("music", musicPath).
		Dur("audio_duration", scored.AudioDuration()).
		Dur("video_duration", scored.Duration()).
		Msg("music added")

	return scored, nil
}

// SaveResult renders the clip to output, replacing any existing file. The
// encode goes to a temporary sibling first so a failure leaves output untouched.
func (p *Pipeline) SaveResult(ctx context.Context, clip *clips.Clip, output string) error {
	if clip == nil || len(clip.Segments) == 0 {
		return fmt.Errorf("nothing to save")
	}
	if output == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := util.EnsureDir(dir); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	tmp := util.TempSibling(output)
	opts := p.renderOptions(clip, tmp)

	if err := p.engine.Render(ctx, opts); err != nil {
		util.CleanupFiles(tmp)
		return err
	}

	if !util.FileExists(tmp) {
		return fmt.Errorf("render produced no file at %s", tmp)
	}

	if err := util.ReplaceFile(tmp, output); err != nil {
		util.CleanupFiles(tmp)
		return err
	}

	if fi, err := os.Stat(output); err == nil {
		p.logger.Info().
			Str("output", output).
			Int64("bytes", fi.Size()).
			Msg("result saved")
	}

	return nil
}

// renderOptions maps a clip onto an ffmpeg composition. The first segment
// sets the geometry and frame rate every other segment is conformed to.
func (p *Pipeline) renderOptions(clip *clips.Clip, output string) ffmpeg.RenderOptions {
	first := clip.Segments[0]

	opts := ffmpeg.RenderOptions{
		Output:     output,
		Width:      even(first.Width),
		Height:     even(first.Height),
		FPS:        first.FPS,
		Duration:   max(clip.Duration(), clip.AudioDuration()),
		VideoCodec: p.config.VideoCodec,
		AudioCodec: p.config.AudioCodec,
		CRF:        p.config.CRF,
		Preset:     p.config.Preset,
		ProgressFunc: func(pr *ffmpeg.Progress) {
			p.logger.Debug().
				Int("frame", pr.Frame).
				Float64("fps", pr.FPS).
				Str("time", pr.Time).
				Str("speed", pr.Speed).
				Float64("percent", pr.Percentage).
				Msg("encoding")
		},
	}

	for _, seg := range clip.Segments {
		opts.Segments = append(opts.Segments, ffmpeg.SegmentInput{
			Path:     seg.Source,
			Start:    seg.Start,
			End:      seg.End,
			HasAudio: seg.HasAudio,
		})
	}

	if clip.Audio != nil {
		opts.Audio = &ffmpeg.AudioInput{
			Path:  clip.Audio.Source,
			Start: clip.Audio.Start,
			End:   clip.Audio.End,
		}
	} else {
		opts.KeepSourceAudio = clip.HasSourceAudio()
	}

	return opts
}

// even rounds down to an even size, which yuv420p encoders require
func even(n int) int {
	return n - n%2
}
