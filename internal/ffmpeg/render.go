package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kikiluvv/reelmix/pkg/util"
)

// Render encodes a composition to opts.Output in a single ffmpeg pass
func (e *Executor) Render(ctx context.Context, opts RenderOptions) error {
	args, err := BuildRenderArgs(opts)
	if err != nil {
		return fmt.Errorf("invalid render options: %w", err)
	}

	e.logger.Info().
		Int("segments", len(opts.Segments)).
		Bool("soundtrack", opts.Audio != nil).
		Dur("duration", opts.Duration).
		Str("output", opts.Output).
		Msg("starting render")

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		Duration:        opts.Duration,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("render output")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("render completed")
	return nil
}

// BuildRenderArgs turns a composition into ffmpeg arguments. Each segment is
// trimmed, letterboxed into Width x Height, resampled to FPS and concatenated;
// the soundtrack (if any) is trimmed and mapped as the only audio stream.
// Nothing cuts one stream to the length of the other.
func BuildRenderArgs(opts RenderOptions) ([]string, error) {
	if err := validateRenderOptions(opts); err != nil {
		return nil, err
	}

	var args []string
	for _, seg := range opts.Segments {
		args = append(args, "-i", seg.Path)
	}
	if opts.Audio != nil {
		args = append(args, "-i", opts.Audio.Path)
	}

	graph := &FilterGraph{}
	var concatInputs []string
	for i, seg := range opts.Segments {
		video := fmt.Sprintf("v%d", i)
		graph.Add(NewFilterBuilder().
			Trim(seg.Start, seg.End).
			ResetPTS().
			Letterbox(opts.Width, opts.Height).
			FPS(opts.FPS).
			Labeled(fmt.Sprintf("%d:v:0", i), video))
		concatInputs = append(concatInputs, video)

		if opts.KeepSourceAudio {
			audio := fmt.Sprintf("a%d", i)
			graph.Add(NewFilterBuilder().
				ATrim(seg.Start, seg.End).
				ResetAudioPTS().
				Labeled(fmt.Sprintf("%d:a:0", i), audio))
			concatInputs = append(concatInputs, audio)
		}
	}

	graph.Concat(concatInputs, len(opts.Segments), opts.KeepSourceAudio, "outv", "outa")

	if opts.Audio != nil {
		graph.Add(NewFilterBuilder().
			ATrim(opts.Audio.Start, opts.Audio.End).
			ResetAudioPTS().
			Labeled(fmt.Sprintf("%d:a:0", len(opts.Segments)), "outa"))
	}

	args = append(args, "-filter_complex", graph.String(), "-map", "[outv]")
	hasAudio := opts.Audio != nil || opts.KeepSourceAudio
	if hasAudio {
		args = append(args, "-map", "[outa]")
	}

	// Video codec settings
	videoCodec := opts.VideoCodec
	if videoCodec == "" {
		videoCodec = DefaultVideoCodec
	}
	args = append(args, "-c:v", videoCodec)

	// Quality settings
	crf := opts.CRF
	if crf == 0 {
		crf = DefaultCRF
	}
	args = append(args, "-crf", strconv.Itoa(crf))

	preset := opts.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	args = append(args, "-preset", preset, "-pix_fmt", DefaultPixFmt)

	if hasAudio {
		audioCodec := opts.AudioCodec
		if audioCodec == "" {
			audioCodec = DefaultAudioCodec
		}
		args = append(args, "-c:a", audioCodec)
	}

	switch strings.ToLower(util.GetExtension(opts.Output)) {
	case ".mp4", ".mov", ".m4v":
		args = append(args, "-movflags", "+faststart")
	}

	args = append(args, opts.Output)
	return args, nil
}

// validateRenderOptions validates the render options
func validateRenderOptions(opts RenderOptions) error {
	if len(opts.Segments) == 0 {
		return fmt.Errorf("at least one segment is required")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if util.GetExtension(opts.Output) == "" {
		return fmt.Errorf("output path %q needs an extension to pick a container", opts.Output)
	}
	for i, seg := range opts.Segments {
		if seg.Path == "" {
			return fmt.Errorf("segment %d: input path is required", i)
		}
		if seg.Start < 0 || seg.End <= seg.Start {
			return fmt.Errorf("segment %d: end must be after start", i)
		}
		if opts.KeepSourceAudio && !seg.HasAudio {
			return fmt.Errorf("segment %d: has no audio to keep", i)
		}
	}
	if opts.Audio != nil {
		if opts.KeepSourceAudio {
			return fmt.Errorf("soundtrack and source audio are mutually exclusive")
		}
		if opts.Audio.Path == "" {
			return fmt.Errorf("soundtrack path is required")
		}
		if opts.Audio.Start < 0 || opts.Audio.End <= opts.Audio.Start {
			return fmt.Errorf("soundtrack end must be after start")
		}
	}
	if opts.CRF < 0 || opts.CRF > 51 {
		return fmt.Errorf("CRF must be between 0 and 51")
	}
	if opts.FPS < 0 {
		return fmt.Errorf("FPS cannot be negative")
	}
	if opts.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}
