package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/kikiluvv/reelmix/pkg/util"
	"github.com/xfrr/goffmpeg/media"
	"github.com/xfrr/goffmpeg/transcoder"
)

// Probe extracts metadata from a media file. A file ffprobe cannot read, or
// one without a usable duration, is reported as an error.
func (e *Executor) Probe(ctx context.Context, filePath string) (*MediaInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Debug().Str("input", filePath).Msg("probing media")

	trans := new(transcoder.Transcoder)
	trans.SetConfiguration(e.probeCfg)
	if err := trans.Initialize(filePath, ""); err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", filePath, err)
	}

	info, err := mediaInfoFromMetadata(filePath, trans.MediaFile().Metadata())
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("input", filePath).
		Dur("duration", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Bool("has_video", info.HasVideo).
		Bool("has_audio", info.HasAudio).
		Msg("probe complete")

	return info, nil
}

// mediaInfoFromMetadata maps goffmpeg's ffprobe output onto MediaInfo
func mediaInfoFromMetadata(filePath string, metadata media.Metadata) (*MediaInfo, error) {
	info := &MediaInfo{
		FilePath: filePath,
	}

	if dur, err := util.ParseSeconds(metadata.Format.Duration); err == nil {
		info.Duration = dur
	}

	for _, stream := range metadata.Streams {
		switch stream.CodecType {
		case "video":
			if info.HasVideo {
				continue
			}
			info.HasVideo = true
			info.VideoDuration = streamDuration(stream)
			info.Width = stream.Width
			info.Height = stream.Height
			info.VideoCodec = stream.CodecName

			// Calculate FPS from r_frame_rate (e.g., "30/1")
			if stream.RFrameRrate != "" {
				info.FPS = util.ParseFrameRate(stream.RFrameRrate)
			}
		case "audio":
			if info.HasAudio {
				continue
			}
			info.HasAudio = true
			info.AudioDuration = streamDuration(stream)
			info.AudioCodec = stream.CodecName
		default:
			continue
		}

		// Some containers only report duration per stream
		if info.Duration == 0 {
			info.Duration = streamDuration(stream)
		}
	}

	if !info.HasVideo && !info.HasAudio {
		return nil, fmt.Errorf("no audio or video streams in %s", filePath)
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("could not determine duration of %s", filePath)
	}

	return info, nil
}

func streamDuration(stream media.Streams) time.Duration {
	dur, err := util.ParseSeconds(stream.Duration)
	if err != nil {
		return 0
	}
	return dur
}
