package ffmpeg

import (
	"testing"
	"time"

	"github.com/xfrr/goffmpeg/media"
)

func TestMediaInfoFromMetadataVideo(t *testing.T) {
	md := media.Metadata{
		Format: media.Format{Duration: "3.000000"},
		Streams: []media.Streams{
			{CodecType: "video", CodecName: "h264", Width: 320, Height: 240, RFrameRrate: "30/1", Duration: "2.000000"},
			{CodecType: "audio", CodecName: "aac", Duration: "3.000000"},
		},
	}

	info, err := mediaInfoFromMetadata("a.mp4", md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Duration != 3*time.Second {
		t.Errorf("expected 3s, got %v", info.Duration)
	}
	if !info.HasVideo || info.Width != 320 || info.Height != 240 || info.FPS != 30 {
		t.Errorf("unexpected video info: %+v", info)
	}
	if !info.HasAudio || info.AudioCodec != "aac" || info.VideoCodec != "h264" {
		t.Errorf("unexpected codecs: %+v", info)
	}
	if info.VideoDuration != 2*time.Second || info.AudioDuration != 3*time.Second {
		t.Errorf("expected 2s video and 3s audio streams, got %v and %v", info.VideoDuration, info.AudioDuration)
	}
}

func TestMediaInfoFromMetadataAudioOnly(t *testing.T) {
	md := media.Metadata{
		Format: media.Format{Duration: "N/A"},
		Streams: []media.Streams{
			{CodecType: "audio", CodecName: "mp3", Duration: "10.000000"},
		},
	}

	info, err := mediaInfoFromMetadata("m.mp3", md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.HasVideo {
		t.Error("audio file should not report video")
	}
	if info.Duration != 10*time.Second {
		t.Errorf("expected stream duration fallback of 10s, got %v", info.Duration)
	}
}

func TestMediaInfoFromMetadataErrors(t *testing.T) {
	if _, err := mediaInfoFromMetadata("x.txt", media.Metadata{}); err == nil {
		t.Error("expected error for file without streams")
	}

	noDuration := media.Metadata{
		Streams: []media.Streams{{CodecType: "video", Width: 10, Height: 10}},
	}
	if _, err := mediaInfoFromMetadata("x.mp4", noDuration); err == nil {
		t.Error("expected error for file without duration")
	}
}
