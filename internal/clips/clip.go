package clips

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange is returned for windows with start < 0 or end <= start
	ErrInvalidRange = errors.New("invalid range: end must be after start")
	// ErrOutOfRange is returned when a window ends past the media's duration
	ErrOutOfRange = errors.New("range exceeds media duration")
	// ErrNoClips is returned when concatenating nothing
	ErrNoClips = errors.New("no clips to concatenate")
	// ErrIncompatibleClip is returned for nil, empty or soundtracked clips in a sequence
	ErrIncompatibleClip = errors.New("incompatible clip")
)

// Segment is a window [Start, End) of one source video
type Segment struct {
	Source   string
	Start    time.Duration
	End      time.Duration
	Width    int
	Height   int
	FPS      float64
	HasAudio bool
}

// Duration returns the segment length
func (s Segment) Duration() time.Duration {
	return s.End - s.Start
}

// AudioTrack is a window [Start, End) of one audio source
type AudioTrack struct {
	Source         string
	Start          time.Duration
	End            time.Duration
	SourceDuration time.Duration
}

// NewAudioTrack covers the whole source
func NewAudioTrack(source string, duration time.Duration) *AudioTrack {
	return &AudioTrack{
		Source:         source,
		Start:          0,
		End:            duration,
		SourceDuration: duration,
	}
}

// Duration returns the track length
func (a *AudioTrack) Duration() time.Duration {
	return a.End - a.Start
}

// Subclip returns the part of the track between start and end, relative to the track
func (a *AudioTrack) Subclip(start, end time.Duration) (*AudioTrack, error) {
	if err := checkRange(start, end, a.Duration()); err != nil {
		return nil, err
	}
	return &AudioTrack{
		Source:         a.Source,
		Start:          a.Start + start,
		End:            a.Start + end,
		SourceDuration: a.SourceDuration,
	}, nil
}

// Clip is an immutable description of video content: segments played in order,
// optionally scored with an audio track that replaces the segments' own audio.
type Clip struct {
	Segments []Segment
	Audio    *AudioTrack
}

// FromSource creates a clip covering a whole probed video
func FromSource(seg Segment) *Clip {
	return &Clip{Segments: []Segment{seg}}
}

// Duration returns the total playing time
func (c *Clip) Duration() time.Duration {
	var total time.Duration
	for _, seg := range c.Segments {
		total += seg.Duration()
	}
	return total
}

// AudioDuration returns the length of the audio that plays with the clip:
// the attached track if any, else the full duration when every segment has sound.
func (c *Clip) AudioDuration() time.Duration {
	if c.Audio != nil {
		return c.Audio.Duration()
	}
	if c.HasSourceAudio() {
		return c.Duration()
	}
	return 0
}

// HasSourceAudio reports whether every segment carries its own audio
func (c *Clip) HasSourceAudio() bool {
	if len(c.Segments) == 0 {
		return false
	}
	for _, seg := range c.Segments {
		if !seg.HasAudio {
			return false
		}
	}
	return true
}

// Subclip returns the part of c between start and end
func Subclip(c *Clip, start, end time.Duration) (*Clip, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil clip", ErrIncompatibleClip)
	}
	if err := checkRange(start, end, c.Duration()); err != nil {
		return nil, err
	}

	out := &Clip{}
	var offset time.Duration
	for _, seg := range c.Segments {
		segStart, segEnd := offset, offset+seg.Duration()
		offset = segEnd

		if segEnd <= start || segStart >= end {
			continue
		}

		cut := seg
		if start > segStart {
			cut.Start += start - segStart
		}
		if end < segEnd {
			cut.End -= segEnd - end
		}
		out.Segments = append(out.Segments, cut)
	}

	if c.Audio != nil {
		audioEnd := min(end, c.Audio.Duration())
		if start < audioEnd {
			audio, err := c.Audio.Subclip(start, audioEnd)
			if err != nil {
				return nil, err
			}
			out.Audio = audio
		}
	}

	return out, nil
}

// Concatenate plays the clips back-to-back. Clips carrying an attached audio
// track are rejected; attach audio after concatenating.
func Concatenate(clips ...*Clip) (*Clip, error) {
	if len(clips) == 0 {
		return nil, ErrNoClips
	}

	out := &Clip{}
	for i, c := range clips {
		if c == nil {
			return nil, fmt.Errorf("%w: clip %d is nil", ErrIncompatibleClip, i)
		}
		if c.Audio != nil {
			return nil, fmt.Errorf("%w: clip %d already has an attached audio track", ErrIncompatibleClip, i)
		}
		if len(c.Segments) == 0 {
			return nil, fmt.Errorf("%w: clip %d is empty", ErrIncompatibleClip, i)
		}
		out.Segments = append(out.Segments, c.Segments...)
	}

	return out, nil
}

// WithAudio returns a copy of c whose only audio is track
func WithAudio(c *Clip, track *AudioTrack) (*Clip, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil clip", ErrIncompatibleClip)
	}
	if track == nil {
		return nil, fmt.Errorf("%w: nil audio track", ErrIncompatibleClip)
	}

	segments := make([]Segment, len(c.Segments))
	copy(segments, c.Segments)

	t := *track
	return &Clip{Segments: segments, Audio: &t}, nil
}

func checkRange(start, end, duration time.Duration) error {
	if start < 0 || end <= start {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, start, end)
	}
	if end > duration {
		return fmt.Errorf("%w: end %v is past duration %v", ErrOutOfRange, end, duration)
	}
	return nil
}
