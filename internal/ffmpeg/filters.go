package ffmpeg

import (
	"fmt"
	"strings"
	"time"

	"github.com/kikiluvv/reelmix/pkg/util"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// Trim keeps video frames between start and end
func (fb *FilterBuilder) Trim(start, end time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf("trim=start=%s:end=%s", util.FormatSeconds(start), util.FormatSeconds(end)))
	return fb
}

// ATrim keeps audio samples between start and end
func (fb *FilterBuilder) ATrim(start, end time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf("atrim=start=%s:end=%s", util.FormatSeconds(start), util.FormatSeconds(end)))
	return fb
}

// ResetPTS restarts video timestamps at zero, needed after trim
func (fb *FilterBuilder) ResetPTS() *FilterBuilder {
	fb.filters = append(fb.filters, "setpts=PTS-STARTPTS")
	return fb
}

// ResetAudioPTS restarts audio timestamps at zero, needed after atrim
func (fb *FilterBuilder) ResetAudioPTS() *FilterBuilder {
	fb.filters = append(fb.filters, "asetpts=PTS-STARTPTS")
	return fb
}

// Scale adds a scale filter
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		// Return self without adding filter - allows chaining to continue
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=%d:%d", width, height))
	return fb
}

// Letterbox fits the picture inside width x height and pads the rest with black
func (fb *FilterBuilder) Letterbox(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height),
		"setsar=1",
	)
	return fb
}

// FPS adds an fps filter
func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%f", fps))
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}

// Labeled returns the chain wired from input pads to output pads,
// e.g. "[0:v]trim=...[v0]". An empty chain becomes a passthrough.
func (fb *FilterBuilder) Labeled(in, out string) string {
	chain := fb.Build()
	if chain == "" {
		chain = "null"
	}
	return pad(in) + chain + pad(out)
}

// FilterGraph collects labeled chains for -filter_complex
type FilterGraph struct {
	chains []string
}

// Add appends a labeled chain
func (g *FilterGraph) Add(chain string) *FilterGraph {
	g.chains = append(g.chains, chain)
	return g
}

// Concat joins n segments; inputs are listed segment by segment (video then audio)
func (g *FilterGraph) Concat(inputs []string, n int, withAudio bool, videoOut, audioOut string) *FilterGraph {
	a := 0
	outs := pad(videoOut)
	if withAudio {
		a = 1
		outs += pad(audioOut)
	}

	var in strings.Builder
	for _, label := range inputs {
		in.WriteString(pad(label))
	}

	return g.Add(fmt.Sprintf("%sconcat=n=%d:v=1:a=%d%s", in.String(), n, a, outs))
}

// String returns the graph in -filter_complex syntax
func (g *FilterGraph) String() string {
	return strings.Join(g.chains, ";")
}

func pad(label string) string {
	if label == "" {
		return ""
	}
	return "[" + label + "]"
}
