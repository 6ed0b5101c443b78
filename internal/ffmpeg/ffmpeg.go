package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xfrr/goffmpeg"
)

// tailLines is how many ffmpeg log lines are kept for error messages
const tailLines = 5

// Executor handles all ffmpeg operations with progress streaming
type Executor struct {
	logger     zerolog.Logger
	ffmpegPath string
	probeCfg   goffmpeg.Configuration
	threads    int
}

// New locates ffmpeg and ffprobe once; renders and probes reuse the paths
func New(ctx context.Context, logger zerolog.Logger, threads int) (*Executor, error) {
	probeCfg, err := goffmpeg.Configure(ctx)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg tools not found: %w", err)
	}

	return &Executor{
		logger:     logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath: probeCfg.FFmpegBinPath(),
		probeCfg:   probeCfg,
		threads:    threads,
	}, nil
}

// Run executes ffmpeg with the given arguments and streams progress
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	// Build args with threads BEFORE other arguments
	baseArgs := []string{"-y", "-hide_banner", "-nostdin", "-nostats", "-loglevel", "info"}

	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", strconv.Itoa(e.threads))
	}

	baseArgs = append(baseArgs, "-progress", "pipe:2")
	args := append(baseArgs, opts.Args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var (
		wg   sync.WaitGroup
		tail []string
	)
	wg.Add(2)

	// Stream stderr (progress + logs)
	go func() {
		defer wg.Done()
		tail = e.streamOutput(stderr, opts)
	}()

	// Stream stdout
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if opts.LogHandler != nil {
				opts.LogHandler(scanner.Text())
			}
		}
	}()

	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if len(tail) > 0 {
			return fmt.Errorf("ffmpeg execution failed: %w: %s", err, strings.Join(tail, " | "))
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}

// streamOutput parses ffmpeg output, calls handlers and returns the last log lines
func (e *Executor) streamOutput(r io.Reader, opts RunOptions) []string {
	scanner := bufio.NewScanner(r)
	progressData := &Progress{}
	var tail []string

	for scanner.Scan() {
		line := scanner.Text()

		key, value, isProgress := parseProgressLine(line)
		if !isProgress {
			if opts.LogHandler != nil {
				opts.LogHandler(line)
			}
			if strings.TrimSpace(line) != "" {
				tail = append(tail, strings.TrimSpace(line))
				if len(tail) > tailLines {
					tail = tail[1:]
				}
			}
			continue
		}

		switch key {
		case "frame":
			progressData.Frame, _ = strconv.Atoi(value)
		case "fps":
			progressData.FPS, _ = strconv.ParseFloat(value, 64)
		case "bitrate":
			progressData.Bitrate = value
		case "out_time":
			progressData.Time = value
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && opts.Duration > 0 {
				progressData.Percentage = min(100, float64(us)/float64(opts.Duration.Microseconds())*100)
			}
		case "speed":
			progressData.Speed = value
		case "progress":
			// End of progress block
			if opts.ProgressHandler != nil && progressData.Frame > 0 {
				opts.ProgressHandler(progressData)
			}
			progressData = &Progress{}
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		e.logger.Debug().Err(err).Msg("reading ffmpeg output")
	}

	return tail
}

// parseProgressLine recognises the key=value lines written by -progress
func parseProgressLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found || key == "" || strings.ContainsAny(key, " \t[") {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}
