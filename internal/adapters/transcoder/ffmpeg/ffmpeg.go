package ffmpeg

import (
	"audiopress/internal/config"
	"audiopress/internal/core/domain"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

const diagnosticTailBytes = 500

type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Adapter shells out to ffmpeg and ffprobe. Every invocation runs under
// the configured wall-clock deadline; on expiry the process is killed.
type Adapter struct {
	cfg    config.TranscodeConfig
	logger *slog.Logger
	run    runner
}

// NewAdapter returns Adapter
func NewAdapter(cfg config.TranscodeConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		cfg:    cfg,
		logger: logger,
		run:    runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}

// Transform rewrites the audio at inputPath into a compact mono Opus/OGG
// rendition at outputPath
func (a *Adapter) Transform(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-ar", strconv.Itoa(a.cfg.SampleRate),
		"-ac", strconv.Itoa(a.cfg.Channels),
		"-b:a", a.cfg.Bitrate,
		"-c:a", "libopus",
		outputPath,
	}
	return a.execTool(ctx, a.cfg.FFmpegPath, args)
}

// Probe returns the duration of the media at path, in seconds
func (a *Adapter) Probe(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	runCtx, cancel := a.deadline(ctx)
	defer cancel()

	output, err := a.run(runCtx, a.cfg.FFprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to probe duration: %s", outputTail(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse probed duration: %w", err)
	}
	return duration, nil
}

// Segment stream-copies inputPath into numbered files following
// outputPattern, each at most segmentSeconds long
func (a *Adapter) Segment(ctx context.Context, inputPath, outputPattern string, segmentSeconds int) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		"-reset_timestamps", "1",
		"-c", "copy",
		outputPattern,
	}
	return a.execTool(ctx, a.cfg.FFmpegPath, args)
}

func (a *Adapter) execTool(ctx context.Context, name string, args []string) error {
	runCtx, cancel := a.deadline(ctx)
	defer cancel()

	output, err := a.run(runCtx, name, args...)
	if err == nil {
		return nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		a.logger.Warn("transcoder deadline exceeded", "tool", name, "timeout", a.cfg.Timeout)
		return fmt.Errorf("%w: %s killed after %s", domain.ErrTranscodeTimeout, name, a.cfg.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s exited with code %d: %s", domain.ErrTranscodeFailed, name, exitErr.ExitCode(), outputTail(output))
	}
	return fmt.Errorf("%w: failed to run %s: %v", domain.ErrTranscodeFailed, name, err)
}

func (a *Adapter) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

// outputTail keeps the last bytes of tool output for diagnostics
func outputTail(output []byte) string {
	s := strings.TrimSpace(string(output))
	if len(s) <= diagnosticTailBytes {
		return s
	}
	return s[len(s)-diagnosticTailBytes:]
}
