package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// FFmpegCommand is the default ffmpeg binary name.
const FFmpegCommand = "ffmpeg"

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// FFmpegExtractor extracts audio tracks with ffmpeg.
type FFmpegExtractor struct {
	binary string
	run    CommandRunner
}

func NewFFmpegExtractor(binary string) *FFmpegExtractor {
	if binary == "" {
		binary = FFmpegCommand
	}
	return &FFmpegExtractor{binary: binary, run: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *FFmpegExtractor) WithCommandRunner(runner CommandRunner) *FFmpegExtractor {
	e.run = runner
	return e
}

func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	if videoPath == "" {
		return "", fmt.Errorf("extract audio: video path required")
	}
	dest := AudioPath(videoPath)
	if dest == videoPath {
		return "", fmt.Errorf("extract audio: %s is already %s", videoPath, AudioExtension)
	}
	if err := e.run(ctx, e.binary, buildExtractArgs(videoPath, dest)...); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	return dest, nil
}

func buildExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-c:a", "libmp3lame",
		"-q:a", "2",
		dest,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
