package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Transcoder converts an audio buffer from one compressed format to another.
type Transcoder interface {
	Transcode(ctx context.Context, data []byte, fromFormat string) ([]byte, string, error)
}

// FFmpegTranscoder shells out to ffmpeg, reading from stdin and writing the
// target format to stdout.
type FFmpegTranscoder struct {
	Path         string
	TargetFormat string
}

func NewFFmpegTranscoder(path, targetFormat string) *FFmpegTranscoder {
	if path == "" {
		path = "ffmpeg"
	}
	if targetFormat == "" {
		targetFormat = "opus"
	}
	return &FFmpegTranscoder{Path: path, TargetFormat: targetFormat}
}

func (t *FFmpegTranscoder) Transcode(ctx context.Context, data []byte, fromFormat string) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty audio buffer")
	}

	args := []string{"-hide_banner", "-loglevel", "error"}
	if fromFormat != "" {
		args = append(args, "-f", fromFormat)
	}
	args = append(args, "-i", "pipe:0", "-f", t.TargetFormat, "pipe:1")

	cmd := exec.CommandContext(ctx, t.Path, args...)
	cmd.Stdin = bytes.NewReader(data)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, "", fmt.Errorf("ffmpeg: %w: %s", err, stderr.String())
	}

	return out.Bytes(), t.TargetFormat, nil
}

// Passthrough returns the input unchanged; used in tests and when no ffmpeg
// binary is available.
type Passthrough struct{}

func (Passthrough) Transcode(ctx context.Context, data []byte, fromFormat string) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty audio buffer")
	}
	return data, fromFormat, nil
}
