// Package ffmpeg runs the out-of-process conversion step of the pipeline.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Terminal conversion failures. Neither is retried; a failed attempt leaves
// no usable output and the processed path must be treated as invalid.
var (
	ErrUnsupportedFormat = errors.New("input format not supported")
	ErrEncodeFailure     = errors.New("encode failed")
)

// Engine converts a staged raw file into a processed rendition scaled to a
// fixed target height, width following the source aspect ratio.
type Engine struct {
	binPath      string
	targetHeight int
	logger       *zap.Logger
}

// NewEngine constructs an Engine around the ffmpeg binary at binPath.
func NewEngine(binPath string, targetHeight int, logger *zap.Logger) *Engine {
	return &Engine{
		binPath:      binPath,
		targetHeight: targetHeight,
		logger:       logger,
	}
}

type result struct {
	stderr []byte
	err    error
}

// Convert transcodes rawPath into processedPath. The ffmpeg process runs on
// its own goroutine and reports exactly one outcome over a channel, which is
// raced against ctx so a cancelled job does not leave the process running.
func (e *Engine) Convert(ctx context.Context, rawPath, processedPath string) error {
	cmd := exec.CommandContext(ctx, e.binPath, e.args(rawPath, processedPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Debug("starting conversion",
		zap.String("input", rawPath),
		zap.String("output", processedPath),
		zap.Int("target_height", e.targetHeight),
	)

	done := make(chan result, 1)
	go func() {
		err := cmd.Run()
		done <- result{stderr: stderr.Bytes(), err: err}
	}()

	select {
	case <-ctx.Done():
		// CommandContext kills the process; drain the goroutine's result.
		<-done
		return ctx.Err()
	case res := <-done:
		if res.err != nil {
			return classify(res.err, res.stderr)
		}
		return nil
	}
}

func (e *Engine) args(rawPath, processedPath string) []string {
	return []string{
		"-i", rawPath,
		"-vf", fmt.Sprintf("scale=-1:%d", e.targetHeight),
		"-y", processedPath,
	}
}

func classify(err error, stderr []byte) error {
	if undecodable(string(stderr)) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, lastStderrLine(stderr))
	}
	return fmt.Errorf("%w: %v: %s", ErrEncodeFailure, err, lastStderrLine(stderr))
}

// undecodable matches the stderr signatures ffmpeg emits when the input
// cannot be decoded at all, as opposed to a mid-encode failure.
func undecodable(stderr string) bool {
	for _, marker := range []string{
		"Invalid data found when processing input",
		"moov atom not found",
		"Unknown format",
		"could not find codec parameters",
	} {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}

func lastStderrLine(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
