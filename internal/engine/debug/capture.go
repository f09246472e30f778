// Package debug provides frame capture for inspecting rendered output.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"github.com/Faultbox/melencholia/internal/logger"
)

// Capture formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// FrameCapture writes numbered frames to a directory.
type FrameCapture struct {
	outputDir string
	prefix    string
	format    string
	every     uint64
	saved     int
}

// NewFrameCapture creates a capture that keeps one frame in every. An
// unknown format falls back to PNG.
func NewFrameCapture(outputDir, prefix, format string, every int) *FrameCapture {
	if format != FormatWebP {
		format = FormatPNG
	}
	if every < 1 {
		every = 1
	}
	return &FrameCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		every:     uint64(every),
	}
}

// Saved returns how many frames were written.
func (fc *FrameCapture) Saved() int {
	return fc.saved
}

// Filename returns the path frame would be written to.
func (fc *FrameCapture) Filename(frame uint64) string {
	return filepath.Join(fc.outputDir, fmt.Sprintf("%s_%06d.%s", fc.prefix, frame, fc.format))
}

// OnPresent saves frame when it falls on the capture interval.
func (fc *FrameCapture) OnPresent(img *image.NRGBA, frame uint64) error {
	if frame%fc.every != 0 {
		return nil
	}
	path, err := fc.Save(img, frame)
	if err != nil {
		return err
	}
	logger.Debug("frame captured", zap.String("path", path))
	return nil
}

// Save encodes img to the file for frame and returns its path.
func (fc *FrameCapture) Save(img image.Image, frame uint64) (string, error) {
	// Create output directory if needed
	if fc.outputDir != "" {
		if err := os.MkdirAll(fc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fc.Filename(frame)
	if err := WriteImage(filename, img); err != nil {
		return "", err
	}

	fc.saved++
	return filename, nil
}

// WriteImage encodes img to path, as WebP when the extension is .webp and
// PNG otherwise.
func WriteImage(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	format := FormatPNG
	if strings.EqualFold(filepath.Ext(path), "."+FormatWebP) {
		format = FormatWebP
		err = nativewebp.Encode(file, img, nil)
	} else {
		err = png.Encode(file, img)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}
