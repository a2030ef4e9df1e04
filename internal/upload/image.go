// Package upload implements the photo ingestion pipeline used by branch,
// service and banner forms: type/size validation, client-quality compression
// and base64 data-URI encoding.
package upload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"

	"github.com/disintegration/imaging"
)

// State tracks one upload through the pipeline.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateCompressing
	StateEncoded
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateCompressing:
		return "compressing"
	case StateEncoded:
		return "encoded"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

const (
	// MaxUploadBytes is checked before any compression attempt.
	MaxUploadBytes = 150 * 1024
	// targetBytes is the post-compression ceiling.
	targetBytes = 200 * 1024

	maxDimension = 1280
)

var (
	ErrUnsupportedType = errors.New("only JPEG and PNG images are allowed")
	ErrTooLarge        = errors.New("image too large")
	ErrCompression     = errors.New("image could not be processed")
)

// Result carries the pipeline outcome. DataURI holds the previous value
// unchanged whenever the upload is rejected, so a failed upload never
// corrupts the form's photo field.
type Result struct {
	State   State
	DataURI string
}

// Pipeline validates, compresses and encodes uploaded photos.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline constructs a Pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	return &Pipeline{logger: logger}
}

// Process runs one file through the pipeline. prev is the field's current
// value and is returned untouched on any rejection.
func (p *Pipeline) Process(prev string, data []byte, mimeType string) (Result, error) {
	rejected := Result{State: StateRejected, DataURI: prev}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if mimeType != "image/jpeg" && mimeType != "image/png" {
		return rejected, fmt.Errorf("%w: got %s", ErrUnsupportedType, mimeType)
	}
	if len(data) > MaxUploadBytes {
		return rejected, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), MaxUploadBytes)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return rejected, fmt.Errorf("%w: decode: %v", ErrCompression, err)
	}

	encoded, err := compress(img)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("image compression failed", "error", err, "input_bytes", len(data))
		}
		return rejected, err
	}

	return Result{
		State:   StateEncoded,
		DataURI: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded),
	}, nil
}

// Remove clears a photo value. A placeholder is a display concern and is
// never stored.
func Remove() string { return "" }

// compress bounds dimensions and walks JPEG quality down until the encoded
// size fits the target.
func compress(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	for quality := 82; quality >= 30; quality -= 13 {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("%w: encode: %v", ErrCompression, err)
		}
		if buf.Len() <= targetBytes {
			return buf.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("%w: could not reach %d bytes", ErrCompression, targetBytes)
}
