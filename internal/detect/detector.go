package detect

import (
	"context"
	"image"

	"gocv.io/x/gocv"
)

// Detection is one detected object in a frame. Transient, never persisted.
type Detection struct {
	Label      string          `json:"label"`
	Confidence float64         `json:"confidence"`
	Box        image.Rectangle `json:"box"`
}

// Detector turns a frame into detections. The inference backend is a black
// box behind this interface so it can be swapped or stubbed in tests.
type Detector interface {
	Detect(ctx context.Context, frame *gocv.Mat) ([]Detection, error)
}

// StaticDetector returns a fixed detection set for every frame. Used when no
// inference backend is configured and in tests.
type StaticDetector struct {
	Detections []Detection
}

func (d *StaticDetector) Detect(ctx context.Context, frame *gocv.Mat) ([]Detection, error) {
	return d.Detections, nil
}
