package stream

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"neuroflow/internal/detect"
	"neuroflow/internal/pipeline"
)

// drawOverlay draws detection boxes and the signal banner onto the frame in
// place. Cosmetic only, no effect on counts or decisions.
func drawOverlay(frame *gocv.Mat, detections []detect.Detection, decision pipeline.SignalDecision) {
	green := color.RGBA{0, 255, 0, 255}
	black := color.RGBA{0, 0, 0, 255}

	for _, d := range detections {
		label := fmt.Sprintf("%s: %.2f", d.Label, d.Confidence)
		labelSize := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.5, 2)

		gocv.Rectangle(frame, d.Box, green, 2)
		gocv.Rectangle(frame, image.Rect(d.Box.Min.X, d.Box.Min.Y-labelSize.Y-10,
			d.Box.Min.X+labelSize.X, d.Box.Min.Y), green, -1)
		gocv.PutText(frame, label, image.Pt(d.Box.Min.X, d.Box.Min.Y-5),
			gocv.FontHersheySimplex, 0.5, black, 2)
	}

	banner := fmt.Sprintf("%s  density: %.1f", decision.Label, decision.Score)
	gocv.Rectangle(frame, image.Rect(0, 0, 260, 40), black, -1)
	gocv.PutText(frame, banner, image.Pt(10, 28),
		gocv.FontHersheySimplex, 0.7, decision.Color, 2)
}
