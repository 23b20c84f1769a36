package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/Trendyol/go-triton-client/base"
	tritonGrpc "github.com/Trendyol/go-triton-client/client/grpc"
	"gocv.io/x/gocv"

	"neuroflow/internal/config"
)

// TritonDetector runs vehicle detection on a Triton inference server. The
// model takes a raw HWC UINT8 frame and returns float32 rows of
// [x1, y1, x2, y2, confidence, class_id].
type TritonDetector struct {
	client    base.Client
	modelName string
	labelMap  map[int]string
}

func NewTritonDetector(conf config.TritonConfig) (*TritonDetector, error) {
	client, err := tritonGrpc.NewClient(
		conf.ServerAddr,
		false, // verbose logging
		30,    // connection timeout in seconds
		30,    // network timeout in seconds
		false, // use ssl
		true,  // insecure connection
		nil,   // existing grpc connection
		nil,   // logger
	)
	if err != nil {
		return nil, err
	}

	labelMap := make(map[int]string)
	for i, label := range strings.Split(conf.Labels, ",") {
		labelMap[i] = strings.TrimSpace(label)
	}

	return &TritonDetector{
		client:    client,
		modelName: conf.ModelName,
		labelMap:  labelMap,
	}, nil
}

// Ready verifies server and model availability before streaming starts.
func (d *TritonDetector) Ready(ctx context.Context) error {
	if isLive, err := d.client.IsServerLive(ctx, nil); err != nil {
		return err
	} else if !isLive {
		return errors.New("triton server is not live")
	}
	if isReady, err := d.client.IsModelReady(ctx, d.modelName, "1", nil); err != nil {
		return err
	} else if !isReady {
		return errors.New("triton model is not ready")
	}
	return nil
}

func (d *TritonDetector) Detect(ctx context.Context, frame *gocv.Mat) ([]Detection, error) {
	frameInput := tritonGrpc.NewInferInput("FRAME", "BYTES",
		[]int64{int64(frame.Rows()), int64(frame.Cols()), 3}, nil)
	if err := frameInput.SetData(frame.ToBytes(), true); err != nil {
		return nil, fmt.Errorf("failed to set FRAME input data: %v", err)
	}
	frameInput.SetDatatype("UINT8")

	outputs := []base.InferOutput{
		tritonGrpc.NewInferOutput("DETECTIONS", map[string]any{"binary_data": false}),
	}

	response, err := d.client.Infer(ctx, d.modelName, "1",
		[]base.InferInput{frameInput}, outputs, nil)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %v", err)
	}

	rows, err := response.AsFloat32Slice("DETECTIONS")
	if err != nil {
		return nil, fmt.Errorf("failed to get detection data: %v", err)
	}

	var detections []Detection
	for i := 0; i+5 < len(rows); i += 6 {
		classId := int(rows[i+5])
		label, exists := d.labelMap[classId]
		if !exists || label == "" {
			continue
		}
		detections = append(detections, Detection{
			Label:      label,
			Confidence: float64(rows[i+4]),
			Box: image.Rect(int(rows[i]), int(rows[i+1]),
				int(rows[i+2]), int(rows[i+3])),
		})
	}
	return detections, nil
}
