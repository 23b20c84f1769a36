package stream

import (
	"encoding/json"

	"neuroflow/internal/pipeline"
)

// DecisionEvent is the message published to NSQ for each signal decision.
type DecisionEvent struct {
	LaneId        int             `json:"lane_id"`
	Counts        pipeline.Counts `json:"counts"`
	Score         float64         `json:"score"`
	Level         string          `json:"level"`
	GreenDuration int             `json:"green_duration"`
	Timestamp     int64           `json:"timestamp"`
}

// publishDecision sends the decision event to NSQ when a producer is
// attached. Same best-effort policy as persistence.
func (s *Streamer) publishDecision(counts pipeline.Counts, decision pipeline.SignalDecision) {
	if s.producer == nil {
		return
	}

	event := &DecisionEvent{
		LaneId:        s.conf.LaneId,
		Counts:        counts,
		Score:         decision.Score,
		Level:         decision.Label,
		GreenDuration: pipeline.GreenDuration(counts.Total(), s.signal),
		Timestamp:     decision.Timestamp.UnixNano(),
	}
	data, _ := json.Marshal(event)
	if err := s.producer.Publish(s.nsqTopic, data); err != nil {
		s.logger.WithError(err).Warn("publish decision to NSQ failed")
	}
}
