package stream

import (
	"context"
	"sync"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"neuroflow/internal/config"
	"neuroflow/internal/detect"
	"neuroflow/internal/model"
	"neuroflow/internal/pipeline"
	"neuroflow/internal/video"
	"neuroflow/pkg/log"
)

// Streamer is the single producer behind the live feed. Each cycle it pulls
// one frame from the active session, runs detection, aggregates counts into a
// density score and a signal decision, draws the overlay, fans the encoded
// JPEG out to subscribers, and persists the decision best-effort. Frame N+1
// is not touched until frame N's cycle is done.
type Streamer struct {
	conf     config.StreamConfig
	policy   config.PipelineConfig
	signal   config.SignalConfig
	sessions *video.SessionManager
	detector detect.Detector
	logger   *logrus.Entry

	producer *nsq.Producer
	nsqTopic string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	subscribers map[chan []byte]struct{}
	stopped     bool

	counters sessionCounters
}

// sessionCounters accumulates the per-session rollup. Owned by the producer
// goroutine, no locking needed.
type sessionCounters struct {
	start       time.Time
	frames      int64
	decisions   int64
	sumVehicles int64
	peak        pipeline.SignalLevel
}

func NewStreamer(conf *config.Config, sessions *video.SessionManager,
	detector detect.Detector) *Streamer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Streamer{
		conf:        conf.Stream,
		policy:      conf.Pipeline,
		signal:      conf.Signal,
		sessions:    sessions,
		detector:    detector,
		logger:      log.GetLogger(ctx).WithField("lane", conf.Stream.LaneId),
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[chan []byte]struct{}),
	}
}

// WithNSQ attaches an optional decision-event publisher.
func (s *Streamer) WithNSQ(producer *nsq.Producer, topic string) *Streamer {
	s.producer = producer
	s.nsqTopic = topic
	return s
}

func (s *Streamer) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("streamer started")
		s.run()
		s.logger.Info("streamer stopped")
	}()
}

// Stop ends the producer loop and closes every subscriber channel, so feed
// handlers blocked on a read observe end-of-stream and return.
func (s *Streamer) Stop() {
	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.stopped = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

// Subscribe attaches a consumer to the live feed. The producer never blocks
// on a slow consumer; frames are dropped instead. After Stop the returned
// channel is already closed.
func (s *Streamer) Subscribe() chan []byte {
	ch := make(chan []byte, s.conf.BufferSize)
	s.mu.Lock()
	if s.stopped {
		close(ch)
	} else {
		s.subscribers[ch] = struct{}{}
	}
	s.mu.Unlock()
	return ch
}

func (s *Streamer) Unsubscribe(ch chan []byte) {
	s.mu.Lock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

func (s *Streamer) broadcast(frame []byte) {
	if frame == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- frame:
		default:
		}
	}
}

func (s *Streamer) idle() bool {
	select {
	case <-s.ctx.Done():
		return false
	case <-time.After(time.Duration(s.conf.IdlePollMs) * time.Millisecond):
		return true
	}
}

func (s *Streamer) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		path, generation, ok := s.sessions.Current()
		if !ok {
			if !s.idle() {
				return
			}
			continue
		}

		source, err := video.Open(path)
		if err != nil {
			s.logger.WithError(err).Error("cannot open video")
			s.broadcast(placeholderJPEG(s.conf.JPEGQuality))
			if !s.waitForReplacement(generation) {
				return
			}
			continue
		}

		s.logger.WithField("video", source.Path()).Info("session opened")
		s.counters = sessionCounters{start: time.Now()}
		s.streamSource(source, generation)
		source.Close()
		s.finalizeSession()

		// Loop playback rewinds inside streamSource; reaching here means
		// the session ended or was replaced.
		if _, g, active := s.sessions.Current(); active && g == generation {
			s.sessions.Clear()
		}
	}
}

// waitForReplacement polls until a new session is installed. Keeps a broken
// upload from retrying open in a tight loop.
func (s *Streamer) waitForReplacement(generation uint64) bool {
	for {
		if _, g, ok := s.sessions.Current(); ok && g != generation {
			return true
		}
		if !s.idle() {
			return false
		}
	}
}

func (s *Streamer) streamSource(source *video.Source, generation uint64) {
	frame := gocv.NewMat()
	defer frame.Close()

	interval := time.Duration(s.conf.FrameIntervalMs) * time.Millisecond
	rewound := false

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		// A new upload replaces the session; drop this capture cleanly.
		if _, g, ok := s.sessions.Current(); !ok || g != generation {
			return
		}

		cycleStart := time.Now()

		if ok := source.Next(&frame); !ok {
			// A second failure right after a rewind means the source is
			// broken, not merely exhausted; bail out instead of spinning.
			if s.conf.Loop && !rewound {
				source.Rewind()
				rewound = true
				continue
			}
			return
		}
		rewound = false
		if frame.Empty() {
			continue
		}

		s.processFrame(&frame)

		if elapsed := time.Since(cycleStart); elapsed < interval {
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(interval - elapsed):
			}
		}
	}
}

func (s *Streamer) processFrame(frame *gocv.Mat) {
	detections, err := s.detector.Detect(s.ctx, frame)
	if err != nil {
		// Detection failure skips counts and overlay for this frame but
		// never kills the stream.
		s.logger.WithError(err).Warn("detection failed, emitting raw frame")
		s.emit(frame)
		return
	}

	counts := pipeline.Aggregate(detections, s.policy)
	score := pipeline.DensityScore(counts, s.policy.Weights)
	decision := pipeline.Decide(score, s.signal)

	drawOverlay(frame, detections, decision)
	s.emit(frame)

	s.persistDecision(counts.Total(), decision)
	s.publishDecision(counts, decision)

	s.counters.frames++
	s.counters.decisions++
	s.counters.sumVehicles += int64(counts.Total())
	if decision.Level > s.counters.peak {
		s.counters.peak = decision.Level
	}
}

func (s *Streamer) emit(frame *gocv.Mat) {
	buf, err := gocv.IMEncodeWithParams(".jpg", *frame,
		[]int{gocv.IMWriteJpegQuality, s.conf.JPEGQuality})
	if err != nil {
		s.logger.WithError(err).Error("jpeg encode failed")
		return
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	s.broadcast(data)
}

// persistDecision writes one traffic record and one decision log entry for
// this cycle. Best-effort telemetry: failures are logged and the stream
// continues, nothing is retried.
func (s *Streamer) persistDecision(vehicles int, decision pipeline.SignalDecision) {
	greenDuration := pipeline.GreenDuration(vehicles, s.signal)

	if err := model.AddTrafficRecord(s.conf.LaneId, vehicles, decision.Label, greenDuration); err != nil {
		s.logger.WithError(err).Warn("add traffic record failed")
	}

	lane1Vehicles, lane2Vehicles := vehicles, 0
	lane1Duration, lane2Duration := greenDuration, 0
	if s.conf.LaneId == 2 {
		lane1Vehicles, lane2Vehicles = 0, vehicles
		lane1Duration, lane2Duration = 0, greenDuration
	}
	if err := model.AddDecision(lane1Vehicles, lane2Vehicles, lane1Duration, lane2Duration,
		decision.Label, s.conf.LaneId); err != nil {
		s.logger.WithError(err).Warn("add decision failed")
	}
}

func (s *Streamer) finalizeSession() {
	if s.counters.frames == 0 {
		return
	}
	end := time.Now()
	stats := &model.SessionStats{
		SessionStart:           s.counters.start,
		SessionEnd:             &end,
		TotalDetections:        s.counters.frames,
		TotalDecisions:         s.counters.decisions,
		PeakCongestionLevel:    s.counters.peak.String(),
		SessionDurationSeconds: int(end.Sub(s.counters.start).Seconds()),
	}
	avg := float64(s.counters.sumVehicles) / float64(s.counters.frames)
	if s.conf.LaneId == 2 {
		stats.AvgLane2Vehicles = avg
	} else {
		stats.AvgLane1Vehicles = avg
	}
	if err := model.AddSessionStats(stats); err != nil {
		s.logger.WithError(err).Warn("add session stats failed")
	}
}

// placeholderJPEG is the one-shot blank frame emitted when a video cannot be
// opened.
func placeholderJPEG(quality int) []byte {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0),
		480, 640, gocv.MatTypeCV8UC3)
	defer blank.Close()

	buf, err := gocv.IMEncodeWithParams(".jpg", blank,
		[]int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data
}
