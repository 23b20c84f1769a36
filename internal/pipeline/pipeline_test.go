package pipeline

import (
	"testing"

	"neuroflow/internal/config"
	"neuroflow/internal/detect"
)

func testPolicy() config.PipelineConfig {
	return config.DefaultConfig().Pipeline
}

func testSignal() config.SignalConfig {
	return config.DefaultConfig().Signal
}

func TestAggregate(t *testing.T) {
	policy := testPolicy()

	t.Run("counts whitelisted classes", func(t *testing.T) {
		counts := Aggregate([]detect.Detection{
			{Label: "car", Confidence: 0.9},
			{Label: "car", Confidence: 0.8},
			{Label: "bus", Confidence: 0.7},
		}, policy)
		if counts["car"] != 2 {
			t.Errorf("car count = %d, want 2", counts["car"])
		}
		if counts["bus"] != 1 {
			t.Errorf("bus count = %d, want 1", counts["bus"])
		}
	})

	t.Run("missing classes count as zero", func(t *testing.T) {
		counts := Aggregate(nil, policy)
		for _, class := range policy.Classes {
			if n, ok := counts[class]; !ok || n != 0 {
				t.Errorf("counts[%q] = %d (present %v), want 0 and present", class, n, ok)
			}
		}
	})

	t.Run("confidence exactly at threshold is excluded", func(t *testing.T) {
		counts := Aggregate([]detect.Detection{{Label: "car", Confidence: 0.3}}, policy)
		if counts["car"] != 0 {
			t.Errorf("car count = %d, want 0 for confidence 0.3", counts["car"])
		}
	})

	t.Run("confidence just above threshold is included", func(t *testing.T) {
		counts := Aggregate([]detect.Detection{{Label: "car", Confidence: 0.30001}}, policy)
		if counts["car"] != 1 {
			t.Errorf("car count = %d, want 1 for confidence 0.30001", counts["car"])
		}
	})

	t.Run("person is excluded regardless of confidence", func(t *testing.T) {
		counts := Aggregate([]detect.Detection{{Label: "person", Confidence: 0.99}}, policy)
		if counts.Total() != 0 {
			t.Errorf("total = %d, want 0", counts.Total())
		}
	})
}

func TestDensityScore(t *testing.T) {
	weights := testPolicy().Weights

	t.Run("linear formula", func(t *testing.T) {
		counts := Counts{"car": 5, "bus": 2, "truck": 1, "motorbike": 0}
		got := DensityScore(counts, weights)
		want := 5*1.0 + 2*2.5 + 1*2.0 + 0*0.5
		if got != want {
			t.Errorf("DensityScore() = %v, want %v", got, want)
		}
	})

	t.Run("empty counts score zero", func(t *testing.T) {
		if got := DensityScore(Counts{}, weights); got != 0 {
			t.Errorf("DensityScore() = %v, want 0", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		counts := Counts{"car": 3, "bus": 4, "truck": 7, "motorbike": 9}
		first := DensityScore(counts, weights)
		for i := 0; i < 10; i++ {
			if got := DensityScore(counts, weights); got != first {
				t.Fatalf("DensityScore() = %v on run %d, want %v", got, i, first)
			}
		}
	})
}

func TestDecide(t *testing.T) {
	signal := testSignal()

	cases := []struct {
		name  string
		score float64
		want  SignalLevel
	}{
		{"zero is red", 0, SignalRed},
		{"exactly 10 is red", 10, SignalRed},
		{"just above 10 is yellow", 10.0001, SignalYellow},
		{"exactly 20 is yellow", 20, SignalYellow},
		{"just above 20 is green", 20.0001, SignalGreen},
		{"far above 20 is green", 55, SignalGreen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := Decide(tc.score, signal)
			if decision.Level != tc.want {
				t.Errorf("Decide(%v).Level = %v, want %v", tc.score, decision.Level, tc.want)
			}
			if decision.Label != tc.want.String() {
				t.Errorf("Decide(%v).Label = %q, want %q", tc.score, decision.Label, tc.want.String())
			}
			if decision.Score != tc.score {
				t.Errorf("Decide(%v).Score = %v, want input score", tc.score, decision.Score)
			}
		})
	}
}

func TestGreenDuration(t *testing.T) {
	signal := testSignal()

	t.Run("scales with vehicles", func(t *testing.T) {
		if got := GreenDuration(5, signal); got != 20 {
			t.Errorf("GreenDuration(5) = %d, want 20", got)
		}
	})

	t.Run("clamped to max", func(t *testing.T) {
		if got := GreenDuration(1000, signal); got != signal.MaxGreenSecs {
			t.Errorf("GreenDuration(1000) = %d, want %d", got, signal.MaxGreenSecs)
		}
	})

	t.Run("clamped to min", func(t *testing.T) {
		if got := GreenDuration(0, signal); got < signal.MinGreenSecs {
			t.Errorf("GreenDuration(0) = %d, want >= %d", got, signal.MinGreenSecs)
		}
	})
}

func TestFrameToDecision(t *testing.T) {
	// Full pipeline over one frame's detections: 5 cars, 2 buses, 1 truck
	// scores 12.0 and lands in the yellow band.
	policy := testPolicy()
	detections := []detect.Detection{
		{Label: "car", Confidence: 0.9}, {Label: "car", Confidence: 0.8},
		{Label: "car", Confidence: 0.7}, {Label: "car", Confidence: 0.6},
		{Label: "car", Confidence: 0.5},
		{Label: "bus", Confidence: 0.9}, {Label: "bus", Confidence: 0.8},
		{Label: "truck", Confidence: 0.9},
		{Label: "person", Confidence: 0.99},
		{Label: "car", Confidence: 0.3},
	}

	counts := Aggregate(detections, policy)
	score := DensityScore(counts, policy.Weights)
	if score != 12.0 {
		t.Fatalf("score = %v, want 12.0", score)
	}

	decision := Decide(score, testSignal())
	if decision.Level != SignalYellow {
		t.Errorf("level = %v, want YELLOW", decision.Level)
	}
	if decision.Label != "YELLOW" {
		t.Errorf("label = %q, want YELLOW", decision.Label)
	}
}
