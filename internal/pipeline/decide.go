package pipeline

import (
	"image/color"
	"time"

	"neuroflow/internal/config"
)

type SignalLevel int

const (
	SignalRed SignalLevel = iota
	SignalYellow
	SignalGreen
)

func (l SignalLevel) String() string {
	switch l {
	case SignalGreen:
		return "GREEN"
	case SignalYellow:
		return "YELLOW"
	default:
		return "RED"
	}
}

func (l SignalLevel) Color() color.RGBA {
	switch l {
	case SignalGreen:
		return color.RGBA{0, 255, 0, 255}
	case SignalYellow:
		return color.RGBA{255, 255, 0, 255}
	default:
		return color.RGBA{255, 0, 0, 255}
	}
}

// SignalDecision is immutable once created.
type SignalDecision struct {
	Level     SignalLevel
	Label     string
	Color     color.RGBA
	Score     float64
	Timestamp time.Time
}

// Decide maps a density score to a signal level. Band lower bounds are
// inclusive: a score of exactly RedMax is RED, exactly YellowMax is YELLOW.
//
// There is no hysteresis and no minimum dwell time, so a score oscillating
// near a threshold flaps the level every cycle. That matches the observed
// system; a production variant should add a dwell-time state machine here.
func Decide(score float64, signal config.SignalConfig) SignalDecision {
	level := SignalGreen
	if score <= signal.RedMax {
		level = SignalRed
	} else if score <= signal.YellowMax {
		level = SignalYellow
	}
	return SignalDecision{
		Level:     level,
		Label:     level.String(),
		Color:     level.Color(),
		Score:     score,
		Timestamp: time.Now(),
	}
}

// GreenDuration converts a vehicle count into a green phase length, clamped
// to the configured bounds.
func GreenDuration(vehicles int, signal config.SignalConfig) int {
	duration := signal.BaseGreenSecs + vehicles*signal.PerVehicleSecs
	if duration < signal.MinGreenSecs {
		duration = signal.MinGreenSecs
	}
	if duration > signal.MaxGreenSecs {
		duration = signal.MaxGreenSecs
	}
	return duration
}
