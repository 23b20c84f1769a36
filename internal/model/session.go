package model

import "time"

// SessionStats is a per-session rollup written once when a streaming session
// ends. Counters are accumulated in memory by the streamer; the row itself is
// never updated afterwards.
type SessionStats struct {
	Id                     int        `json:"id" gorm:"primaryKey"`
	SessionStart           time.Time  `json:"session_start" gorm:"NOT NULL"`
	SessionEnd             *time.Time `json:"session_end"`
	TotalDetections        int64      `json:"total_detections" gorm:"default:0"`
	TotalDecisions         int64      `json:"total_decisions" gorm:"default:0"`
	AvgLane1Vehicles       float64    `json:"avg_lane1_vehicles" gorm:"default:0"`
	AvgLane2Vehicles       float64    `json:"avg_lane2_vehicles" gorm:"default:0"`
	PeakCongestionLevel    string     `json:"peak_congestion_level"`
	SessionDurationSeconds int        `json:"session_duration_seconds"`
}

func (SessionStats) TableName() string { return "session_stats" }

func AddSessionStats(stats *SessionStats) error {
	return DB.Create(stats).Error
}

func RecentSessionStats(limit int) ([]SessionStats, error) {
	var stats []SessionStats
	if err := DB.Model(&SessionStats{}).
		Order("session_start DESC, id DESC").Limit(limit).Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
