package model

import "time"

// DecisionLogEntry is one signal decision over both lanes. Append-only.
type DecisionLogEntry struct {
	Id              int       `json:"id" gorm:"primaryKey"`
	Timestamp       time.Time `json:"timestamp" gorm:"index;autoCreateTime"`
	Lane1Vehicles   int       `json:"lane1_vehicles" gorm:"NOT NULL"`
	Lane2Vehicles   int       `json:"lane2_vehicles" gorm:"NOT NULL"`
	Lane1Duration   int       `json:"lane1_duration" gorm:"NOT NULL"`
	Lane2Duration   int       `json:"lane2_duration" gorm:"NOT NULL"`
	TotalVehicles   int       `json:"total_vehicles" gorm:"NOT NULL"`
	CongestionLevel string    `json:"congestion_level" gorm:"NOT NULL"`
	ActiveLane      int       `json:"active_lane" gorm:"NOT NULL"`
}

func (DecisionLogEntry) TableName() string { return "decision_log" }

// AddDecision appends one decision. TotalVehicles is always computed here so
// the persisted sum can never drift from the lane counts.
func AddDecision(lane1Vehicles, lane2Vehicles, lane1Duration, lane2Duration int,
	congestionLevel string, activeLane int) error {
	if activeLane != 1 && activeLane != 2 {
		return ErrInvalidLane
	}
	if lane1Vehicles < 0 || lane2Vehicles < 0 {
		return ErrInvalidCount
	}

	entry := &DecisionLogEntry{
		Lane1Vehicles:   lane1Vehicles,
		Lane2Vehicles:   lane2Vehicles,
		Lane1Duration:   lane1Duration,
		Lane2Duration:   lane2Duration,
		TotalVehicles:   lane1Vehicles + lane2Vehicles,
		CongestionLevel: congestionLevel,
		ActiveLane:      activeLane,
	}
	return DB.Create(entry).Error
}

func RecentDecisions(limit int) ([]DecisionLogEntry, error) {
	var entries []DecisionLogEntry
	if err := DB.Model(&DecisionLogEntry{}).
		Order("timestamp DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func CountDecisions() (int64, error) {
	var total int64
	err := DB.Model(&DecisionLogEntry{}).Count(&total).Error
	return total, err
}
