package model

import "time"

// TrafficRecord is one per-frame observation for a single lane. The table is
// append-only: there are deliberately no update or delete helpers.
type TrafficRecord struct {
	Id              int       `json:"id" gorm:"primaryKey"`
	Timestamp       time.Time `json:"timestamp" gorm:"index;autoCreateTime"`
	LaneId          int       `json:"lane_id" gorm:"NOT NULL;check:lane_id IN (1,2)"`
	VehicleCount    int       `json:"vehicle_count" gorm:"NOT NULL;check:vehicle_count >= 0"`
	CongestionLevel *string   `json:"congestion_level"`
	GreenDuration   *int      `json:"green_duration"`
}

func (TrafficRecord) TableName() string { return "traffic_records" }

// AddTrafficRecord appends one observation. congestionLevel == "" and
// greenDuration < 0 are stored as NULL.
func AddTrafficRecord(laneId, vehicleCount int, congestionLevel string, greenDuration int) error {
	if laneId != 1 && laneId != 2 {
		return ErrInvalidLane
	}
	if vehicleCount < 0 {
		return ErrInvalidCount
	}

	rec := &TrafficRecord{
		LaneId:       laneId,
		VehicleCount: vehicleCount,
	}
	if congestionLevel != "" {
		rec.CongestionLevel = &congestionLevel
	}
	if greenDuration >= 0 {
		rec.GreenDuration = &greenDuration
	}
	return DB.Create(rec).Error
}

func RecentTrafficRecords(limit int) ([]TrafficRecord, error) {
	var records []TrafficRecord
	if err := DB.Model(&TrafficRecord{}).
		Order("timestamp DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func CountTrafficRecords() (int64, error) {
	var total int64
	err := DB.Model(&TrafficRecord{}).Count(&total).Error
	return total, err
}
