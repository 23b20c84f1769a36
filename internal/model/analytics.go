package model

import (
	"time"

	"gorm.io/gorm"
)

type LaneStats struct {
	Avg float64 `json:"avg"`
	Max int     `json:"max"`
}

type Statistics struct {
	TotalRecords           int64                `json:"total_records"`
	LaneStats              map[string]LaneStats `json:"lane_stats"`
	CongestionDistribution map[string]int64     `json:"congestion_distribution"`
	TotalDecisions         int64                `json:"total_decisions"`
}

type DailyAnalytics struct {
	Date        string  `json:"date"`
	AvgVehicles float64 `json:"avg_vehicles"`
	MaxVehicles int     `json:"max_vehicles"`
	TotalVolume int     `json:"total_volume"`
}

// periodStart returns the lower bound of the statistics window, or nil for
// the unbounded "all" period.
func periodStart(period string, now time.Time) (*time.Time, error) {
	switch period {
	case "all":
		return nil, nil
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return &start, nil
	case "week":
		start := now.Add(-7 * 24 * time.Hour)
		return &start, nil
	case "hour":
		start := now.Add(-1 * time.Hour)
		return &start, nil
	default:
		return nil, ErrInvalidPeriod
	}
}

func windowed(query *gorm.DB, start *time.Time) *gorm.DB {
	if start != nil {
		return query.Where("timestamp >= ?", *start)
	}
	return query
}

// GetStatistics aggregates traffic records and decisions over the period
// window. Reads are snapshot reads of the current committed state.
func GetStatistics(period string) (*Statistics, error) {
	start, err := periodStart(period, time.Now())
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		LaneStats:              make(map[string]LaneStats),
		CongestionDistribution: make(map[string]int64),
	}

	if err := windowed(DB.Model(&TrafficRecord{}), start).
		Count(&stats.TotalRecords).Error; err != nil {
		return nil, err
	}

	var laneRows []struct {
		LaneId   int
		AvgCount float64
		MaxCount int
	}
	if err := windowed(DB.Model(&TrafficRecord{}), start).
		Select("lane_id, AVG(vehicle_count) AS avg_count, MAX(vehicle_count) AS max_count").
		Group("lane_id").Scan(&laneRows).Error; err != nil {
		return nil, err
	}
	for _, row := range laneRows {
		stats.LaneStats[laneKey(row.LaneId)] = LaneStats{Avg: row.AvgCount, Max: row.MaxCount}
	}

	var congestionRows []struct {
		CongestionLevel string
		Count           int64
	}
	if err := windowed(DB.Model(&DecisionLogEntry{}), start).
		Select("congestion_level, COUNT(*) AS count").
		Group("congestion_level").Scan(&congestionRows).Error; err != nil {
		return nil, err
	}
	for _, row := range congestionRows {
		if row.CongestionLevel != "" {
			stats.CongestionDistribution[row.CongestionLevel] = row.Count
		}
	}

	if err := windowed(DB.Model(&DecisionLogEntry{}), start).
		Count(&stats.TotalDecisions).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetDailyAnalytics groups traffic records by calendar date over the trailing
// window, ascending, one row per date.
func GetDailyAnalytics(days int) ([]DailyAnalytics, error) {
	start := time.Now().AddDate(0, 0, -days)

	var rows []DailyAnalytics
	if err := DB.Model(&TrafficRecord{}).
		Select("DATE(timestamp) AS date, AVG(vehicle_count) AS avg_vehicles, "+
			"MAX(vehicle_count) AS max_vehicles, SUM(vehicle_count) AS total_volume").
		Where("timestamp >= ?", start).
		Group("DATE(timestamp)").
		Order("date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func laneKey(laneId int) string {
	if laneId == 2 {
		return "lane_2"
	}
	return "lane_1"
}
