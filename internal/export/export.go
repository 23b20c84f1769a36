package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"

	"neuroflow/internal/model"
)

var (
	ErrUnknownTable  = errors.New("table must be one of: traffic_records, decision_log, session_stats")
	ErrUnknownFormat = errors.New("format must be one of: csv, json")
)

// Export writes a full-table snapshot into dir and returns the written
// filename. filename == "" auto-names the artifact as
// {table}_{yyyymmdd_hhmmss}.{ext}.
func Export(db *gorm.DB, table, format, dir, filename string) (string, error) {
	if format != "csv" && format != "json" {
		return "", ErrUnknownFormat
	}

	header, rows, err := snapshot(db, table)
	if err != nil {
		return "", err
	}

	if filename == "" {
		filename = fmt.Sprintf("%s_%s.%s", table, time.Now().Format("20060102_150405"), format)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	path := filepath.Join(dir, filename)

	switch format {
	case "csv":
		err = writeCSV(path, header, rows)
	case "json":
		err = writeJSON(path, header, rows)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// snapshot reads the whole table into column-ordered string rows.
func snapshot(db *gorm.DB, table string) ([]string, [][]string, error) {
	switch table {
	case "traffic_records":
		var records []model.TrafficRecord
		if err := db.Order("id").Find(&records).Error; err != nil {
			return nil, nil, err
		}
		header := []string{"id", "timestamp", "lane_id", "vehicle_count", "congestion_level", "green_duration"}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				strconv.Itoa(r.Id),
				r.Timestamp.Format(time.RFC3339),
				strconv.Itoa(r.LaneId),
				strconv.Itoa(r.VehicleCount),
				strPtr(r.CongestionLevel),
				intPtr(r.GreenDuration),
			})
		}
		return header, rows, nil

	case "decision_log":
		var entries []model.DecisionLogEntry
		if err := db.Order("id").Find(&entries).Error; err != nil {
			return nil, nil, err
		}
		header := []string{"id", "timestamp", "lane1_vehicles", "lane2_vehicles",
			"lane1_duration", "lane2_duration", "total_vehicles", "congestion_level", "active_lane"}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				strconv.Itoa(e.Id),
				e.Timestamp.Format(time.RFC3339),
				strconv.Itoa(e.Lane1Vehicles),
				strconv.Itoa(e.Lane2Vehicles),
				strconv.Itoa(e.Lane1Duration),
				strconv.Itoa(e.Lane2Duration),
				strconv.Itoa(e.TotalVehicles),
				e.CongestionLevel,
				strconv.Itoa(e.ActiveLane),
			})
		}
		return header, rows, nil

	case "session_stats":
		var stats []model.SessionStats
		if err := db.Order("id").Find(&stats).Error; err != nil {
			return nil, nil, err
		}
		header := []string{"id", "session_start", "session_end", "total_detections",
			"total_decisions", "avg_lane1_vehicles", "avg_lane2_vehicles",
			"peak_congestion_level", "session_duration_seconds"}
		rows := make([][]string, 0, len(stats))
		for _, s := range stats {
			end := ""
			if s.SessionEnd != nil {
				end = s.SessionEnd.Format(time.RFC3339)
			}
			rows = append(rows, []string{
				strconv.Itoa(s.Id),
				s.SessionStart.Format(time.RFC3339),
				end,
				strconv.FormatInt(s.TotalDetections, 10),
				strconv.FormatInt(s.TotalDecisions, 10),
				strconv.FormatFloat(s.AvgLane1Vehicles, 'f', -1, 64),
				strconv.FormatFloat(s.AvgLane2Vehicles, 'f', -1, 64),
				s.PeakCongestionLevel,
				strconv.Itoa(s.SessionDurationSeconds),
			})
		}
		return header, rows, nil
	}
	return nil, nil, ErrUnknownTable
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(path string, header []string, rows [][]string) error {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(header))
		for i, col := range header {
			record[col] = row[i]
		}
		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
