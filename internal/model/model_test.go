package model

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := InitDB(DBConfig{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		MaxLifetime:  60,
	})
	if err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error: %v", err)
	}
}

func TestAddTrafficRecord(t *testing.T) {
	setupTestDB(t)

	t.Run("valid record round-trips", func(t *testing.T) {
		if err := AddTrafficRecord(1, 7, "YELLOW", 24); err != nil {
			t.Fatalf("AddTrafficRecord() error: %v", err)
		}
		records, err := RecentTrafficRecords(10)
		if err != nil {
			t.Fatalf("RecentTrafficRecords() error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("got %d records, want 1", len(records))
		}
		rec := records[0]
		if rec.LaneId != 1 || rec.VehicleCount != 7 {
			t.Errorf("record = %+v, want lane 1 count 7", rec)
		}
		if rec.CongestionLevel == nil || *rec.CongestionLevel != "YELLOW" {
			t.Errorf("congestion level = %v, want YELLOW", rec.CongestionLevel)
		}
		if rec.GreenDuration == nil || *rec.GreenDuration != 24 {
			t.Errorf("green duration = %v, want 24", rec.GreenDuration)
		}
	})

	t.Run("invalid lane fails and is not persisted", func(t *testing.T) {
		before, _ := CountTrafficRecords()
		if err := AddTrafficRecord(3, 5, "", -1); err != ErrInvalidLane {
			t.Errorf("AddTrafficRecord(lane=3) error = %v, want ErrInvalidLane", err)
		}
		after, _ := CountTrafficRecords()
		if after != before {
			t.Errorf("record count changed %d -> %d on invalid lane", before, after)
		}
	})

	t.Run("negative count fails", func(t *testing.T) {
		if err := AddTrafficRecord(1, -1, "", -1); err != ErrInvalidCount {
			t.Errorf("AddTrafficRecord(count=-1) error = %v, want ErrInvalidCount", err)
		}
	})

	t.Run("optional fields stored as null", func(t *testing.T) {
		if err := AddTrafficRecord(2, 0, "", -1); err != nil {
			t.Fatalf("AddTrafficRecord() error: %v", err)
		}
		records, _ := RecentTrafficRecords(1)
		if records[0].CongestionLevel != nil {
			t.Errorf("congestion level = %v, want nil", records[0].CongestionLevel)
		}
		if records[0].GreenDuration != nil {
			t.Errorf("green duration = %v, want nil", records[0].GreenDuration)
		}
	})
}

func TestAddDecision(t *testing.T) {
	setupTestDB(t)

	t.Run("total is computed from lane counts", func(t *testing.T) {
		if err := AddDecision(8, 3, 30, 15, "YELLOW", 1); err != nil {
			t.Fatalf("AddDecision() error: %v", err)
		}
		decisions, err := RecentDecisions(10)
		if err != nil {
			t.Fatalf("RecentDecisions() error: %v", err)
		}
		if len(decisions) != 1 {
			t.Fatalf("got %d decisions, want 1", len(decisions))
		}
		d := decisions[0]
		if d.TotalVehicles != d.Lane1Vehicles+d.Lane2Vehicles {
			t.Errorf("total = %d, want %d", d.TotalVehicles, d.Lane1Vehicles+d.Lane2Vehicles)
		}
		if d.TotalVehicles != 11 {
			t.Errorf("total = %d, want 11", d.TotalVehicles)
		}
		if d.CongestionLevel != "YELLOW" {
			t.Errorf("congestion level = %q, want YELLOW", d.CongestionLevel)
		}
	})

	t.Run("invalid active lane fails", func(t *testing.T) {
		before, _ := CountDecisions()
		if err := AddDecision(1, 1, 10, 10, "RED", 0); err != ErrInvalidLane {
			t.Errorf("AddDecision(activeLane=0) error = %v, want ErrInvalidLane", err)
		}
		after, _ := CountDecisions()
		if after != before {
			t.Errorf("decision count changed %d -> %d on invalid lane", before, after)
		}
	})
}

func TestRecentOrdering(t *testing.T) {
	setupTestDB(t)

	for i := 0; i < 5; i++ {
		if err := AddTrafficRecord(1, i, "", -1); err != nil {
			t.Fatalf("AddTrafficRecord() error: %v", err)
		}
	}

	records, err := RecentTrafficRecords(3)
	if err != nil {
		t.Fatalf("RecentTrafficRecords() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].Id < records[i].Id {
			t.Errorf("records not newest first: id %d before id %d", records[i-1].Id, records[i].Id)
		}
	}
	if records[0].VehicleCount != 4 {
		t.Errorf("newest record count = %d, want 4", records[0].VehicleCount)
	}
}

func TestGetStatistics(t *testing.T) {
	setupTestDB(t)

	now := time.Now()
	// Two fresh records inside every window, one backdated past the week
	// window, so the counts widen with the period.
	for _, count := range []int{4, 8} {
		if err := AddTrafficRecord(1, count, "RED", -1); err != nil {
			t.Fatalf("AddTrafficRecord() error: %v", err)
		}
	}
	old := TrafficRecord{Timestamp: now.Add(-8 * 24 * time.Hour), LaneId: 2, VehicleCount: 20}
	if err := DB.Create(&old).Error; err != nil {
		t.Fatalf("backdated create error: %v", err)
	}
	if err := AddDecision(4, 0, 18, 0, "RED", 1); err != nil {
		t.Fatalf("AddDecision() error: %v", err)
	}
	if err := AddDecision(8, 0, 26, 0, "YELLOW", 1); err != nil {
		t.Fatalf("AddDecision() error: %v", err)
	}

	t.Run("all includes everything", func(t *testing.T) {
		stats, err := GetStatistics("all")
		if err != nil {
			t.Fatalf("GetStatistics(all) error: %v", err)
		}
		if stats.TotalRecords != 3 {
			t.Errorf("total records = %d, want 3", stats.TotalRecords)
		}
		if stats.TotalDecisions != 2 {
			t.Errorf("total decisions = %d, want 2", stats.TotalDecisions)
		}
		lane1, ok := stats.LaneStats["lane_1"]
		if !ok {
			t.Fatal("missing lane_1 stats")
		}
		if lane1.Avg != 6 || lane1.Max != 8 {
			t.Errorf("lane_1 stats = %+v, want avg 6 max 8", lane1)
		}
		if stats.CongestionDistribution["RED"] != 1 || stats.CongestionDistribution["YELLOW"] != 1 {
			t.Errorf("congestion distribution = %v, want RED:1 YELLOW:1", stats.CongestionDistribution)
		}
	})

	t.Run("windows widen monotonically", func(t *testing.T) {
		var previous int64 = -1
		for _, period := range []string{"hour", "today", "week", "all"} {
			stats, err := GetStatistics(period)
			if err != nil {
				t.Fatalf("GetStatistics(%s) error: %v", period, err)
			}
			if stats.TotalRecords < previous {
				t.Errorf("GetStatistics(%s) = %d records, shrank below %d", period, stats.TotalRecords, previous)
			}
			previous = stats.TotalRecords
		}
	})

	t.Run("week excludes the backdated record", func(t *testing.T) {
		stats, err := GetStatistics("week")
		if err != nil {
			t.Fatalf("GetStatistics(week) error: %v", err)
		}
		if stats.TotalRecords != 2 {
			t.Errorf("week records = %d, want 2", stats.TotalRecords)
		}
	})

	t.Run("invalid period rejected", func(t *testing.T) {
		if _, err := GetStatistics("decade"); err != ErrInvalidPeriod {
			t.Errorf("GetStatistics(decade) error = %v, want ErrInvalidPeriod", err)
		}
	})
}

func TestGetDailyAnalytics(t *testing.T) {
	setupTestDB(t)

	now := time.Now()
	days := []struct {
		offset int
		counts []int
	}{
		{0, []int{2, 6}},
		{1, []int{10}},
		{3, []int{4, 4, 4}},
	}
	for _, day := range days {
		for _, count := range day.counts {
			rec := TrafficRecord{
				Timestamp:    now.Add(-time.Duration(day.offset) * 24 * time.Hour),
				LaneId:       1,
				VehicleCount: count,
			}
			if err := DB.Create(&rec).Error; err != nil {
				t.Fatalf("create error: %v", err)
			}
		}
	}
	// Outside the 7 day window.
	oldRec := TrafficRecord{Timestamp: now.Add(-10 * 24 * time.Hour), LaneId: 1, VehicleCount: 99}
	if err := DB.Create(&oldRec).Error; err != nil {
		t.Fatalf("create error: %v", err)
	}

	rows, err := GetDailyAnalytics(7)
	if err != nil {
		t.Fatalf("GetDailyAnalytics() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	seen := make(map[string]bool)
	for i, row := range rows {
		if seen[row.Date] {
			t.Errorf("duplicate date %s", row.Date)
		}
		seen[row.Date] = true
		if i > 0 && rows[i-1].Date >= row.Date {
			t.Errorf("dates not ascending: %s before %s", rows[i-1].Date, row.Date)
		}
	}

	latest := rows[len(rows)-1]
	if latest.AvgVehicles != 4 || latest.MaxVehicles != 6 || latest.TotalVolume != 8 {
		t.Errorf("latest day = %+v, want avg 4 max 6 total 8", latest)
	}
}
