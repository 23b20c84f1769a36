package dao

type UploadResponse struct {
	Uploaded bool   `json:"uploaded"`
	Path     string `json:"path"`
}

type SessionResponse struct {
	Active     bool   `json:"active"`
	Path       string `json:"path,omitempty"`
	Generation uint64 `json:"generation"`
}

type RecordsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type StatisticsQuery struct {
	Period string `form:"period" binding:"omitempty,oneof=all today week hour"`
}

type DailyAnalyticsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

type ExportRequest struct {
	Table    string `json:"table" binding:"required,oneof=traffic_records decision_log session_stats"`
	Format   string `json:"format" binding:"required,oneof=csv json"`
	Filename string `json:"filename,omitempty" binding:"omitempty,exportname"`
}

type ExportResponse struct {
	Filename string `json:"filename"`
}
