package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"neuroflow/internal/dao"
	"neuroflow/internal/export"
	"neuroflow/internal/model"
)

func (s *Server) handleRecentRecords(c *gin.Context) {
	query := dao.RecordsQuery{Limit: 50}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	records, err := model.RecentTrafficRecords(query.Limit)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (s *Server) handleRecentDecisions(c *gin.Context) {
	query := dao.RecordsQuery{Limit: 20}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	decisions, err := model.RecentDecisions(query.Limit)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": decisions})
}

func (s *Server) handleStatistics(c *gin.Context) {
	query := dao.StatisticsQuery{Period: "all"}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	stats, err := model.GetStatistics(query.Period)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPeriod) {
			s.writeError(c, http.StatusBadRequest, err)
			return
		}
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleDailyAnalytics(c *gin.Context) {
	query := dao.DailyAnalyticsQuery{Days: 30}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	rows, err := model.GetDailyAnalytics(query.Days)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// handleExport writes a full-table snapshot and, when object storage is
// configured, uploads the artifact there too.
func (s *Server) handleExport(c *gin.Context) {
	var req dao.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	filename, err := export.Export(model.DB, req.Table, req.Format, s.conf.ExportDir, req.Filename)
	if err != nil {
		if errors.Is(err, export.ErrUnknownTable) || errors.Is(err, export.ErrUnknownFormat) {
			s.writeError(c, http.StatusBadRequest, err)
			return
		}
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	if s.minioCli != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if err := export.UploadArtifact(ctx, s.minioCli, s.conf.S3.Bucket, filename); err != nil {
			s.logger.WithError(err).Warn("upload export artifact failed")
		}
	}

	c.JSON(http.StatusOK, dao.ExportResponse{Filename: filename})
}
