package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"neuroflow/internal/dao"
)

// handleUpload accepts a multipart "video" field, saves it under the upload
// dir and installs it as the active session, replacing any prior one.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		s.writeError(c, http.StatusBadRequest, errors.New("no file uploaded"))
		return
	}

	if err := os.MkdirAll(s.conf.UploadDir, 0755); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	savePath := filepath.Join(s.conf.UploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	generation := s.sessions.Install(savePath)
	s.logger.Infof("installed video session %s (generation %d)", savePath, generation)

	c.JSON(http.StatusOK, dao.UploadResponse{
		Uploaded: true,
		Path:     savePath,
	})
}

func (s *Server) handleSession(c *gin.Context) {
	path, generation, ok := s.sessions.Current()
	c.JSON(http.StatusOK, dao.SessionResponse{
		Active:     ok,
		Path:       path,
		Generation: generation,
	})
}
