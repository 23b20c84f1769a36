package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const feedBoundary = "frame"

// handleVideoFeed streams multipart JPEG parts at the streamer's pacing.
// With no active session the connection stays open and simply carries no
// parts until a video is uploaded; the streamer idles rather than spins.
func (s *Server) handleVideoFeed(c *gin.Context) {
	frames := s.streamer.Subscribe()
	defer s.streamer.Unsubscribe(frames)

	c.Header("Content-Type", fmt.Sprintf("multipart/x-mixed-replace; boundary=%s", feedBoundary))
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(c.Writer,
				"--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n",
				feedBoundary, len(frame)); err != nil {
				return
			}
			if _, err := c.Writer.Write(frame); err != nil {
				return
			}
			if _, err := c.Writer.Write([]byte("\r\n")); err != nil {
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
	}
}
