package server

import (
	"context"
	goerrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"

	"neuroflow/internal/config"
	"neuroflow/internal/stream"
	"neuroflow/internal/video"
	"neuroflow/pkg/log"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	sessions   *video.SessionManager
	streamer   *stream.Streamer
	minioCli   *minio.Client
	logger     *logrus.Entry
}

func NewServer(ctx context.Context, conf *config.Config, sessions *video.SessionManager,
	streamer *stream.Streamer) (*Server, error) {
	s := &Server{
		conf:     conf,
		sessions: sessions,
		streamer: streamer,
		logger:   log.GetLogger(ctx),
	}
	return s, nil
}

// WithMinio attaches optional object storage for export artifacts.
func (s *Server) WithMinio(minioCli *minio.Client) *Server {
	s.minioCli = minioCli
	return s
}

func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(log.HttpXRequestId)
		if requestId == "" {
			requestId = strings.ReplaceAll(uuid.New().String(), "-", "")
		}
		c.Header(log.HttpXRequestId, requestId)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		t := time.Now()
		c.Next()
		latency := time.Since(t)
		status := c.Writer.Status()

		logrus.Info("ip: ", c.ClientIP(), " method: ", c.Request.Method, " path: ",
			c.Request.URL.Path, " status: ", status, " latency: ", latency)
	}
}

func (s *Server) Start() {
	gin.SetMode(gin.ReleaseMode)
	router := s.SetUpRouter()
	pprof.Register(router)
	s.httpServer = &http.Server{
		Addr:    s.conf.Addr,
		Handler: router,
	}

	var err error
	if s.conf.SSLCert != "" && s.conf.SSLKey != "" {
		logrus.Infof("start https server on %s", s.conf.Addr)
		err = s.httpServer.ListenAndServeTLS(s.conf.SSLCert, s.conf.SSLKey)
	} else {
		logrus.Infof("start http server on %s", s.conf.Addr)
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && !goerrors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(c *gin.Context, code int, err error) {
	c.JSON(code, ErrorResponse{
		Error: err.Error(),
	})
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// export filenames must stay inside the export dir
		v.RegisterValidation("exportname", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return !strings.ContainsAny(name, "/\\") && name != ".." && name != "."
		})
	}
}
