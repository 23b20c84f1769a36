package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"neuroflow/internal/config"
	"neuroflow/internal/detect"
	"neuroflow/internal/model"
	"neuroflow/internal/server"
	"neuroflow/internal/stream"
	"neuroflow/internal/video"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the neuroflow server and frame streamer",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func runServe() {
	conf, err := config.InitConfig(configFile)
	if err != nil {
		logrus.Fatal("initConfig error, ", err.Error())
	}

	logrus.Infof("config: %+v", conf)

	db, err := model.InitDB(model.DBConfig(conf.DB))
	if err != nil {
		logrus.Fatal("failed to init database, ", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()
	if err := model.AutoMigrate(db); err != nil {
		logrus.Fatal("failed to migrate database, ", err)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	sessions := video.NewSessionManager()

	var detector detect.Detector
	if conf.Triton.Enabled {
		tritonDetector, err := detect.NewTritonDetector(conf.Triton)
		if err != nil {
			logrus.Fatalf("newTritonDetector error, %s", err.Error())
		}
		if err := tritonDetector.Ready(ctx); err != nil {
			logrus.Fatalf("triton not ready, %s", err.Error())
		}
		detector = tritonDetector
	} else {
		logrus.Warn("triton disabled, running with an empty static detector")
		detector = &detect.StaticDetector{}
	}

	streamer := stream.NewStreamer(conf, sessions, detector)
	if conf.NSQ.Enabled {
		producer, err := nsq.NewProducer(conf.NSQ.Addr, nsq.NewConfig())
		if err != nil {
			logrus.Fatalf("newProducer error, %s", err.Error())
		}
		defer producer.Stop()
		streamer.WithNSQ(producer, conf.NSQ.Topic)
	}
	streamer.Start()

	srv, err := server.NewServer(ctx, conf, sessions, streamer)
	if err != nil {
		logrus.Fatalf("newServer error, %s", err.Error())
	}
	if conf.S3.Enabled {
		minioCli, err := minio.New(conf.S3.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(conf.S3.AccessKeyID, conf.S3.SecretAccessKey, ""),
			Secure: conf.S3.UseSSL,
			Region: conf.S3.Region,
		})
		if err != nil {
			logrus.Fatalf("newMinioClient error, %s", err.Error())
		}
		srv.WithMinio(minioCli)
	}
	go srv.Start()

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan
	logrus.Infof("server is shutting down...")
	// Stopping the streamer first closes the feed subscribers, so streaming
	// connections drain and Shutdown can complete.
	streamer.Stop()
	srv.Shutdown()
}
