package config

const defaultDBPath = "neuroflow_data.db"

type DBConfig struct {
	Path         string `yaml:"path"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxLifetime  int    `yaml:"maxLifetime"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	Region          string `yaml:"region"`
}

type NSQConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Topic   string `yaml:"topic"`
}

type TritonConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ServerAddr string `yaml:"serverAddr"`
	ModelName  string `yaml:"modelName"`
	Labels     string `yaml:"labels"`
}

// StreamConfig controls the frame streamer loop.
type StreamConfig struct {
	// FrameIntervalMs is the minimum time between emitted frames.
	FrameIntervalMs int `yaml:"frameIntervalMs"`
	// IdlePollMs is the sleep between session polls when no video is active.
	IdlePollMs int `yaml:"idlePollMs"`
	// Loop rewinds to frame 0 at end-of-stream instead of ending the cycle.
	Loop        bool `yaml:"loop"`
	JPEGQuality int  `yaml:"jpegQuality"`
	BufferSize  int  `yaml:"bufferSize"`
	LaneId      int  `yaml:"laneId"`
}

// PipelineConfig is the detection filtering policy. The class whitelist and
// the confidence threshold are policy, not physics, so they live in config.
type PipelineConfig struct {
	Classes       []string           `yaml:"classes"`
	ConfThreshold float64            `yaml:"confThreshold"`
	Weights       map[string]float64 `yaml:"weights"`
}

// SignalConfig holds the density thresholds and the green-duration policy.
type SignalConfig struct {
	RedMax         float64 `yaml:"redMax"`
	YellowMax      float64 `yaml:"yellowMax"`
	BaseGreenSecs  int     `yaml:"baseGreenSecs"`
	PerVehicleSecs int     `yaml:"perVehicleSecs"`
	MinGreenSecs   int     `yaml:"minGreenSecs"`
	MaxGreenSecs   int     `yaml:"maxGreenSecs"`
}

type Config struct {
	Addr      string         `yaml:"addr"`
	SSLCert   string         `yaml:"sslCert"`
	SSLKey    string         `yaml:"sslKey"`
	UploadDir string         `yaml:"uploadDir"`
	ExportDir string         `yaml:"exportDir"`
	DB        DBConfig       `yaml:"db"`
	Stream    StreamConfig   `yaml:"stream"`
	Pipeline  PipelineConfig `yaml:"pipeline"`
	Signal    SignalConfig   `yaml:"signal"`
	NSQ       NSQConfig      `yaml:"nsq"`
	S3        S3Config       `yaml:"s3"`
	Triton    TritonConfig   `yaml:"triton"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:      "127.0.0.1:8080",
		UploadDir: "uploads",
		ExportDir: "exports",
		DB: DBConfig{
			Path:         defaultDBPath,
			MaxIdleConns: 10,
			MaxOpenConns: 100,
			MaxLifetime:  60,
		},
		Stream: StreamConfig{
			FrameIntervalMs: 30,
			IdlePollMs:      100,
			Loop:            true,
			JPEGQuality:     90,
			BufferSize:      10,
			LaneId:          1,
		},
		Pipeline: PipelineConfig{
			Classes:       []string{"car", "bus", "truck", "motorbike"},
			ConfThreshold: 0.3,
			Weights: map[string]float64{
				"car":       1.0,
				"bus":       2.5,
				"truck":     2.0,
				"motorbike": 0.5,
			},
		},
		Signal: SignalConfig{
			RedMax:         10,
			YellowMax:      20,
			BaseGreenSecs:  10,
			PerVehicleSecs: 2,
			MinGreenSecs:   10,
			MaxGreenSecs:   60,
		},
		NSQ: NSQConfig{
			Addr:  "127.0.0.1:4150",
			Topic: "neuroflow_decisions",
		},
		S3: S3Config{
			Bucket:   "neuroflow",
			Endpoint: "127.0.0.1:9000",
			UseSSL:   false,
			Region:   "us-east-1",
		},
		Triton: TritonConfig{
			ServerAddr: "127.0.0.1:8001",
			ModelName:  "vehicle_detect",
			Labels:     "car,bus,truck,motorbike",
		},
	}
}
