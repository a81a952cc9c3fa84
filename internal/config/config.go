package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env       Env
	Server    ServerConfig
	Upload    UploadConfig
	Transcode TranscodeConfig
	NATS      NATSConfig
	Metrics   MetricsConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type UploadConfig struct {
	Dir        string        `envconfig:"UPLOAD_DIR" default:"uploads"`
	BaseURL    string        `envconfig:"BASE_URL" default:"http://localhost:8080"`
	MaxMB      int64         `envconfig:"MAX_MB" default:"25"`
	TTL        time.Duration `envconfig:"AUTO_DELETE_AFTER" default:"1h"`
	SweepEvery time.Duration `envconfig:"SWEEP_EVERY" default:"6m"`
}

// MaxBytes is the upload ceiling in bytes
func (c UploadConfig) MaxBytes() int64 {
	return c.MaxMB << 20
}

type TranscodeConfig struct {
	FFmpegPath  string        `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath string        `envconfig:"FFPROBE_PATH" default:"ffprobe"`
	Timeout     time.Duration `envconfig:"TRANSCODE_TIMEOUT" default:"2m"`
	Bitrate     string        `envconfig:"TRANSCODE_BITRATE" default:"24k"`
	SampleRate  int           `envconfig:"TRANSCODE_SAMPLE_RATE" default:"16000"`
	Channels    int           `envconfig:"TRANSCODE_CHANNELS" default:"1"`
}

type NATSConfig struct {
	URL           string `envconfig:"NATS_URL" default:""`
	StreamName    string `envconfig:"NATS_STREAM_NAME" default:"AUDIOPRESS"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"audio.artifact"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
