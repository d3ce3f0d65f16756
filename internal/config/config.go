package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	UploadDir         string        `mapstructure:"upload_dir" yaml:"upload_dir"`
	MaxUploadBytes    int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	HistoryLimit      int           `mapstructure:"history_limit" yaml:"history_limit"`
	SessionBuffer     int           `mapstructure:"session_buffer" yaml:"session_buffer"`
	StaticDir         string        `mapstructure:"static_dir" yaml:"static_dir"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		UploadDir:         "static/uploads",
		MaxUploadBytes:    50 << 20,
		HistoryLimit:      100,
		SessionBuffer:     256,
		StaticDir:         "static",
	}
}
