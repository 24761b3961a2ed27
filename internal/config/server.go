package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/quicksortapp/quicksort/internal/common"
)

// ServerConfig holds everything the serve command needs.
type ServerConfig struct {
	ListenAddr    string
	DatabasePath  string
	ClassifierURL string
	ImageBucket   string
	ImageRegion   string
	SessionTTL    time.Duration
}

// LoadServerConfig reads the server configuration from Viper, which merges
// the config file, QUICKSORT_ environment variables, and flags.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		ListenAddr:    viper.GetString("server.listen_addr"),
		DatabasePath:  ExpandPath(viper.GetString("database.path")),
		ClassifierURL: viper.GetString("classifier.url"),
		ImageBucket:   viper.GetString("images.bucket"),
		ImageRegion:   viper.GetString("images.region"),
		SessionTTL:    viper.GetDuration("auth.session_ttl"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath("$HOME/.local/share/quicksort/quicksort.db")
	}
	if cfg.ImageRegion == "" {
		cfg.ImageRegion = "ap-northeast-2"
	}

	if cfg.ClassifierURL == "" {
		return nil, fmt.Errorf("%w: classifier.url", common.ErrMissingConfig)
	}
	if cfg.ImageBucket == "" {
		return nil, fmt.Errorf("%w: images.bucket", common.ErrMissingConfig)
	}

	return cfg, nil
}
