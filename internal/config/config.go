package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		APIBaseURL string `yaml:"api_base_url"`
		WSBaseURL  string `yaml:"ws_base_url"`
	} `yaml:"server"`
	Reconnect struct {
		InitialBackoff string `yaml:"initial_backoff"`
		MaxBackoff     string `yaml:"max_backoff"`
	} `yaml:"reconnect"`
	Client struct {
		Avatars    []string `yaml:"avatars"`
		HostAvatar string   `yaml:"host_avatar"`
	} `yaml:"client"`
}

// Default returns the built-in endpoints and avatar set, used when no config
// file is given.
func Default() Config {
	cfg := Config{}
	cfg.Server.APIBaseURL = "http://127.0.0.1:8000"
	cfg.Server.WSBaseURL = "ws://127.0.0.1:8000"
	cfg.Client.Avatars = []string{"🚀", "🤖", "👾", "🦊", "🐸", "🦄", "🐲", "👽"}
	cfg.Client.HostAvatar = "👑"
	return cfg
}

// Load reads YAML config from path, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Client.Avatars) == 0 {
		cfg.Client.Avatars = Default().Client.Avatars
	}
	if cfg.Client.HostAvatar == "" {
		cfg.Client.HostAvatar = Default().Client.HostAvatar
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// unparseable.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
