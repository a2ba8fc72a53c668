package tool

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lunavein/tripo-relay-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		Port:              8000,
		UploadFolder:      "uploads",
		OutputFolder:      "output",
		SessionTTLMinutes: 60,
		UploadRatePerSec:  5,
		UploadRateBurst:   10,
		ProgressWSEnabled: true,
		Generation: types.GenerationConfig{
			BaseURL:             "https://api.tripo3d.ai",
			PollIntervalSeconds: 2,
			TimeoutMinutes:      15,
		},
		Storage: types.StorageConfig{
			Region: "us-east-1",
		},
	}
}

// LoadConfig reads the YAML config, creating it with defaults when missing.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	CurrentConfig = cfg
	return cfg, nil
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}

// SessionTTL returns the configured session lifetime.
func SessionTTL(cfg *types.AppConfig) time.Duration {
	if cfg.SessionTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(cfg.SessionTTLMinutes) * time.Minute
}
