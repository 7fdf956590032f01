package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the study configuration shared by all commands.
type Config struct {
	TopDir    string       `yaml:"top_dir"`
	OutputDir string       `yaml:"output_dir"`
	LogFile   string       `yaml:"log_file"`
	OnError   string       `yaml:"on_error"`
	Samples   []SampleInfo `yaml:"samples"`
}

func DefaultConfig() Config {
	return Config{
		TopDir:    "2019_11_07_FallopianTube_WGBS_Kit_Comparison/analysis",
		OutputDir: ".",
		LogFile:   "kitcomp.log",
		OnError:   "abort",
	}
}

// ReadConfig loads a YAML config on top of the defaults. An empty path
// returns the defaults.
func ReadConfig(configPath string) (Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	if _, err := NewSampleTable(cfg.Samples); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// NewRunLogger opens (appending) the JSON run log in outDir and returns a
// logger writing to it. The caller closes the returned file.
func NewRunLogger(outDir, name string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, nil, err
	}
	logFilePath := filepath.Join(outDir, name)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, logFile, nil
}
