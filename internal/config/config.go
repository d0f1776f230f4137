// Package config 加载 pipertts 的应用级 YAML 配置。
// 语音模型自身的 JSON 配置由 internal/voice 负责，两者互不相干。
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config 是 pipertts 的顶层配置结构。
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Espeak  EspeakConfig  `yaml:"espeak"`
	Onnx    OnnxConfig    `yaml:"onnx"`
	History HistoryConfig `yaml:"history"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// EspeakConfig 音素化引擎配置。
type EspeakConfig struct {
	// DataDir 是 espeak-ng-data 目录，为空则用系统默认。
	DataDir string `yaml:"data_dir"`
}

// OnnxConfig ONNX Runtime 配置。
type OnnxConfig struct {
	// LibraryPath 是 onnxruntime 动态库路径，为空则按默认规则查找。
	LibraryPath string `yaml:"library_path"`
}

// HistoryConfig 合成历史配置。
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。path 为空返回全默认配置。
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}

		expanded := os.Expand(string(data), func(key string) string {
			return os.Getenv(key)
		})

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.History.DBPath == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.History.DBPath = filepath.Join(home, ".pipertts", "history.db")
		} else {
			cfg.History.DBPath = "./pipertts-history.db"
		}
	}
}
