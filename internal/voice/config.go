// Package voice 解析 piper 语音模型附带的 JSON 配置文件。
// 每次合成调用重新加载一份配置，解析后不可变、不缓存。
package voice

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrOpen 表示配置文件无法打开。
	ErrOpen = errors.New("配置文件打开失败")
	// ErrParse 表示配置文件内容无法解析。
	ErrParse = errors.New("配置文件解析失败")
)

// Config 是一个语音模型的完整配置。
type Config struct {
	Audio        AudioConfig        `json:"audio"`
	Inference    InferenceConfig    `json:"inference"`
	Espeak       EspeakConfig       `json:"espeak"`
	PhonemeIDMap map[string][]int64 `json:"phoneme_id_map"`
	NumSpeakers  int                `json:"num_speakers"`
}

// AudioConfig 输出音频参数。
type AudioConfig struct {
	SampleRate int `json:"sample_rate"`
}

// InferenceConfig 推理超参数，缺省值与 piper 训练时的默认一致。
type InferenceConfig struct {
	NoiseScale  float32 `json:"noise_scale"`
	LengthScale float32 `json:"length_scale"`
	NoiseW      float32 `json:"noise_w"`
}

// EspeakConfig 音素化引擎参数。
type EspeakConfig struct {
	Voice string `json:"voice"`
}

// defaults 返回填好默认值的配置。
// json.Unmarshal 直接覆盖其上，文档里缺失的字段保留默认值，
// 显式写出的值（包括 0）原样生效。
func defaults() *Config {
	return &Config{
		Audio: AudioConfig{SampleRate: 22050},
		Inference: InferenceConfig{
			NoiseScale:  0.667,
			LengthScale: 1.0,
			NoiseW:      0.8,
		},
		Espeak:      EspeakConfig{Voice: "en-us"},
		NumSpeakers: 1,
	}
}

// Load 读取并解析语音配置文件。
// 打开失败返回 ErrOpen，内容不合法（含字段类型错误）返回 ErrParse，
// 字段缺失不是错误。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	cfg := defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	if cfg.PhonemeIDMap == nil {
		cfg.PhonemeIDMap = map[string][]int64{}
	}
	return cfg, nil
}
