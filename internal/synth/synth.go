// Package synth 是语音合成的编排层：驱动音素化、编码、推理和后
// 处理，并把每一步的失败映射到唯一的错误类别。
package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iabetor/pipertts/internal/audio"
	"github.com/iabetor/pipertts/internal/logger"
	"github.com/iabetor/pipertts/internal/onnx"
	"github.com/iabetor/pipertts/internal/phoneme"
	"github.com/iabetor/pipertts/internal/phonemize"
	"github.com/iabetor/pipertts/internal/voice"
)

// Request 描述一次合成调用的全部输入。
type Request struct {
	// ModelPath 是 ONNX 模型文件路径。
	ModelPath string
	// ConfigPath 是模型配套的 JSON 配置路径。
	ConfigPath string
	// EspeakDataPath 是 espeak-ng-data 目录，为空则用系统默认。
	EspeakDataPath string
	// Text 是待合成文本。
	Text string
	// Overrides 按字段覆盖配置中的推理超参数。
	Overrides Overrides
}

// Overrides 是调用方对推理超参数的稀疏覆盖。
// nil 字段表示沿用配置默认值；显式指针可以合法地携带任何值，
// 包括负的 dB 增益（衰减）。
type Overrides struct {
	NoiseScale  *float32
	LengthScale *float32
	NoiseW      *float32
	// GainDB 在峰值归一化之后追加的增益（分贝），nil 为 0 dB。
	GainDB *float64
}

// Result 是一次成功合成的完整产物。
type Result struct {
	// PCM 是 16 位有符号单声道样本。
	PCM []int16
	// SampleRate 采样率（Hz）。
	SampleRate int
}

// Recorder 在合成成功后记录一条历史，失败不影响合成结果。
type Recorder interface {
	Record(text, modelPath, voiceName string, sampleRate, numSamples int) error
}

// Engine 编排一次文本到 PCM 的完整流程。
// 各协作方通过构造注入，测试中可全部替换为假实现。
type Engine struct {
	phonemizer phonemize.Phonemizer
	sessions   *onnx.SessionCache
	recorder   Recorder
}

// New 创建合成引擎。recorder 可为 nil（不记录历史）。
func New(p phonemize.Phonemizer, sessions *onnx.SessionCache, recorder Recorder) *Engine {
	return &Engine{phonemizer: p, sessions: sessions, recorder: recorder}
}

// Synthesize 执行一次完整合成。
//
// 流程固定为：参数校验 → 配置加载 → 音素化 → 编码 → 会话获取 +
// 推理 → PCM 后处理。任一步失败立即终止，返回的错误可用
// errors.Is 对照本包的分类常量，绝不返回部分音频。
// 同一会话上的推理被会话缓存串行化；ctx 在音素化阶段生效，
// 推理一旦开始不可中断。
func (e *Engine) Synthesize(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if req.ModelPath == "" || req.ConfigPath == "" || strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: model=%q config=%q text 长度=%d",
			ErrInvalidArgs, req.ModelPath, req.ConfigPath, len(req.Text))
	}

	cfg, err := voice.Load(req.ConfigPath)
	if err != nil {
		switch {
		case errors.Is(err, voice.ErrOpen):
			return nil, fmt.Errorf("%w: %v", ErrConfigOpen, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	// 平台能力检查先于一切音素化操作
	if !e.phonemizer.Available() {
		return nil, fmt.Errorf("%w: 本平台未提供 espeak-ng", ErrPhonemizerUnavailable)
	}

	phonemes, err := e.phonemizer.Phonemize(ctx, req.Text, cfg.Espeak.Voice, req.EspeakDataPath)
	if err != nil {
		if errors.Is(err, phonemize.ErrVoice) {
			return nil, fmt.Errorf("%w: %v", ErrPhonemizerVoice, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPhonemizerInit, err)
	}
	logger.Debugf("[synth] 音素化完成: %d 个字符 -> %d 个音素字符",
		len([]rune(req.Text)), len([]rune(phonemes)))

	ids := phoneme.Encode(phonemes, cfg.PhonemeIDMap, phoneme.DefaultID(cfg.PhonemeIDMap))
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: 文本 %q", ErrPhonemeIDsEmpty, req.Text)
	}

	noiseScale := cfg.Inference.NoiseScale
	if req.Overrides.NoiseScale != nil {
		noiseScale = *req.Overrides.NoiseScale
	}
	lengthScale := cfg.Inference.LengthScale
	if req.Overrides.LengthScale != nil {
		lengthScale = *req.Overrides.LengthScale
	}
	noiseW := cfg.Inference.NoiseW
	if req.Overrides.NoiseW != nil {
		noiseW = *req.Overrides.NoiseW
	}

	// 多说话人模型固定用 0 号说话人，说话人选择是后续扩展点
	const speakerID int64 = 0

	samples, err := e.sessions.Run(req.ModelPath, ids, noiseScale, lengthScale, noiseW, speakerID)
	if err != nil {
		if errors.Is(err, onnx.ErrCreateSession) {
			return nil, fmt.Errorf("%w: %v", ErrSessionCreate, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: 推理未产出样本", ErrInference)
	}

	pcm := audio.ToPCM16(samples, req.Overrides.GainDB)

	logger.Infof("[synth] 合成完成: %d 个样本, %d Hz, 耗时 %s",
		len(pcm), cfg.Audio.SampleRate, time.Since(start).Round(time.Millisecond))

	if e.recorder != nil {
		if err := e.recorder.Record(req.Text, req.ModelPath, cfg.Espeak.Voice,
			cfg.Audio.SampleRate, len(pcm)); err != nil {
			logger.Warnf("[synth] 写入合成历史失败: %v", err)
		}
	}

	return &Result{PCM: pcm, SampleRate: cfg.Audio.SampleRate}, nil
}
