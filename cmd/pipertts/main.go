package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iabetor/pipertts/internal/audio"
	"github.com/iabetor/pipertts/internal/config"
	"github.com/iabetor/pipertts/internal/history"
	"github.com/iabetor/pipertts/internal/logger"
	"github.com/iabetor/pipertts/internal/onnx"
	"github.com/iabetor/pipertts/internal/phonemize"
	"github.com/iabetor/pipertts/internal/synth"
)

func main() {
	configPath := flag.String("config", "", "应用配置文件路径（可选）")
	modelPath := flag.String("model", "", "ONNX 模型文件路径")
	voiceConfigPath := flag.String("voice-config", "", "模型 JSON 配置路径，为空则取 <model>.json")
	text := flag.String("text", "", "待合成文本")
	textFile := flag.String("text-file", "", "从文件读取待合成文本")
	outPath := flag.String("out", "out.wav", "输出 WAV 文件路径")
	espeakData := flag.String("espeak-data", "", "espeak-ng-data 目录（覆盖配置）")
	noiseScale := flag.Float64("noise-scale", 0, "覆盖配置中的 noise_scale")
	lengthScale := flag.Float64("length-scale", 0, "覆盖配置中的 length_scale")
	noiseW := flag.Float64("noise-w", 0, "覆盖配置中的 noise_w")
	gainDB := flag.Float64("gain-db", 0, "归一化后追加的增益（dB，可为负）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	input := *text
	if input == "" && *textFile != "" {
		data, err := os.ReadFile(*textFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "读取文本文件失败: %v\n", err)
			os.Exit(1)
		}
		input = strings.TrimSpace(string(data))
	}

	voiceConfig := *voiceConfigPath
	if voiceConfig == "" && *modelPath != "" {
		voiceConfig = *modelPath + ".json"
	}

	dataDir := cfg.Espeak.DataDir
	if *espeakData != "" {
		dataDir = *espeakData
	}

	// 只有命令行上显式给出的覆盖才生效
	overrides := synth.Overrides{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "noise-scale":
			v := float32(*noiseScale)
			overrides.NoiseScale = &v
		case "length-scale":
			v := float32(*lengthScale)
			overrides.LengthScale = &v
		case "noise-w":
			v := float32(*noiseW)
			overrides.NoiseW = &v
		case "gain-db":
			overrides.GainDB = gainDB
		}
	})

	var recorder synth.Recorder
	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.DBPath)
		if err != nil {
			logger.Warnf("[main] 历史数据库不可用: %v", err)
		} else {
			defer store.Close()
			recorder = store
			if prev, err := store.LookupByText(input); err == nil && len(prev) > 0 {
				logger.Infof("[main] 该文本此前已合成 %d 次，最近一次 %s",
					len(prev), prev[0].CreatedAt.Format("2006-01-02 15:04:05"))
			}
		}
	}

	sessions := onnx.NewSessionCache(&onnx.OrtRuntime{LibraryPath: cfg.Onnx.LibraryPath})
	defer sessions.Close()

	engine := synth.New(phonemize.NewEspeak(), sessions, recorder)

	result, err := engine.Synthesize(context.Background(), synth.Request{
		ModelPath:      *modelPath,
		ConfigPath:     voiceConfig,
		EspeakDataPath: dataDir,
		Text:           input,
		Overrides:      overrides,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "合成失败 [%s]: %v\n", synth.CodeOf(err), err)
		os.Exit(1)
	}

	if err := audio.WriteWAV(*outPath, result.PCM, result.SampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "写入输出失败: %v\n", err)
		os.Exit(1)
	}

	logger.Infof("[main] 已写入 %s: %d 个样本, %d Hz", *outPath, len(result.PCM), result.SampleRate)
}
