// Package onnx 封装 ONNX Runtime 推理边界：会话创建、张量装配与推理调用。
package onnx

import (
	"errors"
	"fmt"
	"sync"

	"github.com/iabetor/pipertts/internal/logger"
	ort "github.com/yalue/onnxruntime_go"
)

// ErrCreateSession 表示底层运行时拒绝加载模型。
var ErrCreateSession = errors.New("onnx 会话创建失败")

// Runtime 是推理运行时的抽象，测试中可注入假实现。
type Runtime interface {
	CreateSession(modelPath string) (Session, error)
}

// Session 是一个已加载、可推理的模型实例。
type Session interface {
	// SupportsSpeakerID 报告模型是否声明了说话人 id 输入。
	// 在会话创建时探测一次，与会话同生命周期。
	SupportsSpeakerID() bool
	// Infer 执行一次推理，返回原始 float32 波形。
	Infer(phonemeIDs []int64, noiseScale, lengthScale, noiseW float32, speakerID int64) ([]float32, error)
	// Destroy 释放会话持有的全部原生资源。
	Destroy() error
}

// speakerInputName 是 piper 多说话人模型声明的说话人 id 输入名。
const speakerInputName = "sid"

var (
	envOnce sync.Once
	envErr  error
)

// ensureEnvironment 初始化 ONNX Runtime 环境，进程内只执行一次。
// 环境可能已被其他组件初始化，这种情况不视为错误。
func ensureEnvironment(libraryPath string) error {
	envOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			if !ort.IsInitialized() {
				envErr = fmt.Errorf("初始化 ONNX Runtime 失败: %w", err)
			}
		}
	})
	return envErr
}

// OrtRuntime 是基于 onnxruntime_go 的 Runtime 实现。
type OrtRuntime struct {
	// LibraryPath 是 onnxruntime 动态库路径，为空则按库的默认规则查找。
	LibraryPath string
}

// CreateSession 加载模型并创建推理会话。
// 创建前先读取模型声明的输入名，据此决定会话是三输入还是四输入
//（带 sid），避免对单说话人模型传入多余张量导致形状不匹配。
func (r *OrtRuntime) CreateSession(modelPath string) (Session, error) {
	if err := ensureEnvironment(r.LibraryPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("读取模型输入输出信息失败: %w", err)
	}

	hasSID := false
	for _, in := range inputs {
		if in.Name == speakerInputName {
			hasSID = true
		}
	}
	logger.Infof("[onnx] 模型 %s: %d 个输入, %d 个输出, sid=%v",
		modelPath, len(inputs), len(outputs), hasSID)

	inputNames := []string{"input", "input_lengths", "scales"}
	if hasSID {
		inputNames = append(inputNames, speakerInputName)
	}

	sess, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{"output"}, nil)
	if err != nil {
		return nil, fmt.Errorf("创建会话失败: %s: %w", modelPath, err)
	}

	return &ortSession{session: sess, hasSID: hasSID}, nil
}

// ortSession 持有一个 onnxruntime 会话及其说话人能力标记。
type ortSession struct {
	session *ort.DynamicAdvancedSession
	hasSID  bool
}

func (s *ortSession) SupportsSpeakerID() bool { return s.hasSID }

// Infer 装配模型期望的命名张量并执行一次推理。
//
// 输入张量：input [1,N] int64、input_lengths [1] int64、
// scales [3] float32（noise_scale, length_scale, noise_w），
// 以及仅在模型声明时附加的 sid [1] int64。
// 输出只请求 "output" 一个张量。所有张量句柄在每条返回路径上
// 都通过 defer 释放，波形数据在释放前拷贝到调用方自有切片。
func (s *ortSession) Infer(phonemeIDs []int64, noiseScale, lengthScale, noiseW float32, speakerID int64) ([]float32, error) {
	n := int64(len(phonemeIDs))

	inputTensor, err := ort.NewTensor(ort.NewShape(1, n), phonemeIDs)
	if err != nil {
		return nil, fmt.Errorf("创建 input 张量失败: %w", err)
	}
	defer inputTensor.Destroy()

	lengthsTensor, err := ort.NewTensor(ort.NewShape(1), []int64{n})
	if err != nil {
		return nil, fmt.Errorf("创建 input_lengths 张量失败: %w", err)
	}
	defer lengthsTensor.Destroy()

	scalesTensor, err := ort.NewTensor(ort.NewShape(3), []float32{noiseScale, lengthScale, noiseW})
	if err != nil {
		return nil, fmt.Errorf("创建 scales 张量失败: %w", err)
	}
	defer scalesTensor.Destroy()

	inputs := []ort.Value{inputTensor, lengthsTensor, scalesTensor}
	if s.hasSID {
		sidTensor, err := ort.NewTensor(ort.NewShape(1), []int64{speakerID})
		if err != nil {
			return nil, fmt.Errorf("创建 sid 张量失败: %w", err)
		}
		defer sidTensor.Destroy()
		inputs = append(inputs, sidTensor)
	}

	// 输出张量由运行时按实际形状分配
	runOutputs := []ort.Value{nil}
	if err := s.session.Run(inputs, runOutputs); err != nil {
		return nil, fmt.Errorf("推理执行失败: %w", err)
	}
	output := runOutputs[0]
	defer output.Destroy()

	tensor, ok := output.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("输出张量类型不是 float32")
	}

	total := int64(1)
	for _, dim := range tensor.GetShape() {
		total *= dim
	}
	if total <= 0 {
		// 调用成功但输出为空，不是可用音频
		return nil, fmt.Errorf("输出张量元素数为 %d", total)
	}

	data := tensor.GetData()
	samples := make([]float32, len(data))
	copy(samples, data)
	return samples, nil
}

func (s *ortSession) Destroy() error {
	return s.session.Destroy()
}
