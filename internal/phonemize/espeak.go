// Package phonemize 封装外部音素化引擎（espeak-ng）。
// 引擎作为黑盒消费：文本 + 语音 + 数据目录进，IPA 音素串出。
package phonemize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/iabetor/pipertts/internal/logger"
)

var (
	// ErrInit 表示引擎启动或数据目录加载失败。
	ErrInit = errors.New("espeak-ng 初始化失败")
	// ErrVoice 表示指定的语音不存在。
	ErrVoice = errors.New("espeak-ng 设置语音失败")
)

// Phonemizer 将文本转换为音素符号串。
type Phonemizer interface {
	// Available 返回当前平台是否可用，进程启动后结果不变。
	Available() bool
	// Phonemize 将文本按指定语音转为 IPA 音素串。
	// dataPath 为 espeak-ng-data 目录，为空则使用系统默认。
	Phonemize(ctx context.Context, text, voice, dataPath string) (string, error)
}

// Espeak 通过 espeak-ng 命令行实现 Phonemizer。
// 可用性在首次查询时探测一次（查 PATH），之后固定不变。
type Espeak struct {
	lookupOnce sync.Once
	binPath    string
	initOnce   sync.Once
}

// NewEspeak 创建 espeak-ng 音素化器。
func NewEspeak() *Espeak {
	return &Espeak{}
}

// Available 报告 espeak-ng 是否在 PATH 上可用。
func (e *Espeak) Available() bool {
	e.lookupOnce.Do(func() {
		path, err := exec.LookPath("espeak-ng")
		if err != nil {
			logger.Warnf("[phonemize] 未找到 espeak-ng: %v", err)
			return
		}
		e.binPath = path
	})
	return e.binPath != ""
}

// Phonemize 运行 espeak-ng 将文本转为 IPA 音素。
// 数据目录在进程生命周期内假定不变，首次调用时记录一次。
func (e *Espeak) Phonemize(ctx context.Context, text, voice, dataPath string) (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("%w: espeak-ng 不在 PATH 上", ErrInit)
	}

	e.initOnce.Do(func() {
		logger.Infof("[phonemize] espeak-ng 已就绪: bin=%s data=%s", e.binPath, dataPath)
	})

	args := []string{"-q", "--ipa=3", "-v", voice}
	if dataPath != "" {
		args = append(args, "--path="+dataPath)
	}
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if msg != "" {
			logger.Warnf("[phonemize] espeak-ng stderr: %s", strings.TrimSpace(msg))
		}
		if strings.Contains(strings.ToLower(msg), "voice") {
			return "", fmt.Errorf("%w: voice=%q: %v", ErrVoice, voice, err)
		}
		return "", fmt.Errorf("%w: %v", ErrInit, err)
	}

	return cleanOutput(stdout.String()), nil
}

// cleanOutput 规整 espeak-ng 的输出：
// 按行切分（每个子句一行），行内的音节分隔下划线移除，
// 子句之间以单个空格连接。
func cleanOutput(raw string) string {
	lines := strings.Split(raw, "\n")
	var clauses []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// --ipa=3 以 "_" 标注音素边界，查表按单字符进行，去掉分隔符
		line = strings.ReplaceAll(line, "_", "")
		clauses = append(clauses, line)
	}
	return strings.Join(clauses, " ")
}
