package onnx

import (
	"fmt"
	"sync"

	"github.com/iabetor/pipertts/internal/logger"
)

// SessionCache 按模型路径缓存唯一的推理会话。
//
// 会话创建开销大（完整加载模型），因此跨调用复用；换用不同模型
// 时先销毁旧会话再创建新会话，任一时刻最多存在一个会话。
// 所有字段由 mu 保护。
type SessionCache struct {
	runtime Runtime

	mu        sync.Mutex
	modelPath string
	session   Session
}

// NewSessionCache 创建会话缓存。runtime 决定会话如何创建，
// 测试中可传入假实现。
func NewSessionCache(runtime Runtime) *SessionCache {
	return &SessionCache{runtime: runtime}
}

// Run 获取 modelPath 对应的会话并执行一次推理。
//
// 互斥锁覆盖「比较路径 → 销毁旧会话 → 创建新会话 → 推理」全程：
// 底层会话不保证并发 Run 安全，持锁到推理结束是最稳妥的选择，
// 并发调用方会在此串行化。
//
// 模型路径变化时旧会话先销毁、新路径先记录，即使随后的创建失败
// 也不会留下路径与会话不一致的状态；失败后用同一路径重试会再次
// 尝试创建。
func (c *SessionCache) Run(modelPath string, phonemeIDs []int64, noiseScale, lengthScale, noiseW float32, speakerID int64) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.modelPath != modelPath {
		if c.session != nil {
			logger.Infof("[onnx] 模型切换 %s -> %s，销毁旧会话", c.modelPath, modelPath)
			if err := c.session.Destroy(); err != nil {
				logger.Warnf("[onnx] 销毁旧会话失败: %v", err)
			}
			c.session = nil
		}
		c.modelPath = modelPath
	}

	if c.session == nil {
		sess, err := c.runtime.CreateSession(modelPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCreateSession, err)
		}
		c.session = sess
		logger.Infof("[onnx] 会话已创建: %s", modelPath)
	}

	return c.session.Infer(phonemeIDs, noiseScale, lengthScale, noiseW, speakerID)
}

// Close 销毁缓存中的会话（若有）。进程退出前调用。
func (c *SessionCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			logger.Warnf("[onnx] 销毁会话失败: %v", err)
		}
		c.session = nil
	}
	c.modelPath = ""
}
