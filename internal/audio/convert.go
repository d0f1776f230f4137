// Package audio 提供波形后处理与 PCM 格式转换。
package audio

import (
	"math"
)

// pcmMax 是量化目标的对称峰值。有意用 32767 而不是 32768，
// 正负两侧裁剪到同一幅度。
const pcmMax = 32767.0

// minPeak 是峰值归一化的分母下限，防止近静音输出除法爆炸。
const minPeak = 0.01

// ToPCM16 将 float32 波形重缩放并量化为 16 位有符号 PCM。
//
// 先做峰值归一化：scale = 32767 / max(0.01, max|s|)，把不同模型、
// 不同输入的响度拉到同一水平（有损且不可逆，这是有意为之）。
// gainDB 非 nil 时在归一化之后追加一个 dB 增益因子
// scale *= 10^(dB/20)，负值表示衰减，nil 表示不加增益。
// 每个样本 clamp 到 ±32767 后按截断取整。
func ToPCM16(samples []float32, gainDB *float64) []int16 {
	if len(samples) == 0 {
		return nil
	}

	maxVal := minPeak
	for _, s := range samples {
		if abs := math.Abs(float64(s)); abs > maxVal {
			maxVal = abs
		}
	}

	scale := pcmMax / maxVal
	if gainDB != nil {
		scale *= math.Pow(10, *gainDB/20)
	}

	out := make([]int16, len(samples))
	for i, s := range samples {
		v := float64(s) * scale
		if v > pcmMax {
			v = pcmMax
		} else if v < -pcmMax {
			v = -pcmMax
		}
		out[i] = int16(v)
	}
	return out
}

// Int16ToBytes 将 int16 样本转换为小端字节切片。
func Int16ToBytes(in []int16) []byte {
	out := make([]byte, len(in)*2)
	for i, s := range in {
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	return out
}

// BytesToInt16 将小端字节切片转换为 int16 样本。
func BytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(b[2*i]) | int16(b[2*i+1])<<8
	}
	return out
}
