// Package phoneme 将音素符号串编码为模型输入的 id 序列。
package phoneme

// piper 模型约定的保留音素符号。
const (
	// BOS 序列起始标记。
	BOS = "^"
	// EOS 序列结束标记。
	EOS = "$"
	// PAD 符号间填充标记。
	PAD = "_"
)

// fallbackID 是 phoneme_id_map 中没有空格条目时的兜底 id。
const fallbackID int64 = 0

// DefaultID 返回未知符号的替代 id：优先取映射表中空格符号的首个 id。
func DefaultID(idMap map[string][]int64) int64 {
	if ids, ok := idMap[" "]; ok && len(ids) > 0 {
		return ids[0]
	}
	return fallbackID
}

// Encode 将音素符号串逐符号编码为 int64 id 序列。
//
// 序列结构为 [BOS, PAD, (符号, PAD)..., EOS]，其中每段仅在映射表
// 含对应条目时输出。每个符号（无论是否命中映射）之后都插入一次
// PAD——这是模型训练时的序列格式，必须严格复现。
// 未命中映射的符号以单个 defaultID 替代。
//
// 符号按 rune 逐个查表：espeak 输出的 IPA 音素是多字节字符，
// 必须整字符查找而不是逐字节。
func Encode(phonemes string, idMap map[string][]int64, defaultID int64) []int64 {
	if phonemes == "" {
		// 空音素串不产出只含标记的序列，调用方据此判定合成失败。
		return nil
	}

	bos, hasBOS := idMap[BOS]
	pad, hasPAD := idMap[PAD]
	eos, hasEOS := idMap[EOS]

	var out []int64
	if hasBOS {
		out = append(out, bos...)
	}
	if hasPAD {
		out = append(out, pad...)
	}

	for _, r := range phonemes {
		if ids, ok := idMap[string(r)]; ok {
			out = append(out, ids...)
		} else {
			out = append(out, defaultID)
		}
		if hasPAD {
			out = append(out, pad...)
		}
	}

	if hasEOS {
		out = append(out, eos...)
	}
	return out
}
