package synth

import "errors"

// 合成失败的完整分类。每次失败恰好落在其中一类，宿主边界据此
// 渲染提示信息而无需理解内部细节。本层不做任何重试。
var (
	// ErrInvalidArgs 模型路径、配置路径或文本为空。
	ErrInvalidArgs = errors.New("参数无效")
	// ErrConfigOpen 语音配置文件无法打开。
	ErrConfigOpen = errors.New("语音配置打开失败")
	// ErrConfigParse 语音配置文件内容无法解析。
	ErrConfigParse = errors.New("语音配置解析失败")
	// ErrPhonemizerUnavailable 当前平台没有可用的音素化引擎。
	ErrPhonemizerUnavailable = errors.New("音素化引擎不可用")
	// ErrPhonemizerInit 音素化引擎初始化失败。
	ErrPhonemizerInit = errors.New("音素化引擎初始化失败")
	// ErrPhonemizerVoice 音素化引擎不支持指定语音。
	ErrPhonemizerVoice = errors.New("音素化引擎设置语音失败")
	// ErrPhonemeIDsEmpty 音素 id 序列为空。
	ErrPhonemeIDsEmpty = errors.New("音素 id 序列为空")
	// ErrSessionCreate 推理会话创建失败。
	ErrSessionCreate = errors.New("推理会话创建失败")
	// ErrInference 推理执行失败或未产出音频。
	ErrInference = errors.New("推理执行失败")
)

// Code 是面向宿主边界的错误码。
type Code int

const (
	CodeNone Code = iota
	CodeInvalidArgs
	CodeConfigOpenFailed
	CodeConfigParseFailed
	CodePhonemizerUnavailable
	CodePhonemizerInitFailed
	CodePhonemizerVoiceFailed
	CodePhonemeIDsEmpty
	CodeSessionCreateFailed
	CodeInferenceFailed
	CodeUnknown
)

var codeNames = map[Code]string{
	CodeNone:                  "None",
	CodeInvalidArgs:           "InvalidArgs",
	CodeConfigOpenFailed:      "ConfigOpenFailed",
	CodeConfigParseFailed:     "ConfigParseFailed",
	CodePhonemizerUnavailable: "PhonemizerUnavailable",
	CodePhonemizerInitFailed:  "PhonemizerInitFailed",
	CodePhonemizerVoiceFailed: "PhonemizerVoiceFailed",
	CodePhonemeIDsEmpty:       "PhonemeIdsEmpty",
	CodeSessionCreateFailed:   "SessionCreateFailed",
	CodeInferenceFailed:       "InferenceFailed",
	CodeUnknown:               "Unknown",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// CodeOf 将 Synthesize 返回的错误映射为错误码。
// nil 映射为 CodeNone；无法归类的错误映射为 CodeUnknown。
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, ErrInvalidArgs):
		return CodeInvalidArgs
	case errors.Is(err, ErrConfigOpen):
		return CodeConfigOpenFailed
	case errors.Is(err, ErrConfigParse):
		return CodeConfigParseFailed
	case errors.Is(err, ErrPhonemizerUnavailable):
		return CodePhonemizerUnavailable
	case errors.Is(err, ErrPhonemizerInit):
		return CodePhonemizerInitFailed
	case errors.Is(err, ErrPhonemizerVoice):
		return CodePhonemizerVoiceFailed
	case errors.Is(err, ErrPhonemeIDsEmpty):
		return CodePhonemeIDsEmpty
	case errors.Is(err, ErrSessionCreate):
		return CodeSessionCreateFailed
	case errors.Is(err, ErrInference):
		return CodeInferenceFailed
	default:
		return CodeUnknown
	}
}
