package payload

import "github.com/BaSui01/videoflow/capability"

// frameRef 是一个待提交的参考帧。
type frameRef struct {
	url string
	tag string // "first" 或 "last"
}

// FrameImage 是 standard 线形态的帧条目，位于 payload 顶层。
type FrameImage struct {
	InputImage string `json:"inputImage"`
	Frame      string `json:"frame"`
}

// WrappedFrame 是 wrapped 线形态的帧条目，嵌套在厂商设置块内，
// 图像字段名与 standard 形态不同。
type WrappedFrame struct {
	Image string `json:"image"`
	Frame string `json:"frame"`
}

// wireStrategy 是单次构建解析一次的厂商策略记录。
type wireStrategy struct {
	// audioField 是厂商音频开关的字段名，空串表示该厂商无音频参数。
	audioField string
	// emitFrames 按模型声明的线形态写入帧图像，两种形态互斥。
	emitFrames func(p Payload, provider string, frames []frameRef)
}

// audioFieldByProvider 厂商音频开关字段名表。
// 未收录的厂商不产生音频块——不是错误，单纯省略。
var audioFieldByProvider = map[string]string{
	"google":   "generateAudio",
	"ltx":      "audio",
	"pixverse": "sound",
}

// strategyFor 把能力条目解析为策略记录。
func strategyFor(cap *capability.ModelCapability) wireStrategy {
	s := wireStrategy{
		audioField: audioFieldByProvider[cap.Provider],
	}
	switch cap.Format {
	case capability.FormatWrapped:
		s.emitFrames = emitWrappedFrames
	default:
		s.emitFrames = emitStandardFrames
	}
	return s
}

// emitStandardFrames 在顶层写入扁平帧列表。
func emitStandardFrames(p Payload, _ string, frames []frameRef) {
	if len(frames) == 0 {
		return
	}
	images := make([]FrameImage, 0, len(frames))
	for _, f := range frames {
		images = append(images, FrameImage{InputImage: f.url, Frame: f.tag})
	}
	p["frameImages"] = images
}

// emitWrappedFrames 把帧列表嵌套进厂商设置块。
func emitWrappedFrames(p Payload, provider string, frames []frameRef) {
	if len(frames) == 0 {
		return
	}
	images := make([]WrappedFrame, 0, len(frames))
	for _, f := range frames {
		images = append(images, WrappedFrame{Image: f.url, Frame: f.tag})
	}
	providerBlock(p, provider)["referenceImages"] = images
}

// providerBlock 返回（按需创建）providerSettings 下的厂商子块。
func providerBlock(p Payload, provider string) map[string]any {
	settings, ok := p["providerSettings"].(map[string]any)
	if !ok {
		settings = make(map[string]any)
		p["providerSettings"] = settings
	}
	block, ok := settings[provider].(map[string]any)
	if !ok {
		block = make(map[string]any)
		settings[provider] = block
	}
	return block
}
