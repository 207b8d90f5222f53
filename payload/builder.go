package payload

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/capability"
	"github.com/BaSui01/videoflow/types"
)

// Payload 是提交给厂商集成层的线载荷，键名即线格式字段名。
type Payload map[string]any

// Builder 把归一化请求编译为模型专属的线载荷。
type Builder struct {
	logger *zap.Logger
}

// NewBuilder 创建 Builder。logger 为 nil 时使用 Nop。
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build 构建线载荷。返回的 warnings 记录非致命的降级
// （例如模型不支持尾帧时丢弃 EndFrameURL），不影响提交。
func (b *Builder) Build(req *types.GenerationRequest, cap *capability.ModelCapability, dims capability.Dimensions) (Payload, []string, error) {
	// 限长按字符数计：多字节提示词不能按字节数误判
	if promptLen := utf8.RuneCountInString(req.Prompt); cap.PromptLimit > 0 && promptLen > cap.PromptLimit {
		return nil, nil, types.NewError(types.ErrValidation,
			fmt.Sprintf("prompt length %d exceeds %s limit of %d characters",
				promptLen, cap.ID, cap.PromptLimit)).WithField("prompt")
	}
	if cap.RequiresFrame && req.StartFrameURL == "" {
		return nil, nil, types.NewError(types.ErrValidation,
			fmt.Sprintf("model %s requires a start frame image", cap.ID)).WithField("start_frame_url")
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	// 固定必选字段：异步交付、成本上报
	p := Payload{
		"taskType":       "videoInference",
		"taskUUID":       jobID,
		"model":          cap.ProviderModelID,
		"positivePrompt": req.Prompt,
		"duration":       cap.ClampDuration(req.Duration),
		"deliveryMethod": "async",
		"includeCost":    true,
	}

	// 从输入帧推导尺寸的模型完全不携带宽高
	if !cap.OmitDimensions {
		p["width"] = dims.Width
		p["height"] = dims.Height
	}

	var warnings []string
	strategy := strategyFor(cap)

	frames, frameWarnings := collectFrames(req, cap)
	warnings = append(warnings, frameWarnings...)
	strategy.emitFrames(p, cap.Provider, frames)

	// 音频默认关闭；显式请求且模型具备能力、厂商有已知字段名时才开启
	if req.AudioRequested && cap.HasAudio && strategy.audioField != "" {
		p[strategy.audioField] = true
	}

	// 厂商默认设置原样并入厂商设置块
	if len(cap.ProviderDefaults) > 0 {
		block := providerBlock(p, cap.Provider)
		for k, v := range cap.ProviderDefaults {
			if _, exists := block[k]; !exists {
				block[k] = v
			}
		}
	}

	for _, w := range warnings {
		b.logger.Warn("载荷构建降级", zap.String("model", cap.ID), zap.String("warning", w))
	}
	return p, warnings, nil
}

// collectFrames 按模型的帧支持收集参考帧，不支持的帧降级为警告。
func collectFrames(req *types.GenerationRequest, cap *capability.ModelCapability) ([]frameRef, []string) {
	var frames []frameRef
	var warnings []string

	if req.StartFrameURL != "" {
		if cap.FrameSupport.First {
			frames = append(frames, frameRef{url: req.StartFrameURL, tag: "first"})
		} else {
			warnings = append(warnings,
				fmt.Sprintf("model %s does not accept a first frame image, dropped", cap.ID))
		}
	}
	if req.EndFrameURL != "" {
		if cap.FrameSupport.Last {
			frames = append(frames, frameRef{url: req.EndFrameURL, tag: "last"})
		} else {
			warnings = append(warnings,
				fmt.Sprintf("model %s does not support an end frame image, proceeding with start frame only", cap.ID))
		}
	}
	return frames, warnings
}
