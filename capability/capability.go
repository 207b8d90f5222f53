package capability

// PayloadFormat 标识帧图像在线格式中的两种互斥形态。
type PayloadFormat string

const (
	// FormatStandard 帧图像以顶层扁平列表提交。
	FormatStandard PayloadFormat = "standard"
	// FormatWrapped 帧图像嵌套在厂商设置分组字段之下提交。
	FormatWrapped PayloadFormat = "wrapped"
)

// Dimensions 是一组像素尺寸。
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FrameSupport 描述模型对首帧/尾帧参考图像的支持。
type FrameSupport struct {
	First bool `json:"first"`
	Last  bool `json:"last"`
}

// ModelCapability 是单个视频生成模型的静态能力描述。
// 注册表加载后不可变，所有字段只读。
type ModelCapability struct {
	// ID 是注册表内的模型标识，如 "seedance-1.0-pro"。
	ID string `json:"id"`
	// Label 是展示名称。
	Label string `json:"label"`
	// Provider 是厂商标签，payload 策略表以此为键。
	Provider string `json:"provider"`
	// ProviderModelID 是远端的 AIR 标识，如 "bytedance:2@1"。
	ProviderModelID string `json:"provider_model_id"`

	// Durations 是支持的整数秒集合，顺序即平局裁决顺序。
	Durations []int `json:"durations"`
	// AspectRatios 与 Resolutions 是支持的枚举字符串集合。
	AspectRatios []string `json:"aspect_ratios"`
	Resolutions  []string `json:"resolutions"`

	FrameSupport FrameSupport  `json:"frame_support"`
	HasAudio     bool          `json:"has_audio"`
	Format       PayloadFormat `json:"payload_format"`

	// OmitDimensions 为真时模型从输入帧推导输出尺寸，payload 不携带宽高。
	OmitDimensions bool `json:"omit_dimensions,omitempty"`
	// RequiresFrame 为真时模型是图生视频，必须提供首帧图像。
	RequiresFrame bool `json:"requires_frame,omitempty"`
	// PromptLimit 是厂商的提示词长度上限（字符数），0 表示无限制。
	PromptLimit int `json:"prompt_limit,omitempty"`

	// DimensionTable 是模型专属的 (画幅比 → 分辨率 → 尺寸) 映射，可为部分表。
	DimensionTable map[string]map[string]Dimensions `json:"dimension_table,omitempty"`

	// ProviderDefaults 是不透明的厂商默认设置（如固定机位开关），
	// payload 构建时原样并入厂商设置块。
	ProviderDefaults map[string]any `json:"provider_defaults,omitempty"`

	// Default 标记注册表的默认模型，全表恰好一个为真。
	Default bool `json:"default,omitempty"`
}

// SupportsDuration 报告 d 是否在声明的时长集合内。
func (c *ModelCapability) SupportsDuration(d int) bool {
	for _, v := range c.Durations {
		if v == d {
			return true
		}
	}
	return false
}

// SupportsAspectRatio 报告 ar 是否在声明的画幅比集合内。
func (c *ModelCapability) SupportsAspectRatio(ar string) bool {
	for _, v := range c.AspectRatios {
		if v == ar {
			return true
		}
	}
	return false
}

// SupportsResolution 报告 res 是否在声明的分辨率集合内。
func (c *ModelCapability) SupportsResolution(res string) bool {
	for _, v := range c.Resolutions {
		if v == res {
			return true
		}
	}
	return false
}
