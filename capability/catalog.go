package capability

// 内置模型目录。条目顺序即 List() 的返回顺序。
//
// AIR 标识与尺寸表来自各厂商集成文档；ByteDance 系模型要求宽高为 32 的
// 整数倍，因此携带专属尺寸表，其余模型未列专属表时回退到通用表。

// bytedanceDims 是 Seedance 系列共享的专属尺寸表。
var bytedanceDims = map[string]map[string]Dimensions{
	"16:9": {
		"480p":  {Width: 864, Height: 480},
		"720p":  {Width: 1248, Height: 704},
		"1080p": {Width: 1920, Height: 1088},
	},
	"9:16": {
		"480p":  {Width: 480, Height: 864},
		"720p":  {Width: 704, Height: 1248},
		"1080p": {Width: 1088, Height: 1920},
	},
	"1:1": {
		"480p":  {Width: 640, Height: 640},
		"720p":  {Width: 960, Height: 960},
		"1080p": {Width: 1440, Height: 1440},
	},
	"4:3": {
		"480p":  {Width: 736, Height: 544},
		"720p":  {Width: 1120, Height: 832},
		"1080p": {Width: 1664, Height: 1248},
	},
}

// ltxDims LTX 系列要求宽高为 64 的整数倍。
var ltxDims = map[string]map[string]Dimensions{
	"16:9": {
		"720p":  {Width: 1216, Height: 704},
		"1080p": {Width: 1920, Height: 1088},
	},
	"9:16": {
		"720p":  {Width: 704, Height: 1216},
		"1080p": {Width: 1088, Height: 1920},
	},
}

// DefaultCatalog 返回内置的模型能力目录。
// 返回值每次新建切片，但条目为共享只读值，调用方不得修改。
func DefaultCatalog() []*ModelCapability {
	return []*ModelCapability{
		{
			ID:              "seedance-1.0-pro",
			Label:           "Seedance 1.0 Pro",
			Provider:        "bytedance",
			ProviderModelID: "bytedance:2@1",
			Durations:       []int{5, 10},
			AspectRatios:    []string{"16:9", "9:16", "1:1", "4:3"},
			Resolutions:     []string{"480p", "720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: true},
			Format:          FormatStandard,
			PromptLimit:     2000,
			DimensionTable:  bytedanceDims,
			ProviderDefaults: map[string]any{
				"cameraFixed": false,
			},
			Default: true,
		},
		{
			ID:              "seedance-1.0-lite",
			Label:           "Seedance 1.0 Lite",
			Provider:        "bytedance",
			ProviderModelID: "bytedance:1@1",
			Durations:       []int{5, 10},
			AspectRatios:    []string{"16:9", "9:16", "1:1", "4:3"},
			Resolutions:     []string{"480p", "720p"},
			FrameSupport:    FrameSupport{First: true, Last: true},
			Format:          FormatStandard,
			PromptLimit:     2000,
			DimensionTable:  bytedanceDims,
			ProviderDefaults: map[string]any{
				"cameraFixed": false,
			},
		},
		{
			ID:              "veo-3",
			Label:           "Google Veo 3",
			Provider:        "google",
			ProviderModelID: "google:3@0",
			Durations:       []int{8},
			AspectRatios:    []string{"16:9", "9:16"},
			Resolutions:     []string{"720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			HasAudio:        true,
			Format:          FormatStandard,
		},
		{
			ID:              "veo-3-fast",
			Label:           "Google Veo 3 Fast",
			Provider:        "google",
			ProviderModelID: "google:3@1",
			Durations:       []int{8},
			AspectRatios:    []string{"16:9", "9:16"},
			Resolutions:     []string{"720p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			HasAudio:        true,
			Format:          FormatStandard,
		},
		{
			ID:              "kling-2.1-master",
			Label:           "Kling 2.1 Master",
			Provider:        "kling",
			ProviderModelID: "klingai:5@3",
			Durations:       []int{5, 10},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: true},
			Format:          FormatStandard,
			PromptLimit:     2500,
			ProviderDefaults: map[string]any{
				"mode": "professional",
			},
		},
		{
			ID:              "kling-2.1-standard",
			Label:           "Kling 2.1 Standard",
			Provider:        "kling",
			ProviderModelID: "klingai:5@1",
			Durations:       []int{5, 10},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"720p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			Format:          FormatStandard,
			PromptLimit:     2500,
		},
		{
			ID:              "kling-1.6-pro",
			Label:           "Kling 1.6 Pro",
			Provider:        "kling",
			ProviderModelID: "klingai:4@2",
			Durations:       []int{5, 10},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"720p"},
			FrameSupport:    FrameSupport{First: true, Last: true},
			Format:          FormatStandard,
			PromptLimit:     2500,
		},
		{
			ID:              "hailuo-02-standard",
			Label:           "MiniMax Hailuo 02 Standard",
			Provider:        "minimax",
			ProviderModelID: "minimax:3@1",
			Durations:       []int{6, 10},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			Format:          FormatStandard,
		},
		{
			// 音频能力存在但 minimax 不在音频字段表内，构建时静默省略。
			ID:              "hailuo-02-pro",
			Label:           "MiniMax Hailuo 02 Pro",
			Provider:        "minimax",
			ProviderModelID: "minimax:3@2",
			Durations:       []int{6},
			AspectRatios:    []string{"16:9"},
			Resolutions:     []string{"1080p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			HasAudio:        true,
			Format:          FormatStandard,
		},
		{
			ID:              "wan-2.2-t2v",
			Label:           "Wan 2.2 Text-to-Video",
			Provider:        "alibaba",
			ProviderModelID: "alibaba:wan22@1",
			Durations:       []int{5},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"480p", "720p", "1080p"},
			FrameSupport:    FrameSupport{First: false, Last: false},
			Format:          FormatStandard,
			ProviderDefaults: map[string]any{
				"promptExtend": true,
			},
		},
		{
			ID:              "wan-2.2-i2v",
			Label:           "Wan 2.2 Image-to-Video",
			Provider:        "alibaba",
			ProviderModelID: "alibaba:wan22@2",
			Durations:       []int{5},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"480p", "720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			Format:          FormatStandard,
			OmitDimensions:  true,
			RequiresFrame:   true,
			ProviderDefaults: map[string]any{
				"promptExtend": true,
			},
		},
		{
			ID:              "pixverse-v4.5",
			Label:           "PixVerse v4.5",
			Provider:        "pixverse",
			ProviderModelID: "pixverse:1@5",
			Durations:       []int{5, 8},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"540p", "720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: true},
			HasAudio:        true,
			Format:          FormatWrapped,
			PromptLimit:     2048,
		},
		{
			ID:              "vidu-q1",
			Label:           "Vidu Q1",
			Provider:        "vidu",
			ProviderModelID: "vidu:2@0",
			Durations:       []int{5},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"1080p"},
			FrameSupport:    FrameSupport{First: true, Last: true},
			Format:          FormatWrapped,
			ProviderDefaults: map[string]any{
				"movementAmplitude": "auto",
			},
		},
		{
			ID:              "runway-gen4-turbo",
			Label:           "Runway Gen-4 Turbo",
			Provider:        "runway",
			ProviderModelID: "runway:gen4@turbo",
			Durations:       []int{5, 10},
			AspectRatios:    []string{"16:9", "9:16", "1:1"},
			Resolutions:     []string{"720p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			Format:          FormatStandard,
			OmitDimensions:  true,
			RequiresFrame:   true,
			PromptLimit:     1000,
		},
		{
			ID:              "luma-ray-2",
			Label:           "Luma Ray 2",
			Provider:        "luma",
			ProviderModelID: "luma:ray@2",
			Durations:       []int{5, 9},
			AspectRatios:    []string{"16:9", "9:16", "1:1", "4:3"},
			Resolutions:     []string{"540p", "720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: true},
			Format:          FormatStandard,
		},
		{
			ID:              "ltx-2-pro",
			Label:           "LTX-2 Pro",
			Provider:        "ltx",
			ProviderModelID: "ltx:2@1",
			Durations:       []int{6, 8, 10},
			AspectRatios:    []string{"16:9", "9:16"},
			Resolutions:     []string{"720p", "1080p"},
			FrameSupport:    FrameSupport{First: true, Last: false},
			HasAudio:        true,
			Format:          FormatStandard,
			DimensionTable:  ltxDims,
		},
	}
}
