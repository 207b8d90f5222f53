package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/capability"
	"github.com/BaSui01/videoflow/types"
)

func capByID(t *testing.T, id string) *capability.ModelCapability {
	t.Helper()
	r, err := capability.NewRegistry(capability.DefaultCatalog(), zap.NewNop())
	require.NoError(t, err)
	cap, err := r.Lookup(id)
	require.NoError(t, err)
	return cap
}

func TestBuild_FixedFields(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "seedance-1.0-pro")
	req := &types.GenerationRequest{
		JobID:       "job-1",
		ModelID:     "seedance-1.0-pro",
		Prompt:      "a slow pan over a rainy neon street",
		Duration:    7,
		AspectRatio: "16:9",
		Resolution:  "720p",
	}

	p, warnings, err := b.Build(req, cap, capability.Dimensions{Width: 1248, Height: 704})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "videoInference", p["taskType"])
	assert.Equal(t, "job-1", p["taskUUID"])
	assert.Equal(t, "bytedance:2@1", p["model"])
	assert.Equal(t, "a slow pan over a rainy neon street", p["positivePrompt"])
	assert.Equal(t, "async", p["deliveryMethod"])
	assert.Equal(t, true, p["includeCost"])
	// 7 夹取到 5
	assert.Equal(t, 5, p["duration"])
	assert.Equal(t, 1248, p["width"])
	assert.Equal(t, 704, p["height"])
}

func TestBuild_GeneratesJobID(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "seedance-1.0-pro")
	req := &types.GenerationRequest{ModelID: "seedance-1.0-pro", Prompt: "x", Duration: 5}

	p, _, err := b.Build(req, cap, capability.Dimensions{Width: 864, Height: 480})
	require.NoError(t, err)
	assert.NotEmpty(t, p["taskUUID"])
}

func TestBuild_OmitsDimensions(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "wan-2.2-i2v")
	req := &types.GenerationRequest{
		ModelID:       "wan-2.2-i2v",
		Prompt:        "the painting comes alive",
		Duration:      5,
		StartFrameURL: "https://cdn.example.com/frame.png",
	}

	p, _, err := b.Build(req, cap, capability.Dimensions{Width: 1280, Height: 720})
	require.NoError(t, err)

	_, hasW := p["width"]
	_, hasH := p["height"]
	assert.False(t, hasW, "dimension-omitted model must not carry width")
	assert.False(t, hasH, "dimension-omitted model must not carry height")
}

func TestBuild_StandardFrames(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "seedance-1.0-pro")
	req := &types.GenerationRequest{
		ModelID:       "seedance-1.0-pro",
		Prompt:        "x",
		Duration:      5,
		StartFrameURL: "https://cdn.example.com/a.png",
		EndFrameURL:   "https://cdn.example.com/b.png",
	}

	p, warnings, err := b.Build(req, cap, capability.Dimensions{Width: 1248, Height: 704})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	frames, ok := p["frameImages"].([]FrameImage)
	require.True(t, ok)
	require.Len(t, frames, 2)
	assert.Equal(t, FrameImage{InputImage: "https://cdn.example.com/a.png", Frame: "first"}, frames[0])
	assert.Equal(t, FrameImage{InputImage: "https://cdn.example.com/b.png", Frame: "last"}, frames[1])

	// standard 形态不得出现 wrapped 的嵌套帧
	if settings, ok := p["providerSettings"].(map[string]any); ok {
		for _, block := range settings {
			_, has := block.(map[string]any)["referenceImages"]
			assert.False(t, has)
		}
	}
}

func TestBuild_WrappedFrames(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "vidu-q1")
	req := &types.GenerationRequest{
		ModelID:       "vidu-q1",
		Prompt:        "x",
		Duration:      5,
		StartFrameURL: "https://cdn.example.com/a.png",
	}

	p, _, err := b.Build(req, cap, capability.Dimensions{Width: 1920, Height: 1080})
	require.NoError(t, err)

	_, hasFlat := p["frameImages"]
	assert.False(t, hasFlat, "wrapped model must not emit top-level frameImages")

	settings, ok := p["providerSettings"].(map[string]any)
	require.True(t, ok)
	block, ok := settings["vidu"].(map[string]any)
	require.True(t, ok)
	frames, ok := block["referenceImages"].([]WrappedFrame)
	require.True(t, ok)
	require.Len(t, frames, 1)
	assert.Equal(t, WrappedFrame{Image: "https://cdn.example.com/a.png", Frame: "first"}, frames[0])

	// providerDefaults 并入同一厂商块
	assert.Equal(t, "auto", block["movementAmplitude"])
}

func TestBuild_EndFrameDowngrade(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "veo-3")
	req := &types.GenerationRequest{
		ModelID:       "veo-3",
		Prompt:        "x",
		Duration:      8,
		StartFrameURL: "https://cdn.example.com/a.png",
		EndFrameURL:   "https://cdn.example.com/b.png",
	}

	p, warnings, err := b.Build(req, cap, capability.Dimensions{Width: 1280, Height: 720})
	require.NoError(t, err, "unsupported end frame must not fail the request")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "start frame only")

	frames, ok := p["frameImages"].([]FrameImage)
	require.True(t, ok)
	require.Len(t, frames, 1)
	assert.Equal(t, "first", frames[0].Frame)
}

func TestBuild_AudioDefaultOff(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "veo-3")
	req := &types.GenerationRequest{ModelID: "veo-3", Prompt: "x", Duration: 8}

	p, _, err := b.Build(req, cap, capability.Dimensions{Width: 1280, Height: 720})
	require.NoError(t, err)

	// 模型具备音频能力也不开启
	_, has := p["generateAudio"]
	assert.False(t, has)
}

func TestBuild_AudioFieldPerProvider(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	tests := []struct {
		modelID string
		field   string
	}{
		{"veo-3", "generateAudio"},
		{"ltx-2-pro", "audio"},
		{"pixverse-v4.5", "sound"},
	}
	for _, tt := range tests {
		cap := capByID(t, tt.modelID)
		req := &types.GenerationRequest{
			ModelID:        tt.modelID,
			Prompt:         "x",
			Duration:       cap.Durations[0],
			AudioRequested: true,
		}
		p, _, err := b.Build(req, cap, capability.Dimensions{Width: 1280, Height: 720})
		require.NoError(t, err)
		assert.Equal(t, true, p[tt.field], "model %s should set %s", tt.modelID, tt.field)
	}
}

func TestBuild_AudioOmittedForUnknownProvider(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	// hailuo-02-pro 具备音频能力但 minimax 不在字段名表内
	cap := capByID(t, "hailuo-02-pro")
	req := &types.GenerationRequest{
		ModelID:        "hailuo-02-pro",
		Prompt:         "x",
		Duration:       6,
		AudioRequested: true,
	}

	p, _, err := b.Build(req, cap, capability.Dimensions{Width: 1920, Height: 1080})
	require.NoError(t, err, "unknown audio provider is omitted, not an error")
	for _, field := range []string{"audio", "generateAudio", "sound"} {
		_, has := p[field]
		assert.False(t, has)
	}
}

func TestBuild_AudioIgnoredWithoutCapability(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	// kling 无音频能力，即使请求也不产生音频块
	cap := capByID(t, "kling-2.1-master")
	req := &types.GenerationRequest{
		ModelID:        "kling-2.1-master",
		Prompt:         "x",
		Duration:       5,
		AudioRequested: true,
	}

	p, _, err := b.Build(req, cap, capability.Dimensions{Width: 1280, Height: 720})
	require.NoError(t, err)
	_, has := p["audio"]
	assert.False(t, has)
}

func TestBuild_PromptLimit(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "seedance-1.0-pro")
	req := &types.GenerationRequest{
		ModelID:  "seedance-1.0-pro",
		Prompt:   strings.Repeat("a", 2001),
		Duration: 5,
	}

	_, _, err := b.Build(req, cap, capability.Dimensions{Width: 1248, Height: 704})
	require.Error(t, err)
	assert.Equal(t, types.ErrValidation, types.GetErrorCode(err))
}

func TestBuild_PromptLimitCountsRunes(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "seedance-1.0-pro")

	// 1500 个汉字 = 4500 字节，按字符数在 2000 限额内
	req := &types.GenerationRequest{
		ModelID:  "seedance-1.0-pro",
		Prompt:   strings.Repeat("雨", 1500),
		Duration: 5,
	}
	_, _, err := b.Build(req, cap, capability.Dimensions{Width: 1248, Height: 704})
	require.NoError(t, err)

	// 超限仍按字符数判定
	req.Prompt = strings.Repeat("雨", 2001)
	_, _, err = b.Build(req, cap, capability.Dimensions{Width: 1248, Height: 704})
	require.Error(t, err)
	assert.Equal(t, types.ErrValidation, types.GetErrorCode(err))
	assert.Contains(t, err.Error(), "2001")
}

func TestBuild_RequiredFrameMissing(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "runway-gen4-turbo")
	req := &types.GenerationRequest{ModelID: "runway-gen4-turbo", Prompt: "x", Duration: 5}

	_, _, err := b.Build(req, cap, capability.Dimensions{Width: 1280, Height: 720})
	require.Error(t, err)

	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "start_frame_url", e.Field)
}

func TestBuild_ProviderDefaultsMerged(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	cap := capByID(t, "seedance-1.0-pro")
	req := &types.GenerationRequest{ModelID: "seedance-1.0-pro", Prompt: "x", Duration: 5}

	p, _, err := b.Build(req, cap, capability.Dimensions{Width: 1248, Height: 704})
	require.NoError(t, err)

	settings, ok := p["providerSettings"].(map[string]any)
	require.True(t, ok)
	block, ok := settings["bytedance"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, block["cameraFixed"])
}
