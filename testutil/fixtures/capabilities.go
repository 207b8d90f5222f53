// Package fixtures 提供测试用的能力目录与请求样本。
package fixtures

import (
	"github.com/BaSui01/videoflow/capability"
	"github.com/BaSui01/videoflow/types"
)

// Catalog 返回一份小型能力目录，覆盖两种线形态、
// 音频能力、免宽高与尾帧降级场景。
func Catalog() []*capability.ModelCapability {
	return []*capability.ModelCapability{
		{
			ID:              "fixture-basic",
			Label:           "Fixture Basic",
			Provider:        "google",
			ProviderModelID: "fixture:1@1",
			Durations:       []int{5, 10},
			AspectRatios:    []string{"16:9", "9:16"},
			Resolutions:     []string{"720p", "1080p"},
			FrameSupport:    capability.FrameSupport{First: true, Last: true},
			HasAudio:        true,
			Format:          capability.FormatStandard,
			Default:         true,
		},
		{
			ID:              "fixture-wrapped",
			Label:           "Fixture Wrapped",
			Provider:        "pixverse",
			ProviderModelID: "fixture:2@1",
			Durations:       []int{5, 8},
			AspectRatios:    []string{"16:9"},
			Resolutions:     []string{"720p"},
			FrameSupport:    capability.FrameSupport{First: true, Last: true},
			HasAudio:        true,
			Format:          capability.FormatWrapped,
		},
		{
			ID:              "fixture-nolast",
			Label:           "Fixture No Last Frame",
			Provider:        "minimax",
			ProviderModelID: "fixture:3@1",
			Durations:       []int{6},
			AspectRatios:    []string{"16:9"},
			Resolutions:     []string{"720p"},
			FrameSupport:    capability.FrameSupport{First: true, Last: false},
			Format:          capability.FormatStandard,
		},
		{
			ID:              "fixture-i2v",
			Label:           "Fixture Image-to-Video",
			Provider:        "runway",
			ProviderModelID: "fixture:4@1",
			Durations:       []int{5},
			AspectRatios:    []string{"16:9"},
			Resolutions:     []string{"720p"},
			FrameSupport:    capability.FrameSupport{First: true, Last: false},
			Format:          capability.FormatStandard,
			OmitDimensions:  true,
			RequiresFrame:   true,
		},
	}
}

// Request 返回一个针对 fixture-basic 的合法请求样本。
func Request(jobID string) *types.GenerationRequest {
	return &types.GenerationRequest{
		JobID:       jobID,
		ModelID:     "fixture-basic",
		Prompt:      "a tiny robot watering a bonsai at dawn",
		Duration:    5,
		AspectRatio: "16:9",
		Resolution:  "720p",
	}
}
