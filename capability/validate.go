package capability

import (
	"fmt"

	"github.com/BaSui01/videoflow/types"
)

// ValidateRequest 对 (时长, 画幅比, 分辨率) 做预检，逐字段独立检查。
// 返回的错误点名第一个不合法字段并附带该字段的合法取值，调用方无需
// 浪费一次网络往返即可修正输入。校验顺序固定：duration → aspect_ratio
// → resolution。
func (r *Registry) ValidateRequest(modelID string, duration int, aspectRatio, resolution string) error {
	cap, err := r.Lookup(modelID)
	if err != nil {
		return err
	}
	return validateAgainst(cap, duration, aspectRatio, resolution)
}

func validateAgainst(cap *ModelCapability, duration int, aspectRatio, resolution string) error {
	if !cap.SupportsDuration(duration) {
		return types.NewError(types.ErrValidation,
			fmt.Sprintf("duration %d not supported by %s, supported durations: %v",
				duration, cap.ID, cap.Durations)).WithField("duration")
	}
	if !cap.SupportsAspectRatio(aspectRatio) {
		return types.NewError(types.ErrValidation,
			fmt.Sprintf("aspect ratio %q not supported by %s, supported aspect ratios: %v",
				aspectRatio, cap.ID, cap.AspectRatios)).WithField("aspect_ratio")
	}
	if !cap.SupportsResolution(resolution) {
		return types.NewError(types.ErrValidation,
			fmt.Sprintf("resolution %q not supported by %s, supported resolutions: %v",
				resolution, cap.ID, cap.Resolutions)).WithField("resolution")
	}
	return nil
}

// ClampDuration 将请求时长夹取到模型支持集合中最近的值。
// 平局时取声明列表中靠前的条目；幂等：clamp(clamp(d)) == clamp(d)。
func (r *Registry) ClampDuration(modelID string, requested int) (int, error) {
	cap, err := r.Lookup(modelID)
	if err != nil {
		return 0, err
	}
	return cap.ClampDuration(requested), nil
}

// ClampDuration 是 Registry.ClampDuration 的单模型形态。
func (c *ModelCapability) ClampDuration(requested int) int {
	return clampTo(c.Durations, requested)
}

func clampTo(durations []int, requested int) int {
	best := durations[0]
	bestDist := abs(requested - best)
	for _, d := range durations[1:] {
		if dist := abs(requested - d); dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
