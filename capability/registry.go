package capability

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/types"
)

// Registry 是只读的模型能力注册表。
// NewRegistry 校验通过后内容不再变化，可被并发读取。
type Registry struct {
	byID    map[string]*ModelCapability
	ordered []*ModelCapability
	def     *ModelCapability
	logger  *zap.Logger
}

// NewRegistry 从目录构建注册表并执行加载期不变式校验。
// 任何违反都返回 CONFIGURATION 错误，调用方应视为致命。
func NewRegistry(catalog []*ModelCapability, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(catalog) == 0 {
		return nil, types.NewError(types.ErrConfiguration, "model catalog is empty")
	}

	r := &Registry{
		byID:    make(map[string]*ModelCapability, len(catalog)),
		ordered: make([]*ModelCapability, 0, len(catalog)),
		logger:  logger,
	}

	for _, cap := range catalog {
		if err := validateCapability(cap); err != nil {
			return nil, err
		}
		if _, dup := r.byID[cap.ID]; dup {
			return nil, types.NewError(types.ErrConfiguration,
				fmt.Sprintf("duplicate model id %q in catalog", cap.ID))
		}
		r.byID[cap.ID] = cap
		r.ordered = append(r.ordered, cap)

		if cap.Default {
			if r.def != nil {
				return nil, types.NewError(types.ErrConfiguration,
					fmt.Sprintf("multiple default models: %q and %q", r.def.ID, cap.ID))
			}
			r.def = cap
		}
	}

	if r.def == nil {
		return nil, types.NewError(types.ErrConfiguration, "catalog declares no default model")
	}

	logger.Info("能力注册表加载完成",
		zap.Int("models", len(r.ordered)),
		zap.String("default", r.def.ID),
	)
	return r, nil
}

// validateCapability 校验单个条目的加载期不变式。
func validateCapability(cap *ModelCapability) error {
	if cap.ID == "" {
		return types.NewError(types.ErrConfiguration, "capability entry with empty model id")
	}
	if cap.ProviderModelID == "" {
		return types.NewError(types.ErrConfiguration,
			fmt.Sprintf("model %q is missing its AIR identifier", cap.ID))
	}
	if len(cap.Durations) == 0 {
		return types.NewError(types.ErrConfiguration,
			fmt.Sprintf("model %q declares an empty duration set", cap.ID))
	}
	if len(cap.AspectRatios) == 0 || len(cap.Resolutions) == 0 {
		return types.NewError(types.ErrConfiguration,
			fmt.Sprintf("model %q declares no aspect ratios or resolutions", cap.ID))
	}
	switch cap.Format {
	case FormatStandard, FormatWrapped:
	default:
		return types.NewError(types.ErrConfiguration,
			fmt.Sprintf("model %q has unknown payload format %q", cap.ID, cap.Format))
	}

	// 声明支持的每个组合都必须能经模型表或通用表解析出正尺寸，
	// 兜底常量不参与此校验。
	for _, ar := range cap.AspectRatios {
		for _, res := range cap.Resolutions {
			d, ok := lookupTable(cap.DimensionTable, ar, res)
			if !ok {
				d, ok = lookupTable(genericDimensions, ar, res)
			}
			if !ok || d.Width <= 0 || d.Height <= 0 {
				return types.NewError(types.ErrConfiguration,
					fmt.Sprintf("model %q declares %s@%s but no dimension table entry resolves it",
						cap.ID, ar, res))
			}
		}
	}
	return nil
}

// Lookup 按模型 ID 查找能力条目。未知 ID 返回 CONFIGURATION 错误，永不重试。
func (r *Registry) Lookup(modelID string) (*ModelCapability, error) {
	cap, ok := r.byID[modelID]
	if !ok {
		return nil, types.NewError(types.ErrConfiguration,
			fmt.Sprintf("unknown model id %q", modelID))
	}
	return cap, nil
}

// List 按目录顺序返回全部能力条目。
func (r *Registry) List() []*ModelCapability {
	out := make([]*ModelCapability, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Default 返回带默认标记的模型。
func (r *Registry) Default() *ModelCapability {
	return r.def
}
