package capability

// genericDimensions 是与模型无关的通用尺寸表，模型专属表缺项时回退于此。
var genericDimensions = map[string]map[string]Dimensions{
	"16:9": {
		"480p":  {Width: 864, Height: 480},
		"540p":  {Width: 960, Height: 540},
		"720p":  {Width: 1280, Height: 720},
		"1080p": {Width: 1920, Height: 1080},
	},
	"9:16": {
		"480p":  {Width: 480, Height: 864},
		"540p":  {Width: 540, Height: 960},
		"720p":  {Width: 720, Height: 1280},
		"1080p": {Width: 1080, Height: 1920},
	},
	"1:1": {
		"480p":  {Width: 480, Height: 480},
		"540p":  {Width: 540, Height: 540},
		"720p":  {Width: 720, Height: 720},
		"1080p": {Width: 1080, Height: 1080},
	},
	"4:3": {
		"480p":  {Width: 640, Height: 480},
		"540p":  {Width: 720, Height: 540},
		"720p":  {Width: 960, Height: 720},
		"1080p": {Width: 1440, Height: 1080},
	},
	"3:4": {
		"480p":  {Width: 480, Height: 640},
		"540p":  {Width: 540, Height: 720},
		"720p":  {Width: 720, Height: 960},
		"1080p": {Width: 1080, Height: 1440},
	},
}

// fallbackDimensions 是两级表都未命中时的兜底尺寸。
// 该常量沿用旧系统的遗留取值，选择依据未知，待产品澄清后考虑改为报错。
var fallbackDimensions = Dimensions{Width: 1248, Height: 704}

// lookupTable 在一张两级表中查找 (画幅比, 分辨率)。
func lookupTable(table map[string]map[string]Dimensions, aspectRatio, resolution string) (Dimensions, bool) {
	if table == nil {
		return Dimensions{}, false
	}
	byRes, ok := table[aspectRatio]
	if !ok {
		return Dimensions{}, false
	}
	d, ok := byRes[resolution]
	return d, ok
}

// ResolveDimensions 把 (模型, 画幅比, 分辨率) 解析为像素尺寸。
// 优先级严格为：模型专属表 > 通用表 > 兜底常量，本函数不会失败；
// 未知模型由调用方先经 Lookup 拦截。
func (r *Registry) ResolveDimensions(modelID, aspectRatio, resolution string) (Dimensions, error) {
	cap, err := r.Lookup(modelID)
	if err != nil {
		return Dimensions{}, err
	}
	return resolveFor(cap, aspectRatio, resolution), nil
}

func resolveFor(cap *ModelCapability, aspectRatio, resolution string) Dimensions {
	if d, ok := lookupTable(cap.DimensionTable, aspectRatio, resolution); ok {
		return d
	}
	if d, ok := lookupTable(genericDimensions, aspectRatio, resolution); ok {
		return d
	}
	return fallbackDimensions
}
