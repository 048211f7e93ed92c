package palette

const (
	DefaultPaletteSize    = 8
	MaxPaletteSize        = 256
	DefaultAlphaThreshold = 16
	DefaultSampleBudget   = 1 << 18
	minSampleBudget       = 1 << 10
)

var defaultOptions = Options{
	PaletteSize:    DefaultPaletteSize,
	AlphaThreshold: DefaultAlphaThreshold,
	SampleBudget:   DefaultSampleBudget,
	Stride:         0,
}

// Options configures sampling and quantization. Zero fields fall back to the
// defaults; a negative AlphaThreshold keeps every pixel regardless of alpha.
type Options struct {
	PaletteSize    int `json:"paletteSize" yaml:"paletteSize"`
	AlphaThreshold int `json:"alphaThreshold" yaml:"alphaThreshold"`
	SampleBudget   int `json:"sampleBudget" yaml:"sampleBudget"`
	Stride         int `json:"stride" yaml:"stride"`
}

func DefaultOptions() Options {
	return defaultOptions
}

func NormalizeOptions(options Options) Options {
	return options.normalized()
}

func (o Options) normalized() Options {
	normalized := o

	if normalized.PaletteSize <= 0 {
		normalized.PaletteSize = defaultOptions.PaletteSize
	}
	normalized.PaletteSize = clamp(normalized.PaletteSize, 1, MaxPaletteSize)

	if normalized.AlphaThreshold == 0 {
		normalized.AlphaThreshold = defaultOptions.AlphaThreshold
	}
	normalized.AlphaThreshold = clamp(normalized.AlphaThreshold, -1, 255)

	if normalized.SampleBudget <= 0 {
		normalized.SampleBudget = defaultOptions.SampleBudget
	}
	normalized.SampleBudget = max(normalized.SampleBudget, minSampleBudget)

	if normalized.Stride < 0 {
		normalized.Stride = 0
	}

	return normalized
}
