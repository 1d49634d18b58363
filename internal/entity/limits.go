package entity

// ValidationLimits is built once at startup and only read afterwards.
type ValidationLimits struct {
	MaxResizeWidth  uint32
	MaxResizeHeight uint32
	MaxSourceWidth  uint32
	MaxSourceHeight uint32

	MaxDownloadSize uint64
	MaxSourceSize   uint64
}

const (
	DefaultMaxResizeWidth  uint32 = 10000
	DefaultMaxResizeHeight uint32 = 10000
	DefaultMaxSourceWidth  uint32 = 10000
	DefaultMaxSourceHeight uint32 = 10000
	DefaultMaxDownloadSize uint64 = 10 * 1000 * 1000
	DefaultMaxSourceSize   uint64 = 10 * 1000 * 1000
)

func DefaultValidationLimits() ValidationLimits {
	return ValidationLimits{
		MaxResizeWidth:  DefaultMaxResizeWidth,
		MaxResizeHeight: DefaultMaxResizeHeight,
		MaxSourceWidth:  DefaultMaxSourceWidth,
		MaxSourceHeight: DefaultMaxSourceHeight,
		MaxDownloadSize: DefaultMaxDownloadSize,
		MaxSourceSize:   DefaultMaxSourceSize,
	}
}
