package core

// Region identifies the video timing region the core reports.
type Region int

const (
	RegionNTSC Region = iota
	RegionPAL
)

func (r Region) String() string {
	switch r {
	case RegionNTSC:
		return "NTSC"
	case RegionPAL:
		return "PAL"
	default:
		return "UNKNOWN"
	}
}

// SystemInfo describes the core to the host.
type SystemInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Geometry is the display geometry the core reports.
type Geometry struct {
	BaseWidth   int     `json:"base_width"`
	BaseHeight  int     `json:"base_height"`
	MaxWidth    int     `json:"max_width"`
	MaxHeight   int     `json:"max_height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// AVInfo carries the timing and geometry the host needs to drive the
// core.
type AVInfo struct {
	FPS        float64  `json:"fps"`
	SampleRate int      `json:"sample_rate"`
	Geometry   Geometry `json:"geometry"`
}

// GetSystemInfo returns the static core description.
func GetSystemInfo() SystemInfo {
	return SystemInfo{
		Name:    "micloop",
		Version: "1",
	}
}

// Region reports the video region. The core always renders NTSC
// timing.
func (c *Core) Region() Region {
	return RegionNTSC
}

// AVInfo returns timing and geometry for the configured rates.
func (c *Core) AVInfo() AVInfo {
	return AVInfo{
		FPS:        float64(c.fps),
		SampleRate: c.sampleRate,
		Geometry: Geometry{
			BaseWidth:   ScreenWidth,
			BaseHeight:  ScreenHeight,
			MaxWidth:    ScreenWidth,
			MaxHeight:   ScreenHeight,
			AspectRatio: float64(ScreenWidth) / float64(ScreenHeight),
		},
	}
}
