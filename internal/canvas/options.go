package canvas

import "go.uber.org/zap"

// Options configures a Controller. New fills zero numeric fields from DefaultOptions.
type Options struct {
	ZoomMin  float64
	ZoomMax  float64
	ZoomStep float64

	SnapToGrid bool
	GridSize   float64

	// MinSize is the smallest width or height a resize can produce, in page units.
	MinSize float64
	// HandleSize is the edge length of a resize handle in screen pixels.
	HandleSize float64

	NudgeStep      float64
	NudgeStepLarge float64
	PasteOffset    float64

	// ShowGuides draws the page margins in the render pass.
	ShowGuides bool

	Logger *zap.Logger
	// OnStatus receives advisory, human-readable status messages.
	OnStatus func(msg string)
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		ZoomMin:        0.25,
		ZoomMax:        3,
		ZoomStep:       0.1,
		SnapToGrid:     true,
		GridSize:       10,
		MinSize:        20,
		HandleSize:     8,
		NudgeStep:      1,
		NudgeStepLarge: 10,
		PasteOffset:    20,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	fill := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&o.ZoomMin, def.ZoomMin)
	fill(&o.ZoomMax, def.ZoomMax)
	fill(&o.ZoomStep, def.ZoomStep)
	fill(&o.GridSize, def.GridSize)
	fill(&o.MinSize, def.MinSize)
	fill(&o.HandleSize, def.HandleSize)
	fill(&o.NudgeStep, def.NudgeStep)
	fill(&o.NudgeStepLarge, def.NudgeStepLarge)
	fill(&o.PasteOffset, def.PasteOffset)
	if o.ZoomMax < o.ZoomMin {
		o.ZoomMin, o.ZoomMax = o.ZoomMax, o.ZoomMin
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
