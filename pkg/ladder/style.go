package ladder

// Element dimensions.
const (
	RailWidth  = 3.0
	RailHeight = 48.0

	ContactWidth  = 24.0
	ContactHeight = 24.0
	CoilWidth     = 28.0
	CoilHeight    = 24.0

	ParallelWidth  = 30.0
	ParallelHeight = 2.0
	ParallelGap    = 20.0

	PlaceholderWidth  = 10.0
	PlaceholderHeight = 10.0
	PlaceholderGap    = 15.0

	VariableWidth  = 80.0
	VariableHeight = 32.0

	BlockMaxWidth         = 216.0
	BlockConnectorY       = 36.0
	BlockConnectorSpacing = 40.0
	blockFooter           = 24.0
	blockCharWidth        = 12.0
	blockNamePadding      = 18.0
)

// Style is the layout footprint of a kind: its default size, the spacing
// it asks for on each side when placed in a chain, and the relative y of
// its main connector.
type Style struct {
	Width   float64
	Height  float64
	Gap     float64
	HandleY float64
}

var defaultStyles = [kindCount]Style{
	KindPowerRail:           {Width: RailWidth, Height: RailHeight, Gap: 10, HandleY: RailHeight / 2},
	KindContact:             {Width: ContactWidth, Height: ContactHeight, Gap: 13, HandleY: ContactHeight / 2},
	KindCoil:                {Width: CoilWidth, Height: CoilHeight, Gap: 13, HandleY: CoilHeight / 2},
	KindBlock:               {Width: BlockMaxWidth, Height: BlockConnectorY + blockFooter, Gap: 40, HandleY: BlockConnectorY},
	KindParallel:            {Width: ParallelWidth, Height: ParallelHeight, Gap: 10, HandleY: ParallelHeight / 2},
	KindPlaceholder:         {Width: PlaceholderWidth, Height: PlaceholderHeight, Gap: 0, HandleY: PlaceholderHeight / 2},
	KindParallelPlaceholder: {Width: PlaceholderWidth, Height: PlaceholderHeight, Gap: 0, HandleY: PlaceholderHeight / 2},
	KindVariable:            {Width: VariableWidth, Height: VariableHeight, Gap: 0, HandleY: VariableHeight / 2},
}

// StyleOf returns the default style of k.
func StyleOf(k Kind) Style {
	if !k.Valid() {
		return Style{}
	}
	return defaultStyles[k]
}

// Styles is a per-kind style table. The zero value means "use defaults".
type Styles map[Kind]Style

// Of returns the style for k, falling back to the default table.
func (s Styles) Of(k Kind) Style {
	if st, ok := s[k]; ok {
		return st
	}
	return StyleOf(k)
}

// WithGaps returns a copy of the default table with gap overrides applied.
func WithGaps(gaps map[Kind]float64) Styles {
	out := make(Styles, kindCount)
	for _, k := range Kinds() {
		st := StyleOf(k)
		if g, ok := gaps[k]; ok {
			st.Gap = g
		}
		out[k] = st
	}
	return out
}
