package board

import "context"

// Analog represents an analog input pin, typically one channel of an ADC.
type Analog interface {
	// Read reads off the current value.
	Read(ctx context.Context, extra map[string]interface{}) (AnalogValue, error)
}

// AnalogValue contains all info about the analog reading.
// Value represents the reading in bits.
// Min and Max represent the range of raw analog values.
// StepSize is the voltage difference between two adjacent raw values.
type AnalogValue struct {
	Value    int
	Min      int
	Max      int
	StepSize float32
}

// Scale maps the reading onto [0, fullScale]. Readings from ADCs of different resolutions can then
// be compared directly. A reading with no range is returned unchanged.
func (v AnalogValue) Scale(fullScale int) int {
	if v.Max <= v.Min {
		return v.Value
	}
	return (v.Value - v.Min) * fullScale / (v.Max - v.Min)
}
