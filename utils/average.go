package utils

// RollingAverage is the integer mean of the last few values added.
type RollingAverage struct {
	data  []int
	pos   int
	count int
}

// NewRollingAverage returns an average over the last numSamples values.
func NewRollingAverage(numSamples int) *RollingAverage {
	if numSamples < 1 {
		numSamples = 1
	}
	return &RollingAverage{data: make([]int, numSamples), pos: 0}
}

// NumSamples is the size of the window.
func (ra *RollingAverage) NumSamples() int {
	return len(ra.data)
}

// Add pushes x into the window, dropping the oldest value once the window is full.
func (ra *RollingAverage) Add(x int) {
	ra.data[ra.pos] = x
	ra.pos++
	if ra.pos >= len(ra.data) {
		ra.pos = 0
	}
	if ra.count < len(ra.data) {
		ra.count++
	}
}

// Average returns the mean of the values in the window, truncated toward zero. It is 0 before
// anything has been added.
func (ra *RollingAverage) Average() int {
	if ra.count == 0 {
		return 0
	}
	sum := 0
	for _, d := range ra.data[:ra.count] {
		sum += d
	}
	return sum / ra.count
}
