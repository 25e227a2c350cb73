package config

import (
	"github.com/google/go-cmp/cmp"
)

// A Diff is the difference between two configs, left and right
// where left is usually old and right is new.
type Diff struct {
	Left, Right *Config

	// HardwareEqual is false when the board or panel wiring changed. Those take effect only after
	// a restart.
	HardwareEqual bool
	// TouchEqual is false when the calibration, orientation or poll rate changed.
	TouchEqual bool
	LogEqual   bool
	PrettyDiff string
}

// DiffConfigs returns the difference between the two given configs from left to right.
func DiffConfigs(left, right Config) *Diff {
	return &Diff{
		Left:          &left,
		Right:         &right,
		HardwareEqual: cmp.Equal(left.Board, right.Board) && cmp.Equal(left.Panel, right.Panel),
		TouchEqual: left.Calibration == right.Calibration &&
			left.Orientation == right.Orientation &&
			left.PollHz == right.PollHz,
		LogEqual:   left.Log == right.Log,
		PrettyDiff: cmp.Diff(left, right),
	}
}

// NeedsRestart reports whether some of the changes cannot be applied to a running controller.
func (d *Diff) NeedsRestart() bool {
	return !d.HardwareEqual || d.Left.PollHz != d.Right.PollHz
}

// Equal reports whether nothing that matters changed.
func (d *Diff) Equal() bool {
	return d.HardwareEqual && d.TouchEqual && d.LogEqual && d.Left.SampleInterval == d.Right.SampleInterval
}
