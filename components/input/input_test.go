package input

import (
	"testing"

	"go.viam.com/test"
)

func TestEventMatches(t *testing.T) {
	press := Event{Event: ButtonPress, Control: ButtonTouch, Value: 1}
	test.That(t, press.Matches(ButtonPress), test.ShouldBeTrue)
	test.That(t, press.Matches(ButtonChange), test.ShouldBeTrue)
	test.That(t, press.Matches(AllEvents), test.ShouldBeTrue)
	test.That(t, press.Matches(ButtonRelease), test.ShouldBeFalse)
	test.That(t, press.Matches(PositionChangeAbs), test.ShouldBeFalse)

	move := Event{Event: PositionChangeAbs, Control: AbsoluteX, Value: 160}
	test.That(t, move.Matches(PositionChangeAbs), test.ShouldBeTrue)
	test.That(t, move.Matches(ButtonChange), test.ShouldBeFalse)
	test.That(t, move.Matches(AllEvents), test.ShouldBeTrue)
}
