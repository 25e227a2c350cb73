package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/viam-modules/resistive-touch/components/board"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
)

func TestDiffConfigs(t *testing.T) {
	left := Default()
	diff := DiffConfigs(left, Default())
	test.That(t, diff.Equal(), test.ShouldBeTrue)
	test.That(t, diff.NeedsRestart(), test.ShouldBeFalse)
	test.That(t, diff.PrettyDiff, test.ShouldBeEmpty)

	right := Default()
	right.Calibration.Width = 480
	right.Orientation = touch.FlippedLandscape
	diff = DiffConfigs(left, right)
	test.That(t, diff.Equal(), test.ShouldBeFalse)
	test.That(t, diff.TouchEqual, test.ShouldBeFalse)
	test.That(t, diff.HardwareEqual, test.ShouldBeTrue)
	test.That(t, diff.NeedsRestart(), test.ShouldBeFalse)
	test.That(t, diff.PrettyDiff, test.ShouldContainSubstring, "Width")

	right = Default()
	right.PollHz = 50
	test.That(t, DiffConfigs(left, right).NeedsRestart(), test.ShouldBeTrue)

	right = Default()
	right.Board.GPIOPins = []board.GPIOConfig{{Name: "xp", Pin: "5"}}
	diff = DiffConfigs(left, right)
	test.That(t, diff.HardwareEqual, test.ShouldBeFalse)
	test.That(t, diff.NeedsRestart(), test.ShouldBeTrue)

	right = Default()
	right.Log.Level = logging.DEBUG
	diff = DiffConfigs(left, right)
	test.That(t, diff.LogEqual, test.ShouldBeFalse)
	test.That(t, diff.NeedsRestart(), test.ShouldBeFalse)
}

func TestSchema(t *testing.T) {
	out, err := SchemaJSON()
	test.That(t, err, test.ShouldBeNil)
	for _, field := range []string{"x_min_ohms", "settle_us", "spi_bus", "poll_hz", "max_backups"} {
		test.That(t, string(out), test.ShouldContainSubstring, field)
	}
	test.That(t, string(out), test.ShouldNotContainSubstring, "ConfigFilePath")
}

func TestLogConfigNewLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "touchd.log")
	lc := LogConfig{Level: logging.WARN, File: file, MaxSizeMB: 1, MaxBackups: 1}
	logger, closeFile := lc.NewLogger("touchd")
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.WARN)

	logger.Infow("not written")
	logger.Warnw("panel unplugged", "pin", "xp")
	test.That(t, closeFile(), test.ShouldBeNil)

	contents, err := os.ReadFile(file)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "panel unplugged")
	test.That(t, strings.Contains(string(contents), "not written"), test.ShouldBeFalse)

	logger, closeFile = LogConfig{Level: logging.INFO}.NewLogger("touchd")
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.INFO)
	test.That(t, closeFile(), test.ShouldBeNil)
}
