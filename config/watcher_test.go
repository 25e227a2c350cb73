package config

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/viam-modules/resistive-touch/logging"
)

func TestWatcher(t *testing.T) {
	t.Setenv("SPI_BUS", "0")
	path := writeConfig(t, t.TempDir(), `{`+boardJSON+`}`)
	logger, logs := logging.NewObservedTestLogger(t)

	var mu sync.Mutex
	var seen []*Config
	w, err := NewWatcher(path, 10*time.Millisecond, logger, func(conf *Config) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, conf)
	})
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, w.Close(), test.ShouldBeNil)
	}()

	test.That(t, os.WriteFile(path, []byte(`{`+boardJSON+`, "calibration": {"width": 480, "height": 320}}`), 0o600),
		test.ShouldBeNil)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mu.Lock()
		defer mu.Unlock()
		test.That(tb, seen, test.ShouldNotBeEmpty)
		test.That(tb, seen[len(seen)-1].Calibration.Width, test.ShouldEqual, 480)
	})

	mu.Lock()
	count := len(seen)
	mu.Unlock()

	// A broken file is reported and skipped.
	test.That(t, os.WriteFile(path, []byte(`{`+boardJSON+`, "orientation": "portrait"}`), 0o600), test.ShouldBeNil)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, logs.FilterMessage("ignoring invalid config change").Len(), test.ShouldBeGreaterThan, 0)
	})
	mu.Lock()
	test.That(t, seen, test.ShouldHaveLength, count)
	mu.Unlock()

	// Other files in the directory are ignored.
	test.That(t, os.WriteFile(strings.TrimSuffix(path, ".json")+".bak", []byte("{"), 0o600), test.ShouldBeNil)
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	test.That(t, seen, test.ShouldHaveLength, count)
	mu.Unlock()
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher("/does/not/exist/touchd.json", DefaultWatchDelay, logging.NewTestLogger(t), func(*Config) {})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "watching")
}
