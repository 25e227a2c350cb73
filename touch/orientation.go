package touch

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Orientation is the display rotation. The panel's axes never move; only the picture does.
type Orientation int

// The four display rotations, in the order used by ILI9341 style `setRotation` calls.
const (
	Portrait Orientation = iota
	Landscape
	FlippedPortrait
	FlippedLandscape
)

var orientationNames = map[Orientation]string{
	Portrait:         "portrait",
	Landscape:        "landscape",
	FlippedPortrait:  "flipped_portrait",
	FlippedLandscape: "flipped_landscape",
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return "unknown"
}

// Supported reports whether Transform can map readings for this orientation.
func (o Orientation) Supported() bool {
	return o == Landscape || o == FlippedLandscape
}

// ParseOrientation converts a name such as "landscape" or "flipped-landscape" to an Orientation.
func ParseOrientation(name string) (Orientation, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for o, oName := range orientationNames {
		if oName == normalized {
			return o, nil
		}
	}
	return 0, errors.Errorf("unknown orientation %q", name)
}

// OrientationFromRotation converts a display rotation setting (0-3) to an Orientation.
func OrientationFromRotation(rotation int) (Orientation, error) {
	if rotation < 0 || rotation > 3 {
		return 0, errors.Errorf("display rotation must be 0-3, got %d", rotation)
	}
	return Orientation(rotation), nil
}

// MarshalJSON encodes the orientation by name.
func (o Orientation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts either a name or a rotation number.
func (o *Orientation) UnmarshalJSON(data []byte) error {
	var rotation int
	if err := json.Unmarshal(data, &rotation); err == nil {
		parsed, err := OrientationFromRotation(rotation)
		if err != nil {
			return err
		}
		*o = parsed
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return errors.Wrap(err, "orientation must be a name or a rotation number")
	}
	parsed, err := ParseOrientation(name)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// UnmarshalText lets config decoders and flags set an Orientation from its name.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
