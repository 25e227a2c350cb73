package config

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"github.com/viam-modules/resistive-touch/logging"
)

// Read reads a config from the given file. Environment variables in the file such as ${SPI_BUS}
// are expanded first.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}

	conf := Default()
	conf.ConfigFilePath = originalPath
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   &conf,
		Metadata: &md,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config")
	}
	if len(md.Unused) > 0 && logger != nil {
		sort.Strings(md.Unused)
		logger.Warnw("config has unknown fields", "path", originalPath, "fields", md.Unused)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
