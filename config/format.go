package config

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/itemgen/errors"
)

// Output formats for Marshal.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Marshal encodes v as toml, yaml or json.
func Marshal(v any, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal to JSON")
		}
		return append(data, '\n'), nil

	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal to YAML")
		}
		return data, nil

	case FormatTOML:
		data, err := toml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal to TOML")
		}
		return data, nil

	default:
		return nil, errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}
