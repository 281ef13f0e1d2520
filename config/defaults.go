package config

import (
	"sort"

	"github.com/spf13/viper"

	"github.com/teranos/itemgen/registry"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyName, registry.DefaultAccessorName)
	v.SetDefault(KeyTables, string(registry.ShapeSplit))
	v.SetDefault(KeyAccessor, true)
	v.SetDefault(KeyStrict, false) // last writer wins on tag collisions
	v.SetDefault(KeyExport, false)
	v.SetDefault(KeyScope, ScopePackage)
	v.SetDefault(KeyOutput, "") // DefaultOutput, or <file>_items_gen.go in file scope
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyRequiredVersion, "")
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults are static and always decode
		panic(err)
	}
	return cfg
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
