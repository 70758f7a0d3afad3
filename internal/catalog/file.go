package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type menuFile struct {
	Services []ServiceItem `toml:"service"`
}

// LoadFile reads a menu from a TOML file of [[service]] tables.
func LoadFile(path string) (*StaticProvider, error) {
	var menu menuFile
	if _, err := toml.DecodeFile(path, &menu); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return NewStaticProvider(menu.Services)
}

// Parse reads a menu from TOML text.
func Parse(data string) (*StaticProvider, error) {
	var menu menuFile
	if _, err := toml.Decode(data, &menu); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return NewStaticProvider(menu.Services)
}
