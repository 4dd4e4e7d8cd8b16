package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// printerConfig is the on-disk shape of an optional .gonpy.toml file,
// letting a caller override pretty's default truncation limits without
// passing four separate flags.
type printerConfig struct {
	StackedAxis int `toml:"stacked_axis"`
	Columns     int `toml:"columns"`
	Rows        int `toml:"rows"`
	Threshold   int `toml:"threshold"`
}

// loadPrinterConfig reads path as TOML. ok is false (with a nil error) if
// path is empty or the file does not exist, so callers can treat "no
// config" and "no overrides" identically.
func loadPrinterConfig(path string) (printerConfig, bool, error) {
	if path == "" {
		return printerConfig{}, false, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return printerConfig{}, false, nil
	}

	var cfg printerConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return printerConfig{}, false, err
	}
	return cfg, true, nil
}
