package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Data layout configuration
	DataDir         string
	InstrumentsFile string

	// Logging configuration
	LogLevel string

	// Application configuration
	Environment string
}

// Load loads the configuration from environment variables.
func Load() *Config {
	config := &Config{
		DataDir:         getEnv("DATA_DIR", "data"),
		InstrumentsFile: getEnv("INSTRUMENTS_FILE", "instruments.yaml"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}

	return config
}

// InstrumentManifest describes one tradable contract in the YAML manifest.
type InstrumentManifest struct {
	Symbol        string `yaml:"symbol"`
	Market        string `yaml:"market"`
	SecurityType  string `yaml:"security_type"`
	Multiplier    string `yaml:"multiplier"`
	LotSize       string `yaml:"lot_size"`
	QuoteCurrency string `yaml:"quote_currency"`
}

// LoadInstruments reads the instrument manifest. A missing manifest is a
// valid empty universe, not an error.
func LoadInstruments(path string) ([]InstrumentManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read instrument manifest: %w", err)
	}

	var manifest []InstrumentManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse instrument manifest: %w", err)
	}
	return manifest, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
