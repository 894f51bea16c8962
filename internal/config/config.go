package config

import (
	"os"
	"strconv"
	"strings"

	"astriql/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Camera CameraConfig
	Output OutputConfig
	Engine EngineConfig
	Log    LogConfig
}

// CameraConfig describes the field naming of the readout table
type CameraConfig struct {
	ModuleCount  int    `validate:"min=1,max=99"`
	ModulePrefix string `validate:"required"`
	TimeField    string `validate:"required"`
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	Dir      string  `validate:"required"`
	WidthIn  float64 `validate:"gt=0"`
	HeightIn float64 `validate:"gt=0"`
}

// EngineConfig holds extraction settings
type EngineConfig struct {
	Workers int `validate:"min=1"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Camera: *loadCameraConfig(),
		Output: *loadOutputConfig(),
		Engine: EngineConfig{Workers: getEnvIntOrDefault("ASTRIQL_WORKERS", 1)},
		Log:    LogConfig{Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO"))},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Camera: CameraConfig{ModuleCount: 37, ModulePrefix: "PDM", TimeField: "TIME_S"},
		Output: OutputConfig{Dir: ".", WidthIn: 10, HeightIn: 7},
		Engine: EngineConfig{Workers: 1},
		Log:    LogConfig{Level: "INFO"},
	}
}

func loadCameraConfig() *CameraConfig {
	def := Default().Camera
	return &CameraConfig{
		ModuleCount:  getEnvIntOrDefault("ASTRIQL_MODULE_COUNT", def.ModuleCount),
		ModulePrefix: getEnvOrDefault("ASTRIQL_MODULE_PREFIX", def.ModulePrefix),
		TimeField:    getEnvOrDefault("ASTRIQL_TIME_FIELD", def.TimeField),
	}
}

func loadOutputConfig() *OutputConfig {
	def := Default().Output
	return &OutputConfig{
		Dir:      getEnvOrDefault("ASTRIQL_OUTPUT_DIR", def.Dir),
		WidthIn:  getEnvFloatOrDefault("ASTRIQL_PLOT_WIDTH_IN", def.WidthIn),
		HeightIn: getEnvFloatOrDefault("ASTRIQL_PLOT_HEIGHT_IN", def.HeightIn),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
