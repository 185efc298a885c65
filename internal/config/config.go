package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is used when neither the config file nor the environment names a backend
	DefaultAPIBaseURL = "http://localhost:8080/api"

	// APIBaseURLEnvVar overrides apiBaseURL from the config file
	APIBaseURLEnvVar = "SHIFT_ADMIN_API_URL"

	DefaultUpcomingWindowDays = 7
	DefaultLogLevel           = "info"

	configFileBase = "shift_admin_config"
)

// ShiftTemplate describes a recurring shift that can be expanded into drafts
type ShiftTemplate struct {
	Name           string `yaml:"name" validate:"required"`
	RRule          string `yaml:"rrule" validate:"required"`
	StartTime      string `yaml:"startTime" validate:"required,datetime=15:04"`
	EndTime        string `yaml:"endTime" validate:"required,datetime=15:04"`
	ShiftType      string `yaml:"shiftType" validate:"required"`
	DepartmentID   string `yaml:"departmentID,omitempty"`
	RequiredRoleID string `yaml:"requiredRoleID,omitempty"`
	RequiredCount  int    `yaml:"requiredCount" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	APIBaseURL         string          `yaml:"apiBaseURL,omitempty" validate:"omitempty,url"`
	Timezone           string          `yaml:"timezone,omitempty"`
	UpcomingWindowDays int             `yaml:"upcomingWindowDays,omitempty" validate:"omitempty,min=1"`
	LogLevel           string          `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
	DatabaseURL        string          `yaml:"databaseURL,omitempty"`
	ScheduleSheetID    string          `yaml:"scheduleSheetID,omitempty"`
	GmailUserID        string          `yaml:"gmailUserID,omitempty"`
	GmailSender        string          `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	ShiftTemplates     []ShiftTemplate `yaml:"shiftTemplates,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration with only defaults and environment overrides applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnv(cfg)
	return cfg
}

// LoadWithEnv loads the configuration for an environment.
// env="test" looks for shift_admin_config.test.yaml. A missing file is not an error:
// every setting has a default and the API base URL can come from the environment.
func LoadWithEnv(env string) (*Config, error) {
	loadDotEnv()

	configPath, err := findConfigFile(env)
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the timezone name and every template rrule
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	seen := make(map[string]bool)
	for i, tmpl := range cfg.ShiftTemplates {
		if seen[tmpl.Name] {
			return fmt.Errorf("duplicate shift template name in shiftTemplates[%d]: %s", i, tmpl.Name)
		}
		seen[tmpl.Name] = true

		if _, err := rrule.StrToRRule(tmpl.RRule); err != nil {
			return fmt.Errorf("invalid rrule in shiftTemplates[%d]: %w", i, err)
		}
	}

	return nil
}

// Location returns the display time zone. An empty timezone means the machine's local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Template returns the shift template with the given name
func (c *Config) Template(name string) (*ShiftTemplate, bool) {
	for i := range c.ShiftTemplates {
		if c.ShiftTemplates[i].Name == name {
			return &c.ShiftTemplates[i], true
		}
	}
	return nil, false
}

func applyDefaults(cfg *Config) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.UpcomingWindowDays == 0 {
		cfg.UpcomingWindowDays = DefaultUpcomingWindowDays
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

func applyEnv(cfg *Config) {
	if url := strings.TrimSpace(os.Getenv(APIBaseURLEnvVar)); url != "" {
		cfg.APIBaseURL = url
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
}

// loadDotEnv reads a .env file from the current directory if there is one.
// Variables already set in the process environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := configFileBase + ".yaml"
	if env != "" {
		configFileName = configFileBase + "." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
