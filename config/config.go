package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/vector81/Jobby/utils"
)

// GlobalConfig is the whole user-editable configuration.
type GlobalConfig struct {
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Apply   ApplyConfig   `mapstructure:"apply" yaml:"apply"`
	Profile Profile       `mapstructure:"profile" yaml:"profile"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Data    DataConfig    `mapstructure:"data" yaml:"data"`
}

// SearchConfig drives job discovery.
type SearchConfig struct {
	Keywords  []string `mapstructure:"keywords" yaml:"keywords" validate:"required,min=1,dive,required"`
	Location  string   `mapstructure:"location" yaml:"location"`
	Platforms []string `mapstructure:"platforms" yaml:"platforms" validate:"required,min=1,dive,oneof=seek indeed"`
	Blacklist []string `mapstructure:"blacklist" yaml:"blacklist"` // company substrings never applied to
}

// ApplyConfig bounds a single run. The delay between applications is a pacing
// control, so its lower bound is enforced here rather than defaulted away.
type ApplyConfig struct {
	MaxApplications int `mapstructure:"max_applications" yaml:"max_applications" validate:"min=0"` // 0 = no cap
	DelayMinSeconds int `mapstructure:"delay_min_seconds" yaml:"delay_min_seconds" validate:"min=1"`
	DelayMaxSeconds int `mapstructure:"delay_max_seconds" yaml:"delay_max_seconds" validate:"gtefield=DelayMinSeconds"`
}

// Profile describes the applicant; the answer rule table is built from it.
type Profile struct {
	Name            string `mapstructure:"name" yaml:"name"`
	Email           string `mapstructure:"email" yaml:"email" validate:"omitempty,email"`
	Phone           string `mapstructure:"phone" yaml:"phone"`
	ResumePath      string `mapstructure:"resume_path" yaml:"resume_path"`
	ExpectedSalary  string `mapstructure:"expected_salary" yaml:"expected_salary"`
	NoticePeriod    string `mapstructure:"notice_period" yaml:"notice_period"`
	YearsExperience int    `mapstructure:"years_experience" yaml:"years_experience" validate:"min=0"`
}

// BrowserConfig selects and shapes the automation driver.
type BrowserConfig struct {
	Engine     string `mapstructure:"engine" yaml:"engine" validate:"oneof=playwright chromedp"`
	Headless   bool   `mapstructure:"headless" yaml:"headless"`
	ProfileDir string `mapstructure:"profile_dir" yaml:"profile_dir"` // persistent browser profile, keeps logins
}

// DataConfig locates the files the tool owns.
type DataConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir" validate:"required"`
}

// DataFile returns the path of a named file inside the data directory.
func (c *GlobalConfig) DataFile(name string) string {
	return filepath.Join(utils.ExpandPath(c.Data.Dir), name)
}

// InitConfig bootstraps a starter config on first run, then reads and
// validates config.yaml from ./config or the working directory.
func InitConfig() (*GlobalConfig, error) {
	if err := ensureDefaultConfig(); err != nil {
		return nil, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg GlobalConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFrom reads and validates the config at an explicit path.
func LoadFrom(path string) (*GlobalConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg GlobalConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and wraps the validator's field errors.
func Validate(cfg *GlobalConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
