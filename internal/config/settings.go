package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends accepted by Settings.Store.
const (
	StoreFile = "file"
	StoreNATS = "nats"
)

// Printing modes accepted by Settings.Printing.
const (
	PrintingAuto = "auto"
	PrintingOff  = "off"
)

// Settings configures the boothsetup tool itself, as opposed to the record
// the wizard edits.
type Settings struct {
	Config       string `mapstructure:"config" yaml:"config"`
	Global       bool   `mapstructure:"global" yaml:"global"`
	Store        string `mapstructure:"store" yaml:"store"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	Profile      string `mapstructure:"profile" yaml:"profile"`
	CUPSHost     string `mapstructure:"cups_host" yaml:"cups_host"`
	CUPSPort     int    `mapstructure:"cups_port" yaml:"cups_port"`
	CUPSUser     string `mapstructure:"cups_user" yaml:"cups_user"`
	CUPSPassword string `mapstructure:"cups_password" yaml:"cups_password"`
	CUPSTLS      bool   `mapstructure:"cups_tls" yaml:"cups_tls"`
	Printing     string `mapstructure:"printing" yaml:"printing"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFile      string `mapstructure:"log_file" yaml:"log_file"`
	HooksDir     string `mapstructure:"hooks_dir" yaml:"hooks_dir"`
}

// settingKeys maps each settings key to the cobra flag that can override it.
var settingKeys = map[string]string{
	"config":        "config",
	"global":        "global",
	"store":         "store",
	"data_dir":      "data-dir",
	"profile":       "profile",
	"cups_host":     "cups-host",
	"cups_port":     "cups-port",
	"cups_user":     "cups-user",
	"cups_password": "cups-password",
	"cups_tls":      "cups-tls",
	"printing":      "printing",
	"log_level":     "log-level",
	"log_file":      "log-file",
	"hooks_dir":     "hooks-dir",
}

// LoadSettings resolves Settings with precedence:
// flags > BOOTHSETUP_* env vars > settings file > defaults.
// flags may be nil.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("config", "")
	v.SetDefault("global", false)
	v.SetDefault("store", StoreFile)
	v.SetDefault("data_dir", ".boothsetup")
	v.SetDefault("profile", "default")
	v.SetDefault("cups_host", "localhost")
	v.SetDefault("cups_port", 631)
	v.SetDefault("cups_user", "")
	v.SetDefault("cups_password", "")
	v.SetDefault("cups_tls", false)
	v.SetDefault("printing", PrintingAuto)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("hooks_dir", ".")

	v.SetEnvPrefix("BOOTHSETUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, flag := range settingKeys {
		if err := v.BindEnv(key, "BOOTHSETUP_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
		if flags == nil {
			continue
		}
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding %s flag: %w", flag, err)
			}
		}
	}

	if path := SettingsPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks enumerated values.
func (s *Settings) Validate() error {
	switch s.Store {
	case StoreFile, StoreNATS:
	default:
		return fmt.Errorf("invalid store %q (want %s or %s)", s.Store, StoreFile, StoreNATS)
	}
	switch s.Printing {
	case PrintingAuto, PrintingOff:
	default:
		return fmt.Errorf("invalid printing mode %q (want %s or %s)", s.Printing, PrintingAuto, PrintingOff)
	}
	if s.CUPSPort <= 0 || s.CUPSPort > 65535 {
		return fmt.Errorf("invalid cups port %d", s.CUPSPort)
	}
	return nil
}

// RecordPath returns the configuration file the file store should use:
// an explicit --config wins, then --global, then the working directory.
func (s *Settings) RecordPath() string {
	switch {
	case s.Config != "":
		return s.Config
	case s.Global:
		return GlobalPath()
	default:
		return ProjectPath()
	}
}
