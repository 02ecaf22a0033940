package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DISPLAY_MODE_LOG    = "log"
	DISPLAY_MODE_LATEST = "latest"
)

type Config struct {
	BackendURL     string        `mapstructure:"backend_url"`
	UploadField    string        `mapstructure:"upload_field"`
	Accept         string        `mapstructure:"accept"`
	Display        string        `mapstructure:"display"`
	Listen         string        `mapstructure:"listen"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend_url", "http://127.0.0.1:8000")
	v.SetDefault("upload_field", "files")
	v.SetDefault("accept", "application/pdf")
	v.SetDefault("display", DISPLAY_MODE_LOG)
	v.SetDefault("listen", "127.0.0.1:3000")
	// zero means the client waits as long as the backend takes
	v.SetDefault("request_timeout", 0)
}

// LoadConfig reads configPath if it is set and exists, then applies
// CHATPDF_* environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CHATPDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url must be http or https, got %q", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend_url has no host: %q", c.BackendURL)
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")

	if strings.TrimSpace(c.UploadField) == "" {
		return errors.New("upload_field is required")
	}
	switch c.Display {
	case DISPLAY_MODE_LOG, DISPLAY_MODE_LATEST:
	default:
		return fmt.Errorf("display must be %q or %q, got %q", DISPLAY_MODE_LOG, DISPLAY_MODE_LATEST, c.Display)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout must not be negative")
	}
	return nil
}
