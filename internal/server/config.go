package server

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	Addr      string `envconfig:"APP_ADDR" default:":9595"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// SessionSecret signs the session cookie. The default is fine for a
	// local single-user tool; override it when exposing the port.
	SessionSecret string `envconfig:"SESSION_SECRET" default:"company-map-session-secret"`

	// HighlightGroup is the company group drawn with a blue star
	// instead of the plain pin.
	HighlightGroup string `envconfig:"HIGHLIGHT_GROUP" default:"Raptor Materials"`

	MaxUploadMB int64 `envconfig:"MAX_UPLOAD_MB" default:"16"`

	TemplateGlob string `envconfig:"TEMPLATE_GLOB" default:"templates/*"`
	StaticDir    string `envconfig:"STATIC_DIR" default:"static"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
