package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config aggregates everything the service reads from the environment.
//
// The pipeline base URL is deliberately not required here: generation fails
// when attempted without it, matching the demo's behavior of surfacing the
// missing configuration on the first click rather than at startup.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// External collaborators.
	PipelineBaseURL     string `envconfig:"API_SERVICE_URL"`
	SenderEmailPassword string `envconfig:"SENDER_EMAIL_PASSWORD"`
	SMTPHost            string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort            int    `envconfig:"SMTP_PORT" default:"587"`

	// UI routing.
	ProxyPrefix string `envconfig:"PROXY_PREFIX"`

	// Files and directories.
	ModelsConfigPath string `envconfig:"MODELS_CONFIG_PATH" default:"models.json"`
	FrontendLogPath  string `envconfig:"FRONTEND_LOG_PATH" default:"output.log"`
	DemoOutputDir    string `envconfig:"DEMO_OUTPUT_DIR" default:"demo_outputs"`
	UploadDir        string `envconfig:"UPLOAD_DIR" default:"uploads"`

	// Behavior knobs.
	LogPollInterval  time.Duration `envconfig:"LOG_POLL_INTERVAL" default:"1s"`
	SchemaValidation bool          `envconfig:"CONFIG_SCHEMA_VALIDATION" default:"false"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: error loading .env file: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address derived from PORT. Values already carrying
// a colon are used as-is so ":8080" and "127.0.0.1:8080" both work.
func (c *Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// HasSenderSecret reports whether the email-sending credential is present;
// without it the recipient field only ever names the artifact.
func (c *Config) HasSenderSecret() bool {
	return c.SenderEmailPassword != ""
}
