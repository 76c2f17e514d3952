package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config is the merged console configuration.
type Config struct {
	// HTTP server.
	ListenAddr   string        `env:"VCC_LISTEN_ADDR" yaml:"listenAddr"`
	ReadTimeout  time.Duration `env:"VCC_READ_TIMEOUT" yaml:"readTimeout"`
	WriteTimeout time.Duration `env:"VCC_WRITE_TIMEOUT" yaml:"writeTimeout"`
	IdleTimeout  time.Duration `env:"VCC_IDLE_TIMEOUT" yaml:"idleTimeout"`

	// Southbound service base addresses.
	MotionServiceURL  string `env:"VCC_MOTION_SERVICE_URL" yaml:"motionServiceURL"`
	CameraServiceURL  string `env:"VCC_CAMERA_SERVICE_URL" yaml:"cameraServiceURL"`
	MappingServiceURL string `env:"VCC_MAPPING_SERVICE_URL" yaml:"mappingServiceURL"`
	VoiceServiceURL   string `env:"VCC_VOICE_SERVICE_URL" yaml:"voiceServiceURL"`

	// CommandTimeout bounds each southbound call.
	CommandTimeout time.Duration `env:"VCC_COMMAND_TIMEOUT" yaml:"commandTimeout"`

	// Input tuning.
	JoystickRadius     float64       `env:"VCC_JOYSTICK_RADIUS" yaml:"joystickRadius"`
	DefaultCruiseSpeed int           `env:"VCC_DEFAULT_CRUISE_SPEED" yaml:"defaultCruiseSpeed"`
	VoiceAutoStopAfter time.Duration `env:"VCC_VOICE_AUTO_STOP_AFTER" yaml:"voiceAutoStopAfter"`

	// Feedback stream.
	FeedbackBufferSize int           `env:"VCC_FEEDBACK_BUFFER_SIZE" yaml:"feedbackBufferSize"`
	HeartbeatInterval  time.Duration `env:"VCC_HEARTBEAT_INTERVAL" yaml:"heartbeatInterval"`

	// AuthSecret enables bearer-token auth on the API when non-empty.
	AuthSecret string `env:"VCC_AUTH_SECRET" yaml:"authSecret"`

	// AuditDir is where command audit logs are written.
	AuditDir string `env:"VCC_AUDIT_DIR" yaml:"auditDir"`

	// KnownLocations seeds the navigation destination set.
	KnownLocations []string `env:"VCC_KNOWN_LOCATIONS" envSeparator:"," yaml:"knownLocations"`
}

// Defaults returns the baseline configuration.
func Defaults() *Config {
	return &Config{
		ListenAddr:   ":8000",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		MotionServiceURL:  "http://127.0.0.1:9000",
		CameraServiceURL:  "http://127.0.0.1:9001",
		MappingServiceURL: "http://127.0.0.1:9002",
		VoiceServiceURL:   "http://127.0.0.1:9003",

		CommandTimeout: 2 * time.Second,

		JoystickRadius:     50,
		DefaultCruiseSpeed: 50,
		VoiceAutoStopAfter: 3 * time.Second,

		FeedbackBufferSize: 32,
		HeartbeatInterval:  15 * time.Second,

		AuditDir: "logs",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (skipped when path is empty or the file does not exist), and finally
// VCC_* environment variables, which take precedence over the file.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.Wrapf(err, "read config file %s", path)
			}
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config file %s", path)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "apply environment overrides")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks the merged configuration for values the console cannot
// run with.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address must not be empty")
	}
	for name, url := range map[string]string{
		"motion":  c.MotionServiceURL,
		"camera":  c.CameraServiceURL,
		"mapping": c.MappingServiceURL,
		"voice":   c.VoiceServiceURL,
	} {
		if url == "" {
			return errors.Errorf("%s service URL must not be empty", name)
		}
	}
	if c.CommandTimeout <= 0 {
		return errors.New("command timeout must be positive")
	}
	if c.JoystickRadius <= 0 {
		return errors.New("joystick radius must be positive")
	}
	if c.DefaultCruiseSpeed < 0 || c.DefaultCruiseSpeed > 100 {
		return errors.New("default cruise speed must be within 0-100")
	}
	if c.VoiceAutoStopAfter <= 0 {
		return errors.New("voice auto-stop window must be positive")
	}
	if c.HeartbeatInterval <= 0 {
		return errors.New("heartbeat interval must be positive")
	}
	return nil
}
