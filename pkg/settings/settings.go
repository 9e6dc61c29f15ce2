// Package settings manages persistent user settings for the gnsconf CLI.
//
// Values come from ~/.gnsconf/settings.json and may be overridden by
// GNSCONF_* environment variables.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GNSCONF_"

// Defaults used when a setting is empty.
const (
	DefaultAgent        = "script"
	DefaultListen       = "127.0.0.1:8080"
	DefaultServerURL    = "http://127.0.0.1:8080"
	DefaultAgentTimeout = 30 * time.Second
	DefaultParallel     = 4
)

// Settings holds persistent user preferences
type Settings struct {
	// Agent selects the dispatch agent: script, console or ssh
	Agent string `json:"agent,omitempty" env:"AGENT"`

	// AgentScript is the external agent program; empty runs "gnsconf agent"
	AgentScript string `json:"agent_script,omitempty" env:"AGENT_SCRIPT"`

	// AgentInterpreter runs AgentScript, e.g. "python3"
	AgentInterpreter string `json:"agent_interpreter,omitempty" env:"AGENT_INTERPRETER"`

	// AgentTimeout bounds one dispatch, as a Go duration
	AgentTimeout string `json:"agent_timeout,omitempty" env:"AGENT_TIMEOUT"`

	// IgnoreExitStatus treats a failing agent exit status as success
	IgnoreExitStatus bool `json:"ignore_exit_status,omitempty" env:"IGNORE_EXIT_STATUS"`

	// SSHUser logs in to devices when Agent is "ssh"
	SSHUser string `json:"ssh_user,omitempty" env:"SSH_USER"`

	// SSHPassword is only read from the environment
	SSHPassword string `json:"-" env:"SSH_PASSWORD"`

	// Listen is the address gnsconf serve binds
	Listen string `json:"listen,omitempty" env:"LISTEN"`

	// ServerURL is where gnsconf watch polls
	ServerURL string `json:"server_url,omitempty" env:"SERVER_URL"`

	// Parallel caps concurrent consoles in gnsconf apply
	Parallel int `json:"parallel,omitempty" env:"PARALLEL"`

	// AuditLog overrides the audit log path
	AuditLog string `json:"audit_log,omitempty" env:"AUDIT_LOG"`

	// LogLevel is the logrus level name
	LogLevel string `json:"log_level,omitempty" env:"LOG_LEVEL"`

	// LogFormat is "text" (default) or "json"
	LogFormat string `json:"log_format,omitempty" env:"LOG_FORMAT"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	return filepath.Join(configDir(), "settings.json")
}

// DefaultAuditLogPath returns the default audit log location
func DefaultAuditLogPath() string {
	return filepath.Join(configDir(), "audit.log")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gnsconf"
	}
	return filepath.Join(home, ".gnsconf")
}

// Load reads settings from the default location and applies environment
// overrides.
func Load() (*Settings, error) {
	s, err := LoadFrom(DefaultSettingsPath())
	if err != nil {
		return nil, err
	}
	if err := s.ApplyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFrom reads settings from a specific path. A missing file yields
// empty settings.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

// ApplyEnv overrides fields from GNSCONF_* variables that are set.
func (s *Settings) ApplyEnv() error {
	return s.applyEnv(nil)
}

func (s *Settings) applyEnv(environment map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(s, opts); err != nil {
		return fmt.Errorf("reading %s environment: %w", EnvPrefix, err)
	}
	return nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetAgent returns the agent name (with fallback)
func (s *Settings) GetAgent() string {
	if s.Agent != "" {
		return s.Agent
	}
	return DefaultAgent
}

// GetAgentTimeout parses AgentTimeout (with fallback)
func (s *Settings) GetAgentTimeout() (time.Duration, error) {
	if s.AgentTimeout == "" {
		return DefaultAgentTimeout, nil
	}
	d, err := time.ParseDuration(s.AgentTimeout)
	if err != nil {
		return 0, fmt.Errorf("agent_timeout %q: %w", s.AgentTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("agent_timeout %q must be positive", s.AgentTimeout)
	}
	return d, nil
}

// GetListen returns the serve address (with fallback)
func (s *Settings) GetListen() string {
	if s.Listen != "" {
		return s.Listen
	}
	return DefaultListen
}

// GetServerURL returns the watch URL (with fallback)
func (s *Settings) GetServerURL() string {
	if s.ServerURL != "" {
		return s.ServerURL
	}
	return DefaultServerURL
}

// GetParallel returns the apply concurrency (with fallback)
func (s *Settings) GetParallel() int {
	if s.Parallel > 0 {
		return s.Parallel
	}
	return DefaultParallel
}

// GetAuditLog returns the audit log path (with fallback)
func (s *Settings) GetAuditLog() string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return DefaultAuditLogPath()
}

// Set assigns a setting by its JSON key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "agent":
		switch value {
		case "script", "console", "ssh", "":
		default:
			return fmt.Errorf("unknown agent %q (valid: script, console, ssh)", value)
		}
		s.Agent = value
	case "agent_script":
		s.AgentScript = value
	case "agent_interpreter":
		s.AgentInterpreter = value
	case "agent_timeout":
		prev := s.AgentTimeout
		s.AgentTimeout = value
		if _, err := s.GetAgentTimeout(); err != nil {
			s.AgentTimeout = prev
			return err
		}
	case "ignore_exit_status":
		switch value {
		case "true", "yes", "1":
			s.IgnoreExitStatus = true
		case "false", "no", "0", "":
			s.IgnoreExitStatus = false
		default:
			return fmt.Errorf("ignore_exit_status: expected true or false, got %q", value)
		}
	case "ssh_user":
		s.SSHUser = value
	case "listen":
		s.Listen = value
	case "server_url":
		s.ServerURL = value
	case "parallel":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("parallel: expected a non-negative integer, got %q", value)
		}
		s.Parallel = n
	case "audit_log":
		s.AuditLog = value
	case "log_level":
		s.LogLevel = value
	case "log_format":
		switch value {
		case "text", "json", "":
		default:
			return fmt.Errorf("log_format: expected text or json, got %q", value)
		}
		s.LogFormat = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
