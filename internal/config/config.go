package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// maxIdentityLen bounds nick and username so that protocol overhead can never
// use up a whole line.
const maxIdentityLen = 64

// Config holds all bot configuration
type Config struct {
	Nick            string   `yaml:"nick" toml:"nick"`
	Username        string   `yaml:"username" toml:"username"`
	Realname        string   `yaml:"realname" toml:"realname"`
	AddresseeSuffix *string  `yaml:"addressee_suffix" toml:"addressee_suffix"`
	Server          string   `yaml:"server" toml:"server"`
	Port            int      `yaml:"port" toml:"port"`
	TLS             bool     `yaml:"tls" toml:"tls"`
	TLSInsecure     bool     `yaml:"tls_insecure" toml:"tls_insecure"`
	ServerPass      string   `yaml:"server_pass" toml:"server_pass"`
	Admins          []string `yaml:"admins" toml:"admins"`
	DataDir         string   `yaml:"data_dir" toml:"data_dir"`
	LogLevel        string   `yaml:"log_level" toml:"log_level"`
	Flood           Flood    `yaml:"flood" toml:"flood"`
}

// Flood paces outgoing messages
type Flood struct {
	Interval Duration `yaml:"interval" toml:"interval"`
	Burst    int      `yaml:"burst" toml:"burst"`
}

// Duration is a time.Duration written as a string such as "500ms"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Suffix returns the text placed between an addressee's nick and the message
func (c *Config) Suffix() string {
	if c.AddresseeSuffix == nil {
		return ": "
	}
	return *c.AddresseeSuffix
}

// Load reads and parses a configuration file. Files ending in .toml are read
// as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Realname == "" {
		c.Realname = c.Nick
	}
	if c.Port == 0 {
		if c.TLS {
			c.Port = 6697
		} else {
			c.Port = 6667
		}
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Flood.Interval.Duration == 0 {
		c.Flood.Interval.Duration = 500 * time.Millisecond
	}
	if c.Flood.Burst == 0 {
		c.Flood.Burst = 4
	}
}

// Validate checks the configuration for values the bot cannot work with
func (c *Config) Validate() error {
	switch {
	case c.Nick == "":
		return fmt.Errorf("config: nick is required")
	case c.Username == "":
		return fmt.Errorf("config: username is required")
	case len(c.Nick) > maxIdentityLen:
		return fmt.Errorf("config: nick is longer than %d bytes", maxIdentityLen)
	case len(c.Username) > maxIdentityLen:
		return fmt.Errorf("config: username is longer than %d bytes", maxIdentityLen)
	case strings.ContainsAny(c.Nick, " !@\r\n\x00"):
		return fmt.Errorf("config: nick %q contains invalid characters", c.Nick)
	case strings.ContainsAny(c.Username, " !@\r\n\x00"):
		return fmt.Errorf("config: username %q contains invalid characters", c.Username)
	case c.Server == "":
		return fmt.Errorf("config: server is required")
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("config: port %d out of range", c.Port)
	case c.Flood.Burst < 1:
		return fmt.Errorf("config: flood burst must be at least 1")
	}
	return nil
}
