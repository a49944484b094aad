// Package config provides configuration parsing and validation for the
// directory server.
package config

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/namespace"
)

// Parser errors.
var (
	ErrFileNotFound = errors.New("configuration file not found")
)

// Config holds the complete server configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Namespaces []NamespaceConfig `yaml:"namespaces"`
	Referrals  []ReferralConfig  `yaml:"referrals"`
	Schema     SchemaConfig      `yaml:"schema"`
	ACL        ACLConfig         `yaml:"acl"`
	Logging    LogConfig         `yaml:"logging"`
}

// ServerConfig holds process-level configuration.
type ServerConfig struct {
	// APIAddress is the listen address of the JSON write API.
	APIAddress string `yaml:"apiAddress"`
	// MetricsAddress is the listen address of the Prometheus endpoint.
	// Empty disables the endpoint.
	MetricsAddress string `yaml:"metricsAddress"`
}

// NamespaceConfig describes one served partition.
type NamespaceConfig struct {
	Suffix string `yaml:"suffix"`
	// Relax disables the schema check for unknown attribute types.
	Relax bool `yaml:"relax"`
	// QueueDepth bounds the busy-retry queue; 0 selects the default.
	QueueDepth int `yaml:"queueDepth"`
}

// ReferralConfig forwards requests outside the served namespaces.
// An empty suffix matches any DN not covered by a more specific referral.
type ReferralConfig struct {
	Suffix string   `yaml:"suffix"`
	URIs   []string `yaml:"uris"`
}

// SchemaConfig extends the built-in attribute type registry.
type SchemaConfig struct {
	AttributeTypes []AttributeTypeConfig `yaml:"attributeTypes"`
}

// AttributeTypeConfig declares one additional attribute type.
type AttributeTypeConfig struct {
	Name        string `yaml:"name"`
	OID         string `yaml:"oid"`
	SingleValue bool   `yaml:"singleValue"`
}

// ACLConfig holds access control configuration.
type ACLConfig struct {
	DefaultPolicy string          `yaml:"defaultPolicy"`
	Rules         []ACLRuleConfig `yaml:"rules"`
}

// ACLRuleConfig holds a single access rule. Rules are evaluated in order,
// first match wins.
type ACLRuleConfig struct {
	Deny          bool     `yaml:"deny"`
	Subject       string   `yaml:"subject"`
	Target        string   `yaml:"target"`
	TargetSubtree bool     `yaml:"targetSubtree"`
	Rights        []string `yaml:"rights"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			APIAddress:     ":8080",
			MetricsAddress: "",
		},
		ACL: ACLConfig{
			DefaultPolicy: "allow",
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load reads, expands and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration from YAML data. Environment variables are
// substituted first, then values are merged over the defaults.
func Parse(data []byte) (*Config, error) {
	data = substituteEnvVars(data)

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	for i := range config.Namespaces {
		config.Namespaces[i].Suffix = strings.TrimSpace(config.Namespaces[i].Suffix)
		if config.Namespaces[i].QueueDepth == 0 {
			config.Namespaces[i].QueueDepth = namespace.DefaultQueueDepth
		}
	}
	return config, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values.
func substituteEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		groups := envVarPattern.FindSubmatch(match)
		if value, ok := os.LookupEnv(string(groups[1])); ok {
			return []byte(value)
		}
		return groups[3]
	})
}
