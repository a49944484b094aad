package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns a list of validation
// errors. An empty slice indicates the configuration is valid.
func Validate(config *Config) []error {
	var errs []error

	if config.Server.APIAddress != "" {
		if _, _, err := net.SplitHostPort(config.Server.APIAddress); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.apiAddress",
				Message: err.Error(),
			})
		}
	}
	if config.Server.MetricsAddress != "" {
		if _, _, err := net.SplitHostPort(config.Server.MetricsAddress); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.metricsAddress",
				Message: err.Error(),
			})
		}
	}

	if len(config.Namespaces) == 0 {
		errs = append(errs, ValidationError{
			Field:   "namespaces",
			Message: "at least one namespace is required",
		})
	}
	seen := make(map[string]bool)
	for i, ns := range config.Namespaces {
		field := fmt.Sprintf("namespaces[%d]", i)
		suffix := ldap.NormalizeDN(ns.Suffix)
		if suffix == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".suffix",
				Message: "suffix is required",
			})
			continue
		}
		if seen[suffix] {
			errs = append(errs, ValidationError{
				Field:   field + ".suffix",
				Message: fmt.Sprintf("duplicate suffix %q", suffix),
			})
		}
		seen[suffix] = true
		if ns.QueueDepth < 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".queueDepth",
				Message: "queue depth cannot be negative",
			})
		}
	}

	for i, ref := range config.Referrals {
		if len(ref.URIs) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("referrals[%d].uris", i),
				Message: "at least one URI is required",
			})
		}
	}

	for i, at := range config.Schema.AttributeTypes {
		if strings.TrimSpace(at.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("schema.attributeTypes[%d].name", i),
				Message: "name is required",
			})
		}
	}

	switch config.ACL.DefaultPolicy {
	case "allow", "deny":
	default:
		errs = append(errs, ValidationError{
			Field:   "acl.defaultPolicy",
			Message: fmt.Sprintf("must be %q or %q, got %q", "allow", "deny", config.ACL.DefaultPolicy),
		})
	}
	for i, rule := range config.ACL.Rules {
		if len(rule.Rights) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("acl.rules[%d].rights", i),
				Message: "at least one right is required",
			})
			continue
		}
		for _, right := range rule.Rights {
			switch right {
			case "read", "write":
			default:
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("acl.rules[%d].rights", i),
					Message: fmt.Sprintf("unknown right %q", right),
				})
			}
		}
	}

	switch config.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be %q or %q, got %q", "json", "text", config.Logging.Format),
		})
	}

	return errs
}
