package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/acl"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/namespace"
)

const sampleConfig = `
server:
  metricsAddress: "127.0.0.1:9090"
namespaces:
  - suffix: "dc=example,dc=com"
    relax: true
    queueDepth: 16
  - suffix: "ou=people,dc=example,dc=com"
referrals:
  - suffix: "dc=other,dc=com"
    uris: ["ldap://other.example"]
schema:
  attributeTypes:
    - name: employeeNumber
      oid: 2.16.840.1.113730.3.1.3
      singleValue: true
acl:
  defaultPolicy: deny
  rules:
    - subject: "cn=admin,dc=example,dc=com"
      rights: [read, write]
    - subject: self
      rights: [write]
logging:
  level: debug
  format: text
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.MetricsAddress)

	require.Len(t, cfg.Namespaces, 2)
	assert.Equal(t, "dc=example,dc=com", cfg.Namespaces[0].Suffix)
	assert.True(t, cfg.Namespaces[0].Relax)
	assert.Equal(t, 16, cfg.Namespaces[0].QueueDepth)
	assert.Equal(t, namespace.DefaultQueueDepth, cfg.Namespaces[1].QueueDepth)

	require.Len(t, cfg.Referrals, 1)
	assert.Equal(t, []string{"ldap://other.example"}, cfg.Referrals[0].URIs)

	assert.Equal(t, "deny", cfg.ACL.DefaultPolicy)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	assert.Empty(t, Validate(cfg))
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("namespaces:\n  - suffix: ou=people\n"))
	require.NoError(t, err)

	assert.Equal(t, "allow", cfg.ACL.DefaultPolicy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Server.MetricsAddress)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("namespaces: [\n"))
	assert.Error(t, err)
}

func TestEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_SUFFIX", "dc=env,dc=com")

	cfg, err := Parse([]byte("namespaces:\n  - suffix: ${TEST_SUFFIX}\n"))
	require.NoError(t, err)
	require.Len(t, cfg.Namespaces, 1)
	assert.Equal(t, "dc=env,dc=com", cfg.Namespaces[0].Suffix)
}

func TestEnvSubstitutionDefault(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  level: ${NO_SUCH_VAR_SET:-warn}\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ldapd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Namespaces, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{
			name:  "no namespaces",
			yaml:  "logging:\n  level: info\n",
			field: "namespaces",
		},
		{
			name:  "empty suffix",
			yaml:  "namespaces:\n  - suffix: \"\"\n",
			field: "namespaces[0].suffix",
		},
		{
			name:  "duplicate suffix",
			yaml:  "namespaces:\n  - suffix: ou=a\n  - suffix: OU=A\n",
			field: "namespaces[1].suffix",
		},
		{
			name:  "referral without uris",
			yaml:  "namespaces:\n  - suffix: ou=a\nreferrals:\n  - suffix: ou=b\n",
			field: "referrals[0].uris",
		},
		{
			name:  "bad default policy",
			yaml:  "namespaces:\n  - suffix: ou=a\nacl:\n  defaultPolicy: maybe\n",
			field: "acl.defaultPolicy",
		},
		{
			name:  "rule without rights",
			yaml:  "namespaces:\n  - suffix: ou=a\nacl:\n  rules:\n    - subject: self\n",
			field: "acl.rules[0].rights",
		},
		{
			name:  "unknown right",
			yaml:  "namespaces:\n  - suffix: ou=a\nacl:\n  rules:\n    - rights: [execute]\n",
			field: "acl.rules[0].rights",
		},
		{
			name:  "bad metrics address",
			yaml:  "namespaces:\n  - suffix: ou=a\nserver:\n  metricsAddress: no-port\n",
			field: "server.metricsAddress",
		},
		{
			name:  "bad log format",
			yaml:  "namespaces:\n  - suffix: ou=a\nlogging:\n  format: xml\n",
			field: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			errs := Validate(cfg)
			require.NotEmpty(t, errs)
			found := false
			for _, err := range errs {
				var verr ValidationError
				if errors.As(err, &verr) && verr.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "no error for field %s in %v", tt.field, errs)
		})
	}
}

func TestBuildACL(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	e := cfg.BuildACL()
	assert.True(t, e.CheckAccess(&acl.AccessContext{
		BindDN:   "cn=admin,dc=example,dc=com",
		TargetDN: "uid=a,dc=example,dc=com",
		Right:    acl.RightWrite,
	}))
	assert.True(t, e.CheckAccess(&acl.AccessContext{
		BindDN:   "uid=a,dc=example,dc=com",
		TargetDN: "uid=a,dc=example,dc=com",
		Right:    acl.RightWrite,
	}))
	// Default policy is deny.
	assert.False(t, e.CheckAccess(&acl.AccessContext{
		BindDN:   "uid=b,dc=example,dc=com",
		TargetDN: "uid=a,dc=example,dc=com",
		Right:    acl.RightWrite,
	}))
}

func TestBuildSchema(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	r := cfg.BuildSchema()
	at, ok := r.Lookup("employeeNumber")
	require.True(t, ok)
	assert.True(t, at.SingleValue)
	assert.False(t, at.Immutable)

	// The built-ins are still present.
	_, ok = r.Lookup("cn")
	assert.True(t, ok)
}

func TestBuildReferrals(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	refs := cfg.BuildReferrals()
	require.Len(t, refs, 1)
	assert.Equal(t, "dc=other,dc=com", refs[0].Suffix)
}
