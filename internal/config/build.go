package config

import (
	"github.com/gleydsonsoares/openbsd-ldapd/internal/acl"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/namespace"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/schema"
)

// BuildACL converts the access-control configuration into an evaluator.
func (c *Config) BuildACL() *acl.Evaluator {
	rules := make([]acl.Rule, 0, len(c.ACL.Rules))
	for _, rc := range c.ACL.Rules {
		var rights acl.Right
		for _, right := range rc.Rights {
			switch right {
			case "read":
				rights |= acl.RightRead
			case "write":
				rights |= acl.RightWrite
			}
		}
		rules = append(rules, acl.Rule{
			Deny:          rc.Deny,
			Subject:       rc.Subject,
			Target:        rc.Target,
			TargetSubtree: rc.TargetSubtree,
			Rights:        rights,
		})
	}
	return acl.NewEvaluator(rules, c.ACL.DefaultPolicy == "allow")
}

// BuildSchema returns the default registry extended with the configured
// attribute types.
func (c *Config) BuildSchema() *schema.Registry {
	r := schema.DefaultRegistry()
	for _, at := range c.Schema.AttributeTypes {
		r.Register(&schema.AttributeType{
			Name:        at.Name,
			OID:         at.OID,
			SingleValue: at.SingleValue,
		})
	}
	return r
}

// BuildReferrals converts the referral configuration for the namespace
// manager.
func (c *Config) BuildReferrals() []namespace.Referral {
	refs := make([]namespace.Referral, 0, len(c.Referrals))
	for _, rc := range c.Referrals {
		refs = append(refs, namespace.Referral{
			Suffix: rc.Suffix,
			URIs:   rc.URIs,
		})
	}
	return refs
}
