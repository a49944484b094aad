package schema

import (
	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
)

// ValidateEntry checks a complete entry against the registry and returns
// the result code the operation should fail with, or ldap.ResultSuccess.
//
// Checks, in order per attribute:
//   - empty value set: protocolError (value sets may be empty only
//     transiently while directives are applied, never at validation time)
//   - unknown attribute: noSuchAttribute, unless the namespace is relaxed,
//     in which case the attribute passes through untyped
//   - single-value attribute with more than one value: constraintViolation
//
// Immutability is deliberately not checked here: the handlers reject
// immutable attributes on the client-supplied input, while the server's
// own stamping writes them freely.
func ValidateEntry(r *Registry, dn string, attrs map[string][]string, relaxed bool) ldap.ResultCode {
	for name, values := range attrs {
		if len(values) == 0 {
			return ldap.ResultProtocolError
		}
		at, ok := r.Lookup(name)
		if !ok {
			if relaxed {
				continue
			}
			return ldap.ResultNoSuchAttribute
		}
		if at.SingleValue && len(values) > 1 {
			return ldap.ResultConstraintViolation
		}
	}
	return ldap.ResultSuccess
}
