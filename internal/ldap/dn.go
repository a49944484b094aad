package ldap

import "strings"

// NormalizeDN normalizes a distinguished name for storage and comparison.
// Normalization is lowercase plus whitespace trimming around the DN and
// around each RDN component, so that "UID=A, OU=People" and
// "uid=a,ou=people" resolve to the same key.
func NormalizeDN(dn string) string {
	dn = strings.TrimSpace(dn)
	if dn == "" {
		return ""
	}
	parts := strings.Split(dn, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, ",")
}

// IsDescendant reports whether dn names an entry under ancestor, i.e.
// whether ancestor is a proper trailing suffix of dn on an RDN boundary.
// Both DNs must already be normalized. A DN is not its own descendant.
func IsDescendant(dn, ancestor string) bool {
	if len(dn) <= len(ancestor) {
		return false
	}
	if !strings.HasSuffix(dn, ancestor) {
		return false
	}
	return dn[len(dn)-len(ancestor)-1] == ','
}

// ParentDN returns the immediate parent of a normalized DN, or an empty
// string for a single-RDN DN.
func ParentDN(dn string) string {
	if i := strings.IndexByte(dn, ','); i >= 0 {
		return dn[i+1:]
	}
	return ""
}
