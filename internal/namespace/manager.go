package namespace

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
)

// Referral points requests for an unserved part of the DN space at other
// servers. An empty suffix matches any DN and acts as the default
// referral.
type Referral struct {
	// Suffix is the normalized DN suffix the referral covers.
	Suffix string
	// URIs are the LDAP URLs of the servers owning that subtree.
	URIs []string
}

// Manager routes DNs to namespaces and, for DNs outside every namespace,
// to configured referrals.
type Manager struct {
	namespaces *xsync.MapOf[string, *Namespace]
	referrals  []Referral
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		namespaces: xsync.NewMapOf[string, *Namespace](),
	}
}

// Add registers a namespace. A namespace registered later under the same
// suffix replaces the earlier one.
func (m *Manager) Add(ns *Namespace) {
	m.namespaces.Store(ns.Suffix(), ns)
}

// SetReferrals installs the referral table consulted for unrouted DNs.
func (m *Manager) SetReferrals(refs []Referral) {
	m.referrals = refs
}

// ForBase resolves a normalized DN to the namespace owning it: the
// registered namespace with the longest suffix equal to the DN or an
// ancestor of it. Returns nil when no namespace matches.
func (m *Manager) ForBase(dn string) *Namespace {
	var best *Namespace
	m.namespaces.Range(func(suffix string, ns *Namespace) bool {
		if dn != suffix && !ldap.IsDescendant(dn, suffix) {
			return true
		}
		if best == nil || len(suffix) > len(best.Suffix()) {
			best = ns
		}
		return true
	})
	return best
}

// Referrals returns the referral URIs for a DN no namespace owns, or nil.
// Only consulted after ForBase came up empty.
func (m *Manager) Referrals(dn string) []string {
	var (
		uris []string
		best = -1
	)
	for i := range m.referrals {
		suffix := m.referrals[i].Suffix
		if suffix != "" && dn != suffix && !ldap.IsDescendant(dn, suffix) {
			continue
		}
		if len(suffix) > best {
			best = len(suffix)
			uris = m.referrals[i].URIs
		}
	}
	return uris
}

// Each calls fn for every registered namespace.
func (m *Manager) Each(fn func(*Namespace)) {
	m.namespaces.Range(func(_ string, ns *Namespace) bool {
		fn(ns)
		return true
	})
}
