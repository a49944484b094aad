package backend

import (
	"encoding/json"
	"strings"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
)

// Entry is the write path's owned, mutable representation of a directory
// entry: distinct lowercase attribute names, each mapped to an ordered
// value set. Every handler works on its own Entry rebuilt from storage,
// never on shared structures.
type Entry struct {
	// DN is the normalized distinguished name.
	DN string
	// Attributes maps lowercase attribute names to their values.
	Attributes map[string][]string
}

// NewEntry creates an empty Entry with the given normalized DN.
func NewEntry(dn string) *Entry {
	return &Entry{
		DN:         dn,
		Attributes: make(map[string][]string),
	}
}

// Get returns the values of the named attribute, nil when absent.
func (e *Entry) Get(name string) []string {
	return e.Attributes[normalizeAttr(name)]
}

// Set overwrites the named attribute with exactly the given values.
func (e *Entry) Set(name string, values ...string) {
	e.Attributes[normalizeAttr(name)] = values
}

// Remove deletes the named attribute entirely. Removing an absent
// attribute is a no-op.
func (e *Entry) Remove(name string) {
	delete(e.Attributes, normalizeAttr(name))
}

// Merge adds values to the named attribute with deduplication: values
// already present are skipped, so adding an existing value is a no-op.
// The attribute is created when absent.
func (e *Entry) Merge(name string, values []string) {
	name = normalizeAttr(name)
	existing := e.Attributes[name]
	merged := make([]string, len(existing), len(existing)+len(values))
	copy(merged, existing)
	for _, v := range values {
		if !contains(merged, v) {
			merged = append(merged, v)
		}
	}
	e.Attributes[name] = merged
}

// RemoveValues removes only the listed values from the named attribute.
// Values not present are tolerated. An attribute left with no values is
// removed entirely.
func (e *Entry) RemoveValues(name string, values []string) {
	name = normalizeAttr(name)
	existing, ok := e.Attributes[name]
	if !ok {
		return
	}
	kept := existing[:0:0]
	for _, v := range existing {
		if !contains(values, v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(e.Attributes, name)
		return
	}
	e.Attributes[name] = kept
}

// Apply applies one modify directive to the entry. Directives are applied
// strictly in request order; each observes the state left by the previous
// one. Schema checks happen before Apply, never inside it.
//
// DELETE with explicit values on an attribute that does not exist is
// treated as a no-op, like deleting values that are not present.
func (e *Entry) Apply(mod ldap.Modification) {
	switch mod.Op {
	case ldap.ModAdd:
		e.Merge(mod.Attribute, mod.Values)
	case ldap.ModDelete:
		if len(mod.Values) == 0 {
			e.Remove(mod.Attribute)
		} else {
			e.RemoveValues(mod.Attribute, mod.Values)
		}
	case ldap.ModReplace:
		e.Remove(mod.Attribute)
		if len(mod.Values) > 0 {
			// Through Merge so replacement values dedup like added ones.
			e.Merge(mod.Attribute, mod.Values)
		}
	}
}

// Clone creates a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	clone := &Entry{
		DN:         e.DN,
		Attributes: make(map[string][]string, len(e.Attributes)),
	}
	for name, values := range e.Attributes {
		vs := make([]string, len(values))
		copy(vs, values)
		clone.Attributes[name] = vs
	}
	return clone
}

// entryFromRequest builds an Entry from an add request. Attributes that
// repeat in the request merge with deduplication.
func entryFromRequest(dn string, req *ldap.AddRequest) *Entry {
	e := NewEntry(dn)
	for _, attr := range req.Attributes {
		e.Merge(attr.Type, attr.Values)
	}
	return e
}

// encodeEntry serializes an entry's attributes for storage under its DN
// key.
func encodeEntry(e *Entry) ([]byte, error) {
	return json.Marshal(e.Attributes)
}

// decodeEntry rebuilds an entry from its stored form.
func decodeEntry(dn string, data []byte) (*Entry, error) {
	e := NewEntry(dn)
	if err := json.Unmarshal(data, &e.Attributes); err != nil {
		return nil, err
	}
	return e, nil
}

// normalizeAttr normalizes an attribute description for map lookup.
func normalizeAttr(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
