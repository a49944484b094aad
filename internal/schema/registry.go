// Package schema provides the attribute-type registry and entry validation
// consulted by the write path. Attribute types carry the constraints the
// handlers enforce: immutability and single-valuedness.
package schema

import "strings"

// AttributeType describes one attribute type known to the directory.
type AttributeType struct {
	// Name is the attribute description, stored lowercase.
	Name string
	// OID is the attribute type OID, informational here.
	OID string
	// Immutable marks attributes clients may never write directly, such
	// as the operational attributes the server stamps itself.
	Immutable bool
	// SingleValue restricts the attribute to at most one value.
	SingleValue bool
}

// Registry holds the attribute types known to the server. A Registry is
// built once at startup and treated as read-only afterwards, so it is safe
// to share across handlers without locking.
type Registry struct {
	types map[string]*AttributeType
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*AttributeType)}
}

// Register adds an attribute type to the registry. The name is normalized
// to lowercase; a later registration with the same name wins.
func (r *Registry) Register(at *AttributeType) {
	if at == nil || at.Name == "" {
		return
	}
	name := strings.ToLower(at.Name)
	cp := *at
	cp.Name = name
	r.types[name] = &cp
}

// Lookup resolves an attribute name to its type. The lookup is
// case-insensitive. The second return value is false when the attribute is
// not defined in the registry.
func (r *Registry) Lookup(name string) (*AttributeType, bool) {
	at, ok := r.types[strings.ToLower(name)]
	return at, ok
}

// Len returns the number of registered attribute types.
func (r *Registry) Len() int {
	return len(r.types)
}
