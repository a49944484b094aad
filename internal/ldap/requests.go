package ldap

import "errors"

// Request validation errors.
var (
	// ErrEmptyDN is returned when a request carries an empty DN.
	ErrEmptyDN = errors.New("ldap: empty DN")
	// ErrNoAttributes is returned when an add request carries no attributes.
	ErrNoAttributes = errors.New("ldap: no attributes")
)

// Attribute is one attribute description with its values as carried in an
// add request.
type Attribute struct {
	// Type is the attribute description (name).
	Type string
	// Values are the attribute values.
	Values []string
}

// AddRequest represents an LDAP Add request per RFC 4511 Section 4.7,
// already decoded from the wire by the transport layer.
type AddRequest struct {
	// DN is the distinguished name of the entry to create.
	DN string
	// Attributes is the attribute list of the new entry.
	Attributes []Attribute
}

// Validate checks the structural validity of the request.
func (r *AddRequest) Validate() error {
	if r == nil || r.DN == "" {
		return ErrEmptyDN
	}
	if len(r.Attributes) == 0 {
		return ErrNoAttributes
	}
	return nil
}

// DeleteRequest represents an LDAP Delete request per RFC 4511 Section 4.8.
type DeleteRequest struct {
	// DN is the distinguished name of the entry to remove.
	DN string
}

// Validate checks the structural validity of the request.
func (r *DeleteRequest) Validate() error {
	if r == nil || r.DN == "" {
		return ErrEmptyDN
	}
	return nil
}

// ModifyOp is the kind of one modify directive.
type ModifyOp int

// Modify operation kinds per RFC 4511 Section 4.6.
const (
	// ModAdd adds values to an attribute, creating it if absent.
	ModAdd ModifyOp = 0
	// ModDelete removes listed values from an attribute, or the whole
	// attribute when no values are listed.
	ModDelete ModifyOp = 1
	// ModReplace replaces all values of an attribute, removing it when no
	// values are listed.
	ModReplace ModifyOp = 2
)

// String returns the protocol name of the operation kind.
func (op ModifyOp) String() string {
	switch op {
	case ModAdd:
		return "add"
	case ModDelete:
		return "delete"
	case ModReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Modification is one (operation, attribute, values) directive drawn from a
// modify request. Directives are applied strictly in request order.
type Modification struct {
	// Op is the directive kind.
	Op ModifyOp
	// Attribute is the name of the attribute to modify.
	Attribute string
	// Values are the values to add, delete, or replace. May be empty for
	// delete (remove the attribute) and replace (remove if present).
	Values []string
}

// ModifyRequest represents an LDAP Modify request per RFC 4511 Section 4.6.
type ModifyRequest struct {
	// DN is the distinguished name of the entry to modify.
	DN string
	// Changes are the directives to apply, in order.
	Changes []Modification
}

// Validate checks the structural validity of the request. An empty change
// list is valid; the operation then only refreshes the modifier stamps.
func (r *ModifyRequest) Validate() error {
	if r == nil || r.DN == "" {
		return ErrEmptyDN
	}
	return nil
}
