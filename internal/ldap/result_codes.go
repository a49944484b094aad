// Package ldap defines the protocol-level types shared by the write path:
// result codes, operation requests, and DN/timestamp conventions per
// RFC 4511 and RFC 4517.
package ldap

// ResultCode represents an LDAP result code as defined in RFC 4511
// Section 4.1.9. Only the codes the write path can produce are defined
// here; the numeric values are the protocol values.
type ResultCode int

// LDAP result codes per RFC 4511 Section 4.1.9.
const (
	// ResultSuccess indicates the operation completed successfully.
	ResultSuccess ResultCode = 0

	// ResultOperationsError indicates an error occurred during processing
	// that is not covered by another result code.
	ResultOperationsError ResultCode = 1

	// ResultProtocolError indicates the server received data that is not
	// well-formed or violates the protocol.
	ResultProtocolError ResultCode = 2

	// ResultReferral indicates the server is referring the client to
	// another server or set of servers.
	ResultReferral ResultCode = 10

	// ResultNoSuchAttribute indicates the named attribute does not exist,
	// either on the entry or in the server's attribute type registry.
	ResultNoSuchAttribute ResultCode = 16

	// ResultConstraintViolation indicates an attribute value constraint
	// was violated, such as writing an immutable attribute.
	ResultConstraintViolation ResultCode = 19

	// ResultNoSuchObject indicates the target entry does not exist.
	ResultNoSuchObject ResultCode = 32

	// ResultInvalidDNSyntax indicates the supplied DN is malformed.
	ResultInvalidDNSyntax ResultCode = 34

	// ResultInsufficientAccessRights indicates the bound identity is not
	// authorized to perform the operation.
	ResultInsufficientAccessRights ResultCode = 50

	// ResultBusy indicates the server cannot take the request right now;
	// the client may retry later.
	ResultBusy ResultCode = 51

	// ResultNamingViolation indicates the target DN is outside every
	// namespace served by this directory.
	ResultNamingViolation ResultCode = 64

	// ResultObjectClassViolation indicates the entry violates an object
	// class constraint, such as a missing objectClass attribute.
	ResultObjectClassViolation ResultCode = 65

	// ResultNotAllowedOnNonLeaf indicates the operation is only permitted
	// on leaf entries, such as deleting an entry that has children.
	ResultNotAllowedOnNonLeaf ResultCode = 66

	// ResultEntryAlreadyExists indicates an add targeted an existing DN.
	ResultEntryAlreadyExists ResultCode = 68

	// ResultOther indicates an internal failure not attributable to the
	// client request.
	ResultOther ResultCode = 80
)

// String returns the RFC 4511 name of the result code.
func (c ResultCode) String() string {
	switch c {
	case ResultSuccess:
		return "success"
	case ResultOperationsError:
		return "operationsError"
	case ResultProtocolError:
		return "protocolError"
	case ResultReferral:
		return "referral"
	case ResultNoSuchAttribute:
		return "noSuchAttribute"
	case ResultConstraintViolation:
		return "constraintViolation"
	case ResultNoSuchObject:
		return "noSuchObject"
	case ResultInvalidDNSyntax:
		return "invalidDNSyntax"
	case ResultInsufficientAccessRights:
		return "insufficientAccessRights"
	case ResultBusy:
		return "busy"
	case ResultNamingViolation:
		return "namingViolation"
	case ResultObjectClassViolation:
		return "objectClassViolation"
	case ResultNotAllowedOnNonLeaf:
		return "notAllowedOnNonLeaf"
	case ResultEntryAlreadyExists:
		return "entryAlreadyExists"
	case ResultOther:
		return "other"
	default:
		return "unknown"
	}
}
