package ldap

// Result represents the common result structure delivered for every write
// operation. Per RFC 4511 Section 4.1.9:
//
//	LDAPResult ::= SEQUENCE {
//	    resultCode         ENUMERATED { ... },
//	    matchedDN          LDAPDN,
//	    diagnosticMessage  LDAPString,
//	    referral           [3] Referral OPTIONAL
//	}
//
// Wire encoding is a transport concern and happens outside this module;
// Result is the sole externally observable outcome of a handler.
type Result struct {
	// ResultCode indicates the outcome of the operation.
	ResultCode ResultCode
	// MatchedDN contains the DN of the last entry matched during processing.
	MatchedDN string
	// DiagnosticMessage contains additional diagnostic information.
	DiagnosticMessage string
	// Referral contains URIs to other servers (optional). When set, the
	// operation was not performed here and the client should follow the
	// referral instead.
	Referral []string
}

// NewResult creates a Result carrying just a result code.
func NewResult(code ResultCode) *Result {
	return &Result{ResultCode: code}
}

// NewReferralResult creates a referral Result for the given target DN.
func NewReferralResult(dn string, uris []string) *Result {
	return &Result{
		ResultCode: ResultReferral,
		MatchedDN:  dn,
		Referral:   uris,
	}
}

// IsReferral reports whether the result carries a referral instead of a
// terminal result code.
func (r *Result) IsReferral() bool {
	return len(r.Referral) > 0
}
