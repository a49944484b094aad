package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
)

// Directory result code to HTTP status code mapping.
var ldapToHTTPStatus = map[ldap.ResultCode]int{
	ldap.ResultSuccess:                  http.StatusOK,
	ldap.ResultOperationsError:          http.StatusInternalServerError,
	ldap.ResultProtocolError:            http.StatusBadRequest,
	ldap.ResultNoSuchAttribute:          http.StatusBadRequest,
	ldap.ResultConstraintViolation:      http.StatusBadRequest,
	ldap.ResultNoSuchObject:             http.StatusNotFound,
	ldap.ResultInvalidDNSyntax:          http.StatusBadRequest,
	ldap.ResultInsufficientAccessRights: http.StatusForbidden,
	ldap.ResultBusy:                     http.StatusServiceUnavailable,
	ldap.ResultNamingViolation:          http.StatusBadRequest,
	ldap.ResultObjectClassViolation:     http.StatusBadRequest,
	ldap.ResultNotAllowedOnNonLeaf:      http.StatusConflict,
	ldap.ResultEntryAlreadyExists:       http.StatusConflict,
	ldap.ResultOther:                    http.StatusInternalServerError,
}

// mapResultCode maps a directory result code to an HTTP status.
func mapResultCode(code ldap.ResultCode) int {
	if status, ok := ldapToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Code:    status,
		Message: message,
	})
}

// writeResult renders a terminal directory result.
func writeResult(w http.ResponseWriter, res *ldap.Result) {
	status := mapResultCode(res.ResultCode)
	if res.IsReferral() {
		status = http.StatusMisdirectedRequest
	}
	writeJSON(w, status, WriteResponse{
		ResultCode: int(res.ResultCode),
		Result:     res.ResultCode.String(),
		MatchedDN:  res.MatchedDN,
		Message:    res.DiagnosticMessage,
		Referral:   res.Referral,
	})
}
