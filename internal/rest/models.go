package rest

// AddRequest represents an add request.
type AddRequest struct {
	DN         string              `json:"dn"`
	Attributes map[string][]string `json:"attributes"`
}

// ModifyRequest represents a modify request. Changes apply in order.
type ModifyRequest struct {
	Changes []ModifyChange `json:"changes"`
}

// ModifyChange represents a single modification directive.
type ModifyChange struct {
	Operation string   `json:"operation"`
	Attribute string   `json:"attribute"`
	Values    []string `json:"values,omitempty"`
}

// WriteResponse represents the outcome of a write operation.
type WriteResponse struct {
	ResultCode int      `json:"resultCode"`
	Result     string   `json:"result"`
	MatchedDN  string   `json:"matchedDN,omitempty"`
	Message    string   `json:"message,omitempty"`
	Referral   []string `json:"referral,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}
