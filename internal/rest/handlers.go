// Package rest exposes the write path over a JSON HTTP API for trusted
// frontends and tooling. The caller's bind identity is taken from the
// X-Bind-DN header; authentication happens in front of this API.
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/backend"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/logging"
)

// bindDNHeader carries the authenticated bind identity of the caller.
const bindDNHeader = "X-Bind-DN"

// defaultWriteTimeout bounds how long a request may sit in a busy
// namespace's retry queue before the HTTP caller gets a busy answer.
const defaultWriteTimeout = 30 * time.Second

// Handlers contains the write API handlers.
type Handlers struct {
	backend *backend.Backend
	logger  logging.Logger
	timeout time.Duration
}

// NewHandlers creates handlers over the given backend.
func NewHandlers(b *backend.Backend, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		backend: b,
		logger:  logger,
		timeout: defaultWriteTimeout,
	}
}

// conn builds the request's connection identity from its headers.
func conn(r *http.Request) *backend.Conn {
	return &backend.Conn{BindDN: ldap.NormalizeDN(r.Header.Get(bindDNHeader))}
}

// collect runs a write operation and waits for its terminal result, which
// may arrive on another goroutine after a busy-queue replay.
func (h *Handlers) collect(w http.ResponseWriter, op func(backend.ResponseFunc)) {
	ch := make(chan *ldap.Result, 1)
	op(func(res *ldap.Result) { ch <- res })
	select {
	case res := <-ch:
		writeResult(w, res)
	case <-time.After(h.timeout):
		writeResult(w, ldap.NewResult(ldap.ResultBusy))
	}
}

// HandleAdd handles POST /api/v1/entries.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	attrs := make([]ldap.Attribute, 0, len(req.Attributes))
	for name, values := range req.Attributes {
		attrs = append(attrs, ldap.Attribute{Type: name, Values: values})
	}
	h.collect(w, func(respond backend.ResponseFunc) {
		h.backend.Add(conn(r), &ldap.AddRequest{DN: req.DN, Attributes: attrs}, respond)
	})
}

// HandleDelete handles DELETE /api/v1/entries/{dn}. The DN arrives
// percent-decoded from the path segment.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	dn := r.PathValue("dn")
	h.collect(w, func(respond backend.ResponseFunc) {
		h.backend.Delete(conn(r), &ldap.DeleteRequest{DN: dn}, respond)
	})
}

// HandleModify handles PATCH /api/v1/entries/{dn}.
func (h *Handlers) HandleModify(w http.ResponseWriter, r *http.Request) {
	dn := r.PathValue("dn")

	var req ModifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	changes := make([]ldap.Modification, 0, len(req.Changes))
	for _, change := range req.Changes {
		var op ldap.ModifyOp
		switch change.Operation {
		case "add":
			op = ldap.ModAdd
		case "delete":
			op = ldap.ModDelete
		case "replace":
			op = ldap.ModReplace
		default:
			writeError(w, http.StatusBadRequest, "invalid_operation",
				"operation must be add, delete or replace")
			return
		}
		changes = append(changes, ldap.Modification{
			Op:        op,
			Attribute: change.Attribute,
			Values:    change.Values,
		})
	}
	h.collect(w, func(respond backend.ResponseFunc) {
		h.backend.Modify(conn(r), &ldap.ModifyRequest{DN: dn, Changes: changes}, respond)
	})
}
