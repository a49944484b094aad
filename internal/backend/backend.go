// Package backend implements the directory write path: the add, delete,
// and modify handlers, the attribute value algebra they share, and the
// operational attribute stamping, on top of the namespace transaction
// discipline.
package backend

import (
	"github.com/google/uuid"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/acl"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/logging"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/metrics"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/namespace"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/schema"
)

// Conn identifies the client connection a request arrived on. The write
// path only needs the bind identity.
type Conn struct {
	// BindDN is the normalized bind identity, empty when anonymous.
	BindDN string
}

// ResponseFunc receives the terminal result of one operation. It is
// invoked exactly once per request: immediately for requests that run to
// completion, or on replay for requests that were queued behind a busy
// namespace.
type ResponseFunc func(*ldap.Result)

// Config wires the backend's collaborators. All fields except Schema and
// Namespaces may be nil; nil ACL allows everything, nil Logger and
// Metrics are replaced with no-ops.
type Config struct {
	// Schema is the attribute type registry.
	Schema *schema.Registry
	// ACL is the access-control evaluator.
	ACL *acl.Evaluator
	// Namespaces routes DNs to partitions.
	Namespaces *namespace.Manager
	// Logger receives per-operation debug logging.
	Logger logging.Logger
	// Metrics receives write-path counters. The metrics set is owned by
	// the embedding process; the backend only increments.
	Metrics *metrics.Metrics
}

// Backend orchestrates the three write operations.
type Backend struct {
	schema     *schema.Registry
	acl        *acl.Evaluator
	namespaces *namespace.Manager
	log        logging.Logger
	metrics    *metrics.Metrics

	// Injection points for deterministic tests.
	now     func() string
	newUUID func() (string, error)
}

// New creates a Backend from the given configuration.
func New(cfg Config) *Backend {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Backend{
		schema:     cfg.Schema,
		acl:        cfg.ACL,
		namespaces: cfg.Namespaces,
		log:        log,
		metrics:    m,
		now:        ldap.Now,
		newUUID: func() (string, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
}

// reply delivers the terminal result for an operation and records it.
func (b *Backend) reply(op string, respond ResponseFunc, result *ldap.Result) {
	b.metrics.ObserveResult(op, result.ResultCode)
	if result.ResultCode != ldap.ResultSuccess || result.IsReferral() {
		b.log.Debug("write request failed", "op", op,
			"result", result.ResultCode.String())
	}
	if respond != nil {
		respond(result)
	}
}

// route resolves the target DN to a namespace. When no namespace owns the
// DN it answers for the caller: a referral result if one is configured,
// namingViolation otherwise. The returned namespace is nil iff the
// response was already delivered.
func (b *Backend) route(op, dn string, respond ResponseFunc) *namespace.Namespace {
	ns := b.namespaces.ForBase(dn)
	if ns != nil {
		return ns
	}
	if uris := b.namespaces.Referrals(dn); len(uris) > 0 {
		b.reply(op, respond, ldap.NewReferralResult(dn, uris))
		return nil
	}
	b.reply(op, respond, ldap.NewResult(ldap.ResultNamingViolation))
	return nil
}

// authorized checks write access for the connection on the target DN.
func (b *Backend) authorized(conn *Conn, ns *namespace.Namespace, dn string) bool {
	if b.acl == nil {
		return true
	}
	bindDN := ""
	if conn != nil {
		bindDN = conn.BindDN
	}
	return b.acl.CheckAccess(&acl.AccessContext{
		BindDN:   bindDN,
		TargetDN: dn,
		Suffix:   ns.Suffix(),
		Right:    acl.RightWrite,
		Scope:    acl.ScopeBase,
	})
}

// checkAttribute enforces the schema constraints shared by add pre-checks
// and modify directives: the attribute must resolve in the registry unless
// the namespace is relaxed, and must not be immutable.
func (b *Backend) checkAttribute(ns *namespace.Namespace, name string) ldap.ResultCode {
	at, ok := b.schema.Lookup(name)
	if !ok {
		if ns.Relax() {
			return ldap.ResultSuccess
		}
		b.log.Debug("unknown attribute type", "attribute", name)
		return ldap.ResultNoSuchAttribute
	}
	if at.Immutable {
		b.log.Debug("attempt to write immutable attribute", "attribute", name)
		return ldap.ResultConstraintViolation
	}
	return ldap.ResultSuccess
}

// begin opens the namespace write transaction, queueing the request for
// replay when the slot is busy. The returned transaction is nil when no
// further work should happen: either the request was queued (respond will
// fire on replay) or a busy/internal result was already delivered.
func (b *Backend) begin(op string, ns *namespace.Namespace, replay func(), respond ResponseFunc) *namespace.WriteTxn {
	txn, err := ns.Begin()
	if err == nil {
		return txn
	}
	if err == namespace.ErrBusy {
		if qerr := ns.Queue(replay); qerr != nil {
			b.reply(op, respond, ldap.NewResult(ldap.ResultBusy))
		}
		return nil
	}
	b.reply(op, respond, ldap.NewResult(ldap.ResultOther))
	return nil
}
