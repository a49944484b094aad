package backend

import (
	"errors"
	"strings"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/schema"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/storage"
)

// Add creates a new entry. The terminal result is delivered through
// respond, exactly once, possibly after a replay if the target namespace
// was busy.
func (b *Backend) Add(conn *Conn, req *ldap.AddRequest, respond ResponseFunc) {
	b.metrics.WriteRequests.WithLabelValues("add").Inc()

	if req == nil {
		b.reply("add", respond, ldap.NewResult(ldap.ResultProtocolError))
		return
	}
	dn := ldap.NormalizeDN(req.DN)
	b.log.Debug("adding entry", "dn", dn)

	if dn == "" {
		b.reply("add", respond, ldap.NewResult(ldap.ResultInvalidDNSyntax))
		return
	}
	ns := b.route("add", dn, respond)
	if ns == nil {
		return
	}
	if !b.authorized(conn, ns, dn) {
		b.reply("add", respond, ldap.NewResult(ldap.ResultInsufficientAccessRights))
		return
	}

	// Cheap pre-checks before taking the write slot: the incoming
	// attributes must resolve in the schema and must not be immutable,
	// and the entry needs an objectClass.
	for _, attr := range req.Attributes {
		if rc := b.checkAttribute(ns, attr.Type); rc != ldap.ResultSuccess {
			b.reply("add", respond, ldap.NewResult(rc))
			return
		}
	}
	if !hasObjectClass(req) {
		b.reply("add", respond, ldap.NewResult(ldap.ResultObjectClassViolation))
		return
	}

	txn := b.begin("add", ns, func() { b.Add(conn, req, respond) }, respond)
	if txn == nil {
		return
	}
	defer txn.Abort()

	entry := entryFromRequest(dn, req)
	if err := b.stampAdd(entry, conn); err != nil {
		b.reply("add", respond, ldap.NewResult(ldap.ResultOther))
		return
	}
	if rc := schema.ValidateEntry(b.schema, dn, entry.Attributes, ns.Relax()); rc != ldap.ResultSuccess {
		b.reply("add", respond, ldap.NewResult(rc))
		return
	}

	value, err := encodeEntry(entry)
	if err != nil {
		b.reply("add", respond, ldap.NewResult(ldap.ResultOther))
		return
	}
	if err := txn.Put(dn, value, false); err != nil {
		if errors.Is(err, storage.ErrExists) {
			b.reply("add", respond, ldap.NewResult(ldap.ResultEntryAlreadyExists))
		} else {
			b.reply("add", respond, ldap.NewResult(ldap.ResultOther))
		}
		return
	}
	if err := txn.Commit(); err != nil {
		b.reply("add", respond, ldap.NewResult(ldap.ResultOther))
		return
	}
	b.reply("add", respond, ldap.NewResult(ldap.ResultSuccess))
}

// hasObjectClass reports whether the request carries an objectClass
// attribute with at least one value.
func hasObjectClass(req *ldap.AddRequest) bool {
	for _, attr := range req.Attributes {
		if strings.EqualFold(attr.Type, "objectclass") {
			return len(attr.Values) > 0
		}
	}
	return false
}
