package backend

import (
	"errors"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/schema"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/storage"
)

// Modify applies a sequence of directives to an existing entry. The
// terminal result is delivered through respond, exactly once, possibly
// after a replay if the target namespace was busy. The first failing
// directive aborts the whole operation; nothing of the earlier directives
// survives the rollback.
func (b *Backend) Modify(conn *Conn, req *ldap.ModifyRequest, respond ResponseFunc) {
	b.metrics.WriteRequests.WithLabelValues("modify").Inc()

	if req == nil {
		b.reply("modify", respond, ldap.NewResult(ldap.ResultProtocolError))
		return
	}
	dn := ldap.NormalizeDN(req.DN)
	b.log.Debug("modifying entry", "dn", dn)

	if dn == "" {
		b.reply("modify", respond, ldap.NewResult(ldap.ResultInvalidDNSyntax))
		return
	}
	ns := b.route("modify", dn, respond)
	if ns == nil {
		return
	}
	if !b.authorized(conn, ns, dn) {
		b.reply("modify", respond, ldap.NewResult(ldap.ResultInsufficientAccessRights))
		return
	}

	txn := b.begin("modify", ns, func() { b.Modify(conn, req, respond) }, respond)
	if txn == nil {
		return
	}
	defer txn.Abort()

	raw, err := txn.Get(dn)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.reply("modify", respond, ldap.NewResult(ldap.ResultNoSuchObject))
		} else {
			b.reply("modify", respond, ldap.NewResult(ldap.ResultOther))
		}
		return
	}
	entry, err := decodeEntry(dn, raw)
	if err != nil {
		b.reply("modify", respond, ldap.NewResult(ldap.ResultOther))
		return
	}

	// Directives apply strictly in request order; each observes the
	// entry state the previous one produced.
	for _, mod := range req.Changes {
		if rc := b.checkAttribute(ns, mod.Attribute); rc != ldap.ResultSuccess {
			b.reply("modify", respond, ldap.NewResult(rc))
			return
		}
		entry.Apply(mod)
	}

	if rc := schema.ValidateEntry(b.schema, dn, entry.Attributes, ns.Relax()); rc != ldap.ResultSuccess {
		b.reply("modify", respond, ldap.NewResult(rc))
		return
	}
	b.stampModify(entry, conn)

	value, err := encodeEntry(entry)
	if err != nil {
		b.reply("modify", respond, ldap.NewResult(ldap.ResultOther))
		return
	}
	if err := txn.Put(dn, value, true); err != nil {
		b.reply("modify", respond, ldap.NewResult(ldap.ResultOther))
		return
	}
	if err := txn.Commit(); err != nil {
		b.reply("modify", respond, ldap.NewResult(ldap.ResultOther))
		return
	}
	b.reply("modify", respond, ldap.NewResult(ldap.ResultSuccess))
}
