package backend

import (
	"errors"
	"strings"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/storage"
)

// Delete removes a leaf entry. The terminal result is delivered through
// respond, exactly once, possibly after a replay if the target namespace
// was busy.
func (b *Backend) Delete(conn *Conn, req *ldap.DeleteRequest, respond ResponseFunc) {
	b.metrics.WriteRequests.WithLabelValues("delete").Inc()

	if req == nil {
		b.reply("delete", respond, ldap.NewResult(ldap.ResultProtocolError))
		return
	}
	dn := ldap.NormalizeDN(req.DN)
	b.log.Debug("deleting entry", "dn", dn)

	ns := b.route("delete", dn, respond)
	if ns == nil {
		return
	}
	if !b.authorized(conn, ns, dn) {
		b.reply("delete", respond, ldap.NewResult(ldap.ResultInsufficientAccessRights))
		return
	}

	txn := b.begin("delete", ns, func() { b.Delete(conn, req, respond) }, respond)
	if txn == nil {
		return
	}
	defer txn.Abort()

	// Leaf check: position a cursor at the DN we are about to delete.
	// If the next key in sorted order has the DN as suffix, the entry
	// has a child and cannot be deleted. One forward probe suffices
	// because all descendants sort immediately after their ancestor.
	// The suffix test must be the plain one: every key carrying the DN
	// as a trailing suffix clusters behind it under the reversed-byte
	// ordering, comma boundary or not, and a boundary-restricted test
	// would let the probe land on a non-comma carrier and miss a real
	// child right behind it.
	cursor := txn.Cursor()
	if !cursor.Seek(dn) {
		b.reply("delete", respond, ldap.NewResult(ldap.ResultNoSuchObject))
		return
	}
	if next, ok := cursor.Next(); ok && strings.HasSuffix(next, dn) {
		b.reply("delete", respond, ldap.NewResult(ldap.ResultNotAllowedOnNonLeaf))
		return
	}

	if err := txn.Delete(dn); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.reply("delete", respond, ldap.NewResult(ldap.ResultNoSuchObject))
		} else {
			b.reply("delete", respond, ldap.NewResult(ldap.ResultOther))
		}
		return
	}
	if err := txn.Commit(); err != nil {
		b.reply("delete", respond, ldap.NewResult(ldap.ResultOther))
		return
	}
	b.reply("delete", respond, ldap.NewResult(ldap.ResultSuccess))
}
