package backend

import (
	"github.com/gleydsonsoares/openbsd-ldapd/internal/schema"
)

// stampAdd injects the creation-time operational attributes into a new
// entry: the creator's bind identity (empty when anonymous), the creation
// timestamp, and a freshly generated entryUUID. Runs before schema
// validation; a failed injection fails the whole add as an internal error.
func (b *Backend) stampAdd(e *Entry, conn *Conn) error {
	bindDN := ""
	if conn != nil {
		bindDN = conn.BindDN
	}
	e.Set(schema.AttrCreatorsName, bindDN)
	e.Set(schema.AttrCreateTimestamp, b.now())

	id, err := b.newUUID()
	if err != nil {
		return err
	}
	e.Set(schema.AttrEntryUUID, id)
	return nil
}

// stampModify overwrites the modifier operational attributes with the
// current requester and time. Overwrite, not merge: any prior values are
// discarded regardless of how many there were.
func (b *Backend) stampModify(e *Entry, conn *Conn) {
	bindDN := ""
	if conn != nil {
		bindDN = conn.BindDN
	}
	e.Set(schema.AttrModifiersName, bindDN)
	e.Set(schema.AttrModifyTimestamp, b.now())
}
