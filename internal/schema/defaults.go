package schema

// Operational attribute names per RFC 4512 and RFC 4530. These are stamped
// by the server and immutable for clients.
const (
	AttrCreatorsName    = "creatorsname"
	AttrCreateTimestamp = "createtimestamp"
	AttrModifiersName   = "modifiersname"
	AttrModifyTimestamp = "modifytimestamp"
	AttrEntryUUID       = "entryuuid"
)

// DefaultRegistry builds a registry with the core user attribute types and
// the operational attributes. Deployments extend it from configuration.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	userTypes := []*AttributeType{
		{Name: "objectclass", OID: "2.5.4.0"},
		{Name: "cn", OID: "2.5.4.3"},
		{Name: "sn", OID: "2.5.4.4"},
		{Name: "c", OID: "2.5.4.6", SingleValue: true},
		{Name: "l", OID: "2.5.4.7"},
		{Name: "st", OID: "2.5.4.8"},
		{Name: "o", OID: "2.5.4.10"},
		{Name: "ou", OID: "2.5.4.11"},
		{Name: "title", OID: "2.5.4.12"},
		{Name: "description", OID: "2.5.4.13"},
		{Name: "member", OID: "2.5.4.31"},
		{Name: "givenname", OID: "2.5.4.42"},
		{Name: "dc", OID: "0.9.2342.19200300.100.1.25", SingleValue: true},
		{Name: "uid", OID: "0.9.2342.19200300.100.1.1"},
		{Name: "mail", OID: "0.9.2342.19200300.100.1.3"},
		{Name: "telephonenumber", OID: "2.5.4.20"},
		{Name: "userpassword", OID: "2.5.4.35"},
		{Name: "displayname", OID: "2.16.840.1.113730.3.1.241", SingleValue: true},
	}
	for _, at := range userTypes {
		r.Register(at)
	}

	operationalTypes := []*AttributeType{
		{Name: AttrCreatorsName, OID: "2.5.18.3", Immutable: true, SingleValue: true},
		{Name: AttrCreateTimestamp, OID: "2.5.18.1", Immutable: true, SingleValue: true},
		{Name: AttrModifiersName, OID: "2.5.18.4", Immutable: true, SingleValue: true},
		{Name: AttrModifyTimestamp, OID: "2.5.18.2", Immutable: true, SingleValue: true},
		{Name: AttrEntryUUID, OID: "1.3.6.1.1.16.4", Immutable: true, SingleValue: true},
	}
	for _, at := range operationalTypes {
		r.Register(at)
	}

	return r
}
