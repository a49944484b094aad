package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/acl"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/namespace"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/schema"
)

func addReq(dn string, attrs ...ldap.Attribute) *ldap.AddRequest {
	return &ldap.AddRequest{
		DN: dn,
		Attributes: append([]ldap.Attribute{
			{Type: "objectClass", Values: []string{"person"}},
		}, attrs...),
	}
}

func TestAddStoresEntryWithOperationalAttributes(t *testing.T) {
	f := newFixture(t)
	f.backend.now = func() string { return "20260218103000Z" }
	f.backend.newUUID = func() (string, error) {
		return "8a2f0e9c-0000-4000-8000-000000000001", nil
	}

	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(&Conn{BindDN: "cn=admin,ou=people"},
			addReq("UID=A,OU=People", ldap.Attribute{Type: "cn", Values: []string{"Alice"}}),
			respond)
	})
	require.Equal(t, ldap.ResultSuccess, res.ResultCode)

	entry := f.stored(t, "uid=a,ou=people")
	require.NotNil(t, entry)
	assert.Equal(t, []string{"Alice"}, entry.Get("cn"))
	assert.Equal(t, []string{"person"}, entry.Get("objectclass"))
	assert.Equal(t, []string{"cn=admin,ou=people"}, entry.Get(schema.AttrCreatorsName))
	assert.Equal(t, []string{"20260218103000Z"}, entry.Get(schema.AttrCreateTimestamp))
	assert.Equal(t, []string{"8a2f0e9c-0000-4000-8000-000000000001"}, entry.Get(schema.AttrEntryUUID))
	// Creation does not set the modifier attributes.
	assert.Nil(t, entry.Get(schema.AttrModifiersName))
	assert.Nil(t, entry.Get(schema.AttrModifyTimestamp))
}

func TestAddAnonymousCreatorIsEmpty(t *testing.T) {
	f := newFixture(t)

	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, addReq("uid=a,ou=people"), respond)
	})
	require.Equal(t, ldap.ResultSuccess, res.ResultCode)

	entry := f.stored(t, "uid=a,ou=people")
	require.NotNil(t, entry)
	assert.Equal(t, []string{""}, entry.Get(schema.AttrCreatorsName))
	assert.Len(t, entry.Get(schema.AttrEntryUUID), 1)
}

func TestAddEmptyDN(t *testing.T) {
	f := newFixture(t)
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, addReq("   "), respond)
	})
	assert.Equal(t, ldap.ResultInvalidDNSyntax, res.ResultCode)
}

func TestAddNilRequest(t *testing.T) {
	f := newFixture(t)
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, nil, respond)
	})
	assert.Equal(t, ldap.ResultProtocolError, res.ResultCode)
}

func TestAddUnroutedDN(t *testing.T) {
	f := newFixture(t)
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, addReq("uid=a,ou=nowhere"), respond)
	})
	assert.Equal(t, ldap.ResultNamingViolation, res.ResultCode)
}

func TestAddUnroutedDNWithReferral(t *testing.T) {
	f := newFixture(t, withReferrals([]namespace.Referral{
		{Suffix: "ou=elsewhere", URIs: []string{"ldap://other.example"}},
	}))
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, addReq("uid=a,ou=elsewhere"), respond)
	})
	require.True(t, res.IsReferral())
	assert.Equal(t, "uid=a,ou=elsewhere", res.MatchedDN)
	assert.Equal(t, []string{"ldap://other.example"}, res.Referral)
}

func TestAddInsufficientAccess(t *testing.T) {
	f := newFixture(t, withACL(acl.NewEvaluator(nil, false)))
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(&Conn{BindDN: "cn=nobody"}, addReq("uid=a,ou=people"), respond)
	})
	assert.Equal(t, ldap.ResultInsufficientAccessRights, res.ResultCode)
	assert.Nil(t, f.stored(t, "uid=a,ou=people"))
}

func TestAddUnknownAttribute(t *testing.T) {
	f := newFixture(t)
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil,
			addReq("uid=a,ou=people", ldap.Attribute{Type: "frobnicate", Values: []string{"x"}}),
			respond)
	})
	assert.Equal(t, ldap.ResultNoSuchAttribute, res.ResultCode)
	assert.Nil(t, f.stored(t, "uid=a,ou=people"))
}

func TestAddUnknownAttributeRelaxed(t *testing.T) {
	f := newFixture(t, withRelax())
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil,
			addReq("uid=a,ou=people", ldap.Attribute{Type: "frobnicate", Values: []string{"x"}}),
			respond)
	})
	require.Equal(t, ldap.ResultSuccess, res.ResultCode)
	entry := f.stored(t, "uid=a,ou=people")
	require.NotNil(t, entry)
	assert.Equal(t, []string{"x"}, entry.Get("frobnicate"))
}

func TestAddImmutableAttribute(t *testing.T) {
	f := newFixture(t)
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil,
			addReq("uid=a,ou=people", ldap.Attribute{Type: "entryUUID", Values: []string{"fake"}}),
			respond)
	})
	assert.Equal(t, ldap.ResultConstraintViolation, res.ResultCode)
}

func TestAddMissingObjectClass(t *testing.T) {
	f := newFixture(t)
	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, &ldap.AddRequest{
			DN:         "uid=a,ou=people",
			Attributes: []ldap.Attribute{{Type: "cn", Values: []string{"Alice"}}},
		}, respond)
	})
	assert.Equal(t, ldap.ResultObjectClassViolation, res.ResultCode)
}

func TestAddExistingEntry(t *testing.T) {
	f := newFixture(t)
	f.addPerson(t, "uid=a,ou=people")

	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, addReq("uid=a,ou=people"), respond)
	})
	assert.Equal(t, ldap.ResultEntryAlreadyExists, res.ResultCode)
}

func TestAddStampingFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.backend.newUUID = func() (string, error) {
		return "", errors.New("entropy exhausted")
	}

	res := await(t, func(respond ResponseFunc) {
		f.backend.Add(nil, addReq("uid=a,ou=people"), respond)
	})
	assert.Equal(t, ldap.ResultOther, res.ResultCode)
	assert.Nil(t, f.stored(t, "uid=a,ou=people"))

	// The slot must be free again after the abort.
	txn, err := f.ns.Begin()
	require.NoError(t, err)
	txn.Abort()
}
