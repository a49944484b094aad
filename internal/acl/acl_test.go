package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeCtx(bindDN, targetDN string) *AccessContext {
	return &AccessContext{
		BindDN:   bindDN,
		TargetDN: targetDN,
		Suffix:   "ou=people",
		Right:    RightWrite,
		Scope:    ScopeBase,
	}
}

func TestCheckAccessDefaultPolicy(t *testing.T) {
	allow := NewEvaluator(nil, true)
	deny := NewEvaluator(nil, false)

	ctx := writeCtx("cn=admin", "uid=a,ou=people")
	assert.True(t, allow.CheckAccess(ctx))
	assert.False(t, deny.CheckAccess(ctx))
	assert.True(t, allow.CheckAccess(nil))
}

func TestCheckAccessFirstMatchWins(t *testing.T) {
	e := NewEvaluator([]Rule{
		{Deny: true, Subject: "", Target: "ou=secret,ou=people", TargetSubtree: true, Rights: RightWrite},
		{Subject: "cn=admin", Rights: RightWrite},
	}, false)

	assert.False(t, e.CheckAccess(writeCtx("cn=admin", "uid=x,ou=secret,ou=people")))
	assert.True(t, e.CheckAccess(writeCtx("cn=admin", "uid=a,ou=people")))
	assert.False(t, e.CheckAccess(writeCtx("cn=nobody", "uid=a,ou=people")))
}

func TestCheckAccessSelfSubject(t *testing.T) {
	e := NewEvaluator([]Rule{
		{Subject: "self", Rights: RightWrite},
	}, false)

	assert.True(t, e.CheckAccess(writeCtx("uid=a,ou=people", "uid=a,ou=people")))
	assert.False(t, e.CheckAccess(writeCtx("uid=b,ou=people", "uid=a,ou=people")))
	// Anonymous never matches self.
	assert.False(t, e.CheckAccess(writeCtx("", "uid=a,ou=people")))
}

func TestCheckAccessRightsFiltering(t *testing.T) {
	e := NewEvaluator([]Rule{
		{Subject: "", Rights: RightRead},
	}, false)

	// A read-only rule does not grant writes.
	assert.False(t, e.CheckAccess(writeCtx("cn=reader", "uid=a,ou=people")))
}

func TestCheckAccessTargetScoping(t *testing.T) {
	e := NewEvaluator([]Rule{
		{Subject: "", Target: "ou=people", Rights: RightWrite},
	}, false)

	// Without TargetSubtree only the exact DN matches.
	assert.True(t, e.CheckAccess(writeCtx("cn=admin", "ou=people")))
	assert.False(t, e.CheckAccess(writeCtx("cn=admin", "uid=a,ou=people")))
}
