// Package acl provides access-control evaluation for directory operations.
// Rules are evaluated first-match-wins; when no rule matches, the
// configured default policy applies.
package acl

import (
	"strings"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/ldap"
)

// Right is one access right a rule can grant or deny.
type Right int

// Access rights.
const (
	// RightRead covers read-only operations.
	RightRead Right = 1 << iota
	// RightWrite covers add, delete, and modify.
	RightWrite
)

// Scope is the DN scope an access decision applies to.
type Scope int

// Access scopes.
const (
	// ScopeBase targets exactly the named entry.
	ScopeBase Scope = iota
	// ScopeSubtree targets the named entry and all descendants.
	ScopeSubtree
)

// AccessContext carries everything the evaluator needs for one decision.
type AccessContext struct {
	// BindDN is the normalized bind identity, empty when anonymous.
	BindDN string
	// TargetDN is the normalized DN of the entry being operated on.
	TargetDN string
	// Suffix is the namespace suffix owning the target.
	Suffix string
	// Right is the access right required by the operation.
	Right Right
	// Scope is the scope of the operation.
	Scope Scope
}

// Rule is one access-control rule.
type Rule struct {
	// Deny inverts the rule into a rejection.
	Deny bool
	// Subject is the bind DN the rule applies to. The empty string
	// matches any subject, "self" matches a subject operating on its
	// own entry.
	Subject string
	// Target restricts the rule to one DN and, with TargetSubtree, its
	// descendants. Empty matches every target.
	Target string
	// TargetSubtree extends Target to the whole subtree below it.
	TargetSubtree bool
	// Rights is the set of rights the rule grants or denies.
	Rights Right
}

// matches reports whether the rule applies to the given context.
func (r *Rule) matches(ctx *AccessContext) bool {
	if r.Rights&ctx.Right == 0 {
		return false
	}
	switch {
	case r.Subject == "":
	case strings.EqualFold(r.Subject, "self"):
		if ctx.BindDN == "" || ctx.BindDN != ctx.TargetDN {
			return false
		}
	default:
		if ctx.BindDN != ldap.NormalizeDN(r.Subject) {
			return false
		}
	}
	if r.Target != "" {
		target := ldap.NormalizeDN(r.Target)
		if ctx.TargetDN != target {
			if !r.TargetSubtree || !ldap.IsDescendant(ctx.TargetDN, target) {
				return false
			}
		}
	}
	return true
}

// Evaluator evaluates access rules against operation contexts. It is built
// at startup and read-only afterwards.
type Evaluator struct {
	rules        []Rule
	defaultAllow bool
}

// NewEvaluator creates an evaluator over the given rules. defaultAllow is
// the decision when no rule matches.
func NewEvaluator(rules []Rule, defaultAllow bool) *Evaluator {
	return &Evaluator{rules: rules, defaultAllow: defaultAllow}
}

// CheckAccess determines whether the operation is allowed. First matching
// rule wins; without a match, the default policy decides.
func (e *Evaluator) CheckAccess(ctx *AccessContext) bool {
	if ctx == nil {
		return e.defaultAllow
	}
	for i := range e.rules {
		if e.rules[i].matches(ctx) {
			return !e.rules[i].Deny
		}
	}
	return e.defaultAllow
}
