package auth

import (
	"strings"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RequirementKind distinguishes the three access-rule outcomes.
type RequirementKind int

const (
	// RequirementPublic needs no identity at all.
	RequirementPublic RequirementKind = iota
	// RequirementAuthenticated admits any non-empty identity.
	RequirementAuthenticated
	// RequirementRoles admits identities intersecting the rule's role set.
	RequirementRoles
)

// Requirement is the resolved access demand for a (method, path) pair.
type Requirement struct {
	Kind  RequirementKind
	Roles domain.RoleSet
}

// AccessRule maps a method and path pattern onto a requirement. Patterns
// support exact segments, "*" (any one segment), ":num" (digits-only
// segment), and a trailing "**" (any remainder, including empty).
type AccessRule struct {
	Method      string // HTTP verb, or "*" for any
	Pattern     string
	Requirement Requirement
}

// Policy is an ordered access-rule table. Declaration order is match
// priority: the first matching rule wins.
type Policy struct {
	rules []AccessRule
}

// NewPolicy builds a policy from the given rules, preserving order.
func NewPolicy(rules []AccessRule) *Policy {
	return &Policy{rules: rules}
}

// RequiredRoles resolves the requirement for a request. The final catch-all
// rule guarantees a match; a table without one denies by requiring
// authentication for anything unmatched.
func (p *Policy) RequiredRoles(method, path string) Requirement {
	for _, rule := range p.rules {
		if rule.Method != "*" && rule.Method != method {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return rule.Requirement
		}
	}
	return Requirement{Kind: RequirementAuthenticated}
}

func matchPattern(pattern, path string) bool {
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range patSegs {
		if seg == "**" {
			return true
		}
		if i >= len(pathSegs) {
			return false
		}
		switch seg {
		case "*":
			// any single segment
		case ":num":
			if !isDigits(pathSegs[i]) {
				return false
			}
		default:
			if seg != pathSegs[i] {
				return false
			}
		}
	}
	return len(patSegs) == len(pathSegs)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func public() Requirement {
	return Requirement{Kind: RequirementPublic}
}

func authenticated() Requirement {
	return Requirement{Kind: RequirementAuthenticated}
}

func roles(rs ...domain.Role) Requirement {
	return Requirement{Kind: RequirementRoles, Roles: domain.NewRoleSet(rs...)}
}

// DefaultPolicy declares the marketplace access table. Order matters: the
// seller listing rule must precede the numeric product-by-id rule, and the
// admin-only promotion paths must precede the authenticated-only ones.
func DefaultPolicy() *Policy {
	return NewPolicy([]AccessRule{
		{Method: "*", Pattern: "/api/auth/**", Requirement: public()},
		{Method: "*", Pattern: "/health/**", Requirement: public()},

		{Method: "*", Pattern: "/v3/api-docs/**", Requirement: public()},
		{Method: "*", Pattern: "/swagger-ui/**", Requirement: public()},
		{Method: "*", Pattern: "/swagger-ui.html", Requirement: public()},

		{Method: "GET", Pattern: "/api/products", Requirement: public()},
		{Method: "GET", Pattern: "/api/products/ai/suggestions", Requirement: roles(domain.RoleUser)},
		{Method: "GET", Pattern: "/api/products/seller", Requirement: roles(domain.RoleSeller, domain.RoleAdmin)},
		{Method: "GET", Pattern: "/api/products/:num", Requirement: public()},

		{Method: "*", Pattern: "/api/reports/user/**", Requirement: roles(domain.RoleUser)},

		{Method: "POST", Pattern: "/api/products/**", Requirement: roles(domain.RoleSeller, domain.RoleAdmin)},
		{Method: "PUT", Pattern: "/api/products/**", Requirement: roles(domain.RoleSeller, domain.RoleAdmin)},
		{Method: "DELETE", Pattern: "/api/products/**", Requirement: roles(domain.RoleSeller, domain.RoleAdmin)},

		{Method: "*", Pattern: "/api/cart/**", Requirement: roles(domain.RoleUser)},

		{Method: "*", Pattern: "/api/admin/**", Requirement: roles(domain.RoleAdmin)},
		{Method: "*", Pattern: "/api/admin-request/pending", Requirement: roles(domain.RoleAdmin)},
		{Method: "*", Pattern: "/api/admin-request/approve/**", Requirement: roles(domain.RoleAdmin)},
		{Method: "*", Pattern: "/api/admin-request/reject/**", Requirement: roles(domain.RoleAdmin)},

		{Method: "*", Pattern: "/api/admin-request/request", Requirement: authenticated()},
		{Method: "*", Pattern: "/api/admin-request/has-pending", Requirement: authenticated()},

		{Method: "*", Pattern: "/**", Requirement: authenticated()},
	})
}
