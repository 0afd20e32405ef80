package auth

import (
	"regexp"
	"strings"
)

// Classification is the outcome of the public/protected split. It is
// independent of any per-role policy: protected paths demand a valid token
// before the access policy is even consulted.
type Classification int

const (
	RequestPublic Classification = iota
	RequestProtected
)

// Product-by-id is public only for a strict numeric id, no trailing slash.
var productByIDPattern = regexp.MustCompile(`^/api/products/\d+$`)

// ClassifyRequest decides whether a request requires authentication.
// Rules are evaluated in order; first match wins.
func ClassifyRequest(method, path string) Classification {
	if strings.HasPrefix(path, "/api/auth/") {
		return RequestPublic
	}
	if strings.HasPrefix(path, "/health/") {
		return RequestPublic
	}
	if method == "GET" && path == "/api/products" {
		return RequestPublic
	}
	if method == "GET" && productByIDPattern.MatchString(path) {
		return RequestPublic
	}
	return RequestProtected
}
