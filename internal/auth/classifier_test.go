package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/marketplace-service/internal/auth"
)

func TestClassifyRequest(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   auth.Classification
	}{
		{"register is public", "POST", "/api/auth/register", auth.RequestPublic},
		{"login is public", "POST", "/api/auth/login", auth.RequestPublic},
		{"health is public", "GET", "/health/live", auth.RequestPublic},
		{"product listing is public", "GET", "/api/products", auth.RequestPublic},
		{"numeric product id is public", "GET", "/api/products/42", auth.RequestPublic},
		{"non-numeric id is protected", "GET", "/api/products/abc", auth.RequestProtected},
		{"trailing slash is protected", "GET", "/api/products/42/", auth.RequestProtected},
		{"seller listing is protected", "GET", "/api/products/seller", auth.RequestProtected},
		{"product create is protected", "POST", "/api/products", auth.RequestProtected},
		{"product delete is protected", "DELETE", "/api/products/42", auth.RequestProtected},
		{"cart is protected", "POST", "/api/cart", auth.RequestProtected},
		{"promotion request is protected", "POST", "/api/admin-request/request", auth.RequestProtected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ClassifyRequest(tt.method, tt.path))
			// classification is deterministic
			assert.Equal(t, tt.want, auth.ClassifyRequest(tt.method, tt.path))
		})
	}
}
