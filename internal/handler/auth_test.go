package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerValue(t *testing.T) {
	get := func(header string) (string, bool) {
		r := httptest.NewRequest("POST", "/api/auth/logout", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		return bearerValue(r)
	}

	secret, ok := get("Bearer s3cret")
	assert.True(t, ok)
	assert.Equal(t, "s3cret", secret)

	// Exactly two space-separated tokens, same rule the resolver applies
	_, ok = get("Bearer  s3cret")
	assert.False(t, ok, "a doubled space is malformed")
	_, ok = get("")
	assert.False(t, ok)
	_, ok = get("Bearer")
	assert.False(t, ok)
	_, ok = get("Bearer s3cret extra")
	assert.False(t, ok)
}
